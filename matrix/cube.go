package matrix

import (
	"fmt"
	"math"
)

// Missing is the missing-value marker used in detection layers for
// time points an algorithm has not scored yet.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Cube is a T×G×A array: time points by groups by detection algorithms.
// It backs the alarm, UCL and LCL layers of a surveillance series.
// Storage is flat, row-major with depth fastest: (t, g, a) lives at
// (t*c+g)*d + a.
type Cube struct {
	r, c, d int       // rows (time points), columns (groups), depth (algorithms)
	data    []float64 // flat backing storage, length == r*c*d
}

// NewCube creates an r×c×d Cube with every cell set to fill.
// Complexity: O(r*c*d).
func NewCube(rows, cols, depth int, fill float64) (*Cube, error) {
	if rows <= 0 || cols <= 0 || depth <= 0 {
		return nil, ErrInvalidDimensions
	}
	data := make([]float64, rows*cols*depth)
	if fill != 0 {
		for i := range data {
			data[i] = fill
		}
	}
	return &Cube{r: rows, c: cols, d: depth, data: data}, nil
}

// Rows returns the number of time points.
func (q *Cube) Rows() int { return q.r }

// Cols returns the number of groups.
func (q *Cube) Cols() int { return q.c }

// Depth returns the number of detection algorithms.
func (q *Cube) Depth() int { return q.d }

// indexOf computes the flat index for (row, col, lay) with bounds checks.
func (q *Cube) indexOf(method string, row, col, lay int) (int, error) {
	if row < 0 || row >= q.r || col < 0 || col >= q.c || lay < 0 || lay >= q.d {
		return 0, fmt.Errorf("Cube.%s(%d,%d,%d): %w", method, row, col, lay, ErrIndexOutOfBounds)
	}
	return (row*q.c+col)*q.d + lay, nil
}

// At retrieves the element at (row, col, lay).
// Complexity: O(1).
func (q *Cube) At(row, col, lay int) (float64, error) {
	idx, err := q.indexOf("At", row, col, lay)
	if err != nil {
		return 0, err
	}
	return q.data[idx], nil
}

// Set assigns value v at (row, col, lay).
// Complexity: O(1).
func (q *Cube) Set(row, col, lay int, v float64) error {
	idx, err := q.indexOf("Set", row, col, lay)
	if err != nil {
		return err
	}
	q.data[idx] = v
	return nil
}

// Clone returns a deep copy of the Cube.
// Complexity: O(r*c*d).
func (q *Cube) Clone() *Cube {
	data := make([]float64, len(q.data))
	copy(data, q.data)
	return &Cube{r: q.r, c: q.c, d: q.d, data: data}
}

// AppendCols returns a new Cube with n extra group columns appended,
// every new cell set to fill.
// Complexity: O(r*(c+n)*d).
func (q *Cube) AppendCols(n int, fill float64) (*Cube, error) {
	if n < 0 {
		return nil, fmt.Errorf("append %d columns: %w", n, ErrInvalidDimensions)
	}
	if n == 0 {
		return q.Clone(), nil
	}
	out, err := NewCube(q.r, q.c+n, q.d, fill)
	if err != nil {
		return nil, err
	}
	for i := 0; i < q.r; i++ {
		// One copy per original (row, col) lane; padded lanes keep fill.
		copy(out.data[(i*out.c)*q.d:(i*out.c+q.c)*q.d], q.data[(i*q.c)*q.d:(i+1)*q.c*q.d])
	}
	return out, nil
}

// SliceRows returns a new Cube holding time points [from, to).
// Complexity: O((to-from)*c*d).
func (q *Cube) SliceRows(from, to int) (*Cube, error) {
	if from < 0 || to > q.r || from >= to {
		return nil, fmt.Errorf("slice rows [%d,%d) of %d: %w", from, to, q.r, ErrIndexOutOfBounds)
	}
	out := &Cube{r: to - from, c: q.c, d: q.d, data: make([]float64, (to-from)*q.c*q.d)}
	copy(out.data, q.data[from*q.c*q.d:to*q.c*q.d])
	return out, nil
}

// VStackCube returns a new Cube of a's time points followed by b's.
// Operands must share both group and algorithm dimensions.
// Complexity: O((ra+rb)*c*d).
func VStackCube(a, b *Cube) (*Cube, error) {
	if a == nil || b == nil {
		return nil, ErrNilMatrix
	}
	if a.c != b.c || a.d != b.d {
		return nil, fmt.Errorf("stack %dx%d layers onto %dx%d: %w", b.c, b.d, a.c, a.d, ErrDimensionMismatch)
	}
	out := &Cube{r: a.r + b.r, c: a.c, d: a.d, data: make([]float64, (a.r+b.r)*a.c*a.d)}
	copy(out.data, a.data)
	copy(out.data[len(a.data):], b.data)
	return out, nil
}
