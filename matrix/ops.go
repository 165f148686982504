// Package matrix: shape surgery used by the incremental realignment
// engine. All functions here allocate a fresh Dense; receivers are
// read-only except where noted.
package matrix

import "fmt"

// AppendCols returns a new matrix with n extra columns appended, every
// new cell set to fill. n == 0 returns a plain clone. Existing columns
// keep their order and values.
// Complexity: O(r*(c+n)).
func (m *Dense) AppendCols(n int, fill float64) (*Dense, error) {
	if n < 0 {
		return nil, fmt.Errorf("append %d columns: %w", n, ErrInvalidDimensions)
	}
	if n == 0 {
		return m.Clone(), nil
	}
	out, err := NewDense(m.r, m.c+n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < m.r; i++ {
		// Copy the original row, then set the padded tail.
		copy(out.data[i*out.c:i*out.c+m.c], m.data[i*m.c:(i+1)*m.c])
		for j := m.c; j < out.c; j++ {
			out.data[i*out.c+j] = fill
		}
	}
	return out, nil
}

// VStack returns a new matrix of a's rows followed by b's rows.
// The operands must share a column count (ErrDimensionMismatch).
// Complexity: O((ra+rb)*c).
func VStack(a, b *Dense) (*Dense, error) {
	if a == nil || b == nil {
		return nil, ErrNilMatrix
	}
	if a.c != b.c {
		return nil, fmt.Errorf("stack %d-col onto %d-col: %w", b.c, a.c, ErrDimensionMismatch)
	}
	out := &Dense{r: a.r + b.r, c: a.c, data: make([]float64, (a.r+b.r)*a.c)}
	copy(out.data, a.data)
	copy(out.data[len(a.data):], b.data)
	return out, nil
}

// SliceRows returns a new matrix holding rows [from, to).
// The range must be non-empty and within bounds.
// Complexity: O((to-from)*c).
func (m *Dense) SliceRows(from, to int) (*Dense, error) {
	if from < 0 || to > m.r || from >= to {
		return nil, fmt.Errorf("slice rows [%d,%d) of %d: %w", from, to, m.r, ErrIndexOutOfBounds)
	}
	out := &Dense{r: to - from, c: m.c, data: make([]float64, (to-from)*m.c)}
	copy(out.data, m.data[from*m.c:to*m.c])
	return out, nil
}

// DeleteRows returns a new matrix with the given row positions removed.
// Duplicated positions are ignored; removing every row is an error since
// a Dense is never empty.
// Complexity: O(r*c).
func (m *Dense) DeleteRows(positions []int) (*Dense, error) {
	drop := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		if p < 0 || p >= m.r {
			return nil, fmt.Errorf("delete row %d of %d: %w", p, m.r, ErrIndexOutOfBounds)
		}
		drop[p] = struct{}{}
	}
	if len(drop) == m.r {
		return nil, fmt.Errorf("deleting all %d rows: %w", m.r, ErrInvalidDimensions)
	}
	out := &Dense{r: m.r - len(drop), c: m.c, data: make([]float64, 0, (m.r-len(drop))*m.c)}
	for i := 0; i < m.r; i++ {
		if _, gone := drop[i]; gone {
			continue
		}
		out.data = append(out.data, m.data[i*m.c:(i+1)*m.c]...)
	}
	return out, nil
}

// AddRowInto folds row src into row dst in place (dst += src,
// element-wise). Shape is unchanged, so this is the one mutating helper
// beside Set; callers fold on a working Clone.
// Complexity: O(c).
func (m *Dense) AddRowInto(dst, src int) error {
	if dst < 0 || dst >= m.r {
		return denseErrorf("AddRowInto", dst, 0, ErrIndexOutOfBounds)
	}
	if src < 0 || src >= m.r {
		return denseErrorf("AddRowInto", src, 0, ErrIndexOutOfBounds)
	}
	for j := 0; j < m.c; j++ {
		m.data[dst*m.c+j] += m.data[src*m.c+j]
	}
	return nil
}
