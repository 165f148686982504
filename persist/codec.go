package persist

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carolinamerca/vetsyn/matrix"
	"github.com/carolinamerca/vetsyn/series"
	"github.com/carolinamerca/vetsyn/timegrid"
)

// Sentinel errors for persist operations.
var (
	// ErrUnknownSnapshot indicates a snapshot name absent from the store.
	ErrUnknownSnapshot = errors.New("persist: unknown snapshot")
	// ErrCorruptSnapshot indicates a payload that does not decode into a
	// valid series.
	ErrCorruptSnapshot = errors.New("persist: corrupt snapshot payload")
)

// snapshot is the JSON shape of a serialized series. Absent layers are
// omitted entirely so "never computed" survives the round trip.
type snapshot struct {
	Granularity string       `json:"granularity"`
	Labels      []string     `json:"labels"`
	Groups      []string     `json:"groups"`
	Counts      [][]float64  `json:"counts"`
	Baseline    [][]float64  `json:"baseline,omitempty"`
	Alarms      *cubePayload `json:"alarms,omitempty"`
	UCL         *cubePayload `json:"ucl,omitempty"`
	LCL         *cubePayload `json:"lcl,omitempty"`
	GroupModel  []string     `json:"groupModel,omitempty"`
}

// cubePayload carries a detection layer; nil cells encode the missing
// marker, which JSON numbers cannot (NaN is not valid JSON).
type cubePayload struct {
	Depth int            `json:"depth"`
	Cells [][][]*float64 `json:"cells"` // [time][group][algorithm]
}

// Encode serializes a series into its JSON snapshot.
func Encode(s *series.Series) ([]byte, error) {
	if s == nil {
		return nil, series.ErrNilSeries
	}
	snap := snapshot{
		Granularity: s.Granularity().String(),
		Labels:      s.Calendar().Labels(),
		Groups:      s.Groups(),
		GroupModel:  s.GroupModel(),
	}
	var err error
	if snap.Counts, err = denseRows(s.Counts()); err != nil {
		return nil, err
	}
	if b := s.Baseline(); b != nil {
		if snap.Baseline, err = denseRows(b); err != nil {
			return nil, err
		}
	}
	for _, layer := range []struct {
		cube *matrix.Cube
		dst  **cubePayload
	}{
		{s.Alarms(), &snap.Alarms},
		{s.UCL(), &snap.UCL},
		{s.LCL(), &snap.LCL},
	} {
		if layer.cube == nil {
			continue
		}
		p, err := packCube(layer.cube)
		if err != nil {
			return nil, err
		}
		*layer.dst = p
	}
	return json.Marshal(snap)
}

// Decode rebuilds a series from its JSON snapshot. The result passes
// through full series validation, so a tampered payload surfaces as
// ErrCorruptSnapshot wrapping the underlying violation.
func Decode(payload []byte) (*series.Series, error) {
	var snap snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorruptSnapshot)
	}
	gran, err := timegrid.ParseGranularity(snap.Granularity)
	if err != nil {
		return nil, fmt.Errorf("granularity %q: %w", snap.Granularity, ErrCorruptSnapshot)
	}
	grid, err := timegrid.FromLabels(gran, snap.Labels)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorruptSnapshot)
	}
	counts, err := matrix.FromRows(snap.Counts)
	if err != nil {
		return nil, fmt.Errorf("counts: %v: %w", err, ErrCorruptSnapshot)
	}

	var opts []series.Option
	if snap.Baseline != nil {
		baseline, err := matrix.FromRows(snap.Baseline)
		if err != nil {
			return nil, fmt.Errorf("baseline: %v: %w", err, ErrCorruptSnapshot)
		}
		opts = append(opts, series.WithBaseline(baseline))
	}
	for _, layer := range []struct {
		src  *cubePayload
		with func(*matrix.Cube) series.Option
	}{
		{snap.Alarms, series.WithAlarms},
		{snap.UCL, series.WithUCL},
		{snap.LCL, series.WithLCL},
	} {
		if layer.src == nil {
			continue
		}
		cube, err := unpackCube(layer.src)
		if err != nil {
			return nil, err
		}
		opts = append(opts, layer.with(cube))
	}
	if snap.GroupModel != nil {
		opts = append(opts, series.WithGroupModel(snap.GroupModel))
	}

	s, err := series.New(counts, grid, snap.Groups, opts...)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorruptSnapshot)
	}
	return s, nil
}

// denseRows flattens a Dense into row slices for JSON encoding.
func denseRows(m *matrix.Dense) ([][]float64, error) {
	out := make([][]float64, m.Rows())
	for i := range out {
		row, err := m.Row(i)
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

// packCube converts a Cube into its payload, nil-ing missing cells.
func packCube(q *matrix.Cube) (*cubePayload, error) {
	cells := make([][][]*float64, q.Rows())
	for i := range cells {
		cells[i] = make([][]*float64, q.Cols())
		for j := range cells[i] {
			lane := make([]*float64, q.Depth())
			for a := range lane {
				v, err := q.At(i, j, a)
				if err != nil {
					return nil, err
				}
				if !matrix.IsMissing(v) {
					val := v
					lane[a] = &val
				}
			}
			cells[i][j] = lane
		}
	}
	return &cubePayload{Depth: q.Depth(), Cells: cells}, nil
}

// unpackCube rebuilds a Cube from its payload, restoring missing cells.
func unpackCube(p *cubePayload) (*matrix.Cube, error) {
	if len(p.Cells) == 0 || len(p.Cells[0]) == 0 || p.Depth <= 0 {
		return nil, fmt.Errorf("empty layer payload: %w", ErrCorruptSnapshot)
	}
	q, err := matrix.NewCube(len(p.Cells), len(p.Cells[0]), p.Depth, matrix.Missing())
	if err != nil {
		return nil, fmt.Errorf("layer: %v: %w", err, ErrCorruptSnapshot)
	}
	for i, plane := range p.Cells {
		if len(plane) != q.Cols() {
			return nil, fmt.Errorf("layer row %d ragged: %w", i, ErrCorruptSnapshot)
		}
		for j, lane := range plane {
			if len(lane) != p.Depth {
				return nil, fmt.Errorf("layer cell (%d,%d) ragged: %w", i, j, ErrCorruptSnapshot)
			}
			for a, v := range lane {
				if v == nil {
					continue
				}
				if err := q.Set(i, j, a, *v); err != nil {
					return nil, err
				}
			}
		}
	}
	return q, nil
}
