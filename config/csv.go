package config

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/carolinamerca/vetsyn/aggregate"
)

// ReadRecordsCSV reads raw event records from a headed CSV file using
// the profile's column bindings. Header names are matched
// case-insensitively after trimming.
func ReadRecordsCSV(path string, p *Profile) ([]aggregate.Record, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[normalize(h)] = i
	}
	col := func(name string) (int, error) {
		i, ok := pos[normalize(name)]
		if !ok {
			return 0, fmt.Errorf("column %q not in csv header: %w", name, ErrProfileInvalid)
		}
		return i, nil
	}

	idCols := make([]int, len(p.Columns.ID))
	for i, name := range p.Columns.ID {
		if idCols[i], err = col(name); err != nil {
			return nil, err
		}
	}
	groupCol, err := col(p.Columns.Group)
	if err != nil {
		return nil, err
	}
	dateCol, err := col(p.Columns.Date)
	if err != nil {
		return nil, err
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv rows: %w", err)
	}
	records := make([]aggregate.Record, 0, len(rows))
	for _, row := range rows {
		id := make([]string, len(idCols))
		for i, c := range idCols {
			id[i] = strings.TrimSpace(row[c])
		}
		records = append(records, aggregate.Record{
			ID:    id,
			Group: strings.TrimSpace(row[groupCol]),
			Date:  strings.TrimSpace(row[dateCol]),
		})
	}
	slog.Info("read raw records", "path", path, "records", len(records))
	return records, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
