// Package config loads update profiles: YAML files describing how a
// batch of raw surveillance records should be ingested (identifier,
// group and date columns, date format, group and overlap policies,
// weekday redistribution). A profile is validated eagerly on load so
// malformed parameters fail before any data is touched.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carolinamerca/vetsyn/series"
	"github.com/carolinamerca/vetsyn/timegrid"
)

// ErrProfileInvalid indicates a malformed update profile; the wrapped
// message names the offending field.
var ErrProfileInvalid = errors.New("config: invalid update profile")

// Profile describes one ingestion run. Field semantics follow
// series.BuildOptions / series.UpdateOptions.
type Profile struct {
	Name        string `yaml:"name"`
	Granularity string `yaml:"granularity"`  // "daily" or "weekly"
	DateFormat  string `yaml:"date_format"`  // Go layout, or "ISOWeek"

	Columns struct {
		ID    []string `yaml:"id"`    // identifier columns, order defines the key
		Group string   `yaml:"group"` // group-label column
		Date  string   `yaml:"date"`  // event-date column
	} `yaml:"columns"`

	AddNewGroups    bool `yaml:"add_new_groups"`
	ReplaceExisting bool `yaml:"replace_existing"`

	RemoveWeekdays      []string `yaml:"remove_weekdays"` // weekday names, e.g. "Saturday"
	RedistributeOffsets []int    `yaml:"redistribute_offsets"`
}

// Load parses and validates the YAML profile at path.
func Load(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrProfileInvalid)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	slog.Info("loaded update profile", "path", path, "name", p.Name)
	return &p, nil
}

// Validate checks every field that later stages would otherwise trip
// over, so a bad profile fails before any record is read.
func (p *Profile) Validate() error {
	if _, err := timegrid.ParseGranularity(p.Granularity); err != nil {
		return fmt.Errorf("granularity %q: %w", p.Granularity, ErrProfileInvalid)
	}
	if p.DateFormat == "" {
		return fmt.Errorf("date_format missing: %w", ErrProfileInvalid)
	}
	if len(p.Columns.ID) == 0 {
		return fmt.Errorf("columns.id missing: %w", ErrProfileInvalid)
	}
	if p.Columns.Group == "" || p.Columns.Date == "" {
		return fmt.Errorf("columns.group/columns.date missing: %w", ErrProfileInvalid)
	}
	if len(p.RemoveWeekdays) != len(p.RedistributeOffsets) {
		return fmt.Errorf("%d remove_weekdays with %d redistribute_offsets: %w",
			len(p.RemoveWeekdays), len(p.RedistributeOffsets), ErrProfileInvalid)
	}
	if _, err := p.weekdays(); err != nil {
		return err
	}
	return nil
}

// weekdayNames maps profile weekday names onto time.Weekday codes.
var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

func (p *Profile) weekdays() ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(p.RemoveWeekdays))
	for _, name := range p.RemoveWeekdays {
		wd, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("remove_weekdays %q: %w", name, ErrProfileInvalid)
		}
		out = append(out, wd)
	}
	return out, nil
}

// BuildOptions converts the profile into initial-construction options.
func (p *Profile) BuildOptions() (series.BuildOptions, error) {
	if err := p.Validate(); err != nil {
		return series.BuildOptions{}, err
	}
	gran, _ := timegrid.ParseGranularity(p.Granularity)
	remove, _ := p.weekdays()
	return series.BuildOptions{
		Granularity:         gran,
		DateLayout:          p.DateFormat,
		RemoveWeekdays:      remove,
		RedistributeOffsets: p.RedistributeOffsets,
	}, nil
}

// UpdateOptions converts the profile into incremental-update options.
func (p *Profile) UpdateOptions() (series.UpdateOptions, error) {
	if err := p.Validate(); err != nil {
		return series.UpdateOptions{}, err
	}
	remove, _ := p.weekdays()
	return series.UpdateOptions{
		DateLayout:          p.DateFormat,
		AddNewGroups:        p.AddNewGroups,
		ReplaceExisting:     p.ReplaceExisting,
		RemoveWeekdays:      remove,
		RedistributeOffsets: p.RedistributeOffsets,
	}, nil
}
