// Package report runs the four trip reports and formats their results.
package report

import (
	"errors"
	"time"

	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/model"
	"github.com/Veraticus/bikeshare/internal/stats"
)

// Section is one report's result and how long it took to compute.
// Empty is set when the filtered table had no trips.
type Section[T any] struct {
	Result  T             `json:"result"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Empty   bool          `json:"empty"`
}

// Report collects the time, station, duration and user reports for one filtered table.
type Report struct {
	Filter   model.Filter                 `json:"filter"`
	Where    string                       `json:"where,omitempty"`
	Time     Section[stats.TimeStats]     `json:"time"`
	Stations Section[stats.StationStats]  `json:"stations"`
	Duration Section[stats.DurationStats] `json:"duration"`
	Users    Section[stats.UserStats]     `json:"users"`
	Trips    int                          `json:"trips"`
}

// Generate computes every report over table in a fixed order.
func Generate(table *dataset.Table, filter model.Filter) (*Report, error) {
	r := &Report{
		Filter: filter.Normalize(),
		Trips:  table.Len(),
	}

	var err error
	if r.Time, err = measure(func() (stats.TimeStats, error) {
		return stats.ComputeTimeStats(table, filter)
	}); err != nil {
		return nil, err
	}
	if r.Stations, err = measure(func() (stats.StationStats, error) {
		return stats.ComputeStationStats(table)
	}); err != nil {
		return nil, err
	}
	if r.Duration, err = measure(func() (stats.DurationStats, error) {
		return stats.ComputeDurationStats(table)
	}); err != nil {
		return nil, err
	}
	if r.Users, err = measure(func() (stats.UserStats, error) {
		return stats.ComputeUserStats(table)
	}); err != nil {
		return nil, err
	}

	return r, nil
}

func measure[T any](compute func() (T, error)) (Section[T], error) {
	start := time.Now()
	result, err := compute()
	section := Section[T]{Elapsed: time.Since(start)}

	switch {
	case errors.Is(err, stats.ErrNoTrips):
		section.Empty = true
	case err != nil:
		return section, err
	default:
		section.Result = result
	}
	return section, nil
}
