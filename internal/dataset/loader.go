package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/Veraticus/bikeshare/internal/config"
	"github.com/Veraticus/bikeshare/internal/model"
)

// Loader resolves a filter selection into a filtered trip table.
type Loader struct {
	source Source
	cfg    config.Config
}

// NewLoader creates a loader reading from source.
func NewLoader(cfg config.Config, source Source) *Loader {
	return &Loader{cfg: cfg, source: source}
}

// Load opens the city's trips and keeps those matching the month and day filters.
func (l *Loader) Load(ctx context.Context, filter model.Filter) (*Table, error) {
	filter = filter.Normalize()
	if !l.cfg.ValidCity(filter.City) {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownCity, filter.City)
	}

	table, err := l.source.Open(ctx, filter.City)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s trips: %w", filter.City, err)
	}

	filtered, err := ApplyFilter(l.cfg, table, filter)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded trips",
		"city", filter.City,
		"month", filter.Month,
		"day", filter.Day,
		"total", table.Len(),
		"matched", filtered.Len())

	return filtered, nil
}

// ApplyFilter narrows table to the filter's month and weekday. It is idempotent.
func ApplyFilter(cfg config.Config, table *Table, filter model.Filter) (*Table, error) {
	filter = filter.Normalize()
	out := table

	if filter.FiltersMonth() {
		month, ok := cfg.MonthNumber(filter.Month)
		if !ok {
			return nil, fmt.Errorf("%w: month %q", common.ErrInvalidFilter, filter.Month)
		}
		out = out.Where(func(t model.Trip) bool { return t.Month() == month })
	}

	if filter.FiltersDay() {
		if !cfg.ValidDay(filter.Day) {
			return nil, fmt.Errorf("%w: day %q", common.ErrInvalidFilter, filter.Day)
		}
		out = out.Where(func(t model.Trip) bool {
			return strings.EqualFold(t.Weekday().String(), filter.Day)
		})
	}

	return out, nil
}
