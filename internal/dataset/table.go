// Package dataset loads city trip files into memory and narrows them by month and weekday.
package dataset

import (
	"strconv"

	"github.com/Veraticus/bikeshare/internal/model"
)

// DefaultHeader labels synthesized cells for trips that carry no raw CSV record.
var DefaultHeader = []string{
	ColStartTime, ColEndTime, ColDuration, ColStartStation,
	ColEndStation, ColUserType, ColGender, ColBirthYear,
}

const timestampLayout = "2006-01-02 15:04:05"

// Table is the in-memory set of trips for one city.
// Narrowing a table never changes its Columns.
type Table struct {
	City    string
	Columns model.Columns
	Trips   []model.Trip
}

// Len returns the number of trips in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Trips)
}

// Rows returns up to n trips starting at offset. Offsets past the end yield nil.
func (t *Table) Rows(offset, n int) []model.Trip {
	if t == nil || offset < 0 || n <= 0 || offset >= len(t.Trips) {
		return nil
	}
	end := min(offset+n, len(t.Trips))
	return t.Trips[offset:end]
}

// Where returns a new table holding only the trips keep accepts.
func (t *Table) Where(keep func(model.Trip) bool) *Table {
	out := &Table{
		City:    t.City,
		Columns: t.Columns,
		Trips:   make([]model.Trip, 0, len(t.Trips)),
	}
	for _, trip := range t.Trips {
		if keep(trip) {
			out.Trips = append(out.Trips, trip)
		}
	}
	return out
}

// Header returns the column labels used when displaying raw rows.
func (t *Table) Header() []string {
	if t == nil || len(t.Columns.Header) == 0 {
		return DefaultHeader
	}
	return t.Columns.Header
}

// Cells returns trip's raw cells, synthesizing them in header order when the source kept none.
func (t *Table) Cells(trip model.Trip) []string {
	header := t.Header()
	if len(trip.Raw) == len(header) {
		return trip.Raw
	}

	cells := make([]string, len(header))
	for i, column := range header {
		cells[i] = cell(trip, column)
	}
	return cells
}

func cell(trip model.Trip, column string) string {
	switch column {
	case ColStartTime:
		return trip.StartTime.Format(timestampLayout)
	case ColEndTime:
		if trip.EndTime.IsZero() {
			return ""
		}
		return trip.EndTime.Format(timestampLayout)
	case ColDuration:
		return strconv.FormatFloat(trip.Duration, 'f', -1, 64)
	case ColStartStation:
		return trip.StartStation
	case ColEndStation:
		return trip.EndStation
	case ColUserType:
		return trip.UserType
	case ColGender:
		return trip.Gender
	case ColBirthYear:
		if trip.BirthYear == 0 {
			return ""
		}
		return strconv.Itoa(trip.BirthYear)
	default:
		return ""
	}
}
