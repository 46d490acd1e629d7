// Package model holds the bikeshare trip record and the filter selection.
package model

import (
	"time"
)

// Trip represents a single bikeshare ride from a city trip file.
type Trip struct {
	StartTime    time.Time
	EndTime      time.Time // Zero when the source has no End Time column
	StartStation string
	EndStation   string
	UserType     string
	Gender       string // Empty when missing
	Raw          []string
	Duration     float64 // Seconds
	BirthYear    int     // 0 when missing
}

// Month returns the calendar month the trip started in.
func (t Trip) Month() time.Month {
	return t.StartTime.Month()
}

// Weekday returns the day of week the trip started on.
func (t Trip) Weekday() time.Weekday {
	return t.StartTime.Weekday()
}

// Hour returns the hour of day (0-23) the trip started in.
func (t Trip) Hour() int {
	return t.StartTime.Hour()
}

// MondayIndex maps the start weekday to 0=Monday..6=Sunday.
func (t Trip) MondayIndex() int {
	return (int(t.StartTime.Weekday()) + 6) % 7
}

// Columns describes which columns a trip source carried.
type Columns struct {
	Header       []string
	HasEndTime   bool
	HasGender    bool
	HasBirthYear bool
}

// StationPair is a composite start/end station key.
type StationPair struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Less orders pairs by start station, then end station.
func (p StationPair) Less(other StationPair) bool {
	if p.Start != other.Start {
		return p.Start < other.Start
	}
	return p.End < other.End
}
