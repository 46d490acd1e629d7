package model

import "strings"

// All disables a month or day filter.
const All = "all"

// Filter is the city, month and day selection for one session.
// Values are lower-cased; All means no filter on that axis.
type Filter struct {
	City  string `json:"city"`
	Month string `json:"month"`
	Day   string `json:"day"`
}

// Normalize returns a copy with trimmed, lower-cased values.
func (f Filter) Normalize() Filter {
	return Filter{
		City:  strings.ToLower(strings.TrimSpace(f.City)),
		Month: strings.ToLower(strings.TrimSpace(f.Month)),
		Day:   strings.ToLower(strings.TrimSpace(f.Day)),
	}
}

// FiltersMonth reports whether a specific month was requested.
func (f Filter) FiltersMonth() bool {
	return f.Month != "" && f.Month != All
}

// FiltersDay reports whether a specific weekday was requested.
func (f Filter) FiltersDay() bool {
	return f.Day != "" && f.Day != All
}
