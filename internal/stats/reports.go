package stats

import (
	"time"

	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/model"
)

// UnknownUserType labels trips whose user type cell was blank.
const UnknownUserType = "Unknown"

// TimeStats holds the most frequent times of travel.
// Month and day are only computed when that axis was not filtered.
type TimeStats struct {
	PopularMonth  time.Month `json:"popular_month,omitempty"`
	PopularDay    int        `json:"popular_day"` // 0=Monday..6=Sunday
	PopularHour   int        `json:"popular_hour"`
	MonthFiltered bool       `json:"month_filtered"`
	DayFiltered   bool       `json:"day_filtered"`
}

// PopularDayName returns the weekday name for PopularDay.
func (s TimeStats) PopularDayName() string {
	return time.Weekday((s.PopularDay + 1) % 7).String()
}

// StationStats holds the most popular stations and trip.
type StationStats struct {
	PopularTrip  model.StationPair `json:"popular_trip"`
	PopularStart string            `json:"popular_start"`
	PopularEnd   string            `json:"popular_end"`
	StartCount   int               `json:"start_count"`
	EndCount     int               `json:"end_count"`
	TripCount    int               `json:"trip_count"`
}

// DurationStats holds total and mean trip duration in seconds.
type DurationStats struct {
	Total float64 `json:"total_seconds"`
	Mean  float64 `json:"mean_seconds"`
	Trips int     `json:"trips"`
}

// BirthYearStats holds the earliest, latest and most common birth year.
type BirthYearStats struct {
	Earliest   int `json:"earliest"`
	Latest     int `json:"latest"`
	MostCommon int `json:"most_common"`
}

// UserStats holds user type, gender and birth year breakdowns.
// Gender and BirthYears are nil when the data does not carry them.
type UserStats struct {
	BirthYears *BirthYearStats `json:"birth_years,omitempty"`
	UserTypes  []Count         `json:"user_types"`
	Gender     []Count         `json:"gender,omitempty"`
}

// ComputeTimeStats finds the most common month, weekday and start hour.
func ComputeTimeStats(table *dataset.Table, filter model.Filter) (TimeStats, error) {
	if table.Len() == 0 {
		return TimeStats{}, ErrNoTrips
	}

	filter = filter.Normalize()
	result := TimeStats{
		MonthFiltered: filter.FiltersMonth(),
		DayFiltered:   filter.FiltersDay(),
	}

	months := make(map[int]int)
	days := make(map[int]int)
	hours := make(map[int]int)
	for _, trip := range table.Trips {
		months[int(trip.Month())]++
		days[trip.MondayIndex()]++
		hours[trip.Hour()]++
	}

	if !result.MonthFiltered {
		month, _, _ := Mode(months)
		result.PopularMonth = time.Month(month)
	}
	if !result.DayFiltered {
		result.PopularDay, _, _ = Mode(days)
	}
	result.PopularHour, _, _ = Mode(hours)

	return result, nil
}

// ComputeStationStats finds the most common start station, end station and station pair.
func ComputeStationStats(table *dataset.Table) (StationStats, error) {
	if table.Len() == 0 {
		return StationStats{}, ErrNoTrips
	}

	starts := make(map[string]int)
	ends := make(map[string]int)
	pairs := make(map[model.StationPair]int)
	for _, trip := range table.Trips {
		starts[trip.StartStation]++
		ends[trip.EndStation]++
		pairs[model.StationPair{Start: trip.StartStation, End: trip.EndStation}]++
	}

	var result StationStats
	result.PopularStart, result.StartCount, _ = Mode(starts)
	result.PopularEnd, result.EndCount, _ = Mode(ends)
	result.PopularTrip, result.TripCount, _ = ModeFunc(pairs, model.StationPair.Less)
	return result, nil
}

// ComputeDurationStats sums and averages trip durations.
func ComputeDurationStats(table *dataset.Table) (DurationStats, error) {
	if table.Len() == 0 {
		return DurationStats{}, ErrNoTrips
	}

	var total float64
	for _, trip := range table.Trips {
		total += trip.Duration
	}

	return DurationStats{
		Total: total,
		Mean:  total / float64(table.Len()),
		Trips: table.Len(),
	}, nil
}

// ComputeUserStats breaks trips down by user type, gender and birth year.
// User type counts always sum to the number of trips.
func ComputeUserStats(table *dataset.Table) (UserStats, error) {
	if table.Len() == 0 {
		return UserStats{}, ErrNoTrips
	}

	userTypes := make(map[string]int)
	genders := make(map[string]int)
	years := make(map[int]int)
	for _, trip := range table.Trips {
		userType := trip.UserType
		if userType == "" {
			userType = UnknownUserType
		}
		userTypes[userType]++

		if trip.Gender != "" {
			genders[trip.Gender]++
		}
		if trip.BirthYear != 0 {
			years[trip.BirthYear]++
		}
	}

	result := UserStats{UserTypes: SortedCounts(userTypes)}

	if table.Columns.HasGender && len(genders) > 0 {
		result.Gender = SortedCounts(genders)
	}

	if table.Columns.HasBirthYear && len(years) > 0 {
		birth := &BirthYearStats{}
		first := true
		for year := range years {
			if first || year < birth.Earliest {
				birth.Earliest = year
			}
			if first || year > birth.Latest {
				birth.Latest = year
			}
			first = false
		}
		birth.MostCommon, _, _ = Mode(years)
		result.BirthYears = birth
	}

	return result, nil
}
