package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/model"
)

// TableBuilder provides a fluent interface for constructing trip tables.
//
// Example:
//
//	table := testutil.NewTableBuilder(t, "chicago").
//		WithDemographics().
//		WithTrip("2017-06-23 15:09:32", 321, "Wood St", "Damen Ave").
//		Build()
type TableBuilder struct {
	t     *testing.T
	table *dataset.Table
}

// NewTableBuilder starts an empty table for city without optional columns.
func NewTableBuilder(t *testing.T, city string) *TableBuilder {
	t.Helper()
	return &TableBuilder{
		t: t,
		table: &dataset.Table{
			City: city,
			Columns: model.Columns{
				Header: []string{
					dataset.ColStartTime, dataset.ColDuration, dataset.ColStartStation,
					dataset.ColEndStation, dataset.ColUserType,
				},
			},
		},
	}
}

// WithDemographics marks the table as carrying end time, gender and birth year columns.
func (b *TableBuilder) WithDemographics() *TableBuilder {
	b.table.Columns = model.Columns{
		Header:       dataset.DefaultHeader,
		HasEndTime:   true,
		HasGender:    true,
		HasBirthYear: true,
	}
	return b
}

// WithTrip adds a subscriber trip starting at start ("2006-01-02 15:04:05").
func (b *TableBuilder) WithTrip(start string, duration float64, from, to string) *TableBuilder {
	return b.WithRider(start, duration, from, to, "Subscriber", "", 0)
}

// WithRider adds a trip with explicit rider details.
func (b *TableBuilder) WithRider(start string, duration float64, from, to, userType, gender string, birthYear int) *TableBuilder {
	b.t.Helper()

	startTime, err := time.Parse("2006-01-02 15:04:05", start)
	if err != nil {
		b.t.Fatalf("invalid start time %q: %v", start, err)
	}

	trip := model.Trip{
		StartTime:    startTime,
		Duration:     duration,
		StartStation: from,
		EndStation:   to,
		UserType:     userType,
		Gender:       gender,
		BirthYear:    birthYear,
	}
	if b.table.Columns.HasEndTime {
		trip.EndTime = startTime.Add(time.Duration(duration * float64(time.Second)))
	}

	b.table.Trips = append(b.table.Trips, trip)
	return b
}

// WithHourlyTrips adds n trips an hour apart from the first of June, at stations "Station 00", "Station 01", ...
func (b *TableBuilder) WithHourlyTrips(n int) *TableBuilder {
	b.t.Helper()

	start := time.Date(2017, time.June, 1, 8, 0, 0, 0, time.UTC)
	for i := range n {
		b.WithTrip(start.Add(time.Duration(i)*time.Hour).Format("2006-01-02 15:04:05"),
			float64(60*(i+1)), stationName(i), "Canal St")
	}
	return b
}

// Build returns the constructed table.
func (b *TableBuilder) Build() *dataset.Table {
	return b.table
}

func stationName(i int) string {
	return fmt.Sprintf("Station %02d", i)
}
