package stats

import (
	"testing"
	"time"

	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return ts
}

func trip(t *testing.T, start, from, to, userType string, duration float64) model.Trip {
	t.Helper()
	return model.Trip{
		StartTime:    at(t, start),
		StartStation: from,
		EndStation:   to,
		UserType:     userType,
		Duration:     duration,
	}
}

func TestMode_TieBreaksToSmallest(t *testing.T) {
	tests := []struct {
		counts   map[int]int
		name     string
		expected int
		found    bool
	}{
		{name: "single winner", counts: map[int]int{3: 1, 7: 4, 9: 2}, expected: 7, found: true},
		{name: "tie picks smallest", counts: map[int]int{17: 3, 8: 3, 12: 1}, expected: 8, found: true},
		{name: "empty", counts: map[int]int{}, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Map iteration order is random; repeat to catch order dependence.
			for range 20 {
				value, _, found := Mode(tt.counts)
				assert.Equal(t, tt.found, found)
				assert.Equal(t, tt.expected, value)
			}
		})
	}
}

func TestModeFunc_StationPairs(t *testing.T) {
	counts := map[model.StationPair]int{
		{Start: "B", End: "A"}: 2,
		{Start: "A", End: "C"}: 2,
		{Start: "A", End: "B"}: 2,
		{Start: "C", End: "C"}: 1,
	}
	for range 20 {
		pair, n, ok := ModeFunc(counts, model.StationPair.Less)
		require.True(t, ok)
		assert.Equal(t, model.StationPair{Start: "A", End: "B"}, pair)
		assert.Equal(t, 2, n)
	}
}

func TestSortedCounts(t *testing.T) {
	counts := SortedCounts(map[string]int{"Customer": 2, "Subscriber": 5, "Dependent": 2})
	assert.Equal(t, []Count{
		{Value: "Subscriber", Count: 5},
		{Value: "Customer", Count: 2},
		{Value: "Dependent", Count: 2},
	}, counts)
}

func TestComputeTimeStats(t *testing.T) {
	table := &dataset.Table{Trips: []model.Trip{
		trip(t, "2017-01-02 08:15", "A", "B", "Subscriber", 60), // Monday
		trip(t, "2017-01-03 08:45", "A", "B", "Subscriber", 60), // Tuesday
		trip(t, "2017-03-07 17:10", "A", "B", "Subscriber", 60), // Tuesday
		trip(t, "2017-03-06 17:20", "A", "B", "Subscriber", 60), // Monday
		trip(t, "2017-03-08 17:05", "A", "B", "Subscriber", 60), // Wednesday
		trip(t, "2017-05-10 23:59", "A", "B", "Subscriber", 60), // Wednesday
	}}

	t.Run("no filters", func(t *testing.T) {
		result, err := ComputeTimeStats(table, model.Filter{City: "chicago", Month: "all", Day: "all"})
		require.NoError(t, err)
		assert.Equal(t, time.March, result.PopularMonth)
		// Monday, Tuesday and Wednesday tie at two trips; Monday is smallest.
		assert.Equal(t, 0, result.PopularDay)
		assert.Equal(t, "Monday", result.PopularDayName())
		assert.Equal(t, 17, result.PopularHour)
		assert.False(t, result.MonthFiltered)
		assert.False(t, result.DayFiltered)
	})

	t.Run("filtered axes are skipped", func(t *testing.T) {
		result, err := ComputeTimeStats(table, model.Filter{City: "chicago", Month: "march", Day: "tuesday"})
		require.NoError(t, err)
		assert.True(t, result.MonthFiltered)
		assert.True(t, result.DayFiltered)
		assert.Zero(t, result.PopularMonth)
		assert.Equal(t, 17, result.PopularHour)
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := ComputeTimeStats(&dataset.Table{}, model.Filter{Month: "all", Day: "all"})
		assert.ErrorIs(t, err, ErrNoTrips)
	})
}

func TestTimeStats_PopularDayName(t *testing.T) {
	assert.Equal(t, "Monday", TimeStats{PopularDay: 0}.PopularDayName())
	assert.Equal(t, "Saturday", TimeStats{PopularDay: 5}.PopularDayName())
	assert.Equal(t, "Sunday", TimeStats{PopularDay: 6}.PopularDayName())
}

func TestComputeStationStats(t *testing.T) {
	table := &dataset.Table{Trips: []model.Trip{
		trip(t, "2017-01-02 08:00", "AB", "C", "Subscriber", 60),
		trip(t, "2017-01-02 08:00", "A", "BC", "Subscriber", 60),
		trip(t, "2017-01-02 08:00", "A", "BC", "Subscriber", 60),
		trip(t, "2017-01-02 08:00", "Lake", "C", "Customer", 60),
	}}

	result, err := ComputeStationStats(table)
	require.NoError(t, err)

	assert.Equal(t, "A", result.PopularStart)
	assert.Equal(t, 2, result.StartCount)
	assert.Equal(t, "BC", result.PopularEnd) // BC and C tie at two; BC sorts first
	assert.Equal(t, model.StationPair{Start: "A", End: "BC"}, result.PopularTrip)
	assert.Equal(t, 2, result.TripCount, "AB+C must not be merged with A+BC")

	_, err = ComputeStationStats(&dataset.Table{})
	assert.ErrorIs(t, err, ErrNoTrips)
}

func TestComputeDurationStats(t *testing.T) {
	table := &dataset.Table{Trips: []model.Trip{
		trip(t, "2017-01-02 08:00", "A", "B", "Subscriber", 321),
		trip(t, "2017-01-02 08:00", "A", "B", "Subscriber", 1610),
		trip(t, "2017-01-02 08:00", "A", "B", "Subscriber", 489.066),
	}}

	result, err := ComputeDurationStats(table)
	require.NoError(t, err)
	assert.InDelta(t, 2420.066, result.Total, 1e-9)
	assert.InDelta(t, 2420.066/3, result.Mean, 1e-9)
	assert.Equal(t, 3, result.Trips)

	_, err = ComputeDurationStats(&dataset.Table{})
	assert.ErrorIs(t, err, ErrNoTrips)
}

func TestComputeUserStats(t *testing.T) {
	trips := []model.Trip{
		trip(t, "2017-01-02 08:00", "A", "B", "Subscriber", 60),
		trip(t, "2017-01-02 08:00", "A", "B", "Subscriber", 60),
		trip(t, "2017-01-02 08:00", "A", "B", "Customer", 60),
		trip(t, "2017-01-02 08:00", "A", "B", "", 60),
	}
	trips[0].Gender, trips[0].BirthYear = "Male", 1992
	trips[1].Gender, trips[1].BirthYear = "Female", 1981
	trips[2].BirthYear = 1992

	t.Run("all columns", func(t *testing.T) {
		table := &dataset.Table{
			Columns: model.Columns{HasGender: true, HasBirthYear: true},
			Trips:   trips,
		}
		result, err := ComputeUserStats(table)
		require.NoError(t, err)

		assert.Equal(t, []Count{
			{Value: "Subscriber", Count: 2},
			{Value: "Customer", Count: 1},
			{Value: UnknownUserType, Count: 1},
		}, result.UserTypes)

		total := 0
		for _, c := range result.UserTypes {
			total += c.Count
		}
		assert.Equal(t, table.Len(), total)

		assert.Equal(t, []Count{{Value: "Female", Count: 1}, {Value: "Male", Count: 1}}, result.Gender)

		require.NotNil(t, result.BirthYears)
		assert.Equal(t, 1981, result.BirthYears.Earliest)
		assert.Equal(t, 1992, result.BirthYears.Latest)
		assert.Equal(t, 1992, result.BirthYears.MostCommon)
	})

	t.Run("optional columns absent", func(t *testing.T) {
		result, err := ComputeUserStats(&dataset.Table{Trips: trips})
		require.NoError(t, err)
		assert.Nil(t, result.Gender)
		assert.Nil(t, result.BirthYears)
	})

	t.Run("columns present but every value missing", func(t *testing.T) {
		table := &dataset.Table{
			Columns: model.Columns{HasGender: true, HasBirthYear: true},
			Trips:   trips[3:],
		}
		result, err := ComputeUserStats(table)
		require.NoError(t, err)
		assert.Nil(t, result.Gender)
		assert.Nil(t, result.BirthYears)
	})

	t.Run("empty table", func(t *testing.T) {
		_, err := ComputeUserStats(&dataset.Table{})
		assert.ErrorIs(t, err, ErrNoTrips)
	})
}
