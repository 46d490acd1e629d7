package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/Veraticus/bikeshare/internal/config"
	"github.com/Veraticus/bikeshare/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
1423854,2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
955915,2017-05-25 18:19:03,2017-05-25 18:45:53,1610,Theater on the Lake,Sheffield Ave & Waveland Ave,Subscriber,Female,1992.0
9031,2017-01-04 08:27:49,2017-01-04 08:34:45,416,May St & Taylor St,Wood St & Taylor St,Subscriber,Male,1981.0
304487,2017-03-06 13:49:38,2017-03-06 13:55:28,350,Christiana Ave & Lawrence Ave,St. Louis Ave & Balmoral Ave,Subscriber,,
45207,2017-01-17 14:53:07,2017-01-17 15:02:11,534,Clark St & Randolph St,Desplaines St & Jackson Blvd,Customer,,
1473887,2017-06-26 09:01:20,2017-06-26 09:11:06,586,Clinton St & Washington Blvd,Canal St & Madison St,Subscriber,Male,1990.0
`

const washingtonCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
1621326,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
482740,2017-03-11 10:40:00,2017-03-11 10:46:00,402.549,Yuma St & Tenley Circle NW,Connecticut Ave & Yuma St NW,Subscriber
`

func writeCity(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o600))
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	writeCity(t, dir, "chicago.csv", chicagoCSV)
	writeCity(t, dir, "washington.csv", washingtonCSV)

	cfg := config.Default()
	cfg.DataDir = dir
	return cfg
}

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(context.Background(), strings.NewReader(chicagoCSV), "chicago.csv")
	require.NoError(t, err)

	require.Equal(t, 6, table.Len())
	assert.True(t, table.Columns.HasGender)
	assert.True(t, table.Columns.HasBirthYear)
	assert.True(t, table.Columns.HasEndTime)
	assert.Len(t, table.Columns.Header, 9)

	first := table.Trips[0]
	assert.Equal(t, time.Date(2017, time.June, 23, 15, 9, 32, 0, time.UTC), first.StartTime)
	assert.Equal(t, time.Date(2017, time.June, 23, 15, 14, 53, 0, time.UTC), first.EndTime)
	assert.InDelta(t, 321.0, first.Duration, 0.0001)
	assert.Equal(t, "Wood St & Hubbard St", first.StartStation)
	assert.Equal(t, "Damen Ave & Chicago Ave", first.EndStation)
	assert.Equal(t, "Subscriber", first.UserType)
	assert.Equal(t, "Male", first.Gender)
	assert.Equal(t, 1992, first.BirthYear)
	assert.Equal(t, "1423854", first.Raw[0])

	missing := table.Trips[3]
	assert.Empty(t, missing.Gender)
	assert.Zero(t, missing.BirthYear)
}

func TestReadCSV_OptionalColumnsAbsent(t *testing.T) {
	table, err := ReadCSV(context.Background(), strings.NewReader(washingtonCSV), "washington.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.False(t, table.Columns.HasGender)
	assert.False(t, table.Columns.HasBirthYear)
	assert.InDelta(t, 489.066, table.Trips[0].Duration, 0.0001)
}

func TestReadCSV_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			name:    "empty file",
			input:   "",
			message: "missing header row",
		},
		{
			name:    "missing required column",
			input:   "Start Time,Trip Duration,Start Station,End Station\n2017-01-01 00:00:00,1,A,B\n",
			message: `missing column "User Type"`,
		},
		{
			name:    "bad timestamp",
			input:   "Start Time,Trip Duration,Start Station,End Station,User Type\nyesterday,1,A,B,Customer\n",
			message: "line 2",
		},
		{
			name:    "bad duration",
			input:   "Start Time,Trip Duration,Start Station,End Station,User Type\n2017-01-01 00:00:00,fast,A,B,Customer\n",
			message: "trip duration",
		},
		{
			name:    "ragged row",
			input:   "Start Time,Trip Duration,Start Station,End Station,User Type\n2017-01-01 00:00:00,1,A\n",
			message: "wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(context.Background(), strings.NewReader(tt.input), "broken.csv")
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrMalformedData)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	for _, value := range []string{"2017-01-01 09:07:57", "2017-01-01T09:07:57"} {
		ts, err := ParseTimestamp(value)
		require.NoError(t, err, value)
		assert.Equal(t, 9, ts.Hour())
	}

	ts, err := ParseTimestamp("2017-01-01 09:07")
	require.NoError(t, err)
	assert.Equal(t, 7, ts.Minute())

	_, err = ParseTimestamp("01/01/2017")
	assert.Error(t, err)
}

func TestCSVSource_Open(t *testing.T) {
	cfg := testConfig(t)

	var progress bytes.Buffer
	table, err := NewCSVSource(cfg, &progress).Open(context.Background(), "Chicago")
	require.NoError(t, err)
	assert.Equal(t, "chicago", table.City)
	assert.Equal(t, 6, table.Len())

	_, err = NewCSVSource(cfg, nil).Open(context.Background(), "new york city")
	assert.ErrorIs(t, err, common.ErrDataNotFound)

	_, err = NewCSVSource(cfg, nil).Open(context.Background(), "boston")
	assert.ErrorIs(t, err, common.ErrUnknownCity)
}

func TestLoader_Load(t *testing.T) {
	cfg := testConfig(t)
	loader := NewLoader(cfg, NewCSVSource(cfg, nil))
	ctx := context.Background()

	tests := []struct {
		check  func(*testing.T, *Table)
		filter model.Filter
		name   string
		count  int
	}{
		{
			name:   "no filters keeps every row",
			filter: model.Filter{City: "chicago", Month: "all", Day: "all"},
			count:  6,
		},
		{
			name:   "month filter",
			filter: model.Filter{City: "chicago", Month: "June", Day: "all"},
			count:  2,
			check: func(t *testing.T, table *Table) {
				t.Helper()
				for _, trip := range table.Trips {
					assert.Equal(t, time.June, trip.Month())
				}
			},
		},
		{
			name:   "day filter",
			filter: model.Filter{City: "chicago", Month: "all", Day: "monday"},
			count:  2,
			check: func(t *testing.T, table *Table) {
				t.Helper()
				for _, trip := range table.Trips {
					assert.Equal(t, time.Monday, trip.Weekday())
				}
			},
		},
		{
			name:   "month and day filter",
			filter: model.Filter{City: "chicago", Month: "january", Day: "tuesday"},
			count:  1,
		},
		{
			name:   "no matching rows",
			filter: model.Filter{City: "chicago", Month: "february", Day: "all"},
			count:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := loader.Load(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.count, table.Len())
			assert.True(t, table.Columns.HasGender, "filtering must keep the column set")
			if tt.check != nil {
				tt.check(t, table)
			}
		})
	}
}

func TestLoader_LoadErrors(t *testing.T) {
	cfg := testConfig(t)
	loader := NewLoader(cfg, NewCSVSource(cfg, nil))

	_, err := loader.Load(context.Background(), model.Filter{City: "boston", Month: "all", Day: "all"})
	assert.ErrorIs(t, err, common.ErrUnknownCity)

	_, err = loader.Load(context.Background(), model.Filter{City: "chicago", Month: "december", Day: "all"})
	assert.ErrorIs(t, err, common.ErrInvalidFilter)

	_, err = loader.Load(context.Background(), model.Filter{City: "new york city", Month: "all", Day: "all"})
	assert.ErrorIs(t, err, common.ErrDataNotFound)
}

func TestApplyFilter_Idempotent(t *testing.T) {
	cfg := config.Default()
	table, err := ReadCSV(context.Background(), strings.NewReader(chicagoCSV), "chicago.csv")
	require.NoError(t, err)

	filter := model.Filter{City: "chicago", Month: "all", Day: "Friday"}
	once, err := ApplyFilter(cfg, table, filter)
	require.NoError(t, err)
	twice, err := ApplyFilter(cfg, once, filter)
	require.NoError(t, err)

	assert.Equal(t, once.Trips, twice.Trips)
	assert.LessOrEqual(t, once.Len(), table.Len())
}

func TestTable_Rows(t *testing.T) {
	table := &Table{Trips: make([]model.Trip, 12)}

	assert.Len(t, table.Rows(0, 5), 5)
	assert.Len(t, table.Rows(5, 5), 5)
	assert.Len(t, table.Rows(10, 5), 2)
	assert.Empty(t, table.Rows(15, 5))
	assert.Empty(t, table.Rows(-1, 5))

	var empty *Table
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.Rows(0, 5))
}

func TestTable_Cells(t *testing.T) {
	start := time.Date(2017, time.January, 4, 8, 27, 49, 0, time.UTC)
	trip := model.Trip{
		StartTime:    start,
		Duration:     416,
		StartStation: "May St & Taylor St",
		EndStation:   "Wood St & Taylor St",
		UserType:     "Subscriber",
		BirthYear:    1981,
	}

	table := &Table{}
	assert.Equal(t, DefaultHeader, table.Header())
	assert.Equal(t, []string{
		"2017-01-04 08:27:49", "", "416", "May St & Taylor St",
		"Wood St & Taylor St", "Subscriber", "", "1981",
	}, table.Cells(trip))

	parsed, err := ReadCSV(context.Background(), strings.NewReader(washingtonCSV), "washington.csv")
	require.NoError(t, err)
	assert.Equal(t, parsed.Trips[0].Raw, parsed.Cells(parsed.Trips[0]))
	assert.Equal(t, ColStartTime, parsed.Header()[1])

	narrow := &Table{Columns: model.Columns{Header: []string{"", ColStartStation, ColUserType, ColDuration}}}
	assert.Equal(t, []string{"", "May St & Taylor St", "Subscriber", "416"}, narrow.Cells(trip))
}
