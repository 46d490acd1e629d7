package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/Veraticus/bikeshare/internal/config"
	"github.com/Veraticus/bikeshare/internal/model"
	"github.com/schollz/progressbar/v3"
)

// Column names as they appear in the city trip files.
const (
	ColStartTime    = "Start Time"
	ColEndTime      = "End Time"
	ColDuration     = "Trip Duration"
	ColStartStation = "Start Station"
	ColEndStation   = "End Station"
	ColUserType     = "User Type"
	ColGender       = "Gender"
	ColBirthYear    = "Birth Year"
)

var requiredColumns = []string{ColStartTime, ColDuration, ColStartStation, ColEndStation, ColUserType}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// Source opens the full, unfiltered trip table for a city.
type Source interface {
	Open(ctx context.Context, city string) (*Table, error)
}

// CSVSource reads trip tables from the per-city CSV files.
type CSVSource struct {
	progress io.Writer
	cfg      config.Config
}

// NewCSVSource creates a CSV source. Load progress is drawn on progress when it is non-nil.
func NewCSVSource(cfg config.Config, progress io.Writer) *CSVSource {
	return &CSVSource{cfg: cfg, progress: progress}
}

// Open parses the CSV file configured for city.
func (s *CSVSource) Open(ctx context.Context, city string) (*Table, error) {
	path, err := s.cfg.CityFile(city)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path) //nolint:gosec // path comes from the fixed city mapping
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrDataNotFound, path)
		}
		return nil, fmt.Errorf("failed to open trip file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var reader io.Reader = file
	if s.progress != nil {
		var size int64 = -1
		if info, statErr := file.Stat(); statErr == nil {
			size = info.Size()
		}
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(s.progress),
			progressbar.OptionSetDescription(fmt.Sprintf("Loading %s", city)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()
		reader = io.TeeReader(file, bar)
	}

	table, err := ReadCSV(ctx, reader, path)
	if err != nil {
		return nil, err
	}
	table.City = strings.ToLower(city)
	return table, nil
}

// ReadCSV parses a trip file whose first row is the header. name is used in error messages.
func ReadCSV(ctx context.Context, r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: missing header row", common.ErrMalformedData, name)
		}
		return nil, fmt.Errorf("%w: %s: %v", common.ErrMalformedData, name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", common.ErrMalformedData, name, col)
		}
	}

	table := &Table{
		Columns: model.Columns{
			Header:       append([]string(nil), header...),
			HasEndTime:   hasColumn(index, ColEndTime),
			HasGender:    hasColumn(index, ColGender),
			HasBirthYear: hasColumn(index, ColBirthYear),
		},
	}

	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", common.ErrMalformedData, name, err)
		}

		trip, err := parseTrip(record, index)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", common.ErrMalformedData, name, line, err)
		}
		table.Trips = append(table.Trips, trip)
	}

	return table, nil
}

func hasColumn(index map[string]int, col string) bool {
	_, ok := index[col]
	return ok
}

func parseTrip(record []string, index map[string]int) (model.Trip, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	start, err := ParseTimestamp(cell(ColStartTime))
	if err != nil {
		return model.Trip{}, fmt.Errorf("start time: %w", err)
	}

	duration, err := strconv.ParseFloat(cell(ColDuration), 64)
	if err != nil {
		return model.Trip{}, fmt.Errorf("trip duration %q: %w", cell(ColDuration), err)
	}

	trip := model.Trip{
		StartTime:    start,
		Duration:     duration,
		StartStation: cell(ColStartStation),
		EndStation:   cell(ColEndStation),
		UserType:     cell(ColUserType),
		Gender:       cell(ColGender),
		Raw:          record,
	}

	if raw := cell(ColEndTime); raw != "" {
		if trip.EndTime, err = ParseTimestamp(raw); err != nil {
			return model.Trip{}, fmt.Errorf("end time: %w", err)
		}
	}

	if raw := cell(ColBirthYear); raw != "" {
		year, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Trip{}, fmt.Errorf("birth year %q: %w", raw, err)
		}
		trip.BirthYear = int(year)
	}

	return trip, nil
}

// ParseTimestamp parses the trip file timestamp formats.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
