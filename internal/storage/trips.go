package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/model"
)

const timestampLayout = "2006-01-02 15:04:05"

// Dataset describes one cached city table.
type Dataset struct {
	ImportedAt time.Time
	City       string
	Columns    model.Columns
	Rows       int
}

// SaveTable replaces the cached trips for table.City in a single transaction.
func (s *SQLiteStore) SaveTable(ctx context.Context, table *dataset.Table) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTable(table); err != nil {
		return err
	}

	header, err := json.Marshal(table.Columns.Header)
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	city := strings.ToLower(table.City)
	if _, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE city = ?`, city); err != nil {
		return fmt.Errorf("failed to clear trips: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (city, header, has_end_time, has_gender, has_birth_year, row_count, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(city) DO UPDATE SET
			header = excluded.header,
			has_end_time = excluded.has_end_time,
			has_gender = excluded.has_gender,
			has_birth_year = excluded.has_birth_year,
			row_count = excluded.row_count,
			imported_at = excluded.imported_at`,
		city, string(header),
		table.Columns.HasEndTime, table.Columns.HasGender, table.Columns.HasBirthYear,
		table.Len(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (city, row_index, start_time, end_time, duration, start_station,
			end_station, user_type, gender, birth_year, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, trip := range table.Trips {
		var endTime sql.NullString
		if !trip.EndTime.IsZero() {
			endTime = sql.NullString{String: trip.EndTime.Format(timestampLayout), Valid: true}
		}

		raw, err := json.Marshal(trip.Raw)
		if err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}

		_, err = stmt.ExecContext(ctx,
			city, i, trip.StartTime.Format(timestampLayout), endTime, trip.Duration,
			trip.StartStation, trip.EndStation, trip.UserType, trip.Gender, trip.BirthYear, string(raw))
		if err != nil {
			return fmt.Errorf("failed to save trip %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Open loads the cached table for city in its original row order.
func (s *SQLiteStore) Open(ctx context.Context, city string) (*dataset.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	city = strings.ToLower(city)
	ds, err := s.getDataset(ctx, city)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT start_time, end_time, duration, start_station, end_station,
			user_type, gender, birth_year, raw
		FROM trips
		WHERE city = ?
		ORDER BY row_index`, city)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	table := &dataset.Table{
		City:    city,
		Columns: ds.Columns,
		Trips:   make([]model.Trip, 0, ds.Rows),
	}

	for rows.Next() {
		var (
			trip    model.Trip
			start   string
			endTime sql.NullString
			raw     sql.NullString
		)
		if err := rows.Scan(&start, &endTime, &trip.Duration, &trip.StartStation, &trip.EndStation,
			&trip.UserType, &trip.Gender, &trip.BirthYear, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}

		if trip.StartTime, err = dataset.ParseTimestamp(start); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrMalformedData, err)
		}
		if endTime.Valid {
			if trip.EndTime, err = dataset.ParseTimestamp(endTime.String); err != nil {
				return nil, fmt.Errorf("%w: %v", common.ErrMalformedData, err)
			}
		}
		if raw.Valid && raw.String != "null" {
			if err := json.Unmarshal([]byte(raw.String), &trip.Raw); err != nil {
				return nil, fmt.Errorf("failed to decode raw row: %w", err)
			}
		}

		table.Trips = append(table.Trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	return table, nil
}

// ListDatasets returns every cached city, alphabetically.
func (s *SQLiteStore) ListDatasets(ctx context.Context) ([]Dataset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT city, header, has_end_time, has_gender, has_birth_year, row_count, imported_at
		FROM datasets
		ORDER BY city`)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var datasets []Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate datasets: %w", err)
	}
	return datasets, nil
}

func (s *SQLiteStore) getDataset(ctx context.Context, city string) (Dataset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT city, header, has_end_time, has_gender, has_birth_year, row_count, imported_at
		FROM datasets
		WHERE city = ?`, city)

	ds, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, fmt.Errorf("%w: %s has not been imported", common.ErrDataNotFound, city)
	}
	return ds, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(row scanner) (Dataset, error) {
	var (
		ds         Dataset
		header     string
		importedAt string
	)
	if err := row.Scan(&ds.City, &header, &ds.Columns.HasEndTime, &ds.Columns.HasGender,
		&ds.Columns.HasBirthYear, &ds.Rows, &importedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Dataset{}, err
		}
		return Dataset{}, fmt.Errorf("failed to scan dataset: %w", err)
	}

	if err := json.Unmarshal([]byte(header), &ds.Columns.Header); err != nil {
		return Dataset{}, fmt.Errorf("failed to decode header: %w", err)
	}

	var err error
	if ds.ImportedAt, err = time.Parse(time.RFC3339, importedAt); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse import time: %w", err)
	}
	return ds, nil
}
