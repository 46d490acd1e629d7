package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/Veraticus/bikeshare/internal/config"
	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/model"
	"github.com/Veraticus/bikeshare/internal/query"
	"github.com/Veraticus/bikeshare/internal/storage"
)

// envKeyReplacer maps "data.dir" to BIKESHARE_DATA_DIR.
var envKeyReplacer = strings.NewReplacer(".", "_")

// loadConfig reads the validated configuration from viper.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, common.NewUserError("Configuration is invalid", err)
	}
	return cfg, nil
}

// initStore opens the SQLite trip cache and brings its schema up to date.
func initStore(ctx context.Context, cfg config.Config) (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// buildSource returns the configured trip source and a func releasing it.
func buildSource(ctx context.Context, cfg config.Config, progress io.Writer) (dataset.Source, func(), error) {
	if cfg.Source == config.SourceSQLite {
		store, err := initStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		slog.Debug("Reading trips from cache", "path", store.Path())
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close trip cache", "error", err)
			}
		}, nil
	}

	if !cfg.Progress {
		progress = nil
	}
	return dataset.NewCSVSource(cfg, progress), func() {}, nil
}

// compileWhere compiles the --where flag, returning nil when it is empty.
func compileWhere(cmd *cobra.Command) (*query.Predicate, error) {
	expr, _ := cmd.Flags().GetString("where")
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	predicate, err := query.Compile(expr)
	if err != nil {
		return nil, common.NewUserError("Invalid --where expression", err)
	}
	return predicate, nil
}

// filterFlags registers --city, --month and --day.
func filterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("city", "c", "", "city to explore (chicago, new york city, washington)")
	cmd.Flags().StringP("month", "m", model.All, "month to filter by (january..june, all)")
	cmd.Flags().StringP("day", "d", model.All, "day of week to filter by (monday..sunday, all)")
	cmd.Flags().String("where", "", "CEL expression every trip must satisfy, e.g. 'trip.user_type == \"Customer\"'")
}

// parseFilter reads and validates the filter flags against cfg's vocabularies.
func parseFilter(cmd *cobra.Command, cfg config.Config) (model.Filter, error) {
	city, _ := cmd.Flags().GetString("city")
	month, _ := cmd.Flags().GetString("month")
	day, _ := cmd.Flags().GetString("day")

	filter := model.Filter{City: city, Month: month, Day: day}.Normalize()

	switch {
	case filter.City == "":
		return model.Filter{}, common.NewUserError("--city is required",
			fmt.Errorf("%w: missing city", common.ErrInvalidFilter))
	case !cfg.ValidCity(filter.City):
		return model.Filter{}, common.NewUserError(
			fmt.Sprintf("Unknown city %q (choose from %s)", filter.City, strings.Join(cfg.CityNames(), ", ")),
			fmt.Errorf("%w: %q", common.ErrUnknownCity, filter.City))
	case !cfg.ValidMonth(filter.Month):
		return model.Filter{}, common.NewUserError(
			fmt.Sprintf("Unknown month %q (choose from %s, all)", filter.Month, strings.Join(cfg.Months, ", ")),
			fmt.Errorf("%w: month %q", common.ErrInvalidFilter, filter.Month))
	case !cfg.ValidDay(filter.Day):
		return model.Filter{}, common.NewUserError(
			fmt.Sprintf("Unknown day %q (choose from %s, all)", filter.Day, strings.Join(cfg.Days, ", ")),
			fmt.Errorf("%w: day %q", common.ErrInvalidFilter, filter.Day))
	}

	return filter, nil
}

// loadFiltered loads the filtered table for filter and narrows it by predicate.
func loadFiltered(ctx context.Context, cfg config.Config, source dataset.Source, filter model.Filter, predicate *query.Predicate) (*dataset.Table, error) {
	table, err := dataset.NewLoader(cfg, source).Load(ctx, filter)
	if err != nil {
		return nil, err
	}
	if predicate == nil {
		return table, nil
	}
	return predicate.Apply(table)
}
