package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bikeshare/internal/cli"
	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/Veraticus/bikeshare/internal/config"
	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/storage"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [city...]",
		Short: "Import city CSV files into the SQLite trip cache",
		Long: `Parse city trip files from the data directory and store them in the local
SQLite cache, replacing any earlier import of the same city. With no arguments
every configured city with a file present is imported.

Set data.source to sqlite (or pass --source sqlite) to read from the cache.`,
		RunE: runImport,
	}

	cmd.Flags().Bool("list", false, "List cached cities without importing")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := initStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Warn("Failed to close trip cache", "error", closeErr)
		}
	}()

	if list, _ := cmd.Flags().GetBool("list"); list {
		return listDatasets(cmd, store)
	}

	cities := args
	explicit := len(cities) > 0
	if !explicit {
		cities = cfg.CityNames()
	}

	progress := cmd.ErrOrStderr()
	if !cfg.Progress {
		progress = nil
	}
	source := dataset.NewCSVSource(cfg, progress)

	imported := 0
	for _, city := range cities {
		if !cfg.ValidCity(city) {
			return common.NewUserError(fmt.Sprintf("Unknown city %q", city),
				fmt.Errorf("%w: %q", common.ErrUnknownCity, city))
		}

		table, err := source.Open(ctx, city)
		if err != nil {
			if !explicit && errors.Is(err, common.ErrDataNotFound) {
				slog.Warn("Skipping city without a trip file", "city", city, "error", err)
				continue
			}
			return fmt.Errorf("failed to read %s trips: %w", city, err)
		}

		start := time.Now()
		if err := store.SaveTable(ctx, table); err != nil {
			return fmt.Errorf("failed to import %s trips: %w", city, err)
		}
		imported++

		slog.Debug("Imported city", "city", city, "trips", table.Len(), "elapsed", time.Since(start))
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d %s trips", table.Len(), city)))
	}

	if imported == 0 {
		return common.NewUserError("No trip files found in "+cfg.DataDir, common.ErrDataNotFound)
	}

	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Trip cache: %s (set data.source to %s to use it)", store.Path(), config.SourceSQLite)))
	return nil
}

func listDatasets(cmd *cobra.Command, store *storage.SQLiteStore) error {
	datasets, err := store.ListDatasets(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(datasets) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No cities imported yet"))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle("Cached cities"))
	for _, d := range datasets {
		var extras []string
		if d.Columns.HasGender {
			extras = append(extras, "gender")
		}
		if d.Columns.HasBirthYear {
			extras = append(extras, "birth year")
		}
		line := fmt.Sprintf("%-15s %8d trips  imported %s", d.City, d.Rows, d.ImportedAt.Local().Format("2006-01-02 15:04"))
		if len(extras) > 0 {
			line += fmt.Sprintf("  (%s)", joinWords(extras))
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func joinWords(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	default:
		return words[0] + " and " + words[1]
	}
}
