package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/Veraticus/bikeshare/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the trip reports for one selection without prompting",
		Long: `Compute the travel time, station, duration and rider reports for a city,
optionally narrowed by month, day of week and a CEL predicate.

Examples:
  bikeshare report --city chicago --month june
  bikeshare report -c washington -d monday --format json
  bikeshare report -c "new york city" --where 'trip.user_type == "Customer" && trip.hour >= 17'`,
		RunE: runReport,
	}

	filterFlags(cmd)
	cmd.Flags().StringP("format", "f", report.FormatText, "output format (text, json)")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filter, err := parseFilter(cmd, cfg)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	formatter, err := report.NewFormatter(format)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Unknown format %q", format), err)
	}

	predicate, err := compileWhere(cmd)
	if err != nil {
		return err
	}

	source, release, err := buildSource(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer release()

	table, err := loadFiltered(ctx, cfg, source, filter, predicate)
	if err != nil {
		return err
	}

	r, err := report.Generate(table, filter)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	if predicate != nil {
		r.Where = predicate.String()
	}

	return formatter.Format(cmd.OutOrStdout(), r)
}
