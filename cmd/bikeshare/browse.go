package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/bikeshare/internal/tui"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through raw trips in a full-screen browser",
		Long: `Open the filtered trips in a full-screen table, five rows per page.

Keys: n or space for the next page, p for the previous page, ? for help, q to quit.`,
		RunE: runBrowse,
	}

	filterFlags(cmd)

	return cmd
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filter, err := parseFilter(cmd, cfg)
	if err != nil {
		return err
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

	return tui.Run(ctx, table, tui.WithFilter(filter))
}
