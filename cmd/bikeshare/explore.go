package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/bikeshare/internal/cli"
	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/session"
)

func exploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Interactively explore trips (default command)",
		Long: `Ask for a city, month and day of week, print the travel time, station,
duration and rider reports, offer the raw trips five at a time, and repeat
until you decline to restart.`,
		RunE: runExplore,
	}

	cmd.Flags().String("where", "", "CEL expression every trip must satisfy, e.g. 'trip.duration > 600.0'")

	return cmd
}

func runExplore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
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

	out := cmd.OutOrStdout()
	prompter := cli.NewPrompter(cfg, cmd.InOrStdin(), out)
	browser := cli.NewBrowser(prompter, out)

	var opts []session.Option
	if predicate != nil {
		opts = append(opts, session.WithPredicate(predicate))
	}

	s := session.New(prompter, dataset.NewLoader(cfg, source), browser, out, opts...)
	err = s.Run(ctx)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrInputClosed):
		slog.Debug("Input closed, ending session")
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	default:
		return err
	}
}
