// Package session runs the interactive explore loop.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/Veraticus/bikeshare/internal/query"
	"github.com/Veraticus/bikeshare/internal/report"
)

// State is the loop's position.
type State int

// Loop states.
const (
	StateRunning State = iota
	StateDone
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// RestartPrompt is asked at the end of every iteration.
const RestartPrompt = "\nWould you like to restart? Enter yes or no.\n"

// Session drives prompt, load, report and browse until the user stops.
type Session struct {
	prompter  Prompter
	loader    Loader
	browser   Browser
	formatter report.Formatter
	predicate *query.Predicate
	writer    io.Writer
	state     State
}

// Option configures a Session.
type Option func(*Session)

// WithPredicate narrows every loaded table with p.
func WithPredicate(p *query.Predicate) Option {
	return func(s *Session) { s.predicate = p }
}

// WithFormatter replaces the default text formatter.
func WithFormatter(f report.Formatter) Option {
	return func(s *Session) { s.formatter = f }
}

// New creates a session in the running state.
func New(prompter Prompter, loader Loader, browser Browser, writer io.Writer, opts ...Option) *Session {
	if writer == nil {
		writer = os.Stdout
	}

	s := &Session{
		prompter:  prompter,
		loader:    loader,
		browser:   browser,
		formatter: &report.TextFormatter{},
		writer:    writer,
		state:     StateRunning,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current loop state.
func (s *Session) State() State {
	return s.state
}

// Run loops until the user declines a restart. Load and input errors end the loop and are returned.
func (s *Session) Run(ctx context.Context) error {
	for s.state == StateRunning {
		if err := ctx.Err(); err != nil {
			return err
		}

		restart, err := s.iterate(ctx)
		if err != nil {
			s.state = StateDone
			return err
		}
		if !restart {
			s.state = StateDone
		}
	}
	return nil
}

func (s *Session) iterate(ctx context.Context) (bool, error) {
	logger := slog.With("session_id", uuid.NewString())

	filter, err := s.prompter.GetFilters(ctx)
	if err != nil {
		return false, err
	}
	logger.Debug("Filters selected", "city", filter.City, "month", filter.Month, "day", filter.Day)

	table, err := s.loader.Load(ctx, filter)
	if err != nil {
		return false, err
	}

	where := ""
	if s.predicate != nil {
		if table, err = s.predicate.Apply(table); err != nil {
			return false, err
		}
		where = s.predicate.String()
	}
	logger.Info("Trips loaded", "city", table.City, "trips", table.Len(), "where", where)

	r, err := report.Generate(table, filter)
	if err != nil {
		return false, fmt.Errorf("failed to generate report: %w", err)
	}
	r.Where = where

	if err := s.formatter.Format(s.writer, r); err != nil {
		return false, err
	}

	shown, err := s.browser.Browse(ctx, table)
	if err != nil {
		return false, err
	}
	logger.Debug("Raw data browsed", "rows", shown)

	restart, err := s.prompter.Confirm(ctx, RestartPrompt, "yes")
	if err != nil {
		return false, err
	}
	logger.Debug("Iteration finished", "restart", restart)

	return restart, nil
}
