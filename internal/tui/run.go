package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/bikeshare/internal/dataset"
)

// Run opens the browser on the alternate screen and blocks until the user quits or ctx ends.
func Run(ctx context.Context, trips *dataset.Table, opts ...Option) error {
	program := tea.NewProgram(
		NewModel(trips, opts...),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, tea.ErrProgramKilled) {
			return ctxErr
		}
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
