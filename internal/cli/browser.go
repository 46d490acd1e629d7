package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// PageSize is how many raw rows the browser shows per request.
const PageSize = 5

// Browser prints a trip table a page at a time while the user keeps asking.
type Browser struct {
	prompter *Prompter
	writer   io.Writer
}

// NewBrowser creates a raw data browser.
func NewBrowser(prompter *Prompter, writer io.Writer) *Browser {
	if writer == nil {
		writer = os.Stdout
	}
	return &Browser{prompter: prompter, writer: writer}
}

// Browse shows PageSize rows per "y" answer and stops on any other answer.
// Pages past the end of the table print nothing. It returns the number of rows shown.
func (b *Browser) Browse(ctx context.Context, trips *dataset.Table) (int, error) {
	offset, shown := 0, 0
	for {
		more, err := b.prompter.Confirm(ctx, "Do you want to see 5 lines of raw data? (y/n): ", "y")
		if err != nil {
			return shown, err
		}
		if !more {
			if _, err := fmt.Fprintln(b.writer, "Okay!"); err != nil {
				return shown, fmt.Errorf("failed to write goodbye: %w", err)
			}
			return shown, nil
		}

		rows := trips.Rows(offset, PageSize)
		if len(rows) > 0 {
			if _, err := fmt.Fprintln(b.writer, RenderRows(trips, offset, PageSize)); err != nil {
				return shown, fmt.Errorf("failed to write raw rows: %w", err)
			}
		}
		shown += len(rows)
		offset += PageSize
	}
}

// RenderRows renders rows [offset, offset+n) of trips as a bordered table with an index column.
func RenderRows(trips *dataset.Table, offset, n int) string {
	header := append([]string{"#"}, trips.Header()...)

	rows := trips.Rows(offset, n)
	cells := make([][]string, 0, len(rows))
	for i, trip := range rows {
		cells = append(cells, append([]string{strconv.Itoa(offset + i)}, trips.Cells(trip)...))
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(header...).
		Rows(cells...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Render()
}
