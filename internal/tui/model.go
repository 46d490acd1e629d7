// Package tui implements the full-screen raw trip browser.
package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/bikeshare/internal/cli"
	"github.com/Veraticus/bikeshare/internal/dataset"
	"github.com/Veraticus/bikeshare/internal/model"
	"github.com/Veraticus/bikeshare/internal/report"
)

const (
	maxColumnWidth = 32
	indexColumn    = "#"
)

// Model pages through a trip table cli.PageSize rows at a time.
type Model struct {
	trips    *dataset.Table
	theme    Theme
	keymap   KeyMap
	filter   model.Filter
	help     help.Model
	table    table.Model
	offset   int
	width    int
	height   int
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the browser theme.
func WithTheme(theme Theme) Option {
	return func(m *Model) { m.theme = theme }
}

// WithFilter labels the browser with the selection that produced the table.
func WithFilter(filter model.Filter) Option {
	return func(m *Model) { m.filter = filter.Normalize() }
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// NewModel creates a browser positioned on the first page of trips.
func NewModel(trips *dataset.Table, opts ...Option) Model {
	m := Model{
		trips:  trips,
		theme:  Default,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.table = table.New(
		table.WithFocused(true),
		table.WithHeight(cli.PageSize+2),
	)
	styles := table.DefaultStyles()
	styles.Header = m.theme.Header
	styles.Selected = m.theme.Selected
	m.table.SetStyles(styles)
	m.table.SetWidth(m.width)
	m.help.Width = m.width

	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and window resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit), key.Matches(msg, m.keymap.ForceQuit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Next):
			if m.offset+cli.PageSize < m.trips.Len() {
				m.offset += cli.PageSize
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keymap.Prev):
			if m.offset > 0 {
				m.offset = max(0, m.offset-cli.PageSize)
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keymap.First):
			m.offset = 0
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetWidth(msg.Width)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the current page.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := m.theme.Title.Render(fmt.Sprintf("%s %s trips", cli.BikeIcon, m.cityName()))
	if m.filter.City != "" {
		title += " " + m.theme.Subtitle.Render(fmt.Sprintf("(month: %s, day: %s)", m.filter.Month, m.filter.Day))
	}

	var body string
	if m.trips.Len() == 0 {
		body = m.theme.Empty.Render(report.NoTripsMessage)
	} else {
		body = m.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		body,
		m.theme.Status.Render(m.status()),
		m.help.View(m.keymap),
	)
}

// Offset returns the index of the first trip on the current page.
func (m Model) Offset() int {
	return m.offset
}

// Page returns the 1-based current page number.
func (m Model) Page() int {
	return m.offset/cli.PageSize + 1
}

// Pages returns the number of pages, at least 1.
func (m Model) Pages() int {
	return max(1, (m.trips.Len()+cli.PageSize-1)/cli.PageSize)
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

func (m Model) cityName() string {
	if m.trips == nil || m.trips.City == "" {
		return "Bikeshare"
	}
	return m.trips.City
}

func (m Model) status() string {
	total := m.trips.Len()
	if total == 0 {
		return "0 trips"
	}
	last := min(m.offset+cli.PageSize, total)
	return fmt.Sprintf("Rows %d-%d of %d · page %d/%d", m.offset+1, last, total, m.Page(), m.Pages())
}

// refresh rebuilds the table's columns and rows for the current page.
func (m *Model) refresh() {
	header := append([]string{indexColumn}, m.trips.Header()...)
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}

	page := m.trips.Rows(m.offset, cli.PageSize)
	rows := make([]table.Row, 0, len(page))
	for i, trip := range page {
		row := make(table.Row, len(header))
		row[0] = strconv.Itoa(m.offset + i)
		copy(row[1:], m.trips.Cells(trip))
		for j, cell := range row {
			widths[j] = max(widths[j], lipgloss.Width(cell))
		}
		rows = append(rows, row)
	}

	columns := make([]table.Column, len(header))
	for i, h := range header {
		columns[i] = table.Column{Title: h, Width: min(widths[i], maxColumnWidth)}
	}

	// Clear rows first so the new column set never renders stale rows.
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}
