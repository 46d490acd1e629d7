package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/bikeshare/internal/cli"
	"github.com/Veraticus/bikeshare/internal/stats"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formatter writes a report to w.
type Formatter interface {
	Format(w io.Writer, r *Report) error
}

// NewFormatter returns the formatter for format.
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use text or json)", format)
	}
}

// NoTripsMessage is printed in place of a section when the table is empty.
const NoTripsMessage = "No trips match the selected filters."

// TextFormatter renders reports as styled console text.
type TextFormatter struct{}

// Format writes the four report sections in order.
func (f *TextFormatter) Format(w io.Writer, r *Report) error {
	sections := []string{
		f.section("Calculating The Most Frequent Times of Travel...", r.Time.Empty, r.Time.Elapsed,
			func() []string { return f.timeLines(r.Time.Result) }),
		f.section("Calculating The Most Popular Stations and Trip...", r.Stations.Empty, r.Stations.Elapsed,
			func() []string { return f.stationLines(r.Stations.Result) }),
		f.section("Calculating Trip Duration...", r.Duration.Empty, r.Duration.Elapsed,
			func() []string { return f.durationLines(r.Duration.Result) }),
		f.section("Calculating User Stats...", r.Users.Empty, r.Users.Elapsed,
			func() []string { return f.userLines(r.Users.Result) }),
	}

	for _, s := range sections {
		if _, err := io.WriteString(w, s); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

func (f *TextFormatter) section(title string, empty bool, elapsed time.Duration, lines func() []string) string {
	var b strings.Builder

	b.WriteString("\n" + cli.TitleStyle.Render(title) + "\n\n")
	if empty {
		b.WriteString(cli.FormatWarning(NoTripsMessage) + "\n")
	} else {
		for _, line := range lines() {
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n" + cli.SubtleStyle.Render(fmt.Sprintf("This took %.6f seconds.", elapsed.Seconds())) + "\n")
	b.WriteString(cli.Rule + "\n")

	return b.String()
}

func (f *TextFormatter) timeLines(s stats.TimeStats) []string {
	var lines []string

	if s.MonthFiltered {
		lines = append(lines, "No mode available when month is specified.")
	} else {
		lines = append(lines, cli.FormatStat("Most common month (january = 1...)",
			fmt.Sprintf("%d (%s)", int(s.PopularMonth), s.PopularMonth)))
	}

	if s.DayFiltered {
		lines = append(lines, "No mode available when day is specified.")
	} else {
		lines = append(lines, cli.FormatStat("Most common day (monday = 0, sunday = 6)",
			fmt.Sprintf("%d (%s)", s.PopularDay, s.PopularDayName())))
	}

	return append(lines, cli.FormatStat("Most common start hour", s.PopularHour))
}

func (f *TextFormatter) stationLines(s stats.StationStats) []string {
	return []string{
		cli.FormatStat("The most popular start station is", fmt.Sprintf("%s (%d trips)", s.PopularStart, s.StartCount)),
		cli.FormatStat("The most popular end station is", fmt.Sprintf("%s (%d trips)", s.PopularEnd, s.EndCount)),
		cli.FormatStat("The most popular start and end station combination is",
			fmt.Sprintf("%s → %s (%d trips)", s.PopularTrip.Start, s.PopularTrip.End, s.TripCount)),
	}
}

func (f *TextFormatter) durationLines(s stats.DurationStats) []string {
	return []string{
		cli.FormatStat("The total seconds spent traveling is",
			fmt.Sprintf("%s (%s)", formatSeconds(s.Total), humanize(s.Total))),
		cli.FormatStat("The mean seconds travelled is",
			fmt.Sprintf("%s (%s)", formatSeconds(s.Mean), humanize(s.Mean))),
	}
}

func (f *TextFormatter) userLines(s stats.UserStats) []string {
	lines := []string{cli.LabelStyle.Render("User types:")}
	lines = append(lines, countLines(s.UserTypes)...)

	if s.Gender == nil {
		lines = append(lines, "No gender information available")
	} else {
		lines = append(lines, cli.LabelStyle.Render("Gender:"))
		lines = append(lines, countLines(s.Gender)...)
	}

	if s.BirthYears == nil {
		lines = append(lines, "No birth year information available")
	} else {
		lines = append(lines,
			cli.FormatStat("The earliest birth year is", s.BirthYears.Earliest),
			cli.FormatStat("The latest birth year is", s.BirthYears.Latest),
			cli.FormatStat("The most common birth year is", s.BirthYears.MostCommon),
		)
	}

	return lines
}

func countLines(counts []stats.Count) []string {
	width := 0
	for _, c := range counts {
		width = max(width, len(c.Value))
	}

	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("  %-*s  %s", width, c.Value, cli.ValueStyle.Render(fmt.Sprint(c.Count))))
	}
	return lines
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3f", seconds)
}

func humanize(seconds float64) string {
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

// JSONFormatter renders reports as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format writes r as a single JSON document.
func (f *JSONFormatter) Format(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
