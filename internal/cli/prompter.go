package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/Veraticus/bikeshare/internal/config"
	"github.com/Veraticus/bikeshare/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Prompter asks the user for filter selections and yes/no answers.
type Prompter struct {
	writer io.Writer
	reader *LineReader
	cfg    config.Config
}

// NewPrompter creates a prompter reading answers from reader and writing prompts to writer.
func NewPrompter(cfg config.Config, reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		cfg:    cfg,
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// GetFilters asks for a city, month and day, re-prompting until each answer is valid.
func (p *Prompter) GetFilters(ctx context.Context) (model.Filter, error) {
	if _, err := fmt.Fprintln(p.writer, FormatTitle("Hello! Let's explore some US bikeshare data!")); err != nil {
		return model.Filter{}, fmt.Errorf("failed to write greeting: %w", err)
	}

	city, err := p.Choose(ctx, "Enter the city you want to explore: ", p.cfg.ValidCity,
		"Sorry, please enter "+joinChoices(p.cfg.CityNames(), false)+" only")
	if err != nil {
		return model.Filter{}, err
	}

	month, err := p.Choose(ctx, "Enter the month you want to explore: ", p.cfg.ValidMonth,
		"Sorry, please enter "+joinChoices(p.cfg.Months, true))
	if err != nil {
		return model.Filter{}, err
	}

	day, err := p.Choose(ctx, "Enter the day of the week you want to explore: ", p.cfg.ValidDay,
		"Sorry, please enter "+joinChoices(p.cfg.Days, true))
	if err != nil {
		return model.Filter{}, err
	}

	if _, err := fmt.Fprintln(p.writer, Rule); err != nil {
		return model.Filter{}, fmt.Errorf("failed to write separator: %w", err)
	}

	return model.Filter{City: city, Month: month, Day: day}, nil
}

// Choose prompts until valid accepts the lower-cased answer, printing retry after each rejection.
func (p *Prompter) Choose(ctx context.Context, prompt string, valid func(string) bool, retry string) (string, error) {
	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.reader.ReadLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		if valid(choice) {
			return choice, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatError(retry)); err != nil {
			slog.Warn("Failed to write retry message", "error", err)
		}
	}
}

// Confirm asks a question and reports whether the answer equals affirmative (case-insensitive).
// Closed input counts as a no.
func (p *Prompter) Confirm(ctx context.Context, prompt, affirmative string) (bool, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	input, err := p.reader.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, common.ErrInputClosed) {
			return false, nil
		}
		return false, err
	}

	return strings.EqualFold(input, affirmative), nil
}

// joinChoices renders "A, B, or C", optionally followed by "All".
func joinChoices(values []string, withAll bool) string {
	title := cases.Title(language.English)

	names := make([]string, 0, len(values)+1)
	for _, v := range values {
		names = append(names, title.String(v))
	}
	if withAll {
		names = append(names, "All")
	}

	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}
