// Package config provides the read-only configuration handed to the loader and prompters.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Trip sources.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// DefaultDatabasePath is where the SQLite trip cache lives unless configured.
const DefaultDatabasePath = "$HOME/.local/share/bikeshare/trips.db"

// Config holds the fixed city, month and day vocabularies plus data locations.
type Config struct {
	Cities       map[string]string `validate:"required,min=1,dive,keys,required,lowercase,endkeys,required"`
	DataDir      string            `validate:"required"`
	Source       string            `validate:"oneof=csv sqlite"`
	DatabasePath string            `validate:"required_if=Source sqlite"`
	Months       []string          `validate:"required,max=12,dive,required,lowercase"`
	Days         []string          `validate:"len=7,dive,required,lowercase"`
	Progress     bool
}

// Default returns the stock configuration: three cities and the first half of the year.
func Default() Config {
	return Config{
		Cities: map[string]string{
			"chicago":       "chicago.csv",
			"new york city": "new_york_city.csv",
			"washington":    "washington.csv",
		},
		DataDir:      ".",
		Source:       SourceCSV,
		DatabasePath: ExpandPath(DefaultDatabasePath),
		Months:       []string{"january", "february", "march", "april", "may", "june"},
		Days:         []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"},
		Progress:     true,
	}
}

// Load overlays viper settings on the defaults and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	if dir := v.GetString("data.dir"); dir != "" {
		cfg.DataDir = ExpandPath(dir)
	}
	if source := v.GetString("data.source"); source != "" {
		cfg.Source = strings.ToLower(source)
	}
	if path := v.GetString("database.path"); path != "" {
		cfg.DatabasePath = ExpandPath(path)
	}
	if v.IsSet("progress") {
		cfg.Progress = v.GetBool("progress")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return nil
}

// CityNames returns the known cities in alphabetical order.
func (c Config) CityNames() []string {
	names := make([]string, 0, len(c.Cities))
	for name := range c.Cities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CityFile resolves a city name to its trip file path.
func (c Config) CityFile(city string) (string, error) {
	file, ok := c.Cities[strings.ToLower(city)]
	if !ok {
		return "", fmt.Errorf("%w: %q", common.ErrUnknownCity, city)
	}
	return filepath.Join(c.DataDir, file), nil
}

// MonthNumber returns the calendar month for a month name (1-based index into Months).
func (c Config) MonthNumber(name string) (time.Month, bool) {
	idx := slices.Index(c.Months, strings.ToLower(name))
	if idx < 0 {
		return 0, false
	}
	return time.Month(idx + 1), true
}

// ValidCity reports whether city is a known city name.
func (c Config) ValidCity(city string) bool {
	_, ok := c.Cities[strings.ToLower(city)]
	return ok
}

// ValidMonth reports whether month is a known month name or "all".
func (c Config) ValidMonth(month string) bool {
	month = strings.ToLower(month)
	return month == "all" || slices.Contains(c.Months, month)
}

// ValidDay reports whether day is a weekday name or "all".
func (c Config) ValidDay(day string) bool {
	day = strings.ToLower(day)
	return day == "all" || slices.Contains(c.Days, day)
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
