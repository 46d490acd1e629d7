package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/bikeshare/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"chicago", "new york city", "washington"}, cfg.CityNames())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		settings map[string]any
		check    func(*testing.T, Config)
		name     string
		wantErr  bool
	}{
		{
			name:     "defaults",
			settings: map[string]any{},
			check: func(t *testing.T, cfg Config) {
				t.Helper()
				assert.Equal(t, ".", cfg.DataDir)
				assert.Equal(t, SourceCSV, cfg.Source)
				assert.True(t, cfg.Progress)
			},
		},
		{
			name: "overrides",
			settings: map[string]any{
				"data.dir":      "/srv/bikeshare",
				"data.source":   "SQLite",
				"database.path": "/tmp/trips.db",
				"progress":      false,
			},
			check: func(t *testing.T, cfg Config) {
				t.Helper()
				assert.Equal(t, "/srv/bikeshare", cfg.DataDir)
				assert.Equal(t, SourceSQLite, cfg.Source)
				assert.Equal(t, "/tmp/trips.db", cfg.DatabasePath)
				assert.False(t, cfg.Progress)
			},
		},
		{
			name:     "unknown source",
			settings: map[string]any{"data.source": "parquet"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.settings {
				v.Set(k, val)
			}

			cfg, err := Load(v)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestConfig_Validate_RejectsBadVocabulary(t *testing.T) {
	cfg := Default()
	cfg.Days = cfg.Days[:6]
	assert.ErrorIs(t, cfg.Validate(), common.ErrInvalidConfig)

	cfg = Default()
	cfg.Cities = map[string]string{"Chicago": "chicago.csv"}
	assert.ErrorIs(t, cfg.Validate(), common.ErrInvalidConfig)
}

func TestConfig_CityFile(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"

	path, err := cfg.CityFile("New York City")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data", "new_york_city.csv"), path)

	_, err = cfg.CityFile("boston")
	assert.ErrorIs(t, err, common.ErrUnknownCity)
}

func TestConfig_MonthNumber(t *testing.T) {
	cfg := Default()

	month, ok := cfg.MonthNumber("January")
	assert.True(t, ok)
	assert.Equal(t, time.January, month)

	month, ok = cfg.MonthNumber("june")
	assert.True(t, ok)
	assert.Equal(t, time.June, month)

	_, ok = cfg.MonthNumber("july")
	assert.False(t, ok)
}

func TestConfig_Vocabularies(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.ValidCity("WASHINGTON"))
	assert.False(t, cfg.ValidCity("boston"))
	assert.True(t, cfg.ValidMonth("All"))
	assert.True(t, cfg.ValidMonth("March"))
	assert.False(t, cfg.ValidMonth("december"))
	assert.True(t, cfg.ValidDay("sunday"))
	assert.True(t, cfg.ValidDay("ALL"))
	assert.False(t, cfg.ValidDay("funday"))
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/rider")
	t.Setenv("BIKESHARE_DATA", "/srv/data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/home/rider/trips.db", ExpandPath("~/trips.db"))
	assert.Equal(t, "/home/rider", ExpandPath("~"))
	assert.Equal(t, "/srv/data/chicago.csv", ExpandPath("$BIKESHARE_DATA/chicago.csv"))
}
