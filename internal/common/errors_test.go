package common

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserError(t *testing.T) {
	wrapped := fmt.Errorf("open chicago.csv: %w", ErrDataNotFound)
	err := NewUserError("Could not load trips for chicago", wrapped)

	assert.ErrorIs(t, err, ErrDataNotFound)
	assert.Equal(t, "Could not load trips for chicago: open chicago.csv: trip data not found", err.Error())
	assert.Equal(t, "Could not load trips for chicago", UserMessage(fmt.Errorf("session: %w", err)))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, slog.LevelDebug, "json"))

	LogDebug("loaded trips", Fields{"city": "chicago"})
	assert.Contains(t, buf.String(), `"city":"chicago"`)
	assert.Contains(t, buf.String(), `"msg":"loaded trips"`)

	assert.Error(t, SetupLogger(&buf, slog.LevelInfo, "xml"))
}
