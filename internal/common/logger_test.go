package common

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	handler, err := NewHandler(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	logger := slog.New(handler)
	logger.Debug("hidden")
	logger.Info("Lookup issued", "seq", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Lookup issued", entry["msg"])
	assert.InDelta(t, 3, entry["seq"], 0)

	buf.Reset()
	handler, err = NewHandler(&buf, slog.LevelInfo, "console")
	require.NoError(t, err)
	slog.New(handler).Info("Catalog loaded", "count", 2)
	assert.Contains(t, buf.String(), `msg="Catalog loaded" count=2`)

	_, err = NewHandler(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSetupLogger_File(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	path := filepath.Join(t.TempDir(), "spicefx.log")
	closer, err := SetupLogger(slog.LevelDebug, "console", path)
	require.NoError(t, err)

	LogDebug("Converting", Fields{"from": "USD"})
	LogInfo("Starting", nil)
	LogError(ErrCatalogLoad, "Catalog failed", Fields{"attempt": 1})
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "from=USD")
	assert.Contains(t, string(data), "msg=Starting")
	assert.Contains(t, string(data), `error="currency catalog load failed"`)
}
