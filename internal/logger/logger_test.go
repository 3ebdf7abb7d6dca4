package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(Options{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	log.With("component", "bot").Warn("Send failed", "reason", "timeout")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "Send failed", entry["message"])
	assert.Equal(t, "bot", entry["component"])
	assert.Equal(t, "timeout", entry["reason"])
	assert.Contains(t, entry, "timestamp")
	assert.NotContains(t, entry, "msg")
	assert.NotContains(t, entry, "time")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(Options{Level: "warn"}, &buf)
	require.NoError(t, err)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Error("kept")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(Options{Level: "debug", Format: "text"}, &buf)
	require.NoError(t, err)

	log.Debug("Classified message", "intent", "numeric")
	assert.Contains(t, buf.String(), "Classified message")
	assert.Contains(t, buf.String(), "intent")
}

func TestInvalidOptions(t *testing.T) {
	_, err := NewWithWriter(Options{Level: "verbose"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = NewWithWriter(Options{Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
