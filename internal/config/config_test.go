package config

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityhospital/carebot/internal/logger"
)

var configEnv = []string{
	"WA_PHONE_NUMBER_ID", "WA_ACCESS_TOKEN", "WA_VERIFY_TOKEN", "WA_API_BASE_URL",
	"PORT", "DATA_DIR", "JOURNAL_ENABLED", "MENU_STYLE", "SEND_TIMEOUT",
	"LOG_LEVEL", "LOG_FORMAT", "SENTRY_DSN", "SENTRY_ENVIRONMENT", "METRICS_ENABLED",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, "https://graph.facebook.com/v21.0", cfg.WAAPIBaseURL)
	assert.True(t, cfg.JournalEnabled)
	assert.Equal(t, "list", cfg.MenuStyle)
	assert.Equal(t, 5*time.Second, cfg.SendTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "production", cfg.SentryEnvironment)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "carebot.db", cfg.JournalPath())

	assert.False(t, cfg.OutboundEnabled())
	assert.True(t, cfg.VerifyTokenGenerated)
	assert.Len(t, cfg.WAVerifyToken, 32)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("WA_PHONE_NUMBER_ID", "123")
	t.Setenv("WA_ACCESS_TOKEN", "token")
	t.Setenv("WA_VERIFY_TOKEN", "verify")
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/carebot")
	t.Setenv("JOURNAL_ENABLED", "false")
	t.Setenv("MENU_STYLE", "Buttons")
	t.Setenv("SEND_TIMEOUT", "2500ms")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_ENABLED", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.OutboundEnabled())
	assert.Equal(t, "verify", cfg.WAVerifyToken)
	assert.False(t, cfg.VerifyTokenGenerated)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/var/lib/carebot/carebot.db", cfg.JournalPath())
	assert.False(t, cfg.JournalEnabled)
	assert.Equal(t, "buttons", cfg.MenuStyle)
	assert.Equal(t, 2500*time.Millisecond, cfg.SendTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"MENU_STYLE", "carousel", "MENU_STYLE"},
		{"SEND_TIMEOUT", "0s", "SEND_TIMEOUT"},
		{"SEND_TIMEOUT", "-1s", "SEND_TIMEOUT"},
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"LOG_FORMAT", "xml", "LOG_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsUnparseableValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SEND_TIMEOUT", "5"},
		{"SEND_TIMEOUT", "soon"},
		{"JOURNAL_ENABLED", "maybe"},
		{"METRICS_ENABLED", "yes please"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
			assert.Contains(t, err.Error(), tt.value)
		})
	}
}

func TestLoadAcceptsLevelAliases(t *testing.T) {
	for _, level := range []string{"warning", "WARN", "Debug"} {
		clearEnv(t)
		t.Setenv("LOG_LEVEL", level)

		cfg, err := Load()
		require.NoError(t, err, level)

		log, err := logger.NewWithWriter(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}, io.Discard)
		require.NoError(t, err, level)
		assert.NotNil(t, log)
	}
}

func TestOutboundEnabledNeedsBothSecrets(t *testing.T) {
	assert.False(t, (&Config{WAAccessToken: "t"}).OutboundEnabled())
	assert.False(t, (&Config{WAPhoneNumberID: "p"}).OutboundEnabled())
	assert.True(t, (&Config{WAAccessToken: "t", WAPhoneNumberID: "p"}).OutboundEnabled())
}
