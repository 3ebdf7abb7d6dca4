package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cityhospital/carebot/internal/logger"
	"github.com/cityhospital/carebot/internal/menu"
	"github.com/cityhospital/carebot/internal/whatsapp"
)

type Config struct {
	WAPhoneNumberID string
	WAAccessToken   string
	WAVerifyToken   string
	WAAPIBaseURL    string

	// VerifyTokenGenerated is set when WA_VERIFY_TOKEN was empty and a
	// random one was generated for this process.
	VerifyTokenGenerated bool

	Port    string
	DataDir string

	JournalEnabled bool
	MenuStyle      string
	SendTimeout    time.Duration

	LogLevel  string
	LogFormat string

	SentryDSN         string
	SentryEnvironment string

	MetricsEnabled bool
}

func Load() (*Config, error) {
	// .env is optional, env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	var envErrs []error
	cfg := &Config{
		WAPhoneNumberID:   os.Getenv("WA_PHONE_NUMBER_ID"),
		WAAccessToken:     os.Getenv("WA_ACCESS_TOKEN"),
		WAVerifyToken:     os.Getenv("WA_VERIFY_TOKEN"),
		WAAPIBaseURL:      getEnv("WA_API_BASE_URL", whatsapp.DefaultAPIURL),
		Port:              getEnv("PORT", "8080"),
		DataDir:           getEnv("DATA_DIR", "."),
		JournalEnabled:    getBoolEnv("JOURNAL_ENABLED", true, &envErrs),
		MenuStyle:         strings.ToLower(getEnv("MENU_STYLE", string(menu.StyleList))),
		SendTimeout:       getDurationEnv("SEND_TIMEOUT", 5*time.Second, &envErrs),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(getEnv("LOG_FORMAT", "json")),
		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),
		MetricsEnabled:    getBoolEnv("METRICS_ENABLED", true, &envErrs),
	}
	if len(envErrs) > 0 {
		return nil, fmt.Errorf("config validation failed: %w", errors.Join(envErrs...))
	}

	if cfg.WAVerifyToken == "" {
		token, err := randomHex(16)
		if err != nil {
			return nil, fmt.Errorf("generating verify token: %w", err)
		}
		cfg.WAVerifyToken = token
		cfg.VerifyTokenGenerated = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the service cannot start with. Missing send
// credentials are not an error; see OutboundEnabled.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}
	if _, err := menu.ParseStyle(c.MenuStyle); err != nil {
		errs = append(errs, fmt.Errorf("MENU_STYLE: %w", err))
	}
	if c.SendTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SEND_TIMEOUT must be positive, got %v", c.SendTimeout))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// OutboundEnabled reports whether both send credentials are present.
func (c *Config) OutboundEnabled() bool {
	return c.WAAccessToken != "" && c.WAPhoneNumberID != ""
}

// JournalPath returns the bbolt file holding the delivery journal.
func (c *Config) JournalPath() string {
	return filepath.Join(c.DataDir, "carebot.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv returns defaultValue when key is unset. A value that does not
// parse is reported through errs instead of being ignored.
func getBoolEnv(key string, defaultValue bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a boolean, got %q", key, value))
		return defaultValue
	}
	return b
}

// getDurationEnv is getBoolEnv for Go durations such as "5s" or "1500ms".
func getDurationEnv(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a duration like 5s, got %q", key, value))
		return defaultValue
	}
	return d
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
