// Package config loads bot configuration from command-line flags, environment variables, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Transport modes.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Storage  StorageConfig
	Telegram TelegramConfig
	Album    AlbumConfig
	Tagger   TaggerConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// Timezone is used to stamp new entries and to interpret search dates.
	Timezone string
	Location *time.Location
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	DataPath     string
	DatabasePath string // default: {data}/archive.db
	SearchPath   string // default: {data}/search
}

// TelegramConfig holds chat transport configuration.
type TelegramConfig struct {
	Token       string
	Mode        string        // polling or webhook
	PollTimeout time.Duration // long-poll timeout (default: 30s)
	WebhookURL  string        // public base URL, webhook mode only
	ListenAddr  string        // HTTP listen address, webhook mode only (default: :8080)
	SendRate    float64       // outbound messages per second per chat (default: 1)
	SendBurst   int           // outbound burst per chat (default: 5)
}

// AlbumConfig holds media group buffering configuration.
type AlbumConfig struct {
	Debounce time.Duration // default: 800ms
}

// TaggerConfig holds tag extraction configuration.
type TaggerConfig struct {
	// DictionaryPath points to a word<TAB>lemma<TAB>POS file. Empty uses the built-in dictionary.
	DictionaryPath string
	// Watch reloads the dictionary when the file changes.
	Watch bool
}

// LoadConfig loads configuration from os.Args with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load is LoadConfig with explicit arguments.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("mediabot", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	timezone := fs.String("timezone", "", "IANA timezone for entry timestamps (default: Local)")
	dataPath := fs.String("data-path", "", "Directory for the database and search index")
	dbPath := fs.String("db-path", "", "SQLite database file (default: {data}/archive.db)")

	token := fs.String("token", "", "Telegram bot token")
	mode := fs.String("mode", "", "Update delivery mode (polling, webhook)")
	pollTimeout := fs.String("poll-timeout", "", "Long polling timeout (default: 30s)")
	webhookURL := fs.String("webhook-url", "", "Public base URL for webhook mode")
	listenAddr := fs.String("listen", "", "HTTP listen address for webhook mode (default: :8080)")
	sendRate := fs.String("send-rate", "", "Outbound messages per second per chat (default: 1)")

	albumDebounce := fs.String("album-debounce", "", "Quiet period before an album is finalized (default: 800ms)")
	dictPath := fs.String("dictionary", "", "Morphology dictionary file")
	watchDict := fs.String("watch-dictionary", "", "Reload the dictionary on change (default: true)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Missing .env is fine. godotenv never overrides variables already set.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			Timezone:    getConfigValue(*timezone, "TIMEZONE", "Local"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataPath:     getConfigValue(*dataPath, "DATA_PATH", ""),
			DatabasePath: getConfigValue(*dbPath, "DB_PATH", ""),
		},
		Telegram: TelegramConfig{
			Token:      getConfigValue(*token, "TELEGRAM_TOKEN", ""),
			Mode:       getConfigValue(*mode, "TELEGRAM_MODE", ModePolling),
			WebhookURL: getConfigValue(*webhookURL, "TELEGRAM_WEBHOOK_URL", ""),
			ListenAddr: getConfigValue(*listenAddr, "TELEGRAM_LISTEN", ":8080"),
			SendBurst:  getIntConfigValue("", "TELEGRAM_SEND_BURST", 5),
		},
		Tagger: TaggerConfig{
			DictionaryPath: getConfigValue(*dictPath, "TAGGER_DICTIONARY", ""),
			Watch:          getBoolConfigValue(*watchDict, "TAGGER_WATCH", true),
		},
	}

	var err error
	if cfg.Telegram.PollTimeout, err = getDurationConfigValue(*pollTimeout, "TELEGRAM_POLL_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.Album.Debounce, err = getDurationConfigValue(*albumDebounce, "ALBUM_DEBOUNCE", "800ms"); err != nil {
		return nil, err
	}

	rateStr := getConfigValue(*sendRate, "TELEGRAM_SEND_RATE", "1")
	cfg.Telegram.SendRate, err = strconv.ParseFloat(rateStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid send rate %q: %w", rateStr, err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
// It also resolves App.Location from App.Timezone.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
	}
	c.App.Location = loc

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Telegram.Token == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	switch c.Telegram.Mode {
	case ModePolling:
	case ModeWebhook:
		if !strings.HasPrefix(c.Telegram.WebhookURL, "https://") {
			return fmt.Errorf("webhook mode requires an https TELEGRAM_WEBHOOK_URL, got %q", c.Telegram.WebhookURL)
		}
	default:
		return fmt.Errorf("invalid telegram mode: %q (must be polling or webhook)", c.Telegram.Mode)
	}

	if c.Telegram.PollTimeout <= 0 {
		return errors.New("poll timeout must be positive")
	}
	if c.Telegram.SendRate <= 0 || c.Telegram.SendBurst <= 0 {
		return errors.New("send rate and burst must be positive")
	}
	if c.Album.Debounce <= 0 {
		return errors.New("album debounce must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned unchanged.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandPaths resolves the data directory and the files derived from it.
func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	c.Storage.DataPath, err = expandPath(c.Storage.DataPath, filepath.Join(homeDir, ".mediabot"))
	if err != nil {
		return err
	}
	c.Storage.DatabasePath, err = expandPath(c.Storage.DatabasePath, filepath.Join(c.Storage.DataPath, "archive.db"))
	if err != nil {
		return err
	}
	c.Storage.SearchPath = filepath.Join(c.Storage.DataPath, "search")

	if c.Tagger.DictionaryPath != "" {
		c.Tagger.DictionaryPath, err = expandPath(c.Tagger.DictionaryPath, "")
		if err != nil {
			return err
		}
	}
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return d, nil
}
