package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development", Timezone: "UTC"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/some/path"},
		Telegram: TelegramConfig{
			Token:       "123:abc",
			Mode:        ModePolling,
			PollTimeout: 30 * time.Second,
			SendRate:    1,
			SendBurst:   5,
		},
		Album: AlbumConfig{Debounce: 800 * time.Millisecond},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.UTC, cfg.App.Location)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing token", func(c *Config) { c.Telegram.Token = "" }, "TELEGRAM_TOKEN is required"},
		{"unknown mode", func(c *Config) { c.Telegram.Mode = "push" }, "invalid telegram mode"},
		{"webhook without url", func(c *Config) { c.Telegram.Mode = ModeWebhook }, "requires an https"},
		{"plain http webhook", func(c *Config) {
			c.Telegram.Mode = ModeWebhook
			c.Telegram.WebhookURL = "http://example.com"
		}, "requires an https"},
		{"zero debounce", func(c *Config) { c.Album.Debounce = 0 }, "album debounce"},
		{"zero rate", func(c *Config) { c.Telegram.SendRate = 0 }, "send rate"},
		{"bad timezone", func(c *Config) { c.App.Timezone = "Mars/Olympus" }, "invalid timezone"},
		{"empty data path", func(c *Config) { c.Storage.DataPath = "" }, "data path cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_WebhookMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Mode = ModeWebhook
	cfg.Telegram.WebhookURL = "https://bot.example.com"

	assert.NoError(t, cfg.Validate())
}

func TestExpandPaths_Defaults(t *testing.T) {
	cfg := &Config{}

	require.NoError(t, cfg.expandPaths())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, ".mediabot"), cfg.Storage.DataPath)
	assert.Equal(t, filepath.Join(homeDir, ".mediabot", "archive.db"), cfg.Storage.DatabasePath)
	assert.Equal(t, filepath.Join(homeDir, ".mediabot", "search"), cfg.Storage.SearchPath)
}

func TestExpandPaths_TildeAndRelative(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{DataPath: "~/bot-data"},
		Tagger:  TaggerConfig{DictionaryPath: "dict/ru.tsv"},
	}

	require.NoError(t, cfg.expandPaths())

	homeDir, _ := os.UserHomeDir() //nolint:errcheck // Test setup
	assert.Equal(t, filepath.Join(homeDir, "bot-data"), cfg.Storage.DataPath)
	assert.True(t, filepath.IsAbs(cfg.Tagger.DictionaryPath))
	assert.Contains(t, cfg.Tagger.DictionaryPath, "dict/ru.tsv")
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestGetBoolConfigValue(t *testing.T) {
	assert.True(t, getBoolConfigValue("yes", "X", false))
	assert.True(t, getBoolConfigValue("1", "X", false))
	assert.False(t, getBoolConfigValue("off", "X", true))
	assert.True(t, getBoolConfigValue("", "NONEXISTENT_BOOL", true))
}

func TestLoad_FlagsOverrideEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := `# bot settings
TELEGRAM_TOKEN=from-file
LOG_LEVEL=debug
ALBUM_DEBOUNCE=1s
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	for _, key := range []string{"TELEGRAM_TOKEN", "LOG_LEVEL", "ALBUM_DEBOUNCE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load([]string{
		"-env-file", envFile,
		"-data-path", dir,
		"-timezone", "UTC",
		"-log-level", "warn",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Telegram.Token)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.Equal(t, time.Second, cfg.Album.Debounce)
	assert.Equal(t, ModePolling, cfg.Telegram.Mode)
	assert.Equal(t, filepath.Join(dir, "archive.db"), cfg.Storage.DatabasePath)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "x")

	_, err := Load([]string{"-env-file", "/nonexistent/.env", "-album-debounce", "soon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "album_debounce")
}
