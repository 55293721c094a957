package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PANEL_CONFIG_FILE", "HTTP_ADDR", "PANEL_DATABASE_FILE", "PANEL_PEPPER_FILE",
	"PANEL_MASTER_KEY_FILE", "PANEL_JWT_KEY_FILE", "PANEL_JWT_ISSUER", "PANEL_TOKEN_TTL",
	"PANEL_SESSION_TTL_3XUI", "PANEL_SESSION_TTL_TXUI", "PANEL_REQUEST_TIMEOUT",
	"PANEL_HEALTH_TIMEOUT", "PANEL_TRANSPORT_IDLE_TTL", "PANEL_TLS_INSECURE",
	"HOUSEKEEPING_INTERVAL", "BOOTSTRAP_USERNAME", "BOOTSTRAP_PASSWORD", "ENV",
	"LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_GRACE_PERIOD",
}

// clearEnv blanks every key LoadConfig reads. Empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, 3500*time.Second, cfg.SessionTTL3XUI)
	require.Equal(t, 300*time.Second, cfg.SessionTTLTXUI)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "panel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9090"
database_file: /var/lib/xpanel/panel.db
session_ttl_txui: 2m
request_timeout: 20s
tls_insecure: true
log_level: debug
`), 0o600))

	t.Setenv("PANEL_CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("PANEL_REQUEST_TIMEOUT", "45")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, "/var/lib/xpanel/panel.db", cfg.DatabaseFile)
	require.Equal(t, 2*time.Minute, cfg.SessionTTLTXUI)
	require.True(t, cfg.TLSInsecure)

	// Environment wins over the file.
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, 45*time.Second, cfg.RequestTimeout)

	// Untouched values keep their defaults.
	require.Equal(t, 3500*time.Second, cfg.SessionTTL3XUI)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BOOTSTRAP_USERNAME=root\n"), 0o600))

	// godotenv does not override variables that are already set.
	require.NoError(t, os.Unsetenv("BOOTSTRAP_USERNAME"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "root", cfg.BootstrapUsername)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("PANEL_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := LoadConfig()
	require.ErrorContains(t, err, "failed to load config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty addr", func(c *Config) { c.HTTPAddr = "" }, "http address"},
		{"empty database", func(c *Config) { c.DatabaseFile = "" }, "database file"},
		{"zero session ttl", func(c *Config) { c.SessionTTL3XUI = 0 }, "3x-ui session ttl"},
		{"negative interval", func(c *Config) { c.HousekeepingPeriod = -time.Second }, "housekeeping interval"},
		{"health above request", func(c *Config) { c.HealthTimeout = time.Minute }, "health timeout"},
		{"blank bootstrap user", func(c *Config) { c.BootstrapUsername = "  " }, "bootstrap username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	require.NoError(t, DefaultConfig().Validate())
}

func TestGetEnvDurationOrDefault(t *testing.T) {
	t.Setenv("X_DURATION", "90s")
	require.Equal(t, 90*time.Second, getEnvDurationOrDefault("X_DURATION", time.Second))

	t.Setenv("X_DURATION", "15")
	require.Equal(t, 15*time.Second, getEnvDurationOrDefault("X_DURATION", time.Second))

	t.Setenv("X_DURATION", "soon")
	require.Equal(t, time.Second, getEnvDurationOrDefault("X_DURATION", time.Second))
}
