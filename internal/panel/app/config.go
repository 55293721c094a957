package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/xpanel/pkg/httpx"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"` // HTTP listen address (default: :8080)

	DatabaseFile  string `yaml:"database_file"`   // SQLite database path (default: ./panel.db)
	PepperFile    string `yaml:"pepper_file"`     // Pepper for admin password hashing (default: ./pepper)
	MasterKeyFile string `yaml:"master_key_file"` // Key sealing panel credentials at rest (default: ./master.key)

	JWTKeyFile string        `yaml:"jwt_key_file"` // Optional: Ed25519 PKCS8 PEM, ephemeral key when empty
	Issuer     string        `yaml:"issuer"`       // Token issuer (default: xpanel)
	TokenTTL   time.Duration `yaml:"token_ttl"`    // Admin access token lifetime (default: 30m)

	SessionTTL3XUI     time.Duration `yaml:"session_ttl_3xui"`      // Cached 3x-ui login lifetime
	SessionTTLTXUI     time.Duration `yaml:"session_ttl_txui"`      // Cached tx-ui login lifetime
	RequestTimeout     time.Duration `yaml:"request_timeout"`       // Default bound of a panel call
	HealthTimeout      time.Duration `yaml:"health_timeout"`        // Bound of a panel health probe
	TransportIdleTTL   time.Duration `yaml:"transport_idle_ttl"`    // Lifetime of an unused pooled transport
	TLSInsecure        bool          `yaml:"tls_insecure"`          // Accept self-signed panel certificates
	HousekeepingPeriod time.Duration `yaml:"housekeeping_interval"` // Session and transport sweep period

	BootstrapUsername string `yaml:"bootstrap_username"` // First superadmin (default: admin)
	BootstrapPassword string `yaml:"bootstrap_password"` // Generated and logged once when empty

	Env                 string        `yaml:"env"`            // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        `yaml:"log_level"`      // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        `yaml:"log_format"`     // Log format (json, text) (default: json)
	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace"` // Graceful shutdown timeout (default: 10s)
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		DatabaseFile:        "panel.db",
		PepperFile:          "pepper",
		MasterKeyFile:       "master.key",
		Issuer:              "xpanel",
		TokenTTL:            30 * time.Minute,
		SessionTTL3XUI:      3500 * time.Second,
		SessionTTLTXUI:      300 * time.Second,
		RequestTimeout:      30 * time.Second,
		HealthTimeout:       5 * time.Second,
		TransportIdleTTL:    10 * time.Minute,
		HousekeepingPeriod:  5 * time.Minute,
		BootstrapUsername:   "admin",
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		ShutdownGracePeriod: 10 * time.Second,
	}
}

// LoadConfig reads .env when present, then the optional YAML file named by
// PANEL_CONFIG_FILE, then environment variables, and validates the result.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	// Rate limit profiles are package state in httpx; pick up .env values.
	httpx.LoadRateLimitsFromEnv()

	cfg := DefaultConfig()

	if path := os.Getenv("PANEL_CONFIG_FILE"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	cfg.HTTPAddr = getEnvOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.DatabaseFile = getEnvOrDefault("PANEL_DATABASE_FILE", cfg.DatabaseFile)
	cfg.PepperFile = getEnvOrDefault("PANEL_PEPPER_FILE", cfg.PepperFile)
	cfg.MasterKeyFile = getEnvOrDefault("PANEL_MASTER_KEY_FILE", cfg.MasterKeyFile)
	cfg.JWTKeyFile = getEnvOrDefault("PANEL_JWT_KEY_FILE", cfg.JWTKeyFile)
	cfg.Issuer = getEnvOrDefault("PANEL_JWT_ISSUER", cfg.Issuer)
	cfg.TokenTTL = getEnvDurationOrDefault("PANEL_TOKEN_TTL", cfg.TokenTTL)

	cfg.SessionTTL3XUI = getEnvDurationOrDefault("PANEL_SESSION_TTL_3XUI", cfg.SessionTTL3XUI)
	cfg.SessionTTLTXUI = getEnvDurationOrDefault("PANEL_SESSION_TTL_TXUI", cfg.SessionTTLTXUI)
	cfg.RequestTimeout = getEnvDurationOrDefault("PANEL_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.HealthTimeout = getEnvDurationOrDefault("PANEL_HEALTH_TIMEOUT", cfg.HealthTimeout)
	cfg.TransportIdleTTL = getEnvDurationOrDefault("PANEL_TRANSPORT_IDLE_TTL", cfg.TransportIdleTTL)
	cfg.TLSInsecure = getEnvBoolOrDefault("PANEL_TLS_INSECURE", cfg.TLSInsecure)
	cfg.HousekeepingPeriod = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", cfg.HousekeepingPeriod)

	cfg.BootstrapUsername = getEnvOrDefault("BOOTSTRAP_USERNAME", cfg.BootstrapUsername)
	cfg.BootstrapPassword = getEnvOrDefault("BOOTSTRAP_PASSWORD", cfg.BootstrapPassword)

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)
}

// Validate checks required values and obvious mistakes.
func (c Config) Validate() error {
	var errs []error

	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http address cannot be empty"))
	}
	if c.DatabaseFile == "" {
		errs = append(errs, errors.New("database file cannot be empty"))
	}
	if c.PepperFile == "" || c.MasterKeyFile == "" {
		errs = append(errs, errors.New("pepper and master key files are required"))
	}
	if strings.TrimSpace(c.BootstrapUsername) == "" {
		errs = append(errs, errors.New("bootstrap username cannot be empty"))
	}

	for name, d := range map[string]time.Duration{
		"token ttl":             c.TokenTTL,
		"3x-ui session ttl":     c.SessionTTL3XUI,
		"tx-ui session ttl":     c.SessionTTLTXUI,
		"request timeout":       c.RequestTimeout,
		"health timeout":        c.HealthTimeout,
		"transport idle ttl":    c.TransportIdleTTL,
		"housekeeping interval": c.HousekeepingPeriod,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.HealthTimeout > c.RequestTimeout {
		errs = append(errs, errors.New("health timeout must not exceed the request timeout"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds := getEnvIntOrDefault(key, -1); seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
