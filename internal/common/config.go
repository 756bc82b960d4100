package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ternarybob/loanlens/internal/models"
)

// Config represents the application configuration
type Config struct {
	Environment string                  `toml:"environment"` // "development" or "production"
	Server      ServerConfig            `toml:"server"`
	Storage     StorageConfig           `toml:"storage"`
	Logging     LoggingConfig           `toml:"logging"`
	Parser      ParserConfig            `toml:"parser"`
	Valuation   ValuationConfig         `toml:"valuation"`
	Mailer      MailerConfig            `toml:"mailer"`
	Criteria    models.MortgageCriteria `toml:"criteria"`
	FollowUp    FollowUpConfig          `toml:"follow_up"`
	RateLimit   RateLimitConfig         `toml:"rate_limit"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Type   string       `toml:"type"` // "badger" (default) or "sqlite"
	Badger BadgerConfig `toml:"badger"`
	SQLite SQLiteConfig `toml:"sqlite"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// SQLiteConfig represents SQLite-specific configuration
type SQLiteConfig struct {
	Path           string `toml:"path"`             // Database file path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// ParserConfig controls the LLM document parser backend.
type ParserConfig struct {
	Provider    string  `toml:"provider"`   // "claude" or "gemini"
	Model       string  `toml:"model"`      // provider model name, defaulted per provider
	APIKey      string  `toml:"api_key"`    // overridden by provider env vars
	Timeout     string  `toml:"timeout"`    // e.g. "90s"
	MaxTokens   int     `toml:"max_tokens"` // completion budget for extraction
	Temperature float32 `toml:"temperature"`
}

// ValuationConfig controls the RentCast AVM client.
type ValuationConfig struct {
	BaseURL string `toml:"base_url"` // default https://api.rentcast.io/v1
	APIKey  string `toml:"api_key"`
	Timeout string `toml:"timeout"` // e.g. "15s"
}

// MailerConfig holds SMTP settings for borrower notifications.
type MailerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
	UseTLS   bool   `toml:"use_tls"`
	AppURL   string `toml:"app_url"` // base URL linked from email templates
}

// FollowUpConfig controls the conditional-approval follow-up scheduler.
type FollowUpConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // cron expression, e.g. "0 9 * * *"
	MinAge   string `toml:"min_age"`  // how stale a conditional analysis must be, e.g. "72h"
}

// RateLimitConfig controls the per-client token bucket on the analyze route.
type RateLimitConfig struct {
	RequestsPerMinute int `toml:"requests_per_minute"`
	Burst             int `toml:"burst"`
}

// DefaultConfig returns the baseline configuration before file, env, and
// flag overrides are applied.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Type: "badger",
			Badger: BadgerConfig{
				Path:           "./data/loanlens",
				ResetOnStartup: false,
			},
			SQLite: SQLiteConfig{
				Path:           "./data/loanlens.db",
				ResetOnStartup: false,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Parser: ParserConfig{
			Provider:  "claude",
			Timeout:   "90s",
			MaxTokens: 2048,
		},
		Valuation: ValuationConfig{
			BaseURL: "https://api.rentcast.io/v1",
			Timeout: "15s",
		},
		Mailer: MailerConfig{
			Port:     587,
			FromName: "LoanLens",
			UseTLS:   true,
		},
		Criteria: models.DefaultMortgageCriteria(),
		FollowUp: FollowUpConfig{
			Enabled:  false,
			Schedule: "0 9 * * *",
			MinAge:   "72h",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 30,
			Burst:             5,
		},
	}
}

// LoadFromFiles loads configuration from one or more TOML files, later files
// overriding earlier ones, then applies environment overrides. Passing no
// paths yields defaults plus env overrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := DefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies LOANLENS_* environment variable overrides.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LOANLENS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("LOANLENS_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LOANLENS_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if storageType := os.Getenv("LOANLENS_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}
	if path := os.Getenv("LOANLENS_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if path := os.Getenv("LOANLENS_SQLITE_PATH"); path != "" {
		config.Storage.SQLite.Path = path
	}

	if level := os.Getenv("LOANLENS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	// Provider API keys follow the vendor convention first, then the
	// LOANLENS_ prefix, then the config file value.
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && config.Parser.Provider == "claude" {
		config.Parser.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && config.Parser.Provider == "gemini" {
		config.Parser.APIKey = key
	}
	if key := os.Getenv("LOANLENS_PARSER_API_KEY"); key != "" {
		config.Parser.APIKey = key
	}

	if key := os.Getenv("RENTCAST_API_KEY"); key != "" {
		config.Valuation.APIKey = key
	}

	if pw := os.Getenv("LOANLENS_SMTP_PASSWORD"); pw != "" {
		config.Mailer.Password = pw
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority).
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// validateConfig rejects configurations the services cannot start with.
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}

	switch config.Storage.Type {
	case "badger", "sqlite", "":
	default:
		return fmt.Errorf("invalid storage type %q: must be 'badger' or 'sqlite'", config.Storage.Type)
	}

	switch config.Parser.Provider {
	case "claude", "gemini":
	default:
		return fmt.Errorf("invalid parser provider %q: must be 'claude' or 'gemini'", config.Parser.Provider)
	}

	if _, err := time.ParseDuration(config.Parser.Timeout); err != nil {
		return fmt.Errorf("invalid parser timeout %q: %w", config.Parser.Timeout, err)
	}
	if _, err := time.ParseDuration(config.Valuation.Timeout); err != nil {
		return fmt.Errorf("invalid valuation timeout %q: %w", config.Valuation.Timeout, err)
	}
	if config.FollowUp.Enabled {
		if _, err := time.ParseDuration(config.FollowUp.MinAge); err != nil {
			return fmt.Errorf("invalid follow_up min_age %q: %w", config.FollowUp.MinAge, err)
		}
	}

	if config.Criteria.MaxLTVPercent <= 0 || config.Criteria.MaxDTIPercent <= 0 {
		return fmt.Errorf("criteria thresholds must be positive (max_ltv_percent=%v, max_dti_percent=%v)",
			config.Criteria.MaxLTVPercent, config.Criteria.MaxDTIPercent)
	}

	return nil
}

// ParserTimeout returns the parsed parser timeout duration.
func (c *Config) ParserTimeout() time.Duration {
	d, err := time.ParseDuration(c.Parser.Timeout)
	if err != nil {
		return 90 * time.Second
	}
	return d
}

// ValuationTimeout returns the parsed valuation client timeout.
func (c *Config) ValuationTimeout() time.Duration {
	d, err := time.ParseDuration(c.Valuation.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// FollowUpMinAge returns how old a conditional analysis must be before the
// scheduler sends a follow-up reminder.
func (c *Config) FollowUpMinAge() time.Duration {
	d, err := time.ParseDuration(c.FollowUp.MinAge)
	if err != nil {
		return 72 * time.Hour
	}
	return d
}
