// Package config provides configuration loading and validation for the CLI and HTTP server.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (CALL_SCORER_DATABASE_URL, ...)
const EnvPrefix = "CALL_SCORER"

// Config represents call_scorer configuration loaded from a JSON or YAML file and the environment.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Transcription
	AssemblyAIAPIKey  string        `mapstructure:"assemblyai_api_key"`  // AssemblyAI API key
	AssemblyAIBaseURL string        `mapstructure:"assemblyai_base_url"` // AssemblyAI API root
	PollInterval      time.Duration `mapstructure:"poll_interval"`       // Delay between transcription status polls
	MaxPollAttempts   int           `mapstructure:"max_poll_attempts"`   // Polls before giving up

	// Rubric sources, first non-empty wins: file, sheet, stored, preset
	RubricFile            string `mapstructure:"rubric_file"`             // JSON, YAML, or CSV rubric
	RubricSheetID         string `mapstructure:"rubric_sheet_id"`         // Google Sheet holding the rubric table
	RubricSheetRange      string `mapstructure:"rubric_sheet_range"`      // A1 range of the rubric table
	RubricName            string `mapstructure:"rubric_name"`             // Rubric stored in the database
	RubricPreset          string `mapstructure:"rubric_preset"`           // Built-in rubric name
	GoogleCredentialsFile string `mapstructure:"google_credentials_file"` // Service account JSON for Sheets
	GoogleAPIKey          string `mapstructure:"google_api_key"`          // API key for public Sheets

	// Storage
	DatabaseURL string `mapstructure:"database_url"` // PostgreSQL connection URL

	// Server
	Port               int    `mapstructure:"port"`
	JWTSecret          string `mapstructure:"jwt_secret"`           // Enables bearer auth when set
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"` // Lifetime of issued tokens
	SentryDSN          string `mapstructure:"sentry_dsn"`           // Enables error reporting when set
	Environment        string `mapstructure:"environment"`          // Reported to Sentry

	// Behavior
	Concurrency int    `mapstructure:"concurrency"` // Parallel scoring workers for batch runs
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"` // text or json
	Verbose     bool   `mapstructure:"verbose"`    // Print detailed analysis tables
}

// Defaults returns the configuration used when neither a file nor the environment sets a value
func Defaults() Config {
	return Config{
		AssemblyAIBaseURL:  "https://api.assemblyai.com/v2",
		PollInterval:       3 * time.Second,
		MaxPollAttempts:    60,
		RubricSheetRange:   "A:H",
		Port:               8080,
		JWTExpirationHours: 24,
		Environment:        "development",
		Concurrency:        4,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// LoadConfig loads configuration from an optional JSON or YAML file plus CALL_SCORER_* environment variables.
// An empty path skips the file and uses defaults and the environment only.
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, so every field gets a default
	d := Defaults()
	v.SetDefault("assemblyai_api_key", d.AssemblyAIAPIKey)
	v.SetDefault("assemblyai_base_url", d.AssemblyAIBaseURL)
	v.SetDefault("poll_interval", d.PollInterval)
	v.SetDefault("max_poll_attempts", d.MaxPollAttempts)
	v.SetDefault("rubric_file", d.RubricFile)
	v.SetDefault("rubric_sheet_id", d.RubricSheetID)
	v.SetDefault("rubric_sheet_range", d.RubricSheetRange)
	v.SetDefault("rubric_name", d.RubricName)
	v.SetDefault("rubric_preset", d.RubricPreset)
	v.SetDefault("google_credentials_file", d.GoogleCredentialsFile)
	v.SetDefault("google_api_key", d.GoogleAPIKey)
	v.SetDefault("database_url", d.DatabaseURL)
	v.SetDefault("port", d.Port)
	v.SetDefault("jwt_secret", d.JWTSecret)
	v.SetDefault("jwt_expiration_hours", d.JWTExpirationHours)
	v.SetDefault("sentry_dsn", d.SentryDSN)
	v.SetDefault("environment", d.Environment)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("verbose", d.Verbose)
	return v
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those depend on the command being run.
func (c *Config) Validate() error {
	if c.RubricFile != "" && c.RubricSheetID != "" {
		return fmt.Errorf("config error: 'rubric_file' and 'rubric_sheet_id' are mutually exclusive")
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("config error: 'poll_interval' must be positive")
	}
	if c.MaxPollAttempts < 1 {
		return fmt.Errorf("config error: 'max_poll_attempts' must be at least 1")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("config error: 'concurrency' must be at least 1")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.JWTSecret != "" && c.JWTExpirationHours < 1 {
		return fmt.Errorf("config error: 'jwt_expiration_hours' must be at least 1 hour, got: %d", c.JWTExpirationHours)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config error: invalid 'log_level': %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}

	if c.RubricFile != "" {
		if _, err := os.Stat(c.RubricFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: rubric file not found: %s", c.RubricFile)
		}
	}
	if c.GoogleCredentialsFile != "" {
		if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: google credentials file not found: %s", c.GoogleCredentialsFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// CLI flag values are merged over the loaded file this way.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString(&result.AssemblyAIAPIKey, defaults.AssemblyAIAPIKey)
	mergeString(&result.AssemblyAIBaseURL, defaults.AssemblyAIBaseURL)
	mergeString(&result.RubricFile, defaults.RubricFile)
	mergeString(&result.RubricSheetID, defaults.RubricSheetID)
	mergeString(&result.RubricSheetRange, defaults.RubricSheetRange)
	mergeString(&result.RubricName, defaults.RubricName)
	mergeString(&result.RubricPreset, defaults.RubricPreset)
	mergeString(&result.GoogleCredentialsFile, defaults.GoogleCredentialsFile)
	mergeString(&result.GoogleAPIKey, defaults.GoogleAPIKey)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.JWTSecret, defaults.JWTSecret)
	mergeString(&result.SentryDSN, defaults.SentryDSN)
	mergeString(&result.Environment, defaults.Environment)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)

	if result.PollInterval == 0 {
		result.PollInterval = defaults.PollInterval
	}
	if result.MaxPollAttempts == 0 {
		result.MaxPollAttempts = defaults.MaxPollAttempts
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.JWTExpirationHours == 0 {
		result.JWTExpirationHours = defaults.JWTExpirationHours
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: true wins
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

func mergeString(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}
