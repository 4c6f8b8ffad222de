package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"assemblyai_api_key": "aai-key",
		"poll_interval": "1s",
		"max_poll_attempts": 10,
		"rubric_preset": "extended",
		"port": 9090,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "aai-key", cfg.AssemblyAIAPIKey)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 10, cfg.MaxPollAttempts)
	assert.Equal(t, "extended", cfg.RubricPreset)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)

	// untouched fields keep defaults
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.assemblyai.com/v2", cfg.AssemblyAIBaseURL)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	content := "log_format: json\nconcurrency: 8\nrubric_sheet_id: sheet-1\n"

	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "sheet-1", cfg.RubricSheetID)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CALL_SCORER_DATABASE_URL", "postgres://localhost/calls")
	t.Setenv("CALL_SCORER_MAX_POLL_ATTEMPTS", "5")
	t.Setenv("CALL_SCORER_POLL_INTERVAL", "250ms")

	content := `{"max_poll_attempts": 10}`
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/calls", cfg.DatabaseURL)
	assert.Equal(t, 5, cfg.MaxPollAttempts, "environment should win over file")
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
}

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Defaults().Port, cfg.Port)
	assert.Equal(t, Defaults().PollInterval, cfg.PollInterval)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644))

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	rubricFile := filepath.Join(t.TempDir(), "rubric.json")
	require.NoError(t, os.WriteFile(rubricFile, []byte(`[]`), 0644))

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(_ *Config) {}},
		{name: "existing rubric file", mutate: func(c *Config) { c.RubricFile = rubricFile }},
		{
			name:    "file and sheet",
			mutate:  func(c *Config) { c.RubricFile = rubricFile; c.RubricSheetID = "s" },
			wantErr: "mutually exclusive",
		},
		{name: "missing rubric file", mutate: func(c *Config) { c.RubricFile = "/nope.json" }, wantErr: "rubric file not found"},
		{name: "zero poll interval", mutate: func(c *Config) { c.PollInterval = 0 }, wantErr: "poll_interval"},
		{name: "zero attempts", mutate: func(c *Config) { c.MaxPollAttempts = 0 }, wantErr: "max_poll_attempts"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }, wantErr: "port"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log_level"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "log_format"},
		{
			name:    "jwt with zero expiry",
			mutate:  func(c *Config) { c.JWTSecret = "0123456789abcdef"; c.JWTExpirationHours = 0 },
			wantErr: "jwt_expiration_hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	flags := Config{RubricPreset: "extended", Concurrency: 2}
	fileCfg := Defaults()
	fileCfg.AssemblyAIAPIKey = "from-file"
	fileCfg.RubricPreset = "default"
	fileCfg.Verbose = true

	merged := flags.MergeWithDefaults(fileCfg)
	assert.Equal(t, "extended", merged.RubricPreset, "flag should win")
	assert.Equal(t, 2, merged.Concurrency)
	assert.Equal(t, "from-file", merged.AssemblyAIAPIKey)
	assert.Equal(t, fileCfg.PollInterval, merged.PollInterval)
	assert.True(t, merged.Verbose)

	// receiver is not modified
	assert.Empty(t, flags.AssemblyAIAPIKey)
}
