package ratelimit

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultLimit = 1000

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends in "/"
	Method string        // HTTP method
	Limit  int           // requests per Window; 0 means unlimited
	Window time.Duration // refill window
	Burst  int           // bucket capacity, defaults to Limit
}

// LoadConfig reads CALL_SCORER_RATE_LIMIT_* environment variables over the defaults.
func LoadConfig() *Config {
	v := viper.New()
	v.SetEnvPrefix("CALL_SCORER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", defaultLimit)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", "")
	v.SetDefault("rate_limit.blacklist", "")

	if !v.GetBool("rate_limit.enabled") {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    v.GetInt("rate_limit.default_limit"),
		DefaultWindow:   v.GetDuration("rate_limit.default_window"),
		CleanupInterval: v.GetDuration("rate_limit.cleanup_interval"),
		Whitelist:       parseIPList(v.GetString("rate_limit.whitelist")),
		Blacklist:       parseIPList(v.GetString("rate_limit.blacklist")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Transcription calls a paid external service
		{Path: "/transcriptions", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		// Scoring is CPU only
		{Path: "/analyses", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/speakers/classify", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Rubric writes
		{Path: "/rubrics/validate", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/rubrics/", Method: "PUT", Limit: 30, Window: time.Minute, Burst: 5},
	}
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
