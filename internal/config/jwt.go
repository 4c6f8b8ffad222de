package config

import "fmt"

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the bearer-auth configuration, or nil when no secret is configured (auth disabled).
func (c *Config) JWT() (*JWTConfig, error) {
	if c.JWTSecret == "" {
		return nil, nil
	}

	jwtCfg := &JWTConfig{
		Secret:          c.JWTSecret,
		ExpirationHours: c.JWTExpirationHours,
	}
	if err := jwtCfg.normalize(); err != nil {
		return nil, err
	}
	return jwtCfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("jwt_secret cannot be empty")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("jwt_secret must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("jwt_expiration_hours must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
