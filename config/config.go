package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Admin authentication and session configuration
//   - database.go: Database and cache configuration
//   - http.go: HTTP server configuration
//   - portal.go: Storage backends, uploads and page behavior
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, seed data).
	// Set DEV=true or APP_ENV/NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	Portal PortalConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Postgres.Sanitize()
	c.Auth.Sanitize()
	c.Portal.Sanitize()

	c.detectDevMode()
}

// NeedsPostgres reports whether any configured backend requires a database connection.
func (c *AppConfig) NeedsPostgres() bool {
	return c.Portal.Storage == StorageBackendPostgres
}

// NeedsRedis reports whether any configured backend requires a Redis connection.
func (c *AppConfig) NeedsRedis() bool {
	return c.Portal.Sessions == SessionBackendRedis || c.Portal.SettingsCache
}

// detectDevMode checks APP_ENV and NODE_ENV as fallbacks for DEV.
func (c *AppConfig) detectDevMode() {
	if c.IsDev {
		return
	}
	for _, key := range []string{"APP_ENV", "NODE_ENV"} {
		v := strings.ToLower(os.Getenv(key))
		if v == "development" || v == "dev" {
			c.IsDev = true
			return
		}
	}
}
