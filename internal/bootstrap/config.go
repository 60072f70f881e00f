package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sman1jakarta/portal/config"
)

// InitLogger installs the JSON logger as the process default. Development
// builds log at debug level.
func InitLogger(isDev bool) *slog.Logger {
	level := slog.LevelInfo
	if isDev {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (config.AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// ValidateConfig rejects combinations the portal cannot start with.
func ValidateConfig(cfg *config.AppConfig) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if cfg.Auth.AdminEmail == "" || cfg.Auth.AdminPassword == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if !cfg.IsDev && cfg.Auth.FlashSecret == config.InsecureFlashSecret {
		return errors.New("FLASH_SECRET must be set outside development")
	}
	if cfg.Auth.Mode == config.AuthModeOIDC && !cfg.IsDev && cfg.Auth.OIDC.DiscoveryURL == "" {
		return errors.New("AUTH_MODE=oidc requires OIDC_DISCOVERY_URL")
	}
	return nil
}

// Backends lists the storage choices for the startup log line.
func Backends(cfg *config.AppConfig) map[string]string {
	if cfg == nil {
		return map[string]string{}
	}
	settingsBackend := string(cfg.Portal.Storage)
	if cfg.NeedsPostgres() && cfg.Portal.SettingsCache {
		settingsBackend += "+redis"
	} else if cfg.Portal.Storage == config.StorageBackendMemory && cfg.Portal.Sessions == config.SessionBackendRedis {
		settingsBackend = "redis"
	}
	return map[string]string{
		"content":  string(cfg.Portal.Storage),
		"sessions": string(cfg.Portal.Sessions),
		"settings": settingsBackend,
		"auth":     string(cfg.Auth.Mode),
	}
}
