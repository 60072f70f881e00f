package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sman1jakarta/portal/config"
	httpx "github.com/sman1jakarta/portal/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Health   map[string]httpx.HealthCheck
	Logger   *slog.Logger
	// ErrCh receives the listener error if the server stops unexpectedly.
	ErrCh chan<- error
}

// healthChecks pings each live connection.
func healthChecks(db *sql.DB, rdb redis.UniversalClient) map[string]httpx.HealthCheck {
	checks := make(map[string]httpx.HealthCheck, 2)
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// routerServices maps the container and config onto the router's inputs.
func routerServices(cfg *HTTPServerConfig, logger *slog.Logger) httpx.RouterServices {
	app := cfg.Config
	svcs := cfg.Services
	compression := 0
	if app.HTTP.CompressionEnabled {
		compression = app.HTTP.CompressionLevel
	}
	return httpx.RouterServices{
		Auth:      svcs.Auth,
		Logout:    svcs.Logout,
		Settings:  svcs.Settings,
		News:      svcs.News,
		Gallery:   svcs.Gallery,
		Contacts:  svcs.Contacts,
		Users:     svcs.Users,
		Dashboard: svcs.Dashboard,
		Export:    svcs.Export,
		Media:     svcs.Media,
		Chrome:    svcs.Chrome,
		Limiter: httpx.NewIPRateLimiter(httpx.RateLimitConfig{
			PerSecond: app.Portal.ContactRatePerSecond,
			Burst:     app.Portal.ContactBurst,
			Idle:      app.Portal.ContactLimiterIdle,
		}),
		Visits:           svcs.Repos.Visits,
		Health:           cfg.Health,
		CookieDomain:     app.HTTP.CookieDomain,
		FlashSecret:      app.Auth.FlashSecret,
		BaseURL:          app.HTTP.BaseURL,
		CompressionLevel: compression,
		WelcomeAutoClose: time.Duration(app.Portal.WelcomeAutoCloseSeconds) * time.Second,
		LogoutCountdown:  app.Portal.LogoutCountdownSeconds,
		IsDev:            app.IsDev,
		Logger:           logger,
	}
}

// StartHTTPServer builds the router and starts listening in the background.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return nil, errors.New("http server config is incomplete")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	handler, err := httpx.NewRouter(routerServices(cfg, logger))
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	if cfg.Config.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", cfg.Config.HTTP.CompressionLevel)
	}

	addr := cfg.Config.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Config.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.Config.HTTP.ReadTimeout,
		WriteTimeout:      cfg.Config.HTTP.WriteTimeout,
		IdleTimeout:       cfg.Config.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if cfg.ErrCh != nil {
				select {
				case cfg.ErrCh <- fmt.Errorf("http server: %w", err):
				default:
				}
			}
		}
	}()

	return server, nil
}

// ShutdownHTTPServer drains in-flight requests.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if logger != nil {
		logger.Info("shutting down HTTP server")
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if logger != nil {
		logger.Info("HTTP server stopped")
	}
	return nil
}
