package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sman1jakarta/portal/config"
	"github.com/sman1jakarta/portal/internal/devseed"
	httpx "github.com/sman1jakarta/portal/internal/http"
	"github.com/sman1jakarta/portal/internal/media"
	"github.com/sman1jakarta/portal/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Repos     *Repositories
	Auth      *service.AuthService
	Logout    *service.LogoutCoordinator
	Settings  *service.SettingsStore
	Activity  *service.ActivityService
	News      *service.NewsService
	Gallery   *service.GalleryService
	Contacts  *service.ContactService
	Users     *service.UserService
	Dashboard *service.DashboardService
	Export    *service.ExportService
	Media     *media.Store

	// Chrome is the page chrome cache subscribed to Settings.
	Chrome *httpx.Chrome

	unsubscribe []func()
}

// Close drops the settings subscriptions made by NewServices. It is safe to
// call more than once.
func (c *ServiceContainer) Close() {
	for _, unsub := range c.unsubscribe {
		unsub()
	}
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds the repositories and every service on top of them,
// loads the settings snapshot and seeds empty stores when configured to.
func NewServices(ctx context.Context, deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("services: config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	repos, err := BuildRepositories(RepositoryDeps{Config: cfg, DB: deps.DB, Redis: deps.RedisClient, Logger: logger})
	if err != nil {
		return nil, err
	}

	if shouldSeed(cfg) {
		res, seedErr := devseed.Run(ctx, devseed.Repos{
			News: repos.News, Gallery: repos.Gallery, Contacts: repos.Contacts, Users: repos.Users,
		}, logger)
		if seedErr != nil {
			return nil, fmt.Errorf("seed sample content: %w", seedErr)
		}
		logger.InfoContext(ctx, "sample content seeded",
			"news", res.News, "gallery", res.Gallery, "contacts", res.Contacts, "users", res.Users)
	}

	store, err := media.NewStore(media.StoreOptions{
		Root: cfg.Portal.UploadDir,
		Limits: map[media.Kind]int64{
			media.KindGallery: cfg.Portal.GalleryMaxBytes,
			media.KindNews:    cfg.Portal.GalleryMaxBytes,
			media.KindLogo:    cfg.Portal.LogoMaxBytes,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("media store: %w", err)
	}

	auth, err := BuildAuthService(ctx, AuthDeps{
		Auth: cfg.Auth, IsDev: cfg.IsDev, Sessions: repos.Sessions, Users: repos.Users, Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	settingsStore := service.NewSettingsStore(service.SettingsStoreOptions{Repo: repos.Settings, Logger: logger})
	settingsStore.Load(ctx)

	activity := service.NewActivityService(service.ActivityServiceOptions{Repo: repos.Activities, Logger: logger})
	chrome := httpx.NewChrome(settingsStore.Current())
	unsubscribe := []func(){
		settingsStore.Subscribe(activity.SettingsSubscriber()),
		settingsStore.Subscribe(chrome.Update),
	}

	return &ServiceContainer{
		Repos: repos,
		Auth:  auth,
		Logout: service.NewLogoutCoordinator(service.LogoutCoordinatorOptions{
			Auth:   auth,
			Config: service.LogoutConfig{Countdown: cfg.Portal.LogoutCountdownSeconds, Logger: logger},
		}),
		Settings: settingsStore,
		Activity: activity,
		News:     service.NewNewsService(service.NewsServiceOptions{Repo: repos.News, Activity: activity, Logger: logger}),
		Gallery:  service.NewGalleryService(service.GalleryServiceOptions{Repo: repos.Gallery, Activity: activity, Images: store}),
		Contacts: service.NewContactService(service.ContactServiceOptions{
			Repo:     repos.Contacts,
			Activity: activity,
			Config:   service.ContactConfig{AdminWhatsApp: cfg.Portal.AdminWhatsApp, Settings: settingsStore},
		}),
		Users: service.NewUserService(service.UserServiceOptions{Repo: repos.Users, Activity: activity}),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{
			Repos: service.DashboardRepos{
				News: repos.News, Gallery: repos.Gallery, Contacts: repos.Contacts,
				Users: repos.Users, Activities: repos.Activities,
			},
			Visits: repos.Visits,
			Logger: logger,
		}),
		Export: service.NewExportService(service.ExportServiceOptions{
			Settings: settingsStore, News: repos.News, Gallery: repos.Gallery,
			Contacts: repos.Contacts, Users: repos.Users,
		}),
		Media:       store,
		Chrome:      chrome,
		unsubscribe: unsubscribe,
	}, nil
}

// shouldSeed seeds on request, and always for throwaway in-memory development runs.
func shouldSeed(cfg *config.AppConfig) bool {
	return cfg.Portal.SeedOnStart || (cfg.IsDev && cfg.Portal.Storage == config.StorageBackendMemory)
}

// ServiceOrchestrationConfig contains what RunServicesWithShutdown runs.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    *ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunServicesWithShutdown serves HTTP until a signal arrives or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return errors.New("service orchestration config is incomplete")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Health:   healthChecks(cfg.DB, cfg.RedisClient),
		Logger:   logger,
		ErrCh:    errCh,
	})
	if err != nil {
		return err
	}

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		cancel:     cancel,
		errCh:      errCh,
		httpServer: server,
		drain:      cfg.Config.HTTP.ShutdownTimeout,
		logout:     cfg.Services.Logout,
		services:   cfg.Services,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	cancel     context.CancelFunc
	errCh      <-chan error
	httpServer *http.Server
	drain      time.Duration
	logout     *service.LogoutCoordinator
	services   *ServiceContainer
	logger     *slog.Logger
}

// waitForShutdown waits for a shutdown signal or a server error.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		cfg.cancel()
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		cfg.cancel()
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains HTTP first so no new countdown can start, then stops
// the pending ones.
func gracefulStop(cfg shutdownConfig) error {
	var err error
	if cfg.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(cfg.ctx), cfg.drain)
		defer cancel()
		err = ShutdownHTTPServer(shutdownCtx, cfg.httpServer, cfg.logger)
	}
	if cfg.logout != nil {
		cfg.logout.Shutdown()
		cfg.logger.Info("logout countdowns stopped")
	}
	if cfg.services != nil {
		cfg.services.Close()
	}
	return err
}
