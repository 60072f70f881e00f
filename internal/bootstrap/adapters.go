package bootstrap

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/sman1jakarta/portal/config"
	"github.com/sman1jakarta/portal/internal/adapters/memory"
	redisadapter "github.com/sman1jakarta/portal/internal/adapters/redis"
	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/data"
	"github.com/sman1jakarta/portal/internal/ports"
)

// SessionKeyPrefix namespaces auth records in Redis.
const SessionKeyPrefix = redisadapter.DefaultSessionPrefix

// Repositories holds the adapters chosen for the configured backends.
type Repositories struct {
	News       core.NewsRepository
	Gallery    core.GalleryRepository
	Contacts   core.ContactRepository
	Users      core.UserRepository
	Activities core.ActivityRepository
	Settings   core.SettingsRepository
	Sessions   ports.SessionStore
	Visits     core.VisitCounter
}

// RepositoryDeps groups the connections repositories are built on. DB and
// Redis are nil when no configured backend needs them.
type RepositoryDeps struct {
	Config *config.AppConfig
	DB     *sql.DB
	Redis  redis.UniversalClient
	Logger *slog.Logger
}

// BuildRepositories picks an adapter per port. It fails when a backend is
// configured without the connection it needs.
func BuildRepositories(deps RepositoryDeps) (*Repositories, error) {
	if deps.Config == nil {
		return nil, errors.New("repositories: config is required")
	}
	cfg := deps.Config
	if cfg.NeedsPostgres() && deps.DB == nil {
		return nil, errors.New("repositories: postgres storage selected without a database connection")
	}
	if cfg.Portal.Sessions == config.SessionBackendRedis && deps.Redis == nil {
		return nil, errors.New("repositories: redis sessions selected without a redis connection")
	}

	repos := &Repositories{}
	switch cfg.Portal.Storage {
	case config.StorageBackendMemory:
		repos.News = memory.NewNewsRepository()
		repos.Gallery = memory.NewGalleryRepository()
		repos.Contacts = memory.NewContactRepository()
		repos.Users = memory.NewUserRepository()
		repos.Activities = memory.NewActivityRepository()
	default:
		repos.News = data.NewNewsRepo(deps.DB)
		repos.Gallery = data.NewGalleryRepo(deps.DB)
		repos.Contacts = data.NewContactRepo(deps.DB)
		repos.Users = data.NewUserRepo(deps.DB)
		repos.Activities = data.NewActivityRepo(deps.DB)
	}

	repos.Settings = buildSettingsRepository(deps)

	if cfg.Portal.Sessions == config.SessionBackendRedis {
		repos.Sessions = redisadapter.NewSessionStoreWithPrefix(deps.Redis, SessionKeyPrefix)
	} else {
		repos.Sessions = memory.NewSessionStore()
	}

	var counterCache core.CacheRepository = memory.NewCache()
	if deps.Redis != nil {
		counterCache = data.NewRedisCacheRepo(deps.Redis)
	}
	repos.Visits = core.CacheVisitCounter{Cache: counterCache}

	return repos, nil
}

// buildSettingsRepository stores settings in Postgres, optionally behind a
// Redis cache. Without Postgres the document lives under the schoolSettings
// key in Redis, or in memory when there is no Redis either.
//
//nolint:ireturn // the backing store varies with configuration.
func buildSettingsRepository(deps RepositoryDeps) core.SettingsRepository {
	cfg := deps.Config
	if !cfg.NeedsPostgres() {
		if deps.Redis != nil {
			return redisadapter.NewSettingsRepository(deps.Redis)
		}
		return memory.NewSettingsRepository()
	}

	var repo core.SettingsRepository = data.NewSettingsRepo(deps.DB)
	if cfg.Portal.SettingsCache && deps.Redis != nil {
		repo = core.NewCachedSettingsRepository(core.CachedSettingsOptions{
			Cache:   data.NewRedisCacheRepo(deps.Redis),
			Backing: repo,
			TTL:     cfg.Redis.SettingsCacheTTL,
			Logger:  deps.Logger,
		})
	}
	return repo
}
