package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sman1jakarta/portal/config"
	"github.com/sman1jakarta/portal/internal/bootstrap"
)

var errRedisNotConfigured = errors.New("redis not configured")

// postgresRepositories builds the Postgres-backed repositories regardless of
// STORAGE_BACKEND, since every admin command operates on the database.
func postgresRepositories(cmdCtx *commandContext, db *sql.DB) (*bootstrap.Repositories, error) {
	cfg := cmdCtx.Config
	cfg.Portal.Storage = config.StorageBackendPostgres
	cfg.Portal.Sessions = config.SessionBackendMemory
	repos, err := bootstrap.BuildRepositories(bootstrap.RepositoryDeps{
		Config: &cfg,
		DB:     db,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build repositories: %w", err)
	}
	return repos, nil
}

// withRedis connects to the configured Redis for the duration of f.
func withRedis(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, redis.UniversalClient) error,
) error {
	if !hasRedisConfig(&cmdCtx.Config.Redis) {
		return errRedisNotConfigured
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := bootstrap.ConnectRedis(ctx, cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	return f(ctx, client)
}

func hasRedisConfig(cfg *config.RedisConfig) bool {
	if cfg == nil {
		return false
	}
	if cfg.UseCluster {
		return len(cfg.ClusterNodes) > 0 || cfg.URI != ""
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return cfg.URI != ""
}
