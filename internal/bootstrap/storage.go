package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	infralogger "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/newsfeed/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/newsfeed/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/config"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/store"
)

// Storage is the configured IndexStore and, for the redis backend, its
// client.
type Storage struct {
	Index  store.IndexStore
	Client *redis.Client
}

// Close releases the Redis connection, if any.
func (s *Storage) Close() error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Close()
}

// SetupStorage creates the IndexStore selected by cfg.Store.Backend.
func SetupStorage(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*Storage, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := connectRedis(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("Redis index store ready",
			infralogger.String("address", cfg.Redis.Address),
			infralogger.Int("db", cfg.Redis.DB),
		)
		return &Storage{
			Index:  store.NewRedisStore(client, cfg.Store.KeyPrefix),
			Client: client,
		}, nil
	case config.BackendMemory:
		log.Info("In-memory index store ready")
		return &Storage{Index: store.NewMemoryStore(cfg.Store.KeyPrefix)}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// connectRedis retries transient connection failures so the service can
// start alongside a Redis that is still booting.
func connectRedis(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*redis.Client, error) {
	var client *redis.Client

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.Store.ConnectAttempts
	retryCfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Warn("Redis not reachable, retrying",
			infralogger.Int("attempt", attempt),
			infralogger.Duration("delay", delay),
			infralogger.Error(err),
		)
	}

	err := retry.Do(ctx, retryCfg, func(ctx context.Context) error {
		c, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		client = c
		return nil
	})
	return client, err
}
