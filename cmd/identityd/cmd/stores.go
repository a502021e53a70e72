package cmd

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/atom-shop/identity-service/internal/core/ports"
	"github.com/atom-shop/identity-service/internal/infrastructure/config"
	"github.com/atom-shop/identity-service/internal/infrastructure/db/memory"
	"github.com/atom-shop/identity-service/internal/infrastructure/db/mongo"
	"github.com/atom-shop/identity-service/internal/infrastructure/db/redis"
	"github.com/atom-shop/identity-service/internal/infrastructure/http/handlers"
)

// stores is the persistence wiring selected by STORE_DRIVER.
type stores struct {
	users       ports.UserRepository
	roles       ports.RoleRepository
	permissions ports.PermissionRepository
	resets      ports.ResetRequestRepository
	cache       ports.PermissionCache // nil when Redis is disabled

	pingers map[string]handlers.Pinger
	closers []func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	s := &stores{pingers: map[string]handlers.Pinger{}}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := memory.New()
		s.users, s.roles, s.permissions, s.resets = store.Users(), store.Roles(), store.Permissions(), store.Resets()
		s.pingers["store"] = store
		log.Warn().Msg("using in-memory store, data is lost on restart")

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Disconnect)

		store := mongo.NewStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			s.close(ctx)
			return nil, err
		}
		s.users, s.roles, s.permissions, s.resets = store.Users, store.Roles, store.Permissions, store.Resets
		s.pingers["mongodb"] = store
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")
	}

	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			s.close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
		s.cache = redis.NewPermissionCache(rdb, cfg.Redis.PermissionCacheTTL)
		s.pingers["redis"] = redisPinger(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("permission cache enabled")
	}

	return s, nil
}

func (s *stores) close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("failed to close store")
		}
	}
}

func redisPinger(rdb *goredis.Client) handlers.Pinger {
	return handlers.PingFunc(func(ctx context.Context) error {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		return nil
	})
}
