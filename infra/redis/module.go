// Package redisinfra provides the shared-cache client. The endpoint is
// mandatory configuration, but runtime unavailability is non-fatal: every
// consumer degrades to best-effort behavior.
package redisinfra

import (
	"context"
	"log/slog"
	"time"

	"github.com/campuslink/channel-delivery-service/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func ProvideClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

var Module = fx.Module("redis",
	fx.Provide(ProvideClient),
	fx.Invoke(func(lc fx.Lifecycle, client *redis.Client, logger *slog.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				if err := client.Ping(pingCtx).Err(); err != nil {
					// Soft failure: the cache may come up later; the breaker
					// keeps callers from stalling in the meantime.
					logger.Warn("REDIS_PING_FAILED", "addr", client.Options().Addr, "err", err)
					return nil
				}
				logger.Info("REDIS_CONNECTED", "addr", client.Options().Addr)
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
	}),
)
