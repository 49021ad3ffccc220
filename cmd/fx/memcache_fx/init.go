package memcache_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"payflow/internal/config"
	"payflow/internal/infra"
	mem "payflow/pkg/memcache"
)

var Module = fx.Provide(provideIdempotencyStore)

// Redis backs the store when configured so keys survive restarts and are
// shared between replicas.
func provideIdempotencyStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (mem.IdempotencyStore, error) {
	if cfg.RedisAddr == "" {
		log.Info("idempotency store: in-memory")
		return mem.NewMemoryStore(), nil
	}

	client, err := infra.InitRedis(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	log.Info("idempotency store: redis", zap.String("addr", cfg.RedisAddr))
	return mem.NewRedisStore(client), nil
}
