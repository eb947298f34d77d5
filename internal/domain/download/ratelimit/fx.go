package ratelimit

import (
	"context"

	"go.uber.org/fx"

	"github.com/magicxor/ytdl-inline-bot/config"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
)

// Module provides the rate limiter for fx dependency injection
var Module = fx.Module("ratelimit",
	fx.Provide(provideStore),
	fx.Provide(provideLimiter),
)

func provideStore(lc fx.Lifecycle, cfg *config.RateLimitConfig, metrics deps.MetricsRecorder) *MemoryStore {
	store := NewMemoryStore(cfg.Window)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			store.Start(cfg.Window, metrics.SetRateLimitEntries)
			return nil
		},
		OnStop: func(_ context.Context) error {
			store.Stop()
			return nil
		},
	})

	return store
}

func provideLimiter(store *MemoryStore, cfg *config.RateLimitConfig) *Limiter {
	return NewLimiter(store, cfg.Window, cfg.VIPUserID)
}
