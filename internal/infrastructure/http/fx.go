package http

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/magicxor/ytdl-inline-bot/config"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/http/server"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(NewServerFx),
)

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(
	lc fx.Lifecycle,
	serviceCfg *config.ServiceConfig,
	logger zerolog.Logger,
) *server.Server {
	srv := server.NewServer(serviceCfg.Name, serviceCfg.Port, logger.With().Str("component", "http").Logger())

	srv.RegisterMetrics()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
