package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/magicxor/ytdl-inline-bot/config"
)

// Module provides logger for fx dependency injection
var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

func provideLogger(cfg *config.LoggingConfig) zerolog.Logger {
	return New(cfg.Level)
}
