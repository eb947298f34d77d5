// Package app contains application bootstrap
package app

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/magicxor/ytdl-inline-bot/config"
	"github.com/magicxor/ytdl-inline-bot/internal/domain"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, telegram bot, yt-dlp, http server)
		infrastructure.Module,

		// Domain (download pipeline)
		domain.Module,

		fx.WithLogger(func(logger zerolog.Logger) fxevent.Logger {
			return &fxLogger{logger: logger.With().Str("component", "fx").Logger()}
		}),
	)
}

// fxLogger routes fx lifecycle events to zerolog
type fxLogger struct {
	logger zerolog.Logger
}

// LogEvent implements fxevent.Logger
func (l *fxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.logger.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("OnStart hook failed")
		}
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.logger.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("OnStop hook failed")
		}
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error().Err(e.Err).Str("function", e.FunctionName).Msg("Invoke failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error().Err(e.Err).Msg("Application start failed")
			return
		}
		l.logger.Info().Msg("Application started")
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error().Err(e.Err).Msg("Application stop failed")
			return
		}
		l.logger.Info().Msg("Application stopped")
	}
}
