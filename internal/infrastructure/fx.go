// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/http"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/logger"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/metrics"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/telegram"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/ytdlp"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	telegram.Module,
	ytdlp.Module,
	http.Module,
)
