// Package download contains the inline download domain module
package download

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/magicxor/ytdl-inline-bot/config"
	httpDelivery "github.com/magicxor/ytdl-inline-bot/internal/domain/download/delivery/http"
	telegramDelivery "github.com/magicxor/ytdl-inline-bot/internal/domain/download/delivery/telegram"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/gateway"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/ratelimit"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/recovery"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/repository/webpage"
	ytdlpRepo "github.com/magicxor/ytdl-inline-bot/internal/domain/download/repository/ytdlp"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/retry"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/usecase/buissines"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/http/server"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/metrics"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/telegram"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/ytdlp"
)

// Module provides download domain components for fx dependency injection
var Module = fx.Module("download",
	fx.Provide(provideMetricsRecorder),

	// Repository
	fx.Provide(provideSource),
	fx.Provide(provideTitleFetcher),

	// Domain services
	fx.Provide(provideGateway),
	ratelimit.Module,
	fx.Provide(provideRecoveryChain),

	// Delivery - Telegram transport
	fx.Provide(provideTransport),
	fx.Provide(provideChatTransport),

	// UseCase
	fx.Provide(provideOrchestrator),
	fx.Provide(provideUseCase),

	// Delivery - Telegram updates
	fx.Provide(telegramDelivery.NewHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Delivery - HTTP
	fx.Provide(provideHealthHandler),
	fx.Provide(httpDelivery.NewRouter),

	fx.Invoke(registerRoutes),
)

func provideMetricsRecorder(m *metrics.Metrics) deps.MetricsRecorder {
	return m
}

func provideSource(client *ytdlp.Client, jar *ytdlp.CookieJar, cfg *config.YtdlpConfig) *ytdlpRepo.Source {
	return ytdlpRepo.NewSource(client, jar.Path(), cfg.UserAgent, cfg.AuthDomains)
}

func provideTitleFetcher(downloadCfg *config.DownloadConfig, ytdlpCfg *config.YtdlpConfig) deps.TitleFetcher {
	return webpage.NewTitleFetcher(downloadCfg.PageTitleTimeout, ytdlpCfg.UserAgent)
}

func provideGateway(
	source *ytdlpRepo.Source,
	downloadCfg *config.DownloadConfig,
	m deps.MetricsRecorder,
	logger zerolog.Logger,
) *gateway.Gateway {
	return gateway.NewGateway(source, source, gateway.Timeouts{
		Catalog:  downloadCfg.CatalogTimeout,
		Download: downloadCfg.Timeout,
	}, m, logger.With().Str("component", "gateway").Logger())
}

func provideTransport(bot *telegram.Bot, logger zerolog.Logger) *telegramDelivery.Transport {
	return telegramDelivery.NewTransport(bot, logger.With().Str("component", "transport").Logger())
}

func provideChatTransport(t *telegramDelivery.Transport) deps.ChatTransport {
	return t
}

func provideRecoveryChain(
	transport deps.ChatTransport,
	titles deps.TitleFetcher,
	cfg *config.MediaConfig,
	m deps.MetricsRecorder,
	logger zerolog.Logger,
) *recovery.Chain {
	errorMedia := entities.MediaSpec{
		Kind:     entities.MediaKindVideo,
		Source:   cfg.Error.URL,
		Width:    cfg.Error.Width,
		Height:   cfg.Error.Height,
		Duration: cfg.Error.Duration,
	}
	return recovery.NewChain(transport, titles, errorMedia, telegramDelivery.RequestTimeout, m,
		logger.With().Str("component", "recovery").Logger())
}

func provideOrchestrator(
	gw *gateway.Gateway,
	limiter *ratelimit.Limiter,
	transport deps.ChatTransport,
	chain *recovery.Chain,
	selectionCfg *config.SelectionConfig,
	mediaCfg *config.MediaConfig,
	downloadCfg *config.DownloadConfig,
	m deps.MetricsRecorder,
	logger zerolog.Logger,
) (*buissines.Orchestrator, error) {
	if err := os.MkdirAll(downloadCfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	return buissines.NewOrchestrator(gw, limiter, transport, chain, buissines.OrchestratorConfig{
		Constraints: entities.SelectionConstraints{
			MaxVideoBytes:        selectionCfg.MaxVideoSize,
			MaxAudioBytes:        selectionCfg.MaxAudioSize,
			MaxCombinedBytes:     selectionCfg.MaxCombinedSize,
			PreferredLanguages:   selectionCfg.PreferredAudioLanguages,
			RequireKnownFilesize: selectionCfg.RequireKnownFilesize,
		},
		RelayChatID: mediaCfg.RelayChatID,
		DownloadDir: downloadCfg.Dir,
		Retry:       retry.NewPolicy(downloadCfg.MaxRetries, downloadCfg.RetryDelay),
	}, m, logger.With().Str("component", "orchestrator").Logger()), nil
}

func provideUseCase(
	limiter *ratelimit.Limiter,
	orchestrator *buissines.Orchestrator,
	transport deps.ChatTransport,
	mediaCfg *config.MediaConfig,
	downloadCfg *config.DownloadConfig,
	m deps.MetricsRecorder,
	logger zerolog.Logger,
) *buissines.UseCase {
	placeholder := buissines.PlaceholderMedia{
		VideoURL:     mediaCfg.Placeholder.URL,
		ThumbnailURL: mediaCfg.Placeholder.ThumbnailURL,
		Width:        mediaCfg.Placeholder.Width,
		Height:       mediaCfg.Placeholder.Height,
		Duration:     mediaCfg.Placeholder.Duration,
	}
	return buissines.NewUseCase(limiter, orchestrator, transport, placeholder,
		downloadCfg.MaxConcurrentJobs, downloadCfg.JobTimeout, m, logger)
}

func provideHealthHandler(bot *telegram.Bot, client *ytdlp.Client, logger zerolog.Logger) *httpDelivery.HealthHandler {
	return httpDelivery.NewHealthHandler([]httpDelivery.Component{
		{Name: "telegram", Checker: bot, Message: "Bot API is not reachable"},
		{Name: "ytdlp", Checker: client, Message: "yt-dlp is not available"},
	}, logger.With().Str("component", "health").Logger())
}

// registerRoutes registers Telegram update routes and HTTP routes
func registerRoutes(
	tgRouter *telegramDelivery.Router,
	httpRouter *httpDelivery.Router,
	bot *telegram.Bot,
	srv *server.Server,
) {
	tgRouter.RegisterRoutes(bot.Raw())
	httpRouter.RegisterRoutes(srv.Router)
}
