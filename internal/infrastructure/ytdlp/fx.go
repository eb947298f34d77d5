package ytdlp

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/magicxor/ytdl-inline-bot/config"
)

// Module provides yt-dlp client and cookie jar for fx dependency injection
var Module = fx.Module("ytdlp",
	fx.Provide(provideClient),
	fx.Provide(provideCookieJar),
	fx.Invoke(logVersion),
)

func provideClient(cfg *config.YtdlpConfig, logger zerolog.Logger) *Client {
	return New(cfg.Path, logger.With().Str("component", "ytdlp").Logger())
}

func provideCookieJar(lc fx.Lifecycle, cfg *config.YtdlpConfig) (*CookieJar, error) {
	jar, err := NewCookieJar(cfg.CookiesBase64)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return jar.Close()
		},
	})

	return jar, nil
}

// logVersion logs the engine version at startup; a missing engine is reported, not fatal
func logVersion(lc fx.Lifecycle, client *Client, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			version, err := client.Version(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("yt-dlp is not available")
				return nil
			}
			logger.Info().Str("version", version).Msg("yt-dlp detected")
			return nil
		},
	})
}
