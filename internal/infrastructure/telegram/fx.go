package telegram

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/magicxor/ytdl-inline-bot/config"
)

// Module provides Telegram bot for fx dependency injection
var Module = fx.Module("telegram",
	fx.Provide(provideBot),
	fx.Invoke(registerLifecycle),
)

func provideBot(cfg *config.TelegramConfig, logger zerolog.Logger) (*Bot, error) {
	return NewBot(cfg.BotToken, cfg.APIRPS, cfg.APIBurst, logger.With().Str("component", "telegram").Logger())
}

// registerLifecycle registers bot lifecycle hooks
func registerLifecycle(lc fx.Lifecycle, bot *Bot) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			// Start is blocking
			go func() {
				_ = bot.Start(ctx)
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			if cancel != nil {
				cancel()
			}
			return bot.Stop()
		},
	})
}
