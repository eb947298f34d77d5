// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Bot wraps the Telegram bot for infrastructure layer
type Bot struct {
	bot     *tgbot.Bot
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewBot creates a new Telegram bot wrapper.
// Outbound API calls made through Throttle are limited to rps with the given burst.
func NewBot(token string, rps float64, burst int, logger zerolog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(defaultHandler(logger)),
		tgbot.WithErrorsHandler(func(err error) {
			logger.Error().Err(err).Msg("Telegram polling error")
		}),
	}

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	logger.Info().Msg("Telegram bot created successfully")

	return &Bot{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// Throttle blocks until an outbound API call is allowed or ctx is done
func (b *Bot) Throttle(ctx context.Context) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram throttle: %w", err)
	}
	return nil
}

// HealthCheck reports whether the Bot API answers getMe
func (b *Bot) HealthCheck(ctx context.Context) bool {
	if err := b.Throttle(ctx); err != nil {
		return false
	}
	_, err := b.bot.GetMe(ctx)
	return err == nil
}

// Start starts the bot (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot...")
	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	b.logger.Info().Msg("Stopping Telegram bot...")
	return nil
}

// defaultHandler logs updates no route claimed
func defaultHandler(logger zerolog.Logger) tgbot.HandlerFunc {
	return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
		logger.Debug().Int64("update_id", update.ID).Msg("Unhandled update")
	}
}
