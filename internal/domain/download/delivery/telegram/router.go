package telegram

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Router registers Telegram bot handlers
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all update handlers on the bot
func (r *Router) RegisterRoutes(bot *tgbot.Bot) {
	bot.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypePrefix, r.handlers.HandleStart)
	bot.RegisterHandlerMatchFunc(isInlineQuery, r.handlers.HandleInlineQuery)
	bot.RegisterHandlerMatchFunc(isChosenInlineResult, r.handlers.HandleChosenInlineResult)

	r.logger.Info().Msg("All Telegram handlers registered successfully")
}

func isInlineQuery(update *models.Update) bool {
	return update.InlineQuery != nil
}

func isChosenInlineResult(update *models.Update) bool {
	return update.ChosenInlineResult != nil
}
