package telegram

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/dto"
	downloaderrors "github.com/magicxor/ytdl-inline-bot/internal/domain/download/errors"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/usecase/buissines"
	pkgerrors "github.com/magicxor/ytdl-inline-bot/pkg/errors"
)

// Handlers contains Telegram update handlers
type Handlers struct {
	uc        *buissines.UseCase
	transport *Transport
	logger    zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *buissines.UseCase, transport *Transport, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:        uc,
		transport: transport,
		logger:    logger,
	}
}

// HandleStart handles /start command
func (h *Handlers) HandleStart(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	h.logCommand(userID, "/start", "processing")

	resp, err := h.uc.HandleStart(ctx, &dto.StartCommandRequest{
		UserID:    userID,
		Username:  update.Message.From.Username,
		FirstName: update.Message.From.FirstName,
	})
	if err != nil {
		h.logError(userID, "/start", err)
		return
	}

	if err := h.transport.SendText(ctx, chatID, resp.Message); err != nil {
		h.logError(userID, "/start", err)
		return
	}
	h.logCommand(userID, "/start", "success")
}

// HandleInlineQuery answers inline queries carrying a URL with the placeholder
func (h *Handlers) HandleInlineQuery(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	query := update.InlineQuery
	if query == nil || query.From == nil {
		return
	}

	err := h.uc.HandleInlineQuery(ctx, &dto.InlineQueryRequest{
		QueryID: query.ID,
		UserID:  query.From.ID,
		Query:   query.Query,
	})
	if err == nil {
		return
	}

	// queries that get no answer by design
	if pkgerrors.IsValidationError(err) {
		return
	}
	if rejection, ok := downloaderrors.AsRejection(err); ok {
		h.logger.Info().Int64("user_id", query.From.ID).Str("reason", rejection.Reason()).Msg("Inline query ignored")
		return
	}

	h.logError(query.From.ID, "inline_query", err)
}

// HandleChosenInlineResult starts the download job of the chosen placeholder
func (h *Handlers) HandleChosenInlineResult(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	chosen := update.ChosenInlineResult
	if chosen == nil {
		return
	}

	h.logger.Info().
		Int64("user_id", chosen.From.ID).
		Str("inline_message_id", chosen.InlineMessageID).
		Str("url", chosen.Query).
		Msg("Placeholder chosen")

	outcome, err := h.uc.HandleChosenResult(ctx, &dto.ChosenResultRequest{
		ResultID:        chosen.ResultID,
		UserID:          chosen.From.ID,
		InlineMessageID: chosen.InlineMessageID,
		Query:           chosen.Query,
	})
	if err != nil {
		h.logError(chosen.From.ID, "chosen_inline_result", err)
		return
	}

	h.logger.Info().
		Int64("user_id", chosen.From.ID).
		Str("inline_message_id", chosen.InlineMessageID).
		Str("state", string(outcome.State)).
		Msg("Download job finished")
}

// logCommand logs command processing
func (h *Handlers) logCommand(userID int64, command, result string) {
	h.logger.Info().Int64("user_id", userID).Str("command", command).Str("result", result).Msg("Telegram command processed")
}

// logError logs command errors
func (h *Handlers) logError(userID int64, command string, err error) {
	h.logger.Error().
		Int64("user_id", userID).
		Str("command", command).
		Str("error_type", pkgerrors.TypeOf(err).String()).
		Err(err).
		Msg("Telegram command failed")
}
