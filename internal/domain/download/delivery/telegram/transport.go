// Package telegram contains Telegram delivery layer
package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
	downloaderrors "github.com/magicxor/ytdl-inline-bot/internal/domain/download/errors"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/telegram"
	pkgerrors "github.com/magicxor/ytdl-inline-bot/pkg/errors"
)

// Constants for Telegram API
const (
	RequestTimeout = 30 * time.Second
	UploadTimeout  = 120 * time.Second
	VideoMimeType  = "video/mp4"
)

// Transport implements deps.ChatTransport on top of the Bot API
type Transport struct {
	bot    *telegram.Bot
	logger zerolog.Logger
}

// NewTransport creates new Telegram transport
func NewTransport(bot *telegram.Bot, logger zerolog.Logger) *Transport {
	return &Transport{
		bot:    bot,
		logger: logger,
	}
}

// SendPlaceholder implements deps.ChatTransport interface
func (t *Transport) SendPlaceholder(ctx context.Context, queryID string, spec entities.PlaceholderSpec) error {
	reqCtx, cancel, err := t.prepare(ctx, RequestTimeout)
	if err != nil {
		return err
	}
	defer cancel()

	_, err = t.bot.Raw().AnswerInlineQuery(reqCtx, &tgbot.AnswerInlineQueryParams{
		InlineQueryID: queryID,
		Results:       []models.InlineQueryResult{placeholderResult(spec)},
		CacheTime:     0,
		IsPersonal:    true,
	})
	return t.handleError("answerInlineQuery", err)
}

// EditMessageCaption implements deps.ChatTransport interface
func (t *Transport) EditMessageCaption(ctx context.Context, messageRef string, text string) error {
	reqCtx, cancel, err := t.prepare(ctx, RequestTimeout)
	if err != nil {
		return err
	}
	defer cancel()

	_, err = t.bot.Raw().EditMessageCaption(reqCtx, &tgbot.EditMessageCaptionParams{
		InlineMessageID: messageRef,
		Caption:         text,
	})
	return t.handleError("editMessageCaption", err)
}

// EditMessageMedia implements deps.ChatTransport interface
func (t *Transport) EditMessageMedia(ctx context.Context, messageRef string, media entities.MediaSpec) error {
	reqCtx, cancel, err := t.prepare(ctx, RequestTimeout)
	if err != nil {
		return err
	}
	defer cancel()

	_, err = t.bot.Raw().EditMessageMedia(reqCtx, &tgbot.EditMessageMediaParams{
		InlineMessageID: messageRef,
		Media:           inputMedia(media),
	})
	return t.handleError("editMessageMedia", err)
}

// SendMedia implements deps.ChatTransport interface.
// The file is opened on every call so a retried upload starts from the beginning.
func (t *Transport) SendMedia(ctx context.Context, destination int64, filePath string, meta entities.UploadMeta) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open merged file: %w", err)
	}
	defer file.Close()

	reqCtx, cancel, err := t.prepare(ctx, UploadTimeout)
	if err != nil {
		return "", err
	}
	defer cancel()

	msg, err := t.bot.Raw().SendVideo(reqCtx, &tgbot.SendVideoParams{
		ChatID:            destination,
		Video:             &models.InputFileUpload{Filename: filepath.Base(filePath), Data: file},
		Caption:           meta.Caption,
		Width:             meta.Width,
		Height:            meta.Height,
		Duration:          meta.Duration,
		SupportsStreaming: true,
	})
	if err := t.handleError("sendVideo", err); err != nil {
		return "", err
	}

	ref := videoFileID(msg)
	if ref == "" {
		return "", downloaderrors.ErrNoMediaReference
	}

	t.logger.Debug().Int64("chat_id", destination).Str("file_id", ref).Msg("Video uploaded to relay chat")
	return ref, nil
}

// SendText sends an HTML message to a chat
func (t *Transport) SendText(ctx context.Context, chatID int64, text string) error {
	reqCtx, cancel, err := t.prepare(ctx, RequestTimeout)
	if err != nil {
		return err
	}
	defer cancel()

	_, err = t.bot.Raw().SendMessage(reqCtx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	return t.handleError("sendMessage", err)
}

// prepare waits for the outbound throttle and bounds the call by timeout
func (t *Transport) prepare(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc, error) {
	if err := t.bot.Throttle(ctx); err != nil {
		return nil, nil, err
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	return reqCtx, cancel, nil
}

func (t *Transport) handleError(method string, err error) error {
	if err == nil {
		return nil
	}

	classified := classifyError(method, err)
	if classified == nil {
		t.logger.Debug().Str("method", method).Msg("Message already in requested state")
		return nil
	}

	t.logger.Warn().Str("method", method).Err(err).Msg("Telegram API call failed")
	return classified
}

// classifyError maps Bot API failures to typed errors, nil means the call had no effect to apply
func classifyError(method string, err error) error {
	errorMsg := err.Error()

	switch {
	case strings.Contains(errorMsg, "message is not modified"):
		return nil

	case strings.Contains(errorMsg, "Forbidden"):
		return pkgerrors.NewPermissionError(fmt.Sprintf("%s: bot is not allowed to write to the chat: %s", method, errorMsg))

	case strings.Contains(errorMsg, "Too Many Requests"):
		return pkgerrors.NewTooManyRequestsError(fmt.Sprintf("%s: %s", method, errorMsg))

	case strings.Contains(errorMsg, "query is too old"), strings.Contains(errorMsg, "QUERY_ID_INVALID"):
		return pkgerrors.NewNotFoundError(fmt.Sprintf("%s: inline query expired", method))

	default:
		return pkgerrors.NewUnavailableError(method+" failed", err)
	}
}

// placeholderResult builds the inline result shown while the job runs
func placeholderResult(spec entities.PlaceholderSpec) *models.InlineQueryResultVideo {
	return &models.InlineQueryResultVideo{
		ID:            spec.ResultID,
		VideoURL:      spec.VideoURL,
		MimeType:      VideoMimeType,
		ThumbnailURL:  spec.ThumbnailURL,
		Title:         spec.Title,
		Caption:       spec.Caption,
		VideoWidth:    spec.Width,
		VideoHeight:   spec.Height,
		VideoDuration: spec.Duration,
		ReplyMarkup: &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: spec.ButtonText, CallbackData: spec.ButtonData}},
			},
		},
	}
}

// inputMedia converts a media spec to the Bot API media object
func inputMedia(media entities.MediaSpec) models.InputMedia {
	if media.Kind == entities.MediaKindPhoto {
		return &models.InputMediaPhoto{
			Media:   media.Source,
			Caption: media.Caption,
		}
	}

	return &models.InputMediaVideo{
		Media:             media.Source,
		Caption:           media.Caption,
		Width:             media.Width,
		Height:            media.Height,
		Duration:          media.Duration,
		SupportsStreaming: media.SupportsStreaming,
	}
}

func videoFileID(msg *models.Message) string {
	if msg == nil {
		return ""
	}
	if msg.Video != nil {
		return msg.Video.FileID
	}
	if msg.Animation != nil {
		return msg.Animation.FileID
	}
	return ""
}
