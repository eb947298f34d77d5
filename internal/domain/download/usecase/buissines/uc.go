// Package buissines contains business logic for the download domain
package buissines

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/dto"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
	downloaderrors "github.com/magicxor/ytdl-inline-bot/internal/domain/download/errors"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/ratelimit"
	"github.com/magicxor/ytdl-inline-bot/internal/videoid"
)

// Inline query outcomes used as metric labels
const (
	InlineAnswered    = "answered"
	InlineEmpty       = "empty"
	InlineInvalidURL  = "invalid_url"
	InlineRateLimited = "rate_limited"
	InlineError       = "error"
)

const (
	placeholderTitle   = "Downloading..."
	placeholderCaption = "Please wait while the video is being processed. URL: %s"
	placeholderButton  = "Please wait..."
)

// PlaceholderMedia is the static video shown while a job runs
type PlaceholderMedia struct {
	VideoURL     string
	ThumbnailURL string
	Width        int
	Height       int
	Duration     int
}

// UseCase contains business logic for the inline download flow
type UseCase struct {
	limiter      *ratelimit.Limiter
	orchestrator *Orchestrator
	transport    deps.ChatTransport
	placeholder  PlaceholderMedia
	jobTimeout   time.Duration
	metrics      deps.MetricsRecorder
	logger       zerolog.Logger

	jobs  singleflight.Group
	slots *semaphore.Weighted

	now   func() time.Time
	newID func() string
}

// NewUseCase creates a new UseCase instance
func NewUseCase(
	limiter *ratelimit.Limiter,
	orchestrator *Orchestrator,
	transport deps.ChatTransport,
	placeholder PlaceholderMedia,
	maxConcurrentJobs int,
	jobTimeout time.Duration,
	metrics deps.MetricsRecorder,
	logger zerolog.Logger,
) *UseCase {
	if maxConcurrentJobs < 1 {
		maxConcurrentJobs = 1
	}
	return &UseCase{
		limiter:      limiter,
		orchestrator: orchestrator,
		transport:    transport,
		placeholder:  placeholder,
		jobTimeout:   jobTimeout,
		metrics:      metrics,
		logger:       logger,
		slots:        semaphore.NewWeighted(int64(maxConcurrentJobs)),
		now:          time.Now,
		newID:        func() string { return uuid.NewString() },
	}
}

// HandleStart handles /start command
func (uc *UseCase) HandleStart(_ context.Context, req *dto.StartCommandRequest) (*dto.CommandResponse, error) {
	uc.logger.Info().
		Int64("user_id", req.UserID).
		Str("username", req.Username).
		Msg("User started bot")

	name := req.FirstName
	if name == "" {
		name = req.Username
	}
	mention := fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, req.UserID, html.EscapeString(name))

	return &dto.CommandResponse{
		Message: fmt.Sprintf("Hi %s! Paste a video link using an inline query!", mention),
	}, nil
}

// HandleInlineQuery answers a URL query with the placeholder result.
// Rate-limited users, empty queries and non-URL queries get no answer and a typed error.
func (uc *UseCase) HandleInlineQuery(ctx context.Context, req *dto.InlineQueryRequest) error {
	if allowed, retryAfter := uc.limiter.Check(ctx, req.UserID, uc.now()); !allowed {
		uc.metrics.RecordInlineQuery(InlineRateLimited)
		return &downloaderrors.RateLimitedError{RetryAfter: retryAfter, Window: uc.limiter.Window()}
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		uc.metrics.RecordInlineQuery(InlineEmpty)
		return downloaderrors.ErrEmptyQuery
	}

	if _, err := videoid.ParseSourceURL(query); err != nil {
		uc.metrics.RecordInlineQuery(InlineInvalidURL)
		return downloaderrors.ErrInvalidURL
	}

	if err := uc.transport.SendPlaceholder(ctx, req.QueryID, uc.placeholderSpec(query)); err != nil {
		uc.metrics.RecordInlineQuery(InlineError)
		uc.logger.Error().Err(err).Str("query_id", req.QueryID).Msg("Failed to answer inline query")
		return fmt.Errorf("failed to send placeholder: %w", err)
	}

	uc.metrics.RecordInlineQuery(InlineAnswered)
	uc.logger.Debug().
		Int64("user_id", req.UserID).
		Str("url", query).
		Msg("Placeholder sent")
	return nil
}

func (uc *UseCase) placeholderSpec(url string) entities.PlaceholderSpec {
	return entities.PlaceholderSpec{
		ResultID:     uc.newID(),
		VideoURL:     uc.placeholder.VideoURL,
		ThumbnailURL: uc.placeholder.ThumbnailURL,
		Title:        placeholderTitle,
		Caption:      fmt.Sprintf(placeholderCaption, url),
		ButtonText:   placeholderButton,
		ButtonData:   uc.newID(),
		Width:        uc.placeholder.Width,
		Height:       uc.placeholder.Height,
		Duration:     uc.placeholder.Duration,
	}
}

// HandleChosenResult runs the download job of a chosen placeholder and blocks until it terminates.
// A second call for the same placeholder while its job runs joins that job.
func (uc *UseCase) HandleChosenResult(ctx context.Context, req *dto.ChosenResultRequest) (entities.JobOutcome, error) {
	if req.InlineMessageID == "" {
		return entities.JobOutcome{}, downloaderrors.ErrNoPlaceholder
	}

	sourceURL := strings.TrimSpace(req.Query)
	if _, err := videoid.ParseSourceURL(sourceURL); err != nil {
		return entities.JobOutcome{}, downloaderrors.ErrInvalidURL
	}

	res, _, shared := uc.jobs.Do(req.InlineMessageID, func() (any, error) {
		job := entities.DownloadJob{
			SourceURL:      sourceURL,
			PlaceholderRef: req.InlineMessageID,
			UserID:         req.UserID,
			StartedAt:      uc.now(),
		}

		// Acquire only fails once ctx is done, which happens on shutdown
		if err := uc.slots.Acquire(ctx, 1); err != nil {
			uc.logger.Warn().Err(err).Str("inline_message_id", req.InlineMessageID).Msg("Download job was not started")
			return uc.orchestrator.Abandon(ctx, job, err), nil
		}
		defer uc.slots.Release(1)

		jobCtx, cancel := context.WithTimeout(ctx, uc.jobTimeout)
		defer cancel()

		return uc.orchestrator.Run(jobCtx, job), nil
	})

	if shared {
		uc.logger.Debug().Str("inline_message_id", req.InlineMessageID).Msg("Download job shared by duplicate chosen results")
	}

	return res.(entities.JobOutcome), nil
}
