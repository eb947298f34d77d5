// Package recovery moves a failed job's placeholder into a terminal visual state
package recovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
	downloaderrors "github.com/magicxor/ytdl-inline-bot/internal/domain/download/errors"
	"github.com/magicxor/ytdl-inline-bot/internal/videoid"
)

// DefaultTitle labels the failure card when the page title is unavailable
const DefaultTitle = "Failed to download video."

var errBlankTitle = errors.New("page title is blank")

// Tier names a step of the chain
type Tier string

const (
	TierPageTitle Tier = "page_title"
	TierThumbnail Tier = "thumbnail"
	TierGeneric   Tier = "generic"
)

// TierResult is the explicit outcome of one tier
type TierResult struct {
	Tier    Tier
	OK      bool
	Skipped bool
	Err     error
}

// Report summarizes a chain run
type Report struct {
	Title string
	Tiers []TierResult
	// Final is the tier that left the placeholder in its terminal state, empty when none did
	Final Tier
	// Err is a RecoveryChainExhaustedError when no tier updated the placeholder
	Err error
}

// Tier returns the result of tier t
func (r Report) Tier(t Tier) (TierResult, bool) {
	for _, res := range r.Tiers {
		if res.Tier == t {
			return res, true
		}
	}
	return TierResult{}, false
}

// Chain runs page title lookup, platform thumbnail and generic failure media in order
type Chain struct {
	transport      deps.ChatTransport
	titles         deps.TitleFetcher
	errorMedia     entities.MediaSpec
	requestTimeout time.Duration
	metrics        deps.MetricsRecorder
	logger         zerolog.Logger
}

// NewChain creates a recovery chain; errorMedia is the generic failure video without caption
func NewChain(
	transport deps.ChatTransport,
	titles deps.TitleFetcher,
	errorMedia entities.MediaSpec,
	requestTimeout time.Duration,
	metrics deps.MetricsRecorder,
	logger zerolog.Logger,
) *Chain {
	return &Chain{
		transport:      transport,
		titles:         titles,
		errorMedia:     errorMedia,
		requestTimeout: requestTimeout,
		metrics:        metrics,
		logger:         logger,
	}
}

// Run never returns an error; the outcome of every tier is in the report.
// Tiers run on a context detached from ctx cancellation, since ctx usually expired with the job.
func (c *Chain) Run(ctx context.Context, job entities.DownloadJob) Report {
	base := context.WithoutCancel(ctx)
	report := Report{}

	title, titleRes := c.pageTitle(base, job.SourceURL)
	report.Title = title
	c.add(&report, titleRes)

	caption := fmt.Sprintf("%s\n%s", title, job.SourceURL)

	thumbRes := c.thumbnail(base, job, caption)
	c.add(&report, thumbRes)
	if thumbRes.OK {
		report.Final = TierThumbnail
		return report
	}

	genericRes := c.generic(base, job, caption)
	c.add(&report, genericRes)
	if genericRes.OK {
		report.Final = TierGeneric
		return report
	}

	tiers := make([]string, 0, len(report.Tiers))
	for _, res := range report.Tiers {
		tiers = append(tiers, string(res.Tier))
	}
	report.Err = &downloaderrors.RecoveryChainExhaustedError{Tiers: tiers, Cause: genericRes.Err}
	c.logger.Error().
		Err(report.Err).
		Str("inline_message_id", job.PlaceholderRef).
		Str("url", job.SourceURL).
		Msg("Placeholder left in its previous state")
	return report
}

func (c *Chain) add(report *Report, res TierResult) {
	report.Tiers = append(report.Tiers, res)
	if !res.Skipped {
		c.metrics.RecordRecoveryTier(string(res.Tier), res.OK)
	}
}

func (c *Chain) pageTitle(ctx context.Context, url string) (string, TierResult) {
	res := TierResult{Tier: TierPageTitle}

	tctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	title, err := c.titles.FetchTitle(tctx, url)
	title = strings.TrimSpace(title)
	if err == nil && title == "" {
		err = errBlankTitle
	}
	if err != nil {
		res.Err = err
		c.logger.Debug().Err(err).Str("url", url).Msg("Page title unavailable")
		return DefaultTitle, res
	}

	res.OK = true
	return title, res
}

func (c *Chain) thumbnail(ctx context.Context, job entities.DownloadJob, caption string) TierResult {
	res := TierResult{Tier: TierThumbnail}

	if !videoid.IsYouTubeURL(job.SourceURL) {
		res.Skipped = true
		return res
	}
	id, ok := videoid.ExtractYouTubeVideoID(job.SourceURL)
	if !ok {
		res.Skipped = true
		return res
	}

	tctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	err := c.transport.EditMessageMedia(tctx, job.PlaceholderRef, entities.MediaSpec{
		Kind:    entities.MediaKindPhoto,
		Source:  videoid.ThumbnailURL(id),
		Caption: caption,
	})
	if err != nil {
		res.Err = err
		c.logger.Warn().Err(err).Str("inline_message_id", job.PlaceholderRef).Msg("Thumbnail card failed")
		return res
	}

	res.OK = true
	return res
}

func (c *Chain) generic(ctx context.Context, job entities.DownloadJob, caption string) TierResult {
	res := TierResult{Tier: TierGeneric}

	media := c.errorMedia
	media.Kind = entities.MediaKindVideo
	media.Caption = caption
	media.SupportsStreaming = false

	tctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if err := c.transport.EditMessageMedia(tctx, job.PlaceholderRef, media); err != nil {
		res.Err = err
		return res
	}

	res.OK = true
	return res
}
