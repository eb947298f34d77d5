package buissines

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
	downloaderrors "github.com/magicxor/ytdl-inline-bot/internal/domain/download/errors"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/gateway"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/ratelimit"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/recovery"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/retry"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/selector"
)

const (
	opDownload = "download"
	opUpload   = "upload"
	opEdit     = "edit"
)

// OrchestratorConfig holds the settings of one orchestrator
type OrchestratorConfig struct {
	Constraints entities.SelectionConstraints
	RelayChatID int64
	DownloadDir string
	Retry       retry.Policy
}

// Orchestrator drives one DownloadJob from the rate check to delivery or recovery
type Orchestrator struct {
	gateway   *gateway.Gateway
	limiter   *ratelimit.Limiter
	transport deps.ChatTransport
	recovery  *recovery.Chain
	cfg       OrchestratorConfig
	metrics   deps.MetricsRecorder
	logger    zerolog.Logger

	now      func() time.Time
	fileName func() string
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(
	gw *gateway.Gateway,
	limiter *ratelimit.Limiter,
	transport deps.ChatTransport,
	chain *recovery.Chain,
	cfg OrchestratorConfig,
	metrics deps.MetricsRecorder,
	logger zerolog.Logger,
) *Orchestrator {
	o := &Orchestrator{
		gateway:   gw,
		limiter:   limiter,
		transport: transport,
		recovery:  chain,
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
		fileName:  randomFileName,
	}

	o.cfg.Retry = cfg.Retry.WithOnRetry(func(op string, attempt int, err error) {
		o.metrics.RecordRetry(op)
		o.logger.Warn().
			Err(err).
			Str("operation", op).
			Int("attempt", attempt).
			Msg("Retrying operation")
	})

	return o
}

func randomFileName() string {
	id := uuid.New()
	return "download_" + hex.EncodeToString(id[:]) + ".mp4"
}

// jobRun carries the mutable state of one Run call
type jobRun struct {
	job   entities.DownloadJob
	trace []entities.JobState
	log   zerolog.Logger
}

func (r *jobRun) enter(state entities.JobState) {
	r.trace = append(r.trace, state)
}

// Run executes the job state machine. It never panics and never returns an error;
// policy rejections and operational failures are reported through the outcome.
func (o *Orchestrator) Run(ctx context.Context, job entities.DownloadJob) (outcome entities.JobOutcome) {
	if job.StartedAt.IsZero() {
		job.StartedAt = o.now()
	}

	run := o.newRun(job)

	o.metrics.JobStarted()
	defer func() {
		if r := recover(); r != nil {
			run.log.Error().Interface("panic", r).Msg("Download job panicked")
			outcome = o.fail(ctx, run, fmt.Errorf("%w: %v", downloaderrors.ErrJobPanicked, r))
		}
		o.metrics.JobFinished(string(outcome.State), time.Since(job.StartedAt).Seconds())
	}()

	err := o.execute(ctx, run)
	if err == nil {
		run.enter(entities.StateDelivered)
		run.log.Info().Msg("Video delivered")
		return entities.JobOutcome{State: entities.StateDelivered, Trace: run.trace}
	}

	if rejection, ok := downloaderrors.AsRejection(err); ok {
		return o.reject(ctx, run, rejection)
	}
	return o.fail(ctx, run, err)
}

// Abandon ends a job that never reached the state machine, so its placeholder
// still gets a terminal visual state from the recovery chain.
func (o *Orchestrator) Abandon(ctx context.Context, job entities.DownloadJob, cause error) entities.JobOutcome {
	return o.fail(ctx, o.newRun(job), fmt.Errorf("%w: %w", downloaderrors.ErrJobNotStarted, cause))
}

func (o *Orchestrator) newRun(job entities.DownloadJob) *jobRun {
	return &jobRun{
		job: job,
		log: o.logger.With().
			Str("inline_message_id", job.PlaceholderRef).
			Int64("user_id", job.UserID).
			Str("url", job.SourceURL).
			Logger(),
	}
}

func (o *Orchestrator) execute(ctx context.Context, run *jobRun) error {
	job := &run.job

	allowed, retryAfter := o.limiter.Check(ctx, job.UserID, o.now())
	if !allowed {
		return &downloaderrors.RateLimitedError{RetryAfter: retryAfter, Window: o.limiter.Window()}
	}
	run.enter(entities.StateRateChecked)

	run.enter(entities.StateSelecting)
	selection, err := o.selectFormats(ctx, job.SourceURL)
	if err != nil {
		return err
	}
	job.Selection = selection

	if total := selection.CombinedSize(); total > o.cfg.Constraints.MaxCombinedBytes {
		return &downloaderrors.SizeBudgetExceededError{Total: total, Limit: o.cfg.Constraints.MaxCombinedBytes}
	}
	run.enter(entities.StateSizeChecked)

	run.enter(entities.StateDownloading)
	path := filepath.Join(o.cfg.DownloadDir, o.fileName())
	defer o.removeFile(run, path)

	if err := o.download(ctx, run, path); err != nil {
		return err
	}

	return o.deliver(ctx, run, path)
}

func (o *Orchestrator) selectFormats(ctx context.Context, url string) (*entities.SelectionResult, error) {
	catalog, err := o.gateway.FetchCatalog(ctx, url)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, &downloaderrors.ExtractionError{URL: url, Cause: downloaderrors.ErrEmptyCatalog}
	}

	normalized := selector.Normalize(catalog.Formats)
	selection := selector.Select(normalized, o.cfg.Constraints, catalog.CatalogMeta)

	if selection.Video == nil {
		return nil, &downloaderrors.NoSuitableFormatError{
			Stream: downloaderrors.StreamVideo,
			Limit:  o.cfg.Constraints.MaxVideoBytes,
		}
	}
	if selection.Audio == nil {
		return nil, &downloaderrors.NoSuitableFormatError{
			Stream: downloaderrors.StreamAudio,
			Limit:  o.cfg.Constraints.MaxAudioBytes,
		}
	}

	return &selection, nil
}

func (o *Orchestrator) download(ctx context.Context, run *jobRun, path string) error {
	req := entities.DownloadRequest{
		URL:        run.job.SourceURL,
		FormatSpec: run.job.Selection.FormatSpec(),
		OutputPath: path,
	}

	run.log.Info().Str("format", req.FormatSpec).Msg("Downloading video")
	started := time.Now()

	err := o.cfg.Retry.Do(ctx, opDownload, func(ctx context.Context) error {
		return o.gateway.Download(ctx, req)
	})
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return &downloaderrors.DownloadError{URL: req.URL, Format: req.FormatSpec, Cause: err}
	}

	o.metrics.RecordDownload(time.Since(started).Seconds(), info.Size())
	return nil
}

func (o *Orchestrator) deliver(ctx context.Context, run *jobRun, path string) error {
	job := run.job
	sel := job.Selection

	meta := entities.UploadMeta{
		Caption:  sel.Title,
		Width:    intOrZero(sel.Width),
		Height:   intOrZero(sel.Height),
		Duration: sel.DurationSeconds,
	}

	var ref string
	err := o.cfg.Retry.Do(ctx, opUpload, func(ctx context.Context) error {
		var err error
		ref, err = o.transport.SendMedia(ctx, o.cfg.RelayChatID, path, meta)
		return err
	})
	if err != nil {
		return &downloaderrors.DeliveryError{Op: opUpload, Cause: err}
	}

	media := entities.MediaSpec{
		Kind:              entities.MediaKindVideo,
		Source:            ref,
		Caption:           fmt.Sprintf("%s %s", sel.Title, job.SourceURL),
		Width:             meta.Width,
		Height:            meta.Height,
		Duration:          meta.Duration,
		SupportsStreaming: true,
	}
	err = o.cfg.Retry.Do(ctx, opEdit, func(ctx context.Context) error {
		return o.transport.EditMessageMedia(ctx, job.PlaceholderRef, media)
	})
	if err != nil {
		return &downloaderrors.DeliveryError{Op: opEdit, Cause: err}
	}

	o.limiter.RecordSuccess(ctx, job.UserID, o.now())
	return nil
}

func (o *Orchestrator) reject(ctx context.Context, run *jobRun, rejection downloaderrors.Rejection) entities.JobOutcome {
	run.enter(entities.StateRejected)
	o.metrics.RecordRejection(rejection.Reason())

	run.log.Info().Err(rejection).Str("reason", rejection.Reason()).Msg("Download rejected")

	if err := o.transport.EditMessageCaption(context.WithoutCancel(ctx), run.job.PlaceholderRef, rejection.Caption()); err != nil {
		run.log.Error().Err(err).Msg("Failed to show rejection reason")
	}

	return entities.JobOutcome{State: entities.StateRejected, Trace: run.trace, Err: rejection}
}

func (o *Orchestrator) fail(ctx context.Context, run *jobRun, cause error) entities.JobOutcome {
	run.enter(entities.StateFailed)
	run.log.Error().Err(cause).Msg("Download failed, running recovery")

	report := o.recovery.Run(ctx, run.job)
	run.log.Info().
		Str("final_tier", string(report.Final)).
		Str("title", report.Title).
		Msg("Recovery finished")

	return entities.JobOutcome{State: entities.StateFailed, Trace: run.trace, Err: cause}
}

func (o *Orchestrator) removeFile(run *jobRun, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		run.log.Warn().Err(err).Str("path", path).Msg("Failed to remove downloaded file")
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
