// Package gateway wraps the extraction engine with authentication fallback
package gateway

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
	downloaderrors "github.com/magicxor/ytdl-inline-bot/internal/domain/download/errors"
)

const (
	opCatalog  = "catalog"
	opDownload = "download"
)

// WithAuthFallback runs call with authentication when it is configured and,
// on any failure, once more without it. Without configured auth it runs a single unauthenticated call.
// The returned flag reports whether the successful or final call was authenticated.
func WithAuthFallback[T any](
	ctx context.Context,
	authConfigured bool,
	call func(ctx context.Context, auth deps.AuthMode) (T, error),
	onFallback func(err error),
) (T, bool, error) {
	if !authConfigured {
		res, err := call(ctx, deps.WithoutAuth)
		return res, false, err
	}

	res, err := call(ctx, deps.WithAuth)
	if err == nil {
		return res, true, nil
	}

	if onFallback != nil {
		onFallback(err)
	}

	res, err = call(ctx, deps.WithoutAuth)
	return res, false, err
}

// Timeouts bound every single engine call. The authenticated call and its
// unauthenticated fallback each get the full budget. Zero disables the bound.
type Timeouts struct {
	Catalog  time.Duration
	Download time.Duration
}

// Gateway is the single entry point to the catalog and download capabilities
type Gateway struct {
	catalog   deps.CatalogSource
	downloads deps.DownloadSource
	timeouts  Timeouts
	metrics   deps.MetricsRecorder
	logger    zerolog.Logger
}

// NewGateway creates a new Gateway
func NewGateway(
	catalog deps.CatalogSource,
	downloads deps.DownloadSource,
	timeouts Timeouts,
	metrics deps.MetricsRecorder,
	logger zerolog.Logger,
) *Gateway {
	return &Gateway{
		catalog:   catalog,
		downloads: downloads,
		timeouts:  timeouts,
		metrics:   metrics,
		logger:    logger,
	}
}

// FetchCatalog returns the catalog of url, failing with ExtractionError
func (g *Gateway) FetchCatalog(ctx context.Context, url string) (*entities.Catalog, error) {
	catalog, authenticated, err := WithAuthFallback(ctx, g.catalog.AuthConfigured(url),
		func(ctx context.Context, auth deps.AuthMode) (*entities.Catalog, error) {
			cctx, cancel := withTimeout(ctx, g.timeouts.Catalog)
			defer cancel()
			return g.catalog.FetchCatalog(cctx, url, auth)
		},
		g.fallbackLogger(opCatalog, url),
	)
	if err != nil {
		return nil, &downloaderrors.ExtractionError{URL: url, Authenticated: authenticated, Cause: err}
	}
	return catalog, nil
}

// Download produces the merged file described by req, failing with DownloadError
func (g *Gateway) Download(ctx context.Context, req entities.DownloadRequest) error {
	_, _, err := WithAuthFallback(ctx, g.catalog.AuthConfigured(req.URL),
		func(ctx context.Context, auth deps.AuthMode) (struct{}, error) {
			dctx, cancel := withTimeout(ctx, g.timeouts.Download)
			defer cancel()
			return struct{}{}, g.downloads.Download(dctx, req, auth)
		},
		g.fallbackLogger(opDownload, req.URL),
	)
	if err != nil {
		return &downloaderrors.DownloadError{URL: req.URL, Format: req.FormatSpec, Cause: err}
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func (g *Gateway) fallbackLogger(op, url string) func(err error) {
	return func(err error) {
		g.metrics.RecordAuthFallback(op)
		g.logger.Warn().
			Err(err).
			Str("operation", op).
			Str("url", url).
			Msg("Authenticated call failed, retrying without authentication")
	}
}
