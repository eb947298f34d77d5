// Package deps contains interface definitions for the download domain dependencies
package deps

import (
	"context"
	"time"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
)

// AuthMode selects whether a source call carries the auth context
type AuthMode int

const (
	WithoutAuth AuthMode = iota
	WithAuth
)

// CatalogSource returns the catalog of encodings available for a URL
type CatalogSource interface {
	// FetchCatalog fetches title, duration and formats
	FetchCatalog(ctx context.Context, url string, auth AuthMode) (*entities.Catalog, error)

	// AuthConfigured reports whether an auth context exists for the URL's platform
	AuthConfigured(url string) bool
}

// DownloadSource produces a merged local file
type DownloadSource interface {
	// Download writes the merged streams of req to req.OutputPath
	Download(ctx context.Context, req entities.DownloadRequest, auth AuthMode) error
}

// ChatTransport is the capability the pipeline needs from the chat
type ChatTransport interface {
	// SendPlaceholder answers an inline query with the placeholder result
	SendPlaceholder(ctx context.Context, queryID string, spec entities.PlaceholderSpec) error

	// EditMessageCaption replaces the caption of the placeholder
	EditMessageCaption(ctx context.Context, messageRef string, text string) error

	// EditMessageMedia replaces the media of the placeholder
	EditMessageMedia(ctx context.Context, messageRef string, media entities.MediaSpec) error

	// SendMedia uploads a local file to destination and returns a durable media reference
	SendMedia(ctx context.Context, destination int64, filePath string, meta entities.UploadMeta) (string, error)
}

// RateLimitStore keeps the last successful download time per user
type RateLimitStore interface {
	// Last returns the last success time of user
	Last(ctx context.Context, userID int64) (time.Time, bool)

	// Record stores a success time of user
	Record(ctx context.Context, userID int64, at time.Time)
}

// TitleFetcher extracts a human-readable title from a web page
type TitleFetcher interface {
	FetchTitle(ctx context.Context, url string) (string, error)
}

// MetricsRecorder receives pipeline events
type MetricsRecorder interface {
	RecordInlineQuery(result string)
	JobStarted()
	JobFinished(state string, duration float64)
	RecordRejection(reason string)
	RecordDownload(duration float64, size int64)
	RecordRetry(operation string)
	RecordAuthFallback(operation string)
	RecordRecoveryTier(tier string, ok bool)
	SetRateLimitEntries(n int)
}

// HealthChecker is a component reported by the health endpoint
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}
