// Package errors contains domain-specific errors for the download domain
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	pkgerrors "github.com/magicxor/ytdl-inline-bot/pkg/errors"
)

// Domain errors for download operations
var (
	ErrEmptyQuery       = pkgerrors.NewValidationError("query is empty")
	ErrInvalidURL       = pkgerrors.NewValidationError("query is not an http(s) URL")
	ErrNoPlaceholder    = pkgerrors.NewValidationError("chosen result carries no inline message id")
	ErrEmptyCatalog     = pkgerrors.NewNotFoundError("catalog has no formats")
	ErrNoMediaReference = pkgerrors.NewInternalError("relay message carries no video")
	ErrJobPanicked      = pkgerrors.NewInternalError("download job panicked")
	ErrJobNotStarted    = pkgerrors.NewInternalError("download job was not started")
)

// Stream names a selected stream kind
type Stream string

const (
	StreamVideo Stream = "video"
	StreamAudio Stream = "audio"
)

// Rejection is implemented by policy errors that end a job with a caption edit
type Rejection interface {
	error
	// Caption is the user-visible reason
	Caption() string
	// Reason is a short machine-readable reason
	Reason() string
}

// AsRejection extracts a Rejection from err
func AsRejection(err error) (Rejection, bool) {
	var r Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// RateLimitedError is returned when a non-privileged user asks again inside the window
type RateLimitedError struct {
	RetryAfter time.Duration
	Window     time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter.Round(time.Second))
}

// Caption implements Rejection
func (e *RateLimitedError) Caption() string {
	minutes := int(e.Window / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("Rate limit exceeded. Please wait %d minute(s) before requesting another download.", minutes)
}

// Reason implements Rejection
func (e *RateLimitedError) Reason() string { return "rate_limited" }

// NoSuitableFormatError is returned when the selector chose no stream of a kind
type NoSuitableFormatError struct {
	Stream Stream
	Limit  int64
}

func (e *NoSuitableFormatError) Error() string {
	return fmt.Sprintf("no suitable %s format found under %d bytes", e.Stream, e.Limit)
}

// Caption implements Rejection
func (e *NoSuitableFormatError) Caption() string {
	return fmt.Sprintf("No suitable %s format found under %s.", e.Stream, humanize.IBytes(uint64(e.Limit)))
}

// Reason implements Rejection
func (e *NoSuitableFormatError) Reason() string { return "no_" + string(e.Stream) + "_format" }

// SizeBudgetExceededError is returned when the chosen pair exceeds the combined ceiling
type SizeBudgetExceededError struct {
	Total int64
	Limit int64
}

func (e *SizeBudgetExceededError) Error() string {
	return fmt.Sprintf("combined size %d bytes exceeds %d bytes", e.Total, e.Limit)
}

// Caption implements Rejection
func (e *SizeBudgetExceededError) Caption() string {
	return fmt.Sprintf("Video is too large: %s exceeds the %s limit.",
		humanize.IBytes(uint64(e.Total)), humanize.IBytes(uint64(e.Limit)))
}

// Reason implements Rejection
func (e *SizeBudgetExceededError) Reason() string { return "size_budget_exceeded" }

// ExtractionError is returned when the catalog could not be fetched or parsed
type ExtractionError struct {
	URL           string
	Authenticated bool
	Cause         error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract catalog of %s (authenticated=%t): %v", e.URL, e.Authenticated, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// DownloadError is returned when the merged download failed
type DownloadError struct {
	URL    string
	Format string
	Cause  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s of %s: %v", e.Format, e.URL, e.Cause)
}

func (e *DownloadError) Unwrap() error { return e.Cause }

// DeliveryError is returned when uploading or replacing the placeholder failed
type DeliveryError struct {
	Op    string
	Cause error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery %s: %v", e.Op, e.Cause)
}

func (e *DeliveryError) Unwrap() error { return e.Cause }

// RecoveryChainExhaustedError is returned when no recovery tier could update the placeholder
type RecoveryChainExhaustedError struct {
	Tiers []string
	Cause error
}

func (e *RecoveryChainExhaustedError) Error() string {
	return fmt.Sprintf("recovery chain exhausted after tiers [%s]: %v", strings.Join(e.Tiers, ", "), e.Cause)
}

func (e *RecoveryChainExhaustedError) Unwrap() error { return e.Cause }
