package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectionCaptions(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		caption string
		reason  string
	}{
		{
			name:    "rate limited",
			err:     &RateLimitedError{RetryAfter: 20 * time.Second, Window: time.Minute},
			caption: "Rate limit exceeded. Please wait 1 minute(s) before requesting another download.",
			reason:  "rate_limited",
		},
		{
			name:    "no video",
			err:     &NoSuitableFormatError{Stream: StreamVideo, Limit: 15 * 1024 * 1024},
			caption: "No suitable video format found under 15 MiB.",
			reason:  "no_video_format",
		},
		{
			name:    "no audio",
			err:     &NoSuitableFormatError{Stream: StreamAudio, Limit: 8 * 1024 * 1024},
			caption: "No suitable audio format found under 8.0 MiB.",
			reason:  "no_audio_format",
		},
		{
			name:    "size budget",
			err:     &SizeBudgetExceededError{Total: 60 * 1024 * 1024, Limit: 50 * 1024 * 1024},
			caption: "Video is too large: 60 MiB exceeds the 50 MiB limit.",
			reason:  "size_budget_exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := AsRejection(fmt.Errorf("job: %w", tt.err))
			require.True(t, ok)
			assert.Equal(t, tt.caption, r.Caption())
			assert.Equal(t, tt.reason, r.Reason())
		})
	}
}

func TestAsRejection_OperationalErrors(t *testing.T) {
	for _, err := range []error{
		&ExtractionError{URL: "u", Cause: errors.New("x")},
		&DownloadError{URL: "u", Format: "1+2", Cause: errors.New("x")},
		&DeliveryError{Op: "upload", Cause: errors.New("x")},
	} {
		_, ok := AsRejection(err)
		assert.False(t, ok, "%T must not be a rejection", err)
	}
}

func TestOperationalErrors_Unwrap(t *testing.T) {
	cause := errors.New("exit status 1")

	assert.ErrorIs(t, &ExtractionError{Cause: cause}, cause)
	assert.ErrorIs(t, &DownloadError{Cause: cause}, cause)
	assert.ErrorIs(t, &DeliveryError{Cause: cause}, cause)
	assert.ErrorIs(t, &RecoveryChainExhaustedError{Cause: cause}, cause)
}
