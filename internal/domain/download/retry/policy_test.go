package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	downloaderrors "github.com/magicxor/ytdl-inline-bot/internal/domain/download/errors"
)

func TestPolicy_SucceedsWithinBudget(t *testing.T) {
	p := NewPolicy(2, time.Millisecond)

	calls := 0
	var retried []int
	p = p.WithOnRetry(func(op string, attempt int, err error) {
		assert.Equal(t, "download", op)
		assert.Error(t, err)
		retried = append(retried, attempt)
	})

	err := p.Do(context.Background(), "download", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{2, 3}, retried)
}

func TestPolicy_ExhaustsBudget(t *testing.T) {
	p := NewPolicy(2, time.Millisecond)
	boom := errors.New("boom")

	calls := 0
	err := p.Do(context.Background(), "upload", func(ctx context.Context) error {
		calls++
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestPolicy_StopsOnNonRetryable(t *testing.T) {
	p := NewPolicy(5, time.Millisecond)

	calls := 0
	err := p.Do(context.Background(), "edit", func(ctx context.Context) error {
		calls++
		return &downloaderrors.RateLimitedError{Window: time.Minute}
	})

	var rl *downloaderrors.RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 1, calls)
}

func TestPolicy_ZeroRetries(t *testing.T) {
	p := NewPolicy(-1, 0)

	calls := 0
	err := p.Do(context.Background(), "op", func(ctx context.Context) error {
		calls++
		return errors.New("once")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicy_CancelledContextStopsWaiting(t *testing.T) {
	p := NewPolicy(3, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	boom := errors.New("boom")
	calls := 0
	err := p.Do(ctx, "op", func(ctx context.Context) error {
		calls++
		cancel()
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDefaultRetryable(t *testing.T) {
	assert.True(t, DefaultRetryable(errors.New("x")))
	assert.True(t, DefaultRetryable(context.DeadlineExceeded))
	assert.False(t, DefaultRetryable(context.Canceled))
	assert.False(t, DefaultRetryable(&downloaderrors.SizeBudgetExceededError{}))
}
