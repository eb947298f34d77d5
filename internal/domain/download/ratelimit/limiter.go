package ratelimit

import (
	"context"
	"time"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
)

// Limiter allows one successful download per window per user, exempting one privileged user
type Limiter struct {
	store      deps.RateLimitStore
	window     time.Duration
	privileged int64
}

// NewLimiter creates a limiter; privileged 0 exempts nobody
func NewLimiter(store deps.RateLimitStore, window time.Duration, privileged int64) *Limiter {
	return &Limiter{
		store:      store,
		window:     window,
		privileged: privileged,
	}
}

// Window returns the configured window
func (l *Limiter) Window() time.Duration {
	return l.window
}

// IsPrivileged reports whether user bypasses the limiter
func (l *Limiter) IsPrivileged(userID int64) bool {
	return l.privileged != 0 && userID == l.privileged
}

// Check reports whether user may download at now, and if not, how long to wait
func (l *Limiter) Check(ctx context.Context, userID int64, now time.Time) (bool, time.Duration) {
	if l.IsPrivileged(userID) {
		return true, 0
	}

	last, ok := l.store.Last(ctx, userID)
	if !ok {
		return true, 0
	}

	elapsed := now.Sub(last)
	if elapsed >= l.window {
		return true, 0
	}
	return false, l.window - elapsed
}

// RecordSuccess stores a successful download of user; privileged users are not tracked
func (l *Limiter) RecordSuccess(ctx context.Context, userID int64, now time.Time) {
	if l.IsPrivileged(userID) {
		return
	}
	l.store.Record(ctx, userID, now)
}
