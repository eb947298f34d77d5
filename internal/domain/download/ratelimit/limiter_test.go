package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const vip int64 = 282614687

func TestLimiter_BlocksInsideWindow(t *testing.T) {
	ctx := context.Background()
	l := NewLimiter(NewMemoryStore(time.Minute), time.Minute, vip)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	ok, _ := l.Check(ctx, 1, start)
	require.True(t, ok)
	l.RecordSuccess(ctx, 1, start)

	ok, wait := l.Check(ctx, 1, start.Add(10*time.Second))
	assert.False(t, ok)
	assert.Equal(t, 50*time.Second, wait)

	ok, _ = l.Check(ctx, 1, start.Add(59*time.Second))
	assert.False(t, ok)

	ok, wait = l.Check(ctx, 1, start.Add(time.Minute))
	assert.True(t, ok)
	assert.Zero(t, wait)
}

func TestLimiter_UsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	l := NewLimiter(NewMemoryStore(time.Minute), time.Minute, vip)
	now := time.Now()

	l.RecordSuccess(ctx, 1, now)

	ok, _ := l.Check(ctx, 2, now)
	assert.True(t, ok)
}

func TestLimiter_PrivilegedAlwaysAllowed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	l := NewLimiter(store, time.Minute, vip)
	now := time.Now()

	for i := 0; i < 3; i++ {
		ok, wait := l.Check(ctx, vip, now)
		assert.True(t, ok)
		assert.Zero(t, wait)
		l.RecordSuccess(ctx, vip, now)
	}
	assert.Equal(t, 0, store.Len())
}

func TestLimiter_ZeroPrivilegedExemptsNobody(t *testing.T) {
	ctx := context.Background()
	l := NewLimiter(NewMemoryStore(time.Minute), time.Minute, 0)
	now := time.Now()

	assert.False(t, l.IsPrivileged(0))
	l.RecordSuccess(ctx, 0, now)
	ok, _ := l.Check(ctx, 0, now)
	assert.False(t, ok)
}

func TestMemoryStore_RecordNeverMovesBackwards(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Now()

	s.Record(ctx, 1, now)
	s.Record(ctx, 1, now.Add(-time.Hour))

	last, ok := s.Last(ctx, 1)
	require.True(t, ok)
	assert.True(t, last.Equal(now))
}

func TestMemoryStore_SweepRemovesExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }

	s.Record(ctx, 1, now.Add(-2*time.Minute))
	s.Record(ctx, 2, now.Add(-time.Minute))
	s.Record(ctx, 3, now.Add(-10*time.Second))

	assert.Equal(t, 2, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, ok := s.Last(ctx, 3)
	assert.True(t, ok)
}

func TestMemoryStore_SweepDoesNotChangeDecisions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s := NewMemoryStore(time.Minute)
	s.now = func() time.Time { return now }
	l := NewLimiter(s, time.Minute, vip)

	for user := int64(1); user <= 100; user++ {
		s.Record(ctx, user, now.Add(-time.Duration(user)*time.Second))
	}

	before := make(map[int64]bool)
	for user := int64(1); user <= 100; user++ {
		before[user], _ = l.Check(ctx, user, now)
	}

	s.Sweep()

	for user := int64(1); user <= 100; user++ {
		after, _ := l.Check(ctx, user, now)
		assert.Equal(t, before[user], after, "user %d", user)
	}
}

func TestMemoryStore_JanitorLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Millisecond)
	s.Record(ctx, 1, time.Now().Add(-time.Hour))

	swept := make(chan int, 16)
	s.Start(5*time.Millisecond, func(remaining int) {
		select {
		case swept <- remaining:
		default:
		}
	})

	select {
	case remaining := <-swept:
		assert.Equal(t, 0, remaining)
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not sweep")
	}

	s.Stop()
	s.Stop()
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	l := NewLimiter(s, time.Minute, vip)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				now := time.Now()
				if ok, _ := l.Check(ctx, user%4, now); ok {
					l.RecordSuccess(ctx, user%4, now)
				}
				s.Sweep()
			}
		}(int64(i))
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Len(), 4)
}
