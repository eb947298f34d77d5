package buissines

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/dto"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
	downloaderrors "github.com/magicxor/ytdl-inline-bot/internal/domain/download/errors"
)

func newUseCase(f *fixture) *UseCase {
	uc := NewUseCase(f.limiter, f.orch, f.transport, PlaceholderMedia{
		VideoURL:     "https://example.com/loading.mp4",
		ThumbnailURL: "https://example.com/loading.jpg",
		Width:        1024,
		Height:       576,
		Duration:     10,
	}, 2, time.Minute, deps.NopMetrics{}, zerolog.Nop())
	uc.now = func() time.Time { return f.now }

	ids := 0
	uc.newID = func() string {
		ids++
		return "id-" + strconv.Itoa(ids)
	}
	return uc
}

func TestUseCase_HandleStart(t *testing.T) {
	uc := newUseCase(newFixture(t, testConstraints(), fakeTitles{}))

	resp, err := uc.HandleStart(context.Background(), &dto.StartCommandRequest{UserID: 7, FirstName: "Ann <3"})

	require.NoError(t, err)
	assert.Equal(t, `Hi <a href="tg://user?id=7">Ann &lt;3</a>! Paste a video link using an inline query!`, resp.Message)
}

func TestUseCase_HandleInlineQuery(t *testing.T) {
	f := newFixture(t, testConstraints(), fakeTitles{})
	uc := newUseCase(f)

	err := uc.HandleInlineQuery(context.Background(), &dto.InlineQueryRequest{QueryID: "q1", UserID: regularUser, Query: "  " + plainURL + " "})
	require.NoError(t, err)

	require.Len(t, f.transport.placeholders, 1)
	assert.Equal(t, entities.PlaceholderSpec{
		ResultID:     "id-1",
		VideoURL:     "https://example.com/loading.mp4",
		ThumbnailURL: "https://example.com/loading.jpg",
		Title:        "Downloading...",
		Caption:      "Please wait while the video is being processed. URL: " + plainURL,
		ButtonText:   "Please wait...",
		ButtonData:   "id-2",
		Width:        1024,
		Height:       576,
		Duration:     10,
	}, f.transport.placeholders[0])
}

func TestUseCase_HandleInlineQuery_NoAnswer(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		limited bool
		wantErr error
	}{
		{name: "empty", query: "   ", wantErr: downloaderrors.ErrEmptyQuery},
		{name: "plain text", query: "funny cats", wantErr: downloaderrors.ErrInvalidURL},
		{name: "ftp scheme", query: "ftp://example.com/v.mp4", wantErr: downloaderrors.ErrInvalidURL},
		{name: "rate limited", query: plainURL, limited: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, testConstraints(), fakeTitles{})
			uc := newUseCase(f)
			if tt.limited {
				f.store.Record(context.Background(), regularUser, f.now)
			}

			err := uc.HandleInlineQuery(context.Background(), &dto.InlineQueryRequest{QueryID: "q", UserID: regularUser, Query: tt.query})

			if tt.limited {
				var rlErr *downloaderrors.RateLimitedError
				assert.ErrorAs(t, err, &rlErr)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, f.transport.placeholders)
		})
	}
}

func TestUseCase_HandleChosenResult(t *testing.T) {
	f := newFixture(t, testConstraints(), fakeTitles{})
	uc := newUseCase(f)

	outcome, err := uc.HandleChosenResult(context.Background(), &dto.ChosenResultRequest{
		ResultID:        "id-1",
		UserID:          regularUser,
		InlineMessageID: "inline-msg-1",
		Query:           plainURL,
	})

	require.NoError(t, err)
	assert.Equal(t, entities.StateDelivered, outcome.State)
	assert.Equal(t, 1, f.src.downloadCalls)
}

func TestUseCase_HandleChosenResult_NotStartedStillRecovers(t *testing.T) {
	f := newFixture(t, testConstraints(), fakeTitles{title: "Clip page"})
	uc := newUseCase(f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := uc.HandleChosenResult(ctx, &dto.ChosenResultRequest{
		ResultID:        "id-1",
		UserID:          regularUser,
		InlineMessageID: "inline-msg-1",
		Query:           plainURL,
	})

	require.NoError(t, err)
	assert.Equal(t, entities.StateFailed, outcome.State)
	assert.Equal(t, []entities.JobState{entities.StateFailed}, outcome.Trace)
	assert.ErrorIs(t, outcome.Err, downloaderrors.ErrJobNotStarted)
	assert.ErrorIs(t, outcome.Err, context.Canceled)
	assert.Zero(t, f.src.catalogCalls)
	assert.Zero(t, f.src.downloadCalls)

	require.Len(t, f.transport.edits, 1)
	assert.Equal(t, "https://example.com/error.mp4", f.transport.edits[0].Source)
	assert.Equal(t, "Clip page\n"+plainURL, f.transport.edits[0].Caption)
}

func TestUseCase_HandleChosenResult_Invalid(t *testing.T) {
	f := newFixture(t, testConstraints(), fakeTitles{})
	uc := newUseCase(f)

	_, err := uc.HandleChosenResult(context.Background(), &dto.ChosenResultRequest{UserID: regularUser, Query: plainURL})
	assert.ErrorIs(t, err, downloaderrors.ErrNoPlaceholder)

	_, err = uc.HandleChosenResult(context.Background(), &dto.ChosenResultRequest{UserID: regularUser, InlineMessageID: "m", Query: "hello"})
	assert.ErrorIs(t, err, downloaderrors.ErrInvalidURL)

	assert.Zero(t, f.src.catalogCalls)
}

func TestUseCase_DuplicateChosenResultsShareOneJob(t *testing.T) {
	f := newFixture(t, testConstraints(), fakeTitles{})
	f.src.downloadStarted = make(chan struct{})
	f.src.releaseDownload = make(chan struct{})
	uc := newUseCase(f)

	req := &dto.ChosenResultRequest{UserID: regularUser, InlineMessageID: "inline-msg-1", Query: plainURL}
	outcomes := make([]entities.JobOutcome, 2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		outcomes[0], _ = uc.HandleChosenResult(context.Background(), req)
	}()

	<-f.src.downloadStarted

	wg.Add(1)
	go func() {
		defer wg.Done()
		outcomes[1], _ = uc.HandleChosenResult(context.Background(), req)
	}()

	// give the duplicate time to join the running job
	time.Sleep(100 * time.Millisecond)
	close(f.src.releaseDownload)
	wg.Wait()

	assert.Equal(t, 1, f.src.downloadCalls)
	assert.Equal(t, entities.StateDelivered, outcomes[0].State)
	assert.Equal(t, entities.StateDelivered, outcomes[1].State)
}

func TestUseCase_SecondJobAfterDeliveryIsRateLimited(t *testing.T) {
	f := newFixture(t, testConstraints(), fakeTitles{})
	uc := newUseCase(f)

	first, err := uc.HandleChosenResult(context.Background(), &dto.ChosenResultRequest{UserID: regularUser, InlineMessageID: "a", Query: plainURL})
	require.NoError(t, err)
	assert.Equal(t, entities.StateDelivered, first.State)

	second, err := uc.HandleChosenResult(context.Background(), &dto.ChosenResultRequest{UserID: regularUser, InlineMessageID: "b", Query: plainURL})
	require.NoError(t, err)
	assert.Equal(t, entities.StateRejected, second.State)
	assert.Equal(t, 1, f.src.downloadCalls)
}
