package ytdlp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/ytdlp"
)

type fakeEngine struct {
	info     *ytdlp.Info
	lastAuth *ytdlp.Auth
	lastSpec string
	lastOut  string
}

func (f *fakeEngine) GetInfo(_ context.Context, _ string, auth *ytdlp.Auth) (*ytdlp.Info, error) {
	f.lastAuth = auth
	return f.info, nil
}

func (f *fakeEngine) Download(_ context.Context, _, spec, out string, auth *ytdlp.Auth) error {
	f.lastAuth = auth
	f.lastSpec = spec
	f.lastOut = out
	return nil
}

const infoJSON = `{
	"title": "short title",
	"fulltitle": "Full title",
	"duration": 61.9,
	"formats": [
		{"format_id": "sb0", "vcodec": "none", "acodec": "none", "protocol": "mhtml"},
		{"format_id": "140", "vcodec": "none", "acodec": "mp4a.40.2", "protocol": "https", "abr": 129.4, "tbr": 130, "filesize": 3000000, "language": "en", "format_note": "medium, original (default)"},
		{"format_id": "137", "vcodec": "avc1.640028", "acodec": "none", "protocol": "https", "tbr": 4400, "filesize": 20000000, "width": 1920, "height": 1080},
		{"format_id": "18", "vcodec": "avc1.42001E", "acodec": "mp4a.40.2", "protocol": "https", "tbr": 600, "width": 640, "height": 360},
		{"format_id": "http-720", "protocol": "https", "width": 1280, "height": 720}
	]
}`

func TestSource_FetchCatalog(t *testing.T) {
	var info ytdlp.Info
	require.NoError(t, json.Unmarshal([]byte(infoJSON), &info))

	engine := &fakeEngine{info: &info}
	src := NewSource(engine, "", "", nil)

	catalog, err := src.FetchCatalog(context.Background(), "https://example.com/v", deps.WithoutAuth)
	require.NoError(t, err)
	assert.Nil(t, engine.lastAuth)

	assert.Equal(t, "Full title", catalog.Title)
	assert.Equal(t, 61, catalog.DurationSeconds)
	require.Len(t, catalog.Formats, 5)

	byID := make(map[string]entities.EncodingCandidate)
	for _, c := range catalog.Formats {
		byID[c.ID] = c
	}

	sb := byID["sb0"]
	assert.False(t, sb.HasVideo)
	assert.False(t, sb.HasAudio)

	a := byID["140"]
	assert.True(t, a.HasAudio)
	assert.False(t, a.HasVideo)
	assert.Equal(t, "en", a.Language)
	require.NotNil(t, a.Bitrate)
	assert.InDelta(t, 129.4, *a.Bitrate, 0.001)

	v := byID["137"]
	assert.True(t, v.HasVideo)
	assert.False(t, v.HasAudio)
	assert.Equal(t, "avc1.640028", v.VideoCodec)
	assert.Equal(t, int64(20000000), *v.Filesize)

	combined := byID["18"]
	assert.True(t, combined.HasVideo)
	assert.True(t, combined.HasAudio)
	assert.Nil(t, combined.Filesize)

	unknownCodecs := byID["http-720"]
	assert.True(t, unknownCodecs.HasVideo)
	assert.False(t, unknownCodecs.HasAudio)
}

func TestSource_TitleFallbacks(t *testing.T) {
	src := NewSource(&fakeEngine{info: &ytdlp.Info{}}, "", "", nil)

	catalog, err := src.FetchCatalog(context.Background(), "https://youtu.be/ggLajT7aMMk", deps.WithoutAuth)
	require.NoError(t, err)
	assert.Equal(t, "Video_ggLajT7aMMk", catalog.Title)
	assert.Equal(t, 0, catalog.DurationSeconds)

	catalog, err = src.FetchCatalog(context.Background(), "https://example.com/x", deps.WithoutAuth)
	require.NoError(t, err)
	assert.Equal(t, "Unknown_Video", catalog.Title)
}

func TestSource_AuthContext(t *testing.T) {
	engine := &fakeEngine{}
	src := NewSource(engine, "/tmp/cookies.txt", "UA", []string{"youtube.com"})

	assert.True(t, src.AuthConfigured("https://www.youtube.com/watch?v=x"))
	assert.False(t, src.AuthConfigured("https://vimeo.com/1"))

	req := entities.DownloadRequest{URL: "https://youtube.com/watch?v=x", FormatSpec: "137+140", OutputPath: "/tmp/o.mp4"}
	require.NoError(t, src.Download(context.Background(), req, deps.WithAuth))
	require.NotNil(t, engine.lastAuth)
	assert.Equal(t, "/tmp/cookies.txt", engine.lastAuth.CookiesFile)
	assert.Equal(t, "UA", engine.lastAuth.UserAgent)
	assert.Equal(t, "137+140", engine.lastSpec)
	assert.Equal(t, "/tmp/o.mp4", engine.lastOut)

	require.NoError(t, src.Download(context.Background(), req, deps.WithoutAuth))
	assert.Nil(t, engine.lastAuth)
}

func TestSource_NoAuthContextNeverConfigured(t *testing.T) {
	src := NewSource(&fakeEngine{}, "", "", []string{"youtube.com"})
	assert.False(t, src.AuthConfigured("https://youtube.com/watch?v=x"))
}
