package videoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractYouTubeVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=ggLajT7aMMk&t=123s", "ggLajT7aMMk", true},
		{"https://youtu.be/ggLajT7aMMk?t=120", "ggLajT7aMMk", true},
		{"https://www.youtube.com/embed/ggLajT7aMMk", "ggLajT7aMMk", true},
		{"https://youtube.com/shorts/ggLajT7aMMk/extra?feature=share", "ggLajT7aMMk", true},
		{"https://www.youtube.com/live/ggLajT7aMMk", "ggLajT7aMMk", true},
		{"https://example.com/v/ggLajT7aMMk", "ggLajT7aMMk", true},
		{"https://youtu.be/", "", false},
		{"https://example.com/short", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ExtractYouTubeVideoID(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsYouTubeURL(t *testing.T) {
	assert.True(t, IsYouTubeURL("https://youtu.be/abc"))
	assert.True(t, IsYouTubeURL("https://m.youtube.com/watch?v=abc"))
	assert.True(t, IsYouTubeURL("https://www.youtube.com/shorts/abc"))
	assert.False(t, IsYouTubeURL("http://youtu.be/abc"))
	assert.False(t, IsYouTubeURL("https://www.youtube.com/embed/abc"))
	assert.False(t, IsYouTubeURL("https://vimeo.com/123"))
}

func TestThumbnailURL(t *testing.T) {
	assert.Equal(t, "https://img.youtube.com/vi/ggLajT7aMMk/0.jpg", ThumbnailURL("ggLajT7aMMk"))
}

func TestParseSourceURL(t *testing.T) {
	u, err := ParseSourceURL("  https://vimeo.com/123  ")
	require.NoError(t, err)
	assert.Equal(t, "vimeo.com", u.Host)

	for _, bad := range []string{"", "hello world", "ftp://example.com/x", "https://localhost/x", "example.com/x", "https://"} {
		_, err := ParseSourceURL(bad)
		assert.ErrorIs(t, err, ErrNotURL, bad)
	}
}

func TestHostMatches(t *testing.T) {
	domains := []string{"youtube.com", "youtu.be"}

	assert.True(t, HostMatches("https://www.youtube.com/watch?v=x", domains))
	assert.True(t, HostMatches("https://youtu.be/x", domains))
	assert.True(t, HostMatches("https://M.YouTube.com/watch?v=x", domains))
	assert.False(t, HostMatches("https://notyoutube.com/x", domains))
	assert.False(t, HostMatches("https://vimeo.com/1", domains))
	assert.False(t, HostMatches("https://youtube.com/x", nil))
}
