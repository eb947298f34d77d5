// Package ytdlp adapts the yt-dlp client to the catalog and download capabilities
package ytdlp

import (
	"context"
	"math"
	"strings"

	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/deps"
	"github.com/magicxor/ytdl-inline-bot/internal/domain/download/entities"
	"github.com/magicxor/ytdl-inline-bot/internal/infrastructure/ytdlp"
	"github.com/magicxor/ytdl-inline-bot/internal/videoid"
)

// Engine is the subset of the yt-dlp client used by Source
type Engine interface {
	GetInfo(ctx context.Context, url string, auth *ytdlp.Auth) (*ytdlp.Info, error)
	Download(ctx context.Context, url, formatSpec, outputPath string, auth *ytdlp.Auth) error
}

// Source implements deps.CatalogSource and deps.DownloadSource
type Source struct {
	engine      Engine
	auth        ytdlp.Auth
	authDomains []string
}

// NewSource creates a Source; cookiesFile and userAgent form the auth context
func NewSource(engine Engine, cookiesFile, userAgent string, authDomains []string) *Source {
	return &Source{
		engine:      engine,
		auth:        ytdlp.Auth{CookiesFile: cookiesFile, UserAgent: userAgent},
		authDomains: authDomains,
	}
}

// AuthConfigured implements deps.CatalogSource
func (s *Source) AuthConfigured(url string) bool {
	return !s.auth.Empty() && videoid.HostMatches(url, s.authDomains)
}

// FetchCatalog implements deps.CatalogSource
func (s *Source) FetchCatalog(ctx context.Context, url string, auth deps.AuthMode) (*entities.Catalog, error) {
	info, err := s.engine.GetInfo(ctx, url, s.authFor(auth))
	if err != nil {
		return nil, err
	}

	catalog := &entities.Catalog{
		CatalogMeta: entities.CatalogMeta{
			Title:           catalogTitle(info, url),
			DurationSeconds: durationSeconds(info.Duration),
		},
		Formats: make([]entities.EncodingCandidate, 0, len(info.Formats)),
	}
	for _, f := range info.Formats {
		catalog.Formats = append(catalog.Formats, toCandidate(f))
	}
	return catalog, nil
}

// Download implements deps.DownloadSource
func (s *Source) Download(ctx context.Context, req entities.DownloadRequest, auth deps.AuthMode) error {
	return s.engine.Download(ctx, req.URL, req.FormatSpec, req.OutputPath, s.authFor(auth))
}

func (s *Source) authFor(mode deps.AuthMode) *ytdlp.Auth {
	if mode != deps.WithAuth {
		return nil
	}
	auth := s.auth
	return &auth
}

func catalogTitle(info *ytdlp.Info, url string) string {
	if t := strings.TrimSpace(info.FullTitle); t != "" {
		return t
	}
	if t := strings.TrimSpace(info.Title); t != "" {
		return t
	}
	if id, ok := videoid.ExtractYouTubeVideoID(url); ok {
		return "Video_" + id
	}
	return "Unknown_Video"
}

func durationSeconds(d *float64) int {
	if d == nil || *d <= 0 || math.IsNaN(*d) || math.IsInf(*d, 0) {
		return 0
	}
	return int(math.Floor(*d))
}

func toCandidate(f ytdlp.Format) entities.EncodingCandidate {
	vcodec, vKnown := codec(f.VCodec)
	acodec, aKnown := codec(f.ACodec)

	hasVideo := vKnown || (f.VCodec == nil && f.Height != nil && *f.Height > 0)
	hasAudio := aKnown || (f.ACodec == nil && f.ABR != nil && *f.ABR > 0)

	c := entities.EncodingCandidate{
		ID:         f.FormatID,
		HasVideo:   hasVideo,
		HasAudio:   hasAudio,
		VideoCodec: vcodec,
		AudioCodec: acodec,
		Protocol:   f.Protocol,
		Filesize:   f.Filesize,
		Width:      f.Width,
		Height:     f.Height,
		FormatNote: f.FormatNote,
	}
	if f.Language != nil {
		c.Language = *f.Language
	}

	if hasVideo {
		c.Bitrate = firstNonNil(f.TBR, f.VBR)
	} else {
		c.Bitrate = firstNonNil(f.ABR, f.TBR)
	}
	return c
}

// codec returns the codec name and whether the stream exists; "none" marks an absent stream
func codec(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	c := strings.TrimSpace(*v)
	if c == "" || c == "none" {
		return "", false
	}
	return c, true
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
