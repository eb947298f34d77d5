// Package videoid recognizes source URLs and extracts platform video ids
package videoid

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrNotURL is returned for queries that are not absolute http(s) URLs
var ErrNotURL = errors.New("not an absolute http(s) URL")

// youTubePrefixes are the URL shapes that get a thumbnail card on failure
var youTubePrefixes = []string{
	"https://youtu.be/",
	"https://www.youtube.com/watch",
	"https://youtube.com/watch",
	"https://m.youtube.com/watch",
	"https://youtube.com/shorts/",
	"https://www.youtube.com/shorts/",
}

var looseIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// ParseSourceURL validates a user query as an absolute http(s) URL
func ParseSourceURL(query string) (*url.URL, error) {
	query = strings.TrimSpace(query)
	if query == "" || strings.ContainsAny(query, " \t\n") {
		return nil, ErrNotURL
	}

	u, err := url.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrNotURL
	}
	if u.Hostname() == "" || !strings.Contains(u.Hostname(), ".") {
		return nil, ErrNotURL
	}
	return u, nil
}

// IsYouTubeURL reports whether raw is a YouTube watch, short or youtu.be link
func IsYouTubeURL(raw string) bool {
	for _, prefix := range youTubePrefixes {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	return false
}

// ExtractYouTubeVideoID returns the video id carried by raw
func ExtractYouTubeVideoID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	if v := u.Query().Get("v"); v != "" {
		return v, true
	}

	if normalizeHost(u.Hostname()) == "youtu.be" {
		return firstSegment(strings.TrimPrefix(u.Path, "/"))
	}

	for _, marker := range []string{"/embed/", "/shorts/", "/watch/", "/live/"} {
		if idx := strings.Index(u.Path, marker); idx >= 0 {
			return firstSegment(u.Path[idx+len(marker):])
		}
	}

	if m := looseIDPattern.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	return "", false
}

// ThumbnailURL returns the full-size thumbnail of a YouTube video
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + url.PathEscape(id) + "/0.jpg"
}

// HostMatches reports whether raw's host equals or is a subdomain of any domain
func HostMatches(raw string, domains []string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := normalizeHost(u.Hostname())
	if host == "" {
		return false
	}

	for _, d := range domains {
		d = normalizeHost(d)
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
}

func firstSegment(path string) (string, bool) {
	id, _, _ := strings.Cut(path, "/")
	if id == "" {
		return "", false
	}
	return id, true
}
