// Package webpage fetches human-readable titles of source pages
package webpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	pkgerrors "github.com/magicxor/ytdl-inline-bot/pkg/errors"
)

// maxPageBytes bounds how much of a page is scanned for <title>
const maxPageBytes = 1 << 20

// TitleFetcher implements deps.TitleFetcher over HTTP
type TitleFetcher struct {
	client    *http.Client
	userAgent string
}

// NewTitleFetcher creates a fetcher with the given per-request timeout
func NewTitleFetcher(timeout time.Duration, userAgent string) *TitleFetcher {
	return &TitleFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// FetchTitle downloads the page at url, following redirects, and returns its trimmed <title>
func (f *TitleFetcher) FetchTitle(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", pkgerrors.NewValidationError(fmt.Sprintf("invalid page url %q", url))
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", pkgerrors.NewUnavailableError("fetch page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", pkgerrors.NewUnavailableError("fetch page", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	title, err := ExtractTitle(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return title, nil
}

// ExtractTitle returns the text of the first <title> element
func ExtractTitle(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	inTitle := false
	var b strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", pkgerrors.WrapInternalError("parse page", err)
			}
			return "", pkgerrors.NewNotFoundError("page has no title")
		case html.StartTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Title {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				b.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if inTitle && atom.Lookup(name) == atom.Title {
				title := strings.Join(strings.Fields(b.String()), " ")
				if title == "" {
					return "", pkgerrors.NewNotFoundError("page title is empty")
				}
				return title, nil
			}
		}
	}
}
