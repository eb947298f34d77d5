package ytdlp

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
)

// CookieJar is a decoded cookie blob stored in a private temp file for the process lifetime
type CookieJar struct {
	path string
	once sync.Once
}

// NewCookieJar decodes blob and writes it to a temp file.
// An empty blob yields a nil jar and no error.
func NewCookieJar(blob string) (*CookieJar, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, nil
	}

	content, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("ytdlp: decode cookies: %w", err)
	}

	path, err := createTempCookiesFile(content)
	if err != nil {
		return nil, fmt.Errorf("ytdlp: write cookies: %w", err)
	}

	return &CookieJar{path: path}, nil
}

// Path returns the cookie file path, empty for a nil jar
func (j *CookieJar) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

// Close removes the cookie file
func (j *CookieJar) Close() error {
	if j == nil {
		return nil
	}
	var err error
	j.once.Do(func() {
		if rmErr := os.Remove(j.path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = rmErr
		}
	})
	return err
}

func createTempCookiesFile(content []byte) (string, error) {
	tmpFile, err := os.CreateTemp("", "ytdlp-cookies-*.txt")
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	if err := tmpFile.Chmod(0o600); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}

	if _, err := tmpFile.Write(content); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}

	return tmpFile.Name(), nil
}
