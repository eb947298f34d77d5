// Package ytdlp wraps the yt-dlp executable
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// ExecError describes a failed yt-dlp invocation
type ExecError struct {
	Cmd      string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Cause    error
}

func (e *ExecError) Error() string {
	cmdline := strings.TrimSpace(e.Cmd + " " + strings.Join(e.Args, " "))
	if e.ExitCode != 0 {
		return fmt.Sprintf("ytdlp: command failed (exit %d): %s", e.ExitCode, cmdline)
	}
	return fmt.Sprintf("ytdlp: command failed: %s", cmdline)
}

func (e *ExecError) Unwrap() error { return e.Cause }

// StderrTail returns the last non-empty stderr line, usually the yt-dlp ERROR message
func (e *ExecError) StderrTail() string {
	lines := strings.Split(e.Stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// Auth is the optional authentication context attached to a call
type Auth struct {
	CookiesFile string
	UserAgent   string
}

// Empty reports whether the auth context carries nothing
func (a *Auth) Empty() bool {
	return a == nil || (a.CookiesFile == "" && a.UserAgent == "")
}

func (a *Auth) args() []string {
	if a.Empty() {
		return nil
	}
	var args []string
	if a.CookiesFile != "" {
		args = append(args, "--cookies", a.CookiesFile)
	}
	if a.UserAgent != "" {
		args = append(args, "--user-agent", a.UserAgent)
	}
	return args
}

type execFunc func(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)

// Client runs yt-dlp commands
type Client struct {
	// Path to yt-dlp executable. Defaults to "yt-dlp" (PATH lookup).
	Path string

	// ExtraArgs are always appended before per-call args.
	ExtraArgs []string

	logger zerolog.Logger
	execFn execFunc
}

// New creates a client for the executable at path
func New(path string, logger zerolog.Logger) *Client {
	return &Client{Path: path, logger: logger}
}

// PathOrDefault returns the configured path or "yt-dlp" if unset.
func (c *Client) PathOrDefault() string {
	if strings.TrimSpace(c.Path) == "" {
		return "yt-dlp"
	}
	return c.Path
}

func (c *Client) exec(ctx context.Context, auth *Auth, args ...string) ([]byte, []byte, error) {
	name := c.PathOrDefault()

	fullArgs := make([]string, 0, len(c.ExtraArgs)+len(args)+4)
	fullArgs = append(fullArgs, c.ExtraArgs...)
	fullArgs = append(fullArgs, auth.args()...)
	fullArgs = append(fullArgs, args...)

	c.logger.Debug().
		Str("cmd", name).
		Strs("args", redact(fullArgs)).
		Bool("authenticated", !auth.Empty()).
		Msg("Executing yt-dlp")

	if c.execFn != nil {
		return c.execFn(ctx, name, fullArgs...)
	}

	cmd := exec.CommandContext(ctx, name, fullArgs...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

// Version returns `yt-dlp --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	args := []string{"--version"}
	stdout, stderr, err := c.exec(ctx, nil, args...)
	if err != nil {
		return "", wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}
	return strings.TrimSpace(string(stdout)), nil
}

// HealthCheck reports whether the executable answers --version
func (c *Client) HealthCheck(ctx context.Context) bool {
	_, err := c.Version(ctx)
	return err == nil
}

// GetInfo runs yt-dlp in metadata only mode and parses its JSON output.
// It uses: --dump-single-json --skip-download --no-playlist
func (c *Client) GetInfo(ctx context.Context, url string, auth *Auth) (*Info, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("ytdlp: url is required")
	}

	args := []string{"--dump-single-json", "--skip-download", "--no-playlist", "--no-warnings", url}

	stdout, stderr, err := c.exec(ctx, auth, args...)
	if err != nil {
		return nil, wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}

	info := &Info{}
	if err := json.Unmarshal(bytes.TrimSpace(stdout), info); err != nil {
		return nil, fmt.Errorf("ytdlp: parse json: %w", err)
	}

	return info, nil
}

// Download fetches the streams selected by formatSpec and merges them into outputPath as mp4.
func (c *Client) Download(ctx context.Context, url, formatSpec, outputPath string, auth *Auth) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("ytdlp: url is required")
	}
	if strings.TrimSpace(formatSpec) == "" {
		return fmt.Errorf("ytdlp: format is required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return fmt.Errorf("ytdlp: output path is required")
	}

	args := []string{
		"--format", formatSpec,
		"--merge-output-format", "mp4",
		"--output", outputPath,
		"--no-playlist",
		"--no-progress",
		"--no-colors",
		"--quiet",
		url,
	}

	stdout, stderr, err := c.exec(ctx, auth, args...)
	if err != nil {
		return wrapExecError(c.PathOrDefault(), args, stdout, stderr, err)
	}
	return nil
}

func wrapExecError(cmd string, args []string, stdout []byte, stderr []byte, cause error) error {
	exitCode := 0
	var ee *exec.ExitError
	if errors.As(cause, &ee) {
		exitCode = ee.ExitCode()
	}

	return &ExecError{
		Cmd:      cmd,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   strings.TrimSpace(string(stdout)),
		Stderr:   strings.TrimSpace(string(stderr)),
		Cause:    cause,
	}
}

// redact hides the user agent value from logs
func redact(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "--user-agent" {
			out[i+1] = "<redacted>"
		}
	}
	return out
}
