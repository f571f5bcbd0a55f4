// Package ytdlp wraps the yt-dlp binary as a metadata lookup capability.
// Every invocation is bounded by a context and dumps JSON only; nothing is
// ever downloaded by this package.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"vidgrab/internal/media"
)

// Runner executes a command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExitError carries the trimmed stderr of a failed yt-dlp run.
type ExitError struct {
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Stderr)
}

func (e *ExitError) Unwrap() error { return e.Err }

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, &ExitError{Stderr: lastLine(stderr.String()), Err: err}
	}
	return out, nil
}

// Client invokes yt-dlp.
type Client struct {
	path    string
	timeout time.Duration
	runner  Runner
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// WithLogger attaches a logger for command tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the binary at path (looked up in PATH when bare).
// timeout bounds both the socket timeout handed to yt-dlp and the process.
func New(path string, timeout time.Duration, opts ...Option) *Client {
	if path == "" {
		path = "yt-dlp"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{path: path, timeout: timeout, runner: execRunner{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Info returns the full metadata document for a page.
func (c *Client) Info(ctx context.Context, pageURL string) (*Info, error) {
	return c.dump(ctx, pageURL)
}

// Captions returns only the subtitle maps for a page.
func (c *Client) Captions(ctx context.Context, pageURL string) (*Captions, error) {
	info, err := c.dump(ctx, pageURL, "--skip-download")
	if err != nil {
		return nil, err
	}
	return &Captions{Manual: info.Subtitles, Automatic: info.AutomaticCaptions}, nil
}

// Resolve selects a single format and returns its direct link.
func (c *Client) Resolve(ctx context.Context, pageURL, formatID string) (*media.DirectLink, error) {
	if strings.TrimSpace(formatID) == "" {
		formatID = "best"
	}
	info, err := c.dump(ctx, pageURL, "-f", formatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get download URL: %w", err)
	}

	link := &media.DirectLink{
		URL:      info.URL,
		Title:    info.Title,
		Ext:      info.Ext,
		FileSize: info.FileSize,
	}
	if link.URL == "" && len(info.RequestedFormats) > 0 {
		first := info.RequestedFormats[0]
		link.URL = first.URL
		if link.FileSize == 0 {
			link.FileSize = first.FileSize
		}
	}
	if link.Ext == "" {
		link.Ext = "mp4"
	}
	if link.URL == "" {
		return nil, errors.New("failed to get download URL: no direct link for format " + formatID)
	}
	return link, nil
}

func (c *Client) dump(ctx context.Context, pageURL string, extra ...string) (*Info, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout+5*time.Second)
	defer cancel()

	args := []string{
		"-J",
		"--no-playlist",
		"--no-warnings",
		"--socket-timeout", strconv.Itoa(int(c.timeout.Seconds())),
	}
	args = append(args, extra...)
	args = append(args, "--", pageURL)

	c.logger.Debug("running yt-dlp", zap.String("binary", c.path), zap.Strings("args", args))
	out, err := c.runner.Run(ctx, c.path, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("yt-dlp: %w", ctxErr)
		}
		return nil, fmt.Errorf("yt-dlp: %w", err)
	}

	var info Info
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("parsing yt-dlp output: %w", err)
	}
	return &info, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx != -1 {
		s = s[idx+1:]
	}
	return s
}
