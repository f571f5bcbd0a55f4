// Package download streams a resolved media link to disk. Output names are
// sanitized and checked against directory traversal.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"vidgrab/internal/httputil"
	"vidgrab/internal/media"
)

// Progress is called after each chunk with the bytes written so far and the
// expected total (0 when unknown).
type Progress func(written, total int64)

// Options tune a single download.
type Options struct {
	UserAgent string
	Progress  Progress
}

// Download fetches link into outputDir and returns the final path. A partial
// file is removed on failure.
func Download(ctx context.Context, client *http.Client, link *media.DirectLink, outputDir string, opts Options) (string, error) {
	if link == nil || link.URL == "" {
		return "", fmt.Errorf("no direct link to download")
	}

	// Create output directory if needed
	absDir, err := filepath.Abs(outputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	outputPath, err := httputil.SafeDownloadPath(absDir, Filename(link))
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}

	resp, err := httputil.Get(ctx, client, link.URL, opts.UserAgent)
	if err != nil {
		return "", fmt.Errorf("requesting media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media download returned status %d", resp.StatusCode)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = link.FileSize
	}

	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}

	var dst io.Writer = f
	if opts.Progress != nil {
		dst = &progressWriter{w: f, total: max(total, 0), fn: opts.Progress}
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		f.Close()
		os.Remove(outputPath)
		return "", fmt.Errorf("writing media: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("closing output file: %w", err)
	}

	return outputPath, nil
}

// Filename derives the on-disk name for link from its title and container.
func Filename(link *media.DirectLink) string {
	ext := strings.TrimPrefix(strings.ToLower(link.Ext), ".")
	if ext == "" {
		ext = "mp4"
	}
	title := strings.TrimSpace(link.Title)
	if title == "" {
		title = "video"
	}
	return httputil.SanitizeFilename(title + "." + ext)
}

type progressWriter struct {
	w       io.Writer
	written int64
	total   int64
	fn      Progress
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.fn(p.written, p.total)
	return n, err
}
