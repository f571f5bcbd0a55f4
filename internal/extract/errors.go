package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vidgrab/internal/media"
)

var (
	ErrUnsupported    = errors.New("unsupported or unavailable")
	ErrTimeout        = errors.New("timeout")
	ErrNoMediaFound   = errors.New("no media found")
	ErrMalformedInput = errors.New("malformed input")
)

// Wrap tags err with one of the sentinel markers above, prefixed with the
// strategy and operation for diagnostics.
func Wrap(marker error, method media.Method, message string, err error) error {
	if marker == nil {
		marker = ErrUnsupported
	}
	parts := make([]string, 0, 2)
	if method != "" {
		parts = append(parts, string(method))
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "extraction failure"
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short label for the failure class of err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedInput):
		return "malformed-input"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNoMediaFound):
		return "no-media-found"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "unknown"
	}
}

// classify converts a capability error into the taxonomy. Deadline overruns
// become ErrTimeout regardless of fallback.
func classify(ctx context.Context, err error, fallback error, method media.Method, message string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return Wrap(ErrTimeout, method, message, err)
	}
	return Wrap(fallback, method, message, err)
}
