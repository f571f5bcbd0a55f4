// Package extract defines the strategy contract used by the waterfall and
// its three implementations: yt-dlp metadata, a rendered browser DOM and the
// static page HTML.
package extract

import (
	"context"

	"vidgrab/internal/media"
)

// UnknownTitle is reported when a page carries no usable title.
const UnknownTitle = "Unknown Title"

// Strategy is one pluggable extraction method.
type Strategy interface {
	// Method identifies the strategy in responses and logs.
	Method() media.Method

	// Attempt resolves pageURL. Failures are returned inside the Outcome,
	// tagged with one of the package sentinel errors.
	Attempt(ctx context.Context, pageURL string) Outcome
}

// Outcome is the tagged result of one Attempt: either a result or an error.
type Outcome struct {
	Method media.Method
	Result *media.ExtractionResult
	Err    error
}

// Success builds a successful Outcome.
func Success(method media.Method, result *media.ExtractionResult) Outcome {
	return Outcome{Method: method, Result: result}
}

// Failure builds a failed Outcome.
func Failure(method media.Method, err error) Outcome {
	if err == nil {
		err = Wrap(ErrUnsupported, method, "", nil)
	}
	return Outcome{Method: method, Err: err}
}

// OK reports whether the outcome is a Success.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Result != nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
