// Package waterfall tries extraction strategies in a fixed order and returns
// the first one that yields at least one format.
package waterfall

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vidgrab/internal/extract"
	"vidgrab/internal/logging"
	"vidgrab/internal/media"
)

// ErrExhausted is returned when no strategy produced a format. Per-strategy
// causes are only logged.
var ErrExhausted = errors.New("all extraction strategies failed")

// MsgExhausted is the user-facing text for ErrExhausted.
const MsgExhausted = "Could not extract video from this URL. The platform may not be supported or the URL is invalid."

// State tracks one Extract call.
type State int

const (
	NotStarted State = iota
	TryingStrategy
	Succeeded
	Exhausted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case TryingStrategy:
		return "trying"
	case Succeeded:
		return "succeeded"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Attempt records how one strategy fared.
type Attempt struct {
	Method  media.Method  `json:"method"`
	Outcome string        `json:"outcome"`
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Response is the result of a successful Extract.
type Response struct {
	Method   media.Method            `json:"method"`
	Result   *media.ExtractionResult `json:"data"`
	Attempts []Attempt               `json:"attempts"`
}

// Orchestrator owns an ordered strategy list.
type Orchestrator struct {
	strategies     []extract.Strategy
	logger         *zap.Logger
	attemptTimeout time.Duration
}

// New returns an Orchestrator. attemptTimeout bounds each strategy; zero
// leaves attempts bounded only by the caller's context.
func New(strategies []extract.Strategy, logger *zap.Logger, attemptTimeout time.Duration) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		strategies:     strategies,
		logger:         logger,
		attemptTimeout: attemptTimeout,
	}
}

// Methods lists the strategy order.
func (o *Orchestrator) Methods() []media.Method {
	out := make([]media.Method, len(o.strategies))
	for i, s := range o.strategies {
		out[i] = s.Method()
	}
	return out
}

// Extract runs strategies in order. It returns the first result that has at
// least one format, ctx.Err() if ctx ends first, extract.ErrMalformedInput
// for a blank URL and ErrExhausted otherwise. A strategy that succeeds with
// no formats counts as a failure and the next one is tried.
func (o *Orchestrator) Extract(ctx context.Context, pageURL string) (*Response, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, extract.Wrap(extract.ErrMalformedInput, "", "URL is required", nil)
	}

	log := logging.FromContext(ctx, o.logger).With(zap.String(logging.FieldURL, pageURL))
	state := NotStarted
	attempts := make([]Attempt, 0, len(o.strategies))

	for _, s := range o.strategies {
		if err := ctx.Err(); err != nil {
			log.Info("extraction cancelled", zap.Stringer("state", state), zap.Error(err))
			return nil, err
		}
		state = TryingStrategy

		started := time.Now()
		out := o.attempt(ctx, s, pageURL)
		a := Attempt{Method: s.Method(), Elapsed: time.Since(started)}

		switch {
		case out.OK() && len(out.Result.Formats) > 0:
			a.Outcome = "success"
			attempts = append(attempts, a)
			state = Succeeded
			log.Info("extraction succeeded",
				zap.Stringer(logging.FieldMethod, s.Method()),
				zap.Int("formats", len(out.Result.Formats)),
				zap.Duration("elapsed", a.Elapsed))
			return &Response{Method: s.Method(), Result: out.Result, Attempts: attempts}, nil
		case out.Err == nil:
			a.Outcome = "empty"
		default:
			a.Outcome = extract.Kind(out.Err)
			a.Error = out.Err.Error()
		}
		attempts = append(attempts, a)

		if err := ctx.Err(); err != nil {
			log.Info("extraction cancelled", zap.Stringer(logging.FieldMethod, s.Method()), zap.Error(err))
			return nil, err
		}
		log.Warn("strategy failed",
			zap.Stringer(logging.FieldMethod, s.Method()),
			zap.String("outcome", a.Outcome),
			zap.String("error", a.Error),
			zap.Duration("elapsed", a.Elapsed))
	}

	state = Exhausted
	log.Warn("all strategies failed", zap.Stringer("state", state), zap.Int("attempts", len(attempts)))
	return nil, ErrExhausted
}

func (o *Orchestrator) attempt(ctx context.Context, s extract.Strategy, pageURL string) extract.Outcome {
	if o.attemptTimeout <= 0 {
		return s.Attempt(ctx, pageURL)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()
	return s.Attempt(attemptCtx, pageURL)
}
