// Package browser renders pages in headless Chrome so that script-inserted
// media elements are visible to the DOM scanner.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"vidgrab/internal/httputil"
)

const (
	defaultNavigationTimeout = 30 * time.Second
	defaultSettleDelay       = 2 * time.Second
)

// Options configures a Chrome renderer. Zero values pick defaults.
type Options struct {
	ExecPath          string
	UserAgent         string
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	Logger            *zap.Logger
}

// Chrome starts a fresh headless browser for every Render call. The browser
// is torn down before Render returns, on every path.
type Chrome struct {
	opts Options
}

// New applies defaults to opts and returns a renderer.
func New(opts Options) *Chrome {
	if opts.UserAgent == "" {
		opts.UserAgent = httputil.DefaultUserAgent
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = defaultNavigationTimeout
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	} else if opts.SettleDelay == 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Chrome{opts: opts}
}

func (c *Chrome) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("mute-audio", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(c.opts.UserAgent),
	)
	if c.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.opts.ExecPath))
	}
	return opts
}

// Render navigates to pageURL, waits for the network to go idle (or, after
// NavigationTimeout, for the document body), lets scripts settle and
// returns the serialized DOM.
func (c *Chrome) Render(ctx context.Context, pageURL string) (string, error) {
	if err := httputil.ValidateURL(pageURL); err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	log := c.opts.Logger.With(zap.String("url", pageURL))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(log.Sugar().Debugf),
	)
	defer cancelTab()

	// The first Run owns the browser process; it must not carry a
	// shorter-lived context or the browser dies with it.
	if err := chromedp.Run(tabCtx); err != nil {
		return "", fmt.Errorf("starting browser: %w", err)
	}

	started := time.Now()
	err := c.navigateUntilIdle(tabCtx, pageURL)
	switch {
	case err == nil:
		log.Debug("network idle", zap.Duration("elapsed", time.Since(started)))
	case ctx.Err() != nil:
		return "", fmt.Errorf("navigating: %w", ctx.Err())
	case errors.Is(err, context.DeadlineExceeded):
		log.Debug("network never idled, waiting for body",
			zap.Duration("timeout", c.opts.NavigationTimeout))
		if err := c.waitForBody(tabCtx); err != nil {
			return "", fmt.Errorf("waiting for document: %w", err)
		}
	default:
		return "", fmt.Errorf("navigating: %w", err)
	}

	var html string
	if err := chromedp.Run(tabCtx,
		chromedp.Sleep(c.opts.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("reading DOM: %w", err)
	}
	return html, nil
}

// waitForBody is the fallback when the network never idles. It gets its own
// NavigationTimeout.
func (c *Chrome) waitForBody(tabCtx context.Context) error {
	waitCtx, cancel := context.WithTimeout(tabCtx, c.opts.NavigationTimeout)
	defer cancel()
	return chromedp.Run(waitCtx, chromedp.WaitReady("body", chromedp.ByQuery))
}

// navigateUntilIdle navigates and blocks until the main frame's new
// document reports networkIdle or NavigationTimeout elapses.
func (c *Chrome) navigateUntilIdle(tabCtx context.Context, pageURL string) error {
	waitCtx, cancel := context.WithTimeout(tabCtx, c.opts.NavigationTimeout)
	defer cancel()

	mainFrame := cdp.FrameID(chromedp.FromContext(tabCtx).Target.TargetID)

	var (
		mu       sync.Mutex
		armed    bool
		loader   cdp.LoaderID
		idle     = make(chan struct{})
		idleOnce sync.Once
	)
	chromedp.ListenTarget(waitCtx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok || e.FrameID != mainFrame {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		switch {
		case !armed:
		case e.Name == "init":
			loader = e.LoaderID
		case e.Name == "networkIdle" && loader != "" && e.LoaderID == loader:
			idleOnce.Do(func() { close(idle) })
		}
	})

	return chromedp.Run(waitCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.ActionFunc(func(context.Context) error {
			mu.Lock()
			armed = true
			mu.Unlock()
			return nil
		}),
		chromedp.Navigate(pageURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-idle:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
	)
}
