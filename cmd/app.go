package cmd

import (
	"fmt"

	"vidgrab/internal/browser"
	"vidgrab/internal/config"
	"vidgrab/internal/extract"
	"vidgrab/internal/history"
	"vidgrab/internal/httputil"
	"vidgrab/internal/subtitle"
	"vidgrab/internal/waterfall"
	"vidgrab/internal/ytdlp"
)

// newYtdlp returns the yt-dlp client shared by extraction, subtitles and
// link resolution. Its socket timeout is the network fetch budget.
func newYtdlp() *ytdlp.Client {
	return ytdlp.New(cfg.YtDlpPath, config.Seconds(cfg.FetchTimeout),
		ytdlp.WithLogger(logger.Named("ytdlp")))
}

// newOrchestrator wires the three strategies in priority order.
func newOrchestrator(yt *ytdlp.Client) *waterfall.Orchestrator {
	renderer := browser.New(browser.Options{
		ExecPath:          cfg.ChromePath,
		UserAgent:         cfg.UserAgent,
		NavigationTimeout: config.Seconds(cfg.NavigationTimeout),
		SettleDelay:       config.Seconds(cfg.SettleDelay),
		Logger:            logger.Named("browser"),
	})
	fetcher := httputil.NewFetcher(config.Seconds(cfg.FetchTimeout), cfg.UserAgent)

	strategies := []extract.Strategy{
		extract.NewRichMetadata(yt),
		extract.NewRenderedDOM(renderer),
		extract.NewStaticHTML(fetcher),
	}
	return waterfall.New(strategies, logger.Named("waterfall"), config.Seconds(cfg.StrategyTimeout))
}

func newSubtitleResolver(yt *ytdlp.Client) *subtitle.Resolver {
	return subtitle.NewResolver(yt, logger.Named("subtitle"))
}

// openHistory returns nil when history is disabled in config.
func openHistory() (*history.Store, error) {
	if !cfg.History {
		return nil, nil
	}
	path, err := cfg.ResolveHistoryPath()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return store, nil
}
