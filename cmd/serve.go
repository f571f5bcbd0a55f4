package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vidgrab/internal/server"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  serveRun,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default from config, :8001)")
}

func serveRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	yt := newYtdlp()
	deps := server.Deps{
		Extractor: newOrchestrator(yt),
		Subtitles: newSubtitleResolver(yt),
		Links:     yt,
		Logger:    logger.Named("api"),
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		deps.History = store
		logger.Info("history enabled", zap.String("path", store.Path()))
	}

	srv := server.New(deps, server.Options{
		Prefix:      cfg.APIPrefix,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		Version:     Version,
	})
	if err := srv.Run(ctx, cfg.Listen); err != nil {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}
