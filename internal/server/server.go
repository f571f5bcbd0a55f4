// Package server exposes extraction, subtitles, download links and
// conversion plans over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vidgrab/internal/media"
	"vidgrab/internal/waterfall"
)

// Extractor runs the strategy waterfall.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (*waterfall.Response, error)
}

// SubtitleResolver builds caption reports; it never fails.
type SubtitleResolver interface {
	Resolve(ctx context.Context, pageURL string) media.SubtitleReport
}

// LinkResolver resolves one format of a page to a direct link.
type LinkResolver interface {
	Resolve(ctx context.Context, pageURL, formatID string) (*media.DirectLink, error)
}

// HistoryStore records extraction attempts.
type HistoryStore interface {
	Record(ctx context.Context, entry media.HistoryEntry) (media.HistoryEntry, error)
	Recent(ctx context.Context, limit int) ([]media.HistoryEntry, error)
}

// Deps are the collaborators behind the handlers. History may be nil.
type Deps struct {
	Extractor Extractor
	Subtitles SubtitleResolver
	Links     LinkResolver
	History   HistoryStore
	Logger    *zap.Logger
}

// Options shape the HTTP surface.
type Options struct {
	Prefix      string
	CORSOrigins []string
	RateLimit   float64
	RateBurst   int
	Version     string
}

// Server is the HTTP front end.
type Server struct {
	deps   Deps
	opts   Options
	engine *gin.Engine
}

// New builds the router.
func New(deps Deps, opts Options) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if opts.Prefix == "" {
		opts.Prefix = "/api"
	}
	opts.Prefix = "/" + strings.Trim(opts.Prefix, "/")
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{deps: deps, opts: opts}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(
		requestContext(s.deps.Logger),
		recovery(),
		cors(s.opts.CORSOrigins),
	)
	router.NoRoute(func(c *gin.Context) { writeError(c, http.StatusNotFound, "Not Found") })

	limiter := newIPLimiter(s.opts.RateLimit, s.opts.RateBurst)

	api := router.Group(s.opts.Prefix)
	{
		api.GET("/", s.handleRoot)
		api.GET("/health", s.handleHealth)
		api.GET("/formats", s.handleFormats)
		api.GET("/history", s.handleHistory)
	}
	limited := api.Group("", rateLimit(limiter))
	{
		limited.POST("/extract", s.handleExtract)
		limited.POST("/download", s.handleDownload)
		limited.POST("/subtitles", s.handleSubtitles)
		limited.POST("/convert", s.handleConvert)
	}
	return router
}

// Handler returns the router for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Extraction may launch a browser; the write deadline has to cover
		// the whole waterfall.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.deps.Logger.Info("api server listening",
		zap.String("address", listener.Addr().String()),
		zap.String("prefix", s.opts.Prefix))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.deps.Logger.Info("api server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown: %w", err)
	}
	return nil
}
