package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vidgrab/internal/convert"
	"vidgrab/internal/extract"
	"vidgrab/internal/httputil"
	"vidgrab/internal/logging"
	"vidgrab/internal/media"
	"vidgrab/internal/subtitle"
	"vidgrab/internal/waterfall"
)

// statusClientClosed is logged when the caller went away mid-request.
const statusClientClosed = 499

const msgURLRequired = "URL is required"

type urlRequest struct {
	URL string `json:"url"`
}

type downloadRequest struct {
	URL      string `json:"url"`
	FormatID string `json:"format_id"`
}

type subtitleRequest struct {
	URL      string `json:"url"`
	Language string `json:"language"`
}

type convertRequest struct {
	URL     string `json:"url"`
	Format  string `json:"format"`
	Quality string `json:"quality"`
}

func writeError(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"success": false, "detail": detail})
}

func writeData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// bind decodes a JSON body into dst, replying 400 on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) log(c *gin.Context) *zap.Logger {
	return logging.FromContext(c.Request.Context(), s.deps.Logger)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "vidgrab Video Downloader API",
		"version": s.opts.Version,
		"status":  "operational",
		"features": []string{
			"Multi-level extraction (yt-dlp, headless Chrome, static HTML)",
			"1000+ platforms supported",
			"Multiple quality options",
			"Direct download links",
			"No API keys required",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "video-downloader-api",
		"version": s.opts.Version,
	})
}

func (s *Server) handleExtract(c *gin.Context) {
	var req urlRequest
	if !bind(c, &req) {
		return
	}
	pageURL := strings.TrimSpace(req.URL)
	if pageURL == "" {
		writeError(c, http.StatusBadRequest, msgURLRequired)
		return
	}

	ctx := c.Request.Context()
	s.log(c).Info("extracting", zap.String(logging.FieldURL, pageURL))
	resp, err := s.deps.Extractor.Extract(ctx, pageURL)

	switch {
	case err == nil:
		s.record(ctx, media.HistoryEntry{
			URL:         pageURL,
			Title:       resp.Result.Title,
			Method:      resp.Method,
			FormatCount: len(resp.Result.Formats),
			Succeeded:   true,
		})
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"method":  resp.Method,
			"data":    resp.Result,
		})
	case errors.Is(err, extract.ErrMalformedInput):
		writeError(c, http.StatusBadRequest, msgURLRequired)
	case errors.Is(err, waterfall.ErrExhausted):
		s.record(ctx, media.HistoryEntry{URL: pageURL})
		writeError(c, http.StatusBadRequest, waterfall.MsgExhausted)
	case errors.Is(err, context.Canceled):
		s.log(c).Info("client went away", zap.Error(err))
		c.AbortWithStatus(statusClientClosed)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusGatewayTimeout, "Extraction timed out")
	default:
		s.log(c).Error("extraction failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "Extraction failed")
	}
}

// record writes a history entry when the store is enabled. Failures are
// logged and never affect the response.
func (s *Server) record(ctx context.Context, entry media.HistoryEntry) {
	if s.deps.History == nil {
		return
	}
	// The entry is still worth keeping if the client hung up.
	if _, err := s.deps.History.Record(context.WithoutCancel(ctx), entry); err != nil {
		logging.FromContext(ctx, s.deps.Logger).Warn("recording history failed", zap.Error(err))
	}
}

func (s *Server) handleDownload(c *gin.Context) {
	var req downloadRequest
	if !bind(c, &req) {
		return
	}
	pageURL := strings.TrimSpace(req.URL)
	if pageURL == "" {
		writeError(c, http.StatusBadRequest, msgURLRequired)
		return
	}
	formatID := strings.TrimSpace(req.FormatID)
	if formatID == "" {
		formatID = "best"
	}
	if err := httputil.ValidateFormatID(formatID); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	link, err := s.deps.Links.Resolve(c.Request.Context(), pageURL, formatID)
	if err != nil {
		s.log(c).Warn("download link failed",
			zap.String(logging.FieldURL, pageURL), zap.String("format_id", formatID), zap.Error(err))
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeData(c, link)
}

func (s *Server) handleSubtitles(c *gin.Context) {
	var req subtitleRequest
	if !bind(c, &req) {
		return
	}
	pageURL := strings.TrimSpace(req.URL)
	if pageURL == "" {
		writeError(c, http.StatusBadRequest, msgURLRequired)
		return
	}

	s.log(c).Info("extracting subtitles", zap.String(logging.FieldURL, pageURL))
	report := s.deps.Subtitles.Resolve(c.Request.Context(), pageURL)
	writeData(c, subtitle.Filter(report, req.Language))
}

func (s *Server) handleFormats(c *gin.Context) {
	writeData(c, convert.Supported())
}

func (s *Server) handleConvert(c *gin.Context) {
	var req convertRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(c, http.StatusBadRequest, msgURLRequired)
		return
	}

	plan, err := convert.NewPlan(req.Format, req.Quality)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeData(c, plan)
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.deps.History == nil {
		writeError(c, http.StatusNotFound, "History is disabled")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := s.deps.History.Recent(c.Request.Context(), limit)
	if err != nil {
		s.log(c).Error("reading history failed", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "Could not read history")
		return
	}
	writeData(c, entries)
}
