// Package subtitle reports the caption tracks published for a page.
package subtitle

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"vidgrab/internal/logging"
	"vidgrab/internal/media"
	"vidgrab/internal/ytdlp"
)

const defaultFormat = "srt"

// CaptionLister is satisfied by *ytdlp.Client.
type CaptionLister interface {
	Captions(ctx context.Context, pageURL string) (*ytdlp.Captions, error)
}

// Resolver builds subtitle reports.
type Resolver struct {
	lister CaptionLister
	logger *zap.Logger
}

func NewResolver(lister CaptionLister, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{lister: lister, logger: logger}
}

// Resolve never fails: lookup errors are folded into the report message.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) media.SubtitleReport {
	captions, err := r.lister.Captions(ctx, pageURL)
	if err != nil {
		logging.FromContext(ctx, r.logger).Warn("caption lookup failed",
			zap.String(logging.FieldURL, pageURL), zap.Error(err))
		return media.SubtitleReport{
			ManualLanguages:    []string{},
			AutomaticLanguages: []string{},
			Tracks:             []media.SubtitleTrack{},
			Message:            fmt.Sprintf("Could not extract subtitles: %v", err),
		}
	}
	return BuildReport(captions)
}

// BuildReport flattens caption maps into a report. Manual tracks come
// first; languages are sorted within each group.
func BuildReport(c *ytdlp.Captions) media.SubtitleReport {
	var manual, automatic map[string][]ytdlp.SubtitleFile
	if c != nil {
		manual, automatic = c.Manual, c.Automatic
	}

	report := media.SubtitleReport{
		ManualLanguages:    sortedKeys(manual),
		AutomaticLanguages: sortedKeys(automatic),
		Tracks:             []media.SubtitleTrack{},
	}
	report.Tracks = appendTracks(report.Tracks, manual, report.ManualLanguages, media.SubtitleManual)
	report.Tracks = appendTracks(report.Tracks, automatic, report.AutomaticLanguages, media.SubtitleAutomatic)

	report.Available = len(manual) > 0 || len(automatic) > 0
	if report.Available {
		report.Message = fmt.Sprintf("Found %d subtitle options", len(report.Tracks))
	} else {
		report.Message = "No subtitles available for this video"
	}
	return report
}

func appendTracks(dst []media.SubtitleTrack, files map[string][]ytdlp.SubtitleFile, langs []string, kind media.SubtitleType) []media.SubtitleTrack {
	for _, lang := range langs {
		name := LanguageName(lang)
		for _, f := range files[lang] {
			ext := f.Ext
			if ext == "" {
				ext = defaultFormat
			}
			dst = append(dst, media.SubtitleTrack{
				Language:     lang,
				LanguageName: name,
				Type:         kind,
				Format:       ext,
				URL:          f.URL,
			})
		}
	}
	return dst
}

func sortedKeys(m map[string][]ytdlp.SubtitleFile) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Filter narrows a report to tracks whose language code or name contains
// language (case-insensitive). An empty language returns the report as is.
func Filter(report media.SubtitleReport, language string) media.SubtitleReport {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return report
	}

	out := report
	out.Tracks = []media.SubtitleTrack{}
	out.ManualLanguages = []string{}
	out.AutomaticLanguages = []string{}
	seen := map[media.SubtitleType]map[string]bool{
		media.SubtitleManual:    {},
		media.SubtitleAutomatic: {},
	}

	for _, t := range report.Tracks {
		if !strings.Contains(strings.ToLower(t.Language), lang) &&
			!strings.Contains(strings.ToLower(t.LanguageName), lang) {
			continue
		}
		out.Tracks = append(out.Tracks, t)
		if seen[t.Type][t.Language] {
			continue
		}
		seen[t.Type][t.Language] = true
		if t.Type == media.SubtitleManual {
			out.ManualLanguages = append(out.ManualLanguages, t.Language)
		} else {
			out.AutomaticLanguages = append(out.AutomaticLanguages, t.Language)
		}
	}

	if !report.Available {
		return out
	}
	out.Available = len(out.Tracks) > 0
	if out.Available {
		out.Message = fmt.Sprintf("Found %d subtitle options", len(out.Tracks))
	} else {
		out.Message = fmt.Sprintf("No subtitles available for language %q", language)
	}
	return out
}
