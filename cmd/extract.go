package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vidgrab/internal/media"
	"vidgrab/internal/subtitle"
	"vidgrab/internal/waterfall"
)

var flagLanguage string

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "List the downloadable formats of a page",
	Args:  cobra.ExactArgs(1),
	RunE:  extractRun,
}

var subtitlesCmd = &cobra.Command{
	Use:   "subtitles <url>",
	Short: "List the caption tracks of a page",
	Args:  cobra.ExactArgs(1),
	RunE:  subtitlesRun,
}

func init() {
	extractCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Output as JSON")
	subtitlesCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Output as JSON")
	subtitlesCmd.Flags().StringVarP(&flagLanguage, "language", "l", "", "Only show tracks for this language code or name")
}

func extractRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pageURL := strings.TrimSpace(args[0])

	resp, err := newOrchestrator(newYtdlp()).Extract(ctx, pageURL)
	recordCLIHistory(ctx, pageURL, resp)
	if err != nil {
		if errors.Is(err, waterfall.ErrExhausted) {
			return errors.New(waterfall.MsgExhausted)
		}
		return fmt.Errorf("extracting: %w", err)
	}

	if wantJSON() {
		return writeJSON(os.Stdout, map[string]any{
			"success": true,
			"method":  resp.Method,
			"data":    resp.Result,
		})
	}

	r := resp.Result
	fmt.Printf("%s\n%s · %s · via %s\n\n", r.Title, r.Platform, r.Uploader, resp.Method)
	fmt.Println(formatTable(r.Formats))
	return nil
}

func formatTable(formats []media.MediaFormat) string {
	rows := make([][]string, 0, len(formats))
	for _, f := range formats {
		rows = append(rows, []string{
			f.FormatID,
			f.Quality,
			f.Container,
			string(f.Kind),
			f.Resolution,
			f.SizeHuman,
		})
	}
	return renderTable(
		[]string{"ID", "Quality", "Ext", "Type", "Resolution", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}

// recordCLIHistory logs a CLI extraction when history is enabled. It never
// fails the command.
func recordCLIHistory(ctx context.Context, pageURL string, resp *waterfall.Response) {
	if pageURL == "" || ctx.Err() != nil {
		return
	}
	store, err := openHistory()
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		return
	}
	if store == nil {
		return
	}
	defer store.Close()

	entry := media.HistoryEntry{URL: pageURL}
	if resp != nil {
		entry.Title = resp.Result.Title
		entry.Method = resp.Method
		entry.FormatCount = len(resp.Result.Formats)
		entry.Succeeded = true
	}
	if _, err := store.Record(ctx, entry); err != nil {
		logger.Warn("recording history failed", zap.Error(err))
	}
}

func subtitlesRun(cmd *cobra.Command, args []string) error {
	report := newSubtitleResolver(newYtdlp()).Resolve(cmd.Context(), strings.TrimSpace(args[0]))
	report = subtitle.Filter(report, flagLanguage)

	if wantJSON() {
		return writeJSON(os.Stdout, map[string]any{"success": true, "data": report})
	}

	fmt.Println(report.Message)
	if !report.Available {
		return nil
	}

	rows := make([][]string, 0, len(report.Tracks))
	for i, t := range report.Tracks {
		rows = append(rows, []string{strconv.Itoa(i + 1), t.Language, t.LanguageName, string(t.Type), t.Format})
	}
	fmt.Println(renderTable(
		[]string{"#", "Code", "Language", "Type", "Format"},
		rows,
		[]columnAlignment{alignRight},
	))
	return nil
}
