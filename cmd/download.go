package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vidgrab/internal/config"
	"vidgrab/internal/download"
	"vidgrab/internal/httputil"
)

var (
	flagFormatID string
	flagOutput   string
)

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download one format of a page",
	Args:  cobra.ExactArgs(1),
	RunE:  downloadRun,
}

func init() {
	downloadCmd.Flags().StringVarP(&flagFormatID, "format-id", "f", "best", "Format ID from `vidgrab extract`")
	downloadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output directory (default from config)")
}

func downloadRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pageURL := strings.TrimSpace(args[0])
	if err := httputil.ValidateURL(pageURL); err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if err := httputil.ValidateFormatID(flagFormatID); err != nil {
		return err
	}

	outputDir := flagOutput
	if outputDir == "" {
		dir, err := cfg.ExpandDownloadDir()
		if err != nil {
			return err
		}
		outputDir = dir
	}

	link, err := newYtdlp().Resolve(ctx, pageURL, flagFormatID)
	if err != nil {
		return err
	}
	logger.Debug("resolved direct link", zap.String("format_id", flagFormatID), zap.String("ext", link.Ext))

	client := httputil.NewStreamingClient(config.Seconds(cfg.FetchTimeout))

	var lastPrint time.Time
	path, err := download.Download(ctx, client, link, outputDir, download.Options{
		UserAgent: cfg.UserAgent,
		Progress: func(written, total int64) {
			if time.Since(lastPrint) < 500*time.Millisecond {
				return
			}
			lastPrint = time.Now()
			if total > 0 {
				fmt.Fprintf(os.Stderr, "\r%s / %s", humanize.Bytes(uint64(written)), humanize.Bytes(uint64(total)))
			} else {
				fmt.Fprintf(os.Stderr, "\r%s", humanize.Bytes(uint64(written)))
			}
		},
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("downloading: %w", err)
	}

	fmt.Printf("Saved to %s\n", path)
	return nil
}
