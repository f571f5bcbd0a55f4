package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vidgrab/internal/history"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent extractions",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", history.DefaultLimit, "Number of entries to show")
	historyCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Output as JSON")
}

func historyRun(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	if store == nil {
		fmt.Println("History is disabled (set history = true in the config file).")
		return nil
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), flagLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if wantJSON() {
		return writeJSON(os.Stdout, entries)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := "failed"
		if e.Succeeded {
			status = string(e.Method)
		}
		rows = append(rows, []string{
			humanize.Time(e.CreatedAt),
			e.Title,
			status,
			strconv.Itoa(e.FormatCount),
			e.URL,
		})
	}
	fmt.Println(renderTable(
		[]string{"When", "Title", "Method", "Formats", "URL"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}
