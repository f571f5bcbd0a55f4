package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vidgrab/internal/convert"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported conversion targets",
	Args:  cobra.NoArgs,
	RunE:  formatsRun,
}

func init() {
	formatsCmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "Output as JSON")
}

func formatsRun(cmd *cobra.Command, args []string) error {
	catalogue := convert.Supported()
	if wantJSON() {
		return writeJSON(os.Stdout, map[string]any{"success": true, "data": catalogue})
	}

	high, medium, low := convert.SettingsFor("high"), convert.SettingsFor("medium"), convert.SettingsFor("low")
	rows := make([][]string, 0, len(catalogue.Formats))
	for _, name := range convert.Names() {
		t := catalogue.Formats[name]
		rows = append(rows, []string{name, string(t.Type), t.Codec})
	}
	fmt.Println(renderTable([]string{"Format", "Type", "Codec"}, rows, nil))
	fmt.Printf("Quality: high %s/%s, medium %s/%s, low %s/%s (video/audio)\n",
		high.VideoBitrate, high.AudioBitrate,
		medium.VideoBitrate, medium.AudioBitrate,
		low.VideoBitrate, low.AudioBitrate)
	return nil
}
