package commands

import (
	"fmt"
	"os"

	"shindan-scraper/lib/serviceutil"
	"shindan-scraper/lib/shindan"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(segmentsCmd)
}

var segmentsCmd = &cobra.Command{
	Use:   "segments <id> [name]",
	Short: "Runs a shindan and prints its result segments.",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		segments, title, err := client.GetSegmentsWithTitle(
			cmd.Context(), args[0], resolveName(args),
		)
		if err != nil {
			serviceutil.Fatal("failed to run shindan", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle(title)
		t.AppendHeader(table.Row{"#", "Type", "Content"})

		for i, segment := range segments {
			content := segment.Text
			if segment.Type == shindan.SegmentImage {
				content = segment.URL
			}
			t.AppendRow(table.Row{i + 1, segment.Type, content})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()

		fmt.Println()
		fmt.Println(segments.String())
	},
}
