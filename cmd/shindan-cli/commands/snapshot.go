package commands

import (
	"fmt"
	"log/slog"
	"os"

	"shindan-scraper/lib/serviceutil"

	"github.com/spf13/cobra"
)

var snapshotOut *string

func init() {
	snapshotOut = snapshotCmd.Flags().StringP(
		"out", "o", "",
		"The file to write the snapshot to, defaults to shindan_<id>.html.",
	)
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <id> [name] [--out <path/to/output.html>]",
	Short: "Runs a shindan and writes its result page to a standalone html file.",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		document, title, err := client.GetHTMLWithTitle(
			cmd.Context(), args[0], resolveName(args),
		)
		if err != nil {
			serviceutil.Fatal("failed to run shindan", err)
		}

		out := *snapshotOut
		if out == "" {
			out = fmt.Sprintf("shindan_%s.html", args[0])
		}
		if _, err := os.Stat(out); err == nil {
			slog.Warn("overwriting existing snapshot", "path", out)
		}

		err = os.WriteFile(out, []byte(document), 0644)
		if err != nil {
			serviceutil.Fatal("failed to write snapshot", err)
		}
		slog.Info("snapshot written", "title", title, "path", out)
	},
}
