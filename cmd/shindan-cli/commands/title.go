package commands

import (
	"fmt"

	"shindan-scraper/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(titleCmd)
}

var titleCmd = &cobra.Command{
	Use:   "title <id>",
	Short: "Prints the title and description of a shindan.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		title, description, err := client.GetTitleWithDescription(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to fetch shindan page", err)
		}

		fmt.Println(title)
		if description != "" {
			fmt.Println()
			fmt.Println(description)
		}
	},
}
