package commands

import (
	"github.com/spf13/cobra"

	"github.com/sheetdesk/sheetdesk/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive table browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return tui.Run(cfg, client)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
