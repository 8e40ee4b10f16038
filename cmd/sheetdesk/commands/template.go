package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sheetdesk/sheetdesk/internal/core"
)

var templateOut string

var templateCmd = &cobra.Command{
	Use:   "template <entity>",
	Short: "Download the import template for an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, ok := core.Get(core.EntityKind(args[0]))
		if !ok {
			return fmt.Errorf("unknown entity %q, expected one of: %s", args[0], entityNames())
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		body, err := client.Template(cmd.Context(), def.Kind)
		if err != nil {
			return err
		}
		defer body.Close()

		out := os.Stdout
		if templateOut != "" {
			f, err := os.Create(templateOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		if _, err := io.Copy(out, body); err != nil {
			return fmt.Errorf("write template: %w", err)
		}
		if templateOut != "" {
			fmt.Printf("template written to %s\n", templateOut)
		}
		return nil
	},
}

func init() {
	templateCmd.Flags().StringVarP(&templateOut, "output", "o", "", "write the template to a file instead of stdout")
	rootCmd.AddCommand(templateCmd)
}
