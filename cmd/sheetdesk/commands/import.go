package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sheetdesk/sheetdesk/internal/bulkimport"
	"github.com/sheetdesk/sheetdesk/internal/core"
	"github.com/sheetdesk/sheetdesk/internal/modal"
	"github.com/sheetdesk/sheetdesk/internal/notify"
	"github.com/sheetdesk/sheetdesk/internal/tui"
)

var importCmd = &cobra.Command{
	Use:   "import <sheet> <file>",
	Short: "Bulk-import a spreadsheet into one sheet",
	Long: `Uploads an .xls/.xlsx spreadsheet to the bulk endpoint of a sheet kind.
Row-level validation failures reported by the server are printed one per
line; rows before the first failing one are already ingested.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet := core.SheetKind(args[0])
		if _, ok := core.Get(core.EntityKind(sheet)); !ok {
			return fmt.Errorf("unknown sheet %q, expected one of: %s", args[0], entityNames())
		}
		path := args[1]

		client, err := newClient()
		if err != nil {
			return err
		}

		coord := modal.NewCoordinator()
		session, err := bulkimport.NewSession(coord, client, notify.Log{},
			// One-shot run: nothing watches the refresh token, skip the timer.
			bulkimport.WithScheduler(func(time.Duration, func()) {}),
		)
		if err != nil {
			return err
		}

		coord.Open(core.ModalUploadSheet, modal.WithSheet(sheet))
		session.SetFile(bulkimport.File{
			Name: filepath.Base(path),
			MIME: tui.SheetMIME(path),
			Open: func() (io.ReadCloser, error) { return os.Open(path) },
		})

		if err := session.Upload(cmd.Context()); err != nil {
			for _, rowErr := range session.Errors() {
				fmt.Fprintln(os.Stderr, rowErr)
			}
			return err
		}
		fmt.Printf("imported %s into %s\n", filepath.Base(path), sheet)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
