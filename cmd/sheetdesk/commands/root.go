// Package commands wires the sheetdesk CLI: an interactive browser, plain
// listing, bulk import, template download, and the bundled dev server.
package commands

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sheetdesk/sheetdesk/internal/api"
	"github.com/sheetdesk/sheetdesk/internal/config"
	_ "github.com/sheetdesk/sheetdesk/internal/core/entities" // Register all entities
	"github.com/sheetdesk/sheetdesk/internal/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sheetdesk",
	Short: "Browse and edit sheet-backed records from the terminal",
	Long: `sheetdesk is a terminal console for the sheet backend: browse the
record tables with sorting, filtering, and pagination, add or update
records through schema-driven forms, and bulk-import spreadsheets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env file if it exists (Overload overwrites existing env vars)
		if err := godotenv.Overload(); err == nil {
			slog.Info("loaded .env file (overwriting existing env vars)")
		}

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient builds the API client from the loaded configuration.
func newClient() (*api.Client, error) {
	token, err := cfg.API.ResolveToken()
	if err != nil {
		return nil, err
	}
	return api.New(cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithTokenSource(func() string { return token }),
	), nil
}
