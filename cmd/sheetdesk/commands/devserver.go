package commands

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sheetdesk/sheetdesk/internal/core"
	"github.com/sheetdesk/sheetdesk/internal/devserver"
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run the bundled in-memory backend",
	Long: `Serves the sheet API from memory with seeded fixture data, so the
client can be developed and demoed without the real backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := devserver.NewStore()
		server := devserver.NewServer(cfg.DevServer, store)

		slog.Info("entities registered", "count", core.EntityCount())

		// Graceful shutdown
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			slog.Info("shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DevServer.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown error", "error", err)
			}
		}()

		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		slog.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devserverCmd)
}
