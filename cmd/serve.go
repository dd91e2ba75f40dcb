package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cardiorisk/cardiorisk/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve assessments over HTTP.",
	Long: `Start an HTTP server with the following routes:

  POST /api/v1/assess   assess one patient (JSON object keyed by field name)
  GET  /api/v1/schema   input fields and model description
  GET  /api/v1/health   liveness and loaded model id
  GET  /metrics         Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM.

Examples:
  cardiorisk serve --listen :8080 --model model.crm
  CARDIORISK_HISTORY_BACKEND=sqlite cardiorisk serve`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.StartServer(ctx, cfg, storeManager)
	},
}
