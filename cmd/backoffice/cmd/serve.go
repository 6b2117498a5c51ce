package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/regiepress/backoffice/internal/server"
	"github.com/regiepress/backoffice/internal/store"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the back-office HTTP API.

The API provides endpoints for:
  - CRUD under /api/v1 for contacts, invoices, orders, magazines,
    charges and pages
  - GET  /api/v1/invoices/:id/pdf   - Download the invoice PDF
  - GET  /api/v1/orders/:id/pdf     - Download the purchase order PDF
  - POST /api/v1/invoices/:id/einvoice - Dispatch Factur-X generation
  - GET  /health                    - Health check

Examples:
  # Start server on default port
  backoffice serve

  # Start on a custom address in debug mode
  backoffice serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (default from ADDRESS)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 2*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	addr := cfg.Address
	if serverAddr != "" {
		addr = serverAddr
	}

	srv := server.NewServer(&server.Config{
		Address:      addr,
		StorageDir:   cfg.StorageDir,
		AdminKeys:    cfg.AdminKeys,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug || cfg.Debug,
		Seller:       cfg.Seller,
	}, st, logger)

	logger.Info().Str("address", addr).Msg("starting HTTP server")
	return srv.Run()
}
