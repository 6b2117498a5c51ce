package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/regiepress/backoffice/internal/config"
)

var (
	version = "1.0.0"

	verbose bool

	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Back office d'une régie publicitaire presse",
	Long: `Backoffice manages the records of a small press ad-sales agency:
contacts, invoices, purchase orders, magazines, recurring charges and
site pages. Invoices can be rendered to PDF and sent as Factur-X
(EN 16931) hybrid e-invoices.

Examples:
  # Start the HTTP API
  backoffice serve

  # Render invoice 12 to a PDF file
  backoffice invoice-pdf 12 -o facture.pdf

  # Build and verify a Factur-X document
  backoffice facturx generate 12 -o facture-fx.pdf
  backoffice facturx verify facture-fx.pdf`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env is optional; explicit environment always wins
	_ = godotenv.Load()

	cfg = config.Load()

	level := zerolog.InfoLevel
	if verbose || cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
