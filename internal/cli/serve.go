package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pranaysuyash/aiglossarypro-sub009/internal/config"
	"github.com/pranaysuyash/aiglossarypro-sub009/internal/logging"
	"github.com/pranaysuyash/aiglossarypro-sub009/internal/server"
	"github.com/pranaysuyash/aiglossarypro-sub009/internal/store"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the abtest HTTP server.

The server provides:
  - Beacon endpoint for tracking exposures and conversions
  - Results API with significance analysis
  - Health check endpoint

Example:
  abtest serve --port 8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	// Flags win over config and environment
	if port != 0 {
		cfg.Server.Port = port
	}
	if cmd.Flags().Changed("db") {
		cfg.Database.Path = dbPath
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	srv := server.New(s, cfg.Server.Port, cfg.Auth.TokenFile, log)
	return srv.Start()
}
