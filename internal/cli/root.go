package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath  string
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "abtest",
	Short: "Self-hosted A/B experiment tracking and significance analysis",
	Long: `abtest tracks A/B experiment exposures and conversions and tells you,
with a two-proportion z-test, whether a variant actually beats control.

Single Go binary, embedded SQLite, no external dependencies.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("ABTEST_DB_PATH", "./abtest.db"), "database path")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", getEnvOrDefault("ABTEST_CONFIG", ""), "config file path")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
