package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show the current admin API token",
	Long: `Show the admin API token of the running server.

The token is written to a file next to the database on startup. Use it as
a Bearer token or ?token= query param against the /api endpoints.

Example:
  abtest token`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	tokenFile := getTokenFilePath()

	data, err := os.ReadFile(tokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no server running (token file not found)\nStart the server with: abtest serve")
		}
		return fmt.Errorf("failed to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return fmt.Errorf("token file is empty. Restart the server with: abtest serve")
	}

	fmt.Printf("Admin token: %s\n", token)
	return nil
}

// getTokenFilePath returns the path to the token file, stored alongside
// the database.
func getTokenFilePath() string {
	dir := filepath.Dir(dbPath)
	return filepath.Join(dir, ".abtest-token")
}
