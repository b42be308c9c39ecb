// Package cli implements the voxcli command tree: submitting audio for
// recognition, polling job status, streaming transcript summaries, and
// managing API keys.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/vox-api/internal/client"
)

var (
	serverURL string
	apiKey    string
)

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

var rootCmd = &cobra.Command{
	Use:   "voxcli",
	Short: "Client for the vox speech recognition API",
	Long: `voxcli submits audio files to a vox API server for asynchronous
speech recognition, polls job status, streams transcript summaries,
and manages the server's API keys.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newAPIClient builds a client from the global flags.
func newAPIClient() *client.Client {
	return client.NewClient(serverURL, apiKey, nil)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server",
		getEnvOrDefault("VOX_SERVER_URL", "http://localhost:14612"),
		"vox API server base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key",
		os.Getenv("VOX_API_KEY"),
		"API key presented in the X-API-Key header")
}
