package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var createKeyAdmin bool

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys (admin)",
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Mint a new API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := newAPIClient().CreateKey(cmd.Context(), createKeyAdmin)
		if err != nil {
			return err
		}
		fmt.Printf("api key: %s\n", created.APIKey)
		fmt.Printf("admin:   %t\n", created.IsAdmin)
		fmt.Println("store this key now; the server only keeps a redacted form in listings")
		return nil
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List keys with usage, redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := newAPIClient().ListKeys(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer func() { _ = w.Flush() }()

		fmt.Fprintln(w, "KEY\tADMIN\tACTIVE\tREQUESTS\tPROCESSING(S)\tLAST USED")
		for _, k := range keys {
			lastUsed := "never"
			if k.Usage.LastUsed != nil {
				lastUsed = k.Usage.LastUsed.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%s\t%t\t%t\t%d\t%.1f\t%s\n",
				k.Prefix, k.IsAdmin, k.IsActive,
				k.Usage.TotalRequests, k.Usage.TotalProcessingSeconds, lastUsed)
		}
		return nil
	},
}

var keysDisableCmd = &cobra.Command{
	Use:   "disable <key>",
	Short: "Disable a key; takes effect on its next request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAPIClient().ToggleKey(cmd.Context(), args[0], false)
	},
}

var keysEnableCmd = &cobra.Command{
	Use:   "enable <key>",
	Short: "Re-enable a disabled key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newAPIClient().ToggleKey(cmd.Context(), args[0], true)
	},
}

func init() {
	keysCreateCmd.Flags().BoolVar(&createKeyAdmin, "admin", false, "grant the new key admin privileges")
	keysCmd.AddCommand(keysCreateCmd, keysListCmd, keysDisableCmd, keysEnableCmd)
	rootCmd.AddCommand(keysCmd)
}
