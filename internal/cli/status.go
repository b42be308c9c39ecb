package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <task-id>",
	Short: "Show the current state of a recognition task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newAPIClient().Status(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("task:   %s\n", status.TaskID)
		fmt.Printf("status: %s\n", status.Status)
		if status.Result != "" {
			fmt.Printf("result:\n%s\n", status.Result)
		}
		if status.Error != "" {
			fmt.Printf("error:  %s\n", status.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
