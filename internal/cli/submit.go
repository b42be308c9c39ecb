package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/vox-api/internal/client"
)

var (
	submitLanguage string
	submitFinal    bool
	submitWait     bool
	submitOutput   string
	pollInterval   time.Duration
)

var submitCmd = &cobra.Command{
	Use:   "submit <audio-file>",
	Short: "Submit an audio file for recognition",
	Long: `Uploads an audio file and prints the accepted task id. With --wait
the command polls until the job finishes and prints the transcript;
--output saves it to a file as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := client.NewManager(newAPIClient(), pollInterval, quietLogger())

		taskID, err := manager.Submit(cmd.Context(), args[0], submitLanguage, submitFinal)
		if err != nil {
			return fmt.Errorf("submission failed: %w", err)
		}
		fmt.Printf("task accepted: %s\n", taskID)

		if !submitWait {
			return nil
		}

		fmt.Println("waiting for result...")
		text, err := manager.WaitForResult(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(text)

		if submitOutput != "" || submitFinal {
			path, err := client.SaveTranscript(".", submitOutput, text)
			if err != nil {
				return err
			}
			fmt.Printf("transcript saved to %s\n", path)
		}
		return nil
	},
}

// quietLogger keeps client internals out of CLI stdout.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func init() {
	submitCmd.Flags().StringVar(&submitLanguage, "language", "", "hint for the recognition language")
	submitCmd.Flags().BoolVar(&submitFinal, "final", false, "keep the uploaded audio on the server and retain the record longer")
	submitCmd.Flags().BoolVar(&submitWait, "wait", false, "poll until the job reaches a terminal state")
	submitCmd.Flags().StringVar(&submitOutput, "output", "", "write the transcript to this path")
	submitCmd.Flags().DurationVar(&pollInterval, "poll-interval", client.DefaultPollInterval, "status polling interval with --wait")
	rootCmd.AddCommand(submitCmd)
}
