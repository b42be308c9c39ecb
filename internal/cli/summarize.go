package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/vox-api/internal/client"
	"github.com/phrazzld/vox-api/internal/config"
	"github.com/phrazzld/vox-api/internal/platform/gemini"
	"github.com/phrazzld/vox-api/internal/summary"
)

var (
	summarizeInstruction string
	summarizeModel       string
	summarizeOutput      string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <transcript-file>",
	Short: "Stream an LLM summary of a transcript",
	Long: `Reads a transcript file and streams a summary to stdout as the model
generates it. Requires GEMINI_API_KEY in the environment. Ctrl-C
cancels the stream cleanly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read transcript: %w", err)
		}

		generator, err := gemini.NewStreamGenerator(cmd.Context(), quietLogger(), config.LLM{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			ModelName:    summarizeModel,
		})
		if err != nil {
			return err
		}

		runner := summary.NewRunner(generator, quietLogger())
		defer runner.Stop()

		events, err := runner.Start(cmd.Context(), string(raw), summarizeInstruction)
		if err != nil {
			return err
		}

		for ev := range events {
			switch ev.Kind {
			case summary.EventChunk:
				fmt.Print(ev.Text)
			case summary.EventError:
				fmt.Println()
				return ev.Err
			case summary.EventFinished:
				fmt.Println()
				if summarizeOutput != "" {
					path, err := client.SaveSummary(".", summarizeOutput, ev.Text)
					if err != nil {
						return err
					}
					fmt.Printf("summary saved to %s\n", path)
				}
			}
		}
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeInstruction, "instruction", "", "override the default summarization prompt")
	summarizeCmd.Flags().StringVar(&summarizeModel, "model", "gemini-2.0-flash", "model name for summary generation")
	summarizeCmd.Flags().StringVar(&summarizeOutput, "output", "", "write the finished summary to this path")
	rootCmd.AddCommand(summarizeCmd)
}
