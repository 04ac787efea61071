package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/engine"
)

var implementInput string

var implementCmd = &cobra.Command{
	Use:   "implement",
	Short: "Apply task updates and write an implementation report",
	Long: `Apply task status updates from the payload, append a progress
snapshot to the project history and write a markdown report under
reports/. Without --input, just snapshots current progress.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var input engine.ImplementInput
		if implementInput != "" {
			data, err := readInputFile(implementInput)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("parsing implementation payload %s: %w", implementInput, err)
			}
		}

		return withEngine(func(eng *engine.Engine) error {
			result, err := eng.Implement(input)
			if err != nil {
				return err
			}
			return printResult(result, func() {
				printStatus("✓", "Report written: "+result.FilePath, color.FgGreen)
				fmt.Printf("  done: %d | in progress: %d | blocked: %d | remaining: %dh\n",
					result.Progress.Completed,
					result.Progress.InProgress,
					result.Progress.Blocked,
					result.Progress.RemainingHours)
				for _, note := range result.Progress.BurndownNotes {
					fmt.Println("  " + note)
				}
			})
		})
	},
}

func init() {
	implementCmd.Flags().StringVar(&implementInput, "input", "", "implementation payload file (JSON), '-' for stdin")
}
