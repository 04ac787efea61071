package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/engine"
	"github.com/HendryAvila/sdd-kit/internal/spec"
)

var specifyInput string

var specifyCmd = &cobra.Command{
	Use:   "specify",
	Short: "Generate the specification from an intake payload",
	Long: `Generate the project specification from a JSON intake payload:
functional themes, a non-functional risk matrix, compliance findings
and derived risks. The result replaces any previously stored
specification.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInputFile(specifyInput)
		if err != nil {
			return err
		}
		var input spec.Input
		if err := json.Unmarshal(data, &input); err != nil {
			return fmt.Errorf("parsing intake payload %s: %w", specifyInput, err)
		}

		return withEngine(func(eng *engine.Engine) error {
			specification, err := eng.Specify(input)
			if err != nil {
				return err
			}
			return printResult(specification, func() {
				printStatus("✓", "Specification generated: "+specification.ProjectName, color.FgGreen)
				fmt.Printf("  themes: %d | NFRs: %d | risks: %d | findings: %d\n",
					len(specification.FunctionalThemes),
					len(specification.NonFunctionalMatrix),
					len(specification.Risks),
					len(specification.Compliance))
				fmt.Println("  " + specification.ExecutiveSummary)
			})
		})
	},
}

func init() {
	specifyCmd.Flags().StringVar(&specifyInput, "input", "", "intake payload file (JSON), '-' for stdin")
	specifyCmd.MarkFlagRequired("input")
}
