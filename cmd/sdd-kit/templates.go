package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/engine"
	"github.com/HendryAvila/sdd-kit/internal/templates"
)

var (
	templatesConstitution string
	templatesPrinciples   string
	templatesReport       string
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Override document templates",
	Long: `Override one or more document templates (constitution, principles,
report) from files. Overrides persist under .sdd/templates.json and
survive restarts; omitted templates keep their current value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := templates.Overrides{}
		load := func(path string, target *string) error {
			if path == "" {
				return nil
			}
			data, err := readInputFile(path)
			if err != nil {
				return err
			}
			*target = string(data)
			return nil
		}
		if err := load(templatesConstitution, &overrides.Constitution); err != nil {
			return err
		}
		if err := load(templatesPrinciples, &overrides.Principles); err != nil {
			return err
		}
		if err := load(templatesReport, &overrides.Report); err != nil {
			return err
		}
		if overrides == (templates.Overrides{}) {
			return fmt.Errorf("at least one of --constitution, --principles or --report is required")
		}

		return withEngine(func(eng *engine.Engine) error {
			registry, err := eng.UpdateTemplates(overrides)
			if err != nil {
				return err
			}
			return printResult(registry, func() {
				printStatus("✓", "Templates updated", color.FgGreen)
			})
		})
	},
}

func init() {
	templatesCmd.Flags().StringVar(&templatesConstitution, "constitution", "", "constitution template file")
	templatesCmd.Flags().StringVar(&templatesPrinciples, "principles", "", "principles template file")
	templatesCmd.Flags().StringVar(&templatesReport, "report", "", "report template file")
}
