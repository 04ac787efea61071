package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/engine"
)

var (
	constitutionPrinciples []string
	constitutionGovernance string
	constitutionCadence    string
)

var constitutionCmd = &cobra.Command{
	Use:   "constitution",
	Short: "Re-render the constitution document",
	Long: `Re-render docs/constitution.md with new guiding principles,
governance model and delivery cadence. Stored phase outputs are
untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine) error {
			filePath, err := eng.UpdateConstitution(engine.ConstitutionOptions{
				GuidingPrinciples: constitutionPrinciples,
				GovernanceModel:   constitutionGovernance,
				DeliveryCadence:   constitutionCadence,
			})
			if err != nil {
				return err
			}
			return printResult(map[string]string{"filePath": filePath}, func() {
				printStatus("✓", "Constitution rewritten: "+filePath, color.FgGreen)
			})
		})
	},
}

func init() {
	constitutionCmd.Flags().StringArrayVar(&constitutionPrinciples, "principle", nil, "guiding principle (repeatable)")
	constitutionCmd.Flags().StringVar(&constitutionGovernance, "governance", "", "governance model")
	constitutionCmd.Flags().StringVar(&constitutionCadence, "cadence", "", "delivery cadence")
	constitutionCmd.MarkFlagRequired("governance")
	constitutionCmd.MarkFlagRequired("cadence")
}
