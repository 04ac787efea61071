package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/engine"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Derive the technical plan from the stored specification",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine) error {
			technicalPlan, err := eng.Plan(engine.PlanOptions{})
			if err != nil {
				return err
			}
			return printResult(technicalPlan, func() {
				printStatus("✓", "Technical plan ready", color.FgGreen)
				for _, phase := range technicalPlan.DeliveryPhases {
					objective := ""
					if len(phase.Objectives) > 0 {
						objective = phase.Objectives[0]
					}
					fmt.Printf("  %-12s %2d 周  %s\n", phase.Name, phase.DurationWeeks, objective)
				}
				if n := len(technicalPlan.ComplianceFollowUps); n > 0 {
					printStatus("⚠", fmt.Sprintf("%d compliance follow-ups carry open gaps", n), color.FgYellow)
				}
			})
		})
	},
}
