package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/engine"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Derive the task board from the stored plan",
	Long: `Derive the task plan from the stored specification and technical
plan: analysis tasks per theme, dependency-chained phase tasks,
governance tasks, a swimlane board and the critical path. Replaces any
previous task plan.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine) error {
			taskPlan, err := eng.Tasks(engine.TasksOptions{})
			if err != nil {
				return err
			}
			return printResult(taskPlan, func() {
				printStatus("✓", fmt.Sprintf("Task plan generated: %d tasks", len(taskPlan.Tasks)), color.FgGreen)
				for _, t := range taskPlan.Tasks {
					deps := "-"
					if len(t.Dependencies) > 0 {
						deps = strings.Join(t.Dependencies, ", ")
					}
					fmt.Printf("  %-10s [%-10s] %3dh deps:%-12s %s\n",
						t.ID, t.Category, t.EstimateHours, deps, t.Title)
				}
				fmt.Printf("  critical path: %s\n", strings.Join(taskPlan.CriticalPath, " → "))
			})
		})
	},
}
