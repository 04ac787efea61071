package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline status for the project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine) error {
			st, err := eng.GetState()
			if err != nil {
				return err
			}
			if st == nil {
				printStatus("✗", "No SDD project here — run 'sdd-kit init' first", color.FgRed)
				return nil
			}
			return printResult(st, func() {
				fmt.Printf("%s (%s)\n", st.Metadata.Name, st.Metadata.Domain)
				phase := func(name string, done bool) {
					if done {
						printStatus("✓", name, color.FgGreen)
					} else {
						printStatus("✗", name, color.FgRed)
					}
				}
				phase("specification", st.Specification != nil)
				phase("plan", st.Plan != nil)
				phase("taskPlan", st.TaskPlan != nil)
				fmt.Printf("progress snapshots: %d\n", len(st.ProgressHistory))
				if n := len(st.ProgressHistory); n > 0 {
					latest := st.ProgressHistory[n-1]
					fmt.Printf("latest: %d done, %d in progress, %d blocked, %dh remaining\n",
						latest.Completed, latest.InProgress, latest.Blocked, latest.RemainingHours)
				}
			})
		})
	},
}
