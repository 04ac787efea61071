package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/engine"
)

var artifactsLimit int

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List recorded pipeline artifacts",
	Long: `List entries from the artifact ledger, newest first. The ledger is
append-only and survives state file resets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine) error {
			entries, err := eng.Artifacts(artifactsLimit)
			if err != nil {
				return err
			}
			return printResult(entries, func() {
				if len(entries) == 0 {
					fmt.Println("no artifacts recorded")
					return
				}
				for _, entry := range entries {
					fmt.Printf("%-12s %-14s %-40s %s\n", entry.Phase, entry.Kind, entry.Ref, entry.CreatedAt)
				}
			})
		})
	},
}

func init() {
	artifactsCmd.Flags().IntVar(&artifactsLimit, "limit", 20, "maximum entries to show (0 for all)")
}
