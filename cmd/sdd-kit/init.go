package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/engine"
)

var (
	initName        string
	initDomain      string
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an SDD project",
	Long: `Initialize an SDD project under the project root: writes the initial
state file plus the constitution and principles documents under docs/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(func(eng *engine.Engine) error {
			st, err := eng.InitializeProject(engine.InitOptions{
				ProjectName: initName,
				Domain:      initDomain,
				Description: initDescription,
			})
			if err != nil {
				return err
			}
			return printResult(st, func() {
				printStatus("✓", "Project initialized: "+st.Metadata.Name, color.FgGreen)
				printStatus("✓", "Wrote docs/constitution.md and docs/principles.md", color.FgGreen)
			})
		})
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "project name")
	initCmd.Flags().StringVar(&initDomain, "domain", "", "business domain")
	initCmd.Flags().StringVar(&initDescription, "description", "", "project description")
	initCmd.MarkFlagRequired("name")
	initCmd.MarkFlagRequired("domain")
	initCmd.MarkFlagRequired("description")
}
