// Root command for the sdd-kit CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/server"
)

// Global flag values.
var (
	flagProjectRoot string
	flagJSON        bool
)

// configProjectRoot holds the project_root value loaded from
// config.yaml. Set by PersistentPreRunE so all subcommands can use it.
var configProjectRoot string

var rootCmd = &cobra.Command{
	Use:     "sdd-kit",
	Short:   "sdd-kit drives spec-first delivery: intake → spec → plan → tasks → reports",
	Version: server.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		configProjectRoot = cfg.GetString(cfgKeyProjectRoot)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProjectRoot, "project-root", "", "project root directory (default: config project_root, else CWD)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output results as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(specifyCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(implementCmd)
	rootCmd.AddCommand(constitutionCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(artifactsCmd)
	rootCmd.AddCommand(serveCmd)
}
