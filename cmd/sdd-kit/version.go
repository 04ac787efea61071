package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HendryAvila/sdd-kit/internal/server"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sdd-kit v%s\n", server.Version)
	},
}
