package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sddserver "github.com/HendryAvila/sdd-kit/internal/server"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: `Start the MCP server on stdio. Exposes the engine phases as MCP
tools (sdd_init, sdd_specify, sdd_plan, sdd_tasks, sdd_implement and
friends) for AI coding hosts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sddserver.New()
		if err != nil {
			return fmt.Errorf("creating MCP server: %w", err)
		}
		fmt.Fprintf(os.Stderr, "sdd-kit v%s serving MCP on stdio\n", sddserver.Version)
		return mcpserver.ServeStdio(s)
	},
}
