// Package tools implements the MCP tool handlers for the SDD engine.
//
// Each file holds one tool. Tools depend on an EngineFactory rather
// than a concrete engine so every call binds to the project root the
// caller names, and tests can substitute roots freely.
package tools

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/HendryAvila/sdd-kit/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// EngineFactory builds an engine bound to a project root.
type EngineFactory func(projectRoot string) (*engine.Engine, error)

// DefaultFactory builds engines with default options.
func DefaultFactory(projectRoot string) (*engine.Engine, error) {
	return engine.New(engine.Options{ProjectRoot: projectRoot})
}

// resolveRoot reads the optional projectRoot argument, falling back to
// the process working directory.
func resolveRoot(req mcp.CallToolRequest) (string, error) {
	if root := req.GetString("projectRoot", ""); root != "" {
		return root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}

// jsonBlock renders v as an indented JSON code fence for tool output.
func jsonBlock(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("```\nserialization error: %v\n```", err)
	}
	return "```json\n" + string(data) + "\n```"
}
