// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"
	"os"

	"github.com/HendryAvila/sdd-kit/internal/prompts"
	"github.com/HendryAvila/sdd-kit/internal/resources"
	"github.com/HendryAvila/sdd-kit/internal/state"
	"github.com/HendryAvila/sdd-kit/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts and
// resources registered. Tools bind to a project root per call; the
// state resource reads from the process working directory.
func New() (*server.MCPServer, error) {
	s := server.NewMCPServer(
		"sdd-kit",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	factory := tools.EngineFactory(tools.DefaultFactory)

	initTool := tools.NewInitTool(factory)
	s.AddTool(initTool.Definition(), initTool.Handle)

	specifyTool := tools.NewSpecifyTool(factory)
	s.AddTool(specifyTool.Definition(), specifyTool.Handle)

	planTool := tools.NewPlanTool(factory)
	s.AddTool(planTool.Definition(), planTool.Handle)

	tasksTool := tools.NewTasksTool(factory)
	s.AddTool(tasksTool.Definition(), tasksTool.Handle)

	implementTool := tools.NewImplementTool(factory)
	s.AddTool(implementTool.Definition(), implementTool.Handle)

	constitutionTool := tools.NewConstitutionTool(factory)
	s.AddTool(constitutionTool.Definition(), constitutionTool.Handle)

	updateTemplatesTool := tools.NewUpdateTemplatesTool(factory)
	s.AddTool(updateTemplatesTool.Definition(), updateTemplatesTool.Handle)

	statusTool := tools.NewStatusTool(factory)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	resourceHandler := resources.NewHandler(state.NewStore(wd))
	s.AddResource(resourceHandler.StateResource(), resourceHandler.HandleState)

	return s, nil
}

// serverInstructions returns the system instructions that tell the AI
// how to drive the SDD pipeline effectively.
func serverInstructions() string {
	return `You have access to sdd-kit, a Spec-Driven Delivery MCP server.

## WHEN TO ACTIVATE sdd-kit

Proactively suggest the pipeline when the user:
- wants to turn a project idea into a structured specification
- asks for a technical plan, delivery phases or a task breakdown
- reports implementation progress and wants a status report

## PIPELINE ORDER

The phases are strictly ordered and each persists its output:

1. sdd_init — project metadata, constitution and principles documents
2. sdd_specify — specification from the structured intake payload
3. sdd_plan — technical plan derived from the specification
4. sdd_tasks — dependency-chained task board derived from the plan
5. sdd_implement — task updates, progress snapshot and markdown report (repeatable)

sdd_constitution, sdd_update_templates and sdd_status work at any point
after their preconditions are met. Phase outputs are replaced whole on
re-run; re-running an early phase does not invalidate later outputs, so
re-derive them explicitly when the specification changes.`
}
