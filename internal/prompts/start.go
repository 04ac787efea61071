// Package prompts implements MCP prompt handlers for the SDD pipeline.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the sdd-start MCP prompt.
// It guides the AI through the intake → specification → plan → tasks
// sequence for a new project.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("sdd-start",
		mcp.WithPromptDescription(
			"Start a new Spec-Driven Delivery project. "+
				"Guides you from project intake through specification, "+
				"technical plan and task breakdown.",
		),
		mcp.WithArgument("project_name",
			mcp.ArgumentDescription("Name of your project"),
		),
		mcp.WithArgument("domain",
			mcp.ArgumentDescription("Business domain the project serves"),
		),
	)
}

// Handle processes the sdd-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	projectName := "my-project"
	domain := ""
	if args := req.Params.Arguments; args != nil {
		if name, ok := args["project_name"]; ok && name != "" {
			projectName = name
		}
		if d, ok := args["domain"]; ok {
			domain = d
		}
	}

	domainHint := "ask me for the business domain"
	if domain != "" {
		domainHint = fmt.Sprintf("domain='%s'", domain)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Start SDD project: %s", projectName),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to start a Spec-Driven Delivery project called '%s'.\n\n"+
						"Please:\n"+
						"1. Run `sdd_init` with projectName='%s', %s, and a brief description (ask me for one)\n"+
						"2. Interview me for the intake: business drivers, primary modules, requirements, non-functional targets, constraints and success criteria\n"+
						"3. Run `sdd_specify` with the assembled intake payload and walk me through the generated specification, risks and compliance findings\n"+
						"4. Run `sdd_plan` and then `sdd_tasks`, and present the delivery phases and task board\n"+
						"5. From then on, use `sdd_implement` whenever I report progress",
					projectName, projectName, domainHint,
				)),
			},
		},
	}, nil
}
