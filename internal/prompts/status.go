package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the sdd-status MCP prompt.
// It instructs the AI to read and present the current pipeline state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("sdd-status",
		mcp.WithPromptDescription(
			"Check the current status of your SDD project: which phases "+
				"have run, progress history and remaining work.",
		),
	)
}

// Handle processes the sdd-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "SDD Project Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `sdd_status` to check my SDD project status.\n\n" +
						"Then:\n" +
						"1. Show me the pipeline state in a clear, visual format\n" +
						"2. Summarize the latest progress snapshot and remaining hours\n" +
						"3. Call out compliance findings that still have gaps\n" +
						"4. Tell me exactly what I should do next",
				),
			},
		},
	}, nil
}
