package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/sdd-kit/internal/spec"
	"github.com/mark3labs/mcp-go/mcp"
)

// SpecifyTool handles the sdd_specify MCP tool. It turns a structured
// intake payload into a persisted specification.
type SpecifyTool struct {
	factory EngineFactory
}

// NewSpecifyTool creates a SpecifyTool with the given engine factory.
func NewSpecifyTool(factory EngineFactory) *SpecifyTool {
	return &SpecifyTool{factory: factory}
}

// Definition returns the MCP tool definition for registration.
func (t *SpecifyTool) Definition() mcp.Tool {
	return mcp.NewTool("sdd_specify",
		mcp.WithDescription(
			"Generate the project specification from a structured intake "+
				"payload: functional themes, a non-functional risk matrix, "+
				"compliance findings and derived risks. The result is "+
				"persisted as the project's specification.",
		),
		mcp.WithString("input",
			mcp.Required(),
			mcp.Description(
				"Intake payload as JSON: projectName, domain, summary, "+
					"businessDrivers, primaryModules, requirements, "+
					"nonFunctionalRequirements, constraints, successCriteria, "+
					"complianceTargets.",
			),
		),
		mcp.WithString("projectRoot",
			mcp.Description("Project root directory; defaults to the working directory"),
		),
	)
}

// Handle processes the sdd_specify tool call.
func (t *SpecifyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := req.GetString("input", "")
	if raw == "" {
		return mcp.NewToolResultError("'input' is required"), nil
	}

	var input spec.Input
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parsing intake payload: %v", err)), nil
	}
	if input.ProjectName == "" {
		return mcp.NewToolResultError("'input.projectName' is required"), nil
	}

	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	eng, err := t.factory(root)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	defer eng.Close()

	specification, err := eng.Specify(input)
	if err != nil {
		return nil, fmt.Errorf("generating specification: %w", err)
	}

	response := fmt.Sprintf(
		"# Specification Generated\n\n"+
			"**Project:** %s\n"+
			"**Themes:** %d | **NFRs:** %d | **Risks:** %d | **Compliance findings:** %d\n\n"+
			"%s\n\n> %s\n\n"+
			"## Next Step\n\n"+
			"Use `sdd_plan` to derive the technical plan.",
		specification.ProjectName,
		len(specification.FunctionalThemes),
		len(specification.NonFunctionalMatrix),
		len(specification.Risks),
		len(specification.Compliance),
		jsonBlock(specification),
		specification.ExecutiveSummary,
	)
	return mcp.NewToolResultText(response), nil
}
