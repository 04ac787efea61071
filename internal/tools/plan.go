package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/sdd-kit/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// PlanTool handles the sdd_plan MCP tool. It derives the technical
// plan from the persisted specification.
type PlanTool struct {
	factory EngineFactory
}

// NewPlanTool creates a PlanTool with the given engine factory.
func NewPlanTool(factory EngineFactory) *PlanTool {
	return &PlanTool{factory: factory}
}

// Definition returns the MCP tool definition for registration.
func (t *PlanTool) Definition() mcp.Tool {
	return mcp.NewTool("sdd_plan",
		mcp.WithDescription(
			"Derive the technical plan from the persisted specification: "+
				"architecture principles, technology stack, three delivery "+
				"phases with week splits, automation backlog and quality "+
				"gates. Requires sdd_specify to have run.",
		),
		mcp.WithString("projectRoot",
			mcp.Description("Project root directory; defaults to the working directory"),
		),
	)
}

// Handle processes the sdd_plan tool call.
func (t *PlanTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	eng, err := t.factory(root)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	defer eng.Close()

	technicalPlan, err := eng.Plan(engine.PlanOptions{})
	if err != nil {
		var missing *engine.MissingPredecessorError
		if errors.Is(err, engine.ErrNotInitialized) || errors.As(err, &missing) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("building plan: %w", err)
	}

	response := fmt.Sprintf(
		"# Technical Plan Ready\n\n"+
			"**Principles:** %d | **Phases:** %d | **Follow-ups:** %d\n\n"+
			"%s\n\n"+
			"## Next Step\n\n"+
			"Use `sdd_tasks` to break the plan into a task board.",
		len(technicalPlan.ArchitecturePrinciples),
		len(technicalPlan.DeliveryPhases),
		len(technicalPlan.ComplianceFollowUps),
		jsonBlock(technicalPlan),
	)
	return mcp.NewToolResultText(response), nil
}
