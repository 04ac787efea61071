package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/sdd-kit/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// TasksTool handles the sdd_tasks MCP tool. It derives the task plan
// from the persisted specification and technical plan.
type TasksTool struct {
	factory EngineFactory
}

// NewTasksTool creates a TasksTool with the given engine factory.
func NewTasksTool(factory EngineFactory) *TasksTool {
	return &TasksTool{factory: factory}
}

// Definition returns the MCP tool definition for registration.
func (t *TasksTool) Definition() mcp.Tool {
	return mcp.NewTool("sdd_tasks",
		mcp.WithDescription(
			"Derive the task plan from the specification and technical "+
				"plan: analysis tasks per theme, dependency-chained phase "+
				"tasks, governance tasks, a swimlane board and the critical "+
				"path. Replaces any previous task plan. Requires sdd_plan "+
				"to have run.",
		),
		mcp.WithString("projectRoot",
			mcp.Description("Project root directory; defaults to the working directory"),
		),
	)
}

// Handle processes the sdd_tasks tool call.
func (t *TasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	eng, err := t.factory(root)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	defer eng.Close()

	taskPlan, err := eng.Tasks(engine.TasksOptions{})
	if err != nil {
		var missing *engine.MissingPredecessorError
		if errors.Is(err, engine.ErrNotInitialized) || errors.As(err, &missing) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("deriving tasks: %w", err)
	}

	response := fmt.Sprintf(
		"# Task Plan Generated\n\n"+
			"**Tasks:** %d | **Critical path:** %d\n\n"+
			"%s\n\n"+
			"## Next Step\n\n"+
			"Use `sdd_implement` with task updates to track progress and "+
			"produce implementation reports.",
		len(taskPlan.Tasks),
		len(taskPlan.CriticalPath),
		jsonBlock(taskPlan),
	)
	return mcp.NewToolResultText(response), nil
}
