package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/HendryAvila/sdd-kit/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// ImplementTool handles the sdd_implement MCP tool. It applies task
// updates, appends a progress snapshot and writes a markdown report.
type ImplementTool struct {
	factory EngineFactory
}

// NewImplementTool creates an ImplementTool with the given engine
// factory.
func NewImplementTool(factory EngineFactory) *ImplementTool {
	return &ImplementTool{factory: factory}
}

// Definition returns the MCP tool definition for registration.
func (t *ImplementTool) Definition() mcp.Tool {
	return mcp.NewTool("sdd_implement",
		mcp.WithDescription(
			"Apply task status updates, append a progress snapshot to the "+
				"project history and write an implementation report under "+
				"reports/. Repeatable; requires sdd_tasks to have run.",
		),
		mcp.WithString("input",
			mcp.Description(
				"Implementation payload as JSON: updates (array of "+
					"{taskId, status, owner, note}), narrativeHighlights, "+
					"blockers. All fields optional.",
			),
		),
		mcp.WithString("projectRoot",
			mcp.Description("Project root directory; defaults to the working directory"),
		),
	)
}

// Handle processes the sdd_implement tool call.
func (t *ImplementTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input engine.ImplementInput
	if raw := req.GetString("input", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("parsing implementation payload: %v", err)), nil
		}
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

	result, err := eng.Implement(input)
	if err != nil {
		var missing *engine.MissingPredecessorError
		if errors.Is(err, engine.ErrNotInitialized) || errors.As(err, &missing) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("running implement phase: %w", err)
	}

	response := fmt.Sprintf(
		"# %s\n\n"+
			"**Report:** `%s`\n"+
			"**Completed:** %d | **In progress:** %d | **Blocked:** %d | **Remaining:** %dh\n\n"+
			"%s",
		result.Report.Title,
		result.FilePath,
		result.Progress.Completed,
		result.Progress.InProgress,
		result.Progress.Blocked,
		result.Progress.RemainingHours,
		jsonBlock(result.Report),
	)
	return mcp.NewToolResultText(response), nil
}
