package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/sdd-kit/internal/state"
	"github.com/HendryAvila/sdd-kit/internal/task"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatusTool handles the sdd_status MCP tool. It reports which phases
// have run and summarizes the persisted state.
type StatusTool struct {
	factory EngineFactory
}

// NewStatusTool creates a StatusTool with the given engine factory.
func NewStatusTool(factory EngineFactory) *StatusTool {
	return &StatusTool{factory: factory}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("sdd_status",
		mcp.WithDescription(
			"Show the project's pipeline status: which phases have run, "+
				"progress history length and recent artifacts.",
		),
		mcp.WithString("projectRoot",
			mcp.Description("Project root directory; defaults to the working directory"),
		),
	)
}

// Handle processes the sdd_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, err := resolveRoot(req)
	if err != nil {
		return nil, err
	}
	eng, err := t.factory(root)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	defer eng.Close()

	st, err := eng.GetState()
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}
	if st == nil {
		return mcp.NewToolResultText(
			"# No SDD Project\n\nNothing initialized under `" + root + "`. Run `sdd_init` first.",
		), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", st.Metadata.Name)
	fmt.Fprintf(&b, "**Domain:** %s\n**Created:** %s\n\n", st.Metadata.Domain, st.Metadata.CreatedAt)
	b.WriteString("## Phases\n\n")
	b.WriteString(phaseLine("specification", st.Specification != nil))
	b.WriteString(phaseLine("plan", st.Plan != nil))
	b.WriteString(phaseLine("taskPlan", st.TaskPlan != nil))
	fmt.Fprintf(&b, "\n**Progress snapshots:** %d\n", len(st.ProgressHistory))

	if st.TaskPlan != nil {
		latest := latestProgress(st)
		if latest != nil {
			fmt.Fprintf(&b, "**Latest:** %d done, %d in progress, %d blocked, %dh remaining\n",
				latest.Completed, latest.InProgress, latest.Blocked, latest.RemainingHours)
		}
	}

	if entries, err := eng.Artifacts(5); err == nil && len(entries) > 0 {
		b.WriteString("\n## Recent Artifacts\n\n")
		for _, entry := range entries {
			fmt.Fprintf(&b, "- [%s] %s → `%s` (%s)\n", entry.Phase, entry.Kind, entry.Ref, entry.CreatedAt)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func phaseLine(name string, done bool) string {
	marker := "✗"
	if done {
		marker = "✓"
	}
	return fmt.Sprintf("- %s %s\n", marker, name)
}

func latestProgress(st *state.ProjectState) *task.ProgressSnapshot {
	if len(st.ProgressHistory) == 0 {
		return nil
	}
	return &st.ProgressHistory[len(st.ProgressHistory)-1]
}
