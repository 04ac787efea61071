package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/sdd-kit/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// InitTool handles the sdd_init MCP tool. It writes the initial
// project state and renders the constitution and principles documents.
type InitTool struct {
	factory EngineFactory
}

// NewInitTool creates an InitTool with the given engine factory.
func NewInitTool(factory EngineFactory) *InitTool {
	return &InitTool{factory: factory}
}

// Definition returns the MCP tool definition for registration.
func (t *InitTool) Definition() mcp.Tool {
	return mcp.NewTool("sdd_init",
		mcp.WithDescription(
			"Initialize an SDD (Spec-Driven Delivery) project. "+
				"Writes the initial project state under .sdd/ and the "+
				"constitution and principles documents under docs/. "+
				"This is the first step of the pipeline.",
		),
		mcp.WithString("projectName",
			mcp.Required(),
			mcp.Description("Project name"),
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Business domain the project serves"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Brief description of what the project does"),
		),
		mcp.WithString("projectRoot",
			mcp.Description("Project root directory; defaults to the working directory"),
		),
	)
}

// Handle processes the sdd_init tool call.
func (t *InitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := req.GetString("projectName", "")
	domain := req.GetString("domain", "")
	description := req.GetString("description", "")

	if projectName == "" {
		return mcp.NewToolResultError("'projectName' is required"), nil
	}
	if domain == "" {
		return mcp.NewToolResultError("'domain' is required"), nil
	}
	if description == "" {
		return mcp.NewToolResultError("'description' is required"), nil
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

	st, err := eng.InitializeProject(engine.InitOptions{
		ProjectName: projectName,
		Domain:      domain,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing project: %w", err)
	}

	response := fmt.Sprintf(
		"# SDD Project Initialized\n\n"+
			"**Project:** %s\n"+
			"**Domain:** %s\n"+
			"**Location:** `%s`\n\n"+
			"## What was created\n\n"+
			"- `.sdd/state.json` — project state\n"+
			"- `docs/constitution.md` — delivery constitution\n"+
			"- `docs/principles.md` — development principles\n\n"+
			"## Next Step\n\n"+
			"Use `sdd_specify` with the intake payload to generate the specification.",
		st.Metadata.Name, st.Metadata.Domain, root,
	)
	return mcp.NewToolResultText(response), nil
}
