package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/sdd-kit/internal/templates"
	"github.com/mark3labs/mcp-go/mcp"
)

// UpdateTemplatesTool handles the sdd_update_templates MCP tool. It
// merges partial template overrides into the persisted registry.
type UpdateTemplatesTool struct {
	factory EngineFactory
}

// NewUpdateTemplatesTool creates an UpdateTemplatesTool with the given
// engine factory.
func NewUpdateTemplatesTool(factory EngineFactory) *UpdateTemplatesTool {
	return &UpdateTemplatesTool{factory: factory}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateTemplatesTool) Definition() mcp.Tool {
	return mcp.NewTool("sdd_update_templates",
		mcp.WithDescription(
			"Override one or more document templates (constitution, "+
				"principles, report). Overrides are persisted under .sdd/ "+
				"and survive restarts; omitted templates keep their "+
				"current value.",
		),
		mcp.WithString("constitution",
			mcp.Description("Replacement constitution template"),
		),
		mcp.WithString("principles",
			mcp.Description("Replacement principles template"),
		),
		mcp.WithString("report",
			mcp.Description("Replacement report template"),
		),
		mcp.WithString("projectRoot",
			mcp.Description("Project root directory; defaults to the working directory"),
		),
	)
}

// Handle processes the sdd_update_templates tool call.
func (t *UpdateTemplatesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	overrides := templates.Overrides{
		Constitution: req.GetString("constitution", ""),
		Principles:   req.GetString("principles", ""),
		Report:       req.GetString("report", ""),
	}
	if overrides == (templates.Overrides{}) {
		return mcp.NewToolResultError("at least one of 'constitution', 'principles' or 'report' is required"), nil
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

	registry, err := eng.UpdateTemplates(overrides)
	if err != nil {
		return nil, fmt.Errorf("updating templates: %w", err)
	}

	defaults := templates.Defaults()
	status := func(current, def string) string {
		if current == def {
			return "default"
		}
		return "overridden"
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Templates Updated\n\n"+
			"- constitution: %s\n- principles: %s\n- report: %s",
		status(registry.Constitution, defaults.Constitution),
		status(registry.Principles, defaults.Principles),
		status(registry.Report, defaults.Report),
	)), nil
}
