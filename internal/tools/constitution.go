package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/HendryAvila/sdd-kit/internal/engine"
	"github.com/mark3labs/mcp-go/mcp"
)

// ConstitutionTool handles the sdd_constitution MCP tool. It rewrites
// the constitution document with new governance inputs.
type ConstitutionTool struct {
	factory EngineFactory
}

// NewConstitutionTool creates a ConstitutionTool with the given engine
// factory.
func NewConstitutionTool(factory EngineFactory) *ConstitutionTool {
	return &ConstitutionTool{factory: factory}
}

// Definition returns the MCP tool definition for registration.
func (t *ConstitutionTool) Definition() mcp.Tool {
	return mcp.NewTool("sdd_constitution",
		mcp.WithDescription(
			"Re-render docs/constitution.md with new guiding principles, "+
				"governance model and delivery cadence. Stored phase "+
				"outputs are untouched. Requires sdd_init to have run.",
		),
		mcp.WithString("guidingPrinciples",
			mcp.Required(),
			mcp.Description("Guiding principles as a JSON array of strings"),
		),
		mcp.WithString("governanceModel",
			mcp.Required(),
			mcp.Description("Governance model description"),
		),
		mcp.WithString("deliveryCadence",
			mcp.Required(),
			mcp.Description("Delivery cadence description"),
		),
		mcp.WithString("projectRoot",
			mcp.Description("Project root directory; defaults to the working directory"),
		),
	)
}

// Handle processes the sdd_constitution tool call.
func (t *ConstitutionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawPrinciples := req.GetString("guidingPrinciples", "")
	governanceModel := req.GetString("governanceModel", "")
	deliveryCadence := req.GetString("deliveryCadence", "")

	if rawPrinciples == "" {
		return mcp.NewToolResultError("'guidingPrinciples' is required"), nil
	}
	if governanceModel == "" {
		return mcp.NewToolResultError("'governanceModel' is required"), nil
	}
	if deliveryCadence == "" {
		return mcp.NewToolResultError("'deliveryCadence' is required"), nil
	}

	var principles []string
	if err := json.Unmarshal([]byte(rawPrinciples), &principles); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parsing guiding principles: %v", err)), nil
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

	filePath, err := eng.UpdateConstitution(engine.ConstitutionOptions{
		GuidingPrinciples: principles,
		GovernanceModel:   governanceModel,
		DeliveryCadence:   deliveryCadence,
	})
	if err != nil {
		if errors.Is(err, engine.ErrNotInitialized) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("updating constitution: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Constitution Updated\n\nRewritten at `%s`.", filePath,
	)), nil
}
