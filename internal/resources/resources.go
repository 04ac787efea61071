// Package resources implements MCP resource handlers for the SDD
// pipeline.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (sdd://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/sdd-kit/internal/state"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler manages SDD resource endpoints.
type Handler struct {
	store *state.Store
}

// NewHandler creates a resource Handler reading from the given state
// store.
func NewHandler(store *state.Store) *Handler {
	return &Handler{store: store}
}

// StateResource returns the MCP resource definition for project state.
func (h *Handler) StateResource() mcp.Resource {
	return mcp.NewResource(
		"sdd://project/state",
		"SDD Project State",
		mcp.WithResourceDescription("Current project state: metadata, specification, plan, task plan and progress history"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleState returns the persisted project state as JSON.
func (h *Handler) HandleState(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	st, err := h.store.Read()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if st == nil {
		return errorResource(req.Params.URI, "no SDD project initialized under "+h.store.Path()), nil
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling state: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
