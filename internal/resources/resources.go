// Package resources implements MCP resource handlers for the deliberation
// session.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (deliberate://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/deliberate/internal/session"
)

// StatusURI addresses the session status resource.
const StatusURI = "deliberate://session/status"

// Snapshotter is the read side of a session.
type Snapshotter interface {
	Snapshot() session.Status
}

// Handler manages session resource endpoints.
type Handler struct {
	session Snapshotter
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(s Snapshotter) *Handler {
	return &Handler{session: s}
}

// StatusResource returns the MCP resource definition for session status.
func (h *Handler) StatusResource() mcp.Resource {
	return mcp.NewResource(
		StatusURI,
		"Deliberation Session Status",
		mcp.WithResourceDescription("Active context, branches, backlog, sprint plan and consensus of the current deliberation"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStatus returns the current session status as JSON.
func (h *Handler) HandleStatus(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(h.session.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling status: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
