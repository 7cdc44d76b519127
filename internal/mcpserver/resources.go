package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
)

const categoriesURI = "expense://categories"

func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(categoriesURI, "categories",
		mcp.WithResourceDescription("Expense category taxonomy"),
		mcp.WithMIMEType("application/json"),
	), s.handleCategories)
}

// handleCategories serves the taxonomy file. I/O failures are returned as
// an error payload in the document body, never as a dropped call.
func (s *Server) handleCategories(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := s.categories.Read(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read categories", "error", err)
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		data = payload
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      categoriesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
