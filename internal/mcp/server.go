// Package mcp exposes the thought organization engine over the Model
// Context Protocol so agents can capture and organize thoughts directly.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/backpackerjohn/braindump/internal/capture"
	"github.com/backpackerjohn/braindump/internal/organizer"
	"github.com/backpackerjohn/braindump/internal/repository"
)

// Deps holds the services the tool handlers operate on.
type Deps struct {
	Organizer *organizer.Organizer
	Capture   *capture.Service
	Store     *repository.Store
	UserID    uuid.UUID
}

// deps is the active dependency set for the stdio server's handlers.
var deps Deps

// ServeStdio starts the MCP server using the official go-sdk over stdio.
func ServeStdio(d Deps) error {
	if d.Organizer == nil || d.Store == nil {
		return errors.New("organizer and store are required")
	}
	deps = d

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "braindump",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: `🧠 BRAINDUMP - Thought Organization Engine

You are connected to Braindump, a tool that turns unstructured brain
dumps into organized, thematic clusters of thoughts.

## Typical Flow
1. capture_thought(content: "...") - dump raw text, get categorized thoughts back
2. organize_thoughts() - once enough thoughts pile up, group them into clusters
3. list_clusters() - review clusters and their completion progress
4. extend_cluster(cluster_id) - pull newly captured thoughts into an existing cluster
5. find_connections() - surface surprising relationships between thoughts

## Notes
- organize_thoughts is a no-op below the unclustered-thought threshold;
  the response message says how many more thoughts are needed.
- Clusters are themes, not folders: a thought can belong to several.
- Deleting a cluster never deletes its thoughts.`,
		},
	)

	registerTools(server)
	registerPrompts(server)

	return server.Run(context.Background(), &mcp.StdioTransport{})
}

// textResult converts any data to a CallToolResult with JSON TextContent.
// Data goes into Content (not StructuredContent) for broad client
// compatibility.
func textResult(data interface{}) (*mcp.CallToolResult, error) {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "{}"},
			},
		}, nil
	}
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, nil
}
