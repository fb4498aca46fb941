package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerPrompts adds MCP prompt templates to the server
func registerPrompts(server *mcp.Server) {
	// Brain Dump - capture a stream of consciousness and organize it
	server.AddPrompt(&mcp.Prompt{
		Name:        "brain_dump",
		Title:       "Brain Dump",
		Description: "Capture a stream of consciousness and organize the resulting thoughts",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "content",
				Description: "The raw text to dump",
				Required:    true,
			},
		},
	}, handleBrainDumpPrompt)

	// Weekly Review - review clusters, completion, and connections
	server.AddPrompt(&mcp.Prompt{
		Name:        "weekly_review",
		Title:       "Weekly Review",
		Description: "Review clusters, mark finished thoughts, and look for connections",
	}, handleWeeklyReviewPrompt)
}

func handleBrainDumpPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	content := req.Params.Arguments["content"]
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}

	promptText := fmt.Sprintf(`Please capture and organize the following brain dump:

## Raw Content
%s

## Steps
1. Call capture_thought with the raw content above
2. Call organize_thoughts to group the captured thoughts into clusters
3. If organize_thoughts reports that more thoughts are needed, tell the user how many
4. Summarize the resulting clusters for the user`, content)

	return &mcp.GetPromptResult{
		Description: "Capture and organize a brain dump",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}

func handleWeeklyReviewPrompt(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	promptText := `Please run a weekly review of my thoughts:

## Steps
1. Call list_clusters and summarize each cluster's completion progress
2. For fully completed clusters, suggest archiving them with archive_cluster
3. Call extend_cluster on clusters that look related to recent captures
4. Call find_connections and highlight the most interesting relationships
5. Finish with a short summary of what changed`

	return &mcp.GetPromptResult{
		Description: "Weekly thought review",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText},
			},
		},
	}, nil
}
