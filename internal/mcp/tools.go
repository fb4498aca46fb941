package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/backpackerjohn/braindump/internal/models"
	"github.com/backpackerjohn/braindump/internal/organizer"
)

// registerTools registers all MCP tools with the server using go-sdk.
// The SDK infers each InputSchema from the handler's input struct type.
func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "capture_thought",
		Description: "🔴 ESSENTIAL | Capture raw free-form text. The text is split into individual thoughts, each with a title, snippet and categories. Use this whenever the user dumps unstructured content.",
	}, handleCaptureThought)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "organize_thoughts",
		Description: "🔴 ESSENTIAL | Group unclustered thoughts into thematic clusters. No-op below the unclustered threshold; the message explains how many more thoughts are needed.",
	}, handleOrganizeThoughts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_clusters",
		Description: "🔴 ESSENTIAL | List all clusters with their member thoughts and completion progress.",
	}, handleListClusters)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extend_cluster",
		Description: "🟡 COMMON | Find unclustered thoughts matching a cluster's theme and link them. Requires at least 2 existing members as exemplars.",
	}, handleExtendCluster)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_connections",
		Description: "🟡 COMMON | Discover surprising relationships between active, incomplete thoughts. Returns thought pairs with a reason for each connection.",
	}, handleFindConnections)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_thoughts",
		Description: "🟡 COMMON | List thoughts by status (active or archived).",
	}, handleListThoughts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_categories",
		Description: "🟡 COMMON | Suggest 2-4 category tags for a thought, excluding the ones it already carries.",
	}, handleSuggestCategories)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "complete_thought",
		Description: "🟡 COMMON | Mark a thought as completed (or not). Completion feeds cluster progress.",
	}, handleCompleteThought)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "archive_cluster",
		Description: "🟢 ADVANCED | Archive every thought in a cluster. The cluster and its links stay intact.",
	}, handleArchiveCluster)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_cluster",
		Description: "🟢 ADVANCED | Delete a cluster and its membership links. ⚠️ The thoughts themselves are never deleted.",
	}, handleDeleteCluster)
}

type CaptureThoughtInput struct {
	Content string `json:"content"`
}

func handleCaptureThought(ctx context.Context, req *mcp.CallToolRequest, input CaptureThoughtInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if deps.Capture == nil {
		return nil, nil, errors.New("no Gemini API key configured; capture is unavailable")
	}
	thoughts, err := deps.Capture.Process(ctx, deps.UserID, input.Content)
	if err != nil {
		return nil, nil, err
	}

	items := make([]map[string]interface{}, 0, len(thoughts))
	for _, t := range thoughts {
		names := make([]string, 0, len(t.Categories))
		for _, cat := range t.Categories {
			names = append(names, cat.Name)
		}
		items = append(items, map[string]interface{}{
			"id":         t.ID.String(),
			"title":      t.Title,
			"categories": names,
		})
	}

	out := map[string]interface{}{"thoughts": items, "count": len(items)}
	res, err := textResult(out)
	return res, out, err
}

type EmptyInput struct{}

func handleOrganizeThoughts(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	report, err := deps.Organizer.GenerateClusters(ctx, deps.UserID)
	if err != nil {
		return nil, nil, err
	}

	created := make([]string, 0, len(report.Created))
	for _, id := range report.Created {
		created = append(created, id.String())
	}
	out := map[string]interface{}{
		"message":           report.Message,
		"created":           created,
		"linked_thoughts":   report.LinkedThoughts,
		"failed_clusters":   report.FailedClusters,
		"unclustered_count": report.UnclusteredCount,
	}
	res, err := textResult(out)
	return res, out, err
}

func handleListClusters(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	clusters, err := deps.Store.ListClusters(deps.UserID)
	if err != nil {
		return nil, nil, err
	}

	items := make([]map[string]interface{}, 0, len(clusters))
	for _, cluster := range clusters {
		members := make([]models.Thought, 0, len(cluster.Thoughts))
		titles := make([]string, 0, len(cluster.Thoughts))
		for _, t := range cluster.Thoughts {
			members = append(members, *t)
			titles = append(titles, t.Title)
		}
		completion := organizer.ClusterCompletion(members)
		items = append(items, map[string]interface{}{
			"id":         cluster.ID.String(),
			"name":       cluster.Name,
			"is_manual":  cluster.IsManual,
			"thoughts":   titles,
			"completed":  completion.Completed,
			"total":      completion.Total,
			"fully_done": completion.IsFullyCompleted,
		})
	}

	out := map[string]interface{}{"clusters": items, "count": len(items)}
	res, err := textResult(out)
	return res, out, err
}

type ClusterIDInput struct {
	ClusterID string `json:"cluster_id"`
}

func handleExtendCluster(ctx context.Context, req *mcp.CallToolRequest, input ClusterIDInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	id, err := uuid.Parse(strings.TrimSpace(input.ClusterID))
	if err != nil {
		return nil, nil, errors.New("cluster_id must be a valid UUID")
	}

	report, err := deps.Organizer.ExtendCluster(ctx, deps.UserID, id)
	if err != nil {
		return nil, nil, err
	}

	linked := make([]string, 0, len(report.Linked))
	for _, tid := range report.Linked {
		linked = append(linked, tid.String())
	}
	out := map[string]interface{}{"message": report.Message, "linked": linked}
	res, err := textResult(out)
	return res, out, err
}

func handleFindConnections(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	report, err := deps.Organizer.FindConnections(ctx, deps.UserID)
	if err != nil {
		return nil, nil, err
	}

	items := make([]map[string]interface{}, 0, len(report.Connections))
	for _, conn := range report.Connections {
		items = append(items, map[string]interface{}{
			"thought1": conn.Thought1.Title,
			"thought2": conn.Thought2.Title,
			"reason":   conn.Reason,
		})
	}
	out := map[string]interface{}{"connections": items, "count": len(items), "message": report.Message}
	res, err := textResult(out)
	return res, out, err
}

type ListThoughtsInput struct {
	Status string `json:"status,omitempty"`
}

func handleListThoughts(ctx context.Context, req *mcp.CallToolRequest, input ListThoughtsInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	status := models.ThoughtStatus(strings.TrimSpace(input.Status))
	if status == "" {
		status = models.ThoughtStatusActive
	}
	if status != models.ThoughtStatusActive && status != models.ThoughtStatusArchived {
		return nil, nil, errors.New("status must be 'active' or 'archived'")
	}

	thoughts, err := deps.Store.ListThoughts(deps.UserID, status)
	if err != nil {
		return nil, nil, err
	}

	items := make([]map[string]interface{}, 0, len(thoughts))
	for _, t := range thoughts {
		names := make([]string, 0, len(t.Categories))
		for _, cat := range t.Categories {
			names = append(names, cat.Name)
		}
		items = append(items, map[string]interface{}{
			"id":           t.ID.String(),
			"title":        t.Title,
			"categories":   names,
			"is_completed": t.IsCompleted,
		})
	}
	out := map[string]interface{}{"thoughts": items, "count": len(items)}
	res, err := textResult(out)
	return res, out, err
}

type ThoughtIDInput struct {
	ThoughtID string `json:"thought_id"`
}

func handleSuggestCategories(ctx context.Context, req *mcp.CallToolRequest, input ThoughtIDInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if deps.Capture == nil {
		return nil, nil, errors.New("no Gemini API key configured; suggestions are unavailable")
	}
	id, err := uuid.Parse(strings.TrimSpace(input.ThoughtID))
	if err != nil {
		return nil, nil, errors.New("thought_id must be a valid UUID")
	}

	suggestions, err := deps.Capture.SuggestCategories(ctx, deps.UserID, id)
	if err != nil {
		return nil, nil, err
	}

	out := map[string]interface{}{"categories": suggestions, "count": len(suggestions)}
	res, err := textResult(out)
	return res, out, err
}

type CompleteThoughtInput struct {
	ThoughtID string `json:"thought_id"`
	Completed *bool  `json:"completed,omitempty"`
}

func handleCompleteThought(ctx context.Context, req *mcp.CallToolRequest, input CompleteThoughtInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	id, err := uuid.Parse(strings.TrimSpace(input.ThoughtID))
	if err != nil {
		return nil, nil, errors.New("thought_id must be a valid UUID")
	}
	completed := true
	if input.Completed != nil {
		completed = *input.Completed
	}

	if err := deps.Store.SetThoughtCompleted(deps.UserID, id, completed); err != nil {
		return nil, nil, err
	}

	out := map[string]interface{}{"thought_id": id.String(), "is_completed": completed}
	res, err := textResult(out)
	return res, out, err
}

func handleArchiveCluster(ctx context.Context, req *mcp.CallToolRequest, input ClusterIDInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	id, err := uuid.Parse(strings.TrimSpace(input.ClusterID))
	if err != nil {
		return nil, nil, errors.New("cluster_id must be a valid UUID")
	}

	archived, err := deps.Organizer.ArchiveCluster(deps.UserID, id)
	if err != nil {
		return nil, nil, err
	}

	out := map[string]interface{}{"archived": archived}
	res, err := textResult(out)
	return res, out, err
}

func handleDeleteCluster(ctx context.Context, req *mcp.CallToolRequest, input ClusterIDInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	id, err := uuid.Parse(strings.TrimSpace(input.ClusterID))
	if err != nil {
		return nil, nil, errors.New("cluster_id must be a valid UUID")
	}

	if err := deps.Organizer.DeleteCluster(deps.UserID, id); err != nil {
		return nil, nil, err
	}

	out := map[string]interface{}{"message": "Cluster deleted successfully"}
	res, err := textResult(out)
	return res, out, err
}
