package organizer

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backpackerjohn/braindump/internal/ai"
	"github.com/backpackerjohn/braindump/internal/models"
)

const snippetFallbackLen = 150

// FindConnections asks the grouping service for surprising pairwise
// relationships between the owner's active, incomplete thoughts. The
// analyzed sample and the returned list are both capped by configuration.
func (o *Organizer) FindConnections(ctx context.Context, userID uuid.UUID) (*ConnectionReport, error) {
	thoughts, err := o.store.ActiveIncompleteThoughts(userID, o.cfg.ConnectionFetchLimit)
	if err != nil {
		return nil, err
	}
	if len(thoughts) < 2 {
		return &ConnectionReport{Message: "Need at least 2 thoughts to find connections"}, nil
	}

	if len(thoughts) > o.cfg.ConnectionAnalyzeLimit {
		thoughts = thoughts[:o.cfg.ConnectionAnalyzeLimit]
	}

	candidates := make([]ai.ConnectionCandidate, 0, len(thoughts))
	for _, t := range thoughts {
		candidates = append(candidates, ai.ConnectionCandidate{
			Title:      t.Title,
			Snippet:    summarize(t),
			Categories: categoryNames(t),
		})
	}

	suggestions, err := o.ai.SuggestConnections(ctx, candidates)
	if err != nil {
		return nil, err
	}

	report := &ConnectionReport{Connections: []Connection{}}
	for _, s := range suggestions {
		// Bounds defense: the service addresses thoughts by index and may
		// invent indices that were never submitted.
		if s.Thought1Index == nil || s.Thought2Index == nil {
			continue
		}
		i, j := *s.Thought1Index, *s.Thought2Index
		if i < 0 || i >= len(thoughts) || j < 0 || j >= len(thoughts) {
			o.log.Warn("connection index out of range",
				zap.Int("thought1_index", i),
				zap.Int("thought2_index", j),
				zap.Int("analyzed", len(thoughts)))
			continue
		}

		report.Connections = append(report.Connections, Connection{
			Thought1ID: thoughts[i].ID,
			Thought2ID: thoughts[j].ID,
			Thought1: ConnectionSide{
				Title:      thoughts[i].Title,
				Categories: categoryNames(thoughts[i]),
			},
			Thought2: ConnectionSide{
				Title:      thoughts[j].Title,
				Categories: categoryNames(thoughts[j]),
			},
			Reason: s.Reason,
		})
		if len(report.Connections) >= o.cfg.ConnectionReportLimit {
			break
		}
	}

	o.log.Info("connection discovery finished",
		zap.String("user_id", userID.String()),
		zap.Int("analyzed", len(thoughts)),
		zap.Int("suggested", len(suggestions)),
		zap.Int("reported", len(report.Connections)))
	return report, nil
}

func summarize(t models.Thought) string {
	if t.Snippet != nil && *t.Snippet != "" {
		return *t.Snippet
	}
	runes := []rune(t.Content)
	if len(runes) > snippetFallbackLen {
		return string(runes[:snippetFallbackLen])
	}
	return t.Content
}

func categoryNames(t models.Thought) []string {
	names := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		names = append(names, c.Name)
	}
	return names
}
