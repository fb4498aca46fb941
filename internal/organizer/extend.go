package organizer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backpackerjohn/braindump/internal/ai"
	"github.com/backpackerjohn/braindump/internal/apperrors"
)

// ExtendCluster asks the grouping service which unclustered thoughts match
// an existing cluster's theme and links the validated matches. The cluster
// needs at least two members to serve as exemplars.
func (o *Organizer) ExtendCluster(ctx context.Context, userID, clusterID uuid.UUID) (*ExtendReport, error) {
	cluster, err := o.store.GetCluster(clusterID)
	if err != nil {
		return nil, err
	}
	if cluster.UserID != userID {
		return nil, apperrors.Newf(apperrors.KindNotFound, "cluster %s not found", clusterID)
	}

	members, err := o.store.ClusterMembers(clusterID)
	if err != nil {
		return nil, err
	}
	if len(members) < 2 {
		return &ExtendReport{Message: "Need at least 2 thoughts in cluster to find related ones"}, nil
	}

	// The pool is computed fresh for every run; a stale cache here would
	// re-offer thoughts that were clustered meanwhile.
	pool, err := o.store.UnclusteredActiveThoughts(userID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return &ExtendReport{Message: "No unclustered thoughts available"}, nil
	}

	exemplars := make([]string, 0, len(members))
	for _, m := range members {
		exemplars = append(exemplars, m.Content)
	}

	candidates := make([]ai.ThoughtInput, 0, len(pool))
	known := make(map[string]uuid.UUID, len(pool))
	for _, t := range pool {
		candidates = append(candidates, ai.ThoughtInput{ID: t.ID.String(), Text: t.Content})
		known[t.ID.String()] = t.ID
	}

	returned, err := o.ai.SelectRelated(ctx, exemplars, candidates)
	if err != nil {
		return nil, err
	}

	// Drop anything outside the submitted candidate set: hallucinated or
	// stale identifiers must never reach the link table.
	validIDs := resolveMembers(returned, known)
	o.log.Info("cluster extension",
		zap.String("cluster_id", clusterID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(returned)),
		zap.Int("valid", len(validIDs)))

	if len(validIDs) == 0 {
		return &ExtendReport{Message: "No related thoughts found"}, nil
	}

	if err := o.store.LinkThoughtsToCluster(validIDs, clusterID); err != nil {
		return nil, err
	}

	plural := "s"
	if len(validIDs) == 1 {
		plural = ""
	}
	return &ExtendReport{
		Linked:  validIDs,
		Message: fmt.Sprintf("Found and added %d related thought%s", len(validIDs), plural),
	}, nil
}
