package organizer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backpackerjohn/braindump/internal/ai"
	"github.com/backpackerjohn/braindump/internal/models"
)

// GenerateClusters runs the batch clustering pipeline for an owner:
// threshold gate, chunked sequential analysis, merge-by-name against
// persisted clusters, and idempotent member linking. Callers are responsible
// for ensuring at most one run per owner at a time.
func (o *Organizer) GenerateClusters(ctx context.Context, userID uuid.UUID) (*ClusterReport, error) {
	pool, err := o.store.UnclusteredActiveThoughts(userID)
	if err != nil {
		return nil, err
	}

	report := &ClusterReport{UnclusteredCount: len(pool)}

	if len(pool) < o.cfg.MinThoughtsForClustering {
		report.Message = fmt.Sprintf(
			"Need at least %d unclustered thoughts to generate clusters. You currently have %d.",
			o.cfg.MinThoughtsForClustering, len(pool))
		return report, nil
	}

	inputs := make([]ai.ThoughtInput, 0, len(pool))
	known := make(map[string]uuid.UUID, len(pool))
	for _, t := range pool {
		inputs = append(inputs, ai.ThoughtInput{ID: t.ID.String(), Text: t.Content})
		known[t.ID.String()] = t.ID
	}

	chunks := chunkThoughts(inputs, o.cfg.ChunkSize)
	o.log.Info("clustering run started",
		zap.String("user_id", userID.String()),
		zap.Int("unclustered", len(pool)),
		zap.Int("chunks", len(chunks)))

	// Chunks are processed strictly sequentially: each chunk's request
	// carries the cluster names accumulated from earlier chunks so the
	// service reuses them instead of minting near-duplicates. The
	// accumulator is local to this run.
	var accepted []ai.ProposedCluster
	var names []string
	for i, chunk := range chunks {
		proposals, err := o.ai.ProposeClusters(ctx, chunk, names)
		if err != nil {
			// A grouping-service failure aborts the run; no partial silent
			// success.
			return nil, err
		}
		for _, p := range proposals {
			if p.ClusterName == "" || len(p.ThoughtIDs) < 2 {
				continue
			}
			accepted = append(accepted, p)
			names = append(names, p.ClusterName)
		}
		o.log.Debug("chunk processed",
			zap.Int("chunk", i+1),
			zap.Int("proposals", len(proposals)),
			zap.Int("accepted_total", len(accepted)))
	}

	if len(accepted) == 0 {
		report.Message = "No strong thematic connections found among your thoughts. Try adding more thoughts or wait until you have more diverse content."
		return report, nil
	}

	for _, proposal := range accepted {
		memberIDs := resolveMembers(proposal.ThoughtIDs, known)
		if len(memberIDs) < 2 {
			o.log.Warn("proposal dropped after id validation",
				zap.String("cluster_name", proposal.ClusterName),
				zap.Int("returned", len(proposal.ThoughtIDs)),
				zap.Int("valid", len(memberIDs)))
			continue
		}

		// Each proposal persists independently: a failure here is counted
		// and skipped, committed siblings are untouched.
		target, err := o.store.FindClusterByName(userID, proposal.ClusterName)
		if err != nil {
			o.log.Error("cluster lookup failed",
				zap.String("cluster_name", proposal.ClusterName), zap.Error(err))
			report.FailedClusters++
			continue
		}
		if target == nil {
			target = &models.Cluster{UserID: userID, Name: proposal.ClusterName, IsManual: false}
			if err := o.store.CreateCluster(target); err != nil {
				o.log.Error("cluster create failed",
					zap.String("cluster_name", proposal.ClusterName), zap.Error(err))
				report.FailedClusters++
				continue
			}
			report.Created = append(report.Created, target.ID)
		}

		if err := o.store.LinkThoughtsToCluster(memberIDs, target.ID); err != nil {
			o.log.Error("cluster linking failed",
				zap.String("cluster_id", target.ID.String()), zap.Error(err))
			report.FailedClusters++
			continue
		}
		report.LinkedThoughts += len(memberIDs)
	}

	report.Message = clusteringMessage(len(report.Created), report.FailedClusters)
	o.log.Info("clustering run finished",
		zap.String("user_id", userID.String()),
		zap.Int("created", len(report.Created)),
		zap.Int("linked", report.LinkedThoughts),
		zap.Int("failed", report.FailedClusters))
	return report, nil
}

// chunkThoughts partitions inputs into fixed-size chunks to bound the
// payload sent to the grouping service per call.
func chunkThoughts(inputs []ai.ThoughtInput, size int) [][]ai.ThoughtInput {
	if size <= 0 {
		size = len(inputs)
	}
	var chunks [][]ai.ThoughtInput
	for start := 0; start < len(inputs); start += size {
		end := start + size
		if end > len(inputs) {
			end = len(inputs)
		}
		chunks = append(chunks, inputs[start:end])
	}
	return chunks
}

// resolveMembers maps returned identifiers back to the run's pool, silently
// dropping anything the service made up.
func resolveMembers(returned []string, known map[string]uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(returned))
	seen := make(map[uuid.UUID]bool, len(returned))
	for _, raw := range returned {
		id, ok := known[raw]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func clusteringMessage(created, failed int) string {
	plural := "s"
	if created == 1 {
		plural = ""
	}
	msg := fmt.Sprintf("Successfully organized your thoughts into %d cluster%s.", created, plural)
	if failed > 0 {
		msg += fmt.Sprintf(" %d cluster(s) could not be saved.", failed)
	}
	return msg
}
