// Package organizer implements the thought organization engine: batch
// clustering, incremental cluster extension, connection discovery,
// completion tracking and cluster lifecycle operations.
package organizer

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backpackerjohn/braindump/internal/ai"
	"github.com/backpackerjohn/braindump/internal/config"
	"github.com/backpackerjohn/braindump/internal/repository"
)

// GroupingService is the AI boundary the engine consumes. Implementations
// must return a distinct malformed-response error when the service answers
// with something that does not decode; a valid empty result is not an error.
type GroupingService interface {
	ProposeClusters(ctx context.Context, thoughts []ai.ThoughtInput, existingNames []string) ([]ai.ProposedCluster, error)
	SelectRelated(ctx context.Context, exemplars []string, candidates []ai.ThoughtInput) ([]string, error)
	SuggestConnections(ctx context.Context, candidates []ai.ConnectionCandidate) ([]ai.IndexedConnection, error)
}

// Organizer wires the store and the grouping service together. Instances
// hold no per-run state; the cluster-name accumulator of a clustering run
// lives on the run's stack and cannot leak across concurrent runs.
type Organizer struct {
	store *repository.Store
	ai    GroupingService
	cfg   config.OrganizerConfig
	log   *zap.Logger
}

// New creates an Organizer.
func New(store *repository.Store, grouping GroupingService, cfg config.OrganizerConfig, log *zap.Logger) *Organizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Organizer{store: store, ai: grouping, cfg: cfg, log: log}
}

// Store exposes the underlying store for transports that serve plain reads.
func (o *Organizer) Store() *repository.Store {
	return o.store
}

// Config exposes the engine thresholds.
func (o *Organizer) Config() config.OrganizerConfig {
	return o.cfg
}

// ClusterReport is the outcome of a clustering run. A below-threshold or
// no-proposals run is a valid report, not an error.
type ClusterReport struct {
	// Created holds the ids of clusters newly created by this run. Proposals
	// merged into pre-existing clusters do not appear here.
	Created []uuid.UUID `json:"created"`
	// LinkedThoughts counts the member links submitted across all proposals.
	LinkedThoughts int `json:"linked_thoughts"`
	// FailedClusters counts proposals whose persistence failed and was
	// skipped. Surfaced rather than swallowed.
	FailedClusters int `json:"failed_clusters"`
	// UnclusteredCount is the pool size observed at the start of the run.
	UnclusteredCount int    `json:"unclustered_count"`
	Message          string `json:"message"`
}

// ExtendReport is the outcome of a cluster extension run.
type ExtendReport struct {
	// Linked holds the validated thought ids linked to the cluster.
	Linked  []uuid.UUID `json:"linked"`
	Message string      `json:"message"`
}

// ConnectionSide describes one endpoint of a discovered connection.
type ConnectionSide struct {
	Title      string   `json:"title"`
	Categories []string `json:"categories"`
	// IsCompleted is always false at computation time: connections are only
	// computed over incomplete thoughts. Consumers re-derive it live.
	IsCompleted bool `json:"is_completed"`
}

// Connection is a discovered pairwise relationship between two thoughts.
type Connection struct {
	Thought1ID uuid.UUID      `json:"thought1_id"`
	Thought2ID uuid.UUID      `json:"thought2_id"`
	Thought1   ConnectionSide `json:"thought1"`
	Thought2   ConnectionSide `json:"thought2"`
	Reason     string         `json:"reason"`
}

// ConnectionReport is the outcome of a connection discovery run.
type ConnectionReport struct {
	Connections []Connection `json:"connections"`
	Message     string       `json:"message,omitempty"`
}
