package organizer

import "github.com/backpackerjohn/braindump/internal/models"

// Completion is a cluster's derived progress.
type Completion struct {
	Completed        int  `json:"completed"`
	Total            int  `json:"total"`
	IsFullyCompleted bool `json:"is_fully_completed"`
}

// ClusterCompletion computes progress over a cluster's linked thoughts.
// Only active members count toward the denominator; archived ones are
// excluded entirely. A cluster with zero active members is never fully
// completed, so an empty or fully-archived cluster is not offered for
// archival.
func ClusterCompletion(thoughts []models.Thought) Completion {
	var total, completed int
	for _, t := range thoughts {
		if t.Status != models.ThoughtStatusActive {
			continue
		}
		total++
		if t.IsCompleted {
			completed++
		}
	}
	return Completion{
		Completed:        completed,
		Total:            total,
		IsFullyCompleted: total > 0 && completed == total,
	}
}
