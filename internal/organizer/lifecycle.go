package organizer

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backpackerjohn/braindump/internal/apperrors"
	"github.com/backpackerjohn/braindump/internal/models"
)

// CreateManualCluster creates a user-named cluster. The name is sanitized
// before persistence; a name that is empty after sanitization is rejected.
func (o *Organizer) CreateManualCluster(userID uuid.UUID, name string) (*models.Cluster, error) {
	sanitized := SanitizeName(name, o.cfg.ClusterNameMax)
	if sanitized == "" {
		return nil, apperrors.New(apperrors.KindValidation, "Cluster name cannot be empty")
	}

	cluster := &models.Cluster{UserID: userID, Name: sanitized, IsManual: true}
	if err := o.store.CreateCluster(cluster); err != nil {
		return nil, err
	}
	return cluster, nil
}

// RenameCluster updates a cluster's name after sanitization.
func (o *Organizer) RenameCluster(userID, clusterID uuid.UUID, newName string) (*models.Cluster, error) {
	sanitized := SanitizeName(newName, o.cfg.ClusterNameMax)
	if sanitized == "" {
		return nil, apperrors.New(apperrors.KindValidation, "Cluster name cannot be empty")
	}

	cluster, err := o.ownedCluster(userID, clusterID)
	if err != nil {
		return nil, err
	}
	if err := o.store.RenameCluster(cluster.ID, sanitized); err != nil {
		return nil, err
	}
	cluster.Name = sanitized
	return cluster, nil
}

// ArchiveCluster transitions every thought linked to the cluster to
// archived. The cluster row and its links stay intact; archival is a
// thought-status operation, not a structural one. Individual update
// failures are surfaced together, not swallowed.
func (o *Organizer) ArchiveCluster(userID, clusterID uuid.UUID) (int, error) {
	if _, err := o.ownedCluster(userID, clusterID); err != nil {
		return 0, err
	}

	members, err := o.store.ClusterMembers(clusterID)
	if err != nil {
		return 0, err
	}

	archived := 0
	var failures []error
	for _, t := range members {
		if err := o.store.UpdateThoughtStatus(userID, t.ID, models.ThoughtStatusArchived); err != nil {
			o.log.Error("archiving thought failed",
				zap.String("thought_id", t.ID.String()), zap.Error(err))
			failures = append(failures, err)
			continue
		}
		archived++
	}
	if len(failures) > 0 {
		return archived, apperrors.Wrap(errors.Join(failures...), apperrors.KindStore,
			"some thoughts could not be archived")
	}
	return archived, nil
}

// DeleteCluster removes the cluster and all of its links. The linked
// thoughts are never deleted or archived by this operation.
func (o *Organizer) DeleteCluster(userID, clusterID uuid.UUID) error {
	if _, err := o.ownedCluster(userID, clusterID); err != nil {
		return err
	}
	return o.store.DeleteCluster(clusterID)
}

// AddThoughtToCluster links one thought manually. Idempotent. Both sides of
// the link must belong to the caller.
func (o *Organizer) AddThoughtToCluster(userID, thoughtID, clusterID uuid.UUID) error {
	if _, err := o.ownedCluster(userID, clusterID); err != nil {
		return err
	}
	if _, err := o.ownedThought(userID, thoughtID); err != nil {
		return err
	}
	return o.store.LinkThoughtsToCluster([]uuid.UUID{thoughtID}, clusterID)
}

// RemoveThoughtFromCluster unlinks one thought.
func (o *Organizer) RemoveThoughtFromCluster(userID, thoughtID, clusterID uuid.UUID) error {
	if _, err := o.ownedCluster(userID, clusterID); err != nil {
		return err
	}
	return o.store.UnlinkThoughtFromCluster(thoughtID, clusterID)
}

// ownedCluster loads a cluster and verifies ownership. Foreign clusters
// surface as not-found so callers cannot tell a foreign id from a missing one.
func (o *Organizer) ownedCluster(userID, clusterID uuid.UUID) (*models.Cluster, error) {
	cluster, err := o.store.GetCluster(clusterID)
	if err != nil {
		return nil, err
	}
	if cluster.UserID != userID {
		return nil, apperrors.Newf(apperrors.KindNotFound, "cluster %s not found", clusterID)
	}
	return cluster, nil
}

// ownedThought loads a thought and verifies ownership, with the same
// not-found masking as ownedCluster.
func (o *Organizer) ownedThought(userID, thoughtID uuid.UUID) (*models.Thought, error) {
	thought, err := o.store.GetThought(thoughtID)
	if err != nil {
		return nil, err
	}
	if thought.UserID != userID {
		return nil, apperrors.Newf(apperrors.KindNotFound, "thought %s not found", thoughtID)
	}
	return thought, nil
}
