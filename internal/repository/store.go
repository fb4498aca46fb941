// Package repository implements the thought store consumed by the
// organization engine: owner-scoped reads over thoughts, categories and
// clusters, plus idempotent batch writes for the link tables.
package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backpackerjohn/braindump/internal/apperrors"
	"github.com/backpackerjohn/braindump/internal/models"
)

// Store wraps the database handle with the queries the engine needs.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store over an already-connected database.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that compose their own queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// UnclusteredActiveThoughts returns the owner's active thoughts with zero
// cluster links. Always computed fresh against the link table.
func (s *Store) UnclusteredActiveThoughts(userID uuid.UUID) ([]models.Thought, error) {
	var thoughts []models.Thought
	err := s.db.
		Where("user_id = ? AND status = ?", userID, models.ThoughtStatusActive).
		Where("id NOT IN (?)", s.db.Model(&models.ThoughtCluster{}).Select("thought_id")).
		Order("created_at ASC").
		Find(&thoughts).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "loading unclustered thoughts")
	}
	return thoughts, nil
}

// ActiveIncompleteThoughts returns up to limit of the owner's active,
// incomplete thoughts with their categories preloaded.
func (s *Store) ActiveIncompleteThoughts(userID uuid.UUID, limit int) ([]models.Thought, error) {
	var thoughts []models.Thought
	err := s.db.
		Preload("Categories").
		Where("user_id = ? AND status = ? AND is_completed = ?", userID, models.ThoughtStatusActive, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&thoughts).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "loading incomplete thoughts")
	}
	return thoughts, nil
}

// ListThoughts returns the owner's thoughts with the given status, newest
// first, with categories preloaded.
func (s *Store) ListThoughts(userID uuid.UUID, status models.ThoughtStatus) ([]models.Thought, error) {
	var thoughts []models.Thought
	err := s.db.
		Preload("Categories").
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&thoughts).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "listing thoughts")
	}
	return thoughts, nil
}

// CreateThought inserts a new thought row.
func (s *Store) CreateThought(thought *models.Thought) error {
	if err := s.db.Create(thought).Error; err != nil {
		return apperrors.Wrap(err, apperrors.KindStore, "inserting thought")
	}
	return nil
}

// GetThought loads a thought with its categories.
func (s *Store) GetThought(thoughtID uuid.UUID) (*models.Thought, error) {
	var thought models.Thought
	err := s.db.Preload("Categories").First(&thought, "id = ?", thoughtID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.Newf(apperrors.KindNotFound, "thought %s not found", thoughtID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "loading thought")
	}
	return &thought, nil
}

// UpdateThoughtStatus flips a thought between active and archived. The
// update is owner-scoped: a thought belonging to someone else reports
// not-found instead of being touched.
func (s *Store) UpdateThoughtStatus(userID, thoughtID uuid.UUID, status models.ThoughtStatus) error {
	res := s.db.Model(&models.Thought{}).
		Where("id = ? AND user_id = ?", thoughtID, userID).
		Update("status", status)
	if res.Error != nil {
		return apperrors.Wrap(res.Error, apperrors.KindStore, "updating thought status")
	}
	if res.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "thought %s not found", thoughtID)
	}
	return nil
}

// SetThoughtCompleted toggles the completion flag on a thought. Owner-scoped
// like UpdateThoughtStatus.
func (s *Store) SetThoughtCompleted(userID, thoughtID uuid.UUID, completed bool) error {
	res := s.db.Model(&models.Thought{}).
		Where("id = ? AND user_id = ?", thoughtID, userID).
		Update("is_completed", completed)
	if res.Error != nil {
		return apperrors.Wrap(res.Error, apperrors.KindStore, "updating thought completion")
	}
	if res.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "thought %s not found", thoughtID)
	}
	return nil
}

// GetOrCreateCategory finds the owner's category by name, matching
// case-insensitively, and creates it when absent. The stored casing of an
// existing category wins over the incoming one.
func (s *Store) GetOrCreateCategory(userID uuid.UUID, name string) (*models.Category, error) {
	var category models.Category
	err := s.db.
		Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name)).
		First(&category).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "looking up category")
	}

	category = models.Category{UserID: userID, Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "creating category")
	}
	return &category, nil
}

// FindCategoryByName returns the owner's category matched case-insensitively,
// or nil when none exists.
func (s *Store) FindCategoryByName(userID uuid.UUID, name string) (*models.Category, error) {
	var category models.Category
	err := s.db.
		Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name)).
		First(&category).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "looking up category by name")
	}
	return &category, nil
}

// LinkThoughtToCategory inserts a thought-category link, ignoring duplicates.
func (s *Store) LinkThoughtToCategory(thoughtID, categoryID uuid.UUID) error {
	link := models.ThoughtCategory{ThoughtID: thoughtID, CategoryID: categoryID}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindStore, "linking thought to category")
	}
	return nil
}

// UnlinkThoughtFromCategory removes a thought-category link.
func (s *Store) UnlinkThoughtFromCategory(thoughtID, categoryID uuid.UUID) error {
	err := s.db.
		Where("thought_id = ? AND category_id = ?", thoughtID, categoryID).
		Delete(&models.ThoughtCategory{}).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindStore, "unlinking thought from category")
	}
	return nil
}

// FindClusterByName returns the owner's cluster with an exactly matching
// name, or nil when none exists.
func (s *Store) FindClusterByName(userID uuid.UUID, name string) (*models.Cluster, error) {
	var cluster models.Cluster
	err := s.db.Where("user_id = ? AND name = ?", userID, name).First(&cluster).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "looking up cluster by name")
	}
	return &cluster, nil
}

// GetCluster loads a cluster row by id.
func (s *Store) GetCluster(clusterID uuid.UUID) (*models.Cluster, error) {
	var cluster models.Cluster
	err := s.db.First(&cluster, "id = ?", clusterID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, apperrors.Newf(apperrors.KindNotFound, "cluster %s not found", clusterID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "loading cluster")
	}
	return &cluster, nil
}

// CreateCluster inserts a new cluster row.
func (s *Store) CreateCluster(cluster *models.Cluster) error {
	if err := s.db.Create(cluster).Error; err != nil {
		return apperrors.Wrap(err, apperrors.KindStore, "inserting cluster")
	}
	return nil
}

// RenameCluster updates a cluster's display name.
func (s *Store) RenameCluster(clusterID uuid.UUID, name string) error {
	res := s.db.Model(&models.Cluster{}).Where("id = ?", clusterID).Update("name", name)
	if res.Error != nil {
		return apperrors.Wrap(res.Error, apperrors.KindStore, "renaming cluster")
	}
	if res.RowsAffected == 0 {
		return apperrors.Newf(apperrors.KindNotFound, "cluster %s not found", clusterID)
	}
	return nil
}

// ListClusters returns the owner's clusters with member thoughts preloaded,
// newest first.
func (s *Store) ListClusters(userID uuid.UUID) ([]models.Cluster, error) {
	var clusters []models.Cluster
	err := s.db.
		Preload("Thoughts").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&clusters).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "listing clusters")
	}
	return clusters, nil
}

// ClusterMembers returns the thoughts linked to a cluster.
func (s *Store) ClusterMembers(clusterID uuid.UUID) ([]models.Thought, error) {
	var thoughts []models.Thought
	err := s.db.
		Joins("JOIN thought_clusters ON thought_clusters.thought_id = thoughts.id").
		Where("thought_clusters.cluster_id = ?", clusterID).
		Find(&thoughts).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindStore, "loading cluster members")
	}
	return thoughts, nil
}

// LinkThoughtsToCluster inserts the (thought, cluster) links in one batched
// write, ignoring pairs that already exist.
func (s *Store) LinkThoughtsToCluster(thoughtIDs []uuid.UUID, clusterID uuid.UUID) error {
	if len(thoughtIDs) == 0 {
		return nil
	}
	links := make([]models.ThoughtCluster, 0, len(thoughtIDs))
	for _, id := range thoughtIDs {
		links = append(links, models.ThoughtCluster{ThoughtID: id, ClusterID: clusterID})
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindStore, "linking thoughts to cluster")
	}
	return nil
}

// UnlinkThoughtFromCluster removes a single thought-cluster link.
func (s *Store) UnlinkThoughtFromCluster(thoughtID, clusterID uuid.UUID) error {
	err := s.db.
		Where("thought_id = ? AND cluster_id = ?", thoughtID, clusterID).
		Delete(&models.ThoughtCluster{}).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindStore, "unlinking thought from cluster")
	}
	return nil
}

// DeleteCluster removes a cluster and its links in one transaction. Link rows
// go first so the parent row never dangles; the thoughts themselves are
// never touched.
func (s *Store) DeleteCluster(clusterID uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cluster_id = ?", clusterID).Delete(&models.ThoughtCluster{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cluster{}, "id = ?", clusterID).Error
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindStore, "deleting cluster")
	}
	return nil
}

// CountThoughtClusterLinks reports how many link rows reference a cluster.
func (s *Store) CountThoughtClusterLinks(clusterID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.ThoughtCluster{}).Where("cluster_id = ?", clusterID).Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.KindStore, "counting cluster links")
	}
	return count, nil
}
