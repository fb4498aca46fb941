package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThoughtStatus represents the lifecycle state of a thought
type ThoughtStatus string

const (
	ThoughtStatusActive   ThoughtStatus = "active"
	ThoughtStatusArchived ThoughtStatus = "archived"
)

// Thought is an atomic captured idea owned by a user. Content is immutable
// once created; only the derived title and snippet may be edited later.
type Thought struct {
	ID          uuid.UUID     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID     `json:"user_id" gorm:"not null;type:uuid;index:idx_thoughts_user_status"`
	Content     string        `json:"content" gorm:"not null"`
	Title       string        `json:"title" gorm:"not null"`
	Snippet     *string       `json:"snippet,omitempty"`
	Status      ThoughtStatus `json:"status" gorm:"not null;type:varchar(20);default:active;index:idx_thoughts_user_status"`
	IsCompleted bool          `json:"is_completed" gorm:"not null;default:false"`
	CreatedAt   time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	// Many-to-Many Relations
	Categories []*Category `json:"categories,omitempty" gorm:"many2many:thought_categories"`
	Clusters   []*Cluster  `json:"clusters,omitempty" gorm:"many2many:thought_clusters"`
}

// Category is an owner-scoped label. Names are stored case-sensitively;
// reuse lookups match case-insensitively.
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID `json:"user_id" gorm:"not null;type:uuid;uniqueIndex:idx_categories_user_name"`
	Name      string    `json:"name" gorm:"not null;type:varchar(50);uniqueIndex:idx_categories_user_name"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Cluster is a named grouping of thematically related thoughts. Names are
// not globally unique, but (user_id, name) acts as the natural key the
// clustering merge algorithm extends instead of duplicating.
type Cluster struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID `json:"user_id" gorm:"not null;type:uuid;index:idx_clusters_user"`
	Name      string    `json:"name" gorm:"not null;type:varchar(100)"`
	IsManual  bool      `json:"is_manual" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Thoughts []*Thought `json:"thoughts,omitempty" gorm:"many2many:thought_clusters"`
}

// ThoughtCategory links a thought to a category. The composite unique index
// is what makes link inserts idempotent under concurrent callers.
type ThoughtCategory struct {
	ThoughtID  uuid.UUID `json:"thought_id" gorm:"primaryKey;type:uuid"`
	CategoryID uuid.UUID `json:"category_id" gorm:"primaryKey;type:uuid"`

	Thought  *Thought  `json:"thought,omitempty" gorm:"foreignKey:ThoughtID;constraint:OnDelete:CASCADE"`
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// ThoughtCluster links a thought to a cluster. A thought with zero rows here
// is a member of the unclustered pool.
type ThoughtCluster struct {
	ThoughtID uuid.UUID `json:"thought_id" gorm:"primaryKey;type:uuid"`
	ClusterID uuid.UUID `json:"cluster_id" gorm:"primaryKey;type:uuid"`

	Thought *Thought `json:"thought,omitempty" gorm:"foreignKey:ThoughtID;constraint:OnDelete:CASCADE"`
	Cluster *Cluster `json:"cluster,omitempty" gorm:"foreignKey:ClusterID;constraint:OnDelete:CASCADE"`
}

// UUIDs are generated app-side so the models work unchanged against both
// postgres and the sqlite test store.

func (t *Thought) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Cluster) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM
func (ThoughtCategory) TableName() string {
	return "thought_categories"
}

// TableName specifies the table name for GORM
func (ThoughtCluster) TableName() string {
	return "thought_clusters"
}
