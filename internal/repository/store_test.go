package repository

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/backpackerjohn/braindump/internal/apperrors"
	"github.com/backpackerjohn/braindump/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return NewStore(db)
}

func mustThought(t *testing.T, store *Store, userID uuid.UUID, content string) models.Thought {
	t.Helper()
	thought := models.Thought{
		UserID:  userID,
		Content: content,
		Title:   content,
		Status:  models.ThoughtStatusActive,
	}
	if err := store.CreateThought(&thought); err != nil {
		t.Fatalf("CreateThought() error = %v", err)
	}
	return thought
}

func TestLinkThoughtsToClusterIdempotent(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()

	cluster := &models.Cluster{UserID: userID, Name: "Theme"}
	if err := store.CreateCluster(cluster); err != nil {
		t.Fatalf("CreateCluster() error = %v", err)
	}
	a := mustThought(t, store, userID, "a")
	b := mustThought(t, store, userID, "b")

	ids := []uuid.UUID{a.ID, b.ID}
	if err := store.LinkThoughtsToCluster(ids, cluster.ID); err != nil {
		t.Fatalf("LinkThoughtsToCluster() error = %v", err)
	}
	// Re-linking the same and an overlapping batch must be a no-op.
	if err := store.LinkThoughtsToCluster(ids, cluster.ID); err != nil {
		t.Fatalf("LinkThoughtsToCluster() second call error = %v", err)
	}
	if err := store.LinkThoughtsToCluster([]uuid.UUID{b.ID}, cluster.ID); err != nil {
		t.Fatalf("LinkThoughtsToCluster() overlap error = %v", err)
	}

	count, err := store.CountThoughtClusterLinks(cluster.ID)
	if err != nil {
		t.Fatalf("CountThoughtClusterLinks() error = %v", err)
	}
	if count != 2 {
		t.Errorf("links = %d, want 2", count)
	}
}

func TestLinkThoughtsToClusterEmptyBatch(t *testing.T) {
	store := openTestStore(t)
	if err := store.LinkThoughtsToCluster(nil, uuid.New()); err != nil {
		t.Errorf("LinkThoughtsToCluster(nil) error = %v, want nil", err)
	}
}

func TestGetOrCreateCategoryCaseInsensitive(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()

	first, err := store.GetOrCreateCategory(userID, "Work")
	if err != nil {
		t.Fatalf("GetOrCreateCategory() error = %v", err)
	}
	second, err := store.GetOrCreateCategory(userID, "work")
	if err != nil {
		t.Fatalf("GetOrCreateCategory() error = %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("case variants produced distinct categories: %s vs %s", first.ID, second.ID)
	}
	if second.Name != "Work" {
		t.Errorf("stored casing = %q, want %q (first write wins)", second.Name, "Work")
	}

	// A different owner gets their own row.
	other, err := store.GetOrCreateCategory(uuid.New(), "work")
	if err != nil {
		t.Fatalf("GetOrCreateCategory() error = %v", err)
	}
	if other.ID == first.ID {
		t.Error("categories are not owner-scoped")
	}
}

func TestFindCategoryByName(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()
	if _, err := store.GetOrCreateCategory(userID, "Health"); err != nil {
		t.Fatalf("GetOrCreateCategory() error = %v", err)
	}

	found, err := store.FindCategoryByName(userID, "health")
	if err != nil || found == nil {
		t.Fatalf("FindCategoryByName() = %v, %v, want case-insensitive match", found, err)
	}
	miss, err := store.FindCategoryByName(userID, "Finance")
	if err != nil {
		t.Fatalf("FindCategoryByName() error = %v", err)
	}
	if miss != nil {
		t.Errorf("miss = %v, want nil", miss)
	}
}

func TestUnclusteredActiveThoughts(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()

	loose := mustThought(t, store, userID, "loose")
	clustered := mustThought(t, store, userID, "clustered")
	archived := mustThought(t, store, userID, "archived")
	if err := store.UpdateThoughtStatus(userID, archived.ID, models.ThoughtStatusArchived); err != nil {
		t.Fatalf("UpdateThoughtStatus() error = %v", err)
	}
	mustThought(t, store, uuid.New(), "someone else's")

	cluster := &models.Cluster{UserID: userID, Name: "Theme"}
	if err := store.CreateCluster(cluster); err != nil {
		t.Fatalf("CreateCluster() error = %v", err)
	}
	if err := store.LinkThoughtsToCluster([]uuid.UUID{clustered.ID}, cluster.ID); err != nil {
		t.Fatalf("LinkThoughtsToCluster() error = %v", err)
	}

	pool, err := store.UnclusteredActiveThoughts(userID)
	if err != nil {
		t.Fatalf("UnclusteredActiveThoughts() error = %v", err)
	}
	if len(pool) != 1 || pool[0].ID != loose.ID {
		t.Errorf("pool = %v, want exactly [%s]", pool, loose.ID)
	}
}

func TestUpdateThoughtStatusNotFound(t *testing.T) {
	store := openTestStore(t)
	err := store.UpdateThoughtStatus(uuid.New(), uuid.New(), models.ThoughtStatusArchived)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("kind = %v, want %v", apperrors.KindOf(err), apperrors.KindNotFound)
	}
}

func TestSetThoughtCompletedNotFound(t *testing.T) {
	store := openTestStore(t)
	err := store.SetThoughtCompleted(uuid.New(), uuid.New(), true)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("kind = %v, want %v", apperrors.KindOf(err), apperrors.KindNotFound)
	}
}

func TestThoughtUpdatesAreOwnerScoped(t *testing.T) {
	store := openTestStore(t)
	owner := uuid.New()
	stranger := uuid.New()
	th := mustThought(t, store, owner, "private")

	err := store.UpdateThoughtStatus(stranger, th.ID, models.ThoughtStatusArchived)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("UpdateThoughtStatus() kind = %v, want %v", apperrors.KindOf(err), apperrors.KindNotFound)
	}
	err = store.SetThoughtCompleted(stranger, th.ID, true)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("SetThoughtCompleted() kind = %v, want %v", apperrors.KindOf(err), apperrors.KindNotFound)
	}

	got, err := store.GetThought(th.ID)
	if err != nil {
		t.Fatalf("GetThought() error = %v", err)
	}
	if got.Status != models.ThoughtStatusActive || got.IsCompleted {
		t.Errorf("thought mutated by a stranger: status=%q completed=%v", got.Status, got.IsCompleted)
	}
}

func TestFindClusterByNameMissing(t *testing.T) {
	store := openTestStore(t)
	cluster, err := store.FindClusterByName(uuid.New(), "nope")
	if err != nil {
		t.Fatalf("FindClusterByName() error = %v", err)
	}
	if cluster != nil {
		t.Errorf("cluster = %v, want nil", cluster)
	}
}

func TestFindClusterByNameExactMatch(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()
	if err := store.CreateCluster(&models.Cluster{UserID: userID, Name: "Fitness Goals"}); err != nil {
		t.Fatalf("CreateCluster() error = %v", err)
	}

	found, err := store.FindClusterByName(userID, "Fitness Goals")
	if err != nil || found == nil {
		t.Fatalf("FindClusterByName() = %v, %v, want match", found, err)
	}
	// Merge lookups are exact, not case-insensitive.
	miss, err := store.FindClusterByName(userID, "fitness goals")
	if err != nil {
		t.Fatalf("FindClusterByName() error = %v", err)
	}
	if miss != nil {
		t.Errorf("lowercase lookup = %v, want nil", miss)
	}
}

func TestActiveIncompleteThoughtsLimit(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()
	for i := 0; i < 5; i++ {
		mustThought(t, store, userID, "thought")
	}
	done := mustThought(t, store, userID, "done")
	if err := store.SetThoughtCompleted(userID, done.ID, true); err != nil {
		t.Fatalf("SetThoughtCompleted() error = %v", err)
	}

	thoughts, err := store.ActiveIncompleteThoughts(userID, 3)
	if err != nil {
		t.Fatalf("ActiveIncompleteThoughts() error = %v", err)
	}
	if len(thoughts) != 3 {
		t.Errorf("thoughts = %d, want 3 (limit)", len(thoughts))
	}
	for _, th := range thoughts {
		if th.IsCompleted {
			t.Error("completed thought returned")
		}
	}
}

func TestDeleteClusterTransactional(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()

	cluster := &models.Cluster{UserID: userID, Name: "Theme"}
	if err := store.CreateCluster(cluster); err != nil {
		t.Fatalf("CreateCluster() error = %v", err)
	}
	th := mustThought(t, store, userID, "member")
	if err := store.LinkThoughtsToCluster([]uuid.UUID{th.ID}, cluster.ID); err != nil {
		t.Fatalf("LinkThoughtsToCluster() error = %v", err)
	}

	if err := store.DeleteCluster(cluster.ID); err != nil {
		t.Fatalf("DeleteCluster() error = %v", err)
	}

	if _, err := store.GetCluster(cluster.ID); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("GetCluster() kind = %v, want %v", apperrors.KindOf(err), apperrors.KindNotFound)
	}
	count, err := store.CountThoughtClusterLinks(cluster.ID)
	if err != nil {
		t.Fatalf("CountThoughtClusterLinks() error = %v", err)
	}
	if count != 0 {
		t.Errorf("links = %d, want 0", count)
	}
}
