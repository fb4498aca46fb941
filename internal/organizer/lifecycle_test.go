package organizer

import (
	"testing"

	"github.com/google/uuid"

	"github.com/backpackerjohn/braindump/internal/apperrors"
	"github.com/backpackerjohn/braindump/internal/config"
	"github.com/backpackerjohn/braindump/internal/models"
)

func TestCreateManualCluster(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()
	org := New(store, &fakeGrouping{}, config.DefaultOrganizer(), nil)

	cluster, err := org.CreateManualCluster(userID, "  <b>Errands</b>  ")
	if err != nil {
		t.Fatalf("CreateManualCluster() error = %v", err)
	}
	if cluster.Name != "Errands" {
		t.Errorf("Name = %q, want %q", cluster.Name, "Errands")
	}
	if !cluster.IsManual {
		t.Error("IsManual = false, want true")
	}
}

func TestCreateManualClusterEmptyName(t *testing.T) {
	store := openTestStore(t)
	org := New(store, &fakeGrouping{}, config.DefaultOrganizer(), nil)

	for _, input := range []string{"", "   ", "<img src=x>"} {
		_, err := org.CreateManualCluster(uuid.New(), input)
		if apperrors.KindOf(err) != apperrors.KindValidation {
			t.Errorf("CreateManualCluster(%q) kind = %v, want %v", input, apperrors.KindOf(err), apperrors.KindValidation)
		}
		if err != nil && apperrors.UserMessage(err) != "Cluster name cannot be empty" {
			t.Errorf("CreateManualCluster(%q) message = %q", input, apperrors.UserMessage(err))
		}
	}
}

func TestRenameCluster(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()
	org := New(store, &fakeGrouping{}, config.DefaultOrganizer(), nil)

	cluster, err := org.CreateManualCluster(userID, "Old Name")
	if err != nil {
		t.Fatalf("CreateManualCluster() error = %v", err)
	}

	renamed, err := org.RenameCluster(userID, cluster.ID, "  New <i>Name</i>  ")
	if err != nil {
		t.Fatalf("RenameCluster() error = %v", err)
	}
	if renamed.Name != "New Name" {
		t.Errorf("Name = %q, want %q", renamed.Name, "New Name")
	}

	reloaded, err := store.GetCluster(cluster.ID)
	if err != nil {
		t.Fatalf("GetCluster() error = %v", err)
	}
	if reloaded.Name != "New Name" {
		t.Errorf("persisted Name = %q, want %q", reloaded.Name, "New Name")
	}
}

func TestArchiveCluster(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()
	org := New(store, &fakeGrouping{}, config.DefaultOrganizer(), nil)

	cluster, err := org.CreateManualCluster(userID, "Done Project")
	if err != nil {
		t.Fatalf("CreateManualCluster() error = %v", err)
	}
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		th := seedThought(t, store, userID, "member")
		ids = append(ids, th.ID)
	}
	if err := store.LinkThoughtsToCluster(ids, cluster.ID); err != nil {
		t.Fatalf("LinkThoughtsToCluster() error = %v", err)
	}

	archived, err := org.ArchiveCluster(userID, cluster.ID)
	if err != nil {
		t.Fatalf("ArchiveCluster() error = %v", err)
	}
	if archived != 3 {
		t.Errorf("archived = %d, want 3", archived)
	}

	// Cluster and links survive; only thought status flips.
	if _, err := store.GetCluster(cluster.ID); err != nil {
		t.Errorf("cluster disappeared after archive: %v", err)
	}
	count, err := store.CountThoughtClusterLinks(cluster.ID)
	if err != nil {
		t.Fatalf("CountThoughtClusterLinks() error = %v", err)
	}
	if count != 3 {
		t.Errorf("links after archive = %d, want 3", count)
	}
	archivedThoughts, err := store.ListThoughts(userID, models.ThoughtStatusArchived)
	if err != nil {
		t.Fatalf("ListThoughts() error = %v", err)
	}
	if len(archivedThoughts) != 3 {
		t.Errorf("archived thoughts = %d, want 3", len(archivedThoughts))
	}
}

func TestDeleteClusterKeepsThoughts(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()
	org := New(store, &fakeGrouping{}, config.DefaultOrganizer(), nil)

	cluster, err := org.CreateManualCluster(userID, "To Delete")
	if err != nil {
		t.Fatalf("CreateManualCluster() error = %v", err)
	}
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		th := seedThought(t, store, userID, "member")
		ids = append(ids, th.ID)
	}
	if err := store.LinkThoughtsToCluster(ids, cluster.ID); err != nil {
		t.Fatalf("LinkThoughtsToCluster() error = %v", err)
	}

	if err := org.DeleteCluster(userID, cluster.ID); err != nil {
		t.Fatalf("DeleteCluster() error = %v", err)
	}

	if _, err := store.GetCluster(cluster.ID); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("GetCluster() after delete kind = %v, want %v", apperrors.KindOf(err), apperrors.KindNotFound)
	}
	count, err := store.CountThoughtClusterLinks(cluster.ID)
	if err != nil {
		t.Fatalf("CountThoughtClusterLinks() error = %v", err)
	}
	if count != 0 {
		t.Errorf("links after delete = %d, want 0", count)
	}
	thoughts, err := store.ListThoughts(userID, models.ThoughtStatusActive)
	if err != nil {
		t.Fatalf("ListThoughts() error = %v", err)
	}
	if len(thoughts) != 5 {
		t.Errorf("thoughts after delete = %d, want 5 (never deleted with cluster)", len(thoughts))
	}
}

func TestAddRemoveThought(t *testing.T) {
	store := openTestStore(t)
	userID := uuid.New()
	org := New(store, &fakeGrouping{}, config.DefaultOrganizer(), nil)

	cluster, err := org.CreateManualCluster(userID, "Manual")
	if err != nil {
		t.Fatalf("CreateManualCluster() error = %v", err)
	}
	th := seedThought(t, store, userID, "loose thought")

	// Adding twice must not duplicate the link.
	if err := org.AddThoughtToCluster(userID, th.ID, cluster.ID); err != nil {
		t.Fatalf("AddThoughtToCluster() error = %v", err)
	}
	if err := org.AddThoughtToCluster(userID, th.ID, cluster.ID); err != nil {
		t.Fatalf("AddThoughtToCluster() second call error = %v", err)
	}
	count, err := store.CountThoughtClusterLinks(cluster.ID)
	if err != nil {
		t.Fatalf("CountThoughtClusterLinks() error = %v", err)
	}
	if count != 1 {
		t.Errorf("links = %d, want 1", count)
	}

	if err := org.RemoveThoughtFromCluster(userID, th.ID, cluster.ID); err != nil {
		t.Fatalf("RemoveThoughtFromCluster() error = %v", err)
	}
	count, err = store.CountThoughtClusterLinks(cluster.ID)
	if err != nil {
		t.Fatalf("CountThoughtClusterLinks() error = %v", err)
	}
	if count != 0 {
		t.Errorf("links after remove = %d, want 0", count)
	}
}

func TestLifecycleForeignOwner(t *testing.T) {
	store := openTestStore(t)
	owner := uuid.New()
	stranger := uuid.New()
	org := New(store, &fakeGrouping{}, config.DefaultOrganizer(), nil)

	cluster, err := org.CreateManualCluster(owner, "Private")
	if err != nil {
		t.Fatalf("CreateManualCluster() error = %v", err)
	}

	if _, err := org.RenameCluster(stranger, cluster.ID, "Hijacked"); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("RenameCluster kind = %v, want %v", apperrors.KindOf(err), apperrors.KindNotFound)
	}
	if _, err := org.ArchiveCluster(stranger, cluster.ID); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("ArchiveCluster kind = %v, want %v", apperrors.KindOf(err), apperrors.KindNotFound)
	}
	if err := org.DeleteCluster(stranger, cluster.ID); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Errorf("DeleteCluster kind = %v, want %v", apperrors.KindOf(err), apperrors.KindNotFound)
	}
}

func TestAddThoughtToClusterForeignThought(t *testing.T) {
	store := openTestStore(t)
	owner := uuid.New()
	stranger := uuid.New()
	org := New(store, &fakeGrouping{}, config.DefaultOrganizer(), nil)

	victim := seedThought(t, store, owner, "not yours")
	cluster, err := org.CreateManualCluster(stranger, "Mine")
	if err != nil {
		t.Fatalf("CreateManualCluster() error = %v", err)
	}

	err = org.AddThoughtToCluster(stranger, victim.ID, cluster.ID)
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("AddThoughtToCluster kind = %v, want %v", apperrors.KindOf(err), apperrors.KindNotFound)
	}

	// The foreign thought was never linked, so archiving the cluster cannot
	// reach it either.
	if _, err := org.ArchiveCluster(stranger, cluster.ID); err != nil {
		t.Fatalf("ArchiveCluster() error = %v", err)
	}
	got, err := store.GetThought(victim.ID)
	if err != nil {
		t.Fatalf("GetThought() error = %v", err)
	}
	if got.Status != models.ThoughtStatusActive {
		t.Errorf("victim thought status = %q, want active", got.Status)
	}

	count, err := store.CountThoughtClusterLinks(cluster.ID)
	if err != nil {
		t.Fatalf("CountThoughtClusterLinks() error = %v", err)
	}
	if count != 0 {
		t.Errorf("links = %d, want 0", count)
	}
}
