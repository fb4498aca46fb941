package organizer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/backpackerjohn/braindump/internal/ai"
	"github.com/backpackerjohn/braindump/internal/models"
	"github.com/backpackerjohn/braindump/internal/repository"
)

func openTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return repository.NewStore(db)
}

func seedThought(t *testing.T, store *repository.Store, userID uuid.UUID, content string) models.Thought {
	t.Helper()
	thought := models.Thought{
		UserID:  userID,
		Content: content,
		Title:   content,
		Status:  models.ThoughtStatusActive,
	}
	if err := store.CreateThought(&thought); err != nil {
		t.Fatalf("seeding thought: %v", err)
	}
	return thought
}

// fakeGrouping is a scriptable GroupingService for engine tests.
type fakeGrouping struct {
	proposeFn func(thoughts []ai.ThoughtInput, existingNames []string) ([]ai.ProposedCluster, error)
	selectFn  func(exemplars []string, candidates []ai.ThoughtInput) ([]string, error)
	suggestFn func(candidates []ai.ConnectionCandidate) ([]ai.IndexedConnection, error)

	proposeCalls [][]string // existingNames observed per call
}

func (f *fakeGrouping) ProposeClusters(ctx context.Context, thoughts []ai.ThoughtInput, existingNames []string) ([]ai.ProposedCluster, error) {
	names := make([]string, len(existingNames))
	copy(names, existingNames)
	f.proposeCalls = append(f.proposeCalls, names)
	if f.proposeFn == nil {
		return nil, nil
	}
	return f.proposeFn(thoughts, existingNames)
}

func (f *fakeGrouping) SelectRelated(ctx context.Context, exemplars []string, candidates []ai.ThoughtInput) ([]string, error) {
	if f.selectFn == nil {
		return nil, nil
	}
	return f.selectFn(exemplars, candidates)
}

func (f *fakeGrouping) SuggestConnections(ctx context.Context, candidates []ai.ConnectionCandidate) ([]ai.IndexedConnection, error) {
	if f.suggestFn == nil {
		return nil, nil
	}
	return f.suggestFn(candidates)
}

func intPtr(n int) *int {
	return &n
}
