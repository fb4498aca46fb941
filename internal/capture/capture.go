// Package capture turns raw free text into stored thoughts: the
// categorization service splits the input into atomic thoughts, and each one
// is persisted with get-or-create categories and idempotent category links.
package capture

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backpackerjohn/braindump/internal/ai"
	"github.com/backpackerjohn/braindump/internal/apperrors"
	"github.com/backpackerjohn/braindump/internal/config"
	"github.com/backpackerjohn/braindump/internal/models"
	"github.com/backpackerjohn/braindump/internal/organizer"
	"github.com/backpackerjohn/braindump/internal/repository"
)

const (
	fallbackTitleLen   = 100
	fallbackSnippetLen = 200
	fallbackCategory   = "Note"
)

// Extractor is the categorization service boundary.
type Extractor interface {
	ExtractThoughts(ctx context.Context, content string) ([]ai.ExtractedThought, error)
	SuggestCategories(ctx context.Context, content string, existing []string) ([]string, error)
}

// Service captures thoughts from raw input.
type Service struct {
	store     *repository.Store
	extractor Extractor
	cfg       config.OrganizerConfig
	log       *zap.Logger
}

// NewService creates a capture Service.
func NewService(store *repository.Store, extractor Extractor, cfg config.OrganizerConfig, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, extractor: extractor, cfg: cfg, log: log}
}

// Process splits raw content into thoughts and persists them with their
// categories. When the service returns nothing for non-empty input, a single
// fallback thought categorized as "Note" is stored instead.
func (s *Service) Process(ctx context.Context, userID uuid.UUID, content string) ([]models.Thought, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, apperrors.New(apperrors.KindValidation, "Content is required and must be a non-empty string")
	}

	extracted, err := s.extractor.ExtractThoughts(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if len(extracted) == 0 {
		s.log.Warn("categorization returned no thoughts, storing fallback",
			zap.String("user_id", userID.String()))
		extracted = []ai.ExtractedThought{fallbackThought(trimmed)}
	}

	stored := make([]models.Thought, 0, len(extracted))
	for _, ex := range extracted {
		thought := models.Thought{
			UserID:  userID,
			Content: ex.Content,
			Title:   ex.Title,
			Status:  models.ThoughtStatusActive,
		}
		if thought.Content == "" {
			thought.Content = trimmed
		}
		if ex.Snippet != "" {
			snippet := ex.Snippet
			thought.Snippet = &snippet
		}
		if err := s.store.CreateThought(&thought); err != nil {
			return stored, err
		}

		for _, raw := range ex.Categories {
			name := organizer.SanitizeName(raw, s.cfg.CategoryNameMax)
			if name == "" {
				continue
			}
			category, err := s.store.GetOrCreateCategory(userID, name)
			if err != nil {
				return stored, err
			}
			if err := s.store.LinkThoughtToCategory(thought.ID, category.ID); err != nil {
				return stored, err
			}
			thought.Categories = append(thought.Categories, category)
		}
		stored = append(stored, thought)
	}

	s.log.Info("captured thoughts",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(stored)))
	return stored, nil
}

// AddCategory tags a thought with a category, creating the category when it
// does not exist yet. Idempotent on the link.
func (s *Service) AddCategory(userID, thoughtID uuid.UUID, name string) (*models.Category, error) {
	if _, err := s.ownedThought(userID, thoughtID); err != nil {
		return nil, err
	}
	sanitized := organizer.SanitizeName(name, s.cfg.CategoryNameMax)
	if sanitized == "" {
		return nil, apperrors.New(apperrors.KindValidation, "Category name cannot be empty")
	}

	category, err := s.store.GetOrCreateCategory(userID, sanitized)
	if err != nil {
		return nil, err
	}
	if err := s.store.LinkThoughtToCategory(thoughtID, category.ID); err != nil {
		return nil, err
	}
	return category, nil
}

// RemoveCategory untags a thought. The category row itself survives.
func (s *Service) RemoveCategory(userID, thoughtID, categoryID uuid.UUID) error {
	if _, err := s.ownedThought(userID, thoughtID); err != nil {
		return err
	}
	return s.store.UnlinkThoughtFromCategory(thoughtID, categoryID)
}

// SuggestCategories asks the categorization service for tags fitting a
// thought, filtering out the ones already attached. Suggestions are
// sanitized like any other category name.
func (s *Service) SuggestCategories(ctx context.Context, userID, thoughtID uuid.UUID) ([]string, error) {
	thought, err := s.ownedThought(userID, thoughtID)
	if err != nil {
		return nil, err
	}

	existing := make([]string, 0, len(thought.Categories))
	seen := make(map[string]bool, len(thought.Categories))
	for _, cat := range thought.Categories {
		existing = append(existing, cat.Name)
		seen[strings.ToLower(cat.Name)] = true
	}

	raw, err := s.extractor.SuggestCategories(ctx, thought.Content, existing)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0, len(raw))
	for _, name := range raw {
		sanitized := organizer.SanitizeName(name, s.cfg.CategoryNameMax)
		if sanitized == "" || seen[strings.ToLower(sanitized)] {
			continue
		}
		seen[strings.ToLower(sanitized)] = true
		suggestions = append(suggestions, sanitized)
	}
	return suggestions, nil
}

// ownedThought loads a thought and verifies ownership. Foreign thoughts
// surface as not-found so callers cannot tell a foreign id from a missing one.
func (s *Service) ownedThought(userID, thoughtID uuid.UUID) (*models.Thought, error) {
	thought, err := s.store.GetThought(thoughtID)
	if err != nil {
		return nil, err
	}
	if thought.UserID != userID {
		return nil, apperrors.Newf(apperrors.KindNotFound, "thought %s not found", thoughtID)
	}
	return thought, nil
}

// fallbackThought builds the synthetic single thought used when the
// categorization service finds nothing in non-empty input.
func fallbackThought(content string) ai.ExtractedThought {
	title := strings.SplitN(content, "\n", 2)[0]
	if r := []rune(title); len(r) > fallbackTitleLen {
		title = string(r[:fallbackTitleLen])
	}
	if title == "" {
		title = "Untitled Thought"
	}
	snippet := content
	if r := []rune(snippet); len(r) > fallbackSnippetLen {
		snippet = string(r[:fallbackSnippetLen])
	}
	return ai.ExtractedThought{
		Title:      title,
		Snippet:    snippet,
		Categories: []string{fallbackCategory},
		Content:    content,
	}
}
