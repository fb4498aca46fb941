package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backpackerjohn/braindump/internal/models"
)

// CaptureThoughtInput DTO for capturing raw text
type CaptureThoughtInput struct {
	Content string `json:"content" binding:"required"`
}

// CaptureThought runs the categorization pipeline over raw text and stores
// the resulting thoughts.
func (h *Handler) CaptureThought(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var input CaptureThoughtInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	thoughts, err := h.Capture.Process(c.Request.Context(), userID, input.Content)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"thoughts": thoughts,
		"metadata": gin.H{"total": len(thoughts)},
	})
}

// ListThoughts retrieves the caller's thoughts, filtered by status.
func (h *Handler) ListThoughts(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	status := models.ThoughtStatus(c.DefaultQuery("status", string(models.ThoughtStatusActive)))
	if status != models.ThoughtStatusActive && status != models.ThoughtStatusArchived {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or archived"})
		return
	}

	thoughts, err := h.Store.ListThoughts(userID, status)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, thoughts)
}

// SetThoughtStatusInput DTO for archiving/restoring a thought
type SetThoughtStatusInput struct {
	Status models.ThoughtStatus `json:"status" binding:"required"`
}

// SetThoughtStatus archives or restores a single thought.
func (h *Handler) SetThoughtStatus(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input SetThoughtStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Status != models.ThoughtStatusActive && input.Status != models.ThoughtStatusArchived {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or archived"})
		return
	}

	if err := h.Store.UpdateThoughtStatus(userID, id, input.Status); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thought updated"})
}

// SetThoughtCompletedInput DTO for toggling completion
type SetThoughtCompletedInput struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// SetThoughtCompleted toggles the completion flag on a thought.
func (h *Handler) SetThoughtCompleted(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input SetThoughtCompletedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.SetThoughtCompleted(userID, id, *input.IsCompleted); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thought updated"})
}

// AddCategoryInput DTO for tagging a thought
type AddCategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// AddThoughtCategory tags a thought with a (possibly new) category.
func (h *Handler) AddThoughtCategory(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input AddCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.Capture.AddCategory(userID, id, input.Name)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// RemoveThoughtCategory untags a thought.
func (h *Handler) RemoveThoughtCategory(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		return
	}

	if err := h.Capture.RemoveCategory(userID, id, categoryID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category removed"})
}

// SuggestThoughtCategories returns AI category suggestions for a thought,
// excluding those already attached.
func (h *Handler) SuggestThoughtCategories(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	suggestions, err := h.Capture.SuggestCategories(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": suggestions})
}

// FindConnections discovers surprising pairwise relationships between the
// caller's active, incomplete thoughts.
func (h *Handler) FindConnections(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	report, err := h.Organizer.FindConnections(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
