package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/backpackerjohn/braindump/internal/models"
	"github.com/backpackerjohn/braindump/internal/organizer"
)

// GenerateClusters runs the batch clustering pipeline for the caller.
func (h *Handler) GenerateClusters(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	report, err := h.Organizer.GenerateClusters(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// clusterView is a cluster with its derived completion progress.
type clusterView struct {
	models.Cluster
	Completion organizer.Completion `json:"completion"`
}

// ListClusters returns the caller's clusters with members and completion
// progress.
func (h *Handler) ListClusters(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	clusters, err := h.Store.ListClusters(userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	views := make([]clusterView, 0, len(clusters))
	for _, cl := range clusters {
		members := make([]models.Thought, 0, len(cl.Thoughts))
		for _, t := range cl.Thoughts {
			members = append(members, *t)
		}
		views = append(views, clusterView{
			Cluster:    cl,
			Completion: organizer.ClusterCompletion(members),
		})
	}

	c.JSON(http.StatusOK, views)
}

// CreateClusterInput DTO for creating a manual cluster
type CreateClusterInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateCluster creates a manual cluster with a sanitized name.
func (h *Handler) CreateCluster(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var input CreateClusterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cluster, err := h.Organizer.CreateManualCluster(userID, input.Name)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, cluster)
}

// RenameClusterInput DTO for renaming a cluster
type RenameClusterInput struct {
	Name string `json:"name" binding:"required"`
}

// RenameCluster renames a cluster after sanitization.
func (h *Handler) RenameCluster(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input RenameClusterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cluster, err := h.Organizer.RenameCluster(userID, id, input.Name)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, cluster)
}

// ExtendCluster finds and links unclustered thoughts matching the cluster's
// theme.
func (h *Handler) ExtendCluster(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	report, err := h.Organizer.ExtendCluster(c.Request.Context(), userID, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ArchiveCluster archives every thought linked to the cluster.
func (h *Handler) ArchiveCluster(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	archived, err := h.Organizer.ArchiveCluster(userID, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"archived": archived})
}

// DeleteCluster removes the cluster and its links, leaving the thoughts
// untouched.
func (h *Handler) DeleteCluster(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.Organizer.DeleteCluster(userID, id); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cluster deleted successfully"})
}

// AddThoughtToCluster links a thought to a cluster manually.
func (h *Handler) AddThoughtToCluster(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	clusterID, ok := parseID(c, "id")
	if !ok {
		return
	}
	thoughtID, ok := parseID(c, "thoughtId")
	if !ok {
		return
	}

	if err := h.Organizer.AddThoughtToCluster(userID, thoughtID, clusterID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thought added to cluster"})
}

// RemoveThoughtFromCluster unlinks a thought from a cluster.
func (h *Handler) RemoveThoughtFromCluster(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	clusterID, ok := parseID(c, "id")
	if !ok {
		return
	}
	thoughtID, ok := parseID(c, "thoughtId")
	if !ok {
		return
	}

	if err := h.Organizer.RemoveThoughtFromCluster(userID, thoughtID, clusterID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thought removed from cluster"})
}
