// Package api assembles the HTTP surface of the thought organization engine.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/backpackerjohn/braindump/api/handlers"
)

// NewRouter builds the gin engine with all v1 routes.
func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	v1 := r.Group("/v1")
	{
		thoughts := v1.Group("/thoughts")
		{
			thoughts.POST("", h.CaptureThought)
			thoughts.GET("", h.ListThoughts)
			thoughts.PATCH("/:id/status", h.SetThoughtStatus)
			thoughts.PATCH("/:id/completed", h.SetThoughtCompleted)
			thoughts.POST("/:id/categories", h.AddThoughtCategory)
			thoughts.DELETE("/:id/categories/:categoryId", h.RemoveThoughtCategory)
			thoughts.POST("/:id/categories/suggest", h.SuggestThoughtCategories)
		}

		clusters := v1.Group("/clusters")
		{
			clusters.GET("", h.ListClusters)
			clusters.POST("", h.CreateCluster)
			clusters.POST("/generate", h.GenerateClusters)
			clusters.PATCH("/:id", h.RenameCluster)
			clusters.POST("/:id/extend", h.ExtendCluster)
			clusters.POST("/:id/archive", h.ArchiveCluster)
			clusters.DELETE("/:id", h.DeleteCluster)
			clusters.POST("/:id/thoughts/:thoughtId", h.AddThoughtToCluster)
			clusters.DELETE("/:id/thoughts/:thoughtId", h.RemoveThoughtFromCluster)
		}

		v1.POST("/connections", h.FindConnections)
	}

	return r
}
