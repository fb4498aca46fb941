// Package handlers exposes the thought organization engine over HTTP.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backpackerjohn/braindump/internal/apperrors"
	"github.com/backpackerjohn/braindump/internal/capture"
	"github.com/backpackerjohn/braindump/internal/organizer"
	"github.com/backpackerjohn/braindump/internal/repository"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	Organizer *organizer.Organizer
	Capture   *capture.Service
	Store     *repository.Store
	Log       *zap.Logger
}

// New creates a Handler.
func New(org *organizer.Organizer, cap *capture.Service, store *repository.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Organizer: org, Capture: cap, Store: store, Log: log}
}

// userID resolves the caller's identity from the X-User-ID header.
// Authentication itself happens upstream; an absent or invalid id is
// rejected as an expired session.
func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please re-authenticate."})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please re-authenticate."})
		return uuid.Nil, false
	}
	return id, true
}

// fail renders an error with its taxonomy-derived status and user message,
// logging the original for diagnostics.
func (h *Handler) fail(c *gin.Context, err error) {
	h.Log.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.String("kind", string(apperrors.KindOf(err))),
		zap.Error(err))
	c.JSON(apperrors.HTTPStatus(err), gin.H{"error": apperrors.UserMessage(err)})
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
