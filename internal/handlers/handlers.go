package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tmercadante/leanscreen-go/internal/service"
	"github.com/tmercadante/leanscreen-go/internal/store"
)

// Handlers exposes the tracker core over gin.
type Handlers struct {
	tracker *service.Tracker
}

func New(tracker *service.Tracker) *Handlers {
	return &Handlers{tracker: tracker}
}

// RegisterRoutes mounts the API under /api.
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/entries", h.RecordEntry)
	api.GET("/entries", h.ListEntries)
	api.PATCH("/entries/:id", h.UpdateEntry)
	api.DELETE("/entries/:id", h.DeleteEntry)
	api.GET("/leaderboard", h.GetLeaderboard)
	api.GET("/users/:id/streak", h.GetStreak)
	api.GET("/users/:id/settings", h.GetUserSettings)
	api.PUT("/users/:id/settings", h.UpdateUserSettings)
}

// writeError maps core errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message, "field": vErr.Field})
	case errors.Is(err, store.ErrDuplicateEntry):
		c.JSON(http.StatusConflict, gin.H{"error": "An entry already exists for this period"})
	case errors.Is(err, store.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
	case errors.Is(err, store.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Concurrent update, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "details": err.Error()})
	}
}
