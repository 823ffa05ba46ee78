package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tmercadante/leanscreen-go/internal/models"
)

// GetUserSettings returns a user's tracker preferences
func (h *Handlers) GetUserSettings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	settings, err := h.tracker.GetSettings(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateUserSettings updates a user's tracker preferences
func (h *Handlers) UpdateUserSettings(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	settings, err := h.tracker.UpdateSettings(c.Request.Context(), userID, req.ShowOnLeaderboard)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
