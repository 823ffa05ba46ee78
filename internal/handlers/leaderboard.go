package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard returns the ranked leaderboard for a named window
// (daily, weekly, monthly, all_time; unknown names fall back to weekly)
func (h *Handlers) GetLeaderboard(c *gin.Context) {
	periodName := c.DefaultQuery("period", "weekly")

	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	resp, err := h.tracker.Leaderboard(c.Request.Context(), periodName, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
