package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tmercadante/leanscreen-go/internal/models"
)

const dateLayout = "2006-01-02"

// RecordEntry logs one screen-time entry and returns it together with
// the user's updated streak
func (h *Handlers) RecordEntry(c *gin.Context) {
	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	periodStart, err := time.ParseInLocation(dateLayout, req.PeriodStart, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period_start, expected YYYY-MM-DD"})
		return
	}

	entry, state, err := h.tracker.RecordEntry(c.Request.Context(), req.UserID, periodStart, req.DurationMinutes, req.Note)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":  entry.ToResponse(),
		"streak": state.ToResponse(),
	})
}

// ListEntries returns a user's entries, optionally bounded by from/to
func (h *Handlers) ListEntries(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id format"})
		return
	}

	from := time.Time{}
	to := time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	if s := c.Query("from"); s != "" {
		if from, err = time.ParseInLocation(dateLayout, s, time.UTC); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, expected YYYY-MM-DD"})
			return
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = time.ParseInLocation(dateLayout, s, time.UTC); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, expected YYYY-MM-DD"})
			return
		}
	}

	entries, err := h.tracker.ListEntries(c.Request.Context(), userID, from, to)
	if err != nil {
		writeError(c, err)
		return
	}

	responses := make([]models.EntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, entries[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": responses,
		"count":   len(responses),
	})
}

// UpdateEntry changes duration and/or note on an entry the caller owns
func (h *Handlers) UpdateEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
		return
	}

	var req models.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	entry, err := h.tracker.UpdateEntry(c.Request.Context(), req.UserID, entryID, req.DurationMinutes, req.Note)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry.ToResponse())
}

// DeleteEntry soft-deletes an entry the caller owns
func (h *Handlers) DeleteEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID format"})
		return
	}
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id format"})
		return
	}

	if err := h.tracker.DeleteEntry(c.Request.Context(), userID, entryID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": entryID})
}
