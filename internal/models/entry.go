package models

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one logged screen-time duration for a user in one tracking
// period. At most one non-deleted entry exists per (user, period start).
type Entry struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	PeriodStart     time.Time  `json:"period_start" db:"period_start"`
	DurationMinutes int        `json:"duration_minutes" db:"duration_minutes"`
	Note            *string    `json:"note,omitempty" db:"note"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CreateEntryRequest is the body for POST /api/entries
type CreateEntryRequest struct {
	UserID          uuid.UUID `json:"user_id" binding:"required"`
	PeriodStart     string    `json:"period_start" binding:"required"` // YYYY-MM-DD
	DurationMinutes int       `json:"duration_minutes"`
	Note            *string   `json:"note,omitempty"`
}

// UpdateEntryRequest is the body for PATCH /api/entries/:id
type UpdateEntryRequest struct {
	UserID          uuid.UUID `json:"user_id" binding:"required"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Note            *string   `json:"note,omitempty"`
}

// EntryResponse is the API representation of an entry
type EntryResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	PeriodStart     string    `json:"period_start"`
	DurationMinutes int       `json:"duration_minutes"`
	Note            *string   `json:"note,omitempty"`
	CreatedAt       string    `json:"created_at"`
}

// ToResponse converts Entry to EntryResponse
func (e *Entry) ToResponse() EntryResponse {
	return EntryResponse{
		ID:              e.ID,
		UserID:          e.UserID,
		PeriodStart:     e.PeriodStart.Format("2006-01-02"),
		DurationMinutes: e.DurationMinutes,
		Note:            e.Note,
		CreatedAt:       e.CreatedAt.Format(time.RFC3339),
	}
}
