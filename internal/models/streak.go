package models

import (
	"time"

	"github.com/google/uuid"
)

// StreakState is the derived per-user streak summary, updated in the
// same transaction as each entry insert. Version is the optimistic
// concurrency counter checked on every upsert.
type StreakState struct {
	UserID                uuid.UUID  `json:"user_id" db:"user_id"`
	CurrentStreak         int        `json:"current_streak" db:"current_streak"`
	LongestStreak         int        `json:"longest_streak" db:"longest_streak"`
	LastLoggedPeriodStart *time.Time `json:"last_logged_period_start,omitempty" db:"last_logged_period_start"`
	Version               int        `json:"-" db:"version"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// StreakResponse is the API representation of a user's streak. A user
// with no entries yet gets the zero-value state, not an error.
type StreakResponse struct {
	UserID                uuid.UUID `json:"user_id"`
	CurrentStreak         int       `json:"current_streak"`
	LongestStreak         int       `json:"longest_streak"`
	LastLoggedPeriodStart *string   `json:"last_logged_period_start,omitempty"`
}

// ToResponse converts StreakState to StreakResponse
func (s *StreakState) ToResponse() StreakResponse {
	resp := StreakResponse{
		UserID:        s.UserID,
		CurrentStreak: s.CurrentStreak,
		LongestStreak: s.LongestStreak,
	}
	if s.LastLoggedPeriodStart != nil {
		d := s.LastLoggedPeriodStart.Format("2006-01-02")
		resp.LastLoggedPeriodStart = &d
	}
	return resp
}
