package models

import "github.com/google/uuid"

// UserSettings holds the per-user preferences the tracker consumes.
// Users without a stored row default to visible.
type UserSettings struct {
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	ShowOnLeaderboard bool      `json:"show_on_leaderboard" db:"show_on_leaderboard"`
}

// UpdateSettingsRequest is the body for PUT /api/users/:id/settings
type UpdateSettingsRequest struct {
	ShowOnLeaderboard *bool `json:"show_on_leaderboard,omitempty"`
}
