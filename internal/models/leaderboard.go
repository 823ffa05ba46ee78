package models

import "github.com/google/uuid"

// LeaderboardEntry represents a user's position on the leaderboard.
// Rank uses standard competition ranking: equal totals share a rank.
type LeaderboardEntry struct {
	Rank          int       `json:"rank"`
	UserID        uuid.UUID `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	TotalMinutes  int       `json:"total_minutes"`
	CurrentStreak int       `json:"current_streak"`
}

// DisplayInfo is the identity slice of a user joined onto leaderboard rows
type DisplayInfo struct {
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// LeaderboardResponse is the API response for leaderboards
type LeaderboardResponse struct {
	Period      string             `json:"period"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	TotalUsers  int                `json:"total_users"`
}
