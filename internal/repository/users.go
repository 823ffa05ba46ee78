package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tmercadante/leanscreen-go/internal/models"
)

// UserRepository reads the user-owned collaborator data the leaderboard
// joins against: display identity and the opt-out setting.
type UserRepository struct {
	q querier
}

func (r *UserRepository) GetDisplayInfo(ctx context.Context, userID uuid.UUID) (*models.DisplayInfo, error) {
	query := `
		SELECT display_name, avatar_url
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	var info models.DisplayInfo
	err := r.q.QueryRow(ctx, query, userID).Scan(&info.DisplayName, &info.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get display info: %w", err)
	}
	return &info, nil
}

func (r *UserRepository) ShowOnLeaderboard(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `
		SELECT show_on_leaderboard
		FROM user_settings
		WHERE user_id = $1
	`

	var show bool
	err := r.q.QueryRow(ctx, query, userID).Scan(&show)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No saved setting means visible.
			return true, nil
		}
		return false, fmt.Errorf("failed to get leaderboard visibility: %w", err)
	}
	return show, nil
}

func (r *UserRepository) SetShowOnLeaderboard(ctx context.Context, userID uuid.UUID, show bool) error {
	query := `
		INSERT INTO user_settings (user_id, show_on_leaderboard, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET show_on_leaderboard = EXCLUDED.show_on_leaderboard, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, userID, show); err != nil {
		return fmt.Errorf("failed to set leaderboard visibility: %w", err)
	}
	return nil
}
