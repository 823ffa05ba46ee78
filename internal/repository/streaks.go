package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tmercadante/leanscreen-go/internal/models"
	"github.com/tmercadante/leanscreen-go/internal/store"
)

// StreakRepository persists per-user streak state with optimistic
// versioning: every write carries the version it read, and a mismatch
// fails the enclosing transaction.
type StreakRepository struct {
	q querier
}

func (r *StreakRepository) Get(ctx context.Context, userID uuid.UUID) (*models.StreakState, error) {
	query := `
		SELECT user_id, current_streak, longest_streak, last_logged_period_start, version, updated_at
		FROM streak_states
		WHERE user_id = $1
	`

	var state models.StreakState
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&state.UserID,
		&state.CurrentStreak,
		&state.LongestStreak,
		&state.LastLoggedPeriodStart,
		&state.Version,
		&state.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No streak yet is a valid state, not an error.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get streak state: %w", err)
	}
	return &state, nil
}

func (r *StreakRepository) Upsert(ctx context.Context, state *models.StreakState, expectedVersion int) error {
	if expectedVersion == 0 {
		query := `
			INSERT INTO streak_states (user_id, current_streak, longest_streak, last_logged_period_start, version, updated_at)
			VALUES ($1, $2, $3, $4, 1, NOW())
			ON CONFLICT (user_id) DO NOTHING
		`
		result, err := r.q.Exec(ctx, query,
			state.UserID,
			state.CurrentStreak,
			state.LongestStreak,
			state.LastLoggedPeriodStart,
		)
		if err != nil {
			return fmt.Errorf("failed to insert streak state: %w", err)
		}
		if result.RowsAffected() == 0 {
			// Someone created the row between our read and write.
			return store.ErrVersionConflict
		}
		state.Version = 1
		return nil
	}

	query := `
		UPDATE streak_states
		SET current_streak = $1, longest_streak = $2, last_logged_period_start = $3,
		    version = version + 1, updated_at = NOW()
		WHERE user_id = $4 AND version = $5
	`
	result, err := r.q.Exec(ctx, query,
		state.CurrentStreak,
		state.LongestStreak,
		state.LastLoggedPeriodStart,
		state.UserID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update streak state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrVersionConflict
	}
	state.Version = expectedVersion + 1
	return nil
}
