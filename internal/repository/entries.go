package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tmercadante/leanscreen-go/internal/models"
	"github.com/tmercadante/leanscreen-go/internal/store"
)

// Soft-deleted rows are invisible to every query; the predicate lives
// here once instead of being repeated per call site.
const entryNotDeleted = "deleted_at IS NULL"

// EntryRepository persists logged entries. A partial unique index on
// (user_id, period_start) WHERE deleted_at IS NULL backs the
// one-entry-per-period rule without blocking re-insert after delete.
type EntryRepository struct {
	q querier
}

func (r *EntryRepository) Insert(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (id, user_id, period_start, duration_minutes, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	err := r.q.QueryRow(ctx, query,
		entry.ID,
		entry.UserID,
		entry.PeriodStart,
		entry.DurationMinutes,
		entry.Note,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) Update(ctx context.Context, userID, entryID uuid.UUID, durationMinutes *int, note *string) (*models.Entry, error) {
	query := `
		UPDATE entries
		SET duration_minutes = COALESCE($1, duration_minutes),
		    note = COALESCE($2, note),
		    updated_at = NOW()
		WHERE id = $3 AND user_id = $4 AND ` + entryNotDeleted + `
		RETURNING id, user_id, period_start, duration_minutes, note, created_at, updated_at
	`

	var entry models.Entry
	err := r.q.QueryRow(ctx, query, durationMinutes, note, entryID, userID).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.PeriodStart,
		&entry.DurationMinutes,
		&entry.Note,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return &entry, nil
}

func (r *EntryRepository) SoftDelete(ctx context.Context, userID, entryID uuid.UUID) error {
	query := `
		UPDATE entries
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND ` + entryNotDeleted

	result, err := r.q.Exec(ctx, query, entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepository) ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Entry, error) {
	query := `
		SELECT id, user_id, period_start, duration_minutes, note, created_at, updated_at
		FROM entries
		WHERE user_id = $1 AND period_start BETWEEN $2 AND $3 AND ` + entryNotDeleted + `
		ORDER BY period_start DESC
	`

	rows, err := r.q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var entry models.Entry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.PeriodStart,
			&entry.DurationMinutes,
			&entry.Note,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *EntryRepository) SumByRange(ctx context.Context, from, to time.Time) (map[uuid.UUID]int, error) {
	query := `
		SELECT user_id, COALESCE(SUM(duration_minutes), 0) as total_minutes
		FROM entries
		WHERE period_start BETWEEN $1 AND $2 AND ` + entryNotDeleted + `
		GROUP BY user_id
	`

	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum entries: %w", err)
	}
	defer rows.Close()

	totals := make(map[uuid.UUID]int)
	for rows.Next() {
		var userID uuid.UUID
		var total int
		if err := rows.Scan(&userID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan totals: %w", err)
		}
		totals[userID] = total
	}
	return totals, rows.Err()
}
