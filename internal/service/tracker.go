// Package service is the tracker core: it ties the period calculator,
// the streak transition, and the stores together, independent of HTTP
// and of the concrete storage backend.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tmercadante/leanscreen-go/internal/models"
	"github.com/tmercadante/leanscreen-go/internal/period"
	"github.com/tmercadante/leanscreen-go/internal/store"
	"github.com/tmercadante/leanscreen-go/internal/streak"
)

// ValidationError rejects a request before any write happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Tracker is the screen-time tracking core. Granularity is fixed at
// deployment, not per call.
type Tracker struct {
	store        store.Store
	granularity  period.Granularity
	defaultLimit int
	now          func() time.Time
}

func NewTracker(s store.Store, g period.Granularity, defaultLimit int) *Tracker {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	return &Tracker{
		store:        s,
		granularity:  g,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// RecordEntry inserts one entry and advances the owner's streak in a
// single transaction. The whole write fails together: a duplicate
// period, a failed insert, or a lost streak-version race rolls
// everything back.
func (t *Tracker) RecordEntry(ctx context.Context, userID uuid.UUID, periodStart time.Time, durationMinutes int, note *string) (*models.Entry, *models.StreakState, error) {
	if durationMinutes < 0 || durationMinutes > t.granularity.CapacityMinutes() {
		return nil, nil, &ValidationError{
			Field:   "duration_minutes",
			Message: fmt.Sprintf("must be between 0 and %d", t.granularity.CapacityMinutes()),
		}
	}
	if !period.Aligned(periodStart, t.granularity) {
		return nil, nil, &ValidationError{
			Field:   "period_start",
			Message: fmt.Sprintf("not a valid %s period start", t.granularity),
		}
	}

	entry := &models.Entry{
		UserID:          userID,
		PeriodStart:     periodStart,
		DurationMinutes: durationMinutes,
		Note:            note,
	}
	var state models.StreakState

	err := t.store.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.Entries().Insert(ctx, entry); err != nil {
			return err
		}

		prev, err := tx.Streaks().Get(ctx, userID)
		if err != nil {
			return err
		}

		next, changed := streak.Advance(prev, userID, periodStart, t.granularity)
		if changed {
			expected := 0
			if prev != nil {
				expected = prev.Version
			}
			if err := tx.Streaks().Upsert(ctx, &next, expected); err != nil {
				return err
			}
		}
		state = next
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entry, &state, nil
}

// UpdateEntry changes duration and/or note on an entry the user owns.
func (t *Tracker) UpdateEntry(ctx context.Context, userID, entryID uuid.UUID, durationMinutes *int, note *string) (*models.Entry, error) {
	if durationMinutes != nil && (*durationMinutes < 0 || *durationMinutes > t.granularity.CapacityMinutes()) {
		return nil, &ValidationError{
			Field:   "duration_minutes",
			Message: fmt.Sprintf("must be between 0 and %d", t.granularity.CapacityMinutes()),
		}
	}
	return t.store.Entries().Update(ctx, userID, entryID, durationMinutes, note)
}

// DeleteEntry soft-deletes an entry the user owns. The streak is not
// recomputed on delete.
func (t *Tracker) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	return t.store.Entries().SoftDelete(ctx, userID, entryID)
}

// ListEntries returns a user's non-deleted entries in [from, to].
func (t *Tracker) ListEntries(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Entry, error) {
	entries, err := t.store.Entries().ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PeriodStart.After(entries[j].PeriodStart)
	})
	return entries, nil
}

// GetStreak returns the user's streak state; a user with no entries yet
// gets the zero-value state.
func (t *Tracker) GetStreak(ctx context.Context, userID uuid.UUID) (*models.StreakState, error) {
	state, err := t.store.Streaks().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return &models.StreakState{UserID: userID}, nil
	}
	return state, nil
}

// GetSettings returns the user's tracker preferences, defaults applied.
func (t *Tracker) GetSettings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	show, err := t.store.Visibility().ShowOnLeaderboard(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserSettings{UserID: userID, ShowOnLeaderboard: show}, nil
}

// UpdateSettings stores the user's tracker preferences.
func (t *Tracker) UpdateSettings(ctx context.Context, userID uuid.UUID, showOnLeaderboard *bool) (*models.UserSettings, error) {
	if showOnLeaderboard != nil {
		if err := t.store.Visibility().SetShowOnLeaderboard(ctx, userID, *showOnLeaderboard); err != nil {
			return nil, err
		}
	}
	return t.GetSettings(ctx, userID)
}

// Leaderboard builds a ranked snapshot for a named window. It is
// recomputed on every call from read-time data.
func (t *Tracker) Leaderboard(ctx context.Context, windowName string, limit int) (*models.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = t.defaultLimit
	}

	from, to := period.ResolveWindow(period.Window(windowName), t.now(), t.granularity)
	totals, err := t.store.Entries().SumByRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]models.LeaderboardEntry, 0, len(totals))
	for userID, total := range totals {
		if total == 0 {
			continue
		}

		show, err := t.store.Visibility().ShowOnLeaderboard(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !show {
			continue
		}

		row := models.LeaderboardEntry{UserID: userID, TotalMinutes: total}

		info, err := t.store.Profiles().GetDisplayInfo(ctx, userID)
		if err != nil {
			return nil, err
		}
		if info != nil {
			row.DisplayName = info.DisplayName
			row.AvatarURL = info.AvatarURL
		}

		state, err := t.store.Streaks().Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if state != nil {
			row.CurrentStreak = state.CurrentStreak
		}

		rows = append(rows, row)
	}

	// Totals descending, display name ascending among equals. The name
	// only orders rows; it does not affect rank.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalMinutes != rows[j].TotalMinutes {
			return rows[i].TotalMinutes > rows[j].TotalMinutes
		}
		return rows[i].DisplayName < rows[j].DisplayName
	})

	// Standard competition ranking: rank = 1 + count of strictly
	// greater totals.
	for i := range rows {
		if i > 0 && rows[i].TotalMinutes == rows[i-1].TotalMinutes {
			rows[i].Rank = rows[i-1].Rank
		} else {
			rows[i].Rank = i + 1
		}
	}

	if len(rows) > limit {
		rows = rows[:limit]
	}

	return &models.LeaderboardResponse{
		Period:      windowName,
		Leaderboard: rows,
		TotalUsers:  len(rows),
	}, nil
}
