// Package streak implements the consecutive-period streak transition.
// The transition is pure; persistence and locking live in the store.
package streak

import (
	"time"

	"github.com/google/uuid"
	"github.com/tmercadante/leanscreen-go/internal/models"
	"github.com/tmercadante/leanscreen-go/internal/period"
)

// Advance applies one accepted entry insert to a user's streak state.
// prev is nil for a user's first-ever entry. periodStart must already be
// normalized via period.StartOf; the engine does not re-validate
// alignment. The returned bool reports whether the state changed and
// needs persisting.
//
// Entries for periods at or before the last logged one leave the state
// untouched: a backfilled entry never retroactively repairs a broken
// streak.
func Advance(prev *models.StreakState, userID uuid.UUID, periodStart time.Time, g period.Granularity) (models.StreakState, bool) {
	if prev == nil {
		return models.StreakState{
			UserID:                userID,
			CurrentStreak:         1,
			LongestStreak:         1,
			LastLoggedPeriodStart: &periodStart,
		}, true
	}

	next := *prev

	switch {
	case prev.LastLoggedPeriodStart == nil:
		// Defensive: a state row without a last period still counts
		// the new entry as continuing.
		next.CurrentStreak++
	case periodStart.Equal(*prev.LastLoggedPeriodStart):
		// Duplicate period; the uniqueness constraint should have
		// rejected it, but the transition stays idempotent.
		return next, false
	case periodStart.Before(*prev.LastLoggedPeriodStart):
		// Backfill for a past period.
		return next, false
	case periodStart.Equal(period.NextStart(*prev.LastLoggedPeriodStart, g)):
		next.CurrentStreak++
	default:
		// Gap of at least one period; the new entry starts over at 1.
		next.CurrentStreak = 1
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastLoggedPeriodStart = &periodStart
	return next, true
}
