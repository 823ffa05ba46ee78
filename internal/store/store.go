// Package store defines the persistence contracts the tracker core
// runs against. Implementations live in internal/repository (Postgres)
// and internal/store/memory (tests).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tmercadante/leanscreen-go/internal/models"
)

var (
	// ErrDuplicateEntry means a non-deleted entry already exists for
	// the same user and period start.
	ErrDuplicateEntry = errors.New("entry already exists for this period")

	// ErrEntryNotFound covers mutations on entries that are missing,
	// soft-deleted, or owned by someone else.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrVersionConflict means a streak upsert lost a concurrent race;
	// the enclosing transaction must be rolled back.
	ErrVersionConflict = errors.New("streak state version conflict")
)

// EntryStore is the durable store of logged entries. Every query
// implicitly excludes soft-deleted rows.
type EntryStore interface {
	Insert(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, userID, entryID uuid.UUID, durationMinutes *int, note *string) (*models.Entry, error)
	SoftDelete(ctx context.Context, userID, entryID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Entry, error)

	// SumByRange returns each user's total minutes over entries whose
	// period start falls in [from, to]. Users without matching entries
	// are absent from the map.
	SumByRange(ctx context.Context, from, to time.Time) (map[uuid.UUID]int, error)
}

// StreakStore persists the derived per-user streak state.
type StreakStore interface {
	// Get returns nil (no error) when the user has no streak yet.
	Get(ctx context.Context, userID uuid.UUID) (*models.StreakState, error)

	// Upsert writes state if the stored version still equals
	// expectedVersion (0 for a row that must not exist yet), returning
	// ErrVersionConflict otherwise.
	Upsert(ctx context.Context, state *models.StreakState, expectedVersion int) error
}

// ProfileProvider resolves leaderboard display identity.
type ProfileProvider interface {
	// GetDisplayInfo returns nil (no error) for unknown users.
	GetDisplayInfo(ctx context.Context, userID uuid.UUID) (*models.DisplayInfo, error)
}

// VisibilityProvider resolves and stores the leaderboard opt-out
// setting.
type VisibilityProvider interface {
	// ShowOnLeaderboard reports the user's setting; users with no
	// stored setting are visible.
	ShowOnLeaderboard(ctx context.Context, userID uuid.UUID) (bool, error)
	SetShowOnLeaderboard(ctx context.Context, userID uuid.UUID, show bool) error
}

// Store is the root persistence handle. WithinTx runs fn against a
// store view whose writes commit or roll back as one unit; the entry
// insert and streak upsert for one recordEntry call go through it.
type Store interface {
	Entries() EntryStore
	Streaks() StreakStore
	Profiles() ProfileProvider
	Visibility() VisibilityProvider
	WithinTx(ctx context.Context, fn func(Store) error) error
}
