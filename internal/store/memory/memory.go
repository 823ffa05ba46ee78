// Package memory is a mutex-guarded in-memory store.Store used by
// tests. Transactions are serialized and roll back by snapshot.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tmercadante/leanscreen-go/internal/models"
	"github.com/tmercadante/leanscreen-go/internal/store"
)

type Store struct {
	mu         sync.Mutex
	entries    map[uuid.UUID]models.Entry
	streaks    map[uuid.UUID]models.StreakState
	profiles   map[uuid.UUID]models.DisplayInfo
	visibility map[uuid.UUID]bool
}

func New() *Store {
	return &Store{
		entries:    make(map[uuid.UUID]models.Entry),
		streaks:    make(map[uuid.UUID]models.StreakState),
		profiles:   make(map[uuid.UUID]models.DisplayInfo),
		visibility: make(map[uuid.UUID]bool),
	}
}

// AddUser registers display info for leaderboard joins.
func (s *Store) AddUser(userID uuid.UUID, displayName string, avatarURL *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = models.DisplayInfo{DisplayName: displayName, AvatarURL: avatarURL}
}

// SetVisibility records an explicit show-on-leaderboard setting.
func (s *Store) SetVisibility(userID uuid.UUID, show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visibility[userID] = show
}

func (s *Store) Entries() store.EntryStore            { return (*entryStore)(s) }
func (s *Store) Streaks() store.StreakStore           { return (*streakStore)(s) }
func (s *Store) Profiles() store.ProfileProvider      { return (*profileStore)(s) }
func (s *Store) Visibility() store.VisibilityProvider { return (*profileStore)(s) }

// WithinTx snapshots entries and streaks and restores them wholesale
// if fn fails. That discards any write that lands between snapshot and
// restore, so callers must not run transactions concurrently; tests
// drive this store from a single goroutine at a time.
func (s *Store) WithinTx(_ context.Context, fn func(store.Store) error) error {
	s.mu.Lock()
	entrySnap := make(map[uuid.UUID]models.Entry, len(s.entries))
	for k, v := range s.entries {
		entrySnap[k] = v
	}
	streakSnap := make(map[uuid.UUID]models.StreakState, len(s.streaks))
	for k, v := range s.streaks {
		streakSnap[k] = v
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.entries = entrySnap
		s.streaks = streakSnap
		s.mu.Unlock()
		return err
	}
	return nil
}

type entryStore Store

func (s *entryStore) Insert(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.DeletedAt == nil && e.UserID == entry.UserID && e.PeriodStart.Equal(entry.PeriodStart) {
			return store.ErrDuplicateEntry
		}
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	s.entries[entry.ID] = *entry
	return nil
}

func (s *entryStore) Update(_ context.Context, userID, entryID uuid.UUID, durationMinutes *int, note *string) (*models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryID]
	if !ok || entry.DeletedAt != nil || entry.UserID != userID {
		return nil, store.ErrEntryNotFound
	}
	if durationMinutes != nil {
		entry.DurationMinutes = *durationMinutes
	}
	if note != nil {
		entry.Note = note
	}
	entry.UpdatedAt = time.Now().UTC()
	s.entries[entryID] = entry
	return &entry, nil
}

func (s *entryStore) SoftDelete(_ context.Context, userID, entryID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryID]
	if !ok || entry.DeletedAt != nil || entry.UserID != userID {
		return store.ErrEntryNotFound
	}
	now := time.Now().UTC()
	entry.DeletedAt = &now
	s.entries[entryID] = entry
	return nil
}

func (s *entryStore) ListByUser(_ context.Context, userID uuid.UUID, from, to time.Time) ([]models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := []models.Entry{}
	for _, e := range s.entries {
		if e.DeletedAt != nil || e.UserID != userID {
			continue
		}
		if e.PeriodStart.Before(from) || e.PeriodStart.After(to) {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *entryStore) SumByRange(_ context.Context, from, to time.Time) (map[uuid.UUID]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[uuid.UUID]int)
	for _, e := range s.entries {
		if e.DeletedAt != nil || e.PeriodStart.Before(from) || e.PeriodStart.After(to) {
			continue
		}
		totals[e.UserID] += e.DurationMinutes
	}
	return totals, nil
}

type streakStore Store

func (s *streakStore) Get(_ context.Context, userID uuid.UUID) (*models.StreakState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.streaks[userID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *streakStore) Upsert(_ context.Context, state *models.StreakState, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.streaks[state.UserID]
	if expectedVersion == 0 {
		if ok {
			return store.ErrVersionConflict
		}
	} else if !ok || existing.Version != expectedVersion {
		return store.ErrVersionConflict
	}

	state.Version = expectedVersion + 1
	state.UpdatedAt = time.Now().UTC()
	s.streaks[state.UserID] = *state
	return nil
}

type profileStore Store

func (s *profileStore) GetDisplayInfo(_ context.Context, userID uuid.UUID) (*models.DisplayInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func (s *profileStore) ShowOnLeaderboard(_ context.Context, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	show, ok := s.visibility[userID]
	if !ok {
		return true, nil
	}
	return show, nil
}

func (s *profileStore) SetShowOnLeaderboard(_ context.Context, userID uuid.UUID, show bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visibility[userID] = show
	return nil
}
