package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tmercadante/leanscreen-go/internal/models"
	"github.com/tmercadante/leanscreen-go/internal/store"
)

var testUser = uuid.MustParse("9b7e3c10-5a2f-4d81-b6c4-07e9f1a2d358")

func sunday() time.Time {
	return time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC)
}

func TestStreakUpsertCreateThenStaleCreate(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	first := sunday()
	state := &models.StreakState{UserID: testUser, CurrentStreak: 1, LongestStreak: 1, LastLoggedPeriodStart: &first}
	if err := s.Streaks().Upsert(ctx, state, 0); err != nil {
		t.Fatalf("initial upsert: %v", err)
	}
	if state.Version != 1 {
		t.Fatalf("version after create = %d, want 1", state.Version)
	}

	// A second create against the same user lost the race.
	dup := &models.StreakState{UserID: testUser, CurrentStreak: 1, LongestStreak: 1, LastLoggedPeriodStart: &first}
	if err := s.Streaks().Upsert(ctx, dup, 0); !errors.Is(err, store.ErrVersionConflict) {
		t.Fatalf("racing create: got %v, want ErrVersionConflict", err)
	}
}

func TestStreakUpsertStaleVersion(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	first := sunday()
	state := &models.StreakState{UserID: testUser, CurrentStreak: 1, LongestStreak: 1, LastLoggedPeriodStart: &first}
	if err := s.Streaks().Upsert(ctx, state, 0); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Two writers read version 1; the first bump wins.
	next := sunday().AddDate(0, 0, 7)
	winner := &models.StreakState{UserID: testUser, CurrentStreak: 2, LongestStreak: 2, LastLoggedPeriodStart: &next}
	if err := s.Streaks().Upsert(ctx, winner, 1); err != nil {
		t.Fatalf("winning update: %v", err)
	}
	if winner.Version != 2 {
		t.Fatalf("version after update = %d, want 2", winner.Version)
	}

	loser := &models.StreakState{UserID: testUser, CurrentStreak: 2, LongestStreak: 2, LastLoggedPeriodStart: &next}
	if err := s.Streaks().Upsert(ctx, loser, 1); !errors.Is(err, store.ErrVersionConflict) {
		t.Fatalf("stale update: got %v, want ErrVersionConflict", err)
	}

	// The winner's write is untouched.
	got, err := s.Streaks().Get(ctx, testUser)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Version != 2 || got.CurrentStreak != 2 {
		t.Fatalf("stored state = %+v", got)
	}
}
