package pull

import (
	"context"
	"testing"
	"time"

	"practice_backend/internal/domain"
)

func TestCanPullTodayFreshUser(t *testing.T) {
	store := NewMemoryStore()
	ok, err := CanPullToday(context.Background(), store, 1, domain.DefaultPackID, day(1))
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if !ok {
		t.Fatalf("fresh user should be allowed to pull")
	}
}

func TestCanPullTodayDeniesSecondPull(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Seed(1, domain.DefaultPackID, 3, day(1))

	ok, err := CanPullToday(ctx, store, 1, domain.DefaultPackID, day(1).Add(3*time.Hour))
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if ok {
		t.Fatalf("second pull on the same day should be denied")
	}

	// calendar day advances: allowed again
	ok, err = CanPullToday(ctx, store, 1, domain.DefaultPackID, day(2))
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if !ok {
		t.Fatalf("next calendar day should be allowed")
	}
}

func TestCanPullTodayIsCalendarDayNotRollingWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	// pull at 23:59
	lateNight := domain.Midnight(day(1)).Add(23*time.Hour + 59*time.Minute)
	store.Seed(1, domain.DefaultPackID, 1, lateNight)

	// 00:01 two minutes later is a new calendar day; a rolling 24h window
	// would wrongly deny this
	ok, err := CanPullToday(ctx, store, 1, domain.DefaultPackID, lateNight.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if !ok {
		t.Fatalf("pull just after midnight should be allowed")
	}
}

func TestCanPullTodayGatesPacksIndependently(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Seed(1, domain.DefaultPackID, 1, day(1))

	ok, err := CanPullToday(ctx, store, 1, "bonus", day(1))
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if !ok {
		t.Fatalf("bonus pack should gate independently of the daily pack")
	}
}

func TestCanPullTodayRejectsBadKeys(t *testing.T) {
	store := NewMemoryStore()
	if _, err := CanPullToday(context.Background(), store, 0, domain.DefaultPackID, day(1)); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey for user 0, got %v", err)
	}
	if _, err := CanPullToday(context.Background(), store, 1, "", day(1)); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey for empty pack, got %v", err)
	}
}

func TestMemoryStoreAppendIsIdempotentPerDay(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := &domain.PullEvent{UserID: 1, PackID: domain.DefaultPackID, CardID: 5, PullDate: domain.Midnight(day(1))}
	created, _, err := store.Append(ctx, first)
	if err != nil || !created {
		t.Fatalf("first append: created=%v err=%v", created, err)
	}

	second := &domain.PullEvent{UserID: 1, PackID: domain.DefaultPackID, CardID: 9, PullDate: domain.Midnight(day(1))}
	created, existing, err := store.Append(ctx, second)
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if created {
		t.Fatalf("same-day append should lose the race, not create")
	}
	if existing == nil || existing.CardID != 5 {
		t.Fatalf("race loser should get the existing event back, got %+v", existing)
	}
}
