package integration

import (
	"context"
	"testing"
	"time"

	"practice_backend/internal/domain"
	"practice_backend/internal/repository"
	"practice_backend/internal/service"
)

// Exercises the live path: Start listens on the notify channel, a pull fires
// the statement trigger, and subscribers see a fresh ranked list without
// waiting for the fallback ticker.
func TestLeaderboardService_NotifyDrivenRecompute(t *testing.T) {
	db := connect(t)
	users := repository.NewUserRepository(db)
	svc := service.NewPullService(db, testRegistry(t))
	ctx := context.Background()

	u, err := users.Upsert(ctx, freshKey("board"), "boarduser")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	board := service.NewLeaderboardService(db, 100, time.Hour)
	if err := board.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer board.Stop()

	// give the LISTEN connection a moment to come up
	deadline := time.Now().Add(5 * time.Second)
	for !board.Connected() {
		if time.Now().After(deadline) {
			t.Fatal("feed never connected")
		}
		time.Sleep(50 * time.Millisecond)
	}

	updates, unsubscribe := board.Subscribe()
	defer unsubscribe()

	if _, err := svc.Pull(ctx, u.ID, domain.DefaultPackID); err != nil {
		t.Fatalf("pull: %v", err)
	}

	// drain updates until our user shows up ranked, or give up
	timeout := time.After(10 * time.Second)
	for {
		select {
		case got, ok := <-updates:
			if !ok {
				t.Fatal("subscription closed early")
			}
			if !got.Connected {
				continue
			}
			if entry, ok := board.Rank(u.ID); ok {
				if entry.Streak != 1 || entry.TotalPulls != 1 {
					t.Fatalf("unexpected entry after pull: %+v", entry)
				}
				return
			}
		case <-timeout:
			t.Fatal("no recompute observed after pull")
		}
	}
}
