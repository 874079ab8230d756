package pull

import (
	"context"
	"math/rand"
	"testing"

	"practice_backend/internal/domain"
)

var testPack = domain.PackDefinition{
	ID:             domain.DefaultPackID,
	Name:           "Daily",
	CardRangeStart: 1,
	CardRangeEnd:   10,
}

func TestSelectCardStaysInRange(t *testing.T) {
	store := NewMemoryStore()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		sel, err := SelectCard(context.Background(), store, testPack, 1, rng.Intn)
		if err != nil {
			t.Fatalf("select: %v", err)
		}
		if !testPack.Contains(sel.CardID) {
			t.Fatalf("card %d outside pack range [%d, %d]", sel.CardID, testPack.CardRangeStart, testPack.CardRangeEnd)
		}
	}
}

func TestSelectCardNeverRepeatsUntilExhausted(t *testing.T) {
	store := NewMemoryStore()
	rng := rand.New(rand.NewSource(7))
	ctx := context.Background()

	seen := make(map[int]bool)
	for i := 0; i < testPack.Size(); i++ {
		sel, err := SelectCard(ctx, store, testPack, 1, rng.Intn)
		if err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
		if seen[sel.CardID] {
			t.Fatalf("card %d repeated before pack exhaustion", sel.CardID)
		}
		if sel.Reshuffle {
			t.Fatalf("reshuffle reported with %d of %d cards pulled", len(seen), testPack.Size())
		}
		seen[sel.CardID] = true
		store.Seed(1, testPack.ID, sel.CardID, day(i+1))
	}

	// pack exhausted: next selection comes from the full range with the
	// reshuffle flag set
	sel, err := SelectCard(ctx, store, testPack, 1, rng.Intn)
	if err != nil {
		t.Fatalf("select after exhaustion: %v", err)
	}
	if !sel.Reshuffle {
		t.Fatalf("expected reshuffle after exhausting the pack")
	}
	if !testPack.Contains(sel.CardID) {
		t.Fatalf("reshuffle card %d outside range", sel.CardID)
	}
}

func TestSelectCardIsolatesPacks(t *testing.T) {
	store := NewMemoryStore()
	bonus := domain.PackDefinition{ID: "bonus", Name: "Bonus", CardRangeStart: 11, CardRangeEnd: 12}
	ctx := context.Background()

	// pulling everything from the daily pack must not shrink the bonus pack
	for i := testPack.CardRangeStart; i <= testPack.CardRangeEnd; i++ {
		store.Seed(1, testPack.ID, i, day(i))
	}

	sel, err := SelectCard(ctx, store, bonus, 1, func(n int) int { return 0 })
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Reshuffle {
		t.Fatalf("bonus pack reported exhausted after daily pulls only")
	}
	if sel.CardID != 11 {
		t.Fatalf("expected first unseen bonus card 11, got %d", sel.CardID)
	}
}

func TestSelectCardRejectsBadKeys(t *testing.T) {
	store := NewMemoryStore()
	if _, err := SelectCard(context.Background(), store, testPack, 0, nil); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey for user 0, got %v", err)
	}
	if _, err := SelectCard(context.Background(), store, domain.PackDefinition{}, 1, nil); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey for empty pack, got %v", err)
	}
}
