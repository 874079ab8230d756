package pull

import (
	"context"
	crand "crypto/rand"
	"math/big"

	"practice_backend/internal/domain"
)

// RandInt returns a uniform random int in [0, n). Injectable so tests can
// pin the selection.
type RandInt func(n int) int

// CryptoRandInt draws from crypto/rand.
func CryptoRandInt(n int) int {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return int(v.Int64())
}

// Selection is the outcome of picking a card.
type Selection struct {
	CardID    int
	Reshuffle bool // the pack was exhausted and the full range was used
}

// SelectCard picks a random card id the user has never pulled from the pack.
// Once the count of distinct pulled ids reaches the pack size the pack is
// exhausted and a uniform id from the full range is returned instead, repeats
// allowed. Selection has no side effects; recording the pull is a separate,
// explicit step so selection stays idempotent.
func SelectCard(ctx context.Context, store EventStore, pack domain.PackDefinition, userID int64, randInt RandInt) (Selection, error) {
	if userID <= 0 || pack.ID == "" {
		return Selection{}, ErrInvalidKey
	}
	if randInt == nil {
		randInt = CryptoRandInt
	}

	history, err := store.History(ctx, userID, pack.ID)
	if err != nil {
		return Selection{}, err
	}
	return PickCard(pack, history, randInt), nil
}

// PickCard is the pure form of selection over an already-loaded history.
func PickCard(pack domain.PackDefinition, history []domain.PullEvent, randInt RandInt) Selection {
	if randInt == nil {
		randInt = CryptoRandInt
	}

	seen := make(map[int]struct{}, len(history))
	for i := range history {
		if pack.Contains(history[i].CardID) {
			seen[history[i].CardID] = struct{}{}
		}
	}

	if len(seen) >= pack.Size() {
		return Selection{
			CardID:    pack.CardRangeStart + randInt(pack.Size()),
			Reshuffle: true,
		}
	}

	unseen := make([]int, 0, pack.Size()-len(seen))
	for id := pack.CardRangeStart; id <= pack.CardRangeEnd; id++ {
		if _, ok := seen[id]; !ok {
			unseen = append(unseen, id)
		}
	}

	return Selection{CardID: unseen[randInt(len(unseen))]}
}
