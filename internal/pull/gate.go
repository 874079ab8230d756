package pull

import (
	"context"
	"time"

	"practice_backend/internal/domain"
)

// CanPullToday reports whether (user, pack) is allowed a new pull on the
// calendar day containing now. The gate is midnight-to-midnight, not a
// rolling 24-hour window: a pull at 23:59 does not block one at 00:01 the
// next day. Pure read, no side effects.
func CanPullToday(ctx context.Context, store EventStore, userID int64, packID string, now time.Time) (bool, error) {
	if userID <= 0 || packID == "" {
		return false, ErrInvalidKey
	}

	history, err := store.History(ctx, userID, packID)
	if err != nil {
		return false, err
	}
	return GateAllows(history, now), nil
}

// GateAllows is the pure form of the gate over an already-loaded history.
func GateAllows(history []domain.PullEvent, now time.Time) bool {
	today := domain.Midnight(now)
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Day(now.Location()).Equal(today) {
			return false
		}
	}
	return true
}
