package pull

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"practice_backend/internal/domain"
)

var (
	// ErrAlreadyPulledToday is returned when the daily gate denies a pull, or
	// when a concurrent attempt loses the race on the event store. Both cases
	// look the same to the caller.
	ErrAlreadyPulledToday = errors.New("already pulled today")

	ErrUnknownPack = errors.New("unknown pack")
	ErrInvalidKey  = errors.New("invalid user or pack key")
)

// EventStore is the persistence boundary of the core. The gate, selector and
// streak calculator depend only on this interface, never on a concrete
// storage mechanism.
type EventStore interface {
	// History returns the full pull history for (user, pack), ordered by
	// calendar day ascending.
	History(ctx context.Context, userID int64, packID string) ([]domain.PullEvent, error)

	// Append records one pull. It must be atomic per (user, pack, day):
	// when an event for the same key already exists it returns that event
	// and created=false instead of erroring.
	Append(ctx context.Context, event *domain.PullEvent) (created bool, existing *domain.PullEvent, err error)

	// Reset removes every event for the user. The only deleting operation.
	Reset(ctx context.Context, userID int64) error
}

// MemoryStore is an in-memory EventStore used by tests and offline tooling.
type MemoryStore struct {
	mu     sync.RWMutex
	events map[int64]map[string][]domain.PullEvent
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[int64]map[string][]domain.PullEvent)}
}

func (s *MemoryStore) History(_ context.Context, userID int64, packID string) ([]domain.PullEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.events[userID][packID]
	out := make([]domain.PullEvent, len(list))
	copy(out, list)
	sort.Slice(out, func(i, j int) bool { return out[i].PullDate.Before(out[j].PullDate) })
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, event *domain.PullEvent) (bool, *domain.PullEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byPack, ok := s.events[event.UserID]
	if !ok {
		byPack = make(map[string][]domain.PullEvent)
		s.events[event.UserID] = byPack
	}

	for i := range byPack[event.PackID] {
		e := byPack[event.PackID][i]
		if domain.SameDay(e.PullDate, event.PullDate) {
			return false, &e, nil
		}
	}

	s.nextID++
	event.ID = s.nextID
	byPack[event.PackID] = append(byPack[event.PackID], *event)
	return true, nil, nil
}

func (s *MemoryStore) Reset(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, userID)
	return nil
}

// Seed inserts an event directly, for building test fixtures.
func (s *MemoryStore) Seed(userID int64, packID string, cardID int, day time.Time) {
	_, _, _ = s.Append(context.Background(), &domain.PullEvent{
		UserID:     userID,
		PackID:     packID,
		CardID:     cardID,
		PullDate:   domain.Midnight(day),
		OccurredAt: day,
	})
}
