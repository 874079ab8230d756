package service

import (
	"context"
	"time"

	"practice_backend/internal/domain"
	"practice_backend/internal/logger"
	"practice_backend/internal/pull"
	"practice_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrAlreadyPulledToday = pull.ErrAlreadyPulledToday
	ErrUnknownPack        = pull.ErrUnknownPack
	ErrUserNotFound       = repository.ErrUserNotFound
)

var (
	pullsGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulls_granted_total",
			Help: "Successful daily card pulls",
		},
		[]string{"pack"},
	)
	pullsDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulls_denied_total",
			Help: "Pulls denied by the daily gate or lost to a concurrent attempt",
		},
		[]string{"pack"},
	)
)

func init() {
	prometheus.MustRegister(pullsGranted)
	prometheus.MustRegister(pullsDenied)
}

// PullService executes the daily pull: gate check, card selection and event
// append as one transaction, serialized per user by a row lock so two
// concurrent requests cannot both pull.
type PullService struct {
	db    *pgxpool.Pool
	users *repository.UserRepository
	pulls *repository.PullRepository
	packs *domain.PackRegistry

	// injectable for tests
	randInt pull.RandInt
	now     func() time.Time
}

func NewPullService(db *pgxpool.Pool, packs *domain.PackRegistry) *PullService {
	return &PullService{
		db:      db,
		users:   repository.NewUserRepository(db),
		pulls:   repository.NewPullRepository(db),
		packs:   packs,
		randInt: pull.CryptoRandInt,
		now:     time.Now,
	}
}

// PullResult is everything the client needs to render the draw.
type PullResult struct {
	Event     domain.PullEvent      `json:"event"`
	Streak    domain.StreakSnapshot `json:"streak"`
	XPGained  int64                 `json:"xp_gained"`
	TotalXP   int64                 `json:"total_xp"`
	Level     int                   `json:"level"`
	Reshuffle bool                  `json:"reshuffle"`
}

// Pull draws today's card for (user, pack). When the gate denies, including
// losing a concurrent race, it returns ErrAlreadyPulledToday together with
// the event that already holds the day.
func (s *PullService) Pull(ctx context.Context, userID int64, packID string) (*PullResult, error) {
	pack, ok := s.packs.Get(packID)
	if !ok {
		return nil, ErrUnknownPack
	}

	now := s.now()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.users.LockTx(ctx, tx, userID); err != nil {
		return nil, err
	}

	history, err := s.pulls.HistoryTx(ctx, tx, userID, packID)
	if err != nil {
		return nil, err
	}

	if !pull.GateAllows(history, now) {
		pullsDenied.WithLabelValues(packID).Inc()
		return &PullResult{Event: todaysEvent(history, now)}, ErrAlreadyPulledToday
	}

	selection := pull.PickCard(pack, history, s.randInt)

	event := &domain.PullEvent{
		UserID:     userID,
		PackID:     packID,
		CardID:     selection.CardID,
		PullDate:   domain.Midnight(now),
		OccurredAt: now,
	}

	created, existing, err := s.pulls.AppendTx(ctx, tx, event)
	if err != nil {
		return nil, err
	}
	if !created {
		// lost a race the row lock should have prevented; same net effect
		// as a denied gate
		pullsDenied.WithLabelValues(packID).Inc()
		return &PullResult{Event: *existing}, ErrAlreadyPulledToday
	}

	streak := pull.ComputeStreak(append(history, *event), now)
	xpGained := domain.PullXP(streak.Current)

	totalXP, err := s.users.AddXPTx(ctx, tx, userID, xpGained)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	pullsGranted.WithLabelValues(packID).Inc()
	logger.Info("pull granted",
		"user_id", userID,
		"pack", packID,
		"card", event.CardID,
		"streak", streak.Current,
		"reshuffle", selection.Reshuffle,
	)

	return &PullResult{
		Event:     *event,
		Streak:    streak,
		XPGained:  xpGained,
		TotalXP:   totalXP,
		Level:     domain.LevelForXP(totalXP),
		Reshuffle: selection.Reshuffle,
	}, nil
}

func todaysEvent(history []domain.PullEvent, now time.Time) domain.PullEvent {
	today := domain.Midnight(now)
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Day(now.Location()).Equal(today) {
			return history[i]
		}
	}
	return history[len(history)-1]
}

// CanPullToday is the pure gate check for (user, pack).
func (s *PullService) CanPullToday(ctx context.Context, userID int64, packID string) (bool, error) {
	if _, ok := s.packs.Get(packID); !ok {
		return false, ErrUnknownPack
	}
	return pull.CanPullToday(ctx, s.pulls, userID, packID, s.now())
}

// Streak returns the user's streak snapshot for one pack.
func (s *PullService) Streak(ctx context.Context, userID int64, packID string) (domain.StreakSnapshot, error) {
	if _, ok := s.packs.Get(packID); !ok {
		return domain.StreakSnapshot{}, ErrUnknownPack
	}
	history, err := s.pulls.History(ctx, userID, packID)
	if err != nil {
		return domain.StreakSnapshot{}, err
	}
	return pull.ComputeStreak(history, s.now()), nil
}

// Reset wipes the user's account: pull events via cascade, then the user row
// itself. The only operation that deletes events.
func (s *PullService) Reset(ctx context.Context, userID int64) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	logger.Info("user data reset", "user_id", userID)
	return nil
}
