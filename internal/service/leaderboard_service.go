package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"practice_backend/internal/domain"
	"practice_backend/internal/logger"
	"practice_backend/internal/pull"
	"practice_backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

const notifyChannel = "practice_events"

var (
	leaderboardRecomputes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leaderboard_recomputes_total",
			Help: "Full leaderboard recomputations",
		},
	)
	leaderboardConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "leaderboard_feed_connected",
			Help: "Whether the change feed subscription is live (1) or down (0)",
		},
	)
)

func init() {
	prometheus.MustRegister(leaderboardRecomputes)
	prometheus.MustRegister(leaderboardConnected)
}

// LeaderboardService keeps a ranked view over every user, rebuilt from raw
// pull history on each change-feed notification. It only ever reads the
// store. When the feed drops it keeps serving the last-known-good list and
// reports Connected() == false until the subscription is back.
type LeaderboardService struct {
	db    *pgxpool.Pool
	users *repository.UserRepository
	pulls *repository.PullRepository

	size    int
	refresh time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	ranked    []domain.LeaderboardEntry // full list, rank ascending
	connected bool
	subs      map[int64]chan domain.Leaderboard
	nextSubID int64

	cancel context.CancelFunc
	done   chan struct{}
}

func NewLeaderboardService(db *pgxpool.Pool, size int, refresh time.Duration) *LeaderboardService {
	return &LeaderboardService{
		db:      db,
		users:   repository.NewUserRepository(db),
		pulls:   repository.NewPullRepository(db),
		size:    size,
		refresh: refresh,
		now:     time.Now,
		subs:    make(map[int64]chan domain.Leaderboard),
	}
}

// Start computes the initial list and launches the change-feed listener plus
// a fallback refresh ticker (streaks lapse at midnight even without writes).
func (s *LeaderboardService) Start(ctx context.Context) error {
	if err := s.Recompute(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.listenLoop(ctx)
	go s.refreshLoop(ctx)
	return nil
}

// Stop tears the listener down and closes all subscriptions.
func (s *LeaderboardService) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// Current returns the ranked top N and the feed status.
func (s *LeaderboardService) Current() domain.Leaderboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	top := s.ranked
	if len(top) > s.size {
		top = top[:s.size]
	}
	entries := make([]domain.LeaderboardEntry, len(top))
	copy(entries, top)

	return domain.Leaderboard{
		Entries:    entries,
		TotalUsers: len(s.ranked),
		Connected:  s.connected,
	}
}

// Rank returns the caller's own entry, looked up in the full list rather
// than the truncated top N.
func (s *LeaderboardService) Rank(userID int64) (domain.LeaderboardEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.ranked {
		if e.UserID == userID {
			return e, true
		}
	}
	return domain.LeaderboardEntry{}, false
}

// Connected reports whether the change feed is live. Callers poll this to
// decide whether to show a reconnecting indicator next to stale data.
func (s *LeaderboardService) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Subscribe returns a channel receiving every new ranked list and an
// unsubscribe func. The handle must be released on every exit path or the
// aggregator leaks the channel.
func (s *LeaderboardService) Subscribe() (<-chan domain.Leaderboard, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	ch := make(chan domain.Leaderboard, 8)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

// Recompute rebuilds the full ranked list from scratch. No incremental
// update; per-user streaks are re-derived from full history every time.
func (s *LeaderboardService) Recompute(ctx context.Context) error {
	users, err := s.users.All(ctx)
	if err != nil {
		return err
	}
	counts, err := s.pulls.CountsByUser(ctx)
	if err != nil {
		return err
	}
	histories, err := s.pulls.PackHistories(ctx, domain.DefaultPackID)
	if err != nil {
		return err
	}

	now := s.now()
	entries := make([]domain.LeaderboardEntry, 0, len(users))
	for i := range users {
		u := &users[i]
		snapshot := pull.ComputeStreak(histories[u.ID], now)
		entries = append(entries, domain.LeaderboardEntry{
			UserID:     u.ID,
			Username:   displayName(u),
			Streak:     snapshot.Current,
			TotalPulls: counts[u.ID],
			TotalXP:    u.XP,
			Level:      u.Level(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Less(entries[j]) })
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.mu.Lock()
	s.ranked = entries
	s.mu.Unlock()

	leaderboardRecomputes.Inc()
	s.broadcast()
	return nil
}

func (s *LeaderboardService) broadcast() {
	board := s.Current()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- board:
		default:
			// slow subscriber: drop this update, the next one supersedes it
		}
	}
}

// listenLoop holds a dedicated connection on LISTEN and recomputes on every
// notification. Connection loss flips the status to disconnected and retries
// with backoff.
func (s *LeaderboardService) listenLoop(ctx context.Context) {
	defer close(s.done)

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		err := s.listenOnce(ctx)
		if ctx.Err() != nil {
			return
		}

		s.setConnected(false)
		logger.Warn("leaderboard feed disconnected", "error", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (s *LeaderboardService) listenOnce(ctx context.Context) error {
	conn, err := s.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}

	s.setConnected(true)
	logger.Info("leaderboard feed connected", "channel", notifyChannel)

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return err
		}
		if err := s.Recompute(ctx); err != nil {
			logger.Error("leaderboard recompute failed", "error", err)
		}
	}
}

// refreshLoop covers the cases notifications cannot: streaks lapsing at
// midnight, and missed events while the feed was down.
func (s *LeaderboardService) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Recompute(ctx); err != nil {
				logger.Error("leaderboard refresh failed", "error", err)
			}
		}
	}
}

func (s *LeaderboardService) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()

	if v {
		leaderboardConnected.Set(1)
	} else {
		leaderboardConnected.Set(0)
	}
}

func displayName(u *domain.User) string {
	if u.Username != "" {
		return u.Username
	}
	// fall back to a shortened user key, wallet-style
	if len(u.UserKey) > 10 {
		return u.UserKey[:6] + "…" + u.UserKey[len(u.UserKey)-4:]
	}
	return u.UserKey
}
