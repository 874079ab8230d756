package repository

import (
	"context"
	"errors"

	"practice_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pullEventColumns = `id, user_id, pack_id, card_id, pull_date, occurred_at`

// PullRepository is the Postgres event store. The pool-backed methods satisfy
// pull.EventStore; the Tx variants run inside the pull transaction.
type PullRepository struct {
	db *pgxpool.Pool
}

func NewPullRepository(db *pgxpool.Pool) *PullRepository {
	return &PullRepository{db: db}
}

func (r *PullRepository) History(ctx context.Context, userID int64, packID string) ([]domain.PullEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+pullEventColumns+`
		 FROM pull_events
		 WHERE user_id = $1 AND pack_id = $2
		 ORDER BY pull_date`,
		userID, packID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPullEvents(rows)
}

func (r *PullRepository) HistoryTx(ctx context.Context, tx pgx.Tx, userID int64, packID string) ([]domain.PullEvent, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+pullEventColumns+`
		 FROM pull_events
		 WHERE user_id = $1 AND pack_id = $2
		 ORDER BY pull_date`,
		userID, packID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPullEvents(rows)
}

// Append inserts one pull event. The unique constraint makes it a
// compare-and-swap: losing the race returns the winning event instead of an
// error.
func (r *PullRepository) Append(ctx context.Context, event *domain.PullEvent) (bool, *domain.PullEvent, error) {
	return r.append(ctx, r.db, event)
}

func (r *PullRepository) AppendTx(ctx context.Context, tx pgx.Tx, event *domain.PullEvent) (bool, *domain.PullEvent, error) {
	return r.append(ctx, tx, event)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *PullRepository) append(ctx context.Context, q querier, event *domain.PullEvent) (bool, *domain.PullEvent, error) {
	err := q.QueryRow(ctx,
		`INSERT INTO pull_events (user_id, pack_id, card_id, pull_date, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT ON CONSTRAINT pull_events_one_per_day DO NOTHING
		 RETURNING id`,
		event.UserID, event.PackID, event.CardID, event.PullDate, event.OccurredAt,
	).Scan(&event.ID)
	if err == nil {
		return true, nil, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, nil, err
	}

	// conflict: fetch the event that won the day
	var existing domain.PullEvent
	err = q.QueryRow(ctx,
		`SELECT `+pullEventColumns+`
		 FROM pull_events
		 WHERE user_id = $1 AND pack_id = $2 AND pull_date = $3`,
		event.UserID, event.PackID, event.PullDate,
	).Scan(&existing.ID, &existing.UserID, &existing.PackID, &existing.CardID, &existing.PullDate, &existing.OccurredAt)
	if err != nil {
		return false, nil, err
	}
	return false, &existing, nil
}

// Reset removes every pull event for the user without touching the account
// row.
func (r *PullRepository) Reset(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM pull_events WHERE user_id = $1`, userID)
	return err
}

// DistinctCards returns the sorted set of card ids the user owns in a pack.
func (r *PullRepository) DistinctCards(ctx context.Context, userID int64, packID string) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT card_id
		 FROM pull_events
		 WHERE user_id = $1 AND pack_id = $2
		 ORDER BY card_id`,
		userID, packID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CountByUser returns the user's total pull count across all packs.
func (r *PullRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM pull_events WHERE user_id = $1`, userID,
	).Scan(&n)
	return n, err
}

// CountsByUser returns total pull counts across all packs, keyed by user.
func (r *PullRepository) CountsByUser(ctx context.Context) (map[int64]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, COUNT(*) FROM pull_events GROUP BY user_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var n int
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, err
		}
		out[userID] = n
	}
	return out, rows.Err()
}

// PackHistories returns every user's full history for one pack, keyed by
// user, ordered by calendar day. Feeds the leaderboard recompute.
func (r *PullRepository) PackHistories(ctx context.Context, packID string) (map[int64][]domain.PullEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+pullEventColumns+`
		 FROM pull_events
		 WHERE pack_id = $1
		 ORDER BY user_id, pull_date`,
		packID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]domain.PullEvent)
	for rows.Next() {
		var e domain.PullEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.PackID, &e.CardID, &e.PullDate, &e.OccurredAt); err != nil {
			return nil, err
		}
		out[e.UserID] = append(out[e.UserID], e)
	}
	return out, rows.Err()
}

func scanPullEvents(rows pgx.Rows) ([]domain.PullEvent, error) {
	var out []domain.PullEvent
	for rows.Next() {
		var e domain.PullEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.PackID, &e.CardID, &e.PullDate, &e.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
