package repository

import (
	"context"
	"errors"

	"practice_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_key, COALESCE(username, ''), xp, created_at
		 FROM users
		 WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByKey(ctx context.Context, userKey string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_key, COALESCE(username, ''), xp, created_at
		 FROM users
		 WHERE user_key = $1`,
		userKey,
	)
	return scanUser(row)
}

// Upsert creates the user on first auth and refreshes the username on
// subsequent ones (a blank username never clobbers an existing value).
func (r *UserRepository) Upsert(ctx context.Context, userKey, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (user_key, username)
		 VALUES ($1, $2)
		 ON CONFLICT (user_key) DO UPDATE
		 SET username = CASE WHEN EXCLUDED.username <> '' THEN EXCLUDED.username ELSE users.username END
		 RETURNING id, user_key, COALESCE(username, ''), xp, created_at`,
		userKey, username,
	)
	return scanUser(row)
}

// AddXPTx credits XP inside an existing transaction and returns the new
// total.
func (r *UserRepository) AddXPTx(ctx context.Context, tx pgx.Tx, userID int64, delta int64) (int64, error) {
	var total int64
	err := tx.QueryRow(ctx,
		`UPDATE users SET xp = xp + $1 WHERE id = $2 RETURNING xp`,
		delta, userID,
	).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return total, nil
}

// LockTx takes the per-user row lock that serializes concurrent pulls for
// the same user.
func (r *UserRepository) LockTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

// Delete removes the user; pull events go with it via ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// All returns every user, for leaderboard recomputation.
func (r *UserRepository) All(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_key, COALESCE(username, ''), xp, created_at FROM users`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.UserKey, &u.Username, &u.XP, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.UserKey, &u.Username, &u.XP, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
