package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"practice_backend/internal/domain"
	"practice_backend/internal/repository"
	"practice_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func testRegistry(t *testing.T) *domain.PackRegistry {
	t.Helper()
	packs, err := domain.NewPackRegistry([]domain.PackDefinition{
		{ID: domain.DefaultPackID, Name: "Daily", CardRangeStart: 1, CardRangeEnd: 365},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return packs
}

// unique per run so reruns against a persistent database don't collide
func freshKey(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func TestUserRepository_UpsertRoundTrip(t *testing.T) {
	db := connect(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	key := freshKey("upsert")
	u, err := repo.Upsert(ctx, key, "alice")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if u.ID == 0 || u.UserKey != key || u.Username != "alice" {
		t.Fatalf("unexpected user after insert: %+v", u)
	}

	// second upsert with a blank username keeps the stored one
	u2, err := repo.Upsert(ctx, key, "")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if u2.ID != u.ID {
		t.Fatalf("upsert created a new row: %d != %d", u2.ID, u.ID)
	}
	if u2.Username != "alice" {
		t.Fatalf("blank username overwrote stored one: %q", u2.Username)
	}

	got, err := repo.GetByKey(ctx, key)
	if err != nil {
		t.Fatalf("get by key: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("get by key mismatch: %d != %d", got.ID, u.ID)
	}
}

func TestPullRepository_AppendIsIdempotentPerDay(t *testing.T) {
	db := connect(t)
	users := repository.NewUserRepository(db)
	pulls := repository.NewPullRepository(db)
	ctx := context.Background()

	u, err := users.Upsert(ctx, freshKey("append"), "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	now := time.Now()
	event := &domain.PullEvent{
		UserID:     u.ID,
		PackID:     domain.DefaultPackID,
		CardID:     42,
		PullDate:   domain.Midnight(now),
		OccurredAt: now,
	}

	created, _, err := pulls.Append(ctx, event)
	if err != nil {
		t.Fatalf("first append: %v", err)
	}
	if !created {
		t.Fatal("first append reported not created")
	}
	if event.ID == 0 {
		t.Fatal("append did not assign an id")
	}

	// same day, different card: the constraint wins and the original event
	// comes back
	dup := &domain.PullEvent{
		UserID:     u.ID,
		PackID:     domain.DefaultPackID,
		CardID:     99,
		PullDate:   domain.Midnight(now),
		OccurredAt: now.Add(time.Minute),
	}
	created, existing, err := pulls.Append(ctx, dup)
	if err != nil {
		t.Fatalf("duplicate append: %v", err)
	}
	if created {
		t.Fatal("duplicate append reported created")
	}
	if existing == nil || existing.ID != event.ID || existing.CardID != 42 {
		t.Fatalf("duplicate append did not return the original event: %+v", existing)
	}

	history, err := pulls.History(ctx, u.ID, domain.DefaultPackID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 event in history, got %d", len(history))
	}
}

func TestPullService_SecondPullSameDayDenied(t *testing.T) {
	db := connect(t)
	users := repository.NewUserRepository(db)
	svc := service.NewPullService(db, testRegistry(t))
	ctx := context.Background()

	u, err := users.Upsert(ctx, freshKey("gate"), "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	result, err := svc.Pull(ctx, u.ID, domain.DefaultPackID)
	if err != nil {
		t.Fatalf("first pull: %v", err)
	}
	if result.Event.CardID < 1 || result.Event.CardID > 365 {
		t.Fatalf("card out of range: %d", result.Event.CardID)
	}
	if result.Streak.Current != 1 {
		t.Fatalf("expected streak 1 on first pull, got %d", result.Streak.Current)
	}
	if result.XPGained != domain.PullXP(1) {
		t.Fatalf("expected %d xp, got %d", domain.PullXP(1), result.XPGained)
	}

	denied, err := svc.Pull(ctx, u.ID, domain.DefaultPackID)
	if !errors.Is(err, service.ErrAlreadyPulledToday) {
		t.Fatalf("expected ErrAlreadyPulledToday, got %v", err)
	}
	if denied == nil || denied.Event.ID != result.Event.ID {
		t.Fatalf("denial did not carry today's event: %+v", denied)
	}

	ok, err := svc.CanPullToday(ctx, u.ID, domain.DefaultPackID)
	if err != nil {
		t.Fatalf("can pull today: %v", err)
	}
	if ok {
		t.Fatal("gate still open after a pull")
	}
}

func TestPullService_ResetCascades(t *testing.T) {
	db := connect(t)
	users := repository.NewUserRepository(db)
	pulls := repository.NewPullRepository(db)
	svc := service.NewPullService(db, testRegistry(t))
	ctx := context.Background()

	u, err := users.Upsert(ctx, freshKey("reset"), "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := svc.Pull(ctx, u.ID, domain.DefaultPackID); err != nil {
		t.Fatalf("pull: %v", err)
	}

	if err := svc.Reset(ctx, u.ID); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, err := users.GetByID(ctx, u.ID); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after reset, got %v", err)
	}
	history, err := pulls.History(ctx, u.ID, domain.DefaultPackID)
	if err != nil {
		t.Fatalf("history after reset: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("events survived the cascade: %d", len(history))
	}
}
