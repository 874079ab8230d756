package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"practice_backend/internal/config"
	"practice_backend/internal/db"
	"practice_backend/internal/domain"
	"practice_backend/internal/repository"
	"practice_backend/internal/service"
)

// Seeds demo users with synthetic pull history so the leaderboard and streak
// endpoints have something to show. Safe to re-run: users are upserted and
// duplicate daily pulls are ignored by the unique constraint.
func main() {
	users := flag.Int("users", 5, "number of demo users to create")
	flag.Parse()

	cfg := config.Load()
	service.InitJWT()

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	pullRepo := repository.NewPullRepository(pool)
	ctx := context.Background()

	pack, ok := cfg.Packs.Get(domain.DefaultPackID)
	if !ok {
		log.Fatal("default pack missing from registry")
	}

	today := time.Now()
	for i := 0; i < *users; i++ {
		key := fmt.Sprintf("demo-user-%02d", i+1)
		u, err := userRepo.Upsert(ctx, key, fmt.Sprintf("demo%02d", i+1))
		if err != nil {
			log.Fatalf("upsert %s failed: %v", key, err)
		}

		// Each user gets a run of consecutive days ending today, so the
		// seeded streaks are all current and strictly ordered.
		days := i*3 + 1
		var xp int64
		for d := days - 1; d >= 0; d-- {
			streak := days - d
			event := &domain.PullEvent{
				UserID:     u.ID,
				PackID:     pack.ID,
				CardID:     pack.CardRangeStart + (i*days+streak-1)%pack.Size(),
				PullDate:   domain.Midnight(today.AddDate(0, 0, -d)),
				OccurredAt: today.AddDate(0, 0, -d),
			}
			created, _, err := pullRepo.Append(ctx, event)
			if err != nil {
				log.Fatalf("append pull for %s failed: %v", key, err)
			}
			if created {
				xp += domain.PullXP(streak)
			}
		}
		if xp > 0 {
			if _, err := pool.Exec(ctx, `UPDATE users SET xp = xp + $1 WHERE id = $2`, xp, u.ID); err != nil {
				log.Fatalf("xp update for %s failed: %v", key, err)
			}
		}

		token, err := service.GenerateJWT(u.ID)
		if err != nil {
			log.Fatalf("token for %s failed: %v", key, err)
		}
		log.Printf("user=%s id=%d streak=%d xp=+%d token=%s\n", key, u.ID, days, xp, token)
	}
}
