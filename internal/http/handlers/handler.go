package handlers

import (
	"practice_backend/internal/domain"
	"practice_backend/internal/repository"
	"practice_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB          *pgxpool.Pool
	Packs       *domain.PackRegistry
	Users       *repository.UserRepository
	Pulls       *repository.PullRepository
	PullService *service.PullService
	Board       *service.LeaderboardService
}

func NewHandler(db *pgxpool.Pool, packs *domain.PackRegistry, board *service.LeaderboardService) *Handler {
	return &Handler{
		DB:          db,
		Packs:       packs,
		Users:       repository.NewUserRepository(db),
		Pulls:       repository.NewPullRepository(db),
		PullService: service.NewPullService(db, packs),
		Board:       board,
	}
}

// getUserID reads the user id the JWT middleware stored in the context.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
