package http

import (
	"practice_backend/internal/config"
	"practice_backend/internal/http/handlers"
	"practice_backend/internal/http/middleware"
	"practice_backend/internal/service"
	"practice_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the full API surface. The leaderboard service must
// already be started; the hub's Run loop is launched by the caller.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, board *service.LeaderboardService, hub *ws.Hub, version string) {
	h := handlers.NewHandler(db, cfg.Packs, board)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	v1.POST("/auth", middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.Auth)

	// Profile
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.DELETE("/me", middleware.JWT(), h.DeleteMe)
	v1.GET("/achievements", middleware.JWT(), h.Achievements)

	// Packs and pulls. The pull endpoint gets a per-user limiter on top of
	// the per-IP one; the daily gate itself lives in the service.
	v1.GET("/packs", middleware.OptionalJWT(), h.ListPacks)
	v1.POST("/pull", middleware.JWT(), middleware.UserRateLimit(cfg.PullRateLimit, cfg.PullRateWindow), h.Pull)
	v1.GET("/collection", middleware.JWT(), h.Collection)
	v1.GET("/streak", middleware.JWT(), h.Streak)

	// Leaderboard
	v1.GET("/leaderboard", h.GetLeaderboard)
	v1.GET("/leaderboard/rank", middleware.JWT(), h.GetMyRank)

	// Live leaderboard feed
	r.GET("/ws/leaderboard", h.WS(hub))
}
