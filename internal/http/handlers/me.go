package handlers

import (
	"errors"
	"net/http"

	"practice_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Me returns the caller's profile with per-pack streaks.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	totalPulls, err := h.Pulls.CountByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pulls"})
		return
	}

	streaks := make(map[string]gin.H)
	for _, pack := range h.Packs.All() {
		snapshot, err := h.PullService.Streak(ctx, userID, pack.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute streak"})
			return
		}
		streaks[pack.ID] = gin.H{
			"current": snapshot.Current,
			"longest": snapshot.Longest,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          user.ID,
		"user_key":    user.UserKey,
		"username":    user.Username,
		"created_at":  user.CreatedAt,
		"xp":          user.XP,
		"level":       user.Level(),
		"total_pulls": totalPulls,
		"streaks":     streaks,
	})
}

// DeleteMe wipes the caller's account and every pull event with it. The only
// operation that deletes pull history.
func (h *Handler) DeleteMe(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	if err := h.PullService.Reset(c.Request.Context(), userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset user data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
