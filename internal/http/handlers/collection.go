package handlers

import (
	"errors"
	"net/http"

	"practice_backend/internal/domain"
	"practice_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// Collection returns the distinct cards the caller owns in one pack plus a
// completion percentage.
func (h *Handler) Collection(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	packID := c.DefaultQuery("pack_id", domain.DefaultPackID)
	pack, ok := h.Packs.Get(packID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pack"})
		return
	}

	cards, err := h.Pulls.DistinctCards(c.Request.Context(), userID, packID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection"})
		return
	}

	completion := 0
	if pack.Size() > 0 {
		completion = len(cards) * 100 / pack.Size()
	}

	c.JSON(http.StatusOK, gin.H{
		"pack_id":    packID,
		"cards":      cards,
		"owned":      len(cards),
		"pack_size":  pack.Size(),
		"completion": completion,
	})
}

// Streak returns the caller's streak snapshot for one pack.
func (h *Handler) Streak(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	packID := c.DefaultQuery("pack_id", domain.DefaultPackID)

	snapshot, err := h.PullService.Streak(c.Request.Context(), userID, packID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPack) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pack"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute streak"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pack_id": packID,
		"current": snapshot.Current,
		"longest": snapshot.Longest,
	})
}

// Achievements evaluates the caller's derived badges.
func (h *Handler) Achievements(c *gin.Context) {
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

	snapshot, err := h.PullService.Streak(ctx, userID, domain.DefaultPackID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute streak"})
		return
	}

	pack, _ := h.Packs.Get(domain.DefaultPackID)
	cards, err := h.Pulls.DistinctCards(ctx, userID, domain.DefaultPackID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collection"})
		return
	}

	achievements := domain.EvaluateAchievements(domain.AchievementStats{
		LongestStreak:  snapshot.Longest,
		TotalPulls:     totalPulls,
		TotalXP:        user.XP,
		CollectedCards: len(cards),
		PackSize:       pack.Size(),
	})

	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}
