package handlers

import (
	"errors"
	"net/http"

	"practice_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type PullRequest struct {
	PackID string `json:"pack_id"`
}

// Pull draws today's card. 409 with the existing event when the daily gate
// denies, so the client can render "come back tomorrow" with today's card.
func (h *Handler) Pull(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req PullRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.PackID == "" {
		req.PackID = h.Packs.All()[0].ID
	}

	result, err := h.PullService.Pull(c.Request.Context(), userID, req.PackID)
	switch {
	case errors.Is(err, service.ErrUnknownPack):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown pack"})
	case errors.Is(err, service.ErrAlreadyPulledToday):
		c.JSON(http.StatusConflict, gin.H{
			"error": "already pulled today",
			"event": result.Event,
		})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pull failed"})
	default:
		c.JSON(http.StatusOK, result)
	}
}

// Packs lists the configured packs with the caller's gate status for each.
func (h *Handler) ListPacks(c *gin.Context) {
	ctx := c.Request.Context()

	userID, authed := getUserID(c)

	type packInfo struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Size         int    `json:"size"`
		CanPullToday *bool  `json:"can_pull_today,omitempty"`
	}

	var out []packInfo
	for _, pack := range h.Packs.All() {
		info := packInfo{ID: pack.ID, Name: pack.Name, Size: pack.Size()}
		if authed {
			allowed, err := h.PullService.CanPullToday(ctx, userID, pack.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check gate"})
				return
			}
			info.CanPullToday = &allowed
		}
		out = append(out, info)
	}

	c.JSON(http.StatusOK, gin.H{"packs": out})
}
