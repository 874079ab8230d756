package handlers

import (
	"net/http"
	"strings"

	"practice_backend/internal/domain"
	"practice_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	UserKey  string `json:"user_key"`
	Username string `json:"username"`
}

// Auth upserts the account for an opaque user key (wallet address or email)
// and issues a JWT. Wallet signature verification happens client-side in the
// connection library and is out of scope here.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	req.UserKey = strings.TrimSpace(req.UserKey)
	if err := domain.ValidateUserKey(req.UserKey); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := strings.TrimSpace(req.Username)
	if len(username) > 64 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username too long"})
		return
	}

	user, err := h.Users.Upsert(c.Request.Context(), req.UserKey, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"user_key": user.UserKey,
			"username": user.Username,
			"xp":       user.XP,
			"level":    user.Level(),
		},
	})
}
