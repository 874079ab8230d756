package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard returns the current ranked top N. When the change feed is
// down the list is the last-known-good one and connected is false, so the
// client can show a reconnecting indicator next to stale data.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	board := h.Board.Current()
	c.JSON(http.StatusOK, gin.H{
		"leaderboard": board.Entries,
		"total_users": board.TotalUsers,
		"connected":   board.Connected,
	})
}

// GetMyRank returns the caller's own entry, even when it falls outside the
// displayed top N.
func (h *Handler) GetMyRank(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entry, ok := h.Board.Rank(userID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"rank": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rank":  entry.Rank,
		"entry": entry,
	})
}
