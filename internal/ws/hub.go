package ws

import (
	"context"
	"encoding/json"
	"sync"

	"practice_backend/internal/domain"
	"practice_backend/internal/logger"
	"practice_backend/internal/service"
)

// Update is the frame pushed to feed clients.
type Update struct {
	Type string             `json:"type"`
	Data domain.Leaderboard `json:"data"`
}

// Hub fans leaderboard updates out to connected WebSocket clients. It holds
// one subscription on the aggregator for its whole lifetime; clients get the
// current snapshot on connect and every recompute after that.
type Hub struct {
	board *service.LeaderboardService

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub(board *service.LeaderboardService) *Hub {
	return &Hub{
		board:   board,
		clients: make(map[*Client]struct{}),
	}
}

// Run pumps aggregator updates to clients until ctx is done. The
// subscription handle is released on every exit path.
func (h *Hub) Run(ctx context.Context) {
	updates, unsubscribe := h.board.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case board, ok := <-updates:
			if !ok {
				h.closeAll()
				return
			}
			h.broadcast(encodeUpdate(board))
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	logger.Debug("feed client connected", "clients", count)

	// snapshot so the client renders immediately instead of waiting for the
	// next change
	c.enqueue(encodeUpdate(h.board.Current()))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	logger.Debug("feed client disconnected", "clients", count)
}

func (h *Hub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.enqueue(msg)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func encodeUpdate(board domain.Leaderboard) []byte {
	msg, err := json.Marshal(Update{Type: "leaderboard", Data: board})
	if err != nil {
		// Leaderboard contains nothing unmarshalable; this cannot happen
		logger.Error("encode leaderboard update", "error", err)
		return []byte(`{"type":"error"}`)
	}
	return msg
}
