package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

const EventVoteCast = "vote.cast"

// Event is pushed to every client watching an album.
type Event struct {
	Type      string    `json:"type"`
	AlbumID   uint      `json:"albumId"`
	PhotoID   uint      `json:"photoId,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans events out to the websocket clients of each album.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uint]map[*Client]bool // albumID -> clients
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for albumID, clients := range h.clients {
				for c := range clients {
					close(c.send)
				}
				delete(h.clients, albumID)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.albumID] == nil {
				h.clients[c.albumID] = make(map[*Client]bool)
			}
			h.clients[c.albumID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			msg, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("failed to marshal live event", "error", err, "type", ev.Type)
				continue
			}

			h.mu.Lock()
			for c := range h.clients[ev.AlbumID] {
				select {
				case c.send <- msg:
				default:
					h.logger.Warn("dropping slow live client", "album_id", ev.AlbumID)
					h.remove(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with h.mu held.
func (h *Hub) remove(c *Client) {
	clients, ok := h.clients[c.albumID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.albumID)
	}
}

// Publish queues ev for delivery. It never blocks; events are dropped when
// the queue is full.
func (h *Hub) Publish(ev *Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("live event queue full, dropping event", "type", ev.Type, "album_id", ev.AlbumID)
	}
}

// Count reports how many clients are watching albumID.
func (h *Hub) Count(albumID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[albumID])
}
