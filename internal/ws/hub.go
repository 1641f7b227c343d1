package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub fans chat messages out to every socket subscribed to a room.
// Messages are persisted by the room service before they reach the hub,
// so a slow or absent subscriber never loses data.
type Hub struct {
	mu    sync.RWMutex
	rooms map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Subscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[c.RoomID]
	if !ok {
		subs = make(map[*Client]struct{})
		h.rooms[c.RoomID] = subs
	}
	subs[c] = struct{}{}
	log.Printf("Hub.Subscribe: user=%d room=%d subscribers=%d", c.UserID, c.RoomID, len(subs))
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[c.RoomID]
	if !ok {
		return
	}
	delete(subs, c)
	if len(subs) == 0 {
		delete(h.rooms, c.RoomID)
	}
	log.Printf("Hub.Unsubscribe: user=%d room=%d", c.UserID, c.RoomID)
}

// Broadcast marshals payload once and queues it to every subscriber of the
// room. Clients whose send buffer is full are dropped rather than blocked on.
func (h *Hub) Broadcast(roomID int64, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Hub.Broadcast: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	subs := h.rooms[roomID]
	var stale []*Client
	for c := range subs {
		select {
		case c.Send <- data:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		log.Printf("Hub.Broadcast: dropping slow client user=%d room=%d", c.UserID, roomID)
		c.Close()
	}
}

func (h *Hub) SubscriberCount(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// StartCleanup periodically prunes rooms whose subscriber sets emptied out
// without a clean unsubscribe.
func (h *Hub) StartCleanup() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			h.mu.Lock()
			for roomID, subs := range h.rooms {
				if len(subs) == 0 {
					delete(h.rooms, roomID)
					log.Printf("cleaned up empty room channel: %d", roomID)
				}
			}
			h.mu.Unlock()
		}
	}()
}
