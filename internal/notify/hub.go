package notify

import (
	"context"
	"fmt"
	"sync"
)

// Hub is an in-process PubSub keyed by user id.
type Hub struct {
	mu    sync.RWMutex
	rooms map[int64]map[Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[int64]map[Subscriber]struct{})}
}

func (h *Hub) Subscribe(userID int64, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[Subscriber]struct{})
		h.rooms[userID] = room
	}
	room[sub] = struct{}{}
}

func (h *Hub) Unsubscribe(userID int64, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[userID]
	if !ok {
		return
	}
	delete(room, sub)
	if len(room) == 0 {
		delete(h.rooms, userID)
	}
}

func (h *Hub) Publish(_ context.Context, userID int64, message string) error {
	payload, err := Frame(message)
	if err != nil {
		return fmt.Errorf("failed to encode notification frame: %w", err)
	}
	h.Deliver(userID, payload)
	return nil
}

// Deliver hands an encoded frame to every subscriber of userID. Subscribers that cannot keep up
// are dropped and closed.
func (h *Hub) Deliver(userID int64, payload []byte) int {
	h.mu.RLock()
	subs := make([]Subscriber, 0, len(h.rooms[userID]))
	for sub := range h.rooms[userID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, sub := range subs {
		if sub.Deliver(payload) {
			delivered++
			continue
		}
		h.Unsubscribe(userID, sub)
		go sub.Close()
	}
	return delivered
}

// Subscribers returns the number of live connections of userID.
func (h *Hub) Subscribers(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}
