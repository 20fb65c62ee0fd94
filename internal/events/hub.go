// Package events fans out invalidation notices so every view holding a copy
// of activity or garden state knows when to re-read.
package events

import (
	"context"
	"sync"
	"time"
)

// Event types published by the ledger.
const (
	ActivityUpdated = "activity.updated"
	GardenUnlocked  = "garden.unlocked"
	GardenPlaced    = "garden.placed"
	WeekReset       = "week.reset"
	AnswerRecorded  = "journal.answer"
)

type Event struct {
	Type      string         `json:"type"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Hub is a non-blocking publish/subscribe fan-out. A nil *Hub is valid and
// drops everything.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Publish delivers evt to every subscriber with buffer space. Slow
// subscribers miss events rather than block the writer.
func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().UnixMilli()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribe returns a channel of events closed when ctx is done.
func (h *Hub) Subscribe(ctx context.Context, buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	if h == nil {
		close(ch)
		return ch
	}

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
