package http

import (
	"log/slog"
	"sync"
)

// StreamManager fans catalog events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
	}
}

// Subscribe registers a buffered channel. The returned func unregisters and
// closes it.
func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if _, ok := sm.subscribers[ch]; ok {
				delete(sm.subscribers, ch)
				close(ch)
			}
		})
	}
}

// Close ends every subscription. Buffered events are still delivered.
func (sm *StreamManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for ch := range sm.subscribers {
		delete(sm.subscribers, ch)
		close(ch)
	}
}

// Subscribers returns the number of open subscriptions.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Slow client.
			slog.Warn("SSE: Client buffer full, dropping message")
		}
	}
}
