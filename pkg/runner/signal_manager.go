package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// SignalManager turns SIGINT/SIGTERM into context cancellation.
type SignalManager struct {
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSignalManager creates a manager derived from parent and starts listening.
func NewSignalManager(parent context.Context) *SignalManager {
	if parent == nil {
		parent = context.Background()
	}
	sm := &SignalManager{parent: parent}
	sm.Reset()
	return sm
}

// Context is cancelled on the first signal or when the parent is done.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Reset re-arms the listener after a signal was handled.
func (sm *SignalManager) Reset() {
	if sm.cancel != nil {
		sm.cancel()
	}
	sm.ctx, sm.cancel = signal.NotifyContext(sm.parent, os.Interrupt, syscall.SIGTERM)
}

// Stop permanently stops the listener.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}

// CheckRace waits briefly for a signal that may follow a read error.
// On Windows consoles Ctrl+C surfaces as EOF slightly before the signal.
func (sm *SignalManager) CheckRace() {
	if sm.ctx.Err() == nil {
		select {
		case <-sm.ctx.Done():
		case <-time.After(100 * time.Millisecond):
		}
	}
}
