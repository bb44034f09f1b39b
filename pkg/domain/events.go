package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart EventType = "run_start"
	EventRunEnd   EventType = "run_end"
	EventEdit     EventType = "edit"
	EventSync     EventType = "sync"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        EventType `json:"type"`
	AlgorithmID string    `json:"algorithm_id"`
}

// RunEvent represents the start or end of an algorithm run.
type RunEvent struct {
	EventBase
	RunID     string        `json:"run_id"`
	Duration  time.Duration `json:"duration,omitempty"`
	Cancelled bool          `json:"cancelled,omitempty"`
	Snapshot  *Snapshot     `json:"snapshot,omitempty"`
}

// EditEvent represents a structural or value edit of an algorithm.
type EditEvent struct {
	EventBase
	Operation string `json:"operation"` // insert, delete, move, update
	Index     int    `json:"index"`
}

// SyncEvent represents a synchronization status transition.
type SyncEvent struct {
	EventBase
	From SyncStatus `json:"from"`
	To   SyncStatus `json:"to"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnRunEnd   func(context.Context, *RunEvent)
	OnEdit     func(context.Context, *EditEvent)
	OnSync     func(context.Context, *SyncEvent)
}
