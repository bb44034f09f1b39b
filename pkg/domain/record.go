package domain

import "time"

// Record is the persisted and transferred form of an algorithm: its program
// text plus scalar metadata. Stores and remotes only ever see records.
type Record struct {
	LocalID    int64      `json:"local_id,omitempty" yaml:"local_id,omitempty"`
	RemoteID   int64      `json:"id,omitempty" yaml:"remote_id,omitempty"`
	Owner      bool       `json:"owner" yaml:"owner"`
	Name       string     `json:"name" yaml:"name"`
	Icon       string     `json:"icon,omitempty" yaml:"icon,omitempty"`
	LastUpdate time.Time  `json:"last_update" yaml:"last_update"`
	Lines      string     `json:"lines" yaml:"lines"`
	Notes      string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	Public     bool       `json:"public,omitempty" yaml:"public,omitempty"`
	Status     SyncStatus `json:"status,omitempty" yaml:"status,omitempty"` // local only, remotes drop it
}
