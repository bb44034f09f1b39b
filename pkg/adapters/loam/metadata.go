package loam

import (
	"time"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/loam/pkg/core"
)

// AlgorithmMetadata is the frontmatter of an algorithm document.
// The document body holds the program text.
type AlgorithmMetadata struct {
	RemoteID   int64  `json:"remote_id" mapstructure:"remote_id"`
	Owner      bool   `json:"owner" mapstructure:"owner"`
	Name       string `json:"name" mapstructure:"name"`
	Icon       string `json:"icon" mapstructure:"icon"`
	LastUpdate string `json:"last_update" mapstructure:"last_update"`
	Notes      string `json:"notes" mapstructure:"notes"`
	Public     bool   `json:"public" mapstructure:"public"`
	Status     string `json:"status" mapstructure:"status"`
}

func metadataFor(rec *domain.Record) core.Metadata {
	return core.Metadata{
		"remote_id":   rec.RemoteID,
		"owner":       rec.Owner,
		"name":        rec.Name,
		"icon":        rec.Icon,
		"last_update": rec.LastUpdate.UTC().Format(time.RFC3339Nano),
		"notes":       rec.Notes,
		"public":      rec.Public,
		"status":      string(rec.Status),
	}
}

func (m AlgorithmMetadata) record(id int64, lines string) (*domain.Record, error) {
	rec := &domain.Record{
		LocalID:  id,
		RemoteID: m.RemoteID,
		Owner:    m.Owner,
		Name:     m.Name,
		Icon:     m.Icon,
		Lines:    lines,
		Notes:    m.Notes,
		Public:   m.Public,
		Status:   domain.SyncStatus(m.Status),
	}
	if m.LastUpdate != "" {
		ts, err := time.Parse(time.RFC3339Nano, m.LastUpdate)
		if err != nil {
			return nil, err
		}
		rec.LastUpdate = ts
	}
	return rec, nil
}
