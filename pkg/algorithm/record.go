package algorithm

import (
	"errors"
	"fmt"

	"github.com/aretw0/delta/internal/compiler"
	"github.com/aretw0/delta/pkg/domain"
)

var errNilRecord = errors.New("nil record")

// Record returns the persisted form of the algorithm.
func (a *Algorithm) Record() *domain.Record {
	return &domain.Record{
		LocalID:    a.LocalID,
		RemoteID:   a.RemoteID,
		Owner:      a.Owner,
		Name:       a.Name,
		Icon:       a.Icon,
		LastUpdate: a.LastUpdate,
		Lines:      a.String(),
		Notes:      a.Notes,
		Public:     a.Public,
		Status:     a.Status,
	}
}

// FromRecord compiles a record back into an algorithm.
func FromRecord(r *domain.Record) (*Algorithm, error) {
	if r == nil {
		return nil, errNilRecord
	}
	root, err := compiler.Compile(r.Lines)
	if err != nil {
		return nil, fmt.Errorf("failed to compile algorithm %q: %w", r.Name, err)
	}
	a := New(r.LocalID, r.RemoteID, r.Owner, r.Name, r.LastUpdate, r.Icon, root)
	a.Notes = r.Notes
	a.Public = r.Public
	if r.Status != "" {
		a.Status = r.Status
	}
	return a, nil
}
