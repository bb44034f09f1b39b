package ports

import (
	"context"

	"github.com/aretw0/delta/pkg/domain"
)

// AlgorithmStore defines the interface for persisting algorithm records.
type AlgorithmStore interface {
	// Save persists the record under rec.LocalID, replacing any previous version.
	// Returns domain.ErrInvalidID if the record has no local ID.
	Save(ctx context.Context, rec *domain.Record) error

	// Load retrieves the record stored under id.
	// Returns domain.ErrAlgorithmNotFound if nothing is stored there.
	Load(ctx context.Context, id int64) (*domain.Record, error)

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id int64) error

	// List returns the stored local IDs in ascending order.
	List(ctx context.Context) ([]int64, error)
}
