package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/delta/internal/compiler"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/ports"
)

// Registry is the shared catalog a sync server publishes. Records are keyed
// by remote ID; the backing store sees that ID as its local ID.
//
// Registry implements algorithm.Remote, so an engine can sync directly
// against it in-process.
type Registry struct {
	mu    sync.Mutex
	store ports.AlgorithmStore
	now   func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the time stamped on uploads that carry none.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a registry on top of store.
func NewRegistry(store ports.AlgorithmStore, opts ...Option) *Registry {
	r := &Registry{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Seed publishes recs when the registry is empty. Records without a remote ID
// are skipped.
func (r *Registry) Seed(ctx context.Context, recs ...*domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	if len(ids) > 0 {
		return nil
	}
	for _, rec := range recs {
		if rec == nil || rec.RemoteID == 0 {
			continue
		}
		if err := r.store.Save(ctx, published(rec, rec.RemoteID)); err != nil {
			return fmt.Errorf("failed to seed %d: %w", rec.RemoteID, err)
		}
	}
	return nil
}

// Check returns the metadata of a published algorithm, without its lines.
func (r *Registry) Check(ctx context.Context, remoteID int64) (*domain.Record, error) {
	rec, err := r.Download(ctx, remoteID)
	if err != nil {
		return nil, err
	}
	rec.Lines = ""
	return rec, nil
}

// Download returns a published algorithm.
func (r *Registry) Download(ctx context.Context, remoteID int64) (*domain.Record, error) {
	if remoteID == 0 {
		return nil, domain.ErrAlgorithmNotFound
	}
	rec, err := r.store.Load(ctx, remoteID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			return nil, domain.ErrAlgorithmNotFound
		}
		return nil, err
	}
	return remote(rec), nil
}

// Upload publishes rec. A record without a remote ID gets the next free one.
// The program must compile.
func (r *Registry) Upload(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	if rec == nil {
		return nil, errors.New("nil record")
	}
	if _, err := compiler.Compile(rec.Lines); err != nil {
		return nil, fmt.Errorf("rejected upload: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := rec.RemoteID
	if id == 0 {
		ids, err := r.store.List(ctx)
		if err != nil {
			return nil, err
		}
		id = 1
		if len(ids) > 0 {
			id = slices.Max(ids) + 1
		}
	}

	stored := published(rec, id)
	if stored.LastUpdate.IsZero() {
		stored.LastUpdate = r.now().UTC()
	}
	if err := r.store.Save(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to publish %d: %w", id, err)
	}
	return remote(stored), nil
}

// List returns the metadata of every published algorithm, ordered by ID.
func (r *Registry) List(ctx context.Context) ([]*domain.Record, error) {
	ids, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	recs := make([]*domain.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.store.Load(ctx, id)
		if errors.Is(err, domain.ErrAlgorithmNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		meta := remote(rec)
		meta.Lines = ""
		recs = append(recs, meta)
	}
	return recs, nil
}

// Delete unpublishes an algorithm.
func (r *Registry) Delete(ctx context.Context, remoteID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Delete(ctx, remoteID)
}

// published is the stored form: keyed by remote ID.
func published(rec *domain.Record, id int64) *domain.Record {
	c := *rec
	c.LocalID = id
	c.RemoteID = id
	c.Owner = false
	c.Status = ""
	return &c
}

// remote is the form handed to clients: no local identity.
func remote(rec *domain.Record) *domain.Record {
	c := *rec
	c.RemoteID = rec.LocalID
	c.LocalID = 0
	c.Owner = false
	c.Status = ""
	return &c
}
