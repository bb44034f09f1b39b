package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/delta/internal/logging"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a distributed lock.
const DefaultLockTTL = 30 * time.Second

const allocKey = "ids"

// lockEntry holds a one-slot semaphore and the reference count.
type lockEntry struct {
	sem  chan struct{}
	refs int
}

// Manager orchestrates access to stored algorithms, serializing
// read-modify-write cycles per algorithm.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.AlgorithmStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the time stamped on edited algorithms.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new Manager on top of store.
func NewManager(store ports.AlgorithmStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key is the lock key of an algorithm.
func Key(id int64) string {
	return "algorithm:" + strconv.FormatInt(id, 10)
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST call release(key) once it no longer holds or waits for entry.sem.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Load compiles the stored algorithm.
func (m *Manager) Load(ctx context.Context, id int64) (*algorithm.Algorithm, error) {
	var alg *algorithm.Algorithm
	err := m.WithLock(ctx, Key(id), func(ctx context.Context) error {
		var err error
		alg, err = m.load(ctx, id)
		return err
	})
	return alg, err
}

func (m *Manager) load(ctx context.Context, id int64) (*algorithm.Algorithm, error) {
	rec, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return algorithm.FromRecord(rec)
}

// Create stores alg under the next free local ID and sets alg.LocalID.
func (m *Manager) Create(ctx context.Context, alg *algorithm.Algorithm) error {
	return m.WithLock(ctx, allocKey, func(ctx context.Context) error {
		ids, err := m.store.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to allocate id: %w", err)
		}
		alg.LocalID = 1
		if len(ids) > 0 {
			alg.LocalID = slices.Max(ids) + 1
		}
		return m.store.Save(ctx, alg.Record())
	})
}

// Save persists alg as is.
func (m *Manager) Save(ctx context.Context, alg *algorithm.Algorithm) error {
	if alg.LocalID == 0 {
		return domain.ErrInvalidID
	}
	return m.WithLock(ctx, Key(alg.LocalID), func(ctx context.Context) error {
		return m.store.Save(ctx, alg.Record())
	})
}

// Edit loads an owned algorithm, applies fn and saves the result with a fresh
// last update date, all while holding the algorithm's lock. Returns
// domain.ErrReadOnly for downloaded algorithms. Nothing is saved when fn fails.
func (m *Manager) Edit(ctx context.Context, id int64, fn func(*algorithm.Algorithm) error) (*algorithm.Algorithm, error) {
	var alg *algorithm.Algorithm
	err := m.WithLock(ctx, Key(id), func(ctx context.Context) error {
		var err error
		alg, err = m.load(ctx, id)
		if err != nil {
			return err
		}
		if !alg.Owner {
			return domain.ErrReadOnly
		}
		if err := fn(alg); err != nil {
			return err
		}
		alg.LastUpdate = m.now().UTC()
		return m.store.Save(ctx, alg.Record())
	})
	if err != nil {
		return nil, err
	}
	return alg, nil
}

// Delete removes the algorithm from the store.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	return m.WithLock(ctx, Key(id), func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List loads every stored algorithm in ID order. Records that no longer
// compile are logged and skipped.
func (m *Manager) List(ctx context.Context) ([]*algorithm.Algorithm, error) {
	ids, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}
	algs := make([]*algorithm.Algorithm, 0, len(ids))
	for _, id := range ids {
		alg, err := m.load(ctx, id)
		if errors.Is(err, domain.ErrAlgorithmNotFound) {
			continue
		}
		if err != nil {
			m.logger.Warn("skipping unreadable algorithm", "algorithm_id", id, "err", err)
			continue
		}
		algs = append(algs, alg)
	}
	return algs, nil
}

// Store returns the underlying store.
func (m *Manager) Store() ports.AlgorithmStore {
	return m.store
}

// WithLock executes fn while holding the local and, when configured, the
// distributed lock for key. Waiting for the local lock stops when ctx is done.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		m.release(key)
		return fmt.Errorf("%w: %w", domain.ErrLockAcquire, ctx.Err())
	}
	defer func() {
		<-entry.sem
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrLockAcquire, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
