package delta

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/delta/internal/logging"
	"github.com/aretw0/delta/pkg/action"
	"github.com/aretw0/delta/pkg/adapters/memory"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/ports"
	"github.com/aretw0/delta/pkg/session"
)

const seedKey = "seed"

var errUnchanged = errors.New("unchanged")

// Engine is the high-level entry point of the library. It owns the stored
// algorithms, serializes edits and runs per algorithm, reports lifecycle
// events and synchronizes with an optional remote.
type Engine struct {
	sessions *session.Manager
	store    ports.AlgorithmStore
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	remote   algorithm.Remote
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
	seed     bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets where algorithms are persisted. Defaults to memory.
func WithStore(store ports.AlgorithmStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed locking of edits and runs.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithRemote sets the server algorithms are synchronized with.
func WithRemote(remote algorithm.Remote) Option {
	return func(e *Engine) {
		e.remote = remote
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time stamped on edits.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithoutDefaults stops List from seeding the default algorithms into an
// empty store.
func WithoutDefaults() Option {
	return func(e *Engine) {
		e.seed = false
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
		seed:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}
	sessionOpts := []session.Option{
		session.WithLogger(e.logger),
		session.WithClock(e.now),
		session.WithLockTTL(e.lockTTL),
	}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, sessionOpts...)
	return e
}

// Store returns the underlying store.
func (e *Engine) Store() ports.AlgorithmStore {
	return e.store
}

// Remote returns the configured remote, or nil.
func (e *Engine) Remote() algorithm.Remote {
	return e.remote
}

// Library groups stored algorithms the way a home screen shows them.
type Library struct {
	Owned      []*algorithm.Algorithm
	Downloaded []*algorithm.Algorithm
}

// All returns owned then downloaded algorithms.
func (l *Library) All() []*algorithm.Algorithm {
	all := make([]*algorithm.Algorithm, 0, len(l.Owned)+len(l.Downloaded))
	all = append(all, l.Owned...)
	return append(all, l.Downloaded...)
}

// Find returns the algorithm with the given local ID.
func (l *Library) Find(id int64) (*algorithm.Algorithm, bool) {
	for _, a := range l.All() {
		if a.LocalID == id {
			return a, true
		}
	}
	return nil, false
}

// List loads every stored algorithm. An empty store is first seeded with the
// default algorithms as downloads, unless WithoutDefaults was given.
func (e *Engine) List(ctx context.Context) (*Library, error) {
	algs, err := e.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(algs) == 0 && e.seed {
		if err := e.seedDefaults(ctx); err != nil {
			return nil, err
		}
		if algs, err = e.sessions.List(ctx); err != nil {
			return nil, err
		}
	}

	lib := &Library{}
	for _, a := range algs {
		if a.Owner {
			lib.Owned = append(lib.Owned, a)
		} else {
			lib.Downloaded = append(lib.Downloaded, a)
		}
	}
	return lib, nil
}

func (e *Engine) seedDefaults(ctx context.Context) error {
	return e.sessions.WithLock(ctx, seedKey, func(ctx context.Context) error {
		ids, err := e.store.List(ctx)
		if err != nil || len(ids) > 0 {
			return err
		}
		for _, a := range algorithm.Defaults() {
			if err := e.sessions.Create(ctx, a); err != nil {
				return fmt.Errorf("failed to seed %q: %w", a.Name, err)
			}
		}
		e.logger.Info("seeded default algorithms", "count", len(algorithm.Defaults()))
		return nil
	})
}

// Load returns a stored algorithm.
func (e *Engine) Load(ctx context.Context, id int64) (*algorithm.Algorithm, error) {
	return e.sessions.Load(ctx, id)
}

// Create stores a new, empty, owned algorithm.
func (e *Engine) Create(ctx context.Context, name string) (*algorithm.Algorithm, error) {
	alg := algorithm.New(0, 0, true, name, e.now().UTC(), "", nil)
	if err := e.sessions.Create(ctx, alg); err != nil {
		return nil, err
	}
	return alg, nil
}

// Import stores rec under a new local ID. Ownership and the remote ID are
// kept as given.
func (e *Engine) Import(ctx context.Context, rec *domain.Record) (*algorithm.Algorithm, error) {
	alg, err := algorithm.FromRecord(rec)
	if err != nil {
		return nil, err
	}
	if alg.LastUpdate.IsZero() {
		alg.LastUpdate = e.now().UTC()
	}
	if err := e.sessions.Create(ctx, alg); err != nil {
		return nil, err
	}
	return alg, nil
}

// Duplicate stores an owned, never uploaded copy of a stored algorithm.
func (e *Engine) Duplicate(ctx context.Context, id int64) (*algorithm.Algorithm, error) {
	alg, err := e.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	c := alg.Clone()
	if c.LocalID != 0 {
		c = algorithm.New(0, 0, true, algorithm.CopyName(alg.Name), alg.LastUpdate, alg.Icon, c.Root)
		c.Notes = alg.Notes
	}
	c.LastUpdate = e.now().UTC()
	if err := e.sessions.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a stored algorithm.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	return e.sessions.Delete(ctx, id)
}

// Insert adds act before the editor line at index. See Algorithm.Insert.
func (e *Engine) Insert(ctx context.Context, id int64, act action.Action, index int) (algorithm.Range, error) {
	var r algorithm.Range
	err := e.edit(ctx, id, "insert", index, func(a *algorithm.Algorithm) {
		r = a.Insert(act, index)
	})
	return r, err
}

// DeleteLine removes the action at the editor line index. See Algorithm.Delete.
func (e *Engine) DeleteLine(ctx context.Context, id int64, index int) (algorithm.Range, error) {
	var r algorithm.Range
	err := e.edit(ctx, id, "delete", index, func(a *algorithm.Algorithm) {
		r = a.Delete(index)
	})
	return r, err
}

// Move moves the action at line from to line to. See Algorithm.Move.
func (e *Engine) Move(ctx context.Context, id int64, from, to int) (algorithm.Range, algorithm.Range, error) {
	var removed, inserted algorithm.Range
	err := e.edit(ctx, id, "move", from, func(a *algorithm.Algorithm) {
		removed, inserted = a.Move(from, to)
	})
	return removed, inserted, err
}

// Update stores the edited values of line at index. See Algorithm.Update.
func (e *Engine) Update(ctx context.Context, id int64, line domain.EditorLine, index int) error {
	return e.edit(ctx, id, "update", index, func(a *algorithm.Algorithm) {
		a.Update(line, index)
	})
}

// UpdateSettings edits the name (index 0) or the icon (index 1).
func (e *Engine) UpdateSettings(ctx context.Context, id int64, index int, values []string) error {
	return e.edit(ctx, id, "settings", index, func(a *algorithm.Algorithm) {
		a.UpdateSettings(index, values)
	})
}

// edit applies fn under the algorithm's lock. Edits that change nothing are
// not saved and not reported.
func (e *Engine) edit(ctx context.Context, id int64, op string, index int, fn func(*algorithm.Algorithm)) error {
	_, err := e.sessions.Edit(ctx, id, func(a *algorithm.Algorithm) error {
		before := a.Record()
		fn(a)
		after := a.Record()
		if before.Lines == after.Lines && before.Name == after.Name && before.Icon == after.Icon {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	e.logger.Debug("algorithm edited", "algorithm_id", id, "operation", op, "index", index)
	if e.hooks.OnEdit != nil {
		e.hooks.OnEdit(ctx, &domain.EditEvent{
			EventBase: e.event(domain.EventEdit, id),
			Operation: op,
			Index:     index,
		})
	}
	return nil
}

// Start runs alg seeded with values and returns without waiting. A stored
// algorithm stays locked for the whole run, so edits and other runs of it
// wait. Cancelling ctx cancels the run. Start matches runner.Executor.
func (e *Engine) Start(ctx context.Context, alg *algorithm.Algorithm, values map[string]string, opts ...domain.ProcessOption) (*domain.Process, error) {
	if alg.LocalID == 0 {
		p := e.launch(ctx, alg, values, opts)
		go e.supervise(ctx, p)
		return p, nil
	}

	started := make(chan error, 1)
	var p *domain.Process
	go func() {
		err := e.sessions.WithLock(ctx, session.Key(alg.LocalID), func(ctx context.Context) error {
			p = e.launch(ctx, alg, values, opts)
			started <- nil
			e.supervise(ctx, p)
			return nil
		})
		if err != nil {
			started <- err
		}
	}()
	if err := <-started; err != nil {
		return nil, err
	}
	return p, nil
}

// Run runs a stored algorithm and waits for it to end.
func (e *Engine) Run(ctx context.Context, id int64, values map[string]string, opts ...domain.ProcessOption) (*domain.Snapshot, error) {
	alg, err := e.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := e.Start(ctx, alg, values, opts...)
	if err != nil {
		return nil, err
	}
	<-p.Done()
	return p.Snapshot(), nil
}

func (e *Engine) launch(ctx context.Context, alg *algorithm.Algorithm, values map[string]string, opts []domain.ProcessOption) *domain.Process {
	opts = append([]domain.ProcessOption{domain.WithProcessLogger(e.logger)}, opts...)
	start := e.now()
	p := alg.Run(values, nil, opts...)

	e.logger.Debug("run started", "algorithm_id", alg.LocalID, "run_id", p.ID)
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: e.event(domain.EventRunStart, alg.LocalID),
			RunID:     p.ID,
		})
	}

	go func() {
		<-p.Done()
		snap := p.Snapshot()
		duration := e.now().Sub(start)
		e.logger.Debug("run ended", "algorithm_id", alg.LocalID, "run_id", p.ID, "cancelled", snap.Cancelled, "duration", duration)
		if e.hooks.OnRunEnd != nil {
			e.hooks.OnRunEnd(context.WithoutCancel(ctx), &domain.RunEvent{
				EventBase: e.event(domain.EventRunEnd, alg.LocalID),
				RunID:     p.ID,
				Duration:  duration,
				Cancelled: snap.Cancelled,
				Snapshot:  snap,
			})
		}
	}()
	return p
}

// supervise waits for p, cancelling it when ctx ends first.
func (e *Engine) supervise(ctx context.Context, p *domain.Process) {
	select {
	case <-p.Done():
	case <-ctx.Done():
		p.Cancel()
		<-p.Done()
	}
}

// Sync runs the update check of a stored algorithm against the remote and
// stores the result. Algorithms that were never uploaded are up to date.
func (e *Engine) Sync(ctx context.Context, id int64) (algorithm.SyncOutcome, error) {
	if e.remote == nil {
		return algorithm.SyncFailed, domain.ErrNoRemote
	}
	outcome := algorithm.SyncFailed
	err := e.sessions.WithLock(ctx, session.Key(id), func(ctx context.Context) error {
		rec, err := e.store.Load(ctx, id)
		if err != nil {
			return err
		}
		alg, err := algorithm.FromRecord(rec)
		if err != nil {
			return err
		}

		prev := alg.Status
		var replacement *algorithm.Algorithm
		outcome = alg.CheckForUpdate(ctx, e.remote, func(a *algorithm.Algorithm) {
			if a.Status != prev {
				e.emitSync(ctx, id, prev, a.Status)
				prev = a.Status
			}
			if a != alg {
				replacement = a
			}
		})
		if replacement != nil {
			return e.store.Save(ctx, replacement.Record())
		}
		if alg.Status != rec.Status {
			return e.store.Save(ctx, alg.Record())
		}
		return nil
	})
	if err != nil {
		return algorithm.SyncFailed, err
	}
	e.logger.Info("algorithm synchronized", "algorithm_id", id, "outcome", outcome.String())
	return outcome, nil
}

// SyncAll synchronizes every stored algorithm that has a remote copy.
func (e *Engine) SyncAll(ctx context.Context) (map[int64]algorithm.SyncOutcome, error) {
	if e.remote == nil {
		return nil, domain.ErrNoRemote
	}
	lib, err := e.List(ctx)
	if err != nil {
		return nil, err
	}
	outcomes := make(map[int64]algorithm.SyncOutcome)
	for _, a := range lib.All() {
		if a.RemoteID == 0 {
			continue
		}
		outcome, err := e.Sync(ctx, a.LocalID)
		if err != nil {
			return outcomes, err
		}
		outcomes[a.LocalID] = outcome
	}
	return outcomes, nil
}

// Publish uploads an owned algorithm that has no remote copy yet and stores
// the remote ID it was given.
func (e *Engine) Publish(ctx context.Context, id int64) (*algorithm.Algorithm, error) {
	if e.remote == nil {
		return nil, domain.ErrNoRemote
	}
	var published *algorithm.Algorithm
	err := e.sessions.WithLock(ctx, session.Key(id), func(ctx context.Context) error {
		rec, err := e.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if !rec.Owner {
			return domain.ErrReadOnly
		}
		if rec.RemoteID != 0 {
			return fmt.Errorf("algorithm %d is already published as %d", id, rec.RemoteID)
		}
		stored, err := e.remote.Upload(ctx, rec)
		if err != nil {
			return fmt.Errorf("failed to publish: %w", err)
		}
		rec.RemoteID = stored.RemoteID
		rec.LastUpdate = stored.LastUpdate
		if published, err = algorithm.FromRecord(rec); err != nil {
			return err
		}
		if err := e.store.Save(ctx, rec); err != nil {
			return err
		}
		e.emitSync(ctx, id, domain.SyncLocal, domain.SyncSynchro)
		return nil
	})
	return published, err
}

// Download stores a copy of a remote algorithm as a new download.
func (e *Engine) Download(ctx context.Context, remoteID int64) (*algorithm.Algorithm, error) {
	if e.remote == nil {
		return nil, domain.ErrNoRemote
	}
	rec, err := e.remote.Download(ctx, remoteID)
	if err != nil {
		return nil, fmt.Errorf("failed to download %d: %w", remoteID, err)
	}
	r := *rec
	r.LocalID = 0
	r.RemoteID = remoteID
	r.Owner = false
	return e.Import(ctx, &r)
}

func (e *Engine) emitSync(ctx context.Context, id int64, from, to domain.SyncStatus) {
	if e.hooks.OnSync == nil {
		return
	}
	e.hooks.OnSync(ctx, &domain.SyncEvent{
		EventBase: e.event(domain.EventSync, id),
		From:      from,
		To:        to,
	})
}

func (e *Engine) event(t domain.EventType, id int64) domain.EventBase {
	return domain.EventBase{
		Timestamp:   e.now(),
		Type:        t,
		AlgorithmID: strconv.FormatInt(id, 10),
	}
}
