package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/delta/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const defaultPrefix = "delta:algorithm:"

// Store implements ports.AlgorithmStore using Redis.
// Records are JSON strings; a sorted set scored by local ID indexes them.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets an expiration for stored algorithms. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client so a Locker can share it.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(id int64) string {
	return s.prefix + strconv.FormatInt(id, 10)
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the record and indexes it.
func (s *Store) Save(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.LocalID == 0 {
		return domain.ErrInvalidID
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal algorithm: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(rec.LocalID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(rec.LocalID),
		Member: strconv.FormatInt(rec.LocalID, 10),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the record from Redis.
func (s *Store) Load(ctx context.Context, id int64) (*domain.Record, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrAlgorithmNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var rec domain.Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal algorithm: %w", err)
	}
	rec.LocalID = id
	return &rec, nil
}

// Delete removes the record and its index entry.
func (s *Store) Delete(ctx context.Context, id int64) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), strconv.FormatInt(id, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns indexed IDs in ascending order. Entries whose key expired are
// pruned from the index lazily.
func (s *Store) List(ctx context.Context) ([]int64, error) {
	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list algorithms: %w", err)
	}
	if len(members) == 0 {
		return []int64{}, nil
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if s.ttl == 0 {
		return ids, nil
	}

	pipe := s.client.Pipeline()
	checks := make([]*backend.IntCmd, len(ids))
	for i, id := range ids {
		checks[i] = pipe.Exists(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to check algorithm keys: %w", err)
	}

	alive := ids[:0]
	var expired []any
	for i, id := range ids {
		if checks[i].Val() > 0 {
			alive = append(alive, id)
			continue
		}
		expired = append(expired, strconv.FormatInt(id, 10))
	}
	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired algorithms: %w", err)
		}
	}
	return alive, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
