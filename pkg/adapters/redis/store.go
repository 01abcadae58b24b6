package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/docu/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.CounterStore using Redis.
// Increments use INCR, so replicas sharing the server never lose updates.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL tears down counters left untouched for ttl.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for counters.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store from a redis:// URL.
func New(url string, opts ...Option) (*Store, error) {
	options, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(options), opts...), nil
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "docu:counter:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// indexKey lives outside the counter key space, so no counter ID can
// collide with it.
func (s *Store) indexKey() string {
	return strings.TrimSuffix(s.prefix, ":") + "-index"
}

// expiry is the index score of a counter touched now.
func (s *Store) expiry() float64 {
	if s.ttl == 0 {
		return 4102444800 // 2100-01-01
	}
	return float64(time.Now().Add(s.ttl).Unix())
}

// Mount creates the counter at 0 unless it exists.
func (s *Store) Mount(ctx context.Context, id string) (int64, error) {
	pipe := s.client.TxPipeline()
	pipe.SetNX(ctx, s.key(id), 0, s.ttl)
	if s.ttl > 0 {
		// SetNX leaves an existing key's expiry alone; a remount renews it.
		pipe.Expire(ctx, s.key(id), s.ttl)
	}
	get := pipe.Get(ctx, s.key(id))
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: s.expiry(), Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to mount counter: %w", err)
	}
	return parseCount(get.Val())
}

// Load retrieves the count from Redis.
func (s *Store) Load(ctx context.Context, id string) (int64, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return 0, domain.ErrCounterNotFound
		}
		return 0, fmt.Errorf("failed to get from redis: %w", err)
	}
	return parseCount(val)
}

// Increment atomically increments the counter, mounting it at 0 if needed.
func (s *Store) Increment(ctx context.Context, id string) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, s.key(id))
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(id), s.ttl)
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: s.expiry(), Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return incr.Val(), nil
}

// Delete removes the counter.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns mounted counters, pruning expired ones from the index first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired counters: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list counters: %w", err)
	}
	return ids, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func parseCount(val string) (int64, error) {
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt counter value %q: %w", val, err)
	}
	return n, nil
}
