// Package redisstore persists localities in Redis so every server replica
// resolves the same reference points.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	maintnotifications "github.com/redis/go-redis/v9/maintnotifications"

	"github.com/mohammed-shakir/pluscode/internal/core/observability"
	"github.com/mohammed-shakir/pluscode/internal/locality"
	"github.com/mohammed-shakir/pluscode/internal/locality/keys"
)

type Option func(*options)

type options struct {
	redis     redis.Options
	ttl       time.Duration
	opTimeout time.Duration
}

// WithPoolSize caps the connection pool. Non-positive sizes keep the default.
func WithPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.redis.PoolSize = n
		}
	}
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *options) { o.redis.DialTimeout = d }
}

// WithTTL expires localities after d. Zero keeps them forever.
func WithTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// WithOpTimeout bounds each store call independently of the caller's context.
func WithOpTimeout(d time.Duration) Option {
	return func(o *options) { o.opTimeout = d }
}

type Store struct {
	rdb       *redis.Client
	ttl       time.Duration
	opTimeout time.Duration
}

var _ locality.Store = (*Store)(nil)

func New(ctx context.Context, addr string, opts ...Option) (*Store, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	o := &options{
		redis: redis.Options{
			Addr:         addr,
			PoolSize:     16,
			MinIdleConns: 2,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			MaintNotificationsConfig: &maintnotifications.Config{
				Mode: maintnotifications.ModeDisabled,
			},
		},
		opTimeout: 250 * time.Millisecond,
	}
	for _, f := range opts {
		f(o)
	}

	rdb := redis.NewClient(&o.redis)

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	observability.ObserveStoreOp("ping", err, time.Since(start).Seconds())
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Store{rdb: rdb, ttl: o.ttl, opTimeout: o.opTimeout}, nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *Store) Get(ctx context.Context, name string) (locality.Locality, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := keys.Key(locality.NormalizeName(name))
	start := time.Now()
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveStoreOp("get", nil, time.Since(start).Seconds())
		return locality.Locality{}, locality.ErrNotFound
	}
	observability.ObserveStoreOp("get", err, time.Since(start).Seconds())
	if err != nil {
		return locality.Locality{}, fmt.Errorf("redis GET %q: %w", key, err)
	}

	var l locality.Locality
	if err := json.Unmarshal(raw, &l); err != nil {
		return locality.Locality{}, fmt.Errorf("decode locality %q: %w", key, err)
	}
	return l, nil
}

func (s *Store) Put(ctx context.Context, l locality.Locality) error {
	if err := l.Validate(); err != nil {
		return err
	}
	l.Name = locality.NormalizeName(l.Name)
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode locality: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := keys.Key(l.Name)
	start := time.Now()
	err = s.rdb.Set(ctx, key, raw, s.ttl).Err()
	observability.ObserveStoreOp("put", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis SET %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := keys.Key(locality.NormalizeName(name))
	start := time.Now()
	n, err := s.rdb.Del(ctx, key).Result()
	observability.ObserveStoreOp("delete", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis DEL %q: %w", key, err)
	}
	if n == 0 {
		return locality.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.rdb.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}
