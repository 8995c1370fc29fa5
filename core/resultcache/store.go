// ABOUTME: Typed cache store wrapping payloads in an envelope with creation time and TTL
// ABOUTME: Expired envelopes read as misses even when the backing store still holds them

package resultcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/interfaces"
)

const hitsSuffix = ":hits"

// Envelope is the stored form of every cached value
type Envelope struct {
	Key       string          `json:"key"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	TTL       time.Duration   `json:"ttl"`

	// Hits is filled on read from a separate counter key
	Hits int64 `json:"hits"`
}

// ExpiresAt returns the instant the envelope stops being served
func (e *Envelope) ExpiresAt() time.Time {
	return e.CreatedAt.Add(e.TTL)
}

// Expired reports whether the envelope is past its TTL at now. A zero TTL
// never expires.
func (e *Envelope) Expired(now time.Time) bool {
	return e.TTL > 0 && !now.Before(e.ExpiresAt())
}

// Decode unmarshals the payload into v
func (e *Envelope) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Store reads and writes envelopes through an interfaces.Cache
type Store struct {
	cache  interfaces.Cache
	now    func() time.Time
	logger interfaces.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the wall clock, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for decode problems
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a store over cache
func New(cache interfaces.Cache, opts ...Option) *Store {
	s := &Store{cache: cache, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the live envelope for key, or errors.ErrCacheMiss. An expired
// or corrupt envelope is deleted and reported as a miss.
func (s *Store) Get(ctx context.Context, key string) (*Envelope, error) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Key != key {
		s.warn("Discarding unreadable cache entry", key, err)
		_ = s.cache.Delete(ctx, key)
		return nil, errors.ErrCacheMiss
	}
	if env.Expired(s.now()) {
		_ = s.cache.Delete(ctx, key)
		_ = s.cache.Delete(ctx, key+hitsSuffix)
		return nil, errors.ErrCacheMiss
	}

	if hits, err := s.cache.Incr(ctx, key+hitsSuffix, env.TTL); err == nil {
		env.Hits = hits
	}
	return &env, nil
}

// Load reads key and decodes its payload into v
func (s *Store) Load(ctx context.Context, key string, v interface{}) (*Envelope, error) {
	env, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := env.Decode(v); err != nil {
		_ = s.cache.Delete(ctx, key)
		return nil, errors.ErrCacheMiss
	}
	return env, nil
}

// Put stores v under key for ttl. Writing the same key again replaces the
// entry and restarts its TTL.
func (s *Store) Put(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}
	env := Envelope{
		Key:       key,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
		TTL:       ttl,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode cache envelope: %w", err)
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, key+hitsSuffix)
	return nil
}

func (s *Store) warn(msg, key string, err error) {
	if s.logger == nil {
		return
	}
	fields := map[string]interface{}{"key": key}
	if err != nil {
		fields["error"] = err.Error()
	}
	s.logger.Warn(msg, fields)
}
