package resultcache

import (
	"context"
	"sync"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
)

// mapCache is an in-memory Cache that never expires entries on its own, so
// tests can observe envelope expiry independently of the backend
type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	counter map[string]int64
	deleted []string

	setFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, counter: map[string]int64{}}
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.ErrCacheMiss
	}
	return v, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFunc != nil {
		if err := m.setFunc(ctx, key, value, ttl); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.counter, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mapCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter[key]++
	return m.counter[key], nil
}
