package search

import (
	"context"
	"sync"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/strategy"
)

// mockAcquirer is a mock implementation of the Acquirer interface
type mockAcquirer struct {
	acquireFunc func(ctx context.Context, q domain.Query) (*strategy.Acquisition, error)

	mu    sync.Mutex
	calls int
}

func (m *mockAcquirer) Acquire(ctx context.Context, q domain.Query) (*strategy.Acquisition, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx, q)
	}
	return &strategy.Acquisition{}, nil
}

// mockCache is a map-backed Cache whose operations can be overridden
type mockCache struct {
	getFunc func(ctx context.Context, key string) ([]byte, error)
	setFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error

	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	hits map[string]int64
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}, hits: map[string]int64{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.hits, key)
	return nil
}

func (m *mockCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits[key]++
	return m.hits[key], nil
}

func (m *mockCache) ttl(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}

// mockPublisher records published events
type mockPublisher struct {
	mu     sync.Mutex
	topics []string
	events []domain.SearchEvent
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event domain.SearchEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, topic)
	m.events = append(m.events, event)
}

// mockHistory is a mock implementation of the HistoryStore interface
type mockHistory struct {
	appendFunc func(ctx context.Context, entry domain.RecentSearch) error

	mu      sync.Mutex
	entries []domain.RecentSearch
}

func (m *mockHistory) Append(ctx context.Context, entry domain.RecentSearch) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]domain.RecentSearch{entry}, m.entries...)
	return nil
}

func (m *mockHistory) List(ctx context.Context, limit int) ([]domain.RecentSearch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return append([]domain.RecentSearch(nil), m.entries[:limit]...), nil
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

// mockObserver counts cache lookups
type mockObserver struct {
	mu     sync.Mutex
	hits   int
	misses int
	runs   []string
}

func (m *mockObserver) StrategyAttempt(strategy string, outcome string, duration time.Duration) {}

func (m *mockObserver) CacheLookup(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *mockObserver) PipelineCompleted(strategy string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, strategy)
}
