package strategy

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// mockTransport is a mock implementation of the Transport interface
type mockTransport struct {
	sendFunc func(ctx context.Context, req domain.UpstreamRequest, hint string) (*domain.RawResponse, error)

	mu    sync.Mutex
	calls []domain.UpstreamRequest
}

func (m *mockTransport) Send(ctx context.Context, req domain.UpstreamRequest, hint string) (*domain.RawResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.sendFunc != nil {
		return m.sendFunc(ctx, req, hint)
	}
	return &domain.RawResponse{StatusCode: 200}, nil
}

// urls returns the requested URLs in call order
func (m *mockTransport) urls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.URL
	}
	return out
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockLogger) record(msg string) {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.record(msg) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.record(msg) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.record(msg) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.record(msg) }

// mockObserver records strategy attempts
type mockObserver struct {
	mu       sync.Mutex
	attempts []string
}

func (m *mockObserver) StrategyAttempt(strategy string, outcome string, duration time.Duration) {
	m.mu.Lock()
	m.attempts = append(m.attempts, strategy+":"+outcome)
	m.mu.Unlock()
}

func (m *mockObserver) CacheLookup(hit bool) {}

func (m *mockObserver) PipelineCompleted(strategy string, duration time.Duration) {}

// routeByURL answers each request with the body registered for the first
// matching URL fragment
func routeByURL(routes map[string]func() (*domain.RawResponse, error)) func(ctx context.Context, req domain.UpstreamRequest, hint string) (*domain.RawResponse, error) {
	return func(ctx context.Context, req domain.UpstreamRequest, hint string) (*domain.RawResponse, error) {
		for fragment, respond := range routes {
			if strings.Contains(req.URL, fragment) {
				return respond()
			}
		}
		return &domain.RawResponse{StatusCode: 200, Body: []byte(`{}`)}, nil
	}
}
