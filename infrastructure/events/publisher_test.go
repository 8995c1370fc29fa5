package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dropRecorder struct {
	mu      sync.Mutex
	reasons []string
}

func (d *dropRecorder) EventDropped(reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reasons = append(d.reasons, reason)
}

func (d *dropRecorder) all() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.reasons...)
}

type infoLogger struct {
	mu     sync.Mutex
	fields []map[string]interface{}
}

func (l *infoLogger) Debug(string, map[string]interface{}) {}
func (l *infoLogger) Warn(string, map[string]interface{})  {}
func (l *infoLogger) Error(string, map[string]interface{}) {}
func (l *infoLogger) Info(msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fields = append(l.fields, fields)
}

func sampleEvent(id string) domain.SearchEvent {
	return domain.SearchEvent{
		ID:           id,
		Query:        "sepatu",
		CacheKey:     "search:sepatu:3",
		StrategyUsed: "graphql_v5",
		ResultCount:  3,
		OccurredAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRedisPublisher_DeliversToSubscribers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	sub := client.Subscribe(ctx, "tokped:search:completed")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)
	messages := sub.Channel()

	p := NewRedisPublisher(client, 4, nil, nil)
	p.Publish(ctx, "tokped:search:completed", sampleEvent("e1"))
	require.NoError(t, p.Close())

	select {
	case msg := <-messages:
		var got domain.SearchEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "e1", got.ID)
		assert.Equal(t, "search:sepatu:3", got.CacheKey)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestRedisPublisher_DropsWhenBufferFull(t *testing.T) {
	drops := &dropRecorder{}
	// No drain goroutine, so the single slot stays occupied
	p := &RedisPublisher{
		dropped: drops,
		queue:   make(chan envelope, 1),
		done:    make(chan struct{}),
	}

	p.Publish(context.Background(), "topic", sampleEvent("e1"))
	p.Publish(context.Background(), "topic", sampleEvent("e2"))

	assert.Equal(t, []string{"buffer_full"}, drops.all())
	assert.Len(t, p.queue, 1)
}

func TestRedisPublisher_PublishAfterCloseIsDropped(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	drops := &dropRecorder{}

	p := NewRedisPublisher(client, 4, nil, drops)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	p.Publish(context.Background(), "topic", sampleEvent("late"))

	assert.Equal(t, []string{"closed"}, drops.all())
}

func TestRedisPublisher_BrokerDownDoesNotBlock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	mr.Close()
	drops := &dropRecorder{}

	p := NewRedisPublisher(client, 4, nil, drops)
	start := time.Now()
	p.Publish(context.Background(), "topic", sampleEvent("e1"))
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	require.NoError(t, p.Close())
	assert.Equal(t, []string{"publish_failed"}, drops.all())
}

func TestLogPublisher(t *testing.T) {
	logger := &infoLogger{}
	p := NewLogPublisher(logger)

	p.Publish(context.Background(), "topic", sampleEvent("e1"))

	require.Len(t, logger.fields, 1)
	assert.Equal(t, "e1", logger.fields[0]["id"])
	assert.Equal(t, "topic", logger.fields[0]["topic"])
	assert.NoError(t, p.Close())

	assert.NotPanics(t, func() {
		NewLogPublisher(nil).Publish(context.Background(), "topic", sampleEvent("e2"))
	})
}
