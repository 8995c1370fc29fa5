// ABOUTME: Completion event publishers backed by Redis pub/sub or the log
// ABOUTME: Publish never blocks: events are buffered and dropped when the buffer is full

package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/interfaces"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultBufferSize is how many events may wait for delivery
	DefaultBufferSize = 256

	// publishTimeout bounds a single PUBLISH
	publishTimeout = 2 * time.Second
)

// DropCounter is told about events that could not be delivered
type DropCounter interface {
	EventDropped(reason string)
}

type envelope struct {
	topic string
	event domain.SearchEvent
}

// RedisPublisher delivers events with PUBLISH from a single drain goroutine
type RedisPublisher struct {
	client  *redis.Client
	logger  interfaces.Logger
	dropped DropCounter

	queue     chan envelope
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// NewRedisPublisher starts the drain goroutine. Close must be called to stop it.
func NewRedisPublisher(client *redis.Client, bufferSize int, logger interfaces.Logger, dropped DropCounter) *RedisPublisher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	p := &RedisPublisher{
		client:  client,
		logger:  logger,
		dropped: dropped,
		queue:   make(chan envelope, bufferSize),
		done:    make(chan struct{}),
	}
	go p.drain()
	return p
}

// Publish enqueues an event for delivery
func (p *RedisPublisher) Publish(ctx context.Context, topic string, event domain.SearchEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.drop("closed", topic)
		return
	}

	select {
	case p.queue <- envelope{topic: topic, event: event}:
	default:
		p.drop("buffer_full", topic)
	}
}

// Close stops accepting events and waits for queued ones to be sent
func (p *RedisPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
	})
	<-p.done
	return nil
}

func (p *RedisPublisher) drain() {
	defer close(p.done)
	for env := range p.queue {
		payload, err := json.Marshal(env.event)
		if err != nil {
			p.drop("encode", env.topic)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err = p.client.Publish(ctx, env.topic, payload).Err()
		cancel()
		if err != nil {
			p.drop("publish_failed", env.topic)
			if p.logger != nil {
				p.logger.Warn("Failed to publish search event", map[string]interface{}{
					"topic": env.topic,
					"id":    env.event.ID,
					"error": err.Error(),
				})
			}
		}
	}
}

func (p *RedisPublisher) drop(reason, topic string) {
	if p.dropped != nil {
		p.dropped.EventDropped(reason)
	}
	if p.logger != nil && reason != "publish_failed" {
		p.logger.Debug("Dropped search event", map[string]interface{}{
			"topic":  topic,
			"reason": reason,
		})
	}
}

// LogPublisher records events in the log when no broker is configured
type LogPublisher struct {
	logger interfaces.Logger
}

// NewLogPublisher creates a log-only publisher
func NewLogPublisher(logger interfaces.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event
func (p *LogPublisher) Publish(ctx context.Context, topic string, event domain.SearchEvent) {
	if p.logger == nil {
		return
	}
	p.logger.Info("Search completed", map[string]interface{}{
		"topic":        topic,
		"id":           event.ID,
		"query":        event.Query,
		"strategy":     event.StrategyUsed,
		"result_count": event.ResultCount,
		"bestsellers":  event.BestsellerCount,
		"cache_key":    event.CacheKey,
		"occurred_at":  event.OccurredAt,
	})
}

// Close is a no-op
func (p *LogPublisher) Close() error {
	return nil
}
