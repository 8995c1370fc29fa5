// ABOUTME: Recent search history kept in a capped Redis list
// ABOUTME: LPUSH then LTRIM keeps the newest entries at the head

package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultKey holds the recent searches list
const DefaultKey = "searches:recent"

// DefaultCapacity is how many entries are kept when none is configured
const DefaultCapacity = 50

// Store implements interfaces.HistoryStore on a Redis list
type Store struct {
	client   *redis.Client
	key      string
	capacity int
}

// NewStore creates a history store keeping at most capacity entries
func NewStore(client *redis.Client, capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{client: client, key: DefaultKey, capacity: capacity}
}

// Append pushes an entry and trims the list to capacity
func (s *Store) Append(ctx context.Context, entry domain.RecentSearch) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode recent search: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key, payload)
	pipe.LTrim(ctx, s.key, 0, int64(s.capacity-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append recent search: %w", err)
	}
	return nil
}

// List returns up to limit entries, most recent first. Entries that fail to
// decode are skipped.
func (s *Store) List(ctx context.Context, limit int) ([]domain.RecentSearch, error) {
	if limit <= 0 || limit > s.capacity {
		limit = s.capacity
	}

	raw, err := s.client.LRange(ctx, s.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list recent searches: %w", err)
	}

	entries := make([]domain.RecentSearch, 0, len(raw))
	for _, item := range raw {
		var entry domain.RecentSearch
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
