// ABOUTME: Storage interface for the recent searches view
// ABOUTME: Implementations keep a bounded, most-recent-first list

package interfaces

import (
	"context"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// HistoryStore persists one record per completed pipeline run
type HistoryStore interface {
	// Append adds a record at the head of the list and trims it to capacity
	Append(ctx context.Context, entry domain.RecentSearch) error

	// List returns up to limit records, most recent first
	List(ctx context.Context, limit int) ([]domain.RecentSearch, error)
}
