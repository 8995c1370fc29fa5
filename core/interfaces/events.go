package interfaces

import (
	"context"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// Publisher announces completed searches to external subscribers.
//
// Publish is best-effort and fire-and-forget: it must never block on
// subscriber or broker availability, it has no delivery guarantee and it
// does not retry. That is why it returns nothing.
type Publisher interface {
	Publish(ctx context.Context, topic string, event domain.SearchEvent)
}
