// ABOUTME: Ordered fallback chain over acquisition strategies
// ABOUTME: Tries each strategy exactly once, in order, and stops at the first viable batch

package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/interfaces"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/normalize"
)

// Strategy is one way of obtaining search results from upstream
type Strategy struct {
	Name string

	// Kind selects the normalizer for the response body
	Kind normalize.Kind

	// Build creates the upstream request for a query
	Build func(q domain.Query) (domain.UpstreamRequest, error)

	// Viable decides whether a normalized batch counts as success.
	// When nil a non-empty batch is viable.
	Viable func(b *domain.Batch) bool

	// Fingerprint is an optional profile hint passed to the transport
	Fingerprint string
}

func (s Strategy) viable(b *domain.Batch) bool {
	if s.Viable != nil {
		return s.Viable(b)
	}
	return b.Len() > 0
}

// Acquisition is the outcome of a chain run
type Acquisition struct {
	Products     []*domain.Product
	Shops        []*domain.Shop
	StrategyUsed string

	// Outcomes lists every attempt in declared order, the success included
	Outcomes []domain.StrategyOutcome
}

// Failures returns the unsuccessful attempts
func (a *Acquisition) Failures() []domain.StrategyOutcome {
	var out []domain.StrategyOutcome
	for _, o := range a.Outcomes {
		if !o.Succeeded() {
			out = append(out, o)
		}
	}
	return out
}

// Chain runs strategies strictly sequentially. It holds no per-request state
// and is safe for concurrent use.
type Chain struct {
	strategies []Strategy
	transport  interfaces.Transport
	registry   *normalize.Registry
	logger     interfaces.Logger
	observer   interfaces.Observer
}

// NewChain creates a chain over strategies in the given order
func NewChain(strategies []Strategy, deps interfaces.Dependencies) *Chain {
	observer := deps.Observer
	if observer == nil {
		observer = interfaces.NopObserver{}
	}
	return &Chain{
		strategies: strategies,
		transport:  deps.Transport,
		registry:   normalize.DefaultRegistry(),
		logger:     deps.Logger,
		observer:   observer,
	}
}

// Names returns the strategy names in declared order
func (c *Chain) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name
	}
	return names
}

// Acquire tries each strategy in order until one yields a viable batch.
// When every strategy fails it returns the partial Acquisition together with
// an *errors.ExhaustedError carrying the same ordered outcomes.
func (c *Chain) Acquire(ctx context.Context, q domain.Query) (*Acquisition, error) {
	acq := &Acquisition{}

	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return acq, err
		}

		batch, outcome := c.attempt(ctx, s, q)
		acq.Outcomes = append(acq.Outcomes, outcome)

		c.observer.StrategyAttempt(s.Name, string(outcome.Outcome), outcome.Duration)
		c.logAttempt(q, outcome)

		if outcome.Succeeded() {
			acq.Products = batch.Products
			acq.Shops = batch.Shops
			acq.StrategyUsed = s.Name
			return acq, nil
		}
	}

	return acq, &errors.ExhaustedError{Failures: acq.Failures()}
}

func (c *Chain) attempt(ctx context.Context, s Strategy, q domain.Query) (*domain.Batch, domain.StrategyOutcome) {
	start := time.Now()
	outcome := domain.StrategyOutcome{Strategy: s.Name}

	batch, err := c.run(ctx, s, q)
	outcome.Duration = time.Since(start)

	switch {
	case err != nil:
		outcome.Outcome = classify(err)
		outcome.ErrorKind = errors.KindOf(err)
		outcome.Error = err.Error()
	case !s.viable(batch):
		outcome.Outcome = domain.OutcomeSoftFailure
		outcome.ErrorKind = errors.KindAntiBot
		outcome.Error = fmt.Sprintf("batch of %d products is not viable", batch.Len())
		outcome.ItemCount = batch.Len()
	default:
		outcome.Outcome = domain.OutcomeSuccess
		outcome.ItemCount = batch.Len()
	}
	return batch, outcome
}

func (c *Chain) run(ctx context.Context, s Strategy, q domain.Query) (*domain.Batch, error) {
	req, err := s.Build(q)
	if err != nil {
		return nil, errors.WrapError(err, "build request")
	}

	resp, err := c.transport.Send(ctx, req, s.Fingerprint)
	if err != nil {
		return nil, err
	}

	return c.registry.Normalize(s.Kind, resp.Body, q.Count)
}

// classify maps an attempt error to its outcome kind
func classify(err error) domain.OutcomeKind {
	if errors.IsSoftFailure(err) {
		return domain.OutcomeSoftFailure
	}
	return domain.OutcomeFailure
}

func (c *Chain) logAttempt(q domain.Query, o domain.StrategyOutcome) {
	if c.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"strategy":    o.Strategy,
		"outcome":     string(o.Outcome),
		"items":       o.ItemCount,
		"duration_ms": o.Duration.Milliseconds(),
		"query":       q.Term,
	}
	if o.Succeeded() {
		c.logger.Info("Strategy succeeded", fields)
		return
	}
	fields["error_kind"] = o.ErrorKind
	fields["error"] = o.Error
	c.logger.Warn("Strategy failed", fields)
}
