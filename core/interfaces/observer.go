package interfaces

import "time"

// Observer receives pipeline measurements. Implementations must be cheap and
// safe for concurrent use.
type Observer interface {
	StrategyAttempt(strategy string, outcome string, duration time.Duration)
	CacheLookup(hit bool)
	PipelineCompleted(strategy string, duration time.Duration)
}

// NopObserver discards every measurement
type NopObserver struct{}

func (NopObserver) StrategyAttempt(string, string, time.Duration) {}
func (NopObserver) CacheLookup(bool)                              {}
func (NopObserver) PipelineCompleted(string, time.Duration)       {}
