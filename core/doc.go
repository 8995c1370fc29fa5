// Package core contains the business logic for the Tokopedia scraper.
// It is framework-agnostic: nothing here knows about HTTP routing, Redis
// clients or the process configuration.
//
// The core package is organized into several sub-packages:
//
// - domain: Query, Product, Shop, Batch and result models
// - fingerprint: browser profiles and the per-request header sets
// - normalize: turns GraphQL and search page bodies into a Batch
// - strategy: the ordered acquisition chain with per-strategy outcomes
// - scoring: popularity, bestseller/trending flags and shop scores
// - resultcache: TTL envelopes over any interfaces.Cache
// - search: the pipeline tying cache, chain, scorer and events together
// - errors: typed errors shared by every layer
// - interfaces: contracts for cache, transport, publisher, history and logger
//
// # Usage Example
//
//	deps := interfaces.Dependencies{
//	    Cache:     cache,     // implements interfaces.Cache
//	    Transport: transport, // implements interfaces.Transport
//	    Publisher: publisher, // implements interfaces.Publisher
//	    Logger:    logger,    // implements interfaces.Logger
//	}
//
//	chain := strategy.NewChain(strategy.Default(endpoints), deps)
//	scorer := scoring.NewScorer(scoring.DefaultOptions())
//	service := search.NewSearchService(deps, chain, scorer, search.Config{})
//
//	result, err := service.Search(ctx, domain.Query{Term: "sepatu", Count: 10, UseCache: true})
package core
