// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache provides result and shop aggregate caching
	Cache Cache

	// Transport sends fingerprinted upstream requests
	Transport Transport

	// Publisher announces completed searches
	Publisher Publisher

	// History records completed searches for the recent view
	History HistoryStore

	// Observer receives pipeline metrics
	Observer Observer

	// Logger provides structured logging
	Logger Logger
}
