// ABOUTME: Custom error types for the acquisition pipeline
// ABOUTME: Each type carries a machine-readable kind used by the API and debug surface

package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

// Machine-readable error kinds
const (
	KindTransport        = "transport"
	KindAntiBot          = "anti_bot"
	KindSchema           = "schema"
	KindValidation       = "validation"
	KindCacheUnavailable = "cache_unavailable"
	KindExhausted        = "exhausted"
	KindInternal         = "internal"
)

// ErrCacheMiss is returned by cache backends when a key is absent or expired
var ErrCacheMiss = errors.New("cache: key not found")

// TransportError means no data was obtained: network failure, timeout or an
// unexpected HTTP status
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport %s %s: upstream returned %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error { return e.Err }

// Kind returns the machine-readable kind
func (e *TransportError) Kind() string { return KindTransport }

// SoftFailureError is a well-formed upstream answer that carries no usable
// data. It usually means the request was blocked.
type SoftFailureError struct {
	Reason    string
	TotalData int
}

// Error implements the error interface
func (e *SoftFailureError) Error() string {
	return fmt.Sprintf("soft failure: %s (total data %d)", e.Reason, e.TotalData)
}

// Kind returns the machine-readable kind
func (e *SoftFailureError) Kind() string { return KindAntiBot }

// SchemaError means the expected container path is absent from the payload
type SchemaError struct {
	Path   string
	Detail string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("schema error: %s not found", e.Path)
	}
	return fmt.Sprintf("schema error: %s not found: %s", e.Path, e.Detail)
}

// Kind returns the machine-readable kind
func (e *SchemaError) Kind() string { return KindSchema }

// ValidationError represents a caller-supplied value out of bounds
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Kind returns the machine-readable kind
func (e *ValidationError) Kind() string { return KindValidation }

// CacheUnavailableError means the shared cache could not be reached
type CacheUnavailableError struct {
	Backend string
	Err     error
}

// Error implements the error interface
func (e *CacheUnavailableError) Error() string {
	return fmt.Sprintf("cache %s unavailable: %v", e.Backend, e.Err)
}

// Unwrap returns the underlying error
func (e *CacheUnavailableError) Unwrap() error { return e.Err }

// Kind returns the machine-readable kind
func (e *CacheUnavailableError) Kind() string { return KindCacheUnavailable }

// ExhaustedError is returned when every strategy failed. Failures keeps the
// attempts in declared order.
type ExhaustedError struct {
	Failures []domain.StrategyOutcome
}

// Error implements the error interface
func (e *ExhaustedError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, fmt.Sprintf("%s(%s)", f.Strategy, f.Outcome))
	}
	return "all strategies exhausted: " + strings.Join(names, ", ")
}

// Kind returns the machine-readable kind
func (e *ExhaustedError) Kind() string { return KindExhausted }

// KindOf returns the machine-readable kind of err, or KindInternal
func KindOf(err error) string {
	var k interface{ Kind() string }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// IsCacheMiss checks if an error is ErrCacheMiss
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// IsTransport checks if an error is a TransportError
func IsTransport(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsSoftFailure checks if an error is a SoftFailureError
func IsSoftFailure(err error) bool {
	var e *SoftFailureError
	return errors.As(err, &e)
}

// IsSchema checks if an error is a SchemaError
func IsSchema(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsCacheUnavailable checks if an error is a CacheUnavailableError
func IsCacheUnavailable(err error) bool {
	var e *CacheUnavailableError
	return errors.As(err, &e)
}

// IsExhausted checks if an error is an ExhaustedError
func IsExhausted(err error) bool {
	var e *ExhaustedError
	return errors.As(err, &e)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
