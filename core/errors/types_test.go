package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "query",
		Message: "cannot be empty",
	}

	expected := "validation error on field 'query': cannot be empty"
	if err.Error() != expected {
		t.Errorf("ValidationError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestTransportError_Error(t *testing.T) {
	withStatus := &TransportError{Op: "POST", URL: "https://gql.example", StatusCode: 502}
	if withStatus.Error() != "transport POST https://gql.example: upstream returned 502" {
		t.Errorf("unexpected message: %s", withStatus.Error())
	}

	cause := errors.New("connection refused")
	withCause := &TransportError{Op: "GET", URL: "https://www.example", Err: cause}
	if !errors.Is(withCause, cause) {
		t.Error("TransportError should unwrap to its cause")
	}
}

func TestSchemaError_Error(t *testing.T) {
	err := &SchemaError{Path: "data.searchProductV5"}
	if err.Error() != "schema error: data.searchProductV5 not found" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	detailed := &SchemaError{Path: "data", Detail: "graphql errors: unknown field"}
	if detailed.Error() != "schema error: data not found: graphql errors: unknown field" {
		t.Errorf("unexpected message: %s", detailed.Error())
	}
}

func TestExhaustedError_ListsStrategiesInOrder(t *testing.T) {
	err := &ExhaustedError{Failures: []domain.StrategyOutcome{
		{Strategy: "graphql_v5", Outcome: domain.OutcomeSoftFailure},
		{Strategy: "markup", Outcome: domain.OutcomeFailure},
	}}

	expected := "all strategies exhausted: graphql_v5(soft_failure), markup(failure)"
	if err.Error() != expected {
		t.Errorf("ExhaustedError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"transport", &TransportError{Op: "GET"}, KindTransport},
		{"soft failure", &SoftFailureError{Reason: "zero results"}, KindAntiBot},
		{"schema", &SchemaError{Path: "data"}, KindSchema},
		{"validation", &ValidationError{Field: "count"}, KindValidation},
		{"cache", &CacheUnavailableError{Backend: "redis"}, KindCacheUnavailable},
		{"exhausted", &ExhaustedError{}, KindExhausted},
		{"wrapped", fmt.Errorf("outer: %w", &SchemaError{Path: "x"}), KindSchema},
		{"plain", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredicates_WrappedErrors(t *testing.T) {
	soft := fmt.Errorf("strategy graphql_v4: %w", &SoftFailureError{Reason: "blocked"})
	if !IsSoftFailure(soft) {
		t.Error("IsSoftFailure should return true for wrapped SoftFailureError")
	}
	if IsSchema(soft) {
		t.Error("IsSchema should return false for SoftFailureError")
	}

	if !IsTransport(&TransportError{}) {
		t.Error("IsTransport should return true for TransportError")
	}
	if !IsValidation(&ValidationError{}) {
		t.Error("IsValidation should return true for ValidationError")
	}
	if !IsCacheUnavailable(fmt.Errorf("x: %w", &CacheUnavailableError{})) {
		t.Error("IsCacheUnavailable should return true for wrapped error")
	}
	if !IsExhausted(&ExhaustedError{}) {
		t.Error("IsExhausted should return true for ExhaustedError")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}

	original := &SchemaError{Path: "data"}
	wrapped := WrapError(original, "normalize")
	if wrapped.Error() != "normalize: schema error: data not found" {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
	if !IsSchema(wrapped) {
		t.Error("wrapped error should still be a SchemaError")
	}
}

func TestIsCacheMiss(t *testing.T) {
	if !IsCacheMiss(fmt.Errorf("redis get: %w", ErrCacheMiss)) {
		t.Error("IsCacheMiss should return true for wrapped ErrCacheMiss")
	}
	if IsCacheMiss(&CacheUnavailableError{Backend: "redis"}) {
		t.Error("IsCacheMiss should return false for CacheUnavailableError")
	}
}
