package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHumaError(t *testing.T) {
	tests := []struct {
		name           string
		input          error
		expectedStatus int
		expectedInMsg  string
	}{
		{
			name:           "ValidationError returns 400",
			input:          &errors.ValidationError{Field: "term", Message: "cannot be empty"},
			expectedStatus: 400,
			expectedInMsg:  "query cannot be empty",
		},
		{
			name:           "wrapped ValidationError returns 400",
			input:          fmt.Errorf("search: %w", &errors.ValidationError{Field: "count", Message: "must be at most 100"}),
			expectedStatus: 400,
			expectedInMsg:  "num_products must be at most 100",
		},
		{
			name:           "deadline returns 504",
			input:          fmt.Errorf("acquire: %w", context.DeadlineExceeded),
			expectedStatus: 504,
			expectedInMsg:  "timed out",
		},
		{
			name:           "cancellation returns 503",
			input:          context.Canceled,
			expectedStatus: 503,
			expectedInMsg:  "cancelled",
		},
		{
			name:           "CacheUnavailableError returns 503",
			input:          &errors.CacheUnavailableError{Backend: "redis", Err: fmt.Errorf("dial tcp: refused")},
			expectedStatus: 503,
			expectedInMsg:  "Cache unavailable",
		},
		{
			name:           "unknown error returns 500",
			input:          fmt.Errorf("some unknown error"),
			expectedStatus: 500,
			expectedInMsg:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := toHumaError(tt.input)

			humaErr, ok := result.(*huma.ErrorModel)
			require.True(t, ok, "Expected huma.ErrorModel")
			assert.Equal(t, tt.expectedStatus, humaErr.Status)
			assert.Contains(t, humaErr.Detail, tt.expectedInMsg)
		})
	}
}

func TestToHumaError_Nil(t *testing.T) {
	assert.Nil(t, toHumaError(nil))
}

func TestToHumaError_ValidationDetail(t *testing.T) {
	result := toHumaError(&errors.ValidationError{Field: "count", Message: "must be at least 1"})

	humaErr, ok := result.(*huma.ErrorModel)
	require.True(t, ok)
	require.Len(t, humaErr.Errors, 1)
	assert.Equal(t, "body.num_products", humaErr.Errors[0].Location)
	assert.Equal(t, "must be at least 1", humaErr.Errors[0].Message)
}
