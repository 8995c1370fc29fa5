// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to appropriate HTTP responses

package handlers

import (
	"context"
	stderrors "errors"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/danielgtaylor/huma/v2"
)

// bodyFields maps domain query fields to their request body names
var bodyFields = map[string]string{
	"term":  "query",
	"count": "num_products",
}

// toHumaError converts domain errors to appropriate Huma HTTP errors.
// Exhaustion never reaches here: it is a 200 carrying the failures.
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	var verr *errors.ValidationError
	if stderrors.As(err, &verr) {
		field := verr.Field
		if name, ok := bodyFields[field]; ok {
			field = name
		}
		return huma.Error400BadRequest(field+" "+verr.Message, &huma.ErrorDetail{
			Message:  verr.Message,
			Location: "body." + field,
		})
	}

	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("Search timed out")
	case stderrors.Is(err, context.Canceled):
		return huma.Error503ServiceUnavailable("Search was cancelled")
	case errors.IsCacheUnavailable(err):
		return huma.Error503ServiceUnavailable("Cache unavailable", err)
	}

	// Default to internal server error for unknown errors
	return huma.Error500InternalServerError("Internal server error", err)
}
