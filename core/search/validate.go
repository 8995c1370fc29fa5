// ABOUTME: Query validation using struct tags on domain.Query
// ABOUTME: Reports the first failing field as an errors.ValidationError

package search

import (
	"reflect"
	"strings"

	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/domain"
	"github.com/Ev3lynx727/containerd-apps-tokped-scrapper/core/errors"
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalizeQuery applies defaults to caller input
func normalizeQuery(q domain.Query) domain.Query {
	q.Term = strings.TrimSpace(q.Term)
	if q.Count == 0 {
		q.Count = domain.DefaultCount
	}
	return q
}

// validateQuery validates search query parameters
func (s *SearchService) validateQuery(q domain.Query) error {
	err := s.validate.Struct(q)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return &errors.ValidationError{Field: "query", Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &errors.ValidationError{Field: fe.Field(), Message: validationMessage(fe)}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "cannot be empty"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "cannot exceed " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	}
	return "is invalid"
}
