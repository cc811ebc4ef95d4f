// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"

	"github.com/pdiddy/archive-engine/pkg/types"
)

// ErrInvalidQuery marks client-side query failures: malformed condition
// values, unusable page parameters, or unsortable sort fields. Callers
// should report these to the requester.
var ErrInvalidQuery = errors.New("invalid search query")

// ErrBadFieldConfig marks server-side configuration failures: a queried
// field has neither a column mapping nor a registered handler for its
// record type.
var ErrBadFieldConfig = errors.New("search field not configured")

// QueryError ties a compilation failure to the field and condition that
// caused it. Unwrap yields ErrInvalidQuery or ErrBadFieldConfig so
// callers can classify with errors.Is.
type QueryError struct {
	Field     string
	Condition types.SearchCondition
	Reason    string

	class error
}

func (e *QueryError) Error() string {
	if e.Condition != "" {
		return fmt.Sprintf("field %q (%s): %s", e.Field, e.Condition, e.Reason)
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *QueryError) Unwrap() error {
	return e.class
}

// Invalidf builds an ErrInvalidQuery QueryError for field.
func Invalidf(field string, cond types.SearchCondition, format string, args ...any) error {
	return &QueryError{
		Field:     field,
		Condition: cond,
		Reason:    fmt.Sprintf(format, args...),
		class:     ErrInvalidQuery,
	}
}

// Misconfiguredf builds an ErrBadFieldConfig QueryError for field.
func Misconfiguredf(field string, cond types.SearchCondition, format string, args ...any) error {
	return &QueryError{
		Field:     field,
		Condition: cond,
		Reason:    fmt.Sprintf(format, args...),
		class:     ErrBadFieldConfig,
	}
}
