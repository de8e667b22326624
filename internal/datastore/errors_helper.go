// Package datastore provides error handling helpers for database operations
package datastore

import (
	"github.com/birdlog/birding-go/internal/errors"
)

// dbError creates a properly categorized database error with context
func dbError(err error, operation string, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	// Add context pairs
	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}

	return builder.Build()
}

// validationError creates a validation error for a rejected field value
func validationError(message, field string, value any) error {
	return errors.Newf("%s", message).
		Component("datastore").
		Category(errors.CategoryValidation).
		Context("field", field).
		Context("value", value).
		Build()
}

// notFoundError creates a not-found error for a missing or malformed id
func notFoundError(resource string, id any) error {
	return errors.Newf("%s not found", resource).
		Component("datastore").
		Category(errors.CategoryNotFound).
		Context("resource", resource).
		Context("id", id).
		Build()
}

// conflictError creates a conflict error, used for unique constraint hits
func conflictError(err error, message string, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryConflict).
		Context("message", message)

	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}

	return builder.Build()
}

// IsNotFound reports whether err marks a missing row or malformed id.
func IsNotFound(err error) bool {
	return errors.Category(err) == errors.CategoryNotFound
}

// IsValidation reports whether err marks rejected input.
func IsValidation(err error) bool {
	return errors.Category(err) == errors.CategoryValidation
}

// IsConflict reports whether err marks a uniqueness conflict.
func IsConflict(err error) bool {
	return errors.Category(err) == errors.CategoryConflict
}
