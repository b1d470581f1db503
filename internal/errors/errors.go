// Package errors provides centralized error handling with component and
// category metadata for logging and user-facing reporting.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryNetwork       ErrorCategory = "network"
	CategoryTimeout       ErrorCategory = "timeout"
	CategoryHTTP          ErrorCategory = "http-request"
	CategoryFileParsing   ErrorCategory = "file-parsing"
	CategoryFileIO        ErrorCategory = "file-io"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryConflict      ErrorCategory = "conflict"
	CategoryNotFound      ErrorCategory = "not-found"
	CategoryState         ErrorCategory = "state"
	CategoryGeneric       ErrorCategory = "generic"
)

// CategorizedError is an interface for errors that can specify their own category
type CategorizedError interface {
	error
	ErrorCategory() ErrorCategory
}

// EnhancedError wraps an error with additional context and metadata
type EnhancedError struct {
	Err       error          // Original error
	Component string         // Component where the error occurred
	Category  ErrorCategory  // Error category for better grouping
	Context   map[string]any // Additional context data
	Timestamp time.Time      // When the error occurred
}

// Error implements the error interface
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is matches on category when the target is also an EnhancedError
func (ee *EnhancedError) Is(target error) bool {
	if ee2, ok := target.(*EnhancedError); ok {
		return ee.Category == ee2.Category
	}
	return Is(ee.Err, target)
}

// ErrorCategory implements CategorizedError
func (ee *EnhancedError) ErrorCategory() ErrorCategory {
	return ee.Category
}

// ErrorBuilder provides a fluent interface for building enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error builder from an existing error
func New(err error) *ErrorBuilder {
	// Avoid double wrapping, reuse the existing metadata as the base
	if ee, ok := err.(*EnhancedError); ok {
		b := &ErrorBuilder{
			err:       ee.Err,
			component: ee.Component,
			category:  ee.Category,
			context:   make(map[string]any, len(ee.Context)),
		}
		maps.Copy(b.context, ee.Context)
		return b
	}
	return &ErrorBuilder{
		err:      err,
		category: CategoryGeneric,
		context:  make(map[string]any),
	}
}

// Newf creates a new error builder from a formatted message
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component where the error occurred
func (b *ErrorBuilder) Component(component string) *ErrorBuilder {
	b.component = component
	return b
}

// Category sets the error category
func (b *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	b.category = category
	return b
}

// Context adds a key-value pair to the error context
func (b *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	b.context[key] = value
	return b
}

// Build creates the final enhanced error
func (b *ErrorBuilder) Build() error {
	return &EnhancedError{
		Err:       b.err,
		Component: b.component,
		Category:  b.category,
		Context:   b.context,
		Timestamp: time.Now(),
	}
}

// Standard library passthroughs so callers only import this package.

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// HasCategory reports whether err carries the given category anywhere in its chain.
func HasCategory(err error, category ErrorCategory) bool {
	var ce CategorizedError
	if As(err, &ce) {
		return ce.ErrorCategory() == category
	}
	return false
}
