package errors

import (
	"fmt"
	"os"
	"time"
)

// Error types for the flx matching engine
type ErrorType string

const (
	// Query errors
	ErrorTypeQuery ErrorType = "query"

	// Input errors
	ErrorTypeInputNotFound ErrorType = "input_not_found"
	ErrorTypePermission    ErrorType = "permission"
	ErrorTypeInput         ErrorType = "input"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// QueryError represents a corpus query that could not complete.
// A query that simply matches nothing is not an error.
type QueryError struct {
	Type       ErrorType
	Pattern    string
	Limit      int
	Underlying error
	Timestamp  time.Time
}

// NewQueryError creates a new query error
func NewQueryError(pattern string, limit int, err error) *QueryError {
	return &QueryError{
		Type:       ErrorTypeQuery,
		Pattern:    pattern,
		Limit:      limit,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed for pattern %q (limit %d): %v", e.Pattern, e.Limit, e.Underlying)
}

// Unwrap returns the underlying error
func (e *QueryError) Unwrap() error {
	return e.Underlying
}

// InputError represents a failure reading candidate lines
type InputError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewInputError creates a new input error, classifying the underlying cause
func NewInputError(op, path string, err error) *InputError {
	errorType := ErrorTypeInput
	switch {
	case os.IsNotExist(err):
		errorType = ErrorTypeInputNotFound
	case os.IsPermission(err):
		errorType = ErrorTypePermission
	}

	return &InputError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *InputError) Error() string {
	return fmt.Sprintf("input %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *InputError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
