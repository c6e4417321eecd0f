package tm

import (
	"errors"
	"fmt"
)

// Error represents a failed topic map operation.
//
// Errors fall into four categories:
//   - Identity violation: an IRI collision that merging cannot resolve
//   - Constraint violation: a breach of a data model rule
//   - Internal error: a broken invariant, never caused by caller input
//   - Usage error: a question asked of the wrong kind of construct
//
// Every mutating call either succeeds completely or returns one of these
// with the map left exactly as it was before the call.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Reporter is the construct the failing operation was applied to.
	Reporter Construct

	// Existing is the construct already holding a contested identity
	// (identity violations only).
	Existing Construct

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes topic map errors.
type ErrorCode string

const (
	// ErrCodeIdentityViolation indicates an unresolvable identity collision.
	ErrCodeIdentityViolation ErrorCode = "IDENTITY_VIOLATION"

	// ErrCodeConstraintViolation indicates a data model rule was broken.
	ErrCodeConstraintViolation ErrorCode = "MODEL_CONSTRAINT_VIOLATION"

	// ErrCodeInternal indicates an invariant breach inside the engine.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

	// ErrCodeUsage indicates an operation applied to an incompatible construct.
	ErrCodeUsage ErrorCode = "USAGE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Reporter != nil && e.Existing != nil:
		return fmt.Sprintf("%s: %s (reporter=%s, existing=%s)", e.Code, e.Message, describe(e.Reporter), describe(e.Existing))
	case e.Reporter != nil:
		return fmt.Sprintf("%s: %s (reporter=%s)", e.Code, e.Message, describe(e.Reporter))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// describe renders a construct as kind#id for error messages.
func describe(c Construct) string {
	return fmt.Sprintf("%s#%d", c.Kind(), c.ID())
}

// NewIdentityViolation creates an Error for an identity collision.
func NewIdentityViolation(reporter, existing Construct, kind IdentityKind, iri string) *Error {
	return &Error{
		Code:     ErrCodeIdentityViolation,
		Message:  fmt.Sprintf("%s %q is already in use", kind, iri),
		Reporter: reporter,
		Existing: existing,
		Details: map[string]string{
			"kind": kind.String(),
			"iri":  iri,
		},
	}
}

// NewConstraintViolation creates an Error for a data model rule breach.
func NewConstraintViolation(reporter Construct, format string, args ...any) *Error {
	return &Error{
		Code:     ErrCodeConstraintViolation,
		Message:  fmt.Sprintf(format, args...),
		Reporter: reporter,
	}
}

// NewInternalError creates an Error for a broken engine invariant.
func NewInternalError(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewUsageError creates an Error for a call made on the wrong kind of
// construct or with malformed arguments.
func NewUsageError(reporter Construct, format string, args ...any) *Error {
	return &Error{
		Code:     ErrCodeUsage,
		Message:  fmt.Sprintf(format, args...),
		Reporter: reporter,
	}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsIdentityViolation returns true if the error is an identity violation.
// Uses errors.As to handle wrapped errors.
func IsIdentityViolation(err error) bool {
	return hasCode(err, ErrCodeIdentityViolation)
}

// IsConstraintViolation returns true if the error is a model constraint violation.
func IsConstraintViolation(err error) bool {
	return hasCode(err, ErrCodeConstraintViolation)
}

// IsInternalError returns true if the error is an internal error.
func IsInternalError(err error) bool {
	return hasCode(err, ErrCodeInternal)
}

// IsUsageError returns true if the error is a usage error.
func IsUsageError(err error) bool {
	return hasCode(err, ErrCodeUsage)
}

// HandlerError wraps an error returned by an event handler. The mutation
// that dispatched the event is rolled back.
type HandlerError struct {
	Kind EventKind
	Err  error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %s failed: %v", e.Kind, e.Err)
}

// Unwrap returns the handler's error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
