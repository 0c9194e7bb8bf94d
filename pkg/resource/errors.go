package resource

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for programmatic handling.
const (
	ErrCodeDuplicateType     = "DUPLICATE_TYPE"
	ErrCodeUnknownType       = "UNKNOWN_TYPE"
	ErrCodeDuplicateName     = "DUPLICATE_NAME"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeNotFound          = "NOT_FOUND"
)

// Error is a classified error returned from the registry, the variants,
// and the manager. Every failure is deterministic input validation or a
// state precondition; none are retryable and none are fatal to the
// process.
type Error struct {
	// Code is the error classification.
	Code string

	// Message is the human-readable error message.
	Message string

	// Field is the offending configuration field, set for VALIDATION_ERROR.
	Field string

	// Allowed lists the permitted values for Field, set for VALIDATION_ERROR.
	Allowed []string

	// State is the resource state at the time of a rejected transition,
	// set for INVALID_TRANSITION.
	State State

	// Op is the rejected operation, set for INVALID_TRANSITION.
	Op Operation

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Code == ErrCodeValidation && e.Field != "":
		if len(e.Allowed) > 0 {
			return fmt.Sprintf("[%s] %s: field %q must be one of [%s]",
				e.Code, e.Message, e.Field, strings.Join(e.Allowed, ", "))
		}
		return fmt.Sprintf("[%s] %s: field %q", e.Code, e.Message, e.Field)
	case e.Code == ErrCodeInvalidTransition:
		return fmt.Sprintf("[%s] %s (state=%s, op=%s)", e.Code, e.Message, e.State, e.Op)
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	default:
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements error equality for errors.Is based on the code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDuplicateTypeError reports an attempt to register an already
// registered type name.
func NewDuplicateTypeError(typeName string) *Error {
	return &Error{
		Code:    ErrCodeDuplicateType,
		Message: fmt.Sprintf("resource type %q is already registered", typeName),
	}
}

// NewUnknownTypeError reports a reference to a type name absent from the
// registry.
func NewUnknownTypeError(typeName string) *Error {
	return &Error{
		Code:    ErrCodeUnknownType,
		Message: fmt.Sprintf("unknown resource type %q", typeName),
	}
}

// NewDuplicateNameError reports a create with a name that already exists
// in the collection, regardless of type.
func NewDuplicateNameError(name string) *Error {
	return &Error{
		Code:    ErrCodeDuplicateName,
		Message: fmt.Sprintf("resource %q already exists", name),
	}
}

// NewValidationError reports a configuration value outside its allowed
// set. Allowed may be nil when no enumeration applies.
func NewValidationError(field string, allowed []string, message string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
		Allowed: allowed,
	}
}

// NewInvalidTransitionError reports an operation attempted from a state
// that does not permit it.
func NewInvalidTransitionError(current State, op Operation, reason string) *Error {
	return &Error{
		Code:    ErrCodeInvalidTransition,
		Message: reason,
		State:   current,
		Op:      op,
	}
}

// NewNotFoundError reports an operation referencing a name absent from
// the collection.
func NewNotFoundError(name string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("resource %q not found", name),
	}
}

func hasCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsDuplicateType reports whether err is a DUPLICATE_TYPE error.
func IsDuplicateType(err error) bool { return hasCode(err, ErrCodeDuplicateType) }

// IsUnknownType reports whether err is an UNKNOWN_TYPE error.
func IsUnknownType(err error) bool { return hasCode(err, ErrCodeUnknownType) }

// IsDuplicateName reports whether err is a DUPLICATE_NAME error.
func IsDuplicateName(err error) bool { return hasCode(err, ErrCodeDuplicateName) }

// IsValidation reports whether err is a VALIDATION_ERROR.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsInvalidTransition reports whether err is an INVALID_TRANSITION error.
func IsInvalidTransition(err error) bool { return hasCode(err, ErrCodeInvalidTransition) }

// IsNotFound reports whether err is a NOT_FOUND error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }
