// Package serrors defines the typed failures the service layer returns to its
// callers. Every error carries a stable machine-readable code so the
// surrounding API layer can map it to a transport status without string
// matching.
package serrors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Kind string

const (
	// KindValidation covers malformed or out-of-range input. Always raised
	// before any mutation.
	KindValidation Kind = "validation"
	// KindForbidden means the caller is authenticated but not permitted to
	// act on this resource.
	KindForbidden Kind = "forbidden"
	// KindNotFound means the resource id is unknown.
	KindNotFound Kind = "not_found"
	// KindInvalidState means the action is not legal from the current
	// lifecycle state, including lost optimistic-concurrency races.
	KindInvalidState Kind = "invalid_state"
	// KindConflict is a structural conflict, e.g. a delete blocked by
	// existing approval records.
	KindConflict Kind = "conflict"
	// KindConfiguration means a required collaborator is missing from the
	// environment, e.g. a project with no assigned manager.
	KindConfiguration Kind = "configuration"
	// KindStorage wraps store I/O failures and timeouts. The only kind a
	// caller may reasonably retry.
	KindStorage Kind = "storage"
	// KindInternal is everything else.
	KindInternal Kind = "internal"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details string
	cause   error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// NewError constructs a generic internal error with a stable code.
func NewError(code, message, details string) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Details: details}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION", Message: message}
}

func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: resource + " not found"}
}

func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Code: "INVALID_STATE", Message: message}
}

func InvalidStatef(format string, args ...any) *Error {
	return InvalidState(fmt.Sprintf(format, args...))
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Code: "CONFLICT", Message: message}
}

func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, Code: "CONFIGURATION", Message: message}
}

// Storage wraps a store failure, preserving the cause for inspection.
func Storage(cause error) *Error {
	return &Error{Kind: KindStorage, Code: "STORAGE", Message: "storage failure", cause: cause}
}

// Is reports whether err is a serrors.Error of the given kind anywhere in its
// chain.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

func IsValidation(err error) bool    { return Is(err, KindValidation) }
func IsForbidden(err error) bool     { return Is(err, KindForbidden) }
func IsNotFound(err error) bool      { return Is(err, KindNotFound) }
func IsInvalidState(err error) bool  { return Is(err, KindInvalidState) }
func IsConflict(err error) bool      { return Is(err, KindConflict) }
func IsConfiguration(err error) bool { return Is(err, KindConfiguration) }
func IsStorage(err error) bool       { return Is(err, KindStorage) }

// ValidationErrors maps a field name to a human-readable problem.
type ValidationErrors map[string]string

// ProcessValidatorErrors flattens go-playground validator output into a
// per-field message map.
func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = fmt.Sprintf("%s is required", fe.Field())
		case "max":
			out[fe.Field()] = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "min":
			out[fe.Field()] = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		default:
			out[fe.Field()] = fmt.Sprintf("%s is invalid", fe.Field())
		}
	}
	return out
}

// FromFieldErrors folds a field error map into a single validation error.
func FromFieldErrors(fields ValidationErrors) *Error {
	e := Validation("invalid input")
	for field, msg := range fields {
		if e.Details == "" {
			e.Details = fmt.Sprintf("%s: %s", field, msg)
		} else {
			e.Details += fmt.Sprintf("; %s: %s", field, msg)
		}
	}
	return e
}
