// Package errs implements the error taxonomy shared by every layer above
// the Storage Layer: Data Access produces these, the Command Surface maps
// them to exit codes, and the Resource Model maps them to transport
// conventions without inventing new kinds.
package errs

import (
	"errors"
	"fmt"
)

// Kind is one of the stable error kinds from spec.md §7.
type Kind string

const (
	NotFound           Kind = "not_found"
	Conflict           Kind = "conflict"
	InvariantViolation Kind = "invariant_violation"
	InvalidInput       Kind = "invalid_input"
	BackendUnavailable Kind = "backend_unavailable"
	Internal           Kind = "internal"
)

// ExitCode returns the process exit code for a Kind, distinct per spec.md §6.
func (k Kind) ExitCode() int {
	switch k {
	case NotFound:
		return 10
	case Conflict:
		return 11
	case InvariantViolation:
		return 12
	case InvalidInput:
		return 13
	case BackendUnavailable:
		return 14
	default:
		return 1
	}
}

// Error is the single error type produced by internal/dataaccess and
// internal/storage/ppg and propagated unwrapped through internal/command.
type Error struct {
	Kind    Kind
	Message string
	Hint    string
	Field   string // set for InvalidInput
	ID      string // set for NotFound/Conflict: the offending identifier
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.ID != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.ID)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// As reports whether err is (or wraps) an *Error and returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or Internal if err is not a tagged Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Internal
}

func NotFoundf(id, format string, args ...any) error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...), ID: id}
}

func Conflictf(id, format string, args ...any) error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...), ID: id}
}

func Invariantf(hint, format string, args ...any) error {
	return &Error{Kind: InvariantViolation, Message: fmt.Sprintf(format, args...), Hint: hint}
}

func InvalidInputf(field, format string, args ...any) error {
	return &Error{Kind: InvalidInput, Message: fmt.Sprintf(format, args...), Field: field}
}

func BackendUnavailablef(hint string, cause error, format string, args ...any) error {
	return &Error{Kind: BackendUnavailable, Message: fmt.Sprintf(format, args...), Hint: hint, Cause: cause}
}

func Internalf(cause error, format string, args ...any) error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...), Cause: cause}
}
