// Package typeerr gives the core and CLI a small, closed set of error
// kinds to discriminate on, wrapping causes with github.com/pkg/errors
// so callers can still print a stack trace with %+v during
// troubleshooting.
package typeerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the four error categories the system distinguishes.
type Kind int

const (
	// IOFailed covers file open/read/list failures.
	IOFailed Kind = iota
	// InvalidInput covers bad arguments: all scan modes disabled,
	// empty extension, missing source directory.
	InvalidInput
	// MalformedPattern covers a persisted pattern failing structural
	// validation.
	MalformedPattern
	// Unsatisfiable covers a build that completed with no evidence.
	Unsatisfiable
)

func (k Kind) String() string {
	switch k {
	case IOFailed:
		return "IOFailed"
	case InvalidInput:
		return "InvalidInput"
	case MalformedPattern:
		return "MalformedPattern"
	case Unsatisfiable:
		return "Unsatisfiable"
	default:
		return "Unknown"
	}
}

// Error pairs a Kind with a wrapped cause.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.cause)
}

// Unwrap exposes the cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// New builds a Kind error from a message, with a stack trace attached.
func New(k Kind, msg string) error {
	return &Error{Kind: k, cause: errors.New(msg)}
}

// Wrap attaches a Kind to an existing error, preserving it as the
// cause. Returns nil if err is nil.
func Wrap(k Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, cause: errors.Wrap(err, msg)}
}

// Is reports whether err (or anything it wraps) is a typeerr.Error of
// the given Kind.
func Is(err error, k Kind) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind == k
	}
	return false
}
