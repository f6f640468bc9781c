// Package echoerr defines the error taxonomy shared by all Echoes services.
// Every user-visible failure carries a machine-readable Kind and a
// human-readable Detail; underlying provider errors stay wrapped and are
// never exposed as the Detail string itself.
package echoerr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure for callers and for the CLI/MCP surfaces.
type Kind string

const (
	// KindValidation marks blank or missing required input. Validation
	// failures are rejected before any provider is called and never retried.
	KindValidation Kind = "validation"

	// KindProvider marks an embedding/generation/extraction failure that
	// persisted after local retries were exhausted.
	KindProvider Kind = "provider"

	// KindIncompleteInput marks a reconstruction Stage 2 call with missing
	// reverse prompts or composition fields.
	KindIncompleteInput Kind = "incomplete_input"

	// KindTimeout marks a caller-cancelled or deadline-exceeded operation.
	KindTimeout Kind = "timeout"

	// KindStorage marks a vector-store failure (unavailable, corrupt read,
	// failed transaction).
	KindStorage Kind = "storage"
)

// Error is a kinded error with a human-readable detail.
type Error struct {
	Kind   Kind
	Detail string
	Err    error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a kinded error without a wrapped cause.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Wrap creates a kinded error wrapping cause. A nil cause returns the same
// shape as New.
func Wrap(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: cause}
}

// Validation is shorthand for New(KindValidation, detail).
func Validation(detail string) *Error { return New(KindValidation, detail) }

// Provider is shorthand for Wrap(KindProvider, detail, cause).
func Provider(detail string, cause error) *Error { return Wrap(KindProvider, detail, cause) }

// IncompleteInput is shorthand for New(KindIncompleteInput, detail).
func IncompleteInput(detail string) *Error { return New(KindIncompleteInput, detail) }

// Timeout is shorthand for Wrap(KindTimeout, detail, cause).
func Timeout(detail string, cause error) *Error { return Wrap(KindTimeout, detail, cause) }

// Storage is shorthand for Wrap(KindStorage, detail, cause).
func Storage(detail string, cause error) *Error { return Wrap(KindStorage, detail, cause) }

// KindOf returns the Kind carried by err, unwrapping as needed. Context
// cancellation and deadline errors classify as KindTimeout. Errors without a
// kind return the empty Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// FromContext converts a context error into a kinded timeout error, keeping
// any other error unchanged.
func FromContext(err error, detail string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Timeout(detail, err)
	}
	return err
}
