package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies expected engine outcomes.
type ErrorKind string

const (
	ErrNotFound               ErrorKind = "NOT_FOUND"
	ErrForbidden              ErrorKind = "FORBIDDEN"
	ErrInvalidTransition      ErrorKind = "INVALID_TRANSITION"
	ErrAlreadyCompleted       ErrorKind = "ALREADY_COMPLETED"
	ErrConcurrentModification ErrorKind = "CONCURRENT_MODIFICATION"
	ErrTransactionFailed      ErrorKind = "TRANSACTION_FAILED"
)

// Error is a structured engine error surfaced to callers.
type Error struct {
	Kind    ErrorKind
	Message string
	// Reason carries the denial reason code for Forbidden errors.
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewNotFound builds a NotFound error for the named resource.
func NewNotFound(resource string) *Error {
	return &Error{Kind: ErrNotFound, Message: resource + " not found"}
}

// NewForbidden builds a Forbidden error with a denial reason code.
func NewForbidden(reason string) *Error {
	return &Error{Kind: ErrForbidden, Message: "access denied", Reason: reason}
}

// NewInvalidTransition describes a rejected state machine move.
func NewInvalidTransition(current, target string) *Error {
	return &Error{
		Kind:    ErrInvalidTransition,
		Message: fmt.Sprintf("invalid transition: %s -> %s", current, target),
	}
}

// NewAlreadyCompleted signals a milestone completed twice.
func NewAlreadyCompleted(milestoneID string) *Error {
	return &Error{Kind: ErrAlreadyCompleted, Message: "milestone already completed"}
}

// NewConcurrentModification signals an optimistic-lock conflict.
func NewConcurrentModification(resource string) *Error {
	return &Error{Kind: ErrConcurrentModification, Message: resource + " was modified concurrently"}
}

// NewTransactionFailed wraps a persistence or dispatch failure. The cause is
// retained for logging but never rendered to callers.
func NewTransactionFailed(err error) *Error {
	return &Error{Kind: ErrTransactionFailed, Message: "transaction failed", Err: err}
}

// KindOf extracts the error kind, or "" for non-engine errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
