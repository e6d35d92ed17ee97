package domain

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures for callers. Mismatch and Conflict
// are never retried; Unavailable is retryable with backoff.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindMismatch    Kind = "mismatch"
	KindUnavailable Kind = "unavailable"
	KindInvalid     Kind = "invalid"
)

// Error is a classified engine failure. Detail carries audit context,
// e.g. expected vs observed employer address on a ledger mismatch.
type Error struct {
	Kind    Kind
	Message string
	Detail  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from err. Unclassified errors are
// reported as Unavailable so callers treat them as retryable rather
// than swallowing them into a generic success.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnavailable
}

// DetailOf returns the audit detail attached to err, or nil.
func DetailOf(err error) map[string]string {
	var de *Error
	if errors.As(err, &de) {
		return de.Detail
	}
	return nil
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...any) error {
	return &Error{Kind: KindInvalid, Message: fmt.Sprintf(format, args...)}
}

// Mismatch reports divergence between an off-chain claim and ledger
// truth. Never resolved silently; expected and observed values are
// kept for manual audit.
func Mismatch(message, expected, observed string) error {
	return &Error{
		Kind:    KindMismatch,
		Message: message,
		Detail: map[string]string{
			"expected": expected,
			"observed": observed,
		},
	}
}

// Unavailable wraps a transient upstream failure (store or ledger
// gateway unreachable).
func Unavailable(message string, err error) error {
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}
