// Package errors defines the domain error taxonomy shared by the coin
// services. Errors are pointer sentinels so callers can match them with
// errors.Is even after wrapping.
package errors

import (
	stderrors "errors"
	"strings"
)

// Kind classifies a domain error so the transport layer can map it to a
// status code without knowing individual sentinels.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindPolicy     Kind = "POLICY_VIOLATION"
	KindConflict   Kind = "CONFLICT"
	KindInternal   Kind = "INTERNAL"
)

// DomainError is a stable, machine-readable domain failure.
type DomainError struct {
	Code    string
	Message string
	Kind    Kind
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches by code, so a wrapped copy still satisfies
// errors.Is(err, sentinel).
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of e carrying err as its cause.
func (e *DomainError) WithCause(err error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Kind: e.Kind, Err: err}
}

// Code returns the machine code of a domain error, lowercased, or
// "internal" for anything else. Metrics and logs use it as a stable
// label.
func Code(err error) string {
	var derr *DomainError
	if stderrors.As(err, &derr) {
		return strings.ToLower(derr.Code)
	}
	return "internal"
}
