package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of them.
var (
	ErrIllegalArgument = errors.New("illegal argument")
	ErrAccessDenied    = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnexpected      = errors.New("unexpected error")
)

// Error is a classified domain error.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewIllegalArgument(format string, args ...any) *Error {
	return &Error{Kind: ErrIllegalArgument, Message: fmt.Sprintf(format, args...)}
}

func NewAccessDenied(format string, args ...any) *Error {
	return &Error{Kind: ErrAccessDenied, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// NewUnexpected wraps err into the opaque unexpected-error category.
func NewUnexpected(err error) *Error {
	return &Error{Kind: ErrUnexpected, Message: err.Error(), Err: err}
}

// IsDomain reports whether err belongs to one of the expected categories.
func IsDomain(err error) bool {
	return errors.Is(err, ErrIllegalArgument) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict)
}

// Unexpected returns err unchanged when it is already classified and wraps it
// into ErrUnexpected otherwise.
func Unexpected(err error) error {
	if err == nil || IsDomain(err) || errors.Is(err, ErrUnexpected) {
		return err
	}
	return NewUnexpected(err)
}
