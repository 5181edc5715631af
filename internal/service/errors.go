package service

import (
	"errors"
	"fmt"
)

// Kind sentinels. Every error returned by a service matches at most one of them via errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
	ErrConflict   = errors.New("conflict")
)

// Kind is the stable, client-facing name of an error class.
type Kind string

const (
	KindValidation Kind = "validation_error"
	KindNotFound   Kind = "not_found"
	KindStorage    Kind = "storage_error"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

// Error carries a kind, a client-safe message and an optional cause.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Message is the text safe to show to API clients.
func (e *Error) Message() string { return e.msg }

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// NewError builds an error of the given kind sentinel. cause may be nil.
func NewError(kind error, msg string, cause error) error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

func validationErr(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func notFoundErr(what string) error {
	return &Error{kind: ErrNotFound, msg: what + " not found"}
}

func storageErr(msg string, cause error) error {
	return &Error{kind: ErrStorage, msg: msg, cause: cause}
}

func conflictErr(format string, args ...any) error {
	return &Error{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// KindOf classifies err. Unclassified errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrStorage):
		return KindStorage
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// PublicMessage returns the client-facing message for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return "internal server error"
}
