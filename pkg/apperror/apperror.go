package apperror

import (
	"errors"
)

// Error kinds. Every error returned by the engine matches exactly one of these
// through errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrForbidden         = errors.New("forbidden")
	ErrStorage           = errors.New("storage error")
)

// Error is a classified engine error. Message names the violated precondition
// or transition so the caller can act on it without reading logs.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func InvalidTransition(message string) *Error {
	return &Error{Kind: ErrInvalidTransition, Message: message}
}

// Forbidden marks an operation the caller's role may not perform
func Forbidden(message string) *Error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// Storage wraps a persistence failure. A nil err yields nil so call sites can
// wrap unconditionally.
func Storage(message string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrStorage, Message: message, Err: err}
}

// Message returns the caller-facing message of a classified error, or fallback
// when err is not an *Error.
func Message(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if errors.Is(appErr.Kind, ErrStorage) {
			return fallback
		}
		return appErr.Message
	}
	return fallback
}
