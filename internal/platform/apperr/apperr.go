// Package apperr defines the error kinds shared by the directory, session, and
// collaboration services. Handlers map kinds to HTTP or gRPC status codes.
package apperr

import "errors"

// Error kinds. Match with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state")
	ErrForbidden      = errors.New("forbidden")
)

// Error is a domain failure carrying a user-facing message and one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Validation returns an error of kind ErrValidation.
func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

// Authentication returns an error of kind ErrAuthentication.
func Authentication(msg string) error { return &Error{Kind: ErrAuthentication, Message: msg} }

// NotFound returns an error of kind ErrNotFound.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// InvalidState returns an error of kind ErrInvalidState.
func InvalidState(msg string) error { return &Error{Kind: ErrInvalidState, Message: msg} }

// Forbidden returns an error of kind ErrForbidden.
func Forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

// KindOf returns the kind of err, or nil if err is not a domain error.
func KindOf(err error) error {
	for _, k := range []error{ErrValidation, ErrAuthentication, ErrNotFound, ErrInvalidState, ErrForbidden} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Message returns the user-facing message of a domain error, or fallback for anything else.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return fallback
}
