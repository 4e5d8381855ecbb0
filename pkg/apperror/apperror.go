// Package apperror carries a machine-stable error kind alongside a message
// that is safe to show to API clients.
package apperror

import "errors"

type Kind string

const (
	KindValidation     Kind = "validation"
	KindDuplicate      Kind = "duplicate"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindRateLimited    Kind = "rate_limited"
	KindInternal       Kind = "internal"
)

// Error is a classified application error. Message is client-facing; Err is
// the internal cause and is never rendered.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Internal wraps an infrastructure failure.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// Classified reports whether err already carries a kind.
func Classified(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
