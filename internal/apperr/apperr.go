// Package apperr defines the error taxonomy shared by all services and
// translated to HTTP status codes once, at the handler boundary.
package apperr

import "errors"

// Error carries a safe-to-expose message plus the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func Unauthorized(msg string) *Error {
	return &Error{Status: 401, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Status: 403, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: 404, Message: msg}
}

// Conflict covers insufficient stock, duplicate SKU/email, and invalid
// state transitions. Reported as 400 to clients.
func Conflict(msg string) *Error {
	return &Error{Status: 400, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Status: 400, Message: msg}
}

// As extracts an *Error if err is one (directly or wrapped).
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
