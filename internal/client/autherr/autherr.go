// Package autherr turns raw failures from the identity backend and the
// network into user-facing errors.
//
// Classify applies a fixed decision order: device offline, endpoint
// unreachable, generic network failure, 5xx, 4xx, fallback. Raw errors
// expose their status code, name and type tag through the StatusCoder,
// Namer and Typer interfaces, so the classifier stays independent of any
// particular transport.
package autherr

import "fmt"

// Names surfaced on classified errors.
const (
	NameValidation = "ValidationError"
	NameNetwork    = "NetworkError"
	NameAuth       = "AuthError"
	NameServer     = "ServerError"
	NameUnknown    = "Error"
)

// User-facing messages.
const (
	MsgOffline           = "You appear to be offline. Please check your internet connection."
	MsgUnreachable       = "Unable to connect to the server. Please check if the backend endpoint is correct and accessible."
	MsgNetwork           = "Connection to the server failed. Please try again later."
	MsgServer            = "The server encountered an error. Please try again later."
	MsgInvalidCredential = "Invalid email or password"
	MsgTooManyAttempts   = "Too many attempts. Please try again later."
	MsgUnexpected        = "An unexpected error occurred. Please try again."
)

// Error is a classified failure. Code is 0 for failures that never reached
// the server and an HTTP-style status otherwise.
type Error struct {
	Name    string
	Message string
	Code    int

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// String includes the name and code, for logs.
func (e *Error) String() string {
	return fmt.Sprintf("%s(%d): %s", e.Name, e.Code, e.Message)
}

// IsNetwork reports whether the failure never reached the server.
func (e *Error) IsNetwork() bool {
	return e.Name == NameNetwork
}

// Validation builds a local precondition failure. It is never retried and
// Classify passes it through untouched.
func Validation(msg string) *Error {
	return &Error{Name: NameValidation, Message: msg, Code: 400}
}

// Offline is the error reported when an operation needs the network and the
// device has none.
func Offline() *Error {
	return &Error{Name: NameNetwork, Message: MsgOffline}
}

// StatusCoder is implemented by raw errors that carry an HTTP-style code.
type StatusCoder interface {
	StatusCode() int
}

// Namer is implemented by raw errors that carry their own name.
type Namer interface {
	ErrorName() string
}

// Typer is implemented by raw errors that carry a type tag.
type Typer interface {
	ErrorType() string
}
