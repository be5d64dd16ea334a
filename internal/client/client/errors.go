package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoSession    = errors.New("no active session")
	ErrNotFound     = errors.New("not found")
)

// APIError is a non-2xx response from the platform, decoded from its
// {message, code, type} error body.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode())
	}
	return e.Message
}

// StatusCode prefers the code from the body and falls back to the HTTP
// status.
func (e *APIError) StatusCode() int {
	if e.Code != 0 {
		return e.Code
	}
	return e.Status
}

func (e *APIError) ErrorType() string {
	return e.Type
}

// Is lets callers match well-known statuses with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode() == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode() == http.StatusNotFound
	case ErrUnavailable:
		return e.StatusCode() == http.StatusServiceUnavailable
	}
	return false
}
