package backend

import (
	"errors"
	"fmt"
)

// ErrInvalidAddress marks a backend address that is not a usable URL.
var ErrInvalidAddress = errors.New("backend address is not a valid URL")

// TransportError wraps a network or connection failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError carries a non-2xx response. Message holds the detail the
// server supplied, or a generic description when the body had none.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error %d", e.StatusCode)
}

// ParseError wraps an undecodable response body.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unreadable server response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
