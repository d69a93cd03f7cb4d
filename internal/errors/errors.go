// Package errors provides the error types for the kbchat backend client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrTimeout         = errors.New("request timed out")
	ErrInvalidResponse = errors.New("invalid response format")
)

// Error kinds tagged onto synthetic assistant messages
const (
	KindTransport   = "transport"
	KindTimeout     = "timeout"
	KindServer      = "server"
	KindApplication = "application"
)

// TransportError represents a network failure before the server answered
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error at %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError creates a new TransportError
func NewTransportError(endpoint string, err error) *TransportError {
	return &TransportError{Endpoint: endpoint, Err: err}
}

// TimeoutError represents a request abandoned after the client timeout window
type TimeoutError struct {
	Endpoint string
}

func (e *TimeoutError) Error() string {
	if e.Endpoint == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out at %s", e.Endpoint)
}

// Is allows comparison with the ErrTimeout sentinel
func (e *TimeoutError) Is(target error) bool {
	if target == ErrTimeout {
		return true
	}
	_, ok := target.(*TimeoutError)
	return ok
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(endpoint string) *TimeoutError {
	return &TimeoutError{Endpoint: endpoint}
}

// ServerError represents a non-2xx HTTP response
type ServerError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API error %d at %s: %s", e.StatusCode, e.Endpoint, e.Body)
	}
	return fmt.Sprintf("API error %d at %s", e.StatusCode, e.Endpoint)
}

// NewServerError creates a new ServerError
func NewServerError(statusCode int, endpoint, body string) *ServerError {
	return &ServerError{StatusCode: statusCode, Endpoint: endpoint, Body: body}
}

// ApplicationError represents a 2xx response the client cannot accept:
// success=false or a missing expected field.
type ApplicationError struct {
	Endpoint string
	Message  string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected response from %s", e.Endpoint)
	}
	return e.Message
}

// Is allows comparison with the ErrInvalidResponse sentinel
func (e *ApplicationError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ApplicationError)
	return ok
}

// NewApplicationError creates a new ApplicationError
func NewApplicationError(endpoint, message string) *ApplicationError {
	return &ApplicationError{Endpoint: endpoint, Message: message}
}

// IsTimeout reports whether err is a timeout
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsTransport reports whether err is a pre-server network failure
func IsTransport(err error) bool {
	var ne *TransportError
	return errors.As(err, &ne)
}

// IsServer reports whether err is a non-2xx server response
func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// HTTPStatus extracts the HTTP status code from a ServerError, or 0
func HTTPStatus(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Kind maps an error to the tag stored on synthetic assistant messages
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTimeout(err):
		return KindTimeout
	case IsTransport(err):
		return KindTransport
	case IsServer(err):
		return KindServer
	default:
		return KindApplication
	}
}
