package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across dtfed.
type ErrorCode string

// Datatable error codes
const (
	ErrDatatableNotFound     ErrorCode = "DATATABLE_NOT_FOUND"
	ErrQueryDatatableFailed  ErrorCode = "QUERY_DATATABLE_FAILED"
	ErrDeleteDatatableFailed ErrorCode = "DELETE_DATATABLE_FAILED"
	ErrQueryFeatureTable     ErrorCode = "QUERY_FEATURE_TABLE_FAILED"
)

// Routing and request error codes
const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrTargetNodeResolve ErrorCode = "TARGET_NODE_RESOLVE_FAILED"
	ErrInvalidConfig     ErrorCode = "INVALID_CONFIG"
)

// Error represents a structured error with code, message and the remote
// diagnostics needed to investigate a failure without re-querying.
type Error struct {
	Code          ErrorCode `json:"code"`
	Message       string    `json:"message"`
	NodeID        string    `json:"node_id,omitempty"`
	RemoteCode    int32     `json:"remote_code,omitempty"`
	RemoteMessage string    `json:"remote_message,omitempty"`
	Request       any       `json:"request,omitempty"`
	Cause         error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.NodeID != "" {
		msg += fmt.Sprintf(" (node=%s)", e.NodeID)
	}
	if e.RemoteCode != 0 || e.RemoteMessage != "" {
		msg += fmt.Sprintf(": remote code=%d message=%q", e.RemoteCode, e.RemoteMessage)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithNode records the physical node the failing call was sent to.
func (e *Error) WithNode(nodeID string) *Error {
	e.NodeID = nodeID
	return e
}

// WithRemoteStatus copies the remote status code and message.
func (e *Error) WithRemoteStatus(status RemoteStatus) *Error {
	e.RemoteCode = status.Code
	e.RemoteMessage = status.Message
	return e
}

// WithRequest attaches the original request for diagnostics.
func (e *Error) WithRequest(req any) *Error {
	e.Request = req
	return e
}

// AsError extracts a *Error from the chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// IsNotFound reports whether err means the datatable does not exist.
func IsNotFound(err error) bool {
	return IsErrorCode(err, ErrDatatableNotFound)
}
