// Package types holds the structured error type shared by the agent's
// I/O layers. The decision core itself is total and never returns errors;
// these codes cover configuration, persistence, schema, and ticket I/O.
package types

import (
	"errors"
	"fmt"
)

// ErrorCode is a namespaced error code for agent errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Database error codes
const (
	DB_OPEN_FAILED      ErrorCode = "DB_OPEN_FAILED"
	DB_MIGRATION_FAILED ErrorCode = "DB_MIGRATION_FAILED"
	DB_QUERY_FAILED     ErrorCode = "DB_QUERY_FAILED"
)

// Schema validation error codes
const (
	SCHEMA_COMPILE_FAILED ErrorCode = "SCHEMA_COMPILE_FAILED"
)

// Workflow catalog error codes
const (
	CATALOG_INVALID      ErrorCode = "CATALOG_INVALID"
	CATALOG_LOAD_FAILED  ErrorCode = "CATALOG_LOAD_FAILED"
	REPORT_NOT_FOUND     ErrorCode = "REPORT_NOT_FOUND"
	TICKET_UPDATE_FAILED ErrorCode = "TICKET_UPDATE_FAILED"
)

// AgentError is a structured error with a code, message, and optional
// cause. Supports error wrapping and retryability hints.
type AgentError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause".
func (e *AgentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is / errors.As chains.
func (e *AgentError) Unwrap() error {
	return e.Cause
}

// NewError creates an AgentError without a cause.
func NewError(code ErrorCode, message string) *AgentError {
	return &AgentError{Code: code, Message: message}
}

// WrapError creates an AgentError wrapping a cause.
func WrapError(code ErrorCode, message string, cause error) *AgentError {
	return &AgentError{Code: code, Message: message, Cause: cause}
}

// IsCode reports whether err carries the given error code anywhere in its
// chain.
func IsCode(err error, code ErrorCode) bool {
	var agentErr *AgentError
	for errors.As(err, &agentErr) {
		if agentErr.Code == code {
			return true
		}
		err = agentErr.Cause
		agentErr = nil
	}
	return false
}
