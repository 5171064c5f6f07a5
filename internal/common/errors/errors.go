// Package errors provides standardized error handling for the dialogue pipeline.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeEmptyMessage ErrorCode = "EMPTY_MESSAGE"

	ErrCodeClassifierLoadFailed ErrorCode = "CLASSIFIER_LOAD_FAILED"
	ErrCodeClassificationFailed ErrorCode = "CLASSIFICATION_FAILED"
	ErrCodeExtractionFailed     ErrorCode = "EXTRACTION_FAILED"

	ErrCodeSimulationParamsInvalid ErrorCode = "SIMULATION_PARAMS_INVALID"
	ErrCodeModificationFailed      ErrorCode = "MODIFICATION_FAILED"

	ErrCodeContextStoreFailed ErrorCode = "CONTEXT_STORE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// NewEmptyMessageError rejects a blank inbound message. Not retryable.
func NewEmptyMessageError(userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyMessage,
		Message:   "Message is empty or whitespace only",
		Details:   fmt.Sprintf("userId: %s", userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassifierLoadFailedError marks a primary classifier that never came up.
func NewClassifierLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassifierLoadFailed,
		Message:   "Primary intent classifier failed to load",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewClassificationFailedError wraps a primary classifier call failure.
func NewClassificationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationFailed,
		Message:   "Intent classification call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewExtractionFailedError wraps an entity extraction failure.
func NewExtractionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "Entity extraction failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSimulationParamsInvalidError flags parameters a simulation cannot run on.
func NewSimulationParamsInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSimulationParamsInvalid,
		Message:   "Simulation parameters violate the input contract",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModificationFailedError wraps a failed simulation modification.
func NewModificationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModificationFailed,
		Message:   "Simulation modification failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewContextStoreFailedError wraps a conversational store failure.
func NewContextStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContextStoreFailed,
		Message:   "Conversation context store error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	se, ok := err.(*StandardError)
	return ok && se.Code == code
}
