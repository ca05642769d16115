// internal/common/errors/errors.go

// Package errors provides standardized error handling for the scoring engine.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeContractorNotFound  ErrorCode = "CONTRACTOR_NOT_FOUND"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeUpstreamDataError   ErrorCode = "UPSTREAM_DATA_ERROR"
	ErrCodeScorePersistFailed  ErrorCode = "SCORE_PERSIST_FAILED"
	ErrCodeHistoryAppendFailed ErrorCode = "HISTORY_APPEND_FAILED"
	ErrCodeScoreTimeout        ErrorCode = "SCORE_TIMEOUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewContractorNotFoundError creates a non-retryable unknown-contractor error.
func NewContractorNotFoundError(contractorID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeContractorNotFound,
		Message:   "Contractor not found",
		Details:   fmt.Sprintf("contractorId: %s", contractorID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError creates a non-retryable input validation error.
func NewValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamDataError creates a retryable raw-data feed error. Callers
// degrade the affected domain to its neutral default instead of aborting
// the scoring pass.
func NewUpstreamDataError(feed string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamDataError,
		Message:   "Raw data feed malformed or unavailable",
		Details:   fmt.Sprintf("feed: %s, error: %s", feed, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScorePersistFailedError creates a retryable persistence error.
func NewScorePersistFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScorePersistFailed,
		Message:   "Failed to persist contractor categories",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewHistoryAppendFailedError reports an exhausted history append. The
// category write is not rolled back; this surfaces the lost audit trail.
func NewHistoryAppendFailedError(contractorID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeHistoryAppendFailed,
		Message:   "History append failed after retries",
		Details:   fmt.Sprintf("contractorId: %s, error: %s", contractorID, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoreTimeoutError creates a per-contractor batch timeout error.
func NewScoreTimeoutError(contractorID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoreTimeout,
		Message:   "Scoring pass timed out",
		Details:   fmt.Sprintf("contractorId: %s", contractorID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the engine error code from err, or "" when err carries none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsNotFound reports whether err is an unknown-contractor error.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeContractorNotFound
}

// IsValidation reports whether err is an input validation error.
func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidationFailed
}
