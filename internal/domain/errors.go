package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeUnavailable      = "UNAVAILABLE"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyRawText     = NewDomainError(ErrCodeValidation, "raw_text is required")
	ErrEmptySpeechText  = NewDomainError(ErrCodeValidation, "text is required")
	ErrEmptyQuery       = NewDomainError(ErrCodeValidation, "query is required")
	ErrInvalidItemIndex = NewDomainError(ErrCodeValidation, "item_index must be non-negative")
	ErrInvalidCursor    = NewDomainError(ErrCodeValidation, "invalid pagination cursor")
)

// Not found errors
var (
	ErrBriefingNotFound       = NewDomainError(ErrCodeNotFound, "briefing not found")
	ErrKnowledgeEntryNotFound = NewDomainError(ErrCodeNotFound, "knowledge entry not found")
)

// Configuration-dependent operations
var (
	ErrSpeechNotConfigured = NewDomainError(ErrCodeUnavailable, "text-to-speech not configured")
	ErrSearchNotConfigured = NewDomainError(ErrCodeInvalidOperation, "semantic search not configured")
)
