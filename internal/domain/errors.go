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
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodeCollaborator  = "COLLABORATOR_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrMalformedExtraction = NewDomainError(ErrCodeValidation, "extraction output does not match the expected shape")
	ErrInvalidUrgency      = NewDomainError(ErrCodeValidation, "invalid urgency value")
)

// Configuration errors, raised at pipeline construction time
var (
	ErrInvalidThreshold = NewDomainError(ErrCodeConfiguration, "threshold must be in (0,1)")
	ErrInvalidWeights   = NewDomainError(ErrCodeConfiguration, "priority weights must sum to 1")
	ErrInvalidTopN      = NewDomainError(ErrCodeConfiguration, "top-N must be a positive integer")
)

// Collaborator errors. ErrCollaboratorUnavailable is a run-level failure,
// distinct from per-item skips: it means the run produced nothing, not
// that nothing was found.
var (
	ErrCollaboratorUnavailable = NewDomainError(ErrCodeCollaborator, "required collaborator is unavailable")
)
