package ports

import (
	"errors"
	"fmt"
)

// ErrorCategory normalizes collaborator failures so the pipeline can reason
// about them uniformly.
type ErrorCategory string

const (
	// ErrorTimeout indicates the collaborator took too long to respond.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the collaborator returned invalid/malformed data.
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorOutage indicates the collaborator is unavailable.
	ErrorOutage ErrorCategory = "outage"

	// ErrorRateLimited indicates too many requests.
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected internal error.
	ErrorInternal ErrorCategory = "internal"
)

// CollaboratorError wraps external scorer failures with normalized
// categorization. The pipeline maps any collaborator error to "check
// skipped" — never to a run abort and never to a manufactured rejection.
type CollaboratorError struct {
	Category     ErrorCategory
	Collaborator string
	Message      string
	Underlying   error
	Retryable    bool
}

func (e *CollaboratorError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("collaborator %s [%s]: %s: %v", e.Collaborator, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("collaborator %s [%s]: %s", e.Collaborator, e.Category, e.Message)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Underlying
}

// NewCollaboratorError creates a normalized collaborator error.
func NewCollaboratorError(category ErrorCategory, collaborator, message string, underlying error) *CollaboratorError {
	retryable := category == ErrorTimeout ||
		category == ErrorOutage ||
		category == ErrorRateLimited

	return &CollaboratorError{
		Category:     category,
		Collaborator: collaborator,
		Message:      message,
		Underlying:   underlying,
		Retryable:    retryable,
	}
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error.
func GetCategory(err error) ErrorCategory {
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ErrorInternal
}
