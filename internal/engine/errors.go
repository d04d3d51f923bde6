package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a defect that aborts the entire check, as
// opposed to a logical contradiction that only fails one branch
// (model.Conflict). Structural violations signal malformed vocabulary;
// quota errors signal a rewrite lineage that never reached a fixed point.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// RunToken identifies the affected run or branch.
	RunToken string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeStructural indicates a malformed axiom: unregistered kind,
	// wrong arity, or a dangling entity reference.
	ErrCodeStructural RuntimeErrorCode = "STRUCTURAL_VIOLATION"

	// ErrCodeQuotaExceeded indicates the run exceeded its step budget,
	// which means some rewrite lineage failed to terminate.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.RunToken != "" {
		return fmt.Sprintf("%s: %s (run=%s)", e.Code, e.Message, e.RunToken)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsStructuralError reports whether err is a structural violation.
// Uses errors.As to handle wrapped errors.
func IsStructuralError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeStructural
	}
	return false
}

// IsQuotaError reports whether err is a step-quota error.
// Uses errors.As to handle wrapped errors.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeQuotaExceeded
	}
	return false
}

// NewStructuralError creates a RuntimeError for a malformed axiom.
func NewStructuralError(runToken string, cause error) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeStructural,
		Message:  cause.Error(),
		RunToken: runToken,
	}
}

// NewQuotaError creates a RuntimeError for an exceeded step budget.
func NewQuotaError(runToken string, steps, maxSteps int) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeQuotaExceeded,
		Message:  fmt.Sprintf("run exceeded max steps (%d >= %d)", steps, maxSteps),
		RunToken: runToken,
		Details: map[string]string{
			"steps":     fmt.Sprintf("%d", steps),
			"max_steps": fmt.Sprintf("%d", maxSteps),
		},
	}
}
