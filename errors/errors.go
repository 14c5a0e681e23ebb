package errors

import (
	"fmt"
	"strings"
)

// Violation is a single pipeline document violation. A validation failure
// carries every violation found, not just the first.
type Violation struct {
	// Subject identifies what the violation is about: a node id, a
	// connection rendered as "from->to", or a document key.
	Subject string `json:"subject"`
	// Field is the offending parameter or attribute, if any.
	Field string `json:"field,omitempty"`
	// Message describes the violation.
	Message string `json:"message"`
}

// String renders the violation as a single report line.
func (v Violation) String() string {
	if v.Field != "" {
		return fmt.Sprintf("%s: %s: %s", v.Subject, v.Field, v.Message)
	}
	return fmt.Sprintf("%s: %s", v.Subject, v.Message)
}

// AppError is the unified audiokit error type.
type AppError struct {
	// Kind classifies the error.
	Kind Kind `json:"kind"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Violations holds the aggregated findings for validation errors.
	Violations []Violation `json:"violations,omitempty"`
	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// --- Constructors ---

// ConfigValidation aggregates document violations into a single error.
// If any violation reports a cycle, CycleDetected should be used instead;
// the loader handles that promotion.
func ConfigValidation(violations []Violation) *AppError {
	lines := make([]string, len(violations))
	for i, v := range violations {
		lines[i] = v.String()
	}
	return &AppError{
		Kind:       KindConfigValidation,
		Message:    fmt.Sprintf("pipeline configuration invalid: %s", strings.Join(lines, "; ")),
		Violations: violations,
	}
}

// CycleDetected creates an error for a cyclic connection graph. The full
// violation list (which may include non-cycle findings from the same load)
// is preserved.
func CycleDetected(detail string, violations []Violation) *AppError {
	return &AppError{
		Kind:       KindCycleDetected,
		Message:    detail,
		Violations: violations,
	}
}

// CapabilityUnavailable creates an error for a node type that cannot run
// locally while remote execution is disabled.
func CapabilityUnavailable(nodeType, reason string) *AppError {
	return &AppError{
		Kind:    KindCapabilityUnavailable,
		Message: fmt.Sprintf("node type %q cannot run locally and remote execution is disabled", nodeType),
		Details: map[string]any{"node_type": nodeType, "reason": reason},
	}
}

// LocalExecution creates an error for a failed local model run.
func LocalExecution(nodeID string, cause error) *AppError {
	return &AppError{
		Kind:    KindLocalExecution,
		Message: fmt.Sprintf("local execution failed for node %q", nodeID),
		Details: map[string]any{"node_id": nodeID},
		Cause:   cause,
	}
}

// RemoteTransport creates an error for a network or auth failure reaching
// the remote service.
func RemoteTransport(message string, cause error) *AppError {
	return &AppError{
		Kind:    KindRemoteTransport,
		Message: message,
		Cause:   cause,
	}
}

// RemoteService creates an error for a remote-side processing failure.
func RemoteService(operation, message string) *AppError {
	return &AppError{
		Kind:    KindRemoteService,
		Message: message,
		Details: map[string]any{"operation": operation},
	}
}

// Timeout creates an error for an execution path that exceeded its deadline.
func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("operation %q timed out", operation),
		Details: map[string]any{"operation": operation},
		Cause:   cause,
	}
}
