package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow error for reporting purposes.
type Kind string

const (
	KindConfiguration Kind = "ConfigurationError"
	KindScan          Kind = "ScanFailure"
	KindRag           Kind = "RagFailure"
	KindTimeout       Kind = "TimeoutExceeded"
	KindFix           Kind = "FixFailure"
)

// WorkflowError wraps an underlying cause with its workflow error kind.
// Fatal kinds terminate a run; the rest are recorded as warnings in the report.
type WorkflowError struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// NewConfigurationError creates a fatal configuration error.
func NewConfigurationError(format string, args ...interface{}) error {
	return &WorkflowError{Kind: KindConfiguration, Err: fmt.Errorf(format, args...)}
}

// NewScanFailure wraps a failed or non-success scan call.
func NewScanFailure(err error) error {
	return &WorkflowError{Kind: KindScan, Err: err}
}

// NewRagFailure wraps a failed or timed out RAG call. It is recoverable:
// the run proceeds without enrichment.
func NewRagFailure(err error) error {
	return &WorkflowError{Kind: KindRag, Err: err}
}

// NewTimeoutExceeded wraps an elapsed shared deadline.
func NewTimeoutExceeded(err error) error {
	return &WorkflowError{Kind: KindTimeout, Err: err}
}

// NewFixFailure wraps a per-target fix failure. It does not terminate the run.
func NewFixFailure(err error) error {
	return &WorkflowError{Kind: KindFix, Err: err}
}

// KindOf extracts the workflow error kind, or an empty Kind for plain errors.
func KindOf(err error) Kind {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

// CommandError represents an error that occurred during workflow execution,
// carrying the exit code for the CLI boundary.
type CommandError struct {
	ExitCode    int
	CommonError string
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError instance encapsulating the error message.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
	}
}
