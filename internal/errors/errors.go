// Package errors provides structured error types and exit codes for suity.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/AndreyAkinshin/suity/internal/events"
	"github.com/AndreyAkinshin/suity/internal/junit"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess       = 0 // Success
	ExitRuntimeError  = 1 // Runtime or I/O error, or failing tests with --fail-on-failure
	ExitConfigError   = 2 // Configuration error (invalid config, bad flags, etc.)
	ExitProtocolError = 3 // Harness output could not be decoded or held multiple runs
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindProtocol
	KindIO
)

// SuityError is the base error type for suity.
type SuityError struct {
	Kind     ErrorKind
	Message  string
	Workflow string // Workflow name if applicable
	Run      string // Run label if applicable
	Cause    error  // Underlying error
}

func (e *SuityError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Workflow != "" && e.Run != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Workflow, e.Run, msg)
	}
	if e.Workflow != "" {
		return fmt.Sprintf("[%s] %s", e.Workflow, msg)
	}
	return msg
}

func (e *SuityError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *SuityError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindProtocol:
		return ExitProtocolError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *SuityError {
	return &SuityError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Config creates a new configuration error.
func Config(message string) *SuityError {
	return &SuityError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *SuityError {
	return Config(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *SuityError {
	return &SuityError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *SuityError {
	return &SuityError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// RunError classifies a failure that occurred while processing one run of a workflow.
// Decode and multiple-run violations become protocol errors, sink failures I/O errors.
func RunError(workflow, run string, err error) *SuityError {
	kind := KindRuntime
	var decodeErr *events.DecodeError
	var writeErr *junit.WriteError
	switch {
	case stderrors.As(err, &decodeErr), stderrors.Is(err, junit.ErrMultipleTestRuns):
		kind = KindProtocol
	case stderrors.As(err, &writeErr):
		kind = KindIO
	}

	message := "failed to process run"
	if kind == KindIO {
		message = "failed to write report"
	}
	return &SuityError{
		Kind:     kind,
		Message:  message,
		Workflow: workflow,
		Run:      run,
		Cause:    err,
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var se *SuityError
	if stderrors.As(err, &se) {
		return se.ExitCode()
	}
	return ExitRuntimeError
}
