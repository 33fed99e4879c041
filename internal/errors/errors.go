// Package errors provides structured error types and exit codes for tsdl.
package errors

import (
	stderrors "errors"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (a parser failed to build, etc.)
	ExitConfigError      = 2 // Configuration error (invalid config file, bad flag, etc.)
	ExitEnvironmentError = 3 // Environment error (toolchain could not be provisioned, etc.)
)

// TsdlError adds context to a failure outside the build pipeline, such as
// preparing directories. It always maps to ExitRuntimeError.
type TsdlError struct {
	Message string
	Cause   error
}

func (e *TsdlError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *TsdlError) Unwrap() error {
	return e.Cause
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *TsdlError {
	return &TsdlError{Message: message, Cause: err}
}

// exitCoder is implemented by every error type that maps to a specific exit code.
type exitCoder interface {
	ExitCode() int
}

// GetExitCode returns the exit code for an error.
// The outermost error in the chain that knows its exit code wins.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ec exitCoder
	if stderrors.As(err, &ec) {
		return ec.ExitCode()
	}
	return ExitRuntimeError
}
