package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTsdlError_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *TsdlError
		expected string
	}{
		{"message only", &TsdlError{Message: "something failed"}, "something failed"},
		{"with cause", Wrap(errors.New("permission denied"), "could not create the build directory"), "could not create the build directory: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestWrap_Unwrap(t *testing.T) {
	t.Parallel()
	cause := &ConfigError{Path: "parsers.toml"}
	err := Wrap(cause, "loading")

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
	if got := (&TsdlError{Message: "no cause"}).Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
	// The wrapped ConfigError still decides the exit code.
	if got := GetExitCode(err); got != ExitConfigError {
		t.Errorf("GetExitCode() = %d, want %d", got, ExitConfigError)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"runtime", Wrap(errors.New("boom"), "runtime"), ExitRuntimeError},
		{"config file", &ConfigError{Path: "parsers.toml", Cause: errors.New("bad")}, ExitConfigError},
		{"wrapped config file", fmt.Errorf("loading: %w", &ConfigError{Path: "x"}), ExitConfigError},
		{"toolchain", &ToolchainError{Version: "0.22.6", Message: "download"}, ExitEnvironmentError},
		{"aggregate", NewAggregate("could not build all parsers", []*LanguageError{{Name: "json"}}), ExitRuntimeError},
		{"generic error", errors.New("generic"), ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.expected {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitRuntimeError != 1 {
		t.Errorf("ExitRuntimeError = %d, want 1", ExitRuntimeError)
	}
	if ExitConfigError != 2 {
		t.Errorf("ExitConfigError = %d, want 2", ExitConfigError)
	}
	if ExitEnvironmentError != 3 {
		t.Errorf("ExitEnvironmentError = %d, want 3", ExitEnvironmentError)
	}
}
