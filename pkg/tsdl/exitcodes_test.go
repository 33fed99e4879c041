package tsdl_test

import (
	"testing"

	"github.com/AndreyAkinshin/tsdl/internal/errors"
	"github.com/AndreyAkinshin/tsdl/pkg/tsdl"
)

// TestExitCodeConsistency verifies that public exit code constants match
// the internal errors package constants.
func TestExitCodeConsistency(t *testing.T) {
	tests := []struct {
		name     string
		public   int
		internal int
		want     int
	}{
		{"Success", tsdl.ExitSuccess, errors.ExitSuccess, 0},
		{"Failure/RuntimeError", tsdl.ExitFailure, errors.ExitRuntimeError, 1},
		{"ConfigError", tsdl.ExitConfigError, errors.ExitConfigError, 2},
		{"EnvError/EnvironmentError", tsdl.ExitEnvError, errors.ExitEnvironmentError, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.public != tt.want {
				t.Errorf("tsdl.Exit%s = %d, want %d", tt.name, tt.public, tt.want)
			}
			if tt.public != tt.internal {
				t.Errorf("exit code mismatch: tsdl constant = %d, errors constant = %d",
					tt.public, tt.internal)
			}
		})
	}
}
