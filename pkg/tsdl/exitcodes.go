// Package tsdl provides public constants for external tools integrating with
// tsdl.
package tsdl

// Exit codes returned by the tsdl CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every requested parser was built.
	ExitSuccess = 0

	// ExitFailure indicates that at least one language failed to build.
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid config file, bad flag, etc.).
	ExitConfigError = 2

	// ExitEnvError indicates that the tree-sitter CLI could not be provisioned.
	ExitEnvError = 3
)
