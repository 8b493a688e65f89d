// Package suity provides public constants for external tools integrating with suity.
package suity

// Exit codes returned by the suity CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a runtime or I/O failure, or failing tests when
	// --fail-on-failure was given.
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid config, bad flags, etc.).
	ExitConfigError = 2

	// ExitProtocolError indicates captured harness output that could not be
	// decoded or that held more than one test run.
	ExitProtocolError = 3
)
