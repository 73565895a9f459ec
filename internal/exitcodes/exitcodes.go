// Package exitcodes defines the process exit codes of xtest.
package exitcodes

const (
	Success     = 0 // All tests passed or were skipped
	TestFailure = 1 // At least one test failed or aborted
	RuntimeErr  = 2 // Configuration, storage or other runtime errors
)
