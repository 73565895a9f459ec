package domain

import (
	"strings"

	"xtest/internal/outcome"
)

// Failure is a non-pass result kept for the failures viewer
type Failure struct {
	TestName    string         `json:"test_name"`
	Suite       string         `json:"suite,omitempty"`
	Status      outcome.Status `json:"status"`
	Message     string         `json:"message"`
	Diagnostics []string       `json:"diagnostics,omitempty"`
	StackTrace  []string       `json:"stack_trace,omitempty"`
	Resolved    bool           `json:"resolved,omitempty"` // Track if the failure is marked as resolved
}

// Failures returns a Failure for every result that did not pass, in order.
// Passing results that carry diagnostics are included as well.
func Failures(results []TestResult) []Failure {
	var failures []Failure
	for _, r := range results {
		if r.Passed() && len(r.Diagnostics) == 0 {
			continue
		}
		failures = append(failures, Failure{
			TestName:    r.Name,
			Suite:       r.Suite,
			Status:      r.Status,
			Message:     r.Message,
			Diagnostics: r.Diagnostics,
			StackTrace:  splitLines(r.Stack),
		})
	}
	return failures
}

func splitLines(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '\n' })
}
