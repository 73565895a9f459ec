package domain

import (
	"time"

	"xtest/internal/outcome"
)

// TestResult is the terminal record of one executed test case
type TestResult struct {
	Name        string         `json:"name"`
	Suite       string         `json:"suite,omitempty"`
	Status      outcome.Status `json:"status"`
	Message     string         `json:"message,omitempty"`     // Failure message, skip or abort reason
	Diagnostics []string       `json:"diagnostics,omitempty"` // Double reports, extra expectations, teardown errors
	Notes       []string       `json:"notes,omitempty"`
	Stack       string         `json:"stack,omitempty"` // Set when the body panicked
	Iterations  int            `json:"iterations"`
	Duration    time.Duration  `json:"duration"`
}

// Passed reports whether the result counts as a pass
func (r TestResult) Passed() bool {
	return r.Status == outcome.Pass
}

// Stats are counts derived from a result log
type Stats struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
	Aborted int `json:"aborted"`
}

// ComputeStats counts results by status
func ComputeStats(results []TestResult) Stats {
	var stats Stats
	for _, r := range results {
		stats.Total++
		switch r.Status {
		case outcome.Pass:
			stats.Passed++
		case outcome.Fail:
			stats.Failed++
		case outcome.Skip:
			stats.Skipped++
		case outcome.Abort:
			stats.Aborted++
		}
	}
	return stats
}

// AllPassed reports whether nothing failed or aborted. Skips do not count against a run.
func (s Stats) AllPassed() bool {
	return s.Failed == 0 && s.Aborted == 0
}

// RunMeta contains metadata about a run
type RunMeta struct {
	Stats
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Repeat          int     `json:"repeat"`
	AllPassed       bool    `json:"all_passed"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is the persisted form of a run
type RunOutput struct {
	Meta    RunMeta   `json:"meta"`
	Details []Failure `json:"details"`
}
