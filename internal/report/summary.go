// Package report renders the result log of a run.
package report

import (
	"fmt"
	"strings"

	"xtest/internal/domain"
)

// Summary returns a deterministic plain-text summary of results: the counts,
// every non-pass result with its message, then every diagnostic.
func Summary(results []domain.TestResult) string {
	stats := domain.ComputeStats(results)

	var b strings.Builder
	fmt.Fprintf(&b, "total: %d, passed: %d, failed: %d, skipped: %d, aborted: %d\n",
		stats.Total, stats.Passed, stats.Failed, stats.Skipped, stats.Aborted)
	for _, r := range results {
		if r.Passed() {
			continue
		}
		fmt.Fprintf(&b, "  [%s] %s: %q\n", r.Status.Label(), qualifiedName(r), r.Message)
	}
	for _, r := range results {
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "  [WARN] %s: %s\n", qualifiedName(r), d)
		}
	}
	return b.String()
}

// AllPassed reports whether no result failed or aborted
func AllPassed(results []domain.TestResult) bool {
	return domain.ComputeStats(results).AllPassed()
}

func qualifiedName(r domain.TestResult) string {
	if r.Suite == "" {
		return r.Name
	}
	return r.Suite + "/" + r.Name
}
