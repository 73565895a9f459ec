// Package ui holds the terminal views: progress bar, suite listing, run
// statistics and the interactive failures viewer.
package ui

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"xtest/internal/domain"
	"xtest/internal/outcome"
)

// Formatter formats and displays listings and saved run statistics
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{out: out}
}

// FailedKey identifies a test across runs
func FailedKey(suite, name string) string {
	return suite + "/" + name
}

// FailedSet returns the keys of the unresolved failures of a saved run
func FailedSet(output *domain.RunOutput) map[string]struct{} {
	set := make(map[string]struct{})
	if output == nil {
		return set
	}
	for _, f := range output.Details {
		if f.Resolved || f.Status == outcome.Pass {
			continue
		}
		set[FailedKey(f.Suite, f.TestName)] = struct{}{}
	}
	return set
}

// PrintSuiteTree prints suites, optionally with their test cases.
// failed is optional; cases in this set are marked with [F] (from last run).
func (f *Formatter) PrintSuiteTree(suites []domain.Suite, showCases bool, failed map[string]struct{}) {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	total := 0
	for _, s := range suites {
		total += len(s.Cases)
	}
	color.New(color.FgGreen).Fprintf(f.out, "Found %d suite(s) with %d test case(s):\n\n", len(suites), total)

	for i, s := range suites {
		isLastSuite := i == len(suites)-1
		branch, indent := "├── ", "│   "
		if isLastSuite {
			branch, indent = "└── ", "    "
		}

		failedCount := 0
		for _, tc := range s.Cases {
			if _, ok := failed[FailedKey(s.Name, tc.Name)]; ok {
				failedCount++
			}
		}
		marker := ""
		if failedCount > 0 {
			marker = " " + red.Sprintf("[F:%d]", failedCount)
		}
		cyan.Fprintf(f.out, "%s%s (%d)%s\n", branch, s.Name, len(s.Cases), marker)

		if !showCases {
			continue
		}
		if len(s.Cases) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", indent, red.Sprint("(no test cases)"))
			continue
		}
		for j, tc := range s.Cases {
			prefix := indent + "├── "
			if j == len(s.Cases)-1 {
				prefix = indent + "└── "
			}
			caseMarker := ""
			if _, ok := failed[FailedKey(s.Name, tc.Name)]; ok {
				caseMarker = " " + red.Sprint("[F]")
			}
			fmt.Fprintf(f.out, "%s%s%s\n", prefix, yellow.Sprint(tc.Name), caseMarker)
		}
	}
}

// PrintMetaStats displays the statistics of a saved run
func (f *Formatter) PrintMetaStats(output *domain.RunOutput) {
	meta := output.Meta

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Test Execution Statistics")
	t.AppendRows([]table.Row{
		{"Total Tests", meta.Total},
		{"Passed", meta.Passed},
		{"Failed", meta.Failed},
		{"Skipped", meta.Skipped},
		{"Aborted", meta.Aborted},
		{"Repeat", meta.Repeat},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Timestamp", meta.Timestamp},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleLight)
	t.Render()

	fmt.Fprintln(f.out)
	if meta.AllPassed {
		color.New(color.FgGreen).Fprintln(f.out, "✓ All tests passed!")
	} else {
		color.New(color.FgRed).Fprintf(f.out, "✗ %d failed, %d aborted\n", meta.Failed, meta.Aborted)
	}
	f.printFailuresBySuite(output.Details)
}

func (f *Formatter) printFailuresBySuite(failures []domain.Failure) {
	if len(failures) == 0 {
		return
	}
	bySuite := make(map[string][]domain.Failure)
	for _, fl := range failures {
		bySuite[fl.Suite] = append(bySuite[fl.Suite], fl)
	}
	suites := make([]string, 0, len(bySuite))
	for s := range bySuite {
		suites = append(suites, s)
	}
	sort.Strings(suites)

	for _, s := range suites {
		name := s
		if name == "" {
			name = "default"
		}
		color.New(color.FgCyan).Fprintln(f.out, name)
		for j, fl := range bySuite[s] {
			prefix := "  ├── "
			if j == len(bySuite[s])-1 {
				prefix = "  └── "
			}
			resolved := ""
			if fl.Resolved {
				resolved = " (resolved)"
			}
			color.New(color.FgRed).Fprintf(f.out, "%s[%s] %s%s\n", prefix, fl.Status.Label(), fl.TestName, resolved)
		}
	}
}
