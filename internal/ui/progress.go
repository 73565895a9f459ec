package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"xtest/internal/domain"
	"xtest/internal/execution"
	"xtest/internal/outcome"
)

var _ execution.Observer = (*ProgressBar)(nil)

// ProgressBar shows run progress and is driven by runner events
type ProgressBar struct {
	execution.NopObserver

	bar *progressbar.ProgressBar
	out io.Writer

	passed, failed, skipped int
}

// NewProgressBar creates a new progress bar for count tests writing to out
func NewProgressBar(out io.Writer, count int) *ProgressBar {
	p := &ProgressBar{out: out}
	p.bar = progressbar.NewOptions(count,
		progressbar.OptionSetDescription(p.description()),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return p
}

func (p *ProgressBar) description() string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", p.passed) +
		" | " +
		color.RedString("failed: %d", p.failed) +
		" | " +
		color.YellowString("skipped: %d]", p.skipped)
}

// TestFinished advances the bar and updates the counts
func (p *ProgressBar) TestFinished(result domain.TestResult, index int) {
	switch result.Status {
	case outcome.Pass:
		p.passed++
	case outcome.Skip:
		p.skipped++
	default:
		p.failed++
	}
	p.bar.Describe(p.description())
	_ = p.bar.Add(1)
}

// Counts returns passed, failed (including aborted) and skipped so far
func (p *ProgressBar) Counts() (passed, failed, skipped int) {
	return p.passed, p.failed, p.skipped
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}
