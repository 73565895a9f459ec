package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"xtest/internal/config"
	"xtest/internal/domain"
	"xtest/internal/execution"
	"xtest/internal/outcome"
)

// Mode selects how much the console prints
type Mode int

const (
	Normal Mode = iota
	Verbose
	Cutback
)

// ModeFromConfig picks the mode matching the config flags
func ModeFromConfig(cfg *config.Config) Mode {
	switch {
	case cfg.Verbose:
		return Verbose
	case cfg.Cutback:
		return Cutback
	default:
		return Normal
	}
}

var _ execution.Observer = (*Console)(nil)

// Console prints live progress and the final report
type Console struct {
	out  io.Writer
	mode Mode

	banner  *color.Color
	info    *color.Color
	pass    *color.Color
	fail    *color.Color
	skip    *color.Color
	summary *color.Color
}

// NewConsole creates a Console writing to out
func NewConsole(out io.Writer, mode Mode) *Console {
	return &Console{
		out:     out,
		mode:    mode,
		banner:  color.New(color.FgBlue),
		info:    color.New(color.FgCyan),
		pass:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		skip:    color.New(color.FgYellow),
		summary: color.New(color.FgMagenta),
	}
}

// GroupStarted prints the group header
func (c *Console) GroupStarted(g execution.Group) {
	if c.mode == Cutback || g.Size == 0 {
		return
	}
	name := g.Suite
	if name == "" {
		name = "default"
	}
	c.banner.Fprintf(c.out, "[ suite: %s | fixture: %s | tests: %d ]\n", name, g.Fixture, g.Size)
}

// TestStarted prints the test header
func (c *Console) TestStarted(tc domain.TestCase, index int) {
	switch c.mode {
	case Verbose:
		c.banner.Fprintln(c.out, "[Running Test Case] ...")
		c.info.Fprintf(c.out, "TITLE: - %s\n", tc.Name)
		c.info.Fprintf(c.out, "INDEX: - %02d\n", index+1)
	case Normal:
		c.banner.Fprintf(c.out, "> name: - %s\n", tc.Name)
	}
}

// TestFinished prints the outcome of a test
func (c *Console) TestFinished(result domain.TestResult, index int) {
	col := c.colorFor(result.Status)
	switch c.mode {
	case Cutback:
		col.Fprintf(c.out, "[%s]", result.Status.Label()[:1])
	case Verbose:
		col.Fprintf(c.out, "STATUS: - %s\n", result.Status.Label())
		if result.Message != "" {
			col.Fprintf(c.out, "REASON: - %s\n", result.Message)
		}
		c.info.Fprintf(c.out, "TIME  : - %s\n", formatDuration(result.Duration))
		c.info.Fprintf(c.out, "ITERS : - %d\n", result.Iterations)
		for _, note := range result.Notes {
			c.info.Fprintf(c.out, "NOTE  : - %s\n", note)
		}
		for _, d := range result.Diagnostics {
			c.skip.Fprintf(c.out, "WARN  : - %s\n", d)
		}
		c.banner.Fprintln(c.out, "[Current Case Done] ...")
	default:
		if result.Message == "" {
			col.Fprintf(c.out, "  %s\n", result.Status.Label())
		} else {
			col.Fprintf(c.out, "  %s: %s\n", result.Status.Label(), result.Message)
		}
	}
}

// GroupFinished ends the cutback marker line
func (c *Console) GroupFinished(g execution.Group, results []domain.TestResult, elapsed time.Duration) {
	if c.mode == Cutback && len(results) > 0 {
		fmt.Fprintln(c.out)
	}
}

// PrintReport prints the final report for results
func (c *Console) PrintReport(results []domain.TestResult, elapsed time.Duration) {
	stats := domain.ComputeStats(results)

	if c.mode == Cutback {
		verdict := "pass"
		if !stats.AllPassed() {
			verdict = "fail"
		}
		c.summary.Fprintf(c.out, "result: %s\n", verdict)
		return
	}

	fmt.Fprintln(c.out)
	c.banner.Fprintf(c.out, "[ ===== Xtest report system ===== ] %s\n", formatDuration(elapsed))
	fmt.Fprintln(c.out, "===================================")
	if c.mode == Verbose {
		c.printTable(results, stats, elapsed)
	} else {
		c.summary.Fprintf(c.out, "pass: %02d, fail: %02d, skip: %02d, abort: %02d, total: %02d\n",
			stats.Passed, stats.Failed, stats.Skipped, stats.Aborted, stats.Total)
	}
	fmt.Fprintln(c.out, "===================================")

	for _, r := range results {
		if r.Passed() {
			continue
		}
		c.colorFor(r.Status).Fprintf(c.out, "✗ [%s] %s: %q\n", r.Status.Label(), qualifiedName(r), r.Message)
	}
	for _, r := range results {
		for _, d := range r.Diagnostics {
			c.skip.Fprintf(c.out, "! [WARN] %s: %s\n", qualifiedName(r), d)
		}
	}
	if stats.AllPassed() {
		c.pass.Fprintln(c.out, "✓ All tests passed!")
	}
}

func (c *Console) printTable(results []domain.TestResult, stats domain.Stats, elapsed time.Duration) {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.SetTitle(fmt.Sprintf("Test Results (%s)", formatDuration(elapsed)))
	t.AppendHeader(table.Row{"#", "Suite", "Test", "Status", "Iterations", "Duration", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Suite", AutoMerge: true},
		{Name: "Iterations", Align: text.AlignRight},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Message", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})
	for i, r := range results {
		t.AppendRow(table.Row{i + 1, r.Suite, r.Name, r.Status.Label(), r.Iterations, formatDuration(r.Duration), r.Message})
	}
	t.AppendFooter(table.Row{"", "TOTAL", stats.Total,
		fmt.Sprintf("%d passed / %d failed / %d skipped / %d aborted", stats.Passed, stats.Failed, stats.Skipped, stats.Aborted),
		"", formatDuration(elapsed), ""})

	switch {
	case color.NoColor:
		t.SetStyle(table.StyleLight)
	case stats.AllPassed():
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}
	t.Render()
}

func (c *Console) colorFor(status outcome.Status) *color.Color {
	switch status {
	case outcome.Pass:
		return c.pass
	case outcome.Skip:
		return c.skip
	default:
		return c.fail
	}
}

func formatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	millis := int((d % time.Second) / time.Millisecond)
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds %dms", minutes, seconds, millis)
	}
	if seconds > 0 {
		return fmt.Sprintf("%ds %dms", seconds, millis)
	}
	return fmt.Sprintf("%dms", millis)
}
