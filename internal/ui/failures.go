package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"xtest/internal/domain"
	"xtest/internal/outcome"
	"xtest/internal/storage"
)

const maxStackLines = 10

// FailureViewer displays the failures of a saved run in an interactive TUI
type FailureViewer struct {
	storage storage.Storage
	out     io.Writer
}

// NewFailureViewer creates a new FailureViewer
func NewFailureViewer(st storage.Storage, out io.Writer) *FailureViewer {
	return &FailureViewer{storage: st, out: out}
}

// failureList is the viewer state; toggling a failure saves the whole run back
type failureList struct {
	output *domain.RunOutput
	store  storage.Storage
}

func (l *failureList) toggle(index int) error {
	if index < 0 || index >= len(l.output.Details) {
		return nil
	}
	l.output.Details[index].Resolved = !l.output.Details[index].Resolved
	if err := l.store.Save(l.output); err != nil {
		return fmt.Errorf("save resolved status: %w", err)
	}
	return nil
}

func (l *failureList) unresolved() int {
	count := 0
	for _, f := range l.output.Details {
		if !f.Resolved {
			count++
		}
	}
	return count
}

func (l *failureList) header() string {
	return fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
		len(l.output.Details), l.unresolved())
}

// View loads the last run and shows its failures
func (v *FailureViewer) View() error {
	output, err := v.storage.Load()
	if err != nil {
		return fmt.Errorf("load last run: %w", err)
	}
	if len(output.Details) == 0 {
		color.New(color.FgGreen).Fprintln(v.out, "✓ No test failures found!")
		return nil
	}
	return v.run(&failureList{output: output, store: v.storage})
}

func (v *FailureViewer) run(state *failureList) error {
	details := state.output.Details
	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i := range details {
		list.AddItem(listItemText(details[i], i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)
	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)
	statusView := tview.NewTextView().
		SetDynamicColors(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)
	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(details) {
			statsView.SetText(formatFailureStats(details[index], index+1))
			detailsView.SetText(formatFailureDetails(details[index]))
		}
	}
	headerView.SetText(state.header())
	updateDetails()

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if err := state.toggle(index); err != nil {
					statusView.SetText("[red]" + tview.Escape(err.Error()))
				} else {
					statusView.SetText("")
				}
				list.SetItemText(index, listItemText(details[index], index), "")
				headerView.SetText(state.header())
				updateDetails()
				return nil
			}
		}
		return event
	})
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})
	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(statusView, 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func failureName(f domain.Failure, index int) string {
	name := f.TestName
	if name == "" {
		name = fmt.Sprintf("Test %d", index+1)
	}
	if f.Suite != "" {
		name = f.Suite + "/" + name
	}
	return tview.Escape(name)
}

func listItemText(f domain.Failure, index int) string {
	if f.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, failureName(f, index))
	}
	return fmt.Sprintf("[yellow]%d.[white] %s %s", index+1, statusTag(f), failureName(f, index))
}

func statusTag(f domain.Failure) string {
	tag := "red"
	switch f.Status {
	case outcome.Pass:
		tag = "green"
	case outcome.Skip:
		tag = "yellow"
	}
	return fmt.Sprintf("[%s]%s[white]", tag, f.Status.Label())
}

// formatFailureDetails formats a failure for display using tview color tags
func formatFailureDetails(f domain.Failure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ Test: %s[white]\n", tview.Escape(f.TestName))
	if f.Suite != "" {
		fmt.Fprintf(&b, "[cyan]Suite: %s[white]\n", tview.Escape(f.Suite))
	}
	fmt.Fprintf(&b, "[cyan]Status: %s[white]\n\n", f.Status.Label())

	if f.Message != "" {
		fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n\n", tview.Escape(f.Message))
	}
	if len(f.Diagnostics) > 0 {
		fmt.Fprintf(&b, "[yellow]Diagnostics:[white]\n")
		for _, d := range f.Diagnostics {
			fmt.Fprintf(&b, "  %s\n", tview.Escape(d))
		}
		b.WriteString("\n")
	}
	if len(f.StackTrace) > 0 {
		fmt.Fprintf(&b, "[yellow]Stack Trace:[white]\n")
		for i, line := range f.StackTrace {
			if i == maxStackLines {
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
		}
		if len(f.StackTrace) > maxStackLines {
			fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(f.StackTrace)-maxStackLines)
		}
	}
	return b.String()
}

// formatFailureStats formats the header line above the failure details
func formatFailureStats(f domain.Failure, number int) string {
	suite := f.Suite
	if suite == "" {
		suite = "default"
	}
	name := f.TestName
	if name == "" {
		name = fmt.Sprintf("Test %d", number)
	}
	state := "[red]unresolved[white]"
	if f.Resolved {
		state = "[green]resolved[white]"
	}
	return fmt.Sprintf("[cyan]suite:[white] [yellow]%s[white]::[yellow]%s[white] (%s)\n",
		tview.Escape(suite), tview.Escape(name), state)
}
