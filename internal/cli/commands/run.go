package commands

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"xtest/internal/cli"
	"xtest/internal/config"
	"xtest/internal/discovery"
	"xtest/internal/execution"
	"xtest/internal/report"
	"xtest/internal/sample"
	"xtest/internal/storage"
	"xtest/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config  *config.Config
	filter  *discovery.Filter
	storage storage.Storage
	log     log.Logger
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, filter *discovery.Filter, st storage.Storage) *RunCommand {
	return &RunCommand{
		config:  cfg,
		filter:  filter,
		storage: st,
		log:     log.NewLogger(log.DiscardHandler()),
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		args = sample.DefaultSuites
	}
	mode := report.ModeFromConfig(rc.config)
	// cutback keeps one marker line per group, so fixture chatter is dropped
	fixtureOut := out
	if mode == report.Cutback {
		fixtureOut = io.Discard
	}
	suites, err := selectSuites(args, rc.config.Flags.NameFilter, rc.filter, fixtureOut)
	if err != nil {
		return err
	}

	total := 0
	for _, s := range suites {
		total += len(s.Cases)
	}
	if total == 0 {
		color.New(color.FgYellow).Fprintln(out, "No tests to execute")
		return nil
	}

	st, closeStorage, err := openStorage(rc.config, rc.storage, rc.log)
	if err != nil {
		return err
	}
	defer closeStorage()

	console := report.NewConsole(out, mode)
	runner := execution.NewRunner(rc.config, rc.log)
	runner.AddObserver(console)

	var progress *ui.ProgressBar
	if mode == report.Normal && !rc.config.Flags.NoProgress && cli.IsTerminal(cmd.ErrOrStderr()) {
		progress = ui.NewProgressBar(cmd.ErrOrStderr(), total)
		runner.AddObserver(progress)
	}

	for _, s := range suites {
		if _, err := runner.RunSuite(s); err != nil {
			return err
		}
	}
	if progress != nil {
		progress.Finish()
	}

	results := runner.Results()
	console.PrintReport(results, runner.Elapsed())

	output := storage.BuildOutput(results, runner.Elapsed(), rc.config.Repeat)
	if err := st.Save(output); err != nil {
		return fmt.Errorf("failed to save test results: %w", err)
	}
	rc.log.Info("Saved results", "path", rc.config.GetOutputPath(), "failures", len(output.Details))

	if output.Meta.AllPassed {
		return nil
	}
	if rc.config.Flags.OpenFailures {
		if err := ui.NewFailureViewer(rc.storage, out).View(); err != nil {
			rc.log.Warn("Failures viewer exited with an error", "err", err)
		}
	}
	return ErrTestsFailed
}
