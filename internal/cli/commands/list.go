package commands

import (
	"errors"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"xtest/internal/config"
	"xtest/internal/discovery"
	"xtest/internal/sample"
	"xtest/internal/storage"
	"xtest/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config  *config.Config
	filter  *discovery.Filter
	storage storage.Storage
	log     log.Logger
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, filter *discovery.Filter, st storage.Storage) *ListCommand {
	return &ListCommand{
		config:  cfg,
		filter:  filter,
		storage: st,
		log:     log.NewLogger(log.DiscardHandler()),
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		args = sample.Names()
	}
	suites, err := selectSuites(args, lc.config.Flags.NameFilter, lc.filter, out)
	if err != nil {
		return err
	}
	if len(suites) == 0 {
		color.New(color.FgYellow).Fprintln(out, "No tests found")
		return nil
	}

	// Mark tests from the last run; listing still works without one
	last, err := lc.storage.Load()
	if err != nil && !errors.Is(err, storage.ErrNoRuns) {
		lc.log.Warn("Could not load the last run", "err", err)
	}
	ui.NewFormatter(out).PrintSuiteTree(suites, lc.config.Flags.TestCases, ui.FailedSet(last))
	return nil
}
