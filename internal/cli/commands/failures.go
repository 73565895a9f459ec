package commands

import (
	"errors"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"xtest/internal/config"
	"xtest/internal/storage"
	"xtest/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config  *config.Config
	storage storage.Storage
	log     log.Logger
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config, st storage.Storage) *FailuresCommand {
	return &FailuresCommand{
		config:  cfg,
		storage: st,
		log:     log.NewLogger(log.DiscardHandler()),
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	flags := fc.config.Flags
	if flags.FromDB && !flags.Stats {
		return errors.New("--db can only be used with --stats")
	}

	if !flags.Stats {
		err := ui.NewFailureViewer(fc.storage, out).View()
		if errors.Is(err, storage.ErrNoRuns) {
			color.New(color.FgYellow).Fprintln(out, "No saved runs, use 'xtest run' first")
			return nil
		}
		return err
	}

	st := fc.storage
	if flags.FromDB {
		if fc.config.ResultsDSN == "" {
			return errors.New("--db needs " + config.EnvResultsDSN + " to be set")
		}
		db, err := storage.NewMySQLStorage(fc.config, fc.log)
		if err != nil {
			return err
		}
		defer db.Close()
		st = db
	}

	output, err := st.Load()
	if errors.Is(err, storage.ErrNoRuns) {
		color.New(color.FgYellow).Fprintln(out, "No saved runs, use 'xtest run' first")
		return nil
	}
	if err != nil {
		return err
	}
	ui.NewFormatter(out).PrintMetaStats(output)
	return nil
}
