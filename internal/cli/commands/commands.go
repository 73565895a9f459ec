// Package commands wires the xtest subcommands to the runner, reporters and storage.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"

	"xtest/internal/cli"
	"xtest/internal/config"
	"xtest/internal/discovery"
	"xtest/internal/domain"
	"xtest/internal/exitcodes"
	"xtest/internal/sample"
	"xtest/internal/storage"
)

// ErrTestsFailed is returned by run when a test failed or aborted
var ErrTestsFailed = errors.New("tests failed")

// ExitCode maps a command error to the process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitcodes.Success
	case errors.Is(err, ErrTestsFailed):
		return exitcodes.TestFailure
	default:
		return exitcodes.RuntimeErr
	}
}

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands with dependencies. cfg is filled in place
// once flags and the environment are parsed.
func NewCommands(cfg *config.Config) *Commands {
	filter := discovery.NewFilter()
	jsonStorage := storage.NewJSONStorage(cfg)

	return &Commands{
		Run:      NewRunCommand(cfg, filter, jsonStorage),
		List:     NewListCommand(cfg, filter, jsonStorage),
		Failures: NewFailuresCommand(cfg, jsonStorage),
	}
}

// SetLogger hands logger to every command
func (c *Commands) SetLogger(logger log.Logger) {
	c.Run.log = logger
	c.List.log = logger
	c.Failures.log = logger
}

// NewRootCommand builds the xtest command tree
func NewRootCommand(version string) *cobra.Command {
	cfg := config.New()
	var flags cli.Flags
	cmds := NewCommands(cfg)

	rootCmd := &cobra.Command{
		Use:           "xtest",
		Short:         "Run registered test suites in isolation",
		Long:          `xtest runs named test cases one after another around shared fixtures. A failing, panicking or aborting case never stops the cases after it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnv(flags.EnvFile); err != nil {
				return err
			}
			loaded, err := config.Load(flags.ToConfigFlags())
			if err != nil {
				return err
			}
			*cfg = *loaded
			logger, err := cli.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			cmds.SetLogger(logger)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error, crit)")
	rootCmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", config.DefaultEnvFile, "Path of the .env file to load")

	cmds.Register(rootCmd, &flags)
	return rootCmd
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags) {
	runCmd := &cobra.Command{
		Use:   "run [suite...]",
		Short: "Run test suites",
		Long:  fmt.Sprintf("Run the named suites (default: %s) and save the results for the failures viewer", strings.Join(sample.DefaultSuites, ", ")),
		RunE:  c.Run.Execute,
	}
	runCmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Print a block per test case and a results table")
	runCmd.Flags().BoolVar(&flags.Cutback, "cutback", false, "Print one marker per test case and a single verdict line")
	runCmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Report every selected test as skipped without running it")
	runCmd.Flags().IntVarP(&flags.Repeat, "repeat", "r", 0, fmt.Sprintf("Run each test up to N times, stopping at its first non-pass (%d-%d)", config.MinRepeat, config.MaxRepeat))
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., '*_case' or '*fail*')")
	runCmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Do not show the progress bar")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:   "list [suite...]",
		Short: "List registered suites",
		Long:  "List the registered suites, marking tests that failed in the last run",
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter tests by name pattern (supports wildcards, e.g., '*_case' or '*fail*')")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test cases under each suite")
	rootCmd.AddCommand(listCmd)

	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View test failures interactively",
		Long:  "Display test failures from the last test run in an interactive viewer",
		RunE:  c.Failures.Execute,
	}
	failuresCmd.Flags().BoolVarP(&flags.Stats, "stats", "s", false, "Print the statistics of the last run instead of opening the viewer")
	failuresCmd.Flags().BoolVar(&flags.FromDB, "db", false, "With --stats, read the last run from the results database")
	rootCmd.AddCommand(failuresCmd)
}

// selectSuites builds the named suites, or the default ones, and applies the name filter.
// Suites left without cases are dropped.
func selectSuites(names []string, pattern string, filter *discovery.Filter, out io.Writer) ([]domain.Suite, error) {
	var suites []domain.Suite
	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		s, ok := sample.Lookup(name, out)
		if !ok {
			return nil, fmt.Errorf("unknown suite %q (available: %s)", name, strings.Join(sample.Names(), ", "))
		}
		s = filter.FilterSuite(s, pattern)
		if len(s.Cases) == 0 {
			continue
		}
		suites = append(suites, s)
	}
	return suites, nil
}

// openStorage returns the JSON store plus the MySQL one when a results DSN is configured
func openStorage(cfg *config.Config, jsonStorage storage.Storage, logger log.Logger) (storage.Storage, func(), error) {
	if cfg.ResultsDSN == "" {
		return jsonStorage, func() {}, nil
	}
	db, err := storage.NewMySQLStorage(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Warn("Failed to close results database", "err", err)
		}
	}
	return storage.Multi{jsonStorage, db}, closeFn, nil
}
