package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Optional MySQL results sink
	ResultsDSN   string
	ResultsTable string

	// Execution settings
	Repeat int
	DryRun bool

	// Report settings
	Verbose bool
	Cutback bool

	LogLevel string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Verbose      bool
	Cutback      bool
	DryRun       bool
	Repeat       int
	NameFilter   string
	NoProgress   bool
	OpenFailures bool
	LogLevel     string
	TestCases    bool
	Stats        bool
	FromDB       bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		ResultsTable:   DefaultResultsTable,
		Repeat:         DefaultRepeat,
		LogLevel:       DefaultLogLevel,
	}
}

// LoadEnv loads a .env file into the process environment. A missing file is not an error.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load creates a config from defaults, the environment and flags, in that order
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from XTEST_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvRepeat); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRepeat, err)
		}
		c.Repeat = n
	}
	for name, dst := range map[string]*bool{EnvVerbose: &c.Verbose, EnvCutback: &c.Cutback} {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = b
		}
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputJSONDir = v
	}
	if v := os.Getenv(EnvResultsDSN); v != "" {
		c.ResultsDSN = v
	}
	if v := os.Getenv(EnvResultsTable); v != "" {
		c.ResultsTable = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	return nil
}

// ApplyFlags overrides settings with explicitly set flags
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Repeat > 0 {
		c.Repeat = flags.Repeat
	}
	if flags.Verbose {
		c.Verbose = true
		c.Cutback = false
	}
	if flags.Cutback {
		c.Cutback = true
		c.Verbose = flags.Verbose
	}
	if flags.DryRun {
		c.DryRun = true
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// Validate checks option ranges and conflicts
func (c *Config) Validate() error {
	if c.Repeat < MinRepeat || c.Repeat > MaxRepeat {
		return fmt.Errorf("repeat value must be between %d and %d, got %d", MinRepeat, MaxRepeat, c.Repeat)
	}
	if c.Verbose && c.Cutback {
		return errors.New("verbose and cutback modes are mutually exclusive")
	}
	return nil
}

// GetOutputPath returns the absolute path of the last-run JSON file
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
