package cli

import "xtest/internal/config"

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
	EnvFile      string
	TestCases    bool
	Stats        bool
	FromDB       bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Verbose:      f.Verbose,
		Cutback:      f.Cutback,
		DryRun:       f.DryRun,
		Repeat:       f.Repeat,
		NameFilter:   f.NameFilter,
		NoProgress:   f.NoProgress,
		OpenFailures: f.OpenFailures,
		LogLevel:     f.LogLevel,
		TestCases:    f.TestCases,
		Stats:        f.Stats,
		FromDB:       f.FromDB,
	}
}
