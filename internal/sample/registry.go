package sample

import (
	"io"
	"sort"

	"xtest/internal/domain"
)

// Suites maps suite names to their constructors
var Suites = map[string]func(out io.Writer) domain.Suite{
	"basic": func(out io.Writer) domain.Suite {
		return Basic(&SomeData{SomeData: 1, SomeOtherData: "basic"}, out)
	},
	"isolation": Isolation,
}

// DefaultSuites are run when no suite is named
var DefaultSuites = []string{"basic"}

// Lookup returns the suite registered under name
func Lookup(name string, out io.Writer) (domain.Suite, bool) {
	build, ok := Suites[name]
	if !ok {
		return domain.Suite{}, false
	}
	return build(out), true
}

// Names returns the registered suite names in sorted order
func Names() []string {
	names := make([]string, 0, len(Suites))
	for name := range Suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
