package domain

import (
	"xtest/internal/fixture"
	"xtest/internal/outcome"
)

// Body is the executable part of a test case
type Body func(s *outcome.Signal)

// TestCase is a named unit of test logic
type TestCase struct {
	Name string // Unique name within a runner
	Body Body
}

// Suite groups test cases that share one fixture
type Suite struct {
	Name    string
	Fixture fixture.Fixture // nil means no fixture
	Cases   []TestCase
}

// CaseNames returns the names of the suite's cases in order
func (s Suite) CaseNames() []string {
	names := make([]string, 0, len(s.Cases))
	for _, tc := range s.Cases {
		names = append(names, tc.Name)
	}
	return names
}
