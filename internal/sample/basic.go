// Package sample holds the built-in suites the CLI can run.
package sample

import (
	"fmt"
	"io"

	"xtest/internal/domain"
	"xtest/internal/fixture"
	"xtest/internal/outcome"
)

// SomeData is the shared state the basic fixture hands to its tests
type SomeData struct {
	SomeData      int
	SomeOtherData string
}

// BasicFixture announces its setup and teardown on Out
type BasicFixture struct {
	Data *SomeData
	Out  io.Writer
}

var (
	_ fixture.Fixture = (*BasicFixture)(nil)
	_ fixture.Namer   = (*BasicFixture)(nil)
)

// NewBasicFixture creates a BasicFixture around data
func NewBasicFixture(data *SomeData, out io.Writer) *BasicFixture {
	if out == nil {
		out = io.Discard
	}
	return &BasicFixture{Data: data, Out: out}
}

func (f *BasicFixture) Name() string { return "BasicFixture" }

func (f *BasicFixture) Setup() error {
	_, err := fmt.Fprintln(f.Out, "Setting up the test fixture")
	return err
}

func (f *BasicFixture) Teardown() error {
	_, err := fmt.Fprintln(f.Out, "Tearing down the test fixture")
	return err
}

// Basic returns a suite with one passing and one failing case
func Basic(data *SomeData, out io.Writer) domain.Suite {
	return domain.Suite{
		Name:    "basic",
		Fixture: NewBasicFixture(data, out),
		Cases: []domain.TestCase{
			{Name: "passing_case", Body: func(s *outcome.Signal) {
				s.Pass()
			}},
			{Name: "failing_case", Body: func(s *outcome.Signal) {
				s.Fail("This test intentionally fails")
			}},
		},
	}
}
