package sample

import (
	"io"

	"xtest/internal/domain"
	"xtest/internal/outcome"
)

// Isolation returns a suite that produces every outcome class. Each case is
// independent: a panic or an early exit in one never reaches the next.
func Isolation(out io.Writer) domain.Suite {
	data := &SomeData{SomeData: 42, SomeOtherData: "isolation"}
	return domain.Suite{
		Name:    "isolation",
		Fixture: NewBasicFixture(data, out),
		Cases: []domain.TestCase{
			{Name: "implicit_pass", Body: func(s *outcome.Signal) {
				s.Logf("data is %d", data.SomeData)
			}},
			{Name: "panicking_case", Body: func(s *outcome.Signal) {
				var m map[string]int
				m["boom"]++
			}},
			{Name: "after_panic", Body: func(s *outcome.Signal) {
				s.Expect(data.SomeOtherData == "isolation", "fixture data survives a previous panic")
				s.Pass()
			}},
			{Name: "skipped_case", Body: func(s *outcome.Signal) {
				s.Skip("not supported here")
			}},
			{Name: "assumption_case", Body: func(s *outcome.Signal) {
				s.Assume(data.SomeData < 0, "data is negative")
				s.Fail("unreachable")
			}},
			{Name: "assertion_case", Body: func(s *outcome.Signal) {
				s.Assert(data.SomeData == 0, "data is zero")
				s.Pass()
			}},
			{Name: "expectation_case", Body: func(s *outcome.Signal) {
				s.Expect(data.SomeData == 1, "data is one")
				s.Expect(data.SomeData == 2, "data is two")
			}},
			{Name: "aborting_case", Body: func(s *outcome.Signal) {
				s.Abort("cannot continue")
			}},
			{Name: "double_report", Body: func(s *outcome.Signal) {
				s.Pass()
				s.Fail("reported after pass")
			}},
		},
	}
}
