package execution

import (
	"time"

	"xtest/internal/domain"
)

// Group describes one drain of the pending queue
type Group struct {
	Suite   string
	Fixture string
	Size    int
}

// Observer is notified as the runner makes progress. Implementations must not
// call back into the runner.
type Observer interface {
	GroupStarted(g Group)
	TestStarted(tc domain.TestCase, index int)
	TestFinished(result domain.TestResult, index int)
	GroupFinished(g Group, results []domain.TestResult, elapsed time.Duration)
}

// NopObserver implements Observer with no-ops, for embedding
type NopObserver struct{}

func (NopObserver) GroupStarted(Group)                                      {}
func (NopObserver) TestStarted(domain.TestCase, int)                        {}
func (NopObserver) TestFinished(domain.TestResult, int)                     {}
func (NopObserver) GroupFinished(Group, []domain.TestResult, time.Duration) {}
