// Package storage persists run outputs for the failures viewer.
package storage

import (
	"errors"
	"fmt"
	"time"

	"xtest/internal/domain"
)

// ErrNoRuns is returned by Load when nothing was saved yet
var ErrNoRuns = errors.New("no saved runs")

// Storage persists and loads run outputs
type Storage interface {
	Save(output *domain.RunOutput) error
	Load() (*domain.RunOutput, error)
}

// BuildOutput derives the persisted form of a run from its results
func BuildOutput(results []domain.TestResult, elapsed time.Duration, repeat int) *domain.RunOutput {
	stats := domain.ComputeStats(results)
	details := domain.Failures(results)
	if details == nil {
		details = []domain.Failure{}
	}
	return &domain.RunOutput{
		Meta: domain.RunMeta{
			Stats:           stats,
			Duration:        elapsed.String(),
			DurationSeconds: elapsed.Seconds(),
			Repeat:          repeat,
			AllPassed:       stats.AllPassed(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Details: details,
	}
}

// Multi saves to every store and loads from the first one
type Multi []Storage

// Save writes output to every store, stopping at the first error
func (m Multi) Save(output *domain.RunOutput) error {
	for i, s := range m {
		if err := s.Save(output); err != nil {
			return fmt.Errorf("store %d: %w", i, err)
		}
	}
	return nil
}

// Load reads from the first store
func (m Multi) Load() (*domain.RunOutput, error) {
	if len(m) == 0 {
		return nil, ErrNoRuns
	}
	return m[0].Load()
}
