// Package discovery selects which registered test cases take part in a run.
package discovery

import (
	"path/filepath"
	"strings"

	"xtest/internal/domain"
)

// Filter filters test cases by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// Match reports whether name matches pattern.
// Supports patterns like "*_case", "passing*" or "*fail*"; a pattern without
// wildcards matches any name containing it. An empty pattern matches everything.
func (f *Filter) Match(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}
	if strings.Contains(pattern, "?") {
		return false
	}

	// Fall back to an ordered substring match for patterns like "*User*Case"
	rest := name
	found := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
		found = true
	}
	return found
}

// FilterCases keeps the cases whose name matches pattern, preserving order
func (f *Filter) FilterCases(cases []domain.TestCase, pattern string) []domain.TestCase {
	if pattern == "" {
		return cases
	}
	var filtered []domain.TestCase
	for _, tc := range cases {
		if f.Match(tc.Name, pattern) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

// FilterSuite returns s with only the matching cases
func (f *Filter) FilterSuite(s domain.Suite, pattern string) domain.Suite {
	s.Cases = f.FilterCases(s.Cases, pattern)
	return s
}
