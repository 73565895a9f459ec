// Package outcome holds the single-write channel a test body reports through.
package outcome

import (
	"fmt"
	"runtime"
	"sync"
)

// Signal records the outcome of one test invocation. The first mutator wins;
// later ones leave the state alone and are kept as double-report diagnostics.
type Signal struct {
	mu          sync.Mutex
	status      Status
	message     string
	diagnostics []string
	notes       []string
}

// New creates an unset Signal
func New() *Signal {
	return &Signal{}
}

// Pass marks the test as passed
func (s *Signal) Pass() {
	s.report(Pass, "")
}

// Fail marks the test as failed with a message
func (s *Signal) Fail(message string) {
	s.report(Fail, message)
}

// Failf marks the test as failed with a formatted message
func (s *Signal) Failf(format string, args ...interface{}) {
	s.report(Fail, fmt.Sprintf(format, args...))
}

// Skip marks the test as skipped
func (s *Signal) Skip(reason string) {
	s.report(Skip, reason)
}

// Abort marks the test as aborted and stops the body.
// Like FailNow it must be called from the goroutine running the body.
func (s *Signal) Abort(reason string) {
	s.report(Abort, reason)
	runtime.Goexit()
}

// FailNow marks the test as failed, if nothing was reported yet, and stops the body.
func (s *Signal) FailNow() {
	s.mu.Lock()
	if s.status == Unset {
		s.status = Fail
		s.message = "FailNow called"
	}
	s.mu.Unlock()
	runtime.Goexit()
}

// Assert fails the test and stops the body when cond is false
func (s *Signal) Assert(cond bool, message string) {
	if cond {
		return
	}
	s.Fail(message)
	s.FailNow()
}

// Expect fails the test when cond is false but lets the body continue.
// Further failed expectations are kept as diagnostics.
func (s *Signal) Expect(cond bool, message string) {
	if cond {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case Unset:
		s.status = Fail
		s.message = message
	case Fail:
		s.diagnostics = append(s.diagnostics, "also: "+message)
	default:
		s.diagnostics = append(s.diagnostics, doubleReport(Fail, message, s.status))
	}
}

// Assume skips the rest of the test when cond is false
func (s *Signal) Assume(cond bool, message string) {
	if cond {
		return
	}
	s.Skip("assumption failed: " + message)
	runtime.Goexit()
}

// Logf attaches a note to the result
func (s *Signal) Logf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, fmt.Sprintf(format, args...))
}

// State returns the reported status and its message
func (s *Signal) State() (Status, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.message
}

// Diagnostics returns double-report and extra expectation messages
func (s *Signal) Diagnostics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.diagnostics...)
}

// Notes returns the messages attached with Logf
func (s *Signal) Notes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.notes...)
}

func (s *Signal) report(status Status, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Unset {
		s.diagnostics = append(s.diagnostics, doubleReport(status, message, s.status))
		return
	}
	s.status = status
	s.message = message
}

func doubleReport(status Status, message string, previous Status) string {
	if message == "" {
		return fmt.Sprintf("double report: %s after %s", status, previous)
	}
	return fmt.Sprintf("double report: %s (%q) after %s", status, message, previous)
}
