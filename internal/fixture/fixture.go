// Package fixture defines the setup/teardown protocol wrapped around a group of tests.
package fixture

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrSetup wraps any failure raised by Fixture.Setup
	ErrSetup = errors.New("fixture setup failed")
	// ErrTeardown wraps any failure raised by Fixture.Teardown
	ErrTeardown = errors.New("fixture teardown failed")
)

// Fixture prepares shared state before a group of tests and releases it afterwards
type Fixture interface {
	Setup() error
	Teardown() error
}

// Namer is implemented by fixtures that want a readable name in reports
type Namer interface {
	Name() string
}

// None is the fixture that does nothing
type None struct{}

// Setup does nothing
func (None) Setup() error { return nil }

// Teardown does nothing
func (None) Teardown() error { return nil }

// Name returns "none"
func (None) Name() string { return "none" }

// Funcs adapts a pair of closures to Fixture. Nil closures are no-ops.
type Funcs struct {
	Label      string
	SetupFn    func() error
	TeardownFn func() error
}

// Setup calls SetupFn
func (f Funcs) Setup() error {
	if f.SetupFn == nil {
		return nil
	}
	return f.SetupFn()
}

// Teardown calls TeardownFn
func (f Funcs) Teardown() error {
	if f.TeardownFn == nil {
		return nil
	}
	return f.TeardownFn()
}

// Name returns the label
func (f Funcs) Name() string {
	if f.Label == "" {
		return "funcs"
	}
	return f.Label
}

// Name returns a display name for any fixture
func Name(f Fixture) string {
	if f == nil {
		return "none"
	}
	if n, ok := f.(Namer); ok {
		return n.Name()
	}
	t := reflect.TypeOf(f)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// IsNone reports whether f performs no setup or teardown
func IsNone(f Fixture) bool {
	if f == nil {
		return true
	}
	switch f.(type) {
	case None, *None:
		return true
	}
	return false
}

// Within runs fn between f.Setup and f.Teardown. When Setup fails, fn and Teardown
// are skipped and the error wraps ErrSetup. Otherwise Teardown runs on every exit
// path of fn, including panics and runtime.Goexit, and its failure wraps ErrTeardown.
func Within(f Fixture, fn func()) (err error) {
	if f == nil {
		f = None{}
	}
	if err := call(f.Setup); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSetup, Name(f), err)
	}
	defer func() {
		if terr := call(f.Teardown); terr != nil && err == nil {
			err = fmt.Errorf("%w: %s: %v", ErrTeardown, Name(f), terr)
		}
	}()
	fn()
	return nil
}

// call turns a panic in a setup or teardown hook into an error
func call(hook func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return hook()
}
