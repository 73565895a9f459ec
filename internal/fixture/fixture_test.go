package fixture

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingFixture struct {
	calls       []string
	setupErr    error
	teardownErr error
}

func (f *recordingFixture) Setup() error {
	f.calls = append(f.calls, "setup")
	return f.setupErr
}

func (f *recordingFixture) Teardown() error {
	f.calls = append(f.calls, "teardown")
	return f.teardownErr
}

func TestWithin(t *testing.T) {
	t.Run("normal path", func(t *testing.T) {
		f := &recordingFixture{}
		err := Within(f, func() { f.calls = append(f.calls, "body") })
		require.NoError(t, err)
		assert.Equal(t, []string{"setup", "body", "teardown"}, f.calls)
	})

	t.Run("setup failure skips body and teardown", func(t *testing.T) {
		f := &recordingFixture{setupErr: errors.New("no db")}
		ran := false
		err := Within(f, func() { ran = true })
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSetup)
		assert.Contains(t, err.Error(), "no db")
		assert.False(t, ran)
		assert.Equal(t, []string{"setup"}, f.calls)
	})

	t.Run("teardown failure is reported", func(t *testing.T) {
		f := &recordingFixture{teardownErr: errors.New("leak")}
		err := Within(f, func() {})
		assert.ErrorIs(t, err, ErrTeardown)
		assert.Equal(t, []string{"setup", "teardown"}, f.calls)
	})

	t.Run("teardown runs when body panics", func(t *testing.T) {
		f := &recordingFixture{}
		assert.Panics(t, func() {
			_ = Within(f, func() { panic("boom") })
		})
		assert.Equal(t, []string{"setup", "teardown"}, f.calls)
	})

	t.Run("teardown runs when body calls Goexit", func(t *testing.T) {
		f := &recordingFixture{}
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = Within(f, func() { runtime.Goexit() })
		}()
		<-done
		assert.Equal(t, []string{"setup", "teardown"}, f.calls)
	})

	t.Run("panicking setup becomes an error", func(t *testing.T) {
		f := Funcs{Label: "bad", SetupFn: func() error { panic("nope") }}
		err := Within(f, func() { t.Fatal("body must not run") })
		assert.ErrorIs(t, err, ErrSetup)
		assert.Contains(t, err.Error(), "panic: nope")
	})

	t.Run("nil fixture", func(t *testing.T) {
		ran := false
		require.NoError(t, Within(nil, func() { ran = true }))
		assert.True(t, ran)
	})
}

func TestName(t *testing.T) {
	assert.Equal(t, "none", Name(nil))
	assert.Equal(t, "none", Name(None{}))
	assert.Equal(t, "db", Name(Funcs{Label: "db"}))
	assert.Equal(t, "funcs", Name(Funcs{}))
	assert.Equal(t, "recordingFixture", Name(&recordingFixture{}))
}

func TestIsNone(t *testing.T) {
	assert.True(t, IsNone(nil))
	assert.True(t, IsNone(None{}))
	assert.True(t, IsNone(&None{}))
	assert.False(t, IsNone(Funcs{}))
}
