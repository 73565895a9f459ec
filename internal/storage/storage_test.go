package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xtest/internal/config"
	"xtest/internal/domain"
	"xtest/internal/outcome"
)

func sampleResults() []domain.TestResult {
	return []domain.TestResult{
		{Name: "passing_case", Suite: "basic", Status: outcome.Pass, Iterations: 1},
		{Name: "failing_case", Suite: "basic", Status: outcome.Fail, Message: "This test intentionally fails", Iterations: 1},
		{Name: "boom", Suite: "isolation", Status: outcome.Abort, Message: "panic: boom", Stack: "main.boom\n\tboom.go:3"},
	}
}

func TestBuildOutput(t *testing.T) {
	output := BuildOutput(sampleResults(), 1500*time.Millisecond, 3)

	assert.Equal(t, domain.Stats{Total: 3, Passed: 1, Failed: 1, Aborted: 1}, output.Meta.Stats)
	assert.False(t, output.Meta.AllPassed)
	assert.Equal(t, 3, output.Meta.Repeat)
	assert.Equal(t, "1.5s", output.Meta.Duration)
	assert.InDelta(t, 1.5, output.Meta.DurationSeconds, 1e-9)
	require.Len(t, output.Details, 2)
	assert.Equal(t, "failing_case", output.Details[0].TestName)
	assert.Equal(t, []string{"main.boom", "\tboom.go:3"}, output.Details[1].StackTrace)

	empty := BuildOutput(nil, 0, 1)
	assert.True(t, empty.Meta.AllPassed)
	assert.NotNil(t, empty.Details)
}

func newJSONStorage(t *testing.T) *JSONStorage {
	cfg := config.New()
	cfg.OutputJSONDir = filepath.Join(t.TempDir(), "nested", ".xtest")
	return NewJSONStorage(cfg)
}

func TestJSONStorage(t *testing.T) {
	t.Run("load before save", func(t *testing.T) {
		_, err := newJSONStorage(t).Load()
		assert.True(t, errors.Is(err, ErrNoRuns))
	})

	t.Run("save then load", func(t *testing.T) {
		s := newJSONStorage(t)
		output := BuildOutput(sampleResults(), time.Second, 1)
		require.NoError(t, s.Save(output))
		assert.True(t, strings.HasSuffix(s.Path(), filepath.Join(".xtest", config.DefaultOutputJSONFile)))

		loaded, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, output.Meta, loaded.Meta)
		require.Len(t, loaded.Details, 2)
		assert.Equal(t, outcome.Abort, loaded.Details[1].Status)
	})

	t.Run("resolved flag survives a rewrite", func(t *testing.T) {
		s := newJSONStorage(t)
		output := BuildOutput(sampleResults(), time.Second, 1)
		require.NoError(t, s.Save(output))

		loaded, err := s.Load()
		require.NoError(t, err)
		loaded.Details[0].Resolved = true
		require.NoError(t, s.Save(loaded))

		again, err := s.Load()
		require.NoError(t, err)
		assert.True(t, again.Details[0].Resolved)
		assert.False(t, again.Details[1].Resolved)
	})
}

type memStorage struct {
	saved *domain.RunOutput
	err   error
}

func (m *memStorage) Save(o *domain.RunOutput) error {
	if m.err != nil {
		return m.err
	}
	m.saved = o
	return nil
}

func (m *memStorage) Load() (*domain.RunOutput, error) {
	if m.saved == nil {
		return nil, ErrNoRuns
	}
	return m.saved, nil
}

func TestMulti(t *testing.T) {
	first, second := &memStorage{}, &memStorage{}
	output := BuildOutput(sampleResults(), time.Second, 1)

	require.NoError(t, Multi{first, second}.Save(output))
	assert.Same(t, output, first.saved)
	assert.Same(t, output, second.saved)

	loaded, err := Multi{first, second}.Load()
	require.NoError(t, err)
	assert.Same(t, output, loaded)

	failing := &memStorage{err: errors.New("disk full")}
	err = Multi{first, failing}.Save(output)
	assert.ErrorContains(t, err, "store 1: disk full")

	_, err = Multi{}.Load()
	assert.True(t, errors.Is(err, ErrNoRuns))
}

func TestNewMySQLStorage(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		table   string
		wantErr string
	}{
		{name: "valid", dsn: "user:pass@tcp(127.0.0.1:3306)/xtest", table: "xtest_results"},
		{name: "default table", dsn: "user@tcp(localhost:3306)/xtest"},
		{name: "bad table", dsn: "user@tcp(localhost:3306)/xtest", table: "runs; DROP TABLE x", wantErr: "invalid results table name"},
		{name: "no database", dsn: "user@tcp(localhost:3306)/", wantErr: "does not name a database"},
		{name: "bad dsn", dsn: "user@tcp(localhost:3306", wantErr: "parse results DSN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.ResultsDSN = tt.dsn
			cfg.ResultsTable = tt.table

			s, err := NewMySQLStorage(cfg, nil)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			if tt.table == "" {
				assert.Equal(t, config.DefaultResultsTable, s.table)
			}
		})
	}
}

func TestIsValidTableName(t *testing.T) {
	valid := []string{"xtest_results", "_runs", "Runs2024"}
	invalid := []string{"", "1runs", "runs-old", "runs`", "a.b", "runs'", strings.Repeat("a", 65)}
	for _, name := range valid {
		assert.True(t, isValidTableName(name), name)
	}
	for _, name := range invalid {
		assert.False(t, isValidTableName(name), name)
	}
}

func TestSQL(t *testing.T) {
	assert.True(t, strings.HasPrefix(createTableSQL("runs"), "CREATE TABLE IF NOT EXISTS `runs` ("))
	assert.Equal(t, 11, strings.Count(insertSQL("runs"), "?"))
	assert.Contains(t, selectLatestSQL("runs"), "FROM `runs` ORDER BY id DESC LIMIT 1")
}
