package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultRepeat, cfg.Repeat)
	assert.Equal(t, DefaultOutputJSONDir, cfg.OutputJSONDir)
	assert.Equal(t, DefaultOutputJSONFile, cfg.OutputJSONFile)
	assert.Equal(t, DefaultResultsTable, cfg.ResultsTable)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Cutback)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "max repeat", mutate: func(c *Config) { c.Repeat = MaxRepeat }},
		{name: "zero repeat", mutate: func(c *Config) { c.Repeat = 0 }, wantErr: true},
		{name: "repeat above max", mutate: func(c *Config) { c.Repeat = MaxRepeat + 1 }, wantErr: true},
		{name: "verbose and cutback", mutate: func(c *Config) { c.Verbose, c.Cutback = true, true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_EnvThenFlags(t *testing.T) {
	t.Setenv(EnvRepeat, "3")
	t.Setenv(EnvVerbose, "true")
	t.Setenv(EnvOutputDir, "out")
	t.Setenv(EnvResultsDSN, "user:pw@tcp(db:3306)/results")
	t.Setenv(EnvLogLevel, "debug")

	t.Run("env only", func(t *testing.T) {
		cfg, err := Load(Flags{})
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Repeat)
		assert.True(t, cfg.Verbose)
		assert.Equal(t, "out", cfg.OutputJSONDir)
		assert.Equal(t, "user:pw@tcp(db:3306)/results", cfg.ResultsDSN)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("flags win", func(t *testing.T) {
		cfg, err := Load(Flags{Repeat: 7, Cutback: true, LogLevel: "error"})
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.Repeat)
		assert.True(t, cfg.Cutback)
		assert.False(t, cfg.Verbose)
		assert.Equal(t, "error", cfg.LogLevel)
	})

	t.Run("conflicting flags", func(t *testing.T) {
		_, err := Load(Flags{Verbose: true, Cutback: true})
		assert.Error(t, err)
	})
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv(EnvRepeat, "many")
	_, err := Load(Flags{})
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is fine", func(t *testing.T) {
		assert.NoError(t, LoadEnv(filepath.Join(dir, "absent.env")))
	})

	t.Run("loads values", func(t *testing.T) {
		path := filepath.Join(dir, ".env")
		require.NoError(t, os.WriteFile(path, []byte("XTEST_RESULTS_TABLE=nightly_results\n"), 0644))
		t.Cleanup(func() { os.Unsetenv(EnvResultsTable) })

		require.NoError(t, LoadEnv(path))
		cfg := New()
		require.NoError(t, cfg.ApplyEnv())
		assert.Equal(t, "nightly_results", cfg.ResultsTable)
	})
}

func TestConfig_GetOutputPath(t *testing.T) {
	cfg := &Config{OutputJSONDir: "/tmp/xtest", OutputJSONFile: "run.json"}
	assert.Equal(t, "/tmp/xtest/run.json", cfg.GetOutputPath())

	cfg = New()
	assert.True(t, filepath.IsAbs(cfg.GetOutputPath()))
	assert.Equal(t, DefaultOutputJSONFile, filepath.Base(cfg.GetOutputPath()))
}
