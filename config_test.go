package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"abapsim/engine"
	"abapsim/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultMaxSteps, cfg.Engine.MaxSteps)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abapsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  max_steps: 42
  shallow_branch_skip: true
batch:
  format: yaml
  concurrency: 2
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Engine.MaxSteps)
	assert.True(t, cfg.Engine.ShallowBranchSkip)
	assert.Equal(t, "yaml", cfg.Batch.Format)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
	assert.Equal(t, "abap> ", cfg.REPL.Prompt, "unset keys keep their defaults")

	settings := cfg.EngineSettings()
	assert.Equal(t, int64(42), settings.MaxSteps)
	assert.Equal(t, engine.DefaultTimeout, settings.Timeout)
	assert.True(t, settings.ShallowBranchSkip)
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abapsim.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"engine": {"timeout_ms": 250}, "logging": {"level": "debug"}}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.EngineSettings().Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("engine: [1, 2"), 0o644))
	_, err := LoadConfig(broken)
	require.Error(t, err)
	execErr, ok := errors.AsExecutionError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeConfig, execErr.Code)

	unbounded := filepath.Join(dir, "unbounded.yaml")
	require.NoError(t, os.WriteFile(unbounded, []byte("engine:\n  max_steps: 0\n  timeout_ms: 0\n"), 0o644))
	_, err = LoadConfig(unbounded)
	assert.ErrorContains(t, err, "cannot both be unlimited")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Batch.Encoding = "klingon"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Engine.MaxSteps = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Batch.Format = "json-compact"
	assert.NoError(t, cfg.Validate())

	t.Run("every problem is reported", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Batch.Concurrency = -2
		cfg.Logging.Level = "loud"
		cfg.Batch.Format = "xml"
		err := cfg.Validate()
		require.Error(t, err)
		assert.ErrorContains(t, err, "batch.concurrency")
		assert.ErrorContains(t, err, "logging.level")
		assert.ErrorContains(t, err, `unsupported batch.format "xml"`)
		assert.Equal(t, errors.ExitFailure, errors.ExitCode(err))
	})
}

func TestSaveConfigRoundTrip(t *testing.T) {
	for _, name := range []string{"out.yaml", "out.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := DefaultConfig()
			cfg.Engine.MaxOutputLines = 7
			cfg.REPL.Colors = true

			require.NoError(t, SaveConfig(cfg, path))
			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x.yaml"), expandHome("~/x.yaml"))
	assert.Equal(t, "/etc/x.yaml", expandHome("/etc/x.yaml"))
}
