package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flo/internal/adapters/config"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, config.Filename), []byte(content), 0o644)
	require.NoError(t, err)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "pipeline.mmd", cfg.Pipeline)
	assert.Equal(t, filepath.Join(".flo", "cache.json"), cfg.Cache)
	assert.Equal(t, runtime.NumCPU(), cfg.Parallelism)
	assert.Equal(t, 10*time.Minute, cfg.TaskTimeout)
	assert.Equal(t, "PROJECT", cfg.Placeholder)
	assert.Equal(t, "scripts", cfg.ScriptsDir)
	assert.Empty(t, cfg.Project)
	assert.Empty(t, cfg.Main)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
version: "1"
pipeline: score.mmd
parallelism: 2
task_timeout: 30s
project: cantata
main: PROJECT.ly
`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "score.mmd", cfg.Pipeline)
	assert.Equal(t, 2, cfg.Parallelism)
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout)
	assert.Equal(t, "cantata", cfg.Project)
	assert.Equal(t, "PROJECT.ly", cfg.Main)
	// Untouched keys keep their defaults.
	assert.Equal(t, filepath.Join(".flo", "cache.json"), cfg.Cache)
	assert.Equal(t, "scripts", cfg.ScriptsDir)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "pipeline: [unclosed\n")

	_, err := config.Load(dir)
	require.Error(t, err)
}

func TestLoad_BadTimeout(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "task_timeout: soon\n")

	_, err := config.Load(dir)
	require.Error(t, err)
}
