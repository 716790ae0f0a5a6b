// Package config loads the flo.yaml tool configuration.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Filename is the configuration file looked up in the working directory.
const Filename = "flo.yaml"

// Config is the resolved tool configuration. A missing flo.yaml yields the
// defaults; a present but malformed one is an error.
type Config struct {
	// Pipeline is the diagram file describing the build.
	Pipeline string
	// Cache is the build cache file.
	Cache string
	// Parallelism bounds concurrent task execution.
	Parallelism int
	// TaskTimeout is the per-task wall clock limit. Zero disables it.
	TaskTimeout time.Duration
	// Project overrides the detected project name when non-empty.
	Project string
	// Placeholder is the token substituted with the project name in labels
	// and commands.
	Placeholder string
	// ScriptsDir is the directory script: references resolve against.
	ScriptsDir string
	// Main is a file template (containing Placeholder) whose presence
	// verifies a detected project name. Empty disables the check.
	Main string
}

// Default returns the configuration used when no flo.yaml exists.
func Default() *Config {
	return &Config{
		Pipeline:    "pipeline.mmd",
		Cache:       filepath.Join(".flo", "cache.json"),
		Parallelism: runtime.NumCPU(),
		TaskTimeout: 10 * time.Minute,
		Placeholder: "PROJECT",
		ScriptsDir:  "scripts",
	}
}

// Load reads flo.yaml from dir and merges it over the defaults.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, Filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, zerr.Wrap(err, "reading configuration")
	}

	var file flofile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "parsing configuration")
	}

	if file.Pipeline != "" {
		cfg.Pipeline = file.Pipeline
	}
	if file.Cache != "" {
		cfg.Cache = file.Cache
	}
	if file.Parallelism > 0 {
		cfg.Parallelism = file.Parallelism
	}
	if file.TaskTimeout != "" {
		timeout, err := time.ParseDuration(file.TaskTimeout)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "parsing task_timeout"), "value", file.TaskTimeout)
		}
		cfg.TaskTimeout = timeout
	}
	if file.Project != "" {
		cfg.Project = file.Project
	}
	if file.Placeholder != "" {
		cfg.Placeholder = file.Placeholder
	}
	if file.ScriptsDir != "" {
		cfg.ScriptsDir = file.ScriptsDir
	}
	if file.Main != "" {
		cfg.Main = file.Main
	}
	return cfg, nil
}
