// Package project resolves the project context a pipeline runs in.
package project

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/flo/internal/adapters/config"
	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/flo/internal/core/ports"
	"go.trai.ch/zerr"
)

// Detector resolves the project name and root directory. The name comes
// from, in order: the configuration override, the basename of the git
// toplevel, the basename of the working directory.
type Detector struct {
	cfg *config.Config
	log ports.Logger
}

// NewDetector creates a project detector.
func NewDetector(cfg *config.Config, log ports.Logger) *Detector {
	return &Detector{cfg: cfg, log: log}
}

// Detect resolves the project context for the working directory cwd.
func (d *Detector) Detect(cwd string) (*domain.Project, error) {
	root, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "resolving working directory")
	}

	name := d.cfg.Project
	if name == "" {
		name = d.detectName(root)
	}

	p := &domain.Project{
		Name:       name,
		Root:       root,
		ScriptsDir: d.cfg.ScriptsDir,
	}

	if d.cfg.Main != "" {
		main := strings.ReplaceAll(d.cfg.Main, d.cfg.Placeholder, name)
		if _, err := os.Stat(filepath.Join(root, main)); err != nil {
			d.log.Warn("project main file " + main + " not found; name detection may be wrong")
		}
	}
	return p, nil
}

// detectName prefers the git toplevel basename so invocations from
// subdirectories still resolve the same project.
func (d *Detector) detectName(root string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = root
	out, err := cmd.Output()
	if err == nil {
		if top := strings.TrimSpace(string(out)); top != "" {
			return filepath.Base(top)
		}
	}
	return filepath.Base(root)
}
