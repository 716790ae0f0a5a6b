package mermaid

import (
	"os"

	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/flo/internal/core/ports"
	"go.trai.ch/zerr"
)

// Loader reads a flowchart file from disk and turns it into the validated
// pipeline graph.
type Loader struct {
	log ports.Logger
}

var _ ports.PipelineLoader = &Loader{}

// NewLoader creates a pipeline loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{log: log}
}

// Load reads, parses and validates the pipeline definition at path.
func (l *Loader) Load(path string) (*domain.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "reading pipeline definition"), "path", path)
	}

	diagram, err := Parse(string(src))
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	graph, err := BuildModel(diagram)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	for _, diag := range graph.Diagnostics() {
		msg := diag.Message
		if node := diag.Node.String(); node != "" {
			msg = node + ": " + msg
		}
		if diag.Severity == domain.SeverityWarning {
			l.log.Warn(msg)
		} else {
			l.log.Info(msg)
		}
	}
	return graph, nil
}
