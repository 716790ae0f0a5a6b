// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/flo/internal/core/domain"

// PipelineLoader turns a pipeline description into a validated dependency
// graph.
//
//go:generate go run go.uber.org/mock/mockgen -source=loader.go -destination=mocks/mock_loader.go -package=mocks
type PipelineLoader interface {
	// Load reads the diagram at path and returns the classified, validated
	// graph. Lex, parse, model and cycle errors are all fatal.
	Load(path string) (*domain.Graph, error)
}
