// Package domain contains the core model of the pipeline compiler: classified
// nodes, the dependency graph and the derived executable tasks.
package domain

// Role is the semantic role of a pipeline node.
type Role string

const (
	// RoleInput is a source file consumed by the pipeline.
	RoleInput Role = "Input"
	// RoleTask is a named build step.
	RoleTask Role = "Task"
	// RoleRunnable is an externally executed command.
	RoleRunnable Role = "Runnable"
	// RoleOutput is an intermediate artifact produced by a runnable.
	RoleOutput Role = "Output"
	// RoleExport is a final artifact delivered by the pipeline.
	RoleExport Role = "Export"
)

// Shape is the delimiter kind a node was declared with. It is a
// classification hint only; direction of the graph and styling carry no
// semantic weight.
type Shape int

const (
	// ShapeNone marks a bare declaration without a label.
	ShapeNone Shape = iota
	// ShapeSquare marks a [label] declaration.
	ShapeSquare
	// ShapeRound marks a (label) declaration.
	ShapeRound
	// ShapeCurly marks a {label} declaration.
	ShapeCurly
)

// PipelineNode is one classified vertex of the dependency graph.
type PipelineNode struct {
	ID         InternedString
	Role       Role
	Shape      Shape
	RawLabel   string
	Label      Label
	StyleClass string
}

// PipelineEdge is an ordered pair of node indices with an optional inline
// label. Direction encodes produces-before-consumes.
type PipelineEdge struct {
	From  int
	To    int
	Label string
}

// Severity classifies a diagnostic.
type Severity int

const (
	// SeverityWarning marks a non-fatal finding.
	SeverityWarning Severity = iota
	// SeverityInfo marks an informational finding.
	SeverityInfo
)

// Diagnostic is a non-fatal finding collected while building the model.
type Diagnostic struct {
	Severity Severity
	Node     InternedString
	Message  string
}
