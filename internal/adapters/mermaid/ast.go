package mermaid

import "go.trai.ch/flo/internal/core/domain"

// Diagram is the root of the AST: one graph declaration followed by a
// sequence of statements. Direction is irrelevant to the semantics and is
// preserved for round-tripping only.
type Diagram struct {
	Keyword    string
	Direction  string
	Statements []Statement
}

// Statement is one parsed diagram statement.
type Statement interface {
	stmt()
}

// NodeDecl declares a node, optionally with a shaped label.
type NodeDecl struct {
	ID    string
	Shape domain.Shape
	Label string
	Line  int
}

// Edge connects two node ids, optionally with an inline label.
type Edge struct {
	From  string
	To    string
	Label string
	Line  int
}

// ClassDef declares a style class. The CSS payload is opaque.
type ClassDef struct {
	Name string
	CSS  string
	Line int
}

// ClassAssign assigns a style class to one or more nodes.
type ClassAssign struct {
	Nodes []string
	Class string
	Line  int
}

// InitBlock is a %%{init ...}%% metadata block, carried verbatim.
type InitBlock struct {
	Content string
	Line    int
}

// Comment is a %% line comment, carried verbatim.
type Comment struct {
	Text string
	Line int
}

func (NodeDecl) stmt()    {}
func (Edge) stmt()        {}
func (ClassDef) stmt()    {}
func (ClassAssign) stmt() {}
func (InitBlock) stmt()   {}
func (Comment) stmt()     {}
