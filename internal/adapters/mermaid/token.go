// Package mermaid implements the diagram front end: a mode-switching lexer,
// a recursive descent parser producing an AST, and the model builder that
// turns the AST into a classified dependency graph.
package mermaid

import "go.trai.ch/flo/internal/core/domain"

// TokenKind classifies a lexeme.
type TokenKind int

const (
	// TokenKeyword is one of flowchart, graph, classDef, class.
	TokenKeyword TokenKind = iota
	// TokenIdent is a node id, a direction or a class name.
	TokenIdent
	// TokenContent is opaque label content captured between shape
	// delimiters, whitespace preserved verbatim.
	TokenContent
	// TokenEdgeLabel is opaque inline edge label content between pipes.
	TokenEdgeLabel
	// TokenStyleContent is the raw remainder of a classDef line.
	TokenStyleContent
	// TokenArrow is the --> connector.
	TokenArrow
	// TokenComma separates ids in a class assignment.
	TokenComma
	// TokenComment is a %% line comment, kept for round-tripping.
	TokenComment
	// TokenInit is a %%{init: ...}%% metadata block, kept for round-tripping.
	TokenInit
	// TokenNewline terminates a statement.
	TokenNewline
	// TokenEOF terminates the stream.
	TokenEOF
)

// Token is a classified lexeme with its source position. Immutable once
// produced.
type Token struct {
	Kind  TokenKind
	Text  string
	Shape domain.Shape
	Line  int
	Col   int
}
