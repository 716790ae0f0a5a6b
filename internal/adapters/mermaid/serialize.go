package mermaid

import (
	"fmt"
	"strings"

	"go.trai.ch/flo/internal/core/domain"
)

var delimitersFor = map[domain.Shape][2]string{
	domain.ShapeSquare: {"[", "]"},
	domain.ShapeRound:  {"(", ")"},
	domain.ShapeCurly:  {"{", "}"},
}

// Serialize renders the AST back to diagram text. Reparsing the result
// yields an equal AST; formatting (indentation, blank lines) is canonical,
// not preserved.
func Serialize(d *Diagram) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", d.Keyword, d.Direction)

	for _, stmt := range d.Statements {
		b.WriteString("    ")
		switch s := stmt.(type) {
		case NodeDecl:
			b.WriteString(s.ID)
			if s.Shape != domain.ShapeNone {
				delims := delimitersFor[s.Shape]
				b.WriteString(delims[0])
				b.WriteString(s.Label)
				b.WriteString(delims[1])
			}
		case Edge:
			if s.Label != "" {
				fmt.Fprintf(&b, "%s -->|%s| %s", s.From, s.Label, s.To)
			} else {
				fmt.Fprintf(&b, "%s --> %s", s.From, s.To)
			}
		case ClassDef:
			fmt.Fprintf(&b, "classDef %s %s", s.Name, s.CSS)
		case ClassAssign:
			fmt.Fprintf(&b, "class %s %s", strings.Join(s.Nodes, ","), s.Class)
		case InitBlock:
			b.WriteString(s.Content)
		case Comment:
			b.WriteString(s.Text)
		}
		b.WriteString("\n")
	}
	return b.String()
}
