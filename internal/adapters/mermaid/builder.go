package mermaid

import (
	"fmt"

	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/zerr"
)

// declaration is the merged view of possibly repeated node declarations.
// Identity is established at first mention; the latest shape and label win.
type declaration struct {
	id         string
	shape      domain.Shape
	label      string
	class      string
	redeclared bool
	hasEdge    bool
}

// BuildModel walks the AST and produces the classified, validated dependency
// graph. Non-fatal findings (redeclarations, defaulted roles, unused style
// classes, orphan nodes) are collected as diagnostics on the graph;
// undeclared edge endpoints, conflicting role assignments and cycles are
// fatal.
func BuildModel(d *Diagram) (*domain.Graph, error) {
	decls, order, err := collectDeclarations(d)
	if err != nil {
		return nil, err
	}

	g := domain.NewGraph()
	ruleByID := make(map[string]string, len(order))
	for _, id := range order {
		decl := decls[id]
		label := domain.ParseLabel(decl.label)
		sig := domain.Signals{ID: id, Class: decl.class, Shape: decl.shape, Label: label}
		role, rule := domain.Classify(sig)
		ruleByID[id] = rule

		node := domain.PipelineNode{
			ID:         domain.NewInternedString(id),
			Role:       role,
			Shape:      decl.shape,
			RawLabel:   decl.label,
			Label:      label,
			StyleClass: decl.class,
		}
		if err := g.AddNode(node); err != nil {
			return nil, err
		}

		if decl.redeclared {
			g.AddDiagnostic(domain.Diagnostic{
				Severity: domain.SeverityWarning,
				Node:     node.ID,
				Message:  "declared more than once; last shape and label win",
			})
		}
		if rule == "" {
			g.AddDiagnostic(domain.Diagnostic{
				Severity: domain.SeverityWarning,
				Node:     node.ID,
				Message:  fmt.Sprintf("no classification signal matched; defaulting to role %s", domain.RoleTask),
			})
		}
	}

	for _, stmt := range d.Statements {
		e, ok := stmt.(Edge)
		if !ok {
			continue
		}
		if err := g.AddEdge(
			domain.NewInternedString(e.From),
			domain.NewInternedString(e.To),
			e.Label,
		); err != nil {
			return nil, zerr.With(err, "line", e.Line)
		}
		decls[e.From].hasEdge = true
		decls[e.To].hasEdge = true
	}

	refineProducedFiles(g, ruleByID, order)
	reportOrphans(g, decls, order)
	reportUnusedClasses(g, d, decls)

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// collectDeclarations merges node declarations and resolves style-class
// assignments. Assignments referencing undeclared nodes, and assignments
// giving one node conflicting roles, are fatal.
func collectDeclarations(d *Diagram) (map[string]*declaration, []string, error) {
	decls := make(map[string]*declaration)
	var order []string

	// First pass: merge declarations. Identity is fixed at first mention so
	// edges and class assignments may reference a node before a later,
	// labeled re-declaration.
	for _, stmt := range d.Statements {
		s, ok := stmt.(NodeDecl)
		if !ok {
			continue
		}
		if existing, ok := decls[s.ID]; ok {
			if s.Shape != domain.ShapeNone {
				existing.redeclared = existing.shape != domain.ShapeNone
				existing.shape = s.Shape
				existing.label = s.Label
			}
			continue
		}
		decls[s.ID] = &declaration{id: s.ID, shape: s.Shape, label: s.Label}
		order = append(order, s.ID)
	}

	for _, stmt := range d.Statements {
		switch s := stmt.(type) {
		case Edge:
			for _, id := range []string{s.From, s.To} {
				if _, ok := decls[id]; !ok {
					return nil, nil, zerr.With(zerr.With(
						zerr.Wrap(domain.ErrUndeclaredNode, "edge references undeclared node"),
						"node", id), "line", s.Line)
				}
			}
		case ClassAssign:
			for _, id := range s.Nodes {
				decl, ok := decls[id]
				if !ok {
					return nil, nil, zerr.With(zerr.With(
						zerr.Wrap(domain.ErrUndeclaredNode, "class assigned to undeclared node"),
						"node", id), "line", s.Line)
				}
				if err := assignClass(decl, s.Class, s.Line); err != nil {
					return nil, nil, err
				}
			}
		}
	}
	return decls, order, nil
}

func assignClass(decl *declaration, class string, line int) error {
	if decl.class == "" || decl.class == class {
		decl.class = class
		return nil
	}
	prev, _ := domain.Classify(domain.Signals{Class: decl.class})
	next, _ := domain.Classify(domain.Signals{Class: class})
	if prev != next {
		return zerr.With(zerr.With(zerr.With(zerr.With(
			zerr.Wrap(domain.ErrRoleConflict, "style classes assign incompatible roles"),
			"node", decl.id), "class", decl.class), "conflicting_class", class), "line", line)
	}
	decl.class = class
	return nil
}

// refineProducedFiles upgrades file nodes that the file-label heuristic
// classified as inputs but that have a producing edge from a task or
// runnable: those are outputs of the pipeline, not sources. Nodes whose role
// came from an explicit class or the id prefix keep it (generated inputs are
// a legitimate pattern).
func refineProducedFiles(g *domain.Graph, ruleByID map[string]string, order []string) {
	for _, id := range order {
		if ruleByID[id] != "file-label" {
			continue
		}
		node, _ := g.Node(domain.NewInternedString(id))
		if node.Role == domain.RoleInput && hasProducer(g, node.ID) {
			g.SetRole(node.ID, domain.RoleOutput)
		}
	}
}

func hasProducer(g *domain.Graph, id domain.InternedString) bool {
	for _, pred := range g.Predecessors(id) {
		p, _ := g.Node(pred)
		if p.Role == domain.RoleTask || p.Role == domain.RoleRunnable {
			return true
		}
	}
	return false
}

func reportOrphans(g *domain.Graph, decls map[string]*declaration, order []string) {
	for _, id := range order {
		if !decls[id].hasEdge {
			g.AddDiagnostic(domain.Diagnostic{
				Severity: domain.SeverityWarning,
				Node:     domain.NewInternedString(id),
				Message:  "orphan node: no edges connect it to the pipeline",
			})
		}
	}
}

func reportUnusedClasses(g *domain.Graph, d *Diagram, decls map[string]*declaration) {
	assigned := make(map[string]bool)
	for _, decl := range decls {
		if decl.class != "" {
			assigned[decl.class] = true
		}
	}
	for _, stmt := range d.Statements {
		def, ok := stmt.(ClassDef)
		if !ok || assigned[def.Name] {
			continue
		}
		g.AddDiagnostic(domain.Diagnostic{
			Severity: domain.SeverityInfo,
			Message:  fmt.Sprintf("style class %q is defined but never assigned", def.Name),
		})
	}
}
