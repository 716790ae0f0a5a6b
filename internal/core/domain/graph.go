package domain

import (
	"iter"
	"strings"

	"go.trai.ch/zerr"
)

// Graph is the dependency graph over classified pipeline nodes. Nodes live
// in a dense slice and edges are index pairs, which keeps cycle detection
// and topological sorting free of pointer chasing.
type Graph struct {
	nodes []PipelineNode
	index map[InternedString]int
	edges []PipelineEdge
	out   [][]int
	in    [][]int

	// order and levels are memoized by Validate.
	order  []int
	levels [][]int

	diagnostics []Diagnostic
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[InternedString]int),
	}
}

// AddNode appends a node to the arena. Identity is established by id; adding
// the same id twice is an error (declaration merging happens upstream, in
// the model builder).
func (g *Graph) AddNode(n PipelineNode) error {
	if _, exists := g.index[n.ID]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateNode, "node already declared"), "node", n.ID.String())
	}
	// Arena position doubles as declaration order.
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	g.order = nil
	return nil
}

// AddEdge connects two declared nodes. Dangling endpoints are a hard error.
func (g *Graph) AddEdge(from, to InternedString, label string) error {
	fi, ok := g.index[from]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUndeclaredNode, "edge references unknown node"), "node", from.String())
	}
	ti, ok := g.index[to]
	if !ok {
		return zerr.With(zerr.Wrap(ErrUndeclaredNode, "edge references unknown node"), "node", to.String())
	}
	g.edges = append(g.edges, PipelineEdge{From: fi, To: ti, Label: label})
	g.out[fi] = append(g.out[fi], ti)
	g.in[ti] = append(g.in[ti], fi)
	g.order = nil
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id InternedString) (PipelineNode, bool) {
	i, ok := g.index[id]
	if !ok {
		return PipelineNode{}, false
	}
	return g.nodes[i], true
}

// SetRole replaces the role of a declared node. Used by the model builder to
// refine heuristic classifications once edges are known.
func (g *Graph) SetRole(id InternedString, role Role) {
	if i, ok := g.index[id]; ok {
		g.nodes[i].Role = role
	}
}

// NodeCount returns the number of declared nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// AddDiagnostic records a non-fatal finding.
func (g *Graph) AddDiagnostic(d Diagnostic) {
	g.diagnostics = append(g.diagnostics, d)
}

// Diagnostics returns all collected non-fatal findings.
func (g *Graph) Diagnostics() []Diagnostic {
	return g.diagnostics
}

// Validate checks structural integrity: it rejects cycles, memoizes a
// deterministic topological order plus the parallel level grouping, and
// records reachability warnings for task nodes no input can reach.
func (g *Graph) Validate() error {
	if err := g.detectCycles(); err != nil {
		return err
	}
	g.computeOrder()
	g.checkReachability()
	return nil
}

// detectCycles runs a three-color depth-first traversal. A back-edge to an
// in-progress node is a cycle; the error names the full node sequence.
func (g *Graph) detectCycles() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	color := make([]int, len(g.nodes))
	var path []int

	var visit func(u int) error
	visit = func(u int) error {
		color[u] = visiting
		path = append(path, u)

		for _, v := range g.out[u] {
			switch color[v] {
			case visiting:
				return g.cycleError(path, v)
			case unvisited:
				if err := visit(v); err != nil {
					return err
				}
			}
		}

		color[u] = done
		path = path[:len(path)-1]
		return nil
	}

	for u := range g.nodes {
		if color[u] == unvisited {
			if err := visit(u); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) cycleError(path []int, repeat int) error {
	start := 0
	for i, u := range path {
		if u == repeat {
			start = i
			break
		}
	}
	names := make([]string, 0, len(path)-start+1)
	for _, u := range path[start:] {
		names = append(names, g.nodes[u].ID.String())
	}
	names = append(names, g.nodes[repeat].ID.String())
	return zerr.With(zerr.Wrap(ErrCycleDetected, "pipeline graph is not acyclic"), "cycle", strings.Join(names, " -> "))
}

// computeOrder runs Kahn's algorithm. Ties among simultaneously ready nodes
// are broken by declaration order, so the result is reproducible for
// identical input text. Nodes drained in the same wave form one level:
// members of a level share no edges and may execute concurrently.
func (g *Graph) computeOrder() {
	indegree := make([]int, len(g.nodes))
	for _, e := range g.edges {
		indegree[e.To]++
	}

	ready := make([]int, 0, len(g.nodes))
	for u := range g.nodes {
		if indegree[u] == 0 {
			ready = append(ready, u)
		}
	}

	g.order = make([]int, 0, len(g.nodes))
	g.levels = nil
	for len(ready) > 0 {
		level := ready
		ready = nil
		g.levels = append(g.levels, level)
		for _, u := range level {
			g.order = append(g.order, u)
			for _, v := range g.out[u] {
				indegree[v]--
				if indegree[v] == 0 {
					ready = insertByDecl(ready, v)
				}
			}
		}
	}
}

// insertByDecl keeps the ready list sorted by declaration order. The list is
// small; a linear insert is fine.
func insertByDecl(ready []int, v int) []int {
	i := len(ready)
	for j, u := range ready {
		if v < u {
			i = j
			break
		}
	}
	ready = append(ready, 0)
	copy(ready[i+1:], ready[i:])
	ready[i] = v
	return ready
}

// checkReachability warns about Task/Runnable nodes that no Input node can
// reach. Such nodes are dead pipeline branches, reported but not rejected.
func (g *Graph) checkReachability() {
	fed := make([]bool, len(g.nodes))
	var mark func(u int)
	mark = func(u int) {
		if fed[u] {
			return
		}
		fed[u] = true
		for _, v := range g.out[u] {
			mark(v)
		}
	}
	for u, n := range g.nodes {
		if n.Role == RoleInput {
			mark(u)
		}
	}

	for u, n := range g.nodes {
		if n.Role != RoleTask && n.Role != RoleRunnable {
			continue
		}
		if !fed[u] {
			g.AddDiagnostic(Diagnostic{
				Severity: SeverityWarning,
				Node:     n.ID,
				Message:  "not reachable from any input; it will never be out of date",
			})
		}
	}
}

// Walk yields nodes in topological order. Validate must have succeeded.
func (g *Graph) Walk() iter.Seq[PipelineNode] {
	return func(yield func(PipelineNode) bool) {
		for _, u := range g.order {
			if !yield(g.nodes[u]) {
				return
			}
		}
	}
}

// Levels returns groups of mutually independent nodes in execution order.
func (g *Graph) Levels() [][]PipelineNode {
	levels := make([][]PipelineNode, len(g.levels))
	for i, level := range g.levels {
		levels[i] = make([]PipelineNode, len(level))
		for j, u := range level {
			levels[i][j] = g.nodes[u]
		}
	}
	return levels
}

// Successors returns the ids of the direct successors of id.
func (g *Graph) Successors(id InternedString) []InternedString {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.ids(g.out[i])
}

// Predecessors returns the ids of the direct predecessors of id.
func (g *Graph) Predecessors(id InternedString) []InternedString {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.ids(g.in[i])
}

func (g *Graph) ids(indices []int) []InternedString {
	res := make([]InternedString, len(indices))
	for i, u := range indices {
		res[i] = g.nodes[u].ID
	}
	return res
}
