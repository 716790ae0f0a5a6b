// Package scheduler derives executable tasks from the pipeline graph and
// runs them concurrently with build caching.
package scheduler

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/zerr"
)

// pwdMarker is replaced with the absolute project root in command templates.
const pwdMarker = "PWD"

// Plan is the executable view of a pipeline: one task per runnable node,
// in topological order, with resolved commands, paths and dependencies.
type Plan struct {
	Project *domain.Project

	// Tasks in topological order.
	Tasks []*domain.Task

	// Outputs are intermediate produced files, Exports the final ones, and
	// Generated the produced files that double as inputs elsewhere. The
	// status and clean commands work off these lists.
	Outputs   []string
	Exports   []string
	Generated []string

	byName map[domain.InternedString]*domain.Task
}

// producedRoles are node roles a runnable may emit files into. A produced
// Input is a generated input; a file-looking Export is an exported file.
var producedRoles = map[domain.Role]bool{
	domain.RoleOutput: true,
	domain.RoleInput:  true,
	domain.RoleExport: true,
}

// BuildPlan derives the task plan from a validated graph. Each Runnable
// node becomes one task: its command comes from the runnable label, its name
// and description from the owning Task node, its inputs from the file nodes
// feeding the owner, and its outputs from the file nodes it feeds. The
// project placeholder and the PWD marker are substituted everywhere.
func BuildPlan(g *domain.Graph, project *domain.Project, placeholder string) (*Plan, error) {
	p := &Plan{
		Project: project,
		byName:  make(map[domain.InternedString]*domain.Task),
	}

	sub := func(s string) string {
		return strings.ReplaceAll(s, placeholder, project.Name)
	}

	// File path per node, placeholder already substituted.
	paths := make(map[domain.InternedString]string)
	for node := range g.Walk() {
		switch node.Role {
		case domain.RoleInput, domain.RoleOutput, domain.RoleExport:
			paths[node.ID] = sub(node.Label.Text)
		}
	}

	// producer maps a produced file node to the task producing it.
	producer := make(map[domain.InternedString]domain.InternedString)
	// taskName maps a Task node to the name of the task derived from it.
	taskName := make(map[domain.InternedString]domain.InternedString)

	for node := range g.Walk() {
		if node.Role != domain.RoleRunnable {
			continue
		}
		task, owner, err := p.deriveTask(g, node, sub)
		if err != nil {
			return nil, err
		}

		p.Tasks = append(p.Tasks, task)
		p.byName[task.Name] = task
		if owner != nil {
			taskName[owner.ID] = task.Name
		}
		for _, succ := range g.Successors(node.ID) {
			if n, ok := g.Node(succ); ok && producedRoles[n.Role] {
				producer[succ] = task.Name
			}
		}
	}

	if len(p.Tasks) == 0 {
		return nil, domain.ErrNoTasks
	}

	p.resolveDependencies(g, producer, taskName)
	p.collectFiles(g, paths, producer)
	return p, nil
}

// deriveTask builds the task for one runnable node. The owning Task node is
// the runnable's Task-role predecessor; pipelines may omit it, in which case
// the runnable node stands for itself.
func (p *Plan) deriveTask(g *domain.Graph, runnable domain.PipelineNode, sub func(string) string) (*domain.Task, *domain.PipelineNode, error) {
	var owner *domain.PipelineNode
	for _, pred := range g.Predecessors(runnable.ID) {
		if n, ok := g.Node(pred); ok && n.Role == domain.RoleTask {
			owner = &n
			break
		}
	}

	name := runnable.ID.String()
	description := runnable.Label.Description
	if owner != nil {
		if owner.Label.Text != "" {
			name = owner.Label.Text
		}
		if owner.Label.Description != "" {
			description = owner.Label.Description
		}
	}
	internedName := domain.NewInternedString(name)
	if _, taken := p.byName[internedName]; taken {
		return nil, nil, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrDuplicateNode, "two runnables derive the same task name"),
			"task", name), "node", runnable.ID.String())
	}

	command, err := p.parseCommand(runnable, sub)
	if err != nil {
		return nil, nil, err
	}

	task := &domain.Task{
		Name:        internedName,
		NodeID:      runnable.ID,
		Command:     command,
		Description: description,
	}

	// Inputs feed the owner task or the runnable directly.
	seen := make(map[domain.InternedString]bool)
	sources := g.Predecessors(runnable.ID)
	if owner != nil {
		sources = append(g.Predecessors(owner.ID), sources...)
	}
	for _, pred := range sources {
		n, ok := g.Node(pred)
		if !ok || seen[pred] {
			continue
		}
		if n.Role == domain.RoleInput || n.Role == domain.RoleOutput {
			seen[pred] = true
			task.Inputs = append(task.Inputs, pred)
		}
	}

	// Produced files are the runnable's file successors. An Export successor
	// marks the task final; only file-looking exports are tracked as paths.
	for _, succ := range g.Successors(runnable.ID) {
		n, ok := g.Node(succ)
		if !ok {
			continue
		}
		switch n.Role {
		case domain.RoleOutput, domain.RoleInput:
			task.Outputs = append(task.Outputs, succ)
			for _, next := range g.Successors(succ) {
				if m, ok := g.Node(next); ok && m.Role == domain.RoleExport {
					task.Final = true
				}
			}
		case domain.RoleExport:
			task.Final = true
			if n.Label.IsFile() {
				task.Outputs = append(task.Outputs, succ)
			}
		}
	}

	return task, owner, nil
}

// parseCommand splits the runnable label into argv, substitutes the project
// placeholder and the PWD marker, and resolves script: references against
// the scripts directory.
func (p *Plan) parseCommand(runnable domain.PipelineNode, sub func(string) string) ([]string, error) {
	text := strings.TrimSpace(runnable.Label.Text)
	if text == "" {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrNoTasks, "runnable node declares no command"),
			"node", runnable.ID.String())
	}

	if rest, ok := strings.CutPrefix(text, domain.ScriptPrefix); ok {
		fields := strings.Fields(rest)
		fields[0] = filepath.Join(p.Project.ScriptsDir, fields[0])
		text = strings.Join(fields, " ")
	}

	fields := strings.Fields(text)
	argv := make([]string, len(fields))
	for i, field := range fields {
		field = sub(field)
		if field == pwdMarker {
			field = p.Project.Root
		}
		argv[i] = field
	}
	return argv, nil
}

// resolveDependencies connects each task to the producers of its inputs and
// to the tasks its owner depends on directly.
func (p *Plan) resolveDependencies(g *domain.Graph, producer, taskName map[domain.InternedString]domain.InternedString) {
	for _, task := range p.Tasks {
		seen := make(map[domain.InternedString]bool)
		add := func(dep domain.InternedString) {
			if dep != task.Name && !seen[dep] {
				seen[dep] = true
				task.Dependencies = append(task.Dependencies, dep)
			}
		}

		for _, input := range task.Inputs {
			if dep, ok := producer[input]; ok {
				add(dep)
			}
		}

		// Direct task-to-task edges.
		for _, pred := range g.Predecessors(task.NodeID) {
			n, ok := g.Node(pred)
			if !ok || n.Role != domain.RoleTask {
				continue
			}
			for _, before := range g.Predecessors(pred) {
				if m, ok := g.Node(before); ok && m.Role == domain.RoleTask {
					if dep, ok := taskName[before]; ok {
						add(dep)
					}
				}
			}
		}
	}
}

// collectFiles fills the path lists backing the status and clean commands.
func (p *Plan) collectFiles(g *domain.Graph, paths map[domain.InternedString]string, producer map[domain.InternedString]domain.InternedString) {
	for node := range g.Walk() {
		path, ok := paths[node.ID]
		if !ok {
			continue
		}
		_, produced := producer[node.ID]
		switch node.Role {
		case domain.RoleInput:
			if produced {
				p.Generated = append(p.Generated, path)
			}
		case domain.RoleOutput:
			p.Outputs = append(p.Outputs, path)
		case domain.RoleExport:
			if node.Label.IsFile() {
				p.Exports = append(p.Exports, path)
			}
		}
	}

	// Resolve task input/output node ids to substituted paths.
	for _, task := range p.Tasks {
		task.Inputs = internPaths(task.Inputs, paths)
		task.Outputs = internPaths(task.Outputs, paths)
	}
}

func internPaths(nodes []domain.InternedString, paths map[domain.InternedString]string) []domain.InternedString {
	res := make([]domain.InternedString, 0, len(nodes))
	for _, node := range nodes {
		if path, ok := paths[node]; ok {
			res = append(res, domain.NewInternedString(path))
		}
	}
	return res
}

// Task returns the named task.
func (p *Plan) Task(name domain.InternedString) (*domain.Task, bool) {
	t, ok := p.byName[name]
	return t, ok
}

// FinalTasks returns the names of the tasks feeding export nodes. These are
// the default targets of a run over the whole pipeline.
func (p *Plan) FinalTasks() []domain.InternedString {
	var finals []domain.InternedString
	for _, task := range p.Tasks {
		if task.Final {
			finals = append(finals, task.Name)
		}
	}
	return finals
}

// Stages groups tasks into waves of mutually independent tasks, in execution
// order.
func (p *Plan) Stages() [][]*domain.Task {
	indegree := make(map[domain.InternedString]int, len(p.Tasks))
	dependents := make(map[domain.InternedString][]domain.InternedString)
	for _, task := range p.Tasks {
		indegree[task.Name] = len(task.Dependencies)
		for _, dep := range task.Dependencies {
			dependents[dep] = append(dependents[dep], task.Name)
		}
	}

	wave := make([]domain.InternedString, 0, len(p.Tasks))
	for _, task := range p.Tasks {
		if indegree[task.Name] == 0 {
			wave = append(wave, task.Name)
		}
	}

	var stages [][]*domain.Task
	for len(wave) > 0 {
		stage := make([]*domain.Task, len(wave))
		var next []domain.InternedString
		for i, name := range wave {
			stage[i] = p.byName[name]
			for _, dep := range dependents[name] {
				indegree[dep]--
				if indegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		stages = append(stages, stage)
		wave = next
	}
	return stages
}

// CacheKey identifies a task run in the build cache: the task name, the
// project it runs in and a digest over its command and path set. Changing
// the command or rewiring the paths invalidates prior entries.
func CacheKey(task *domain.Task, project string) string {
	digest := xxhash.New()
	for _, part := range task.Command {
		_, _ = digest.WriteString(part)
		_, _ = digest.Write([]byte{0})
	}
	_, _ = digest.Write([]byte{0})

	for _, paths := range [][]string{task.InputPaths(), task.OutputPaths()} {
		sorted := slices.Clone(paths)
		slices.Sort(sorted)
		for _, path := range sorted {
			_, _ = digest.WriteString(path)
			_, _ = digest.Write([]byte{0})
		}
		_, _ = digest.Write([]byte{0})
	}

	return fmt.Sprintf("%s@%s#%016x", task.Name.String(), project, digest.Sum64())
}
