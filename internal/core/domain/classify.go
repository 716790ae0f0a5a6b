package domain

import "strings"

// Signals is everything a classification rule is allowed to look at.
type Signals struct {
	ID    string
	Class string
	Shape Shape
	Label Label
}

// classificationRule is a pure predicate over the node's signals. Rules are
// evaluated top to bottom; the first match wins. Keeping them as data makes
// the classification auditable instead of a nest of conditionals.
type classificationRule struct {
	Name  string
	Apply func(Signals) (Role, bool)
}

// roleByClass maps style-class naming conventions to roles. Suffixes like
// "Style" or "Class" on the assigned class name are ignored.
var roleByClass = map[string]Role{
	"input":    RoleInput,
	"task":     RoleTask,
	"runnable": RoleRunnable,
	"output":   RoleOutput,
	"export":   RoleExport,
}

// roleByPrefix maps the id-prefix convention carried over from the diagram
// notation: I1, T2, O3, R4, E5.
var roleByPrefix = map[byte]Role{
	'I': RoleInput,
	'T': RoleTask,
	'O': RoleOutput,
	'R': RoleRunnable,
	'E': RoleExport,
}

var classificationRules = []classificationRule{
	{Name: "style-class", Apply: byStyleClass},
	{Name: "id-prefix", Apply: byIDPrefix},
	{Name: "command-label", Apply: byCommandLabel},
	{Name: "file-label", Apply: byFileLabel},
	{Name: "task-shape", Apply: byTaskShape},
}

// Classify resolves the node's role. Classification is total: when no rule
// matches, the node defaults to RoleTask and the returned rule name is empty
// so the caller can emit a warning.
func Classify(sig Signals) (Role, string) {
	for _, rule := range classificationRules {
		if role, ok := rule.Apply(sig); ok {
			return role, rule.Name
		}
	}
	return RoleTask, ""
}

func byStyleClass(sig Signals) (Role, bool) {
	if sig.Class == "" {
		return "", false
	}
	name := strings.ToLower(sig.Class)
	name = strings.TrimSuffix(name, "style")
	name = strings.TrimSuffix(name, "class")
	role, ok := roleByClass[name]
	return role, ok
}

func byIDPrefix(sig Signals) (Role, bool) {
	if sig.ID == "" {
		return "", false
	}
	role, ok := roleByPrefix[sig.ID[0]]
	return role, ok
}

// byCommandLabel classifies command-looking labels as runnables. A script
// reference is unambiguous on its own; a plain command line only counts
// inside a round node, since almost any short phrase parses as
// program-plus-arguments.
func byCommandLabel(sig Signals) (Role, bool) {
	if strings.HasPrefix(sig.Label.Text, ScriptPrefix) {
		return RoleRunnable, true
	}
	if sig.Shape == ShapeRound && sig.Label.IsCommand() {
		return RoleRunnable, true
	}
	return "", false
}

// byFileLabel classifies square nodes with file-looking labels as inputs.
// The model builder refines nodes with a producer edge to RoleOutput
// afterwards, once edges are known.
func byFileLabel(sig Signals) (Role, bool) {
	if sig.Shape == ShapeSquare && sig.Label.IsFile() {
		return RoleInput, true
	}
	return "", false
}

// byTaskShape is the last resort before defaulting: curly braces are the
// task shape in the diagram notation.
func byTaskShape(sig Signals) (Role, bool) {
	if sig.Shape == ShapeCurly {
		return RoleTask, true
	}
	return "", false
}
