package domain

// Task is the executable unit derived from a Runnable node and its
// surrounding graph context: the resolved command, the input and output
// paths it is bound to, and the names of the tasks that must complete first.
// All placeholders are already substituted.
type Task struct {
	Name         InternedString
	NodeID       InternedString
	Command      []string
	Inputs       []InternedString
	Outputs      []InternedString
	Dependencies []InternedString
	Description  string
	Final        bool
}

// InputPaths returns the input paths as plain strings.
func (t *Task) InputPaths() []string {
	return plainStrings(t.Inputs)
}

// OutputPaths returns the output paths as plain strings.
func (t *Task) OutputPaths() []string {
	return plainStrings(t.Outputs)
}

func plainStrings(in []InternedString) []string {
	res := make([]string, len(in))
	for i, s := range in {
		res[i] = s.String()
	}
	return res
}
