package domain

// Project is the resolved project context a pipeline is executed in. Name is
// substituted for the project placeholder in every label and command
// template; Root is the working directory all paths resolve against.
type Project struct {
	Name       string
	Root       string
	ScriptsDir string
}
