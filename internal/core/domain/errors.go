package domain

import "go.trai.ch/zerr"

var (
	// ErrLex is returned for malformed diagram text (bad token, unterminated bracket).
	ErrLex = zerr.New("lex error")

	// ErrParse is returned when the token stream does not match the grammar.
	ErrParse = zerr.New("parse error")

	// ErrDuplicateNode is returned when a node id is declared twice with incompatible identity.
	ErrDuplicateNode = zerr.New("duplicate node")

	// ErrUndeclaredNode is returned when an edge or class assignment references an unknown node id.
	ErrUndeclaredNode = zerr.New("undeclared node")

	// ErrRoleConflict is returned when style-class assignments give one node
	// two incompatible roles.
	ErrRoleConflict = zerr.New("conflicting role assignment")

	// ErrCycleDetected is returned when the pipeline graph contains a dependency cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not part of the pipeline.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNoTasks is returned when a pipeline declares no executable tasks.
	ErrNoTasks = zerr.New("pipeline declares no tasks")

	// ErrExecutionFailed is returned when one or more tasks failed to execute.
	ErrExecutionFailed = zerr.New("execution failed")
)
