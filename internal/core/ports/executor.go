package ports

import (
	"context"

	"go.trai.ch/flo/internal/core/domain"
)

// Executor runs a task's external command.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the task's command in dir. The command's stdout and
	// stderr are streamed to the logger; on a non-zero exit the returned
	// error carries the exit code and a stderr tail. Cancellation and
	// deadline of ctx terminate the process.
	Execute(ctx context.Context, task *domain.Task, dir string) error
}
