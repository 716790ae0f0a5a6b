// Package shell provides the external command executor.
package shell

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/flo/internal/core/ports"
	"go.trai.ch/zerr"
)

// tailLines bounds the stderr tail attached to a failure.
const tailLines = 20

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

var _ ports.Executor = &Executor{}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs the task's command in dir. Stdout and stderr are streamed to
// the logger line by line; on failure the returned error carries the exit
// code and the last stderr lines. Cancelling ctx terminates the process.
func (e *Executor) Execute(ctx context.Context, task *domain.Task, dir string) error {
	if len(task.Command) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, task.Command[0], task.Command[1:]...)
	cmd.Dir = dir

	tail := &tailBuffer{limit: tailLines}
	cmd.Stdout = &logWriter{log: func(line string) { e.logger.Info(line) }}
	cmd.Stderr = &logWriter{log: func(line string) {
		tail.add(line)
		e.logger.Warn(line)
	}}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.With(
			zerr.Wrap(err, "command failed"),
			"exit_code", exitCode), "command", strings.Join(task.Command, " "))
		if stderr := tail.String(); stderr != "" {
			wrapped = zerr.With(wrapped, "stderr_tail", stderr)
		}
		return wrapped
	}
	return nil
}

// logWriter forwards process output to the logger one line at a time.
// Partial lines are buffered until their newline arrives.
type logWriter struct {
	log func(string)
	buf strings.Builder
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		s := w.buf.String()
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			return len(p), nil
		}
		w.log(s[:i])
		w.buf.Reset()
		w.buf.WriteString(s[i+1:])
	}
}

// tailBuffer keeps the last limit lines written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	lines []string
}

func (t *tailBuffer) add(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.limit {
		t.lines = t.lines[len(t.lines)-t.limit:]
	}
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.lines, "\n")
}
