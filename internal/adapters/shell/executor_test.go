package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flo/internal/adapters/shell"
	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/zerr"
)

// recordingLogger collects log lines for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	info  []string
	warn  []string
	errs  []error
}

func (l *recordingLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info = append(l.info, msg)
}

func (l *recordingLogger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warn = append(l.warn, msg)
}

func (l *recordingLogger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func task(cmd ...string) *domain.Task {
	return &domain.Task{
		Name:    domain.NewInternedString("test"),
		Command: cmd,
	}
}

func TestExecute_Success(t *testing.T) {
	dir := t.TempDir()
	log := &recordingLogger{}
	e := shell.NewExecutor(log)

	err := e.Execute(context.Background(), task("sh", "-c", "echo out && touch made.txt"), dir)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "made.txt"))
	assert.NoError(t, statErr, "command should run in the given directory")
	assert.Contains(t, log.info, "out", "stdout should be streamed to the logger")
}

func TestExecute_EmptyCommandIsNoop(t *testing.T) {
	e := shell.NewExecutor(&recordingLogger{})
	err := e.Execute(context.Background(), task(), t.TempDir())
	require.NoError(t, err)
}

func TestExecute_FailureCarriesExitCodeAndStderr(t *testing.T) {
	log := &recordingLogger{}
	e := shell.NewExecutor(log)

	err := e.Execute(context.Background(), task("sh", "-c", "echo broken >&2; exit 3"), t.TempDir())
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T: %v", err, err)
	meta := zErr.Metadata()
	assert.Equal(t, 3, meta["exit_code"])
	assert.Contains(t, meta["stderr_tail"], "broken")
	assert.Contains(t, log.warn, "broken", "stderr should be streamed to the logger")
}

func TestExecute_MissingBinary(t *testing.T) {
	e := shell.NewExecutor(&recordingLogger{})
	err := e.Execute(context.Background(), task("definitely-not-a-binary-xyz"), t.TempDir())
	require.Error(t, err)
}

func TestExecute_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	e := shell.NewExecutor(&recordingLogger{})
	start := time.Now()
	err := e.Execute(ctx, task("sleep", "30"), t.TempDir())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second, "cancellation must terminate the process")
}
