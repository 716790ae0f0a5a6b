package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flo/internal/adapters/cas"
	"go.trai.ch/flo/internal/adapters/config"
	"go.trai.ch/flo/internal/adapters/fs"
	"go.trai.ch/flo/internal/adapters/mermaid"
	"go.trai.ch/flo/internal/adapters/shell"
	"go.trai.ch/flo/internal/adapters/telemetry"
	"go.trai.ch/flo/internal/app"
	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/flo/internal/engine/scheduler"
)

const pipelineSource = `flowchart TD
    I1[data/notes.txt]
    T1{prepare<br/>normalize the sources}
    R1(cp data/notes.txt build/notes.csv)
    O1[build/notes.csv]
    T2{render<br/>produce the final file}
    R2(cp build/notes.csv export/PROJECT.txt)
    E1[export/PROJECT.txt]
    I1 --> T1
    T1 --> R1
    R1 --> O1
    O1 --> T2
    T2 --> R2
    R2 --> E1
`

type quietLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *quietLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, msg)
}

func (l *quietLogger) Warn(msg string) { l.Info(msg) }

func (l *quietLogger) Error(err error) {
	if err != nil {
		l.Info(err.Error())
	}
}

// newTestApp assembles an App from real adapters over a temporary project
// directory containing the diagram and its input files.
func newTestApp(t *testing.T) (*app.App, *bytes.Buffer, string) {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "export"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pipeline.mmd"), []byte(pipelineSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "notes.txt"), []byte("c d e\n"), 0o644))

	log := &quietLogger{}
	cfg := config.Default()
	project := &domain.Project{Name: "demo", Root: root, ScriptsDir: "scripts"}

	store, err := cas.NewStore(filepath.Join(root, cfg.Cache), log)
	require.NoError(t, err)

	sched := scheduler.NewScheduler(
		shell.NewExecutor(log),
		store,
		fs.NewHasher(),
		fs.NewVerifier(),
		telemetry.NewNoOpTracer(),
		log,
		2, cfg.TaskTimeout)

	out := new(bytes.Buffer)
	application := app.New(mermaid.NewLoader(log), sched, store, project, cfg, log).WithOutput(out)
	return application, out, root
}

func TestApp_RunAll(t *testing.T) {
	application, out, root := newTestApp(t)

	err := application.Run(context.Background(), nil, app.RunOptions{All: true})
	require.NoError(t, err)

	exported, err := os.ReadFile(filepath.Join(root, "export", "demo.txt"))
	require.NoError(t, err)
	assert.Equal(t, "c d e\n", string(exported))
	assert.Contains(t, out.String(), "prepare")
	assert.Contains(t, out.String(), "render")
	assert.Contains(t, out.String(), "2 ok, 0 cached, 0 failed, 0 skipped")
}

func TestApp_SecondRunIsCached(t *testing.T) {
	application, out, _ := newTestApp(t)

	require.NoError(t, application.Run(context.Background(), nil, app.RunOptions{All: true}))
	out.Reset()

	require.NoError(t, application.Run(context.Background(), nil, app.RunOptions{All: true}))
	assert.Contains(t, out.String(), "0 ok, 2 cached, 0 failed, 0 skipped")
}

func TestApp_RunUnknownTask(t *testing.T) {
	application, _, _ := newTestApp(t)

	err := application.Run(context.Background(), []string{"deploy"}, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestApp_List(t *testing.T) {
	application, out, _ := newTestApp(t)

	require.NoError(t, application.List(context.Background()))
	assert.Contains(t, out.String(), "stage 1")
	assert.Contains(t, out.String(), "stage 2")
	assert.Contains(t, out.String(), "prepare")
	assert.Contains(t, out.String(), "normalize the sources")
}

func TestApp_Status(t *testing.T) {
	application, out, _ := newTestApp(t)

	require.NoError(t, application.Status(context.Background()))
	listing := out.String()
	assert.Contains(t, listing, "build/notes.csv")
	assert.Contains(t, listing, "export/demo.txt")
	assert.Contains(t, listing, "missing")

	// After a build everything exists.
	require.NoError(t, application.Run(context.Background(), nil, app.RunOptions{All: true}))
	out.Reset()
	require.NoError(t, application.Status(context.Background()))
	assert.NotContains(t, out.String(), "missing")
}

func TestApp_Clean(t *testing.T) {
	application, _, root := newTestApp(t)

	require.NoError(t, application.Run(context.Background(), nil, app.RunOptions{All: true}))

	require.NoError(t, application.Clean(context.Background(), app.CleanOptions{}))
	_, err := os.Stat(filepath.Join(root, "build", "notes.csv"))
	assert.True(t, os.IsNotExist(err))
	// Exports survive a plain clean.
	_, err = os.Stat(filepath.Join(root, "export", "demo.txt"))
	assert.NoError(t, err)

	require.NoError(t, application.Clean(context.Background(), app.CleanOptions{All: true}))
	_, err = os.Stat(filepath.Join(root, "export", "demo.txt"))
	assert.True(t, os.IsNotExist(err))
}
