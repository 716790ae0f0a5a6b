// Package app implements the application layer for flo.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/flo/internal/adapters/config"
	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/flo/internal/core/ports"
	"go.trai.ch/flo/internal/engine/scheduler"
	"go.trai.ch/flo/internal/ui/style"
	"go.trai.ch/zerr"
)

// App wires the pipeline loader and the scheduler into the user-facing
// operations: run, list, status and clean.
type App struct {
	loader  ports.PipelineLoader
	sched   *scheduler.Scheduler
	store   ports.BuildInfoStore
	project *domain.Project
	cfg     *config.Config
	logger  ports.Logger
	out     io.Writer
}

// New creates a new App instance.
func New(
	loader ports.PipelineLoader,
	sched *scheduler.Scheduler,
	store ports.BuildInfoStore,
	project *domain.Project,
	cfg *config.Config,
	log ports.Logger,
) *App {
	return &App{
		loader:  loader,
		sched:   sched,
		store:   store,
		project: project,
		cfg:     cfg,
		logger:  log,
		out:     os.Stdout,
	}
}

// WithOutput redirects the command output. Used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// plan loads the pipeline diagram and derives the executable plan.
func (a *App) plan() (*scheduler.Plan, error) {
	path := a.cfg.Pipeline
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.project.Root, path)
	}
	graph, err := a.loader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "loading pipeline")
	}
	return scheduler.BuildPlan(graph, a.project, a.cfg.Placeholder)
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// All runs every final task instead of named targets.
	All bool
	// Force bypasses the build cache.
	Force bool
}

// Run executes the named tasks, or every final task with All. The summary
// is printed per task in completion order.
func (a *App) Run(ctx context.Context, targets []string, opts RunOptions) error {
	plan, err := a.plan()
	if err != nil {
		return err
	}

	summary, err := a.sched.Run(ctx, plan, scheduler.Options{
		Targets: targets,
		All:     opts.All,
		Force:   opts.Force,
	})
	if summary != nil {
		a.printSummary(summary)
	}
	return err
}

func (a *App) printSummary(summary *scheduler.Summary) {
	for _, res := range summary.Results {
		name := res.Task.String()
		switch res.Status {
		case scheduler.StatusOK:
			fmt.Fprintf(a.out, "%s %s %s\n",
				style.OK(style.Check), name, style.Muted(res.Duration.Round(time.Millisecond).String()))
		case scheduler.StatusCached:
			fmt.Fprintf(a.out, "%s %s %s\n", style.Cached(style.Check), name, style.Muted("up to date"))
		case scheduler.StatusSkipped:
			fmt.Fprintf(a.out, "%s %s %s\n", style.Skipped(style.Skip), name, style.Muted("skipped"))
		case scheduler.StatusTimeout:
			fmt.Fprintf(a.out, "%s %s %s\n", style.Failed(style.Cross), name, style.Muted("timeout"))
		default:
			fmt.Fprintf(a.out, "%s %s %s\n", style.Failed(style.Cross), name, style.Muted("failed"))
		}
	}

	fmt.Fprintf(a.out, "%d ok, %d cached, %d failed, %d skipped\n",
		summary.Count(scheduler.StatusOK),
		summary.Count(scheduler.StatusCached),
		summary.Count(scheduler.StatusFailed)+summary.Count(scheduler.StatusTimeout),
		summary.Count(scheduler.StatusSkipped))
}

// List prints the task inventory grouped into execution stages.
func (a *App) List(_ context.Context) error {
	plan, err := a.plan()
	if err != nil {
		return err
	}

	for i, stage := range plan.Stages() {
		fmt.Fprintf(a.out, "stage %d\n", i+1)
		for _, task := range stage {
			line := "  " + style.Name.Render(task.Name.String())
			if task.Final {
				line += " " + style.OK(style.Dot)
			}
			if task.Description != "" {
				line += "  " + style.Muted(task.Description)
			}
			fmt.Fprintln(a.out, line)
		}
	}
	return nil
}

// fileStatus is one row of the status table.
type fileStatus struct {
	path    string
	kind    string
	exists  bool
	size    int64
	modTime time.Time
}

// Status prints every tracked file of the pipeline with its on-disk state,
// missing files first.
func (a *App) Status(_ context.Context) error {
	plan, err := a.plan()
	if err != nil {
		return err
	}

	var rows []fileStatus
	collect := func(paths []string, kind string) {
		for _, path := range paths {
			row := fileStatus{path: path, kind: kind}
			if info, err := os.Stat(filepath.Join(a.project.Root, path)); err == nil {
				row.exists = true
				row.size = info.Size()
				row.modTime = info.ModTime()
			}
			rows = append(rows, row)
		}
	}
	collect(plan.Exports, "export")
	collect(plan.Outputs, "output")
	collect(plan.Generated, "generated")

	slices.SortStableFunc(rows, func(a, b fileStatus) int {
		if a.exists != b.exists {
			if a.exists {
				return 1
			}
			return -1
		}
		return strings.Compare(a.path, b.path)
	})

	for _, row := range rows {
		if row.exists {
			fmt.Fprintf(a.out, "%s %-10s %s %s\n",
				style.OK(style.Check), row.kind, row.path,
				style.Muted(fmt.Sprintf("%d bytes, %s", row.size, row.modTime.Format("2006-01-02 15:04:05"))))
		} else {
			fmt.Fprintf(a.out, "%s %-10s %s %s\n",
				style.Failed(style.Cross), row.kind, row.path, style.Muted("missing"))
		}
	}
	return nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All also removes exported files.
	All bool
}

// Clean removes produced files and the build cache. Exports survive unless
// All is set.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	plan, err := a.plan()
	if err != nil {
		return err
	}

	paths := slices.Concat(plan.Outputs, plan.Generated)
	if opts.All {
		paths = slices.Concat(paths, plan.Exports)
	}

	var errs error
	for _, path := range paths {
		abs := filepath.Join(a.project.Root, path)
		err := os.Remove(abs)
		switch {
		case err == nil:
			a.logger.Info("removed " + path)
		case errors.Is(err, os.ErrNotExist):
		default:
			errs = errors.Join(errs, zerr.Wrap(err, "removing "+path))
		}
	}

	if err := a.store.Clear(); err != nil {
		errs = errors.Join(errs, zerr.Wrap(err, "clearing build cache"))
	}
	return errs
}
