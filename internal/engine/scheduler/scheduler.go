package scheduler

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/flo/internal/core/ports"
	"go.trai.ch/zerr"
)

// TaskStatus is the terminal state of one task in a run.
type TaskStatus string

const (
	// StatusOK means the task executed and produced its outputs.
	StatusOK TaskStatus = "ok"
	// StatusCached means the task was skipped because nothing changed.
	StatusCached TaskStatus = "cached"
	// StatusFailed means the command failed or outputs were missing.
	StatusFailed TaskStatus = "failed"
	// StatusTimeout means the task exceeded its wall clock limit.
	StatusTimeout TaskStatus = "timeout"
	// StatusSkipped means a prerequisite did not complete.
	StatusSkipped TaskStatus = "skipped"
)

// TaskResult is the outcome of one task.
type TaskResult struct {
	Task     domain.InternedString
	Status   TaskStatus
	Err      error
	Duration time.Duration
}

// Summary aggregates the results of a run, in completion order.
type Summary struct {
	Results []TaskResult
}

// Count returns how many results ended in status.
func (s *Summary) Count(status TaskStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any task failed or timed out.
func (s *Summary) Failed() bool {
	return s.Count(StatusFailed)+s.Count(StatusTimeout) > 0
}

// outputVerifier checks produced files after a run. *fs.Verifier satisfies
// it.
type outputVerifier interface {
	MissingOutputs(root string, outputs []string) ([]string, error)
}

// Options select and modify the tasks of one run.
type Options struct {
	// Targets are task names to run, with their transitive prerequisites.
	Targets []string
	// All runs every final task instead of named targets.
	All bool
	// Force bypasses the build cache.
	Force bool
}

// Scheduler executes a plan's tasks concurrently in dependency order.
type Scheduler struct {
	executor    ports.Executor
	store       ports.BuildInfoStore
	hasher      ports.Hasher
	verifier    outputVerifier
	tracer      ports.Tracer
	logger      ports.Logger
	parallelism int
	taskTimeout time.Duration
}

// NewScheduler creates a Scheduler. parallelism must be at least 1; a zero
// taskTimeout disables the per-task limit.
func NewScheduler(
	executor ports.Executor,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	verifier outputVerifier,
	tracer ports.Tracer,
	logger ports.Logger,
	parallelism int,
	taskTimeout time.Duration,
) *Scheduler {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Scheduler{
		executor:    executor,
		store:       store,
		hasher:      hasher,
		verifier:    verifier,
		tracer:      tracer,
		logger:      logger,
		parallelism: parallelism,
		taskTimeout: taskTimeout,
	}
}

// Run executes the selected tasks. Independent branches keep running when a
// task fails; the failed task's transitive dependents are skipped. The
// returned summary covers every selected task. The error is non-nil when
// any task failed, timed out, or the context was cancelled.
func (s *Scheduler) Run(ctx context.Context, plan *Plan, opts Options) (*Summary, error) {
	included, err := s.selectTasks(plan, opts)
	if err != nil {
		return nil, err
	}

	state := newRunState(s, plan, included, opts.Force)
	summary := state.loop(ctx)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return summary, ctxErr
	}
	if summary.Failed() {
		return summary, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrExecutionFailed, "one or more tasks did not complete"),
			"failed", summary.Count(StatusFailed)+summary.Count(StatusTimeout)),
			"skipped", summary.Count(StatusSkipped))
	}
	return summary, nil
}

// selectTasks resolves the run set: named targets plus their transitive
// prerequisites, or every final task with --all.
func (s *Scheduler) selectTasks(plan *Plan, opts Options) (map[domain.InternedString]bool, error) {
	var targets []domain.InternedString
	if opts.All {
		targets = plan.FinalTasks()
	} else {
		for _, name := range opts.Targets {
			interned := domain.NewInternedString(name)
			if _, ok := plan.Task(interned); !ok {
				return nil, zerr.With(zerr.Wrap(domain.ErrTaskNotFound, "no such task in the pipeline"), "task", name)
			}
			targets = append(targets, interned)
		}
	}
	if len(targets) == 0 {
		return nil, domain.ErrNoTasks
	}

	included := make(map[domain.InternedString]bool)
	queue := slices.Clone(targets)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if included[name] {
			continue
		}
		included[name] = true
		task, _ := plan.Task(name)
		queue = append(queue, task.Dependencies...)
	}
	return included, nil
}

// runState is the mutable bookkeeping of one run: the ready queue, indegree
// counters and the dependents index. Only the loop goroutine touches it;
// workers communicate through the results channel.
type runState struct {
	s          *Scheduler
	plan       *Plan
	force      bool
	indegree   map[domain.InternedString]int
	dependents map[domain.InternedString][]domain.InternedString
	ready      []domain.InternedString
	active     int
	pending    int
	resultsCh  chan TaskResult
	summary    *Summary
}

func newRunState(s *Scheduler, plan *Plan, included map[domain.InternedString]bool, force bool) *runState {
	state := &runState{
		s:          s,
		plan:       plan,
		force:      force,
		indegree:   make(map[domain.InternedString]int, len(included)),
		dependents: make(map[domain.InternedString][]domain.InternedString),
		resultsCh:  make(chan TaskResult, len(included)),
		summary:    &Summary{},
		pending:    len(included),
	}

	// Keep the ready queue in plan order for reproducible scheduling.
	for _, task := range plan.Tasks {
		if !included[task.Name] {
			continue
		}
		degree := 0
		for _, dep := range task.Dependencies {
			if included[dep] {
				degree++
				state.dependents[dep] = append(state.dependents[dep], task.Name)
			}
		}
		state.indegree[task.Name] = degree
		if degree == 0 {
			state.ready = append(state.ready, task.Name)
		}
	}
	return state
}

func (state *runState) loop(ctx context.Context) *Summary {
	for state.pending > 0 {
		state.schedule(ctx)

		if state.active == 0 {
			if ctx.Err() != nil || len(state.ready) == 0 {
				// Cancelled, or nothing can make progress anymore.
				state.drainAsSkipped(ctx.Err())
				break
			}
			continue
		}

		res := <-state.resultsCh
		state.handleResult(res)
	}
	return state.summary
}

func (state *runState) schedule(ctx context.Context) {
	for len(state.ready) > 0 && state.active < state.s.parallelism && ctx.Err() == nil {
		name := state.ready[0]
		state.ready = state.ready[1:]
		state.active++

		task, _ := state.plan.Task(name)
		go func() {
			state.resultsCh <- state.s.executeTask(ctx, state.plan, task, state.force)
		}()
	}
}

func (state *runState) handleResult(res TaskResult) {
	state.active--
	state.pending--
	// Finished tasks leave the indegree map so a later drain does not
	// report them a second time.
	delete(state.indegree, res.Task)
	state.summary.Results = append(state.summary.Results, res)

	switch res.Status {
	case StatusOK, StatusCached:
		for _, dep := range state.dependents[res.Task] {
			if _, waiting := state.indegree[dep]; !waiting {
				// Already skipped through another prerequisite.
				continue
			}
			state.indegree[dep]--
			if state.indegree[dep] == 0 {
				state.ready = append(state.ready, dep)
			}
		}
	default:
		state.skipDependents(res.Task)
	}
}

// skipDependents marks the transitive dependents of a failed task skipped.
// Tasks on independent branches are unaffected.
func (state *runState) skipDependents(name domain.InternedString) {
	for _, dep := range state.dependents[name] {
		if _, done := state.indegree[dep]; !done {
			continue
		}
		delete(state.indegree, dep)
		state.pending--
		state.summary.Results = append(state.summary.Results, TaskResult{
			Task:   dep,
			Status: StatusSkipped,
			Err:    zerr.With(zerr.New("prerequisite did not complete"), "prerequisite", name.String()),
		})
		state.skipDependents(dep)
	}
}

// drainAsSkipped records every not-yet-finished task as skipped. Used on
// cancellation and when in-flight work cannot unblock the remaining tasks.
func (state *runState) drainAsSkipped(cause error) {
	if cause == nil {
		cause = zerr.New("prerequisite did not complete")
	}
	for _, task := range state.plan.Tasks {
		if _, waiting := state.indegree[task.Name]; !waiting {
			continue
		}
		if slices.Contains(state.ready, task.Name) {
			continue
		}
		delete(state.indegree, task.Name)
		state.pending--
		state.summary.Results = append(state.summary.Results, TaskResult{
			Task:   task.Name,
			Status: StatusSkipped,
			Err:    cause,
		})
	}
	for _, name := range state.ready {
		delete(state.indegree, name)
		state.pending--
		state.summary.Results = append(state.summary.Results, TaskResult{
			Task:   name,
			Status: StatusSkipped,
			Err:    cause,
		})
	}
	state.ready = nil
}

// executeTask runs one task: cache check, execution with the per-task
// timeout, output verification and cache commit.
func (s *Scheduler) executeTask(ctx context.Context, plan *Plan, task *domain.Task, force bool) TaskResult {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, task.Name.String())
	defer span.End()
	span.SetAttribute("flo.task", task.Name.String())

	key := CacheKey(task, plan.Project.Name)
	root := plan.Project.Root

	if !force {
		hit, err := s.checkCache(key, task, root)
		if err != nil {
			span.RecordError(err)
			return TaskResult{Task: task.Name, Status: StatusFailed, Err: err, Duration: time.Since(start)}
		}
		if hit {
			span.SetAttribute("flo.cached", true)
			s.logger.Info(task.Name.String() + ": up to date")
			return TaskResult{Task: task.Name, Status: StatusCached, Duration: time.Since(start)}
		}
	}

	runCtx := ctx
	if s.taskTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.taskTimeout)
		defer cancel()
	}

	s.logger.Info(task.Name.String() + ": running " + strings.Join(task.Command, " "))
	if err := s.executor.Execute(runCtx, task, root); err != nil {
		span.RecordError(err)
		status := StatusFailed
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
			status = StatusTimeout
			err = zerr.With(zerr.Wrap(err, "task exceeded its time limit"), "timeout", s.taskTimeout.String())
		case ctx.Err() != nil:
			// The run was cancelled, not the task at fault.
			status = StatusSkipped
		}
		return TaskResult{Task: task.Name, Status: status, Err: err, Duration: time.Since(start)}
	}

	if err := s.commit(key, task, root); err != nil {
		span.RecordError(err)
		return TaskResult{Task: task.Name, Status: StatusFailed, Err: err, Duration: time.Since(start)}
	}
	return TaskResult{Task: task.Name, Status: StatusOK, Duration: time.Since(start)}
}

// checkCache reports whether the task is up to date: a stored entry exists,
// every input fingerprints to the stored value, and every output exists
// with its stored fingerprint.
func (s *Scheduler) checkCache(key string, task *domain.Task, root string) (bool, error) {
	inputs, err := s.hasher.FingerprintAll(root, task.InputPaths())
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "fingerprinting inputs"), "task", task.Name.String())
	}

	entry, err := s.store.Get(key)
	if err != nil {
		return false, zerr.Wrap(err, "reading build cache")
	}
	if entry == nil || !mapsEqual(entry.InputFingerprints, inputs) {
		return false, nil
	}

	missing, err := s.verifier.MissingOutputs(root, task.OutputPaths())
	if err != nil || len(missing) > 0 {
		return false, err
	}
	outputs, err := s.hasher.FingerprintAll(root, task.OutputPaths())
	if err != nil {
		return false, nil
	}
	return mapsEqual(entry.OutputFingerprints, outputs), nil
}

// commit verifies the declared outputs and stores the cache entry. A
// command that exits zero without producing its outputs is a failure.
func (s *Scheduler) commit(key string, task *domain.Task, root string) error {
	missing, err := s.verifier.MissingOutputs(root, task.OutputPaths())
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return zerr.With(zerr.With(
			zerr.Wrap(domain.ErrExecutionFailed, "command succeeded but declared outputs are missing"),
			"task", task.Name.String()), "missing", strings.Join(missing, ", "))
	}

	inputs, err := s.hasher.FingerprintAll(root, task.InputPaths())
	if err != nil {
		return zerr.Wrap(err, "fingerprinting inputs")
	}
	outputs, err := s.hasher.FingerprintAll(root, task.OutputPaths())
	if err != nil {
		return zerr.Wrap(err, "fingerprinting outputs")
	}

	if err := s.store.Put(domain.CacheEntry{
		TaskKey:            key,
		InputFingerprints:  inputs,
		OutputFingerprints: outputs,
		Timestamp:          time.Now(),
	}); err != nil {
		// A cache write failure costs a rebuild next time, not this run.
		s.logger.Warn("updating build cache failed: " + err.Error())
	}
	return nil
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
