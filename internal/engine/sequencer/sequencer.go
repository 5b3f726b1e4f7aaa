// Package sequencer triggers tasks of the task graph: pipeline tasks through
// the runner, aliases through their target and sequences step by step.
package sequencer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task has not run yet.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the last run finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the last run failed.
	StatusFailed TaskStatus = "Failed"
)

// TaskRunner runs the pipeline of a single pipeline task.
type TaskRunner interface {
	Run(ctx context.Context, cfg *domain.Config, task domain.Task) error
}

// WatchFunc runs watch mode until ctx is cancelled.
type WatchFunc func(ctx context.Context) error

// Sequencer executes tasks of a validated graph.
type Sequencer struct {
	graph    *domain.Graph
	cfg      *domain.Config
	runner   TaskRunner
	tracer   ports.Tracer
	metrics  ports.Metrics
	notifier ports.Notifier
	logger   ports.Logger
	watch    WatchFunc

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]TaskStatus
}

// New creates a new Sequencer with the given dependencies.
func New(
	graph *domain.Graph,
	cfg *domain.Config,
	runner TaskRunner,
	tracer ports.Tracer,
	metrics ports.Metrics,
	notifier ports.Notifier,
	logger ports.Logger,
) *Sequencer {
	s := &Sequencer{
		graph:      graph,
		cfg:        cfg,
		runner:     runner,
		tracer:     tracer,
		metrics:    metrics,
		notifier:   notifier,
		logger:     logger,
		taskStatus: make(map[domain.InternedString]TaskStatus),
	}
	for t := range graph.Walk() {
		s.taskStatus[t.Name] = StatusPending
	}
	return s
}

// WithWatch sets the function the watch task runs.
func (s *Sequencer) WithWatch(fn WatchFunc) *Sequencer {
	s.watch = fn
	return s
}

// Status returns the status of the last run of the named task.
func (s *Sequencer) Status(name string) TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[domain.NewInternedString(name)]
}

func (s *Sequencer) updateStatus(name domain.InternedString, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Run triggers every named task concurrently and waits for all of them.
// Unknown names are rejected before anything runs. The returned error joins
// the failures that were not already reported through the notifier.
func (s *Sequencer) Run(ctx context.Context, names []string) ([]domain.Result, error) {
	if len(names) == 0 {
		return nil, domain.ErrNoTasksSpecified
	}

	tasks := make([]domain.Task, len(names))
	for i, name := range names {
		t, err := s.graph.Lookup(name)
		if err != nil {
			return nil, err
		}
		tasks[i] = t
	}

	results := make([]domain.Result, len(tasks))
	var g errgroup.Group
	for i, t := range tasks {
		g.Go(func() error {
			results[i] = s.execute(ctx, t)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Succeeded() || res.Notified {
			continue
		}
		errs = append(errs, zerr.With(zerr.Wrap(res.Err, domain.ErrTaskExecutionFailed.Error()), "task", res.Task))
	}
	return results, errors.Join(errs...)
}

// Trigger runs the named task and returns its result.
func (s *Sequencer) Trigger(ctx context.Context, name string) domain.Result {
	t, err := s.graph.Lookup(name)
	if err != nil {
		return domain.Result{Task: name, Outcome: domain.OutcomeFailure, Err: err}
	}
	return s.execute(ctx, t)
}

// execute runs t inside its own span. Steps of a sequence and the target of
// an alias run in child spans.
func (s *Sequencer) execute(ctx context.Context, t domain.Task) domain.Result {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, t.Name.String())
	defer span.End()
	s.updateStatus(t.Name, StatusRunning)

	res := domain.Result{Task: t.Name.String()}
	var err error

	switch t.Kind {
	case domain.KindPipeline:
		err = s.runner.Run(ctx, s.cfg, t)

	case domain.KindAlias:
		target := s.lookup(t.Target)
		child := s.execute(ctx, target)
		err = child.Err
		res.Notified = child.Notified

	case domain.KindSequence:
		span.SetAttribute(ports.AttrSteps, len(t.Steps))
		for _, step := range t.Steps {
			child := s.execute(ctx, s.lookup(step))
			if !child.Succeeded() {
				res.FailedStep = step.String()
				span.SetAttribute(ports.AttrFailedStep, res.FailedStep)
				err = errors.Join(domain.ErrSequenceAborted, zerr.With(child.Err, "step", step.String()))
				break
			}
		}

	case domain.KindWatch:
		if s.watch == nil {
			err = zerr.With(zerr.With(domain.ErrInvalidTaskKind, "task_name", t.Name.String()), "reason", "watch mode unavailable")
			break
		}
		err = s.watch(ctx)
	}

	res.Duration = time.Since(start)
	s.metrics.ObserveTask(res.Task, res.Duration, err)

	if err != nil {
		span.RecordError(err)
		s.updateStatus(t.Name, StatusFailed)
		res.Outcome = domain.OutcomeFailure
		res.Err = err
		if t.Interactive {
			s.report(ctx, t, err)
			res.Notified = true
		}
		return res
	}

	s.updateStatus(t.Name, StatusCompleted)
	res.Outcome = domain.OutcomeSuccess
	return res
}

// lookup returns a task the validated graph references.
func (s *Sequencer) lookup(name domain.InternedString) domain.Task {
	t, _ := s.graph.GetTask(name)
	return t
}

// report hands the failure of an interactive task to the notifier.
func (s *Sequencer) report(ctx context.Context, t domain.Task, err error) {
	n := domain.Notification{
		Title:   t.Name.String(),
		Message: err.Error(),
	}
	var ce *domain.CompileError
	if errors.As(err, &ce) {
		n.File = ce.File
		n.Line = ce.Line
		n.Message = ce.Message
	}

	if nerr := s.notifier.Notify(ctx, n); nerr != nil {
		s.logger.Warn("failed to deliver notification: " + nerr.Error())
	}
}
