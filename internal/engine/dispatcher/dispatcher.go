// Package dispatcher turns file watch events into task runs.
//
// Every event is matched against all watch bindings. Matches are debounced
// per task; a task that is still running when its next burst settles runs
// once more after it finishes, however many bursts arrived meanwhile.
package dispatcher

import (
	"context"
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/globs"
	"go.trai.ch/zerr"
)

// DefaultWindow is the quiet period that ends a burst of changes.
const DefaultWindow = 50 * time.Millisecond

// Trigger runs a named task.
type Trigger interface {
	Trigger(ctx context.Context, name string) domain.Result
}

type binding struct {
	matcher *globs.Matcher
	task    string
}

// slot serializes the runs of one task.
type slot struct {
	debouncer *Debouncer
	running   bool
	rerun     bool
}

// Dispatcher routes watch events to the tasks bound to them.
type Dispatcher struct {
	root     string
	bindings []binding
	trigger  Trigger
	metrics  ports.Metrics
	logger   ports.Logger
	window   time.Duration

	mu     sync.Mutex
	slots  map[string]*slot
	closed bool
	wg     sync.WaitGroup
}

// New compiles the bindings of a project rooted at root.
func New(
	root string,
	bindings []domain.WatchBinding,
	trigger Trigger,
	metrics ports.Metrics,
	logger ports.Logger,
) (*Dispatcher, error) {
	d := &Dispatcher{
		root:    root,
		trigger: trigger,
		metrics: metrics,
		logger:  logger,
		window:  DefaultWindow,
		slots:   make(map[string]*slot),
	}
	for _, b := range bindings {
		m, err := globs.Compile(b.Glob)
		if err != nil {
			return nil, zerr.With(err, "task", b.Task.String())
		}
		d.bindings = append(d.bindings, binding{matcher: m, task: b.Task.String()})
	}
	return d, nil
}

// WithWindow sets the debounce window.
func (d *Dispatcher) WithWindow(window time.Duration) *Dispatcher {
	d.window = window
	return d
}

// Match returns the tasks bound to the absolute path, in binding order.
func (d *Dispatcher) Match(path string) []string {
	rel, ok := d.relative(path)
	if !ok {
		return nil
	}

	var tasks []string
	for _, b := range d.bindings {
		if b.matcher.Match(rel) && !slices.Contains(tasks, b.task) {
			tasks = append(tasks, b.task)
		}
	}
	return tasks
}

// Run dispatches events until the sequence ends or ctx is cancelled. It
// returns once the tasks that were already running have finished.
func (d *Dispatcher) Run(ctx context.Context, events iter.Seq[ports.WatchEvent]) error {
	for ev := range events {
		if ctx.Err() != nil {
			break
		}
		d.Dispatch(ctx, ev)
	}

	d.mu.Lock()
	d.closed = true
	for _, s := range d.slots {
		s.debouncer.Stop()
	}
	d.mu.Unlock()

	d.wg.Wait()
	return nil
}

// Dispatch feeds a single event to the debouncers of its tasks.
func (d *Dispatcher) Dispatch(ctx context.Context, ev ports.WatchEvent) {
	rel, ok := d.relative(ev.Path)
	if !ok {
		return
	}
	for _, task := range d.Match(ev.Path) {
		d.metrics.ObserveWatchEvent(task)
		d.slotFor(ctx, task).debouncer.Add(rel)
	}
}

func (d *Dispatcher) slotFor(ctx context.Context, task string) *slot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.slots[task]
	if !ok {
		s = &slot{}
		s.debouncer = NewDebouncer(d.window, func(paths []string) {
			d.schedule(ctx, task, paths)
		})
		d.slots[task] = s
	}
	return s
}

// schedule starts task unless it is running, in which case it marks the
// slot for one more run.
func (d *Dispatcher) schedule(ctx context.Context, task string, paths []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.logger.Info(fmt.Sprintf("%s changed, running %s", describe(paths), task))

	s := d.slots[task]
	if s.running {
		s.rerun = true
		return
	}
	s.running = true

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.loop(context.WithoutCancel(ctx), task, s)
	}()
}

func (d *Dispatcher) loop(ctx context.Context, task string, s *slot) {
	for {
		res := d.trigger.Trigger(ctx, task)
		if !res.Succeeded() && !res.Notified {
			d.logger.Error(zerr.With(res.Err, "task", task))
		}

		d.mu.Lock()
		if !s.rerun {
			s.running = false
			d.mu.Unlock()
			return
		}
		s.rerun = false
		d.mu.Unlock()
	}
}

// relative converts an absolute event path to a root-relative slash path.
func (d *Dispatcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(d.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

func describe(paths []string) string {
	if len(paths) == 1 {
		return paths[0]
	}
	return fmt.Sprintf("%s and %d more", paths[0], len(paths)-1)
}
