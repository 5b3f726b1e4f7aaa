// Package app implements the application layer for assetpipe.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/assetpipe/internal/adapters/detector"
	"go.trai.ch/assetpipe/internal/adapters/metrics"
	"go.trai.ch/assetpipe/internal/adapters/notify"
	"go.trai.ch/assetpipe/internal/adapters/telemetry"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/engine/dispatcher"
	"go.trai.ch/assetpipe/internal/engine/sequencer"
	"go.trai.ch/assetpipe/internal/ui/style"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// tracerName is the instrumentation scope of task spans.
const tracerName = "assetpipe"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       sequencer.TaskRunner
	watcher      ports.Watcher
	renderer     ports.Renderer
	logger       ports.Logger

	environment func() detector.Environment
	newNotifier func(logger ports.Logger, desktop bool) ports.Notifier
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	runner sequencer.TaskRunner,
	watcher ports.Watcher,
	renderer ports.Renderer,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		runner:       runner,
		watcher:      watcher,
		renderer:     renderer,
		logger:       log,
		environment:  detector.DetectEnvironment,
		newNotifier:  notify.New,
	}
}

// WithEnvironment replaces terminal and CI detection.
func (a *App) WithEnvironment(fn func() detector.Environment) *App {
	a.environment = fn
	return a
}

// WithNotifierFactory replaces the construction of the failure notifier.
func (a *App) WithNotifierFactory(fn func(logger ports.Logger, desktop bool) ports.Notifier) *App {
	a.newNotifier = fn
	return a
}

// Options are shared by every command.
type Options struct {
	// Root is the project directory. Empty means the working directory.
	Root string
	// ConfigPath names the configuration file. Empty means the default file in Root.
	ConfigPath string
	// OutputMode is one of "auto", "pretty" or "json".
	OutputMode string
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	Options
	// MetricsAddr exposes Prometheus metrics on this address when set.
	MetricsAddr string
}

// session holds what one command needs to trigger tasks.
type session struct {
	cfg      *domain.Config
	graph    *domain.Graph
	seq      *sequencer.Sequencer
	recorder ports.Metrics
	shutdown func()
	// rendered is set when the progress renderer already shows task failures.
	rendered bool
}

// Run triggers the named tasks. Tasks given together run concurrently.
func (a *App) Run(ctx context.Context, taskNames []string, opts Options) error {
	if len(taskNames) == 0 {
		return domain.ErrNoTasksSpecified
	}

	s, err := a.open(ctx, opts, metrics.NoopRecorder{})
	if err != nil {
		return err
	}
	defer s.shutdown()

	if slices.Contains(taskNames, domain.TaskWatch) {
		s.seq.WithWatch(func(ctx context.Context) error {
			return a.watch(ctx, s, "", nil)
		})
	}

	return a.report(ctx, s, taskNames)
}

// Watch runs the watch task until ctx is cancelled.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	var (
		reg      *prometheus.Registry
		recorder ports.Metrics = metrics.NoopRecorder{}
	)
	if opts.MetricsAddr != "" {
		reg = prometheus.NewRegistry()
		metrics.RegisterRuntimeCollectors(reg)
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	s, err := a.open(ctx, opts.Options, recorder)
	if err != nil {
		return err
	}
	defer s.shutdown()

	s.seq.WithWatch(func(ctx context.Context) error {
		return a.watch(ctx, s, opts.MetricsAddr, reg)
	})

	return a.report(ctx, s, []string{domain.TaskWatch})
}

// Tasks prints the task catalog.
func (a *App) Tasks(w io.Writer) error {
	graph, err := domain.NewDefaultGraph()
	if err != nil {
		return err
	}

	name := lipgloss.NewStyle().Foreground(style.Accent).Bold(true)
	muted := lipgloss.NewStyle().Foreground(style.Muted)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("TASK", "KIND", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return muted.PaddingRight(2)
			case col == 0:
				return name.PaddingRight(2)
			default:
				return lipgloss.NewStyle().PaddingRight(2)
			}
		})

	for task := range graph.Walk() {
		desc := task.Description
		if deps := task.Dependencies(); len(deps) > 0 {
			names := make([]string, len(deps))
			for i, d := range deps {
				names[i] = d.String()
			}
			desc += " (" + strings.Join(names, " "+style.Arrow+" ") + ")"
		}
		t.Row(task.Name.String(), task.Kind.String(), desc)
	}

	_, err = fmt.Fprintln(w, t.Render())
	return err
}

// open loads the configuration and builds the sequencer of one command.
func (a *App) open(ctx context.Context, opts Options, recorder ports.Metrics) (*session, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve project root"), "root", opts.Root)
	}

	cfg, err := a.configLoader.Load(root, opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	graph, err := domain.NewDefaultGraph()
	if err != nil {
		return nil, err
	}

	env := a.environment()
	mode := detector.ResolveMode(env, opts.OutputMode)
	if j, ok := a.logger.(interface{ SetJSON(enable bool) }); ok {
		j.SetJSON(mode == detector.ModeJSON)
	}

	var (
		tracer   ports.Tracer = telemetry.NewNoOpTracer()
		shutdown              = func() {}
	)
	if mode != detector.ModeJSON {
		if err := a.renderer.Start(ctx); err != nil {
			return nil, zerr.Wrap(err, "failed to start renderer")
		}
		provider := telemetry.NewTracerProvider(a.renderer)
		tracer = telemetry.NewOTelTracer(provider, tracerName)
		shutdown = func() {
			_ = provider.Shutdown(context.WithoutCancel(ctx))
			_ = a.renderer.Stop()
		}
	}

	notifier := a.newNotifier(a.logger, cfg.Tools.DesktopNotify && env.Interactive())
	seq := sequencer.New(graph, cfg, a.runner, tracer, recorder, notifier, a.logger)

	return &session{
		cfg:      cfg,
		graph:    graph,
		seq:      seq,
		recorder: recorder,
		shutdown: shutdown,
		rendered: mode != detector.ModeJSON,
	}, nil
}

// report runs the tasks and turns failures into ErrBuildExecutionFailed.
// Without the renderer the failures are logged here.
func (a *App) report(ctx context.Context, s *session, taskNames []string) error {
	results, err := s.seq.Run(ctx, taskNames)
	if err == nil {
		return nil
	}
	if results == nil {
		return err
	}
	if !s.rendered {
		a.logger.Error(err)
	}
	return errors.Join(domain.ErrBuildExecutionFailed, err)
}

// watch starts the file watcher and dispatches its events until ctx is
// cancelled. With addr set, metrics of reg are served alongside.
func (a *App) watch(ctx context.Context, s *session, addr string, reg *prometheus.Registry) error {
	bindings := domain.DefaultWatchBindings(s.cfg.Registry)
	if err := domain.ValidateBindings(s.graph, bindings); err != nil {
		return err
	}

	d, err := dispatcher.New(s.cfg.Root, bindings, s.seq, s.recorder, a.logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	if err := a.watcher.Start(gctx, s.cfg.Root); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "root", s.cfg.Root)
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	a.logger.Info("watching " + s.cfg.Root)

	g.Go(func() error {
		return d.Run(gctx, a.watcher.Events())
	})
	if addr != "" && reg != nil {
		a.logger.Info(fmt.Sprintf("serving metrics on %s/metrics", addr))
		g.Go(func() error {
			return metrics.Serve(gctx, addr, reg)
		})
	}

	return g.Wait()
}

