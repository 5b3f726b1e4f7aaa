package dispatcher_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.trai.ch/assetpipe/internal/engine/dispatcher"
	"go.uber.org/mock/gomock"
)

const root = "/project"

// fakeTrigger records triggered tasks. Each run takes duration; results
// maps a task to the result it reports.
type fakeTrigger struct {
	mu       sync.Mutex
	calls    []string
	duration time.Duration
	results  map[string]domain.Result
}

func (f *fakeTrigger) Trigger(_ context.Context, name string) domain.Result {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	res, ok := f.results[name]
	f.mu.Unlock()

	if f.duration > 0 {
		time.Sleep(f.duration)
	}
	if !ok {
		return domain.Result{Task: name, Outcome: domain.OutcomeSuccess}
	}
	return res
}

func (f *fakeTrigger) triggered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func defaultBindings(t *testing.T) []domain.WatchBinding {
	t.Helper()
	reg, err := domain.NewRegistry(domain.DefaultGroups()...)
	require.NoError(t, err)
	return domain.DefaultWatchBindings(reg)
}

func setupDispatcher(t *testing.T, trigger dispatcher.Trigger) (*dispatcher.Dispatcher, *mocks.MockMetrics, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetrics(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	metrics.EXPECT().ObserveWatchEvent(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	d, err := dispatcher.New(root, defaultBindings(t), trigger, metrics, logger)
	require.NoError(t, err)
	return d, metrics, logger
}

func event(rel string) ports.WatchEvent {
	return ports.WatchEvent{Path: filepath.Join(root, filepath.FromSlash(rel)), Operation: ports.OpWrite}
}

func TestDispatcher_Match(t *testing.T) {
	d, _, _ := setupDispatcher(t, &fakeTrigger{})

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"main stylesheet", "scss/main.scss", []string{domain.TaskSass}},
		{"nested partial", "scss/partials/_grid.scss", []string{domain.TaskSass}},
		{"legacy stylesheet", "scss/ie.scss", []string{domain.TaskSass, domain.TaskSassIE}},
		{"compiled stylesheet", "assets/css/style.css", []string{domain.TaskClean}},
		{"source map", "assets/css/maps/style.css.map", nil},
		{"nested css", "assets/css/maps/legacy.css", nil},
		{"script", "assets/js/src/app.js", []string{domain.TaskJSCompile}},
		{"bundled script", "assets/js/compiled.js", nil},
		{"image", "assets/img/logo.png", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Match(filepath.Join(root, filepath.FromSlash(tt.path))))
		})
	}

	assert.Nil(t, d.Match("/elsewhere/scss/main.scss"))
	assert.Nil(t, d.Match(root))
}

func TestDispatcher_CompiledCSSChangeTriggersClean(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		trigger := &fakeTrigger{}
		d, _, _ := setupDispatcher(t, trigger)

		d.Dispatch(context.Background(), event("assets/css/style.css"))
		time.Sleep(dispatcher.DefaultWindow + 10*time.Millisecond)
		synctest.Wait()

		assert.Equal(t, []string{domain.TaskClean}, trigger.triggered())
	})
}

func TestDispatcher_BurstTriggersOnce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		trigger := &fakeTrigger{}
		d, _, _ := setupDispatcher(t, trigger)
		ctx := context.Background()

		d.Dispatch(ctx, event("assets/js/src/a.js"))
		d.Dispatch(ctx, event("assets/js/src/b.js"))
		time.Sleep(20 * time.Millisecond)
		d.Dispatch(ctx, event("assets/js/src/a.js"))

		time.Sleep(dispatcher.DefaultWindow + 10*time.Millisecond)
		synctest.Wait()

		assert.Equal(t, []string{domain.TaskJSCompile}, trigger.triggered())
	})
}

func TestDispatcher_TasksDebounceIndependently(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		trigger := &fakeTrigger{}
		d, _, _ := setupDispatcher(t, trigger)
		ctx := context.Background()

		d.Dispatch(ctx, event("scss/ie.scss"))
		d.Dispatch(ctx, event("assets/js/src/a.js"))

		time.Sleep(dispatcher.DefaultWindow + 10*time.Millisecond)
		synctest.Wait()

		assert.ElementsMatch(t,
			[]string{domain.TaskSass, domain.TaskSassIE, domain.TaskJSCompile},
			trigger.triggered())
	})
}

func TestDispatcher_RunningTaskRerunsOnce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		trigger := &fakeTrigger{duration: time.Second}
		d, _, _ := setupDispatcher(t, trigger)
		ctx := context.Background()

		d.Dispatch(ctx, event("scss/main.scss"))
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		require.Equal(t, []string{domain.TaskSass}, trigger.triggered())

		// Two bursts settle while the first run is still busy.
		d.Dispatch(ctx, event("scss/main.scss"))
		time.Sleep(100 * time.Millisecond)
		d.Dispatch(ctx, event("scss/partials/_grid.scss"))
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		require.Len(t, trigger.triggered(), 1)

		time.Sleep(3 * time.Second)
		synctest.Wait()
		assert.Equal(t, []string{domain.TaskSass, domain.TaskSass}, trigger.triggered())
	})
}

func TestDispatcher_FailureIsLoggedAndWatchingContinues(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		trigger := &fakeTrigger{results: map[string]domain.Result{
			domain.TaskClean: {Task: domain.TaskClean, Outcome: domain.OutcomeFailure, Err: errors.New("disk full")},
		}}
		d, _, logger := setupDispatcher(t, trigger)
		logger.EXPECT().Error(gomock.Any()).Times(2)
		ctx := context.Background()

		d.Dispatch(ctx, event("assets/css/style.css"))
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		d.Dispatch(ctx, event("assets/css/ie.css"))
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, []string{domain.TaskClean, domain.TaskClean}, trigger.triggered())
	})
}

func TestDispatcher_NotifiedFailureIsNotLoggedAgain(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		trigger := &fakeTrigger{results: map[string]domain.Result{
			domain.TaskSassIE: {
				Task:     domain.TaskSassIE,
				Outcome:  domain.OutcomeFailure,
				Err:      &domain.CompileError{Message: "expected \"{\"."},
				Notified: true,
			},
		}}
		d, _, _ := setupDispatcher(t, trigger)

		d.Dispatch(context.Background(), event("scss/ie.scss"))
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		assert.Contains(t, trigger.triggered(), domain.TaskSassIE)
	})
}

func TestDispatcher_ObservesMatchedEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetrics(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	metrics.EXPECT().ObserveWatchEvent(domain.TaskSass).Times(2)
	metrics.EXPECT().ObserveWatchEvent(domain.TaskSassIE).Times(1)

	synctest.Test(t, func(t *testing.T) {
		d, err := dispatcher.New(root, defaultBindings(t), &fakeTrigger{}, metrics, logger)
		require.NoError(t, err)

		d.Dispatch(context.Background(), event("scss/main.scss"))
		d.Dispatch(context.Background(), event("scss/ie.scss"))
		d.Dispatch(context.Background(), event("README.md"))

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
	})
}

func TestDispatcher_Run_ConsumesEventsUntilClosed(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		trigger := &fakeTrigger{duration: 10 * time.Millisecond}
		d, _, _ := setupDispatcher(t, trigger)

		events := make(chan ports.WatchEvent)
		done := make(chan error, 1)
		go func() {
			done <- d.Run(context.Background(), func(yield func(ports.WatchEvent) bool) {
				for ev := range events {
					if !yield(ev) {
						return
					}
				}
			})
		}()

		events <- event("assets/js/src/app.js")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		close(events)
		require.NoError(t, <-done)
		assert.Equal(t, []string{domain.TaskJSCompile}, trigger.triggered())
	})
}

func TestDispatcher_Run_DropsPendingBurstOnShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		trigger := &fakeTrigger{}
		d, _, _ := setupDispatcher(t, trigger)

		require.NoError(t, d.Run(context.Background(), func(yield func(ports.WatchEvent) bool) {
			yield(event("scss/main.scss"))
		}))

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, trigger.triggered())
	})
}

func TestNew_InvalidBinding(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := dispatcher.New(root, []domain.WatchBinding{
		{Glob: "scss/[.scss", Task: domain.NewInternedString(domain.TaskSass)},
	}, &fakeTrigger{}, mocks.NewMockMetrics(ctrl), mocks.NewMockLogger(ctrl))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidGlob.Error())
}
