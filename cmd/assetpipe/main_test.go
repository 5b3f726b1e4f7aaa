package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/assetpipe/internal/adapters/detector"
	"go.trai.ch/assetpipe/internal/app"
	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type stubRunner struct {
	err error
}

func (s stubRunner) Run(context.Context, *domain.Config, domain.Task) error {
	return s.err
}

type mockSet struct {
	loader *mocks.MockConfigLoader
	logger *mocks.MockLogger
}

func newApp(t *testing.T, runner stubRunner) (*app.App, mockSet) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mockSet{
		loader: mocks.NewMockConfigLoader(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	a := app.New(m.loader, runner, mocks.NewMockWatcher(ctrl), mocks.NewMockRenderer(ctrl), m.logger).
		WithEnvironment(func() detector.Environment { return detector.Environment{CI: true} }).
		WithNotifierFactory(func(_ ports.Logger, _ bool) ports.Notifier { return mocks.NewMockNotifier(ctrl) })
	return a, m
}

func provide(a *app.App, log ports.Logger) ComponentProvider {
	return func(context.Context) (*app.Components, func(), error) {
		return app.NewComponents(a, log), func() {}, nil
	}
}

func config(t *testing.T) *domain.Config {
	t.Helper()
	reg, err := domain.NewRegistry(domain.DefaultGroups()...)
	if err != nil {
		t.Fatal(err)
	}
	return &domain.Config{Root: t.TempDir(), Registry: reg}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	a, m := newApp(t, stubRunner{})

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provide(a, m.logger))

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "assetpipe version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that errors outside task execution are logged.
func TestRun_ExecutionError(t *testing.T) {
	a, m := newApp(t, stubRunner{})
	m.loader.EXPECT().Load(gomock.Any(), "").Return(nil, errors.New("load failed"))
	m.logger.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"run", "sass"}, new(bytes.Buffer), new(bytes.Buffer), provide(a, m.logger))

	assert.Equal(t, 1, exitCode)
}

// TestRun_BuildFailure verifies that a failed deployment task exits 1 and is
// reported once.
func TestRun_BuildFailure(t *testing.T) {
	a, m := newApp(t, stubRunner{err: errors.New("disk full")})
	m.loader.EXPECT().Load(gomock.Any(), "").Return(config(t), nil)
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Error(gomock.Any()).Times(1)

	exitCode := run(context.Background(), []string{"run", "live"}, new(bytes.Buffer), new(bytes.Buffer), provide(a, m.logger))

	assert.Equal(t, 1, exitCode)
}

// TestRun_Tasks verifies that the catalog is printed to stdout.
func TestRun_Tasks(t *testing.T) {
	a, m := newApp(t, stubRunner{})

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"tasks"}, stdout, new(bytes.Buffer), provide(a, m.logger))

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "minify-css")
}

// TestRun_Options verifies that options are applied to the app.
func TestRun_Options(t *testing.T) {
	a, m := newApp(t, stubRunner{})
	applied := false

	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), new(bytes.Buffer), provide(a, m.logger),
		func(*app.App) { applied = true })

	assert.Equal(t, 0, exitCode)
	assert.True(t, applied)
}
