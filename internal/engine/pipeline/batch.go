package pipeline

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/assetpipe/internal/core/domain"
)

// Hooks observe the per-file tasks. OnFileError is called once per failed
// file, OnComplete once per run after every file was handled.
type Hooks struct {
	OnFileError func(task string, err *domain.PerFileError)
	OnComplete  func(task string, written int, err error)
}

// batch isolates failures to the file that caused them.
type batch struct {
	task  string
	hooks Hooks

	mu      sync.Mutex
	failed  []error
	written int
}

func newBatch(task string, hooks Hooks) *batch {
	return &batch{task: task, hooks: hooks}
}

// each applies fn to every asset. A failing asset is reported and dropped;
// the others continue to the next step.
func (b *batch) each(name string, fn func(a domain.Asset) ([]byte, error)) Step {
	return Step{
		Name: name,
		Apply: func(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) {
			out := make([]domain.Asset, 0, len(assets))
			for _, a := range assets {
				data, err := fn(a)
				if err != nil {
					b.fail(&domain.PerFileError{File: a.Path, Err: err})
					continue
				}
				out = append(out, domain.Asset{Path: a.Path, Contents: data})
			}
			return out, nil
		},
	}
}

// count records the assets that reached the writer.
func (b *batch) count() Step {
	return Step{
		Name: "count",
		Apply: func(_ context.Context, assets []domain.Asset) ([]domain.Asset, error) {
			b.mu.Lock()
			b.written += len(assets)
			b.mu.Unlock()
			return assets, nil
		},
	}
}

func (b *batch) fail(err *domain.PerFileError) {
	b.mu.Lock()
	b.failed = append(b.failed, err)
	b.mu.Unlock()
	if b.hooks.OnFileError != nil {
		b.hooks.OnFileError(b.task, err)
	}
}

// done joins the per-file failures with the run error and fires OnComplete.
func (b *batch) done(err error) error {
	b.mu.Lock()
	err = errors.Join(append([]error{err}, b.failed...)...)
	written := b.written
	b.mu.Unlock()
	if b.hooks.OnComplete != nil {
		b.hooks.OnComplete(b.task, written, err)
	}
	return err
}
