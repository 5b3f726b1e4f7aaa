// Package pipeline builds the step lists of the asset tasks and runs them.
//
// A pipeline reads the files of one asset group, hands them through a fixed,
// linear list of steps and ends in the output writer. Steps receive the assets
// produced by the previous step; the first step starts from nothing.
package pipeline

import (
	"context"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// Step is one stage of a pipeline.
type Step struct {
	Name  string
	Apply func(ctx context.Context, assets []domain.Asset) ([]domain.Asset, error)
}

// Pipeline is the ordered step list of a single task.
type Pipeline struct {
	Task  string
	Steps []Step

	// Done is called exactly once after the steps finished or one of them
	// failed. It returns the error the run reports.
	Done func(err error) error
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Name
	}
	return names
}

// Run applies the steps in order and stops at the first failing step.
func (p *Pipeline) Run(ctx context.Context) error {
	err := p.run(ctx)
	if p.Done != nil {
		return p.Done(err)
	}
	return err
}

func (p *Pipeline) run(ctx context.Context) error {
	var assets []domain.Asset
	for _, step := range p.Steps {
		out, err := step.Apply(ctx, assets)
		if err != nil {
			return zerr.With(err, "step", step.Name)
		}
		assets = out
	}
	return nil
}
