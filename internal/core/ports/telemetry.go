package ports

import "context"

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Span attributes set by the sequencer.
const (
	// AttrSteps is the number of steps of a sequence task.
	AttrSteps = "assetpipe.steps"
	// AttrFailedStep names the step that aborted a sequence task.
	AttrFailedStep = "assetpipe.failed_step"
)

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span as a child of any span in ctx.
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span represents one task execution.
type Span interface {
	// End completes the span.
	End()
	// RecordError marks the span failed.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}
