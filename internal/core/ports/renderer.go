package ports

import (
	"context"
	"time"
)

// Renderer presents task progress. It is fed by the telemetry bridge.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes any buffered output.
	Stop() error

	// OnTaskStart is called when a task begins execution.
	// spanID identifies this execution; parentID is empty for top-level tasks.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskComplete is called when a task finishes. err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
