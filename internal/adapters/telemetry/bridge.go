package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/assetpipe/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge is a span processor that reports task spans to a renderer as they
// start and end. Spans with an invalid context are ignored.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge reporting to renderer. A nil renderer discards
// every span.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart reports a started task with the span ID of its parent task, or ""
// for a top-level task.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	id, ok := b.spanID(s.SpanContext())
	if !ok {
		return
	}

	parentID, _ := b.spanID(trace.SpanContextFromContext(parent))
	b.renderer.OnTaskStart(id, parentID, s.Name(), s.StartTime())
}

// OnEnd reports a finished task. A failed span carries its status
// description as the error, prefixed by the aborting step of a sequence.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	id, ok := b.spanID(s.SpanContext())
	if !ok {
		return
	}
	b.renderer.OnTaskComplete(id, s.EndTime(), spanError(s))
}

// ForceFlush does nothing; spans are reported synchronously.
func (b *Bridge) ForceFlush(context.Context) error { return nil }

// Shutdown does nothing; the renderer is stopped by its owner.
func (b *Bridge) Shutdown(context.Context) error { return nil }

func (b *Bridge) spanID(sc trace.SpanContext) (string, bool) {
	if b.renderer == nil || !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

func spanError(s sdktrace.ReadOnlySpan) error {
	status := s.Status()
	if status.Code != codes.Error {
		return nil
	}

	msg := status.Description
	if msg == "" {
		msg = "task failed"
	}
	for _, kv := range s.Attributes() {
		if string(kv.Key) == ports.AttrFailedStep {
			msg = "aborted at " + kv.Value.AsString() + ": " + msg
			break
		}
	}
	return errors.New(msg)
}
