// Package linear provides a synchronous, line-oriented task progress renderer.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/ui/output"
	"go.trai.ch/assetpipe/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer implements ports.Renderer. It prints one line when a task starts
// and one when it finishes, prefixed with the task path ("[live → clean]").
type Renderer struct {
	stderr io.Writer
	output *termenv.Output

	mu    sync.Mutex
	tasks map[string]*taskState // spanID -> task state
}

type taskState struct {
	label     string
	startTime time.Time
}

// NewRenderer creates a new Renderer writing to stderr. A nil writer means
// os.Stderr.
func NewRenderer(stderr io.Writer) *Renderer {
	if stderr == nil {
		stderr = os.Stderr
	}
	return NewRendererWithProfile(stderr, output.ColorProfileANSI())
}

// NewRendererWithProfile creates a Renderer with an explicit color profile.
func NewRendererWithProfile(stderr io.Writer, profile termenv.Profile) *Renderer {
	return &Renderer{
		stderr: stderr,
		output: output.NewWithProfile(stderr, func() termenv.Profile { return profile }),
		tasks:  make(map[string]*taskState),
	}
}

// Start is a no-op for the linear renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop prints tasks that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID, task := range r.tasks {
		prefix := r.output.String(task.label).Faint().String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Interrupted\n", prefix, style.Warning)
		delete(r.tasks, spanID)
	}
	return nil
}

// OnTaskStart prints a task start message.
func (r *Renderer) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	label := fmt.Sprintf("[%s]", name)
	if parent, ok := r.tasks[parentID]; ok {
		label = parent.label[:len(parent.label)-1] + " " + style.Arrow + " " + name + "]"
	}
	r.tasks[spanID] = &taskState{label: label, startTime: startTime}

	prefix := r.output.String(label).Faint().String()
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnTaskComplete prints the completion status.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)

	duration := formatDuration(endTime.Sub(task.startTime))
	prefix := r.output.String(task.label).Faint().String()

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %s: %v\n", prefix, symbol, duration, err)
		return
	}
	symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %s\n", prefix, symbol, duration)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}
