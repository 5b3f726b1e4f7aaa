// Package metrics records task and watch activity as Prometheus metrics.
package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/assetpipe/internal/core/ports"
)

const namespace = "assetpipe"

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

var (
	_ ports.Metrics = (*PrometheusRecorder)(nil)
	_ ports.Metrics = NoopRecorder{}
)

// PrometheusRecorder implements ports.Metrics using Prometheus collectors.
type PrometheusRecorder struct {
	registry     *prom.Registry
	taskDuration *prom.HistogramVec
	taskRuns     *prom.CounterVec
	watchEvents  *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them with
// reg. A nil reg creates a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		taskDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Duration of task runs",
			Buckets:   prom.DefBuckets,
		}, []string{"task"}),
		taskRuns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "task_runs_total",
			Help:      "Task runs by outcome",
		}, []string{"task", "result"}),
		watchEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "watch_events_total",
			Help:      "File changes that triggered a task",
		}, []string{"task"}),
	}
	reg.MustRegister(pr.taskDuration, pr.taskRuns, pr.watchEvents)
	return pr
}

// Registry returns the registry the collectors are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// ObserveTask records one finished task run.
func (p *PrometheusRecorder) ObserveTask(task string, d time.Duration, err error) {
	p.taskDuration.WithLabelValues(task).Observe(d.Seconds())
	result := ResultSuccess
	if err != nil {
		result = ResultFailed
	}
	p.taskRuns.WithLabelValues(task, result).Inc()
}

// ObserveWatchEvent records a file change that triggered task.
func (p *PrometheusRecorder) ObserveWatchEvent(task string) {
	p.watchEvents.WithLabelValues(task).Inc()
}

// NoopRecorder discards all observations.
type NoopRecorder struct{}

// ObserveTask does nothing.
func (NoopRecorder) ObserveTask(string, time.Duration, error) {}

// ObserveWatchEvent does nothing.
func (NoopRecorder) ObserveWatchEvent(string) {}
