package ports

import "time"

// Metrics records task and watch activity.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveTask records one finished task run.
	ObserveTask(task string, duration time.Duration, err error)
	// ObserveWatchEvent records a file change that triggered task.
	ObserveWatchEvent(task string)
}
