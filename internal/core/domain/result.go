package domain

import "time"

// Outcome tags a task result.
type Outcome uint8

const (
	// OutcomeSuccess indicates the task and all its steps completed.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure indicates the task stopped with an error.
	OutcomeFailure
)

// String returns the lower-case outcome name.
func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// Result is the outcome of triggering a task.
type Result struct {
	Task     string
	Outcome  Outcome
	Duration time.Duration
	// FailedStep names the sub-task that stopped a sequence, if any.
	FailedStep string
	Err        error
	// Notified is set when the failure was already reported to the user.
	Notified bool
}

// Succeeded reports whether the task completed without error.
func (r Result) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}
