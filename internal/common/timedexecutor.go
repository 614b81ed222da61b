package common

import (
	"time"
)

// Give the timed executor a task and an interval.
// Call the execute function from time to time.
// If the function gets called when the interval has elapsed,
// the provided task will execute. If not, the call will do nothing
type TimedExecutor struct {
	stopwatch Stopwatch
	task      func()
}

// Create a timed executor provided an interval and a task
func NewTimedExecutor(interval time.Duration, task func()) TimedExecutor {
	return TimedExecutor{NewStopwatch(interval), task}
}

// Execute the task if the interval has elapsed, else do nothing
func (te *TimedExecutor) Execute() {
	if te.stopwatch.Elapsed() {
		te.stopwatch.Restart()
		te.task()
	}
}
