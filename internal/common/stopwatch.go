package common

import (
	"time"
)

// This stopwatch keeps track of an interval of time. Start it,
// then ask it if the interval has elapsed
type Stopwatch struct {
	Interval  time.Duration
	startTime time.Time
}

func NewStopwatch(interval time.Duration) Stopwatch {
	return Stopwatch{Interval: interval, startTime: time.Now()}
}

func (s *Stopwatch) Restart() {
	s.startTime = time.Now()
}

// Whether the interval has elapsed since the last (re)start
func (s *Stopwatch) Elapsed() bool {
	return time.Since(s.startTime) >= s.Interval
}
