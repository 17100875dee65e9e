package main

import "time"

// deadlineTermination implements sat.TerminationCondition over a wall-clock
// deadline, for the <timeout_seconds> argument every solve subcommand
// accepts.
type deadlineTermination struct {
	deadline time.Time
}

func newDeadlineTermination(seconds float64) *deadlineTermination {
	if seconds <= 0 {
		return &deadlineTermination{}
	}
	return &deadlineTermination{deadline: time.Now().Add(time.Duration(seconds * float64(time.Second)))}
}

func (d *deadlineTermination) ShouldStop() bool {
	if d.deadline.IsZero() {
		return false
	}
	return time.Now().After(d.deadline)
}
