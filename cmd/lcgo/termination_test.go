package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeadlineTerminationZeroNeverStops(t *testing.T) {
	d := newDeadlineTermination(0)
	require.False(t, d.ShouldStop())
}

func TestDeadlineTerminationPastDeadlineStops(t *testing.T) {
	d := newDeadlineTermination(0.001)
	time.Sleep(5 * time.Millisecond)
	require.True(t, d.ShouldStop())
}

func TestDeadlineTerminationFutureDeadlineDoesNotStop(t *testing.T) {
	d := newDeadlineTermination(60)
	require.False(t, d.ShouldStop())
}
