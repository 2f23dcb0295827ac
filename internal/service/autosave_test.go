package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalesces(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { runs.Add(1) })

	for range 5 {
		d.Schedule()
	}

	require.Eventually(t, func() bool {
		return runs.Load() == 1
	}, time.Second, 5*time.Millisecond)

	// No further invocations arrive.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestDebouncerFlushRunsPending(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(time.Hour, func() { runs.Add(1) })

	d.Schedule()
	d.Flush()
	assert.Equal(t, int32(1), runs.Load())

	// Flush with nothing pending is a no-op.
	d.Flush()
	assert.Equal(t, int32(1), runs.Load())
}

func TestDebouncerStopCancels(t *testing.T) {
	var runs atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { runs.Add(1) })

	d.Schedule()
	d.Stop()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), runs.Load())
}
