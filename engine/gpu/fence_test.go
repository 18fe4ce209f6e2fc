package gpu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFenceStartsSignaled(t *testing.T) {
	f := NewFence(true)
	assert.True(t, f.Signaled())
	assert.True(t, f.Wait(0))
}

func TestFenceSignalReleasesWaiter(t *testing.T) {
	f := NewFence(false)
	assert.False(t, f.Signaled())

	go func() {
		time.Sleep(10 * time.Millisecond)
		f.Signal()
	}()

	assert.True(t, f.Wait(time.Second))
	assert.True(t, f.Signaled())
}

func TestFenceWaitTimesOut(t *testing.T) {
	f := NewFence(false)
	start := time.Now()
	assert.False(t, f.Wait(20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFenceResetRearms(t *testing.T) {
	f := NewFence(true)
	f.Reset()
	assert.False(t, f.Signaled())
	assert.False(t, f.Wait(0))

	f.Signal()
	assert.True(t, f.Wait(0))

	// Signal on an already signaled fence stays signaled.
	f.Signal()
	assert.True(t, f.Signaled())
}
