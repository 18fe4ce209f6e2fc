package gpu

import (
	"sync"
	"time"
)

// Fence is a resettable one-shot completion signal attached to a queue
// submission. Frame pacing waits on the fence of the slot it wants to reuse,
// which is the only place the renderer ever blocks on the GPU.
type Fence struct {
	mu       *sync.Mutex
	done     chan struct{}
	signaled bool
}

// NewFence creates a fence.
//
// Parameters:
//   - signaled: when true the fence starts in the signaled state, so the
//     first wait on it returns immediately
//
// Returns:
//   - *Fence: the created fence
func NewFence(signaled bool) *Fence {
	f := &Fence{
		mu:   &sync.Mutex{},
		done: make(chan struct{}),
	}
	if signaled {
		f.signaled = true
		close(f.done)
	}
	return f
}

// Signal moves the fence to the signaled state, releasing all waiters.
// Signaling an already signaled fence is a no-op.
func (f *Fence) Signal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signaled {
		return
	}
	f.signaled = true
	close(f.done)
}

// Reset returns the fence to the unsignaled state so it can gate the next
// submission.
func (f *Fence) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.signaled {
		return
	}
	f.signaled = false
	f.done = make(chan struct{})
}

// Signaled reports whether the fence is currently signaled.
//
// Returns:
//   - bool: true when the fence has been signaled and not reset since
func (f *Fence) Signaled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signaled
}

// Wait blocks until the fence is signaled or the timeout elapses.
//
// Parameters:
//   - timeout: how long to wait; a non-positive timeout polls once
//
// Returns:
//   - bool: true when the fence was signaled within the timeout
func (f *Fence) Wait(timeout time.Duration) bool {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()

	if timeout <= 0 {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
