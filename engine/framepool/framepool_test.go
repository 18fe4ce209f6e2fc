package framepool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
)

// The resource registry is the production collector.
var _ Collector = registry.Registry(nil)

type fakeCollector struct {
	mu        sync.Mutex
	serial    uint64
	collected []uint64
}

func (f *fakeCollector) AdvanceSerial() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serial++
	return f.serial
}

func (f *fakeCollector) Collect(completed uint64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collected = append(f.collected, completed)
	return 1
}

func (f *fakeCollector) snapshot() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint64, len(f.collected))
	copy(out, f.collected)
	return out
}

func TestAcquireHandsOutSlotsRoundRobin(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	pool, err := New(dev, WithFramesInFlight(3))
	require.NoError(t, err)
	defer pool.Close()

	assert.Equal(t, 3, pool.FramesInFlight())

	var indices []int
	for range 6 {
		slot, err := pool.Acquire()
		require.NoError(t, err)
		require.True(t, slot.fence.Signaled(), "a slot must never be handed out before its fence fires")
		require.NoError(t, slot.Begin())
		require.NoError(t, slot.SubmitAndSignal())
		indices = append(indices, slot.Index())
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, indices)
}

func TestFramesInFlightClamped(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())

	pool, err := New(dev, WithFramesInFlight(8))
	require.NoError(t, err)
	defer pool.Close()
	assert.Equal(t, 3, pool.FramesInFlight())

	fallback, err := New(dev, WithFramesInFlight(-1))
	require.NoError(t, err)
	defer fallback.Close()
	assert.Equal(t, 2, fallback.FramesInFlight())
}

func TestThirdFrameBlocksWithTwoSlots(t *testing.T) {
	dev := gpu.NewNullDevice()
	pool, err := New(dev, WithFramesInFlight(2), WithAcquireTimeout(75*time.Millisecond))
	require.NoError(t, err)

	first, err := pool.Acquire()
	require.NoError(t, err)
	require.NoError(t, first.Begin())
	require.NoError(t, first.SubmitAndSignal())

	second, err := pool.Acquire()
	require.NoError(t, err)
	require.NoError(t, second.Begin())
	require.NoError(t, second.SubmitAndSignal())

	// Both slots are in flight, so the third frame waits on the first
	// slot's fence and times out while nothing completes.
	_, err = pool.Acquire()
	var timeoutErr *SlotTimeout
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 0, timeoutErr.Slot)
	assert.Equal(t, uint64(1), pool.Stats().Timeouts)

	require.True(t, dev.CompleteOldestSubmission())
	third, err := pool.Acquire()
	require.NoError(t, err)
	assert.Same(t, first, third)
	assert.Equal(t, uint64(1), pool.CompletedSerial())

	dev.CompleteAllSubmissions()
	pool.Close()
}

func TestAcquireUnblocksWhenFrameCompletes(t *testing.T) {
	dev := gpu.NewNullDevice()
	pool, err := New(dev, WithFramesInFlight(2), WithAcquireTimeout(5*time.Second))
	require.NoError(t, err)

	for range 2 {
		slot, err := pool.Acquire()
		require.NoError(t, err)
		require.NoError(t, slot.Begin())
		require.NoError(t, slot.SubmitAndSignal())
	}

	type result struct {
		slot *Slot
		err  error
	}
	acquired := make(chan result, 1)
	go func() {
		slot, err := pool.Acquire()
		acquired <- result{slot: slot, err: err}
	}()

	select {
	case <-acquired:
		t.Fatal("acquire returned before any frame completed")
	case <-time.After(50 * time.Millisecond):
	}

	require.True(t, dev.CompleteOldestSubmission())
	select {
	case res := <-acquired:
		require.NoError(t, res.err)
		assert.Equal(t, 0, res.slot.Index())
	case <-time.After(2 * time.Second):
		t.Fatal("acquire did not return after the frame completed")
	}

	dev.CompleteAllSubmissions()
	pool.Close()
}

func TestSubmitStampsSerialAndCollectsOnReuse(t *testing.T) {
	dev := gpu.NewNullDevice()
	collector := &fakeCollector{}
	pool, err := New(dev, WithFramesInFlight(2), WithCollector(collector))
	require.NoError(t, err)

	first, err := pool.Acquire()
	require.NoError(t, err)
	require.NoError(t, first.Begin())
	require.NoError(t, first.SubmitAndSignal())
	assert.Equal(t, uint64(1), first.Serial())

	second, err := pool.Acquire()
	require.NoError(t, err)
	require.NoError(t, second.Begin())
	require.NoError(t, second.SubmitAndSignal())
	assert.Equal(t, uint64(2), second.Serial())

	require.True(t, dev.CompleteOldestSubmission())
	_, err = pool.Acquire()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, collector.snapshot())

	dev.CompleteAllSubmissions()
	pool.Close()
}

func TestSlotAllocAlignsAndExhausts(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	pool, err := New(dev, WithScratchSize(512))
	require.NoError(t, err)
	defer pool.Close()

	slot, err := pool.Acquire()
	require.NoError(t, err)
	require.NoError(t, slot.Begin())

	off1, err := slot.Alloc(make([]byte, 64))
	require.NoError(t, err)
	off2, err := slot.Alloc(make([]byte, 64))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), off1)
	assert.Equal(t, uint32(256), off2, "second block lands on the next aligned offset")

	_, err = slot.Alloc(make([]byte, 64))
	require.Error(t, err, "a third aligned block does not fit in 512 bytes")

	writes := dev.BufferWrites()
	require.Len(t, writes, 2)
	assert.Equal(t, gpu.ResourceID(slot.Scratch()), writes[0].BufferID)
	assert.Equal(t, uint64(256), writes[1].Offset)

	slot.Discard()
}

func TestDroppedFrameLeavesSlotReusable(t *testing.T) {
	dev := gpu.NewNullDevice()
	pool, err := New(dev, WithFramesInFlight(2), WithAcquireTimeout(200*time.Millisecond))
	require.NoError(t, err)

	dropped, err := pool.Acquire()
	require.NoError(t, err)
	require.NoError(t, dropped.Begin())
	dropped.Discard()

	other, err := pool.Acquire()
	require.NoError(t, err)
	require.NoError(t, other.Begin())
	require.NoError(t, other.SubmitAndSignal())

	// The ring wraps back to the dropped slot; its fence never armed, so
	// acquisition is immediate and recording restarts cleanly.
	again, err := pool.Acquire()
	require.NoError(t, err)
	assert.Same(t, dropped, again)
	require.NoError(t, again.Begin())
	require.NoError(t, again.SubmitAndSignal())
	assert.Equal(t, 2, dev.PendingSubmissions())

	dev.CompleteAllSubmissions()
	pool.Close()
}
