// Package framepool owns the fixed ring of per-frame GPU resources: one slot
// per frame in flight, each with a command target, a uniform scratch arena
// and a completion fence. Acquire is the engine's only blocking point; it is
// what keeps the CPU at most F frames ahead of the GPU.
package framepool

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/log"
)

// Collector receives frame lifecycle notices so deferred resource destruction
// can run once the GPU is done with a frame. The resource registry satisfies
// this.
type Collector interface {
	// AdvanceSerial stamps a newly submitted frame and returns its serial.
	AdvanceSerial() uint64

	// Collect destroys queued resources whose serial is at or below the
	// given completed frame serial, returning how many were freed.
	Collect(completed uint64) int
}

// PoolStats is a point-in-time summary of acquire behavior.
type PoolStats struct {
	Acquires  uint64
	Timeouts  uint64
	WaitTotal time.Duration
}

// Pool is the frame resource pool. Slots are handed out round-robin and a
// slot is only handed out once its previous submission's fence has fired, so
// no in-flight GPU resources are ever aliased by a new frame. A single
// control thread drives Acquire and submission; the pool does not arbitrate
// between concurrent recorders.
type Pool interface {
	// Acquire blocks until the next slot in the ring has been reclaimed by
	// the GPU, then hands it out for recording.
	//
	// Returns:
	//   - *Slot: the reclaimed slot
	//   - error: *SlotTimeout when the fence did not fire within the
	//     configured timeout
	Acquire() (*Slot, error)

	// FramesInFlight returns the ring size F.
	//
	// Returns:
	//   - int: the number of slots
	FramesInFlight() int

	// CompletedSerial returns the highest frame serial whose completion has
	// been observed by Acquire.
	//
	// Returns:
	//   - uint64: the completed frame serial
	CompletedSerial() uint64

	// Stats reports acquire counts, timeouts and accumulated wait time.
	//
	// Returns:
	//   - PoolStats: the current totals
	Stats() PoolStats

	// Close waits for outstanding slots and releases their scratch buffers.
	Close()
}

type framePool struct {
	mu        *sync.Mutex
	device    gpu.Device
	logger    log.Logger
	collector Collector

	slots       []*Slot
	next        int
	timeout     time.Duration
	scratchSize uint64
	alignment   uint64
	completed   uint64
	serialSeq   uint64

	acquires  uint64
	timeouts  uint64
	waitTotal time.Duration
	closed    bool
}

var _ Pool = &framePool{}

func (p *framePool) Acquire() (*Slot, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("frame pool is closed")
	}
	slot := p.slots[p.next]
	timeout := p.timeout
	p.mu.Unlock()

	start := time.Now()
	fired := slot.fence.Wait(timeout)
	waited := time.Since(start)

	p.mu.Lock()
	p.acquires++
	p.waitTotal += waited
	if !fired {
		p.timeouts++
		p.mu.Unlock()
		p.logger.Warningf("frame slot %d not reclaimed within %v, retrying next tick", slot.index, timeout)
		return nil, &SlotTimeout{Slot: slot.index, Timeout: timeout}
	}
	p.next = (p.next + 1) % len(p.slots)
	if slot.serial > p.completed {
		p.completed = slot.serial
	}
	completed := p.completed
	collect := p.collector != nil && slot.serial != 0
	p.mu.Unlock()

	if collect {
		if freed := p.collector.Collect(completed); freed > 0 {
			p.logger.Debugf("frame serial %d complete, freed %d deferred resources", completed, freed)
		}
	}
	return slot, nil
}

func (p *framePool) FramesInFlight() int {
	return len(p.slots)
}

func (p *framePool) CompletedSerial() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

func (p *framePool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		Acquires:  p.acquires,
		Timeouts:  p.timeouts,
		WaitTotal: p.waitTotal,
	}
}

func (p *framePool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	slots := p.slots
	timeout := p.timeout
	p.mu.Unlock()

	for _, slot := range slots {
		if !slot.fence.Wait(timeout) {
			p.logger.Warningf("frame slot %d still in flight after %v, releasing anyway", slot.index, timeout)
		}
		slot.Discard()
		slot.scratch.Release()
	}
}

// nextSerial stamps a submission. The collector's serial is authoritative
// when one is attached so the registry's deferred destruction lines up with
// the serials the pool reports complete.
func (p *framePool) nextSerial() uint64 {
	if p.collector != nil {
		return p.collector.AdvanceSerial()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.serialSeq++
	return p.serialSeq
}

// Slot is one frame's mutable GPU state: a command encoder, a uniform scratch
// arena and the fence marking when the GPU has finished with it. Exactly one
// frame owns a slot between Acquire and SubmitAndSignal; Slot methods are not
// safe for concurrent use.
type Slot struct {
	pool    *framePool
	index   int
	fence   *gpu.Fence
	scratch gpu.Buffer
	cursor  uint64
	encoder gpu.CommandEncoder
	serial  uint64
}

// Index returns the slot's position in the ring.
func (s *Slot) Index() int {
	return s.index
}

// Serial returns the frame serial of the slot's most recent submission, zero
// before the first.
func (s *Slot) Serial() uint64 {
	return s.serial
}

// Begin resets the scratch arena and opens a fresh command encoder. A frame
// dropped before submission may have left an encoder behind; Begin finishes
// and discards it first.
func (s *Slot) Begin() error {
	s.Discard()
	encoder, err := s.pool.device.CreateCommandEncoder(fmt.Sprintf("Frame Slot %d Encoder", s.index))
	if err != nil {
		return fmt.Errorf("failed to begin frame slot %d: %w", s.index, err)
	}
	s.encoder = encoder
	return nil
}

// Encoder returns the command encoder opened by Begin, nil outside a
// Begin/SubmitAndSignal window.
func (s *Slot) Encoder() gpu.CommandEncoder {
	return s.encoder
}

// Scratch returns the slot's persistent uniform buffer. Bind groups created
// against it use the offsets handed out by Alloc as dynamic offsets.
func (s *Slot) Scratch() gpu.Buffer {
	return s.scratch
}

// Alloc bump-allocates a block of the scratch arena, writes data into it and
// returns its offset, aligned to the device's uniform offset alignment.
//
// Parameters:
//   - data: the uniform bytes to stage
//
// Returns:
//   - uint32: the dynamic offset of the block
//   - error: an error when the arena is exhausted or the write failed
func (s *Slot) Alloc(data []byte) (uint32, error) {
	aligned := (s.cursor + s.pool.alignment - 1) &^ (s.pool.alignment - 1)
	if aligned+uint64(len(data)) > s.pool.scratchSize {
		return 0, fmt.Errorf("frame slot %d scratch exhausted: %d of %d bytes in use", s.index, aligned, s.pool.scratchSize)
	}
	if err := s.pool.device.Queue().WriteBuffer(s.scratch, aligned, data); err != nil {
		return 0, fmt.Errorf("failed to stage %d uniform bytes in slot %d: %w", len(data), s.index, err)
	}
	s.cursor = aligned + uint64(len(data))
	return uint32(aligned), nil
}

// SubmitAndSignal finishes the recorded commands, hands them to the GPU queue
// and arms the slot's fence. The fence fires when the GPU completes the
// frame, which is what lets a later Acquire reclaim this slot.
//
// Returns:
//   - error: an error if finishing or submission failed; the slot stays
//     reusable either way
func (s *Slot) SubmitAndSignal() error {
	if s.encoder == nil {
		return fmt.Errorf("frame slot %d has no open encoder, call Begin first", s.index)
	}
	commands, err := s.encoder.Finish()
	s.encoder = nil
	if err != nil {
		return fmt.Errorf("failed to finish frame slot %d commands: %w", s.index, err)
	}
	s.serial = s.pool.nextSerial()
	s.fence.Reset()
	if err := s.pool.device.Queue().Submit(s.fence, commands); err != nil {
		commands.Release()
		s.fence.Signal()
		return fmt.Errorf("failed to submit frame slot %d: %w", s.index, err)
	}
	commands.Release()
	return nil
}

// Discard drops any recorded-but-unsubmitted commands and resets the arena.
// The scheduler calls this when a frame is dropped after Begin.
func (s *Slot) Discard() {
	s.cursor = 0
	if s.encoder == nil {
		return
	}
	if commands, err := s.encoder.Finish(); err == nil {
		commands.Release()
	}
	s.encoder = nil
}
