package framepool

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/log"
)

const (
	defaultFramesInFlight = 2
	maxFramesInFlight     = 3
	defaultAcquireTimeout = 1 * time.Second
	defaultScratchSize    = 256 << 10
)

// PoolBuilderOption is a functional option for configuring a Pool. Use the
// With* functions to create options that are applied directly to the pool
// instance.
type PoolBuilderOption func(*framePool)

// WithFramesInFlight sets the ring size F. Values below 1 keep the default
// of 2; values above 3 clamp to 3.
//
// Parameters:
//   - frames: the number of frames in flight
//
// Returns:
//   - PoolBuilderOption: option function to apply
func WithFramesInFlight(frames int) PoolBuilderOption {
	return func(p *framePool) {
		if frames < 1 {
			return
		}
		p.slots = make([]*Slot, min(frames, maxFramesInFlight))
	}
}

// WithAcquireTimeout sets how long Acquire waits for a slot's fence before
// giving up with a SlotTimeout. Values <= 0 keep the default of 1s.
//
// Parameters:
//   - timeout: the acquire timeout
//
// Returns:
//   - PoolBuilderOption: option function to apply
func WithAcquireTimeout(timeout time.Duration) PoolBuilderOption {
	return func(p *framePool) {
		if timeout <= 0 {
			return
		}
		p.timeout = timeout
	}
}

// WithScratchSize sets the byte size of each slot's uniform scratch buffer.
// Zero keeps the default of 256 KiB.
//
// Parameters:
//   - size: the scratch buffer size in bytes
//
// Returns:
//   - PoolBuilderOption: option function to apply
func WithScratchSize(size uint64) PoolBuilderOption {
	return func(p *framePool) {
		if size == 0 {
			return
		}
		p.scratchSize = size
	}
}

// WithCollector attaches a frame completion collector, typically the resource
// registry, so deferred destruction runs as frames complete.
//
// Parameters:
//   - c: the collector
//
// Returns:
//   - PoolBuilderOption: option function to apply
func WithCollector(c Collector) PoolBuilderOption {
	return func(p *framePool) {
		p.collector = c
	}
}

// New creates the frame resource pool with every slot's fence signaled, so
// the first F acquires return immediately.
//
// Parameters:
//   - device: the device slots record and submit against
//   - opts: pool options
//
// Returns:
//   - Pool: the created pool
//   - error: an error if scratch buffer creation failed
func New(device gpu.Device, opts ...PoolBuilderOption) (Pool, error) {
	p := &framePool{
		mu:          &sync.Mutex{},
		device:      device,
		logger:      log.New("framepool"),
		slots:       make([]*Slot, defaultFramesInFlight),
		timeout:     defaultAcquireTimeout,
		scratchSize: defaultScratchSize,
		alignment:   uint64(common.Coalesce(device.Limits().MinUniformBufferOffsetAlignment, 256)),
	}
	for _, opt := range opts {
		opt(p)
	}

	for i := range p.slots {
		scratch, err := device.CreateBuffer(&gpu.BufferDescriptor{
			Label: fmt.Sprintf("Frame Slot %d Scratch", i),
			Size:  p.scratchSize,
			Usage: gpu.BufferUsageUniform | gpu.BufferUsageCopyDst,
		})
		if err != nil {
			for _, slot := range p.slots[:i] {
				slot.scratch.Release()
			}
			return nil, fmt.Errorf("failed to create scratch buffer for slot %d: %w", i, err)
		}
		p.slots[i] = &Slot{
			pool:    p,
			index:   i,
			fence:   gpu.NewFence(true),
			scratch: scratch,
		}
	}
	p.logger.Debugf("frame pool ready: %d slots, %d byte scratch each", len(p.slots), p.scratchSize)
	return p, nil
}
