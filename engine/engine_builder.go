package engine

import (
	"time"

	"github.com/Carmen-Shannon/lumen-go/engine/framepool"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/graph"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
	"github.com/Carmen-Shannon/lumen-go/engine/scene"
	"github.com/Carmen-Shannon/lumen-go/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithDevice sets the GPU device the engine renders with. Required; the
// caller keeps ownership and destroys the device after Run returns.
//
// Parameters:
//   - device: the device to render with
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDevice(device gpu.Device) EngineBuilderOption {
	return func(e *engine) {
		e.device = device
	}
}

// WithWindow sets a pre-configured window for the engine to present to.
// Without one the engine runs headless at the default surface size.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithScene sets the scene the render loop snapshots each frame.
//
// Parameters:
//   - s: the scene to render
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the engine tick rate in frames per second.
// The tick callback will be called at this rate for game logic updates.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.engineTickRate = time.Second / time.Duration(fps)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}

// WithFramesInFlight sets how many frames may be outstanding on the GPU
// before the scheduler blocks. Clamped to [1, 3] by the frame pool.
//
// Parameters:
//   - frames: the in-flight frame bound (default 2)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFramesInFlight(frames int) EngineBuilderOption {
	return func(e *engine) {
		e.framesInFlight = frames
	}
}

// WithPresentMode selects the surface presentation pacing.
//
// Parameters:
//   - mode: Fifo (vsync, default), Immediate, or Mailbox
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPresentMode(mode gpu.PresentMode) EngineBuilderOption {
	return func(e *engine) {
		e.presentMode = mode
	}
}

// WithRegistryOptions forwards options to the engine's resource registry,
// e.g. registry.WithUploadWorkers.
//
// Parameters:
//   - opts: registry builder options to apply at construction
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRegistryOptions(opts ...registry.RegistryBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.regOpts = append(e.regOpts, opts...)
	}
}

// WithPoolOptions forwards options to the engine's frame pool, e.g.
// framepool.WithAcquireTimeout.
//
// Parameters:
//   - opts: pool builder options to apply at construction
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPoolOptions(opts ...framepool.PoolBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.poolOpts = append(e.poolOpts, opts...)
	}
}

// WithGraphOptions forwards options to the engine's render graph, e.g.
// graph.WithClearColor.
//
// Parameters:
//   - opts: graph builder options to apply at construction
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGraphOptions(opts ...graph.GraphBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.graphOpts = append(e.graphOpts, opts...)
	}
}
