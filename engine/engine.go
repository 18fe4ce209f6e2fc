// Package engine is the frame scheduler: it owns the tick and render
// goroutines, drives one frame per presentation tick through surface acquire,
// slot acquire, snapshot, record, submit and present, and recovers from
// surface loss by reconfiguring the swapchain-dependent resources.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/lumen-go/engine/framepool"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/graph"
	"github.com/Carmen-Shannon/lumen-go/engine/material"
	"github.com/Carmen-Shannon/lumen-go/engine/profiler"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
	"github.com/Carmen-Shannon/lumen-go/engine/scene"
	"github.com/Carmen-Shannon/lumen-go/engine/window"
	"github.com/Carmen-Shannon/lumen-go/log"
)

// State is the frame scheduler's position in the per-tick frame lifecycle.
type State int32

const (
	// StateIdle means no frame is in flight on the control goroutine.
	StateIdle State = iota
	// StateAcquiringSurface means the scheduler is acquiring the presentable
	// surface image.
	StateAcquiringSurface
	// StateRecordingFrame means a frame slot is held and passes are being
	// recorded. Only one frame may be in this state at a time.
	StateRecordingFrame
	// StateSubmitted means the recorded commands were handed to the GPU queue.
	StateSubmitted
	// StatePresenting means the frame's surface image is being presented.
	StatePresenting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAcquiringSurface:
		return "AcquiringSurface"
	case StateRecordingFrame:
		return "RecordingFrame"
	case StateSubmitted:
		return "Submitted"
	case StatePresenting:
		return "Presenting"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// engine implements the Engine interface.
// Coordinates the tick, render, and window threads around one GPU device.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	device gpu.Device

	reg       registry.Registry
	materials material.DescriptorCache
	pool      framepool.Pool
	graph     graph.Graph

	mu       *sync.Mutex
	scene    scene.Scene
	snapshot *scene.Snapshot

	// resizePending latches the most recent window resize; the render
	// goroutine applies it at the next frame boundary.
	resizePending bool
	pendingWidth  uint32
	pendingHeight uint32

	// surfaceWidth/Height track the last applied surface configuration; the
	// surface-lost recovery path reconfigures at these dimensions.
	surfaceWidth  uint32
	surfaceHeight uint32

	state          atomic.Int32
	framesRendered atomic.Uint64
	framesLost     atomic.Uint64

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	framesInFlight int
	presentMode    gpu.PresentMode
	regOpts        []registry.RegistryBuilderOption
	poolOpts       []framepool.PoolBuilderOption
	graphOpts      []graph.GraphBuilderOption

	logger log.Logger
}

// Engine is the main entry point for the renderer.
// It orchestrates the frame scheduler, tick loop, and window management.
type Engine interface {
	// Window returns the underlying window, nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Device returns the GPU device the engine renders with.
	//
	// Returns:
	//   - gpu.Device: the device instance
	Device() gpu.Device

	// Registry returns the resource registry for registering meshes and
	// textures rendered by the engine's scene.
	//
	// Returns:
	//   - registry.Registry: the engine's resource registry
	Registry() registry.Registry

	// Scene returns the scene the render loop snapshots each frame.
	//
	// Returns:
	//   - scene.Scene: the active scene, or nil if none is set
	Scene() scene.Scene

	// SetScene replaces the scene the render loop snapshots each frame.
	// Safe to call while the engine runs; the change applies at the next
	// frame boundary. The scene's active camera adopts the current surface
	// aspect ratio immediately.
	//
	// Parameters:
	//   - s: the scene to render, or nil to render nothing
	SetScene(s scene.Scene)

	// State reports the frame scheduler's current lifecycle state. The value
	// is a point-in-time read; the render goroutine advances it continuously.
	//
	// Returns:
	//   - State: the scheduler state at the time of the call
	State() State

	// FramesRendered reports how many frames completed the full
	// record/submit/present cycle.
	//
	// Returns:
	//   - uint64: the completed frame count
	FramesRendered() uint64

	// FramesLost reports how many frames were dropped to surface loss, pool
	// starvation, or recording failures.
	//
	// Returns:
	//   - uint64: the dropped frame count
	FramesLost() uint64

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// The tick callback will be called at this rate for game logic updates.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for game logic, input processing, and animation updates that
	// mutate the scene.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each render frame.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the engine goroutines and blocks until the window closes or
	// Quit is called, then tears the GPU stack down.
	Run()

	// Quit signals all engine goroutines to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates an Engine around a GPU device: it builds the resource
// registry, material descriptor cache, frame pool and render graph, wires
// deferred destruction to frame completion, and configures the surface at
// the window's size (1280x720 headless).
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the wired engine, ready for Run
//   - error: an error if a required piece could not be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		mu:              &sync.Mutex{},
		snapshot:        &scene.Snapshot{},
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
		framesInFlight:  2,
		presentMode:     gpu.PresentModeFifo,
		surfaceWidth:    1280,
		surfaceHeight:   720,
		logger:          log.New("engine"),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.device == nil {
		return nil, fmt.Errorf("engine requires a device, pass WithDevice")
	}

	reg, err := registry.NewRegistry(e.device, e.regOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource registry: %w", err)
	}
	e.reg = reg

	materials, err := material.NewDescriptorCache(e.device, e.reg)
	if err != nil {
		e.reg.Close()
		return nil, fmt.Errorf("failed to create descriptor cache: %w", err)
	}
	e.materials = materials

	// Frame completion drives the registry's deferred destruction: a released
	// resource is only destroyed once the last frame that referenced it has
	// signaled its fence.
	poolOpts := append([]framepool.PoolBuilderOption{
		framepool.WithFramesInFlight(e.framesInFlight),
		framepool.WithCollector(e.reg),
	}, e.poolOpts...)
	pool, err := framepool.New(e.device, poolOpts...)
	if err != nil {
		e.materials.Close()
		e.reg.Close()
		return nil, fmt.Errorf("failed to create frame pool: %w", err)
	}
	e.pool = pool

	g, err := graph.NewGraph(e.device, e.reg, e.materials, e.graphOpts...)
	if err != nil {
		e.pool.Close()
		e.materials.Close()
		e.reg.Close()
		return nil, fmt.Errorf("failed to create render graph: %w", err)
	}
	e.graph = g

	e.profiler.SetSource(func() string {
		gs := e.graph.Stats()
		ps := e.pool.Stats()
		rs := e.reg.Stats()
		return fmt.Sprintf("Draws: %d (culled %d, skipped %d) | Slot timeouts: %d | Pending uploads: %d | Frames lost: %d",
			gs.LastDraws, gs.LastCulled, gs.LastSkipped, ps.Timeouts, rs.PendingUploads, e.framesLost.Load())
	})

	if e.window != nil {
		width, height := e.window.Size()
		e.surfaceWidth = uint32(width)
		e.surfaceHeight = uint32(height)
		e.window.SetResizeCallback(func(width, height int) {
			e.requestResize(uint32(width), uint32(height))
		})
	}

	if err := e.configureSurface(e.surfaceWidth, e.surfaceHeight); err != nil {
		e.shutdown()
		return nil, err
	}

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Device() gpu.Device {
	return e.device
}

func (e *engine) Registry() registry.Registry {
	return e.reg
}

func (e *engine) Scene() scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene
}

func (e *engine) SetScene(s scene.Scene) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene = s
	if s == nil || e.surfaceHeight == 0 {
		return
	}
	// Scenes attached after the surface exists pick up its aspect right away
	// instead of waiting for the next resize.
	if cam, ok := s.ActiveCamera(); ok {
		cam.SetAspect(float32(e.surfaceWidth) / float32(e.surfaceHeight))
	}
}

func (e *engine) State() State {
	return State(e.state.Load())
}

func (e *engine) FramesRendered() uint64 {
	return e.framesRendered.Load()
}

func (e *engine) FramesLost() uint64 {
	return e.framesLost.Load()
}

func (e *engine) Run() {
	e.running = true
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	}
	e.wg.Wait()
	e.shutdown()
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running = false
		close(e.quitChannel)
	})
}

// shutdown tears the GPU stack down in dependency order. The device and
// window stay with their creator.
func (e *engine) shutdown() {
	if e.graph != nil {
		e.graph.Close()
		e.graph = nil
	}
	if e.pool != nil {
		e.pool.Close()
		e.pool = nil
	}
	if e.materials != nil {
		e.materials.Close()
		e.materials = nil
	}
	if e.reg != nil {
		e.reg.Close()
		e.reg = nil
	}
}

// handle launches the engine, render, and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(3)
	go e.handleEngine()
	go e.handleRender()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback at the configured tick rate and listens for dynamic
// rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// handleRender runs the render loop in its own goroutine, one frame per
// iteration. Recovers from panics to avoid crashing the process and signals
// quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			e.renderFrame()

			if e.renderCallback != nil {
				e.renderCallback(dt)
			}

			if e.profilingEnabled && e.profiler != nil {
				e.profiler.Tick()
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// renderFrame drives one frame through the scheduler states. Every failure
// drops exactly this frame and returns the scheduler to Idle; the next tick
// proceeds normally.
func (e *engine) renderFrame() {
	e.applyPendingResize()

	sc := e.Scene()
	if sc == nil {
		return
	}

	e.state.Store(int32(StateAcquiringSurface))
	surface, err := e.device.AcquireSurfaceTexture()
	if err != nil {
		e.state.Store(int32(StateIdle))
		e.framesLost.Add(1)
		switch {
		case errors.Is(err, gpu.ErrSurfaceLost):
			e.logger.Noticef("surface lost, reconfiguring at %dx%d", e.surfaceWidth, e.surfaceHeight)
			if rerr := e.configureSurface(e.surfaceWidth, e.surfaceHeight); rerr != nil {
				e.logger.Errorf("surface recovery failed: %v", rerr)
				e.signalQuit()
			}
		case errors.Is(err, gpu.ErrDeviceLost):
			e.logger.Errorf("device lost, shutting down: %v", err)
			e.signalQuit()
		default:
			e.logger.Warningf("surface acquire failed: %v", err)
		}
		return
	}

	// The sole blocking point: waits for the oldest in-flight frame's fence
	// when all slots are outstanding.
	slot, err := e.pool.Acquire()
	if err != nil {
		e.dropFrame("frame slot unavailable: %v", err)
		return
	}

	e.state.Store(int32(StateRecordingFrame))
	if err := slot.Begin(); err != nil {
		e.dropFrame("failed to begin frame: %v", err)
		return
	}

	sc.SnapshotInto(e.snapshot)

	if err := e.graph.Record(slot, surface, e.snapshot); err != nil {
		slot.Discard()
		e.dropFrame("frame dropped: %v", err)
		return
	}

	e.state.Store(int32(StateSubmitted))
	if err := slot.SubmitAndSignal(); err != nil {
		e.dropFrame("frame submit failed: %v", err)
		return
	}

	e.state.Store(int32(StatePresenting))
	e.device.Present()
	e.framesRendered.Add(1)
	e.state.Store(int32(StateIdle))
}

// dropFrame logs a dropped frame, presents the held surface so the swapchain
// keeps advancing, and returns the scheduler to Idle.
func (e *engine) dropFrame(format string, args ...any) {
	e.logger.Warningf(format, args...)
	e.device.Present()
	e.framesLost.Add(1)
	e.state.Store(int32(StateIdle))
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// requestResize latches a resize request from the window thread; the render
// goroutine applies it at the next frame boundary.
func (e *engine) requestResize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	e.mu.Lock()
	e.resizePending = true
	e.pendingWidth = width
	e.pendingHeight = height
	e.mu.Unlock()
}

func (e *engine) applyPendingResize() {
	e.mu.Lock()
	pending := e.resizePending
	width, height := e.pendingWidth, e.pendingHeight
	e.resizePending = false
	e.mu.Unlock()
	if !pending {
		return
	}
	if err := e.configureSurface(width, height); err != nil {
		e.logger.Errorf("resize to %dx%d failed: %v", width, height, err)
		e.signalQuit()
	}
}

// configureSurface reconfigures the swapchain and rebuilds every
// swapchain-dependent resource: the surface itself, the render graph's
// attachments, and the active camera's aspect ratio.
func (e *engine) configureSurface(width, height uint32) error {
	if err := e.device.ConfigureSurface(gpu.SurfaceConfig{
		Width:       width,
		Height:      height,
		PresentMode: e.presentMode,
	}); err != nil {
		return fmt.Errorf("failed to configure surface at %dx%d: %w", width, height, err)
	}
	if err := e.graph.Resize(width, height); err != nil {
		return fmt.Errorf("failed to resize frame targets: %w", err)
	}
	e.mu.Lock()
	e.surfaceWidth = width
	e.surfaceHeight = height
	e.mu.Unlock()

	if sc := e.Scene(); sc != nil {
		if cam, ok := sc.ActiveCamera(); ok {
			cam.SetAspect(float32(width) / float32(height))
		}
	}
	return nil
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	if e.running {
		// Send to channel for immediate update in running engine loop
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case e.tickRateChannel <- newRate:
		default:
			// Channel has a pending update, drain and send new value
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		// Engine not running, just update the field
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
