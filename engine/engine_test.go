package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/camera"
	"github.com/Carmen-Shannon/lumen-go/engine/framepool"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/material"
	"github.com/Carmen-Shannon/lumen-go/engine/scene"
)

func newTestEngine(t *testing.T, dev *gpu.NullDevice, opts ...EngineBuilderOption) *engine {
	t.Helper()
	eng, err := NewEngine(append([]EngineBuilderOption{WithDevice(dev)}, opts...)...)
	require.NoError(t, err)
	e := eng.(*engine)
	t.Cleanup(e.shutdown)
	return e
}

// populateScene attaches one camera and one shaded triangle to a fresh scene
// registered through the engine's registry.
func populateScene(t *testing.T, e *engine) scene.Scene {
	t.Helper()
	sc := scene.NewScene(scene.WithComputeWorkers(1))

	data := common.MeshData{
		Name: "triangle",
		Vertices: []common.Vertex{
			{Position: [3]float32{-1, -1, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{1, -1, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{0, 1, 0}, Normal: [3]float32{0, 0, 1}},
		},
		Indices: []uint32{0, 1, 2},
	}
	handle, err := e.Registry().RegisterMesh(data)
	require.NoError(t, err)

	body := sc.CreateEntity()
	require.NoError(t, sc.SetMesh(body, scene.MeshRefFor(handle, data)))
	require.NoError(t, sc.SetMaterials(body, material.NewMaterial(material.WithName("body"))))

	eye := sc.CreateEntity()
	require.NoError(t, sc.SetCamera(eye, camera.NewCamera()))

	e.SetScene(sc)
	return sc
}

func TestNewEngineRequiresDevice(t *testing.T) {
	_, err := NewEngine()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device")
}

func TestRenderFrameFullCycle(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	e := newTestEngine(t, dev)
	populateScene(t, e)
	dev.ResetLog()

	e.renderFrame()

	assert.Equal(t, uint64(1), e.FramesRendered())
	assert.Zero(t, e.FramesLost())
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, 1, dev.Presents())

	var passes []string
	for _, rec := range dev.CommandLog() {
		if rec.Kind == gpu.CommandKindBeginPass {
			passes = append(passes, rec.Pass)
		}
	}
	assert.Equal(t, []string{"Geometry Pass", "Lighting Pass", "Tone Mapping Pass"}, passes)
}

func TestRenderFrameWithoutSceneIsNoop(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	e := newTestEngine(t, dev)

	e.renderFrame()

	assert.Zero(t, e.FramesRendered())
	assert.Zero(t, e.FramesLost())
	assert.Zero(t, dev.Presents())
}

func TestSurfaceLostRecoversNextTick(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	e := newTestEngine(t, dev)
	populateScene(t, e)

	dev.FailNextAcquire(gpu.ErrSurfaceLost)
	e.renderFrame()

	assert.Zero(t, e.FramesRendered())
	assert.Equal(t, uint64(1), e.FramesLost())
	assert.Equal(t, StateIdle, e.State())

	// Recovery completed within the failed tick; the very next tick renders.
	e.renderFrame()

	assert.Equal(t, uint64(1), e.FramesRendered())
	assert.Equal(t, uint64(1), e.FramesLost())
}

func TestDeviceLostSignalsQuit(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	e := newTestEngine(t, dev)
	populateScene(t, e)

	dev.FailNextAcquire(gpu.ErrDeviceLost)
	e.renderFrame()

	assert.Equal(t, uint64(1), e.FramesLost())
	select {
	case <-e.quitChannel:
	default:
		t.Fatal("device loss did not signal quit")
	}
}

func TestSubmitFailureDropsFrameAndContinues(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	e := newTestEngine(t, dev)
	populateScene(t, e)

	dev.FailNextFinish(assert.AnError)
	e.renderFrame()

	assert.Zero(t, e.FramesRendered())
	assert.Equal(t, uint64(1), e.FramesLost())
	assert.Equal(t, StateIdle, e.State())
	// The held surface was still presented so the swapchain keeps advancing.
	assert.Equal(t, 1, dev.Presents())

	e.renderFrame()
	assert.Equal(t, uint64(1), e.FramesRendered())
}

func TestInFlightBoundBlocksThirdFrame(t *testing.T) {
	dev := gpu.NewNullDevice()
	e := newTestEngine(t, dev,
		WithFramesInFlight(2),
		WithPoolOptions(framepool.WithAcquireTimeout(20*time.Millisecond)),
	)
	populateScene(t, e)

	e.renderFrame()
	e.renderFrame()
	require.Equal(t, uint64(2), e.FramesRendered())
	require.Equal(t, 2, dev.PendingSubmissions())

	// Both slots are outstanding; the third frame times out waiting on the
	// oldest fence and is dropped.
	e.renderFrame()
	assert.Equal(t, uint64(2), e.FramesRendered())
	assert.Equal(t, uint64(1), e.FramesLost())

	// Completing the oldest submission unblocks the next tick.
	require.True(t, dev.CompleteOldestSubmission())
	e.renderFrame()
	assert.Equal(t, uint64(3), e.FramesRendered())
}

func TestResizeAppliesAtFrameBoundary(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	e := newTestEngine(t, dev)
	sc := populateScene(t, e)

	// Attaching the scene synced the camera to the default 1280x720 surface.
	cam0, ok := sc.ActiveCamera()
	require.True(t, ok)
	assert.InDelta(t, 1280.0/720.0, cam0.Lens().Aspect, 1e-6)

	e.requestResize(1024, 512)
	e.renderFrame()

	assert.Equal(t, uint32(1024), e.surfaceWidth)
	assert.Equal(t, uint32(512), e.surfaceHeight)
	cam, ok := sc.ActiveCamera()
	require.True(t, ok)
	assert.InDelta(t, 2.0, cam.Lens().Aspect, 1e-6)
	assert.Equal(t, uint64(1), e.FramesRendered())

	// Zero-sized requests (minimized window) are ignored.
	e.requestResize(0, 0)
	e.renderFrame()
	assert.Equal(t, uint32(1024), e.surfaceWidth)
}

func TestSchedulerReturnsToIdleAfterEveryOutcome(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	e := newTestEngine(t, dev)
	populateScene(t, e)

	assert.Equal(t, StateIdle, e.State())
	e.renderFrame()
	assert.Equal(t, StateIdle, e.State())

	dev.FailNextAcquire(gpu.ErrSurfaceLost)
	e.renderFrame()
	assert.Equal(t, StateIdle, e.State())

	dev.FailNextFinish(assert.AnError)
	e.renderFrame()
	assert.Equal(t, StateIdle, e.State())

	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "AcquiringSurface", StateAcquiringSurface.String())
	assert.Equal(t, "RecordingFrame", StateRecordingFrame.String())
	assert.Equal(t, "Submitted", StateSubmitted.String())
	assert.Equal(t, "Presenting", StatePresenting.String())
}

func TestRunLoopTicksAndQuits(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	e := newTestEngine(t, dev, WithTickRate(500), WithRenderFrameLimit(500))
	populateScene(t, e)

	var ticks, renders atomic.Int64
	e.SetTickCallback(func(float32) { ticks.Add(1) })
	e.SetRenderCallback(func(float32) { renders.Add(1) })

	e.running = true
	e.handle()
	time.Sleep(50 * time.Millisecond)
	e.Quit()
	e.Quit() // idempotent
	e.wg.Wait()

	assert.Positive(t, ticks.Load())
	assert.Positive(t, renders.Load())
	assert.Positive(t, e.FramesRendered())
}
