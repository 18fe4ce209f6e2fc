package camera

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/lumen-go/common"
)

// Lens holds the perspective projection parameters. A Lens is a plain value;
// build one and hand it to SetLens to retune the projection in a single call.
type Lens struct {
	Fov    float32 // vertical field of view in radians
	Aspect float32 // viewport width over height
	Near   float32 // near clip distance, must be positive
	Far    float32 // far clip distance
}

// DefaultLens returns the lens every new camera starts with: a 45 degree
// vertical field of view on a square viewport with a 0.1 to 100 clip range.
//
// Returns:
//   - Lens: the default projection parameters
func DefaultLens() Lens {
	return Lens{Fov: 45 * math32.Pi / 180, Aspect: 1, Near: 0.1, Far: 100}
}

// project writes the lens's perspective matrix into dst (16 floats).
func (l Lens) project(dst []float32) {
	common.Perspective(dst, l.Fov, l.Aspect, l.Near, l.Far)
}

// Camera produces the matrices the renderer captures into each frame
// snapshot. Positional state lives on the attached CameraController; the
// camera turns controller state and lens parameters into matrices on Update.
type Camera interface {
	// Lens returns the current projection parameters.
	//
	// Returns:
	//   - Lens: the projection parameters
	Lens() Lens

	// SetLens replaces the projection parameters and rebuilds the matrices.
	//
	// Parameters:
	//   - lens: the new projection parameters
	SetLens(lens Lens)

	// SetAspect updates only the aspect ratio, keeping the rest of the lens.
	// The engine calls this whenever the surface is reconfigured.
	//
	// Parameters:
	//   - aspect: viewport width over height
	SetAspect(aspect float32)

	// Up returns the world-space up direction used to orient the view.
	//
	// Returns:
	//   - [3]float32: the up vector
	Up() [3]float32

	// SetUp replaces the world-space up direction and rebuilds the matrices.
	//
	// Parameters:
	//   - up: the new up vector
	SetUp(up [3]float32)

	// ViewMatrix returns the view matrix in column-major order.
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the projection matrix in column-major order.
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns projection times view in column-major
	// order.
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// InverseViewProjectionMatrix returns the inverse of the combined matrix.
	// The deferred lighting pass uses it to reconstruct world-space positions
	// from depth buffer samples.
	//
	// Returns:
	//   - [16]float32: the inverse view-projection matrix
	InverseViewProjectionMatrix() [16]float32

	// Controller returns the attached controller, or nil when none is
	// attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// SetController attaches the controller the camera reads its eye position
	// and look target from.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// Update rereads the controller and rebuilds all four matrices. Call once
	// per frame before the scene snapshot is taken. Without a controller the
	// matrices keep their last values.
	Update()
}

type perspectiveCamera struct {
	mu sync.RWMutex

	lens Lens
	up   [3]float32

	view        [16]float32
	proj        [16]float32
	viewProj    [16]float32
	invViewProj [16]float32

	controller CameraController
}

var _ Camera = (*perspectiveCamera)(nil)

// NewCamera creates a camera with the default lens and a +Y up vector. The
// matrices start as identity and stay identity until a controller is
// attached, either here via WithController or later via SetController.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &perspectiveCamera{
		lens: DefaultLens(),
		up:   [3]float32{0, 1, 0},
	}
	common.Identity(c.view[:])
	common.Identity(c.proj[:])
	common.Identity(c.viewProj[:])
	common.Identity(c.invViewProj[:])
	for _, option := range options {
		option(c)
	}
	c.refresh()
	return c
}

func (c *perspectiveCamera) Lens() Lens {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lens
}

func (c *perspectiveCamera) SetLens(lens Lens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens = lens
	c.refresh()
}

func (c *perspectiveCamera) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lens.Aspect = aspect
	c.refresh()
}

func (c *perspectiveCamera) Up() [3]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.up
}

func (c *perspectiveCamera) SetUp(up [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
	c.refresh()
}

func (c *perspectiveCamera) ViewMatrix() [16]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

func (c *perspectiveCamera) ProjectionMatrix() [16]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.proj
}

func (c *perspectiveCamera) ViewProjectionMatrix() [16]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewProj
}

func (c *perspectiveCamera) InverseViewProjectionMatrix() [16]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.invViewProj
}

func (c *perspectiveCamera) Controller() CameraController {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.controller
}

func (c *perspectiveCamera) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

func (c *perspectiveCamera) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh()
}

// refresh rebuilds the four matrices from the controller and lens. Does
// nothing without a controller. Caller must hold the write lock.
func (c *perspectiveCamera) refresh() {
	if c.controller == nil {
		return
	}
	px, py, pz := c.controller.Position()
	tx, ty, tz := c.controller.Target()
	common.LookAt(c.view[:], px, py, pz, tx, ty, tz, c.up[0], c.up[1], c.up[2])
	c.lens.project(c.proj[:])
	common.Mul4(c.viewProj[:], c.proj[:], c.view[:])
	common.Invert4(c.invViewProj[:], c.viewProj[:])
}
