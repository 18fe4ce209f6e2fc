package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// CameraController owns the positional state a camera renders from. The
// built-in implementation orbits a pivot point on spherical coordinates:
// azimuth around the world Y axis, elevation above the horizontal plane, and
// radius out from the pivot.
type CameraController interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - x, y, z: eye position components
	Position() (x, y, z float32)

	// SetPosition places the eye directly, off the orbit sphere. The next
	// orbit, zoom, or target change snaps the eye back onto the sphere.
	//
	// Parameters:
	//   - x, y, z: eye position components
	SetPosition(x, y, z float32)

	// Target returns the pivot point the controller orbits.
	//
	// Returns:
	//   - x, y, z: pivot components
	Target() (x, y, z float32)

	// SetTarget moves the pivot and recomputes the eye position from the
	// orbit coordinates.
	//
	// Parameters:
	//   - x, y, z: pivot components
	SetTarget(x, y, z float32)

	// Azimuth returns the horizontal orbit angle in radians.
	//
	// Returns:
	//   - float32: azimuth in radians, zero on the +Z side of the pivot
	Azimuth() float32

	// SetAzimuth sets the horizontal orbit angle directly.
	//
	// Parameters:
	//   - azimuth: angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical orbit angle in radians.
	//
	// Returns:
	//   - float32: elevation above the horizontal plane
	Elevation() float32

	// SetElevation sets the vertical orbit angle, clamped to the elevation
	// bounds.
	//
	// Parameters:
	//   - elevation: angle in radians
	SetElevation(elevation float32)

	// Radius returns the distance between eye and pivot.
	//
	// Returns:
	//   - float32: orbit radius
	Radius() float32

	// SetRadius sets the orbit radius, clamped to the radius bounds.
	//
	// Parameters:
	//   - radius: distance from the pivot
	SetRadius(radius float32)

	// Zoom moves the eye along the view ray, scaled by the zoom speed and
	// clamped to the radius bounds.
	//
	// Parameters:
	//   - delta: scroll amount, positive toward the pivot
	Zoom(delta float32)

	// OrbitLeft swings the eye left around the pivot by one keyboard step.
	OrbitLeft()

	// OrbitRight swings the eye right around the pivot by one keyboard step.
	OrbitRight()

	// OrbitUp raises the eye by one keyboard step, clamped to the elevation
	// bounds.
	OrbitUp()

	// OrbitDown lowers the eye by one keyboard step, clamped to the elevation
	// bounds.
	OrbitDown()

	// MouseSensitivity returns the radians-per-pixel factor for drag input.
	//
	// Returns:
	//   - float32: drag sensitivity
	MouseSensitivity() float32

	// ZoomSpeed returns the distance applied per scroll step.
	//
	// Returns:
	//   - float32: zoom speed
	ZoomSpeed() float32
}

type orbitController struct {
	mu sync.RWMutex

	position [3]float32
	target   [3]float32

	azimuth   float32
	elevation float32
	radius    float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitStep        float32
	mouseSensitivity float32
	zoomSpeed        float32
}

var _ CameraController = (*orbitController)(nil)

// NewCameraController creates an orbit controller pivoting on the origin.
// Defaults suit a unit-scale scene: radius 5 at a 30 degree elevation, with
// step sizes tuned for per-event keyboard and scroll input.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	oc := &orbitController{
		radius:    5,
		elevation: math32.Pi / 6,

		minRadius:    0.5,
		maxRadius:    100,
		minElevation: 0.05,
		maxElevation: math32.Pi/2 - 0.1,

		orbitStep:        0.03,
		mouseSensitivity: 0.005,
		zoomSpeed:        0.5,
	}
	for _, option := range options {
		option(oc)
	}
	oc.moveEye()
	return oc
}

// moveEye places the eye on the orbit sphere from the current spherical
// coordinates. Caller must hold the write lock.
func (oc *orbitController) moveEye() {
	horiz := oc.radius * math32.Cos(oc.elevation)
	oc.position = [3]float32{
		oc.target[0] + horiz*math32.Sin(oc.azimuth),
		oc.target[1] + oc.radius*math32.Sin(oc.elevation),
		oc.target[2] + horiz*math32.Cos(oc.azimuth),
	}
}

// swing applies one keyboard orbit step in the given directions.
func (oc *orbitController) swing(azDir, elDir float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.azimuth += azDir * oc.orbitStep
	oc.elevation = clamp(oc.elevation+elDir*oc.orbitStep, oc.minElevation, oc.maxElevation)
	oc.moveEye()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (oc *orbitController) Position() (x, y, z float32) {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.position[0], oc.position[1], oc.position[2]
}

func (oc *orbitController) SetPosition(x, y, z float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.position = [3]float32{x, y, z}
}

func (oc *orbitController) Target() (x, y, z float32) {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.target[0], oc.target[1], oc.target[2]
}

func (oc *orbitController) SetTarget(x, y, z float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = [3]float32{x, y, z}
	oc.moveEye()
}

func (oc *orbitController) Azimuth() float32 {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.azimuth
}

func (oc *orbitController) SetAzimuth(azimuth float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.azimuth = azimuth
	oc.moveEye()
}

func (oc *orbitController) Elevation() float32 {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.elevation
}

func (oc *orbitController) SetElevation(elevation float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.elevation = clamp(elevation, oc.minElevation, oc.maxElevation)
	oc.moveEye()
}

func (oc *orbitController) Radius() float32 {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.radius
}

func (oc *orbitController) SetRadius(radius float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.radius = clamp(radius, oc.minRadius, oc.maxRadius)
	oc.moveEye()
}

func (oc *orbitController) Zoom(delta float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.radius = clamp(oc.radius-delta*oc.zoomSpeed, oc.minRadius, oc.maxRadius)
	oc.moveEye()
}

func (oc *orbitController) OrbitLeft() { oc.swing(-1, 0) }

func (oc *orbitController) OrbitRight() { oc.swing(1, 0) }

func (oc *orbitController) OrbitUp() { oc.swing(0, 1) }

func (oc *orbitController) OrbitDown() { oc.swing(0, -1) }

func (oc *orbitController) MouseSensitivity() float32 {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.mouseSensitivity
}

func (oc *orbitController) ZoomSpeed() float32 {
	oc.mu.RLock()
	defer oc.mu.RUnlock()
	return oc.zoomSpeed
}
