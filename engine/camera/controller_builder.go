package camera

// CameraControllerOption configures an orbit controller during
// NewCameraController.
type CameraControllerOption func(*orbitController)

// WithRadius sets the starting distance from the pivot.
//
// Parameters:
//   - radius: distance from the pivot
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithRadius(radius float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.radius = radius
	}
}

// WithAzimuth sets the starting horizontal angle. Zero places the eye on the
// +Z side of the pivot.
//
// Parameters:
//   - azimuth: angle in radians
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.azimuth = azimuth
	}
}

// WithElevation sets the starting vertical angle above the horizontal plane.
//
// Parameters:
//   - elevation: angle in radians
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithElevation(elevation float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.elevation = elevation
	}
}

// WithControllerTarget sets the pivot point to orbit.
//
// Parameters:
//   - x, y, z: pivot components
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithControllerTarget(x, y, z float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.target = [3]float32{x, y, z}
	}
}

// WithRadiusBounds sets how close and how far zooming may move the eye.
//
// Parameters:
//   - minRadius: closest allowed distance
//   - maxRadius: farthest allowed distance
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithRadiusBounds(minRadius, maxRadius float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.minRadius = minRadius
		oc.maxRadius = maxRadius
	}
}

// WithElevationBounds sets the vertical angle limits. Keeping the bounds
// strictly inside -pi/2 to pi/2 stops the orbit from crossing the poles.
//
// Parameters:
//   - minElevation: lowest allowed angle in radians
//   - maxElevation: highest allowed angle in radians
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithElevationBounds(minElevation, maxElevation float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.minElevation = minElevation
		oc.maxElevation = maxElevation
	}
}

// WithOrbitSpeed sets the radians applied per keyboard orbit step.
//
// Parameters:
//   - step: radians per step
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithOrbitSpeed(step float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.orbitStep = step
	}
}

// WithMouseSensitivity sets the radians-per-pixel factor for drag input.
//
// Parameters:
//   - sensitivity: radians per pixel dragged
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the distance applied per scroll step.
//
// Parameters:
//   - speed: distance per scroll step
//
// Returns:
//   - CameraControllerOption: option function to apply
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(oc *orbitController) {
		oc.zoomSpeed = speed
	}
}
