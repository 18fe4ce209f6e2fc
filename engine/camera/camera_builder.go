package camera

// CameraBuilderOption configures a camera during NewCamera.
type CameraBuilderOption func(*perspectiveCamera)

// WithLens replaces the default lens wholesale.
//
// Parameters:
//   - lens: the projection parameters to start with
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithLens(lens Lens) CameraBuilderOption {
	return func(c *perspectiveCamera) {
		c.lens = lens
	}
}

// WithFov overrides the vertical field of view of the default lens.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFov(fov float32) CameraBuilderOption {
	return func(c *perspectiveCamera) {
		c.lens.Fov = fov
	}
}

// WithNear overrides the near clip distance of the default lens.
//
// Parameters:
//   - near: near clip distance, must be positive
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithNear(near float32) CameraBuilderOption {
	return func(c *perspectiveCamera) {
		c.lens.Near = near
	}
}

// WithFar overrides the far clip distance of the default lens.
//
// Parameters:
//   - far: far clip distance
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithFar(far float32) CameraBuilderOption {
	return func(c *perspectiveCamera) {
		c.lens.Far = far
	}
}

// WithUp sets the world-space up direction.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithUp(up [3]float32) CameraBuilderOption {
	return func(c *perspectiveCamera) {
		c.up = up
	}
}

// WithController attaches a controller. The camera computes its first set of
// matrices from it before NewCamera returns.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: option function to apply
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *perspectiveCamera) {
		c.controller = ctrl
	}
}
