package light

// LightBuilderOption configures a light during NewLight.
type LightBuilderOption func(*lightSource)

// WithPosition sets the world-space position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightSource) {
		l.position = [3]float32{x, y, z}
	}
}

// WithDirection sets the emit direction, normalized before storing.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightSource) {
		l.direction = unit3([3]float32{x, y, z})
	}
}

// WithColor sets the RGB color.
//
// Parameters:
//   - r, g, b: color components
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightSource) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity sets the scalar brightness multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightSource) {
		l.intensity = intensity
	}
}

// WithRange sets the attenuation cutoff distance for point and spot lights.
//
// Parameters:
//   - reach: the cutoff distance
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithRange(reach float32) LightBuilderOption {
	return func(l *lightSource) {
		l.reach = reach
	}
}

// WithSpotCone sets the spot cone half-angles, given in degrees and stored as
// cosines.
//
// Parameters:
//   - innerDeg: inner half-angle in degrees
//   - outerDeg: outer half-angle in degrees
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithSpotCone(innerDeg, outerDeg float32) LightBuilderOption {
	return func(l *lightSource) {
		l.cosInner = cosDeg(innerDeg)
		l.cosOuter = cosDeg(outerDeg)
	}
}

// WithEnabled sets whether the light starts active.
//
// Parameters:
//   - enabled: true to include the light in rendering
//
// Returns:
//   - LightBuilderOption: option function to apply
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightSource) {
		l.enabled = enabled
	}
}
