package light

import (
	"sync"

	"github.com/chewxy/math32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// Directional lights have no position, only a direction. They model large
	// distant emitters like the sun and reach every fragment without
	// attenuation.
	Directional LightType = iota

	// Point lights emit in all directions from a position and fade to zero at
	// their range limit.
	Point

	// Spot lights emit in a cone from a position along a direction,
	// attenuating with both distance and angle off the cone axis.
	Spot
)

// Light is a scene-level light source evaluated by the deferred lighting
// pass. All three kinds share this interface; kind-specific properties read
// as zero values where they do not apply. Enabled lights are captured into
// scene snapshots and marshaled into the GPU light buffer each frame.
//
// Lights are safe for concurrent use: input callbacks mutate them on the
// window thread while snapshots capture them on the render goroutine.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: Directional, Point, or Spot
	Type() LightType

	// Position returns the world-space position. Directional lights ignore
	// it.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Direction returns the normalized emit direction: the travel direction
	// for directional lights, the cone axis for spot lights. Point lights
	// ignore it.
	//
	// Returns:
	//   - [3]float32: normalized direction
	Direction() [3]float32

	// Color returns the RGB color.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar brightness multiplier.
	//
	// Returns:
	//   - float32: the intensity
	Intensity() float32

	// Range returns the distance at which point and spot attenuation reaches
	// zero.
	//
	// Returns:
	//   - float32: the attenuation cutoff distance
	Range() float32

	// InnerCone returns the cosine of the spot inner half-angle. Fragments
	// inside it receive full cone intensity.
	//
	// Returns:
	//   - float32: cos(inner half-angle)
	InnerCone() float32

	// OuterCone returns the cosine of the spot outer half-angle. Fragments
	// outside it receive nothing from the cone falloff.
	//
	// Returns:
	//   - float32: cos(outer half-angle)
	OuterCone() float32

	// Enabled reports whether the light participates in rendering. Disabled
	// lights are skipped when the GPU buffer is marshaled.
	//
	// Returns:
	//   - bool: true when active
	Enabled() bool

	// SetPosition moves the light.
	//
	// Parameters:
	//   - x, y, z: world-space position components
	SetPosition(x, y, z float32)

	// SetDirection points the light. The vector is normalized before storing.
	//
	// Parameters:
	//   - x, y, z: direction components
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar brightness multiplier.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// SetRange sets the attenuation cutoff distance.
	//
	// Parameters:
	//   - reach: the new cutoff distance
	SetRange(reach float32)

	// SetSpotCone sets the spot cone half-angles, given in degrees and stored
	// as cosines.
	//
	// Parameters:
	//   - innerDeg: inner half-angle in degrees
	//   - outerDeg: outer half-angle in degrees
	SetSpotCone(innerDeg, outerDeg float32)

	// SetEnabled toggles the light's participation in rendering.
	//
	// Parameters:
	//   - enabled: true to include the light
	SetEnabled(enabled bool)
}

type lightSource struct {
	mu sync.RWMutex

	kind      LightType
	position  [3]float32
	direction [3]float32
	color     [3]float32
	intensity float32
	reach     float32
	cosInner  float32
	cosOuter  float32
	enabled   bool
}

var _ Light = (*lightSource)(nil)

// NewLight creates a light of the given kind. Defaults are a white unit
// intensity light pointing straight down, with a range of 10 and a 25 to 35
// degree spot cone.
//
// Parameters:
//   - kind: Directional, Point, or Spot
//   - opts: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(kind LightType, opts ...LightBuilderOption) Light {
	l := &lightSource{
		kind:      kind,
		direction: [3]float32{0, -1, 0},
		color:     [3]float32{1, 1, 1},
		intensity: 1,
		reach:     10,
		cosInner:  cosDeg(25),
		cosOuter:  cosDeg(35),
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightSource) Type() LightType {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.kind
}

func (l *lightSource) Position() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.position
}

func (l *lightSource) Direction() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.direction
}

func (l *lightSource) Color() [3]float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.color
}

func (l *lightSource) Intensity() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.intensity
}

func (l *lightSource) Range() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reach
}

func (l *lightSource) InnerCone() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cosInner
}

func (l *lightSource) OuterCone() float32 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cosOuter
}

func (l *lightSource) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

func (l *lightSource) SetPosition(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = [3]float32{x, y, z}
}

func (l *lightSource) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = unit3([3]float32{x, y, z})
}

func (l *lightSource) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = [3]float32{r, g, b}
}

func (l *lightSource) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightSource) SetRange(reach float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reach = reach
}

func (l *lightSource) SetSpotCone(innerDeg, outerDeg float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cosInner = cosDeg(innerDeg)
	l.cosOuter = cosDeg(outerDeg)
}

func (l *lightSource) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// unit3 normalizes v, or returns the zero vector when v has no length.
func unit3(v [3]float32) [3]float32 {
	length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if length == 0 {
		return [3]float32{}
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}

// cosDeg returns the cosine of an angle given in degrees.
func cosDeg(deg float32) float32 {
	return math32.Cos(deg * math32.Pi / 180)
}
