package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFrustumPlanesAreNormalized(t *testing.T) {
	var proj, view, viewProj [16]float32
	Perspective(proj[:], math.Pi/2, 1.0, 0.1, 100.0)
	LookAt(view[:], 0, 0, 0, 0, 0, -1, 0, 1, 0)
	Mul4(viewProj[:], proj[:], view[:])

	f := ExtractFrustumFromMatrix(viewProj[:])
	for i, p := range f.Planes {
		length := p.Normal[0]*p.Normal[0] + p.Normal[1]*p.Normal[1] + p.Normal[2]*p.Normal[2]
		assert.InDelta(t, 1.0, length, 1e-4, "plane %d", i)
	}
}

func TestFrustumIntersectsSphere(t *testing.T) {
	// Camera at the origin looking down -Z, 90 degree fov, square aspect.
	// At view depth 10 the frustum cross-section spans [-10, 10] on both axes.
	var proj, view, viewProj [16]float32
	Perspective(proj[:], math.Pi/2, 1.0, 0.1, 100.0)
	LookAt(view[:], 0, 0, 0, 0, 0, -1, 0, 1, 0)
	Mul4(viewProj[:], proj[:], view[:])
	f := ExtractFrustumFromMatrix(viewProj[:])

	assert.True(t, f.IntersectsSphere([3]float32{0, 0, -10}, 1), "in front of the camera")
	assert.False(t, f.IntersectsSphere([3]float32{100, 0, -10}, 1), "far off to the right")
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, 10}, 1), "behind the camera")
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, -150}, 1), "beyond the far plane")

	// A sphere centered just outside the right plane straddles it when the
	// radius is large enough and is rejected when it is not.
	assert.True(t, f.IntersectsSphere([3]float32{11, 0, -10}, 2))
	assert.False(t, f.IntersectsSphere([3]float32{11, 0, -10}, 0.1))
}

func TestFrustumFromIdentityMatrix(t *testing.T) {
	var id [16]float32
	Identity(id[:])
	f := ExtractFrustumFromMatrix(id[:])

	// An identity view-projection yields the clip-space cube directly.
	assert.True(t, f.IntersectsSphere([3]float32{0, 0, 0}, 1))
	assert.True(t, f.IntersectsSphere([3]float32{1.5, 0, 0}, 1))
	assert.False(t, f.IntersectsSphere([3]float32{3, 0, 0}, 1))
	assert.False(t, f.IntersectsSphere([3]float32{0, -3, 0}, 1))
}
