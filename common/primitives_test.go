package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereMeshGeometry(t *testing.T) {
	const rings, segments = 12, 16
	md := SphereMesh("unit_sphere", 1.0, rings, segments)

	assert.Equal(t, "unit_sphere", md.Name)
	assert.Len(t, md.Vertices, (rings+1)*(segments+1))
	assert.Len(t, md.Indices, rings*segments*6)

	for i, v := range md.Vertices {
		// Every vertex sits on the sphere surface and its normal is unit length.
		dist := math32.Sqrt(v.Position[0]*v.Position[0] + v.Position[1]*v.Position[1] + v.Position[2]*v.Position[2])
		assert.InDelta(t, 1.0, dist, 1e-4, "vertex %d position", i)

		n := math32.Sqrt(v.Normal[0]*v.Normal[0] + v.Normal[1]*v.Normal[1] + v.Normal[2]*v.Normal[2])
		assert.InDelta(t, 1.0, n, 1e-4, "vertex %d normal", i)
	}

	for i, idx := range md.Indices {
		require.Less(t, int(idx), len(md.Vertices), "index %d out of range", i)
	}

	bounds := BoundingSphere(md.Vertices)
	assert.InDelta(t, 0.0, bounds[0], 1e-3)
	assert.InDelta(t, 0.0, bounds[1], 1e-3)
	assert.InDelta(t, 0.0, bounds[2], 1e-3)
	assert.InDelta(t, 1.0, bounds[3], 1e-3)
}

func TestSphereMeshClampsSubdivisions(t *testing.T) {
	md := SphereMesh("tiny", 2.0, 0, 0)

	// Clamped to 2 rings and 3 segments.
	assert.Len(t, md.Vertices, 3*4)
	assert.Len(t, md.Indices, 2*3*6)
}

func TestPlaneMeshFacesUp(t *testing.T) {
	md := PlaneMesh("floor", 10, 8)

	require.Len(t, md.Vertices, 4)
	require.Len(t, md.Indices, 6)

	var maxU, maxV float32
	for _, v := range md.Vertices {
		assert.Equal(t, [3]float32{0, 1, 0}, v.Normal)
		assert.InDelta(t, 10.0, math32.Abs(v.Position[0]), 1e-5)
		assert.InDelta(t, 10.0, math32.Abs(v.Position[2]), 1e-5)
		assert.Zero(t, v.Position[1])
		maxU = math32.Max(maxU, v.UV[0])
		maxV = math32.Max(maxV, v.UV[1])
	}
	assert.Equal(t, float32(8), maxU)
	assert.Equal(t, float32(8), maxV)

	// Both triangles wind CCW when seen from +Y (the facing side).
	for tri := 0; tri < 2; tri++ {
		a := md.Vertices[md.Indices[tri*3+0]].Position
		b := md.Vertices[md.Indices[tri*3+1]].Position
		c := md.Vertices[md.Indices[tri*3+2]].Position
		// Cross product of the two edges must point up.
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		crossY := e1[2]*e2[0] - e1[0]*e2[2]
		assert.Positive(t, crossY, "triangle %d winds the wrong way", tri)
	}
}

func TestCubeMeshClosedBox(t *testing.T) {
	md := CubeMesh("box", 2)

	require.Len(t, md.Vertices, 24)
	require.Len(t, md.Indices, 36)

	for i, v := range md.Vertices {
		for axis := 0; axis < 3; axis++ {
			assert.InDelta(t, 2.0, math32.Abs(v.Position[axis]), 1e-5, "vertex %d axis %d", i, axis)
		}
		// Flat face normals are axis-aligned unit vectors.
		n := math32.Abs(v.Normal[0]) + math32.Abs(v.Normal[1]) + math32.Abs(v.Normal[2])
		assert.InDelta(t, 1.0, n, 1e-5, "vertex %d normal", i)
	}

	bounds := BoundingSphere(md.Vertices)
	assert.InDelta(t, math32.Sqrt(12), bounds[3], 1e-3)
}

func TestCheckerImageAlternates(t *testing.T) {
	a := [4]byte{200, 200, 200, 255}
	b := [4]byte{40, 40, 40, 255}
	img := CheckerImage(64, 16, a, b)

	assert.Equal(t, uint32(64), img.Width)
	assert.Equal(t, uint32(64), img.Height)
	require.Len(t, img.Pixels, 64*64*4)

	at := func(x, y uint32) [4]byte {
		i := (y*64 + x) * 4
		return [4]byte{img.Pixels[i], img.Pixels[i+1], img.Pixels[i+2], img.Pixels[i+3]}
	}
	assert.Equal(t, a, at(0, 0))
	assert.Equal(t, b, at(16, 0))
	assert.Equal(t, b, at(0, 16))
	assert.Equal(t, a, at(16, 16))
}

func TestVerticalGradientImageEndpoints(t *testing.T) {
	top := [4]byte{10, 20, 200, 255}
	bottom := [4]byte{240, 230, 210, 255}
	img := VerticalGradientImage(8, 32, top, bottom)

	require.Len(t, img.Pixels, 8*32*4)

	assert.Equal(t, top[:], img.Pixels[:4])
	assert.Equal(t, bottom[:], img.Pixels[(31*8)*4:(31*8)*4+4])

	// Middle row lands between the endpoints on every channel.
	mid := img.Pixels[(16*8)*4 : (16*8)*4+4]
	for c := 0; c < 4; c++ {
		lo, hi := top[c], bottom[c]
		if lo > hi {
			lo, hi = hi, lo
		}
		assert.GreaterOrEqual(t, mid[c], lo, "channel %d", c)
		assert.LessOrEqual(t, mid[c], hi, "channel %d", c)
	}
}
