package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	BuildModelMatrix(m[:], 1, 2, 3, 0.5, 1.0, 1.5, 2, 2, 2)

	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)

	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestInvert4RoundTrip(t *testing.T) {
	var m, inv, out, id [16]float32
	BuildModelMatrix(m[:], 4, -2, 7, 0.3, 0.9, -0.4, 1.5, 1.5, 1.5)
	Identity(id[:])

	require.True(t, Invert4(inv[:], m[:]))
	Mul4(out[:], m[:], inv[:])

	for i := range out {
		assert.InDelta(t, id[i], out[i], 1e-4, "element %d", i)
	}
}

func TestInvert4Singular(t *testing.T) {
	var m, out [16]float32
	// All-zero matrix has no inverse.
	assert.False(t, Invert4(out[:], m[:]))
}

func TestPerspectiveDepthRange(t *testing.T) {
	var p [16]float32
	Perspective(p[:], 1.0, 16.0/9.0, 0.1, 100.0)

	// WebGPU clip space maps near to z=0 and far to z=1 after the w divide.
	near := TransformPoint(p[:], 0, 0, -0.1)
	far := TransformPoint(p[:], 0, 0, -100.0)
	assert.InDelta(t, 0.0, near[2]/0.1, 1e-4)
	assert.InDelta(t, 1.0, far[2]/100.0, 1e-4)
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	var v [16]float32
	LookAt(v[:], 5, 3, -2, 0, 0, 0, 0, 1, 0)

	eye := TransformPoint(v[:], 5, 3, -2)
	assert.InDelta(t, 0, eye[0], 1e-5)
	assert.InDelta(t, 0, eye[1], 1e-5)
	assert.InDelta(t, 0, eye[2], 1e-5)
}

func TestTransformPointTranslation(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 10, 20, 30, 0, 0, 0, 1, 1, 1)

	p := TransformPoint(m[:], 1, 1, 1)
	assert.Equal(t, [3]float32{11, 21, 31}, p)
}

func TestMaxScale(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 0, 0, 0, 0, 0, 0, 2, 5, 3)
	assert.InDelta(t, 5.0, MaxScale(m[:]), 1e-5)
}

func TestBoundingSphere(t *testing.T) {
	verts := []Vertex{
		{Position: [3]float32{-1, 0, 0}},
		{Position: [3]float32{3, 0, 0}},
		{Position: [3]float32{1, 2, 0}},
	}

	sphere := BoundingSphere(verts)
	assert.InDelta(t, 1.0, sphere[0], 1e-5)
	assert.InDelta(t, 1.0, sphere[1], 1e-5)
	assert.InDelta(t, 0.0, sphere[2], 1e-5)
	assert.InDelta(t, math.Sqrt(5), float64(sphere[3]), 1e-5)

	assert.Equal(t, [4]float32{}, BoundingSphere(nil))
}

func TestSliceToBytesLength(t *testing.T) {
	verts := []Vertex{{}, {}, {}}
	raw := SliceToBytes(verts)
	assert.Len(t, raw, 3*48)
	assert.Nil(t, SliceToBytes([]Vertex(nil)))
}

func TestSolidImage(t *testing.T) {
	img := SolidImage(2, 2, 255, 0, 255, 255)
	assert.Equal(t, uint32(2), img.Width)
	assert.Len(t, img.Pixels, 16)
	assert.Equal(t, byte(255), img.Pixels[0])
	assert.Equal(t, byte(0), img.Pixels[1])
}
