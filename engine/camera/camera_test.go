package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraDefaults(t *testing.T) {
	cam := NewCamera()

	lens := cam.Lens()
	assert.InDelta(t, 45.0*math.Pi/180.0, lens.Fov, 1e-6)
	assert.InDelta(t, 1.0, lens.Aspect, 1e-6)
	assert.InDelta(t, 0.1, lens.Near, 1e-6)
	assert.InDelta(t, 100.0, lens.Far, 1e-6)
	assert.Equal(t, [3]float32{0, 1, 0}, cam.Up())

	identity := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	assert.Equal(t, identity, cam.ViewMatrix(), "matrices stay identity until a controller is attached")
	assert.Nil(t, cam.Controller())
}

func TestCameraViewMatrixLooksAtTarget(t *testing.T) {
	ctrl := NewCameraController(
		WithRadius(5),
		WithAzimuth(0),
		WithElevation(0),
		WithElevationBounds(-1, 1),
	)
	cam := NewCamera(WithController(ctrl))

	px, py, pz := ctrl.Position()
	assert.InDelta(t, 0.0, px, 1e-5)
	assert.InDelta(t, 0.0, py, 1e-5)
	assert.InDelta(t, 5.0, pz, 1e-5)

	// The target sits five units straight ahead, which is -Z in view space.
	view := cam.ViewMatrix()
	target := common.TransformPoint(view[:], 0, 0, 0)
	assert.InDelta(t, 0.0, target[0], 1e-5)
	assert.InDelta(t, 0.0, target[1], 1e-5)
	assert.InDelta(t, -5.0, target[2], 1e-5)
}

func TestCameraInverseViewProjectionRoundTrip(t *testing.T) {
	ctrl := NewCameraController(WithRadius(4), WithAzimuth(0.7), WithElevation(0.4))
	cam := NewCamera(WithController(ctrl))
	cam.SetAspect(16.0 / 9.0)

	vp := cam.ViewProjectionMatrix()
	inv := cam.InverseViewProjectionMatrix()

	var product [16]float32
	common.Mul4(product[:], vp[:], inv[:])

	identity := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	for i := range 16 {
		assert.InDelta(t, identity[i], product[i], 1e-3)
	}
}

func TestCameraSetLensRecomputesMatrices(t *testing.T) {
	ctrl := NewCameraController()
	cam := NewCamera(WithController(ctrl))

	before := cam.ProjectionMatrix()
	lens := cam.Lens()
	lens.Fov = 60.0 * math.Pi / 180.0
	cam.SetLens(lens)
	after := cam.ProjectionMatrix()

	assert.NotEqual(t, before, after)
	assert.InDelta(t, 60.0*math.Pi/180.0, cam.Lens().Fov, 1e-6)
}

func TestCameraUpdateTracksController(t *testing.T) {
	ctrl := NewCameraController()
	cam := NewCamera(WithController(ctrl))

	before := cam.ViewMatrix()
	ctrl.OrbitRight()
	assert.Equal(t, before, cam.ViewMatrix(), "matrices only refresh on Update")

	cam.Update()
	assert.NotEqual(t, before, cam.ViewMatrix())
}

func TestControllerPositionFollowsSpherical(t *testing.T) {
	ctrl := NewCameraController(
		WithControllerTarget(1, 2, 3),
		WithRadius(2),
		WithAzimuth(math.Pi/2),
		WithElevation(0),
		WithElevationBounds(-1, 1),
	)

	x, y, z := ctrl.Position()
	assert.InDelta(t, 3.0, x, 1e-5)
	assert.InDelta(t, 2.0, y, 1e-5)
	assert.InDelta(t, 3.0, z, 1e-5)
}

func TestControllerClampsBounds(t *testing.T) {
	ctrl := NewCameraController(WithRadiusBounds(1, 10), WithElevationBounds(0.1, 1.0))

	ctrl.SetRadius(50)
	assert.InDelta(t, 10.0, ctrl.Radius(), 1e-6)
	ctrl.SetRadius(0.01)
	assert.InDelta(t, 1.0, ctrl.Radius(), 1e-6)

	for range 200 {
		ctrl.OrbitUp()
	}
	assert.InDelta(t, 1.0, ctrl.Elevation(), 1e-6)

	for range 200 {
		ctrl.OrbitDown()
	}
	assert.InDelta(t, 0.1, ctrl.Elevation(), 1e-6)
}

func TestControllerZoomMovesTowardTarget(t *testing.T) {
	ctrl := NewCameraController(WithRadius(5), WithZoomSpeed(1))

	ctrl.Zoom(2)
	assert.InDelta(t, 3.0, ctrl.Radius(), 1e-6)

	ctrl.Zoom(-4)
	assert.InDelta(t, 7.0, ctrl.Radius(), 1e-6)
}

func TestGPUCameraUniformLayout(t *testing.T) {
	uniform := GPUCameraUniform{
		CameraPosition: [3]float32{1, 2, 3},
	}
	uniform.ViewProj[0] = 1.5
	uniform.InvViewProj[0] = 2.5

	require.Equal(t, 144, uniform.Size())

	buf := uniform.Marshal()
	require.Len(t, buf, 144)

	assert.Equal(t, math.Float32bits(1.5), binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, math.Float32bits(2.5), binary.LittleEndian.Uint32(buf[64:68]))
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(buf[128:132]))
	assert.Equal(t, math.Float32bits(2), binary.LittleEndian.Uint32(buf[132:136]))
	assert.Equal(t, math.Float32bits(3), binary.LittleEndian.Uint32(buf[136:140]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[140:144]))
}

func TestToGPUCameraUniform(t *testing.T) {
	ctrl := NewCameraController(WithRadius(5), WithAzimuth(0), WithElevation(0), WithElevationBounds(-1, 1))
	cam := NewCamera(WithController(ctrl))

	uniform := ToGPUCameraUniform(cam)
	assert.Equal(t, cam.ViewProjectionMatrix(), uniform.ViewProj)
	assert.Equal(t, cam.InverseViewProjectionMatrix(), uniform.InvViewProj)
	assert.InDelta(t, 5.0, uniform.CameraPosition[2], 1e-5)

	bare := ToGPUCameraUniform(NewCamera())
	assert.Equal(t, [3]float32{0, 0, 0}, bare.CameraPosition)
}
