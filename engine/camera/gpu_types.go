package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the WGSL counterpart of GPUCameraUniform,
// embedded for pipelines to splice into shader source. The two layouts must
// agree field for field.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the wire form of the per-frame camera uniform buffer.
// 144 bytes, std430 aligned, mirroring the WGSL CameraUniform struct.
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset   0: combined view-projection matrix (mat4x4<f32>)
	InvViewProj    [16]float32 // offset  64: inverse view-projection matrix (mat4x4<f32>)
	CameraPosition [3]float32  // offset 128: world-space camera position (vec3<f32>)
	_pad           float32     // offset 140: padding to 144 bytes
}

// Size returns the marshaled byte size of the uniform.
//
// Returns:
//   - int: the wire size in bytes (144)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal encodes the uniform as little-endian bytes in the wire layout.
//
// Returns:
//   - []byte: 144-byte buffer ready for upload
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	putMat4(buf[0:], g.ViewProj)
	putMat4(buf[64:], g.InvViewProj)
	for i, v := range g.CameraPosition {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(buf[140:], 0) // _pad
	return buf
}

// putMat4 writes a column-major matrix as 64 little-endian bytes.
func putMat4(dst []byte, m [16]float32) {
	for i, v := range m {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}

// ToGPUCameraUniform captures a Camera's current matrices and position in
// the wire form of the uniform. The position is read from the attached
// controller and left zero when no controller is present.
//
// Parameters:
//   - cam: the Camera to capture
//
// Returns:
//   - GPUCameraUniform: the wire form of the uniform
func ToGPUCameraUniform(cam Camera) GPUCameraUniform {
	uniform := GPUCameraUniform{
		ViewProj:    cam.ViewProjectionMatrix(),
		InvViewProj: cam.InverseViewProjectionMatrix(),
	}
	if ctrl := cam.Controller(); ctrl != nil {
		uniform.CameraPosition[0], uniform.CameraPosition[1], uniform.CameraPosition[2] = ctrl.Position()
	}
	return uniform
}
