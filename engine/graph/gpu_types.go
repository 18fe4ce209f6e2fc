package graph

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/lumen-go/common"
)

// GPUDrawUniformSource is the WGSL counterpart of GPUDrawUniform, embedded
// for pipelines to splice into shader source. The two layouts must agree
// field for field.
//
//go:embed assets/draw_uniform.wgsl
var GPUDrawUniformSource string

// GPUDrawUniform is the wire form of the per-draw uniform staged into the
// frame slot's scratch arena, one block per draw item, bound with a dynamic
// offset. 128 bytes, std430 aligned, mirroring the WGSL DrawUniform struct.
type GPUDrawUniform struct {
	Model  [16]float32 // offset  0: world transform (mat4x4<f32>)
	Normal [16]float32 // offset 64: inverse-transpose of Model (mat4x4<f32>)
}

// Size returns the marshaled byte size of the uniform.
//
// Returns:
//   - int: the wire size in bytes (128)
func (g *GPUDrawUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal encodes the uniform as little-endian bytes in the wire layout.
//
// Returns:
//   - []byte: 128-byte buffer ready for upload
func (g *GPUDrawUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Normal[i]))
	}
	return buf
}

// ToGPUDrawUniform builds the per-draw uniform for a world transform. The
// normal matrix is the inverse-transpose of the world matrix; a singular
// transform falls back to the world matrix itself.
//
// Parameters:
//   - world: the item's column-major world transform
//
// Returns:
//   - GPUDrawUniform: the uniform ready to Marshal
func ToGPUDrawUniform(world [16]float32) GPUDrawUniform {
	u := GPUDrawUniform{Model: world}
	var inv [16]float32
	if common.Invert4(inv[:], world[:]) {
		for row := range 4 {
			for col := range 4 {
				u.Normal[col*4+row] = inv[row*4+col]
			}
		}
	} else {
		u.Normal = world
	}
	return u
}
