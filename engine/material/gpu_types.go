package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialParamsSource is the WGSL counterpart of GPUMaterialParams,
// embedded for pipelines to splice into shader source. The two layouts must
// agree field for field.
//
//go:embed assets/material_params.wgsl
var GPUMaterialParamsSource string

// GPUMaterialParams is the wire form of a material's scalar factors.
// 48 bytes (three vec4<f32>), std430 aligned, mirroring the WGSL
// MaterialParams struct.
type GPUMaterialParams struct {
	BaseColor [4]float32 // offset  0: albedo RGBA factor (vec4<f32>)
	Emissive  [4]float32 // offset 16: RGB emissive factor, A = occlusion strength (vec4<f32>)
	Factors   [4]float32 // offset 32: X = metallic, Y = roughness, Z = normal scale, W unused (vec4<f32>)
}

// Size returns the marshaled byte size of the params block.
//
// Returns:
//   - int: the wire size in bytes (48)
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal encodes the params as little-endian bytes in the wire layout.
//
// Returns:
//   - []byte: 48-byte buffer ready for upload
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.BaseColor[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Emissive[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[32+i*4:], math.Float32bits(g.Factors[i]))
	}
	return buf
}

// paramsFor packs a material's factors into the uniform layout the shaders read.
func paramsFor(mat Material) GPUMaterialParams {
	emissive := mat.EmissiveFactor()
	return GPUMaterialParams{
		BaseColor: mat.BaseColor(),
		Emissive:  [4]float32{emissive[0], emissive[1], emissive[2], mat.OcclusionStrength()},
		Factors:   [4]float32{mat.Metallic(), mat.Roughness(), mat.NormalScale(), 0},
	}
}
