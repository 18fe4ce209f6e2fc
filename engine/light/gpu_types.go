package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxGPULights is the maximum number of lights marshaled into the GPU storage
// buffer per frame. The CPU-side light list is unbounded; this cap controls
// only how many lights the deferred lighting pass evaluates per fragment.
// Lights beyond the budget are dropped in snapshot order.
const MaxGPULights = 256

// GPULightSource is the WGSL counterpart of GPULight, embedded for pipelines
// to splice into shader source. The two layouts must agree field for field.
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULight is the wire form of one light in the storage buffer the lighting
// pass reads. 64 bytes, std430 aligned, mirroring the WGSL Light struct.
type GPULight struct {
	Position   [3]float32 // offset  0: world-space position (point/spot) or unused (directional)
	LightType  uint32     // offset 12: 0 = directional, 1 = point, 2 = spot
	Color      [3]float32 // offset 16: RGB color
	Intensity  float32    // offset 28: scalar multiplier
	Direction  [3]float32 // offset 32: normalized direction (directional/spot) or unused (point)
	LightRange float32    // offset 44: attenuation cutoff distance
	InnerCone  float32    // offset 48: cos(inner half-angle) for spot
	OuterCone  float32    // offset 52: cos(outer half-angle) for spot
	_pad       [2]uint32  // offset 56: padding to 64-byte alignment
}

// Size returns the marshaled byte size of the light.
//
// Returns:
//   - int: the wire size in bytes (64)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal encodes the light as little-endian bytes in the wire layout.
//
// Returns:
//   - []byte: 64-byte buffer ready for upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, g.Size())
	putVec3(buf[0:], g.Position)
	binary.LittleEndian.PutUint32(buf[12:], g.LightType)
	putVec3(buf[16:], g.Color)
	putF32(buf[28:], g.Intensity)
	putVec3(buf[32:], g.Direction)
	putF32(buf[44:], g.LightRange)
	putF32(buf[48:], g.InnerCone)
	putF32(buf[52:], g.OuterCone)
	return buf
}

// GPULightHeaderSource is the WGSL counterpart of GPULightHeader, embedded
// for pipelines to splice into shader source.
//
//go:embed assets/light_header.wgsl
var GPULightHeaderSource string

// GPULightHeader is the 16-byte prefix of the light storage buffer, carrying
// the scene ambient term and how many GPULight entries follow. Mirrors the
// WGSL LightHeader struct (vec3 + u32, std430 aligned).
type GPULightHeader struct {
	AmbientColor [3]float32 // offset 0: constant ambient RGB for the scene
	LightCount   uint32     // offset 12: GPULight entries after the header
}

// Size returns the marshaled byte size of the header.
//
// Returns:
//   - int: the wire size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal encodes the header as little-endian bytes in the wire layout.
//
// Returns:
//   - []byte: 16-byte buffer ready for upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, h.Size())
	putVec3(buf[0:], h.AmbientColor)
	binary.LittleEndian.PutUint32(buf[12:], h.LightCount)
	return buf
}

// ToGPULight captures a Light's current state in its wire form.
//
// Parameters:
//   - l: the Light to capture
//
// Returns:
//   - GPULight: the wire form of the light
func ToGPULight(l Light) GPULight {
	return GPULight{
		Position:   l.Position(),
		LightType:  uint32(l.Type()),
		Color:      l.Color(),
		Intensity:  l.Intensity(),
		Direction:  l.Direction(),
		LightRange: l.Range(),
		InnerCone:  l.InnerCone(),
		OuterCone:  l.OuterCone(),
	}
}

// MarshalLightBuffer packs the enabled lights into the storage buffer layout
// the lighting pass reads:
//
//	[GPULightHeader (16 bytes)] [GPULight x count (64 bytes each)]
//
// Disabled lights are skipped. At most MaxGPULights entries are written;
// anything beyond the budget is dropped in input order.
//
// Parameters:
//   - lights: the lights to consider
//   - ambient: the scene ambient color as RGB
//
// Returns:
//   - []byte: the marshaled buffer ready for GPU upload
func MarshalLightBuffer(lights []Light, ambient [3]float32) []byte {
	active := make([]GPULight, 0, min(len(lights), MaxGPULights))
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		active = append(active, ToGPULight(l))
		if len(active) == MaxGPULights {
			break
		}
	}

	header := GPULightHeader{AmbientColor: ambient, LightCount: uint32(len(active))}
	buf := make([]byte, 0, header.Size()+len(active)*(&GPULight{}).Size())
	buf = append(buf, header.Marshal()...)
	for i := range active {
		buf = append(buf, active[i].Marshal()...)
	}
	return buf
}

// putF32 writes one float32 as 4 little-endian bytes.
func putF32(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}

// putVec3 writes three float32s as 12 little-endian bytes.
func putVec3(dst []byte, v [3]float32) {
	for i, f := range v {
		putF32(dst[i*4:], f)
	}
}
