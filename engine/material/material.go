// Package material defines the PBR material model and the descriptor cache
// that turns materials into deduplicated GPU bind groups.
package material

import (
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
)

// Material describes how a surface is shaded: scalar factors plus up to five
// texture slots (albedo, normal, metallic-roughness, emissive, occlusion).
// Materials are immutable once built and may be shared by any number of
// entities; the descriptor cache collapses materials with identical content
// into one descriptor set.
type Material interface {
	// Name returns the name assigned to the material.
	//
	// Returns:
	//   - string: the material name
	Name() string

	// BaseColor returns the albedo RGBA factor of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA float32 values
	BaseColor() [4]float32

	// Metallic returns the metallic factor of the material.
	//
	// Returns:
	//   - float32: the metallic factor (0.0 = dielectric, 1.0 = metal)
	Metallic() float32

	// Roughness returns the roughness factor of the material.
	//
	// Returns:
	//   - float32: the roughness factor (0.0 = smooth, 1.0 = rough)
	Roughness() float32

	// EmissiveFactor returns the RGB emissive factor of the material.
	//
	// Returns:
	//   - [3]float32: the emitted radiance per channel
	EmissiveFactor() [3]float32

	// NormalScale returns the strength applied to the normal map.
	//
	// Returns:
	//   - float32: the normal map scale (1.0 = unscaled)
	NormalScale() float32

	// OcclusionStrength returns the weight applied to the occlusion map.
	//
	// Returns:
	//   - float32: the occlusion strength (0.0 = ignored, 1.0 = full)
	OcclusionStrength() float32

	// AlbedoTexture returns the albedo texture slot.
	//
	// Returns:
	//   - registry.TextureHandle: the handle, zero when the slot is empty
	AlbedoTexture() registry.TextureHandle

	// NormalTexture returns the tangent-space normal map slot.
	//
	// Returns:
	//   - registry.TextureHandle: the handle, zero when the slot is empty
	NormalTexture() registry.TextureHandle

	// MetallicRoughnessTexture returns the metallic-roughness texture slot
	// (metallic in the blue channel, roughness in the green channel).
	//
	// Returns:
	//   - registry.TextureHandle: the handle, zero when the slot is empty
	MetallicRoughnessTexture() registry.TextureHandle

	// EmissiveTexture returns the emissive texture slot.
	//
	// Returns:
	//   - registry.TextureHandle: the handle, zero when the slot is empty
	EmissiveTexture() registry.TextureHandle

	// OcclusionTexture returns the ambient-occlusion texture slot.
	//
	// Returns:
	//   - registry.TextureHandle: the handle, zero when the slot is empty
	OcclusionTexture() registry.TextureHandle

	// Sampler returns the sampler the material's textures are read with.
	//
	// Returns:
	//   - registry.SamplerHandle: the handle, zero to use the registry default
	Sampler() registry.SamplerHandle
}

type material struct {
	name              string
	baseColor         [4]float32
	metallic          float32
	roughness         float32
	emissiveFactor    [3]float32
	normalScale       float32
	occlusionStrength float32

	albedoTexture            registry.TextureHandle
	normalTexture            registry.TextureHandle
	metallicRoughnessTexture registry.TextureHandle
	emissiveTexture          registry.TextureHandle
	occlusionTexture         registry.TextureHandle
	sampler                  registry.SamplerHandle
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor:         [4]float32{1, 1, 1, 1},
		metallic:          0.0,
		roughness:         1.0,
		normalScale:       1.0,
		occlusionStrength: 1.0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) EmissiveFactor() [3]float32 {
	return m.emissiveFactor
}

func (m *material) NormalScale() float32 {
	return m.normalScale
}

func (m *material) OcclusionStrength() float32 {
	return m.occlusionStrength
}

func (m *material) AlbedoTexture() registry.TextureHandle {
	return m.albedoTexture
}

func (m *material) NormalTexture() registry.TextureHandle {
	return m.normalTexture
}

func (m *material) MetallicRoughnessTexture() registry.TextureHandle {
	return m.metallicRoughnessTexture
}

func (m *material) EmissiveTexture() registry.TextureHandle {
	return m.emissiveTexture
}

func (m *material) OcclusionTexture() registry.TextureHandle {
	return m.occlusionTexture
}

func (m *material) Sampler() registry.SamplerHandle {
	return m.sampler
}
