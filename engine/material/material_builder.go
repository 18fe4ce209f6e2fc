package material

import (
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor is an option builder that sets the albedo RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithMetallic is an option builder that sets the metallic factor of the material.
//
// Parameters:
//   - metallic: the metallic factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *material) {
		m.metallic = metallic
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = roughness
	}
}

// WithEmissiveFactor is an option builder that sets the RGB emissive factor of the material.
//
// Parameters:
//   - factor: the emitted radiance per channel
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive factor option to a material
func WithEmissiveFactor(factor [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.emissiveFactor = factor
	}
}

// WithNormalScale is an option builder that sets the strength applied to the normal map.
//
// Parameters:
//   - scale: the normal map scale (1.0 = unscaled)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the normal scale option to a material
func WithNormalScale(scale float32) MaterialBuilderOption {
	return func(m *material) {
		m.normalScale = scale
	}
}

// WithOcclusionStrength is an option builder that sets the weight applied to the occlusion map.
//
// Parameters:
//   - strength: the occlusion strength (0.0 = ignored, 1.0 = full)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the occlusion strength option to a material
func WithOcclusionStrength(strength float32) MaterialBuilderOption {
	return func(m *material) {
		m.occlusionStrength = strength
	}
}

// WithAlbedoTexture is an option builder that assigns the albedo texture slot.
//
// Parameters:
//   - h: the registered texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo texture option to a material
func WithAlbedoTexture(h registry.TextureHandle) MaterialBuilderOption {
	return func(m *material) {
		m.albedoTexture = h
	}
}

// WithNormalTexture is an option builder that assigns the tangent-space normal map slot.
//
// Parameters:
//   - h: the registered texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the normal texture option to a material
func WithNormalTexture(h registry.TextureHandle) MaterialBuilderOption {
	return func(m *material) {
		m.normalTexture = h
	}
}

// WithMetallicRoughnessTexture is an option builder that assigns the metallic-roughness
// texture slot (metallic in the blue channel, roughness in the green channel).
//
// Parameters:
//   - h: the registered texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic-roughness texture option to a material
func WithMetallicRoughnessTexture(h registry.TextureHandle) MaterialBuilderOption {
	return func(m *material) {
		m.metallicRoughnessTexture = h
	}
}

// WithEmissiveTexture is an option builder that assigns the emissive texture slot.
//
// Parameters:
//   - h: the registered texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive texture option to a material
func WithEmissiveTexture(h registry.TextureHandle) MaterialBuilderOption {
	return func(m *material) {
		m.emissiveTexture = h
	}
}

// WithOcclusionTexture is an option builder that assigns the ambient-occlusion texture slot.
//
// Parameters:
//   - h: the registered texture handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the occlusion texture option to a material
func WithOcclusionTexture(h registry.TextureHandle) MaterialBuilderOption {
	return func(m *material) {
		m.occlusionTexture = h
	}
}

// WithSampler is an option builder that sets the sampler the material's textures are read with.
//
// Parameters:
//   - h: the registered sampler handle
//
// Returns:
//   - MaterialBuilderOption: a function that applies the sampler option to a material
func WithSampler(h registry.SamplerHandle) MaterialBuilderOption {
	return func(m *material) {
		m.sampler = h
	}
}
