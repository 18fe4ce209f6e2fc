package material

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
	"github.com/Carmen-Shannon/lumen-go/log"
)

// setsPerBindGroupSlot scales the device's bind group limit into the default
// budget of distinct descriptor sets held alive at once.
const setsPerBindGroupSlot = 128

// DescriptorCacheBuilderOption is a functional option for configuring a
// DescriptorCache. Use the With* functions to create options that are
// applied directly to the cache instance.
type DescriptorCacheBuilderOption func(*descriptorCache)

// WithSetBudget caps the number of distinct descriptor sets the cache will
// hold at once. Values <= 0 keep the default derived from the device limits.
//
// Parameters:
//   - budget: maximum live descriptor sets
//
// Returns:
//   - DescriptorCacheBuilderOption: option function to apply
func WithSetBudget(budget int) DescriptorCacheBuilderOption {
	return func(c *descriptorCache) {
		if budget <= 0 {
			return
		}
		c.budget = budget
	}
}

// NewDescriptorCache creates the shared material bind group layout and an
// empty cache on top of it.
//
// Parameters:
//   - device: the device bind groups are created on
//   - reg: the registry texture and sampler handles resolve against
//   - opts: cache options
//
// Returns:
//   - DescriptorCache: the created cache
//   - error: an error if layout creation failed
func NewDescriptorCache(device gpu.Device, reg registry.Registry, opts ...DescriptorCacheBuilderOption) (DescriptorCache, error) {
	fragTexture := &gpu.TextureBindingLayout{SampleType: gpu.TextureSampleTypeFloat}
	layout, err := device.CreateBindGroupLayout(&gpu.BindGroupLayoutDescriptor{
		Label: "Material Bind Group Layout",
		Entries: []gpu.BindGroupLayoutEntry{
			{Binding: BindingParams, Visibility: gpu.ShaderStageFragment, Buffer: &gpu.BufferBindingLayout{Type: gpu.BufferBindingTypeUniform}},
			{Binding: BindingSampler, Visibility: gpu.ShaderStageFragment, Sampler: &gpu.SamplerBindingLayout{Type: gpu.SamplerBindingTypeFiltering}},
			{Binding: BindingAlbedo, Visibility: gpu.ShaderStageFragment, Texture: fragTexture},
			{Binding: BindingNormal, Visibility: gpu.ShaderStageFragment, Texture: fragTexture},
			{Binding: BindingMetallicRoughness, Visibility: gpu.ShaderStageFragment, Texture: fragTexture},
			{Binding: BindingEmissive, Visibility: gpu.ShaderStageFragment, Texture: fragTexture},
			{Binding: BindingOcclusion, Visibility: gpu.ShaderStageFragment, Texture: fragTexture},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create material bind group layout: %w", err)
	}

	c := &descriptorCache{
		mu:       &sync.Mutex{},
		device:   device,
		registry: reg,
		logger:   log.New("material"),
		layout:   layout,
		budget:   int(device.Limits().MaxBindGroups) * setsPerBindGroupSlot,
		byHash:   map[uint64]*descriptorSet{},
		byHandle: map[DescriptorSetHandle]*descriptorSet{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}
