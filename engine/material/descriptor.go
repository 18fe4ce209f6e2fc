package material

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
	"github.com/Carmen-Shannon/lumen-go/log"
)

// DescriptorSetHandle identifies one deduplicated material descriptor set.
// Handles order draws in the geometry pass, so identical material content
// always lands in the same sort bucket.
type DescriptorSetHandle uint64

// Binding indices within the material bind group. The deferred shaders
// declare the same slots in WGSL.
const (
	BindingParams = iota
	BindingSampler
	BindingAlbedo
	BindingNormal
	BindingMetallicRoughness
	BindingEmissive
	BindingOcclusion
)

// CacheStats is a point-in-time summary of the descriptor cache.
type CacheStats struct {
	Sets   int
	Hits   uint64
	Misses uint64
}

// DescriptorCache builds GPU bind groups for materials and deduplicates them
// by content hash, so two materials with identical texture handles, sampler
// and factors share one descriptor set. Sets stay cached until explicitly
// evicted on asset unload.
type DescriptorCache interface {
	// Build returns the descriptor set for a material, creating it on first
	// use. Materials with identical content receive identical handles.
	//
	// Parameters:
	//   - mat: the material to resolve
	//
	// Returns:
	//   - DescriptorSetHandle: the deduplicated set handle
	//   - error: ErrTextureNotReady while a referenced upload is pending,
	//     *BindingLimitExceeded when a new set would pass the budget, or a
	//     device error
	Build(mat Material) (DescriptorSetHandle, error)

	// BindGroup returns the GPU bind group behind a descriptor set handle.
	//
	// Parameters:
	//   - h: the descriptor set handle
	//
	// Returns:
	//   - gpu.BindGroup: the bind group to set during recording
	//   - bool: true when the handle is live
	BindGroup(h DescriptorSetHandle) (gpu.BindGroup, bool)

	// Layout returns the shared material bind group layout. Pipelines that
	// draw materials include this layout at the material group index.
	//
	// Returns:
	//   - gpu.BindGroupLayout: the shared layout
	Layout() gpu.BindGroupLayout

	// Evict destroys a descriptor set. It is called on explicit asset
	// unload only, after in-flight frames that reference the set have
	// completed; sets are never dropped behind the caller's back.
	//
	// Parameters:
	//   - h: the descriptor set handle
	//
	// Returns:
	//   - bool: true when a set was evicted
	Evict(h DescriptorSetHandle) bool

	// Stats reports cache occupancy and hit counts.
	//
	// Returns:
	//   - CacheStats: the current totals
	Stats() CacheStats

	// Close releases the layout and every cached set. The cache is unusable
	// afterwards.
	Close()
}

type descriptorSet struct {
	handle DescriptorSetHandle
	hash   uint64
	group  gpu.BindGroup
	params gpu.Buffer
}

type descriptorCache struct {
	mu       *sync.Mutex
	device   gpu.Device
	registry registry.Registry
	logger   log.Logger

	layout gpu.BindGroupLayout
	budget int

	byHash     map[uint64]*descriptorSet
	byHandle   map[DescriptorSetHandle]*descriptorSet
	nextHandle DescriptorSetHandle
	hits       uint64
	misses     uint64
	closed     bool
}

var _ DescriptorCache = &descriptorCache{}

func (c *descriptorCache) Build(mat Material) (DescriptorSetHandle, error) {
	params := paramsFor(mat)
	encoded := params.Marshal()
	samplerHandle := mat.Sampler()
	if samplerHandle == 0 {
		samplerHandle = c.registry.DefaultSampler()
	}
	hash := contentHash(mat, samplerHandle, encoded)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, fmt.Errorf("descriptor cache is closed")
	}
	if set, ok := c.byHash[hash]; ok {
		c.hits++
		return set.handle, nil
	}
	if len(c.byHash) >= c.budget {
		return 0, &BindingLimitExceeded{Active: len(c.byHash), Limit: c.budget}
	}

	views, err := c.resolveViews(mat)
	if err != nil {
		return 0, err
	}
	sampler, ok := c.registry.Sampler(samplerHandle)
	if !ok {
		return 0, fmt.Errorf("material %q references unknown sampler handle %d", mat.Name(), samplerHandle)
	}

	label := mat.Name()
	if label == "" {
		label = fmt.Sprintf("material-%016x", hash)
	}
	buf, err := c.device.CreateBuffer(&gpu.BufferDescriptor{
		Label: label + " Params",
		Size:  uint64(len(encoded)),
		Usage: gpu.BufferUsageUniform | gpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create params buffer for material %q: %w", label, err)
	}
	if err := c.device.Queue().WriteBuffer(buf, 0, encoded); err != nil {
		buf.Release()
		return 0, fmt.Errorf("failed to write params for material %q: %w", label, err)
	}

	group, err := c.device.CreateBindGroup(&gpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: c.layout,
		Entries: []gpu.BindGroupEntry{
			{Binding: BindingParams, Buffer: buf},
			{Binding: BindingSampler, Sampler: sampler},
			{Binding: BindingAlbedo, TextureView: views[0]},
			{Binding: BindingNormal, TextureView: views[1]},
			{Binding: BindingMetallicRoughness, TextureView: views[2]},
			{Binding: BindingEmissive, TextureView: views[3]},
			{Binding: BindingOcclusion, TextureView: views[4]},
		},
	})
	if err != nil {
		buf.Release()
		return 0, fmt.Errorf("failed to create bind group for material %q: %w", label, err)
	}

	c.misses++
	c.nextHandle++
	set := &descriptorSet{handle: c.nextHandle, hash: hash, group: group, params: buf}
	c.byHash[hash] = set
	c.byHandle[set.handle] = set
	c.logger.Debugf("built descriptor set %d for material %q (%d active)", set.handle, label, len(c.byHash))
	return set.handle, nil
}

// resolveViews maps the five texture slots to bindable views. Empty slots
// bind the registry fallback matching the slot's neutral value; a pending
// upload aborts the build so the caller can skip the draw.
func (c *descriptorCache) resolveViews(mat Material) ([5]gpu.TextureView, error) {
	slots := [5]struct {
		handle   registry.TextureHandle
		fallback registry.FallbackKind
	}{
		{mat.AlbedoTexture(), registry.FallbackWhite},
		{mat.NormalTexture(), registry.FallbackNormal},
		{mat.MetallicRoughnessTexture(), registry.FallbackWhite},
		{mat.EmissiveTexture(), registry.FallbackWhite},
		{mat.OcclusionTexture(), registry.FallbackWhite},
	}
	var views [5]gpu.TextureView
	for i, slot := range slots {
		if slot.handle == 0 {
			views[i] = c.registry.FallbackView(slot.fallback)
			continue
		}
		view, ok := c.registry.TextureView(slot.handle)
		if !ok {
			if c.registry.TextureState(slot.handle) == registry.ResourceStatePending {
				return views, ErrTextureNotReady
			}
			return views, fmt.Errorf("material %q references unknown texture handle %d", mat.Name(), slot.handle)
		}
		views[i] = view
	}
	return views, nil
}

func (c *descriptorCache) BindGroup(h DescriptorSetHandle) (gpu.BindGroup, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.byHandle[h]
	if !ok {
		return nil, false
	}
	return set.group, true
}

func (c *descriptorCache) Layout() gpu.BindGroupLayout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

func (c *descriptorCache) Evict(h DescriptorSetHandle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.byHandle[h]
	if !ok {
		c.logger.Warningf("evict of unknown descriptor set handle %d", h)
		return false
	}
	delete(c.byHandle, h)
	delete(c.byHash, set.hash)
	set.group.Release()
	set.params.Release()
	c.logger.Debugf("evicted descriptor set %d (%d active)", h, len(c.byHash))
	return true
}

func (c *descriptorCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Sets:   len(c.byHash),
		Hits:   c.hits,
		Misses: c.misses,
	}
}

func (c *descriptorCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for _, set := range c.byHandle {
		set.group.Release()
		set.params.Release()
	}
	c.byHandle = map[DescriptorSetHandle]*descriptorSet{}
	c.byHash = map[uint64]*descriptorSet{}
	if c.layout != nil {
		c.layout.Release()
		c.layout = nil
	}
}

// contentHash fingerprints the texture handle tuple, the resolved sampler
// handle and the packed factor block. Equal hashes mean equal descriptor
// content; the material name does not participate, so differently named
// materials with the same content share a set.
func contentHash(mat Material, sampler registry.SamplerHandle, params []byte) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, handle := range [6]uint64{
		uint64(mat.AlbedoTexture()),
		uint64(mat.NormalTexture()),
		uint64(mat.MetallicRoughnessTexture()),
		uint64(mat.EmissiveTexture()),
		uint64(mat.OcclusionTexture()),
		uint64(sampler),
	} {
		binary.LittleEndian.PutUint64(buf[:], handle)
		h.Write(buf[:])
	}
	h.Write(params)
	return h.Sum64()
}
