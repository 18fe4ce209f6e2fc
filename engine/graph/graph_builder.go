package graph

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/material"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
	"github.com/Carmen-Shannon/lumen-go/log"
)

// GraphBuilderOption is a functional option for configuring a Graph. Use the
// With* functions to create options that are applied directly to the graph
// instance.
type GraphBuilderOption func(*graphImpl)

// WithClearColor sets the color the geometry pass clears the albedo target
// to, which becomes the background where no geometry is drawn.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - GraphBuilderOption: option function to apply
func WithClearColor(c gpu.Color) GraphBuilderOption {
	return func(g *graphImpl) {
		g.clearColor = c
	}
}

// WithFrustumCulling enables or disables bounding sphere culling against the
// camera frustum during draw list construction. Culling is enabled by
// default; disable it to record every snapshot item regardless of
// visibility, for example when diagnosing bounds problems.
//
// Parameters:
//   - enabled: false to record all items unconditionally
//
// Returns:
//   - GraphBuilderOption: option function to apply
func WithFrustumCulling(enabled bool) GraphBuilderOption {
	return func(g *graphImpl) {
		g.culling = enabled
	}
}

// NewGraph creates the render graph executor. Resize must be called once
// before the first Record to build the frame attachments.
//
// Parameters:
//   - device: the graphics device to record against
//   - reg: the resource registry draws resolve meshes and textures from
//   - cache: the material descriptor cache
//   - opts: optional configuration
//
// Returns:
//   - Graph: the executor
//   - error: an error if sampler or layout creation failed
func NewGraph(device gpu.Device, reg registry.Registry, cache material.DescriptorCache, opts ...GraphBuilderOption) (Graph, error) {
	g := &graphImpl{
		mu:               &sync.Mutex{},
		device:           device,
		reg:              reg,
		cache:            cache,
		logger:           log.New("graph"),
		clearColor:       gpu.Color{A: 1},
		culling:          true,
		pipelines:        make(map[string]gpu.RenderPipeline),
		slots:            make(map[int]*slotState),
		skippedMaterials: make(map[string]struct{}),
		skippedMeshes:    make(map[registry.MeshHandle]struct{}),
	}
	for _, option := range opts {
		option(g)
	}

	sampler, err := device.CreateSampler(&gpu.SamplerDescriptor{
		Label:        "Graph Linear Sampler",
		AddressModeU: gpu.AddressModeClampToEdge,
		AddressModeV: gpu.AddressModeClampToEdge,
		AddressModeW: gpu.AddressModeClampToEdge,
		MagFilter:    gpu.FilterModeLinear,
		MinFilter:    gpu.FilterModeLinear,
		MipmapFilter: gpu.MipmapFilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create graph sampler: %w", err)
	}
	g.sampler = sampler

	g.frameLayout, err = device.CreateBindGroupLayout(&gpu.BindGroupLayoutDescriptor{
		Label: "Frame Uniforms Layout",
		Entries: []gpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gpu.ShaderStageVertex | gpu.ShaderStageFragment,
				Buffer:     &gpu.BufferBindingLayout{Type: gpu.BufferBindingTypeUniform, HasDynamicOffset: true, MinBindingSize: cameraUniformSize},
			},
			{
				Binding:    1,
				Visibility: gpu.ShaderStageVertex,
				Buffer:     &gpu.BufferBindingLayout{Type: gpu.BufferBindingTypeUniform, HasDynamicOffset: true, MinBindingSize: drawUniformSize},
			},
		},
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create frame uniforms layout: %w", err)
	}

	g.lightingLayout, err = device.CreateBindGroupLayout(&gpu.BindGroupLayoutDescriptor{
		Label: "Lighting Inputs Layout",
		Entries: []gpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gpu.ShaderStageFragment,
				Buffer:     &gpu.BufferBindingLayout{Type: gpu.BufferBindingTypeUniform, HasDynamicOffset: true, MinBindingSize: cameraUniformSize},
			},
			{
				Binding:    1,
				Visibility: gpu.ShaderStageFragment,
				Buffer:     &gpu.BufferBindingLayout{Type: gpu.BufferBindingTypeReadOnlyStorage},
			},
			{Binding: 2, Visibility: gpu.ShaderStageFragment, Sampler: &gpu.SamplerBindingLayout{Type: gpu.SamplerBindingTypeFiltering}},
			{Binding: 3, Visibility: gpu.ShaderStageFragment, Texture: &gpu.TextureBindingLayout{SampleType: gpu.TextureSampleTypeFloat}},
			{Binding: 4, Visibility: gpu.ShaderStageFragment, Texture: &gpu.TextureBindingLayout{SampleType: gpu.TextureSampleTypeFloat}},
			{Binding: 5, Visibility: gpu.ShaderStageFragment, Texture: &gpu.TextureBindingLayout{SampleType: gpu.TextureSampleTypeFloat}},
			{Binding: 6, Visibility: gpu.ShaderStageFragment, Texture: &gpu.TextureBindingLayout{SampleType: gpu.TextureSampleTypeDepth}},
			{Binding: 7, Visibility: gpu.ShaderStageFragment, Texture: &gpu.TextureBindingLayout{SampleType: gpu.TextureSampleTypeFloat}},
		},
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create lighting inputs layout: %w", err)
	}

	g.toneMapLayout, err = device.CreateBindGroupLayout(&gpu.BindGroupLayoutDescriptor{
		Label: "Tone Mapping Inputs Layout",
		Entries: []gpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gpu.ShaderStageFragment, Sampler: &gpu.SamplerBindingLayout{Type: gpu.SamplerBindingTypeFiltering}},
			{Binding: 1, Visibility: gpu.ShaderStageFragment, Texture: &gpu.TextureBindingLayout{SampleType: gpu.TextureSampleTypeFloat}},
		},
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("failed to create tone mapping inputs layout: %w", err)
	}

	return g, nil
}
