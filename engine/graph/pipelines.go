package graph

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/lumen-go/engine/camera"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/light"
	"github.com/Carmen-Shannon/lumen-go/engine/material"
)

//go:embed assets/geometry.wgsl
var geometryShaderSource string

//go:embed assets/lighting.wgsl
var lightingShaderSource string

//go:embed assets/tonemap.wgsl
var toneMapShaderSource string

// pipeline returns a cached pipeline or builds and caches it. Keys name the
// pass plus any variant that changes compiled state.
func (g *graphImpl) pipeline(key string, build func() (gpu.RenderPipeline, error)) (gpu.RenderPipeline, error) {
	if p, ok := g.pipelines[key]; ok {
		return p, nil
	}
	p, err := build()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s pipeline: %w", key, err)
	}
	g.pipelines[key] = p
	return p, nil
}

// vertexLayout is the single vertex buffer layout every mesh uses, matching
// common.Vertex: position, normal, tangent, uv at 48 bytes per vertex.
func vertexLayout() gpu.VertexBufferLayout {
	return gpu.VertexBufferLayout{
		ArrayStride: 48,
		StepMode:    gpu.VertexStepModeVertex,
		Attributes: []gpu.VertexAttribute{
			{Format: gpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: gpu.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
			{Format: gpu.VertexFormatFloat32x2, Offset: 40, ShaderLocation: 3},
		},
	}
}

func (g *graphImpl) geometryPipeline() (gpu.RenderPipeline, error) {
	return g.pipeline("geometry", func() (gpu.RenderPipeline, error) {
		source := strings.Join([]string{
			camera.GPUCameraUniformSource,
			GPUDrawUniformSource,
			material.GPUMaterialParamsSource,
			geometryShaderSource,
		}, "\n")
		return g.device.CreateRenderPipeline(&gpu.RenderPipelineDescriptor{
			Label:              "geometry",
			BindGroupLayouts:   []gpu.BindGroupLayout{g.frameLayout, g.cache.Layout()},
			ShaderSource:       source,
			VertexEntryPoint:   "vs_main",
			FragmentEntryPoint: "fs_main",
			VertexBuffers:      []gpu.VertexBufferLayout{vertexLayout()},
			Targets: []gpu.ColorTargetState{
				{Format: formatAlbedo},
				{Format: formatNormal},
				{Format: formatEmissive},
			},
			DepthStencil: &gpu.DepthStencilState{
				Format:            formatDepth,
				DepthWriteEnabled: true,
				DepthCompare:      gpu.CompareFunctionLess,
			},
			Topology:  gpu.PrimitiveTopologyTriangleList,
			CullMode:  gpu.CullModeBack,
			FrontFace: gpu.FrontFaceCCW,
		})
	})
}

func (g *graphImpl) lightingPipeline() (gpu.RenderPipeline, error) {
	return g.pipeline("lighting", func() (gpu.RenderPipeline, error) {
		source := strings.Join([]string{
			camera.GPUCameraUniformSource,
			light.GPULightSource,
			light.GPULightHeaderSource,
			lightingShaderSource,
		}, "\n")
		return g.device.CreateRenderPipeline(&gpu.RenderPipelineDescriptor{
			Label:              "lighting",
			BindGroupLayouts:   []gpu.BindGroupLayout{g.lightingLayout},
			ShaderSource:       source,
			VertexEntryPoint:   "vs_main",
			FragmentEntryPoint: "fs_main",
			Targets: []gpu.ColorTargetState{
				{Format: formatHDR},
			},
			Topology:  gpu.PrimitiveTopologyTriangleList,
			CullMode:  gpu.CullModeNone,
			FrontFace: gpu.FrontFaceCCW,
		})
	})
}

func (g *graphImpl) toneMapPipeline() (gpu.RenderPipeline, error) {
	format := g.device.SurfaceFormat()
	key := fmt.Sprintf("tone-map/format-%d", format)
	return g.pipeline(key, func() (gpu.RenderPipeline, error) {
		return g.device.CreateRenderPipeline(&gpu.RenderPipelineDescriptor{
			Label:              "tone-map",
			BindGroupLayouts:   []gpu.BindGroupLayout{g.toneMapLayout},
			ShaderSource:       toneMapShaderSource,
			VertexEntryPoint:   "vs_main",
			FragmentEntryPoint: "fs_main",
			Targets: []gpu.ColorTargetState{
				{Format: format},
			},
			Topology:  gpu.PrimitiveTopologyTriangleList,
			CullMode:  gpu.CullModeNone,
			FrontFace: gpu.FrontFaceCCW,
		})
	})
}
