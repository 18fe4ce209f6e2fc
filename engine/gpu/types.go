package gpu

// TextureFormat describes the texel layout of a texture.
type TextureFormat int

const (
	TextureFormatUndefined TextureFormat = iota
	TextureFormatRGBA8Unorm
	TextureFormatRGBA8UnormSrgb
	TextureFormatBGRA8Unorm
	TextureFormatBGRA8UnormSrgb
	TextureFormatRGBA16Float
	TextureFormatDepth24Plus
	TextureFormatDepth32Float
)

// IsDepth reports whether the format is a depth format.
//
// Returns:
//   - bool: true when the format stores depth rather than color
func (f TextureFormat) IsDepth() bool {
	return f == TextureFormatDepth24Plus || f == TextureFormatDepth32Float
}

// BytesPerTexel returns the per-texel byte size for uploadable color formats.
//
// Returns:
//   - uint32: byte size of one texel, 0 for depth or undefined formats
func (f TextureFormat) BytesPerTexel() uint32 {
	switch f {
	case TextureFormatRGBA8Unorm, TextureFormatRGBA8UnormSrgb, TextureFormatBGRA8Unorm, TextureFormatBGRA8UnormSrgb:
		return 4
	case TextureFormatRGBA16Float:
		return 8
	default:
		return 0
	}
}

// String returns the WebGPU-style name of the format.
//
// Returns:
//   - string: the lowercase format name
func (f TextureFormat) String() string {
	switch f {
	case TextureFormatRGBA8Unorm:
		return "rgba8unorm"
	case TextureFormatRGBA8UnormSrgb:
		return "rgba8unorm-srgb"
	case TextureFormatBGRA8Unorm:
		return "bgra8unorm"
	case TextureFormatBGRA8UnormSrgb:
		return "bgra8unorm-srgb"
	case TextureFormatRGBA16Float:
		return "rgba16float"
	case TextureFormatDepth24Plus:
		return "depth24plus"
	case TextureFormatDepth32Float:
		return "depth32float"
	default:
		return "undefined"
	}
}

// TextureUsage is a bitmask of the ways a texture may be used.
type TextureUsage uint32

const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageTextureBinding
	TextureUsageStorageBinding
	TextureUsageRenderAttachment
)

// BufferUsage is a bitmask of the ways a buffer may be used.
type BufferUsage uint32

const (
	BufferUsageCopySrc BufferUsage = 1 << iota
	BufferUsageCopyDst
	BufferUsageIndex
	BufferUsageVertex
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageIndirect
)

// PresentMode selects how surface presentation is paced.
type PresentMode int

const (
	PresentModeFifo PresentMode = iota
	PresentModeImmediate
	PresentModeMailbox
)

// String returns the WebGPU-style name of the present mode.
//
// Returns:
//   - string: the lowercase mode name
func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "immediate"
	case PresentModeMailbox:
		return "mailbox"
	default:
		return "fifo"
	}
}

// LoadOp selects what happens to an attachment at the start of a pass.
type LoadOp int

const (
	LoadOpClear LoadOp = iota
	LoadOpLoad
)

// StoreOp selects what happens to an attachment at the end of a pass.
type StoreOp int

const (
	StoreOpStore StoreOp = iota
	StoreOpDiscard
)

// CompareFunction is a depth or sampler comparison operator.
type CompareFunction int

const (
	CompareFunctionUndefined CompareFunction = iota
	CompareFunctionNever
	CompareFunctionLess
	CompareFunctionEqual
	CompareFunctionLessEqual
	CompareFunctionGreater
	CompareFunctionNotEqual
	CompareFunctionGreaterEqual
	CompareFunctionAlways
)

// AddressMode selects sampler wrapping behavior outside [0, 1].
type AddressMode int

const (
	AddressModeRepeat AddressMode = iota
	AddressModeMirrorRepeat
	AddressModeClampToEdge
)

// FilterMode selects sampler filtering between texels.
type FilterMode int

const (
	FilterModeNearest FilterMode = iota
	FilterModeLinear
)

// MipmapFilterMode selects sampler filtering between mip levels.
type MipmapFilterMode int

const (
	MipmapFilterModeNearest MipmapFilterMode = iota
	MipmapFilterModeLinear
)

// IndexFormat is the element width of an index buffer.
type IndexFormat int

const (
	IndexFormatUint16 IndexFormat = iota
	IndexFormatUint32
)

// PrimitiveTopology selects how vertices assemble into primitives.
type PrimitiveTopology int

const (
	PrimitiveTopologyTriangleList PrimitiveTopology = iota
	PrimitiveTopologyTriangleStrip
	PrimitiveTopologyLineList
)

// FrontFace selects the winding order treated as front-facing.
type FrontFace int

const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

// CullMode selects which primitive faces are discarded.
type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// ShaderStage is a bitmask of pipeline stages a binding is visible to.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute
)

// BufferBindingType selects how a buffer binding is accessed by shaders.
type BufferBindingType int

const (
	BufferBindingTypeUniform BufferBindingType = iota
	BufferBindingTypeStorage
	BufferBindingTypeReadOnlyStorage
)

// TextureSampleType selects how a sampled texture binding is read.
type TextureSampleType int

const (
	TextureSampleTypeFloat TextureSampleType = iota
	TextureSampleTypeUnfilterableFloat
	TextureSampleTypeDepth
)

// SamplerBindingType selects the sampler flavor of a sampler binding.
type SamplerBindingType int

const (
	SamplerBindingTypeFiltering SamplerBindingType = iota
	SamplerBindingTypeNonFiltering
	SamplerBindingTypeComparison
)

// VertexFormat is the component layout of one vertex attribute.
type VertexFormat int

const (
	VertexFormatFloat32 VertexFormat = iota
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
	VertexFormatUint32
)

// VertexStepMode selects whether a vertex buffer advances per vertex or per instance.
type VertexStepMode int

const (
	VertexStepModeVertex VertexStepMode = iota
	VertexStepModeInstance
)

// Layout is the usage state a texture occupies between transitions. Render
// pass edges transition attachments between producing and consuming layouts.
type Layout int

const (
	LayoutUndefined Layout = iota
	LayoutColorTarget
	LayoutDepthTarget
	LayoutShaderRead
	LayoutCopySrc
	LayoutCopyDst
	LayoutPresent
)

// Transition declares a layout change for one texture at a pass edge.
type Transition struct {
	Texture Texture
	From    Layout
	To      Layout
}

// Color is a normalized RGBA clear color.
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// SurfaceConfig describes how the presentation surface is configured.
type SurfaceConfig struct {
	Width       uint32
	Height      uint32
	PresentMode PresentMode
}

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	Label         string
	Width         uint32
	Height        uint32
	MipLevelCount uint32
	Format        TextureFormat
	Usage         TextureUsage
}

// BufferDescriptor describes a buffer to create.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// SamplerDescriptor describes a sampler to create. Zero values resolve to
// repeat addressing and nearest filtering; LodMaxClamp and MaxAnisotropy
// default to 32 and 1.
type SamplerDescriptor struct {
	Label         string
	AddressModeU  AddressMode
	AddressModeV  AddressMode
	AddressModeW  AddressMode
	MagFilter     FilterMode
	MinFilter     FilterMode
	MipmapFilter  MipmapFilterMode
	LodMinClamp   float32
	LodMaxClamp   float32
	MaxAnisotropy uint16
	Compare       CompareFunction
}

// BufferBindingLayout describes a buffer entry within a bind group layout.
type BufferBindingLayout struct {
	Type             BufferBindingType
	HasDynamicOffset bool
	MinBindingSize   uint64
}

// TextureBindingLayout describes a sampled texture entry within a bind group layout.
type TextureBindingLayout struct {
	SampleType TextureSampleType
}

// SamplerBindingLayout describes a sampler entry within a bind group layout.
type SamplerBindingLayout struct {
	Type SamplerBindingType
}

// BindGroupLayoutEntry describes one slot of a bind group layout. Exactly one
// of Buffer, Texture or Sampler must be set.
type BindGroupLayoutEntry struct {
	Binding    uint32
	Visibility ShaderStage
	Buffer     *BufferBindingLayout
	Texture    *TextureBindingLayout
	Sampler    *SamplerBindingLayout
}

// BindGroupLayoutDescriptor describes a bind group layout to create.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BindGroupEntry binds one resource to a layout slot. Exactly one of Buffer,
// TextureView or Sampler must be set; Offset and Size apply to buffers only.
type BindGroupEntry struct {
	Binding     uint32
	Buffer      Buffer
	Offset      uint64
	Size        uint64
	TextureView TextureView
	Sampler     Sampler
}

// BindGroupDescriptor describes a bind group to create.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// RenderPassColorAttachment describes one color target of a render pass.
type RenderPassColorAttachment struct {
	View       TextureView
	LoadOp     LoadOp
	StoreOp    StoreOp
	ClearValue Color
}

// RenderPassDepthAttachment describes the depth target of a render pass.
type RenderPassDepthAttachment struct {
	View       TextureView
	LoadOp     LoadOp
	StoreOp    StoreOp
	ClearDepth float32
}

// RenderPassDescriptor describes a render pass to begin.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []RenderPassColorAttachment
	DepthAttachment  *RenderPassDepthAttachment
}

// VertexAttribute describes one attribute within a vertex buffer layout.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexBufferLayout describes the stride and attributes of one vertex buffer slot.
type VertexBufferLayout struct {
	ArrayStride uint64
	StepMode    VertexStepMode
	Attributes  []VertexAttribute
}

// BlendComponent describes blending for one channel group.
type BlendComponent struct {
	SrcFactor BlendFactor
	DstFactor BlendFactor
	Operation BlendOperation
}

// BlendState describes color and alpha blending for a color target.
type BlendState struct {
	Color BlendComponent
	Alpha BlendComponent
}

// BlendFactor scales a blend input.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
)

// BlendOperation combines scaled blend inputs.
type BlendOperation int

const (
	BlendOperationAdd BlendOperation = iota
)

// ColorTargetState describes one color output of a render pipeline. A nil
// Blend writes source color unmodified.
type ColorTargetState struct {
	Format TextureFormat
	Blend  *BlendState
}

// DepthStencilState describes the depth output of a render pipeline.
type DepthStencilState struct {
	Format            TextureFormat
	DepthWriteEnabled bool
	DepthCompare      CompareFunction
}

// RenderPipelineDescriptor describes a render pipeline to create. ShaderSource
// holds WGSL compiled into a module for both entry points.
type RenderPipelineDescriptor struct {
	Label              string
	BindGroupLayouts   []BindGroupLayout
	ShaderSource       string
	VertexEntryPoint   string
	FragmentEntryPoint string
	VertexBuffers      []VertexBufferLayout
	Targets            []ColorTargetState
	DepthStencil       *DepthStencilState
	Topology           PrimitiveTopology
	CullMode           CullMode
	FrontFace          FrontFace
}

// TextureCopy selects the destination of a texture upload.
type TextureCopy struct {
	Texture  Texture
	MipLevel uint32
}

// TextureDataLayout describes the memory layout of texture upload data.
type TextureDataLayout struct {
	Offset       uint64
	BytesPerRow  uint32
	RowsPerImage uint32
}

// Limits holds the device limits the rest of the engine sizes itself against.
type Limits struct {
	MaxBindGroups                   uint32
	MaxTextureDimension2D           uint32
	MinUniformBufferOffsetAlignment uint32
}

// DeviceInfo identifies a device for diagnostics output.
type DeviceInfo struct {
	Backend       string
	SurfaceFormat TextureFormat
}
