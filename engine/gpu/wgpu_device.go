package gpu

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/log"
	"github.com/cogentcore/webgpu/wgpu"
)

var gpuLog = log.New("gpu")

type wgpuDeviceOptions struct {
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	forceFallbackAdapter bool
	maxBindGroups        uint32
}

// WGPUDeviceOption configures WebGPU device creation.
type WGPUDeviceOption func(*wgpuDeviceOptions)

// WithSurfaceDescriptor supplies the window surface the device presents to.
// Required; device creation fails without it.
//
// Parameters:
//   - desc: the surface descriptor obtained from the window
//
// Returns:
//   - WGPUDeviceOption: the option to pass to NewWGPUDevice
func WithSurfaceDescriptor(desc *wgpu.SurfaceDescriptor) WGPUDeviceOption {
	return func(o *wgpuDeviceOptions) {
		o.surfaceDescriptor = desc
	}
}

// WithFallbackAdapter forces selection of a software fallback adapter.
//
// Parameters:
//   - force: true to require the fallback adapter
//
// Returns:
//   - WGPUDeviceOption: the option to pass to NewWGPUDevice
func WithFallbackAdapter(force bool) WGPUDeviceOption {
	return func(o *wgpuDeviceOptions) {
		o.forceFallbackAdapter = force
	}
}

// WithMaxBindGroups raises the bind group limit requested from the adapter.
//
// Parameters:
//   - count: the number of bind groups shaders may use
//
// Returns:
//   - WGPUDeviceOption: the option to pass to NewWGPUDevice
func WithMaxBindGroups(count uint32) WGPUDeviceOption {
	return func(o *wgpuDeviceOptions) {
		o.maxBindGroups = count
	}
}

type wgpuDevice struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpuQueue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	limits        Limits

	// Surface texture state held between AcquireSurfaceTexture and Present
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ Device = &wgpuDevice{}

// NewWGPUDevice creates a WebGPU device presenting to the surface provided
// via WithSurfaceDescriptor. The calling goroutine is locked to its OS thread
// for the lifetime of the device.
//
// Parameters:
//   - opts: device creation options
//
// Returns:
//   - Device: the created device
//   - error: an error if no adapter or device could be acquired
func NewWGPUDevice(opts ...WGPUDeviceOption) (Device, error) {
	runtime.LockOSThread()

	o := &wgpuDeviceOptions{maxBindGroups: 8}
	for _, opt := range opts {
		opt(o)
	}
	if o.surfaceDescriptor == nil {
		return nil, errors.New("a surface descriptor is required to create a device")
	}

	d := &wgpuDevice{
		mu:       &sync.Mutex{},
		instance: wgpu.CreateInstance(nil),
	}
	d.surface = d.instance.CreateSurface(o.surfaceDescriptor)

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: o.forceFallbackAdapter,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	d.adapter = adapter

	// Start from the WebGPU spec default limits and raise MaxBindGroups so
	// the deferred passes' frame, material and object groups all fit.
	limits := wgpu.DefaultLimits()
	limits.MaxBindGroups = o.maxBindGroups

	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Lumen Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	d.device = dev
	d.queue = &wgpuQueue{queue: dev.GetQueue()}
	d.limits = Limits{
		MaxBindGroups:                   limits.MaxBindGroups,
		MaxTextureDimension2D:           limits.MaxTextureDimension2D,
		MinUniformBufferOffsetAlignment: limits.MinUniformBufferOffsetAlignment,
	}

	gpuLog.Debugf("webgpu device ready, max bind groups %d", limits.MaxBindGroups)
	return d, nil
}

func (d *wgpuDevice) ConfigureSurface(cfg SurfaceConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	capabilities := d.surface.GetCapabilities(d.adapter)
	if len(capabilities.Formats) == 0 {
		return errors.New("surface reports no supported formats")
	}
	d.surfaceFormat = capabilities.Formats[0]
	if fromWGPUTextureFormat(d.surfaceFormat) == TextureFormatUndefined {
		return fmt.Errorf("unsupported surface format %v", d.surfaceFormat)
	}

	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.surfaceFormat,
		Width:       cfg.Width,
		Height:      cfg.Height,
		PresentMode: toWGPUPresentMode(cfg.PresentMode),
		AlphaMode:   capabilities.AlphaModes[0],
	})

	return nil
}

func (d *wgpuDevice) SurfaceFormat() TextureFormat {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fromWGPUTextureFormat(d.surfaceFormat)
}

func (d *wgpuDevice) AcquireSurfaceTexture() (TextureView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// If a previous frame's surface texture is still held, avoid acquiring
	// another one. This prevents wgpu-native validation errors like "Surface
	// image is already acquired" when frames overlap.
	if d.frameSurface != nil {
		return nil, fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, err
	}

	d.frameSurface = surfaceTexture
	d.frameView = view

	// The view is owned by the device and released by Present.
	return &wgpuTextureView{view: view}, nil
}

func (d *wgpuDevice) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameSurface == nil {
		return
	}

	d.surface.Present()

	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	d.frameSurface.Release()
	d.frameSurface = nil
}

func (d *wgpuDevice) CreateBuffer(desc *BufferDescriptor) (Buffer, error) {
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: toWGPUBufferUsage(desc.Usage),
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBuffer{buffer: buf, size: desc.Size}, nil
}

func (d *wgpuDevice) CreateTexture(desc *TextureDescriptor) (Texture, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: common.Coalesce(desc.MipLevelCount, 1),
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        toWGPUTextureFormat(desc.Format),
		Usage:         toWGPUTextureUsage(desc.Usage),
	})
	if err != nil {
		return nil, err
	}
	return &wgpuTexture{texture: tex, format: desc.Format}, nil
}

func (d *wgpuDevice) CreateSampler(desc *SamplerDescriptor) (Sampler, error) {
	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  toWGPUAddressMode(desc.AddressModeU),
		AddressModeV:  toWGPUAddressMode(desc.AddressModeV),
		AddressModeW:  toWGPUAddressMode(desc.AddressModeW),
		MagFilter:     toWGPUFilterMode(desc.MagFilter),
		MinFilter:     toWGPUFilterMode(desc.MinFilter),
		MipmapFilter:  toWGPUMipmapFilterMode(desc.MipmapFilter),
		LodMinClamp:   desc.LodMinClamp,
		LodMaxClamp:   common.Coalesce(desc.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(desc.MaxAnisotropy, 1),
		Compare:       toWGPUCompareFunction(desc.Compare),
	})
	if err != nil {
		return nil, err
	}
	return &wgpuSampler{sampler: samp}, nil
}

func (d *wgpuDevice) CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayout, error) {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(desc.Entries))
	for _, e := range desc.Entries {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: toWGPUShaderStage(e.Visibility),
		}
		switch {
		case e.Buffer != nil:
			entry.Buffer = wgpu.BufferBindingLayout{
				Type:             toWGPUBufferBindingType(e.Buffer.Type),
				HasDynamicOffset: e.Buffer.HasDynamicOffset,
				MinBindingSize:   e.Buffer.MinBindingSize,
			}
		case e.Texture != nil:
			entry.Texture = wgpu.TextureBindingLayout{
				SampleType: toWGPUTextureSampleType(e.Texture.SampleType),
			}
		case e.Sampler != nil:
			entry.Sampler = wgpu.SamplerBindingLayout{
				Type: toWGPUSamplerBindingType(e.Sampler.Type),
			}
		default:
			return nil, fmt.Errorf("bind group layout entry %d binds no resource", e.Binding)
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Binding < entries[j].Binding })

	layout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBindGroupLayout{layout: layout}, nil
}

func (d *wgpuDevice) CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error) {
	entries := make([]wgpu.BindGroupEntry, 0, len(desc.Entries))
	for _, e := range desc.Entries {
		entry := wgpu.BindGroupEntry{Binding: e.Binding}
		switch {
		case e.Buffer != nil:
			entry.Buffer = e.Buffer.(*wgpuBuffer).buffer
			entry.Offset = e.Offset
			entry.Size = common.Coalesce(e.Size, wgpu.WholeSize)
		case e.TextureView != nil:
			entry.TextureView = e.TextureView.(*wgpuTextureView).view
		case e.Sampler != nil:
			entry.Sampler = e.Sampler.(*wgpuSampler).sampler
		default:
			return nil, fmt.Errorf("bind group entry %d binds no resource", e.Binding)
		}
		entries = append(entries, entry)
	}

	group, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  desc.Layout.(*wgpuBindGroupLayout).layout,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuBindGroup{group: group}, nil
}

func (d *wgpuDevice) CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error) {
	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.ShaderSource,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module for %s: %w", desc.Label, err)
	}

	layouts := make([]*wgpu.BindGroupLayout, 0, len(desc.BindGroupLayouts))
	for _, l := range desc.BindGroupLayouts {
		layouts = append(layouts, l.(*wgpuBindGroupLayout).layout)
	}
	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label + " Layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, err
	}

	vertexLayouts := make([]wgpu.VertexBufferLayout, 0, len(desc.VertexBuffers))
	for _, vb := range desc.VertexBuffers {
		attrs := make([]wgpu.VertexAttribute, 0, len(vb.Attributes))
		for _, a := range vb.Attributes {
			attrs = append(attrs, wgpu.VertexAttribute{
				Format:         toWGPUVertexFormat(a.Format),
				Offset:         a.Offset,
				ShaderLocation: a.ShaderLocation,
			})
		}
		vertexLayouts = append(vertexLayouts, wgpu.VertexBufferLayout{
			ArrayStride: vb.ArrayStride,
			StepMode:    toWGPUVertexStepMode(vb.StepMode),
			Attributes:  attrs,
		})
	}

	targets := make([]wgpu.ColorTargetState, 0, len(desc.Targets))
	for _, t := range desc.Targets {
		state := wgpu.ColorTargetState{
			Format:    toWGPUTextureFormat(t.Format),
			WriteMask: wgpu.ColorWriteMaskAll,
		}
		if t.Blend != nil {
			state.Blend = &wgpu.BlendState{
				Color: wgpu.BlendComponent{
					SrcFactor: toWGPUBlendFactor(t.Blend.Color.SrcFactor),
					DstFactor: toWGPUBlendFactor(t.Blend.Color.DstFactor),
					Operation: toWGPUBlendOperation(t.Blend.Color.Operation),
				},
				Alpha: wgpu.BlendComponent{
					SrcFactor: toWGPUBlendFactor(t.Blend.Alpha.SrcFactor),
					DstFactor: toWGPUBlendFactor(t.Blend.Alpha.DstFactor),
					Operation: toWGPUBlendOperation(t.Blend.Alpha.Operation),
				},
			}
		}
		targets = append(targets, state)
	}

	pipelineDesc := &wgpu.RenderPipelineDescriptor{
		Label:  desc.Label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntryPoint,
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: desc.FragmentEntryPoint,
			Targets:    targets,
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  toWGPUPrimitiveTopology(desc.Topology),
			FrontFace: toWGPUFrontFace(desc.FrontFace),
			CullMode:  toWGPUCullMode(desc.CullMode),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
	if desc.DepthStencil != nil {
		pipelineDesc.DepthStencil = &wgpu.DepthStencilState{
			Format:            toWGPUTextureFormat(desc.DepthStencil.Format),
			DepthWriteEnabled: desc.DepthStencil.DepthWriteEnabled,
			DepthCompare:      toWGPUCompareFunction(desc.DepthStencil.DepthCompare),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	created, err := d.device.CreateRenderPipeline(pipelineDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline %s: %w", desc.Label, err)
	}
	return &wgpuRenderPipeline{pipeline: created}, nil
}

func (d *wgpuDevice) CreateCommandEncoder(label string) (CommandEncoder, error) {
	encoder, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{
		Label: label,
	})
	if err != nil {
		return nil, err
	}
	return &wgpuCommandEncoder{encoder: encoder}, nil
}

func (d *wgpuDevice) Queue() Queue {
	return d.queue
}

func (d *wgpuDevice) Limits() Limits {
	return d.limits
}

func (d *wgpuDevice) Info() DeviceInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DeviceInfo{
		Backend:       "webgpu",
		SurfaceFormat: fromWGPUTextureFormat(d.surfaceFormat),
	}
}

func (d *wgpuDevice) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	if d.frameSurface != nil {
		d.frameSurface.Release()
		d.frameSurface = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// ── queue ──

type wgpuQueue struct {
	queue *wgpu.Queue
}

var _ Queue = &wgpuQueue{}

func (q *wgpuQueue) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	return q.queue.WriteBuffer(buf.(*wgpuBuffer).buffer, offset, data)
}

func (q *wgpuQueue) WriteTexture(dst TextureCopy, data []byte, layout TextureDataLayout, width, height uint32) error {
	q.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  dst.Texture.(*wgpuTexture).texture,
			MipLevel: dst.MipLevel,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       layout.Offset,
			BytesPerRow:  layout.BytesPerRow,
			RowsPerImage: layout.RowsPerImage,
		},
		&wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

func (q *wgpuQueue) Submit(fence *Fence, buffers ...CommandBuffer) error {
	cbs := make([]*wgpu.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cbs = append(cbs, b.(*wgpuCommandBuffer).buffer)
	}
	q.queue.Submit(cbs...)

	// wgpu-native has scheduled the work once Submit returns; the binding
	// exposes no completion callback, so the fence signals here and actual
	// pacing comes from the surface's present mode.
	if fence != nil {
		fence.Signal()
	}
	return nil
}

// ── command recording ──

type wgpuCommandEncoder struct {
	encoder *wgpu.CommandEncoder
}

var _ CommandEncoder = &wgpuCommandEncoder{}

func (e *wgpuCommandEncoder) Transition(transitions ...Transition) {
	// WebGPU derives barriers from attachment and binding usage, so layout
	// transitions are not encoded here.
}

func (e *wgpuCommandEncoder) BeginRenderPass(desc *RenderPassDescriptor) RenderPass {
	colorAttachments := make([]wgpu.RenderPassColorAttachment, 0, len(desc.ColorAttachments))
	for _, a := range desc.ColorAttachments {
		colorAttachments = append(colorAttachments, wgpu.RenderPassColorAttachment{
			View:    a.View.(*wgpuTextureView).view,
			LoadOp:  toWGPULoadOp(a.LoadOp),
			StoreOp: toWGPUStoreOp(a.StoreOp),
			ClearValue: wgpu.Color{
				R: a.ClearValue.R,
				G: a.ClearValue.G,
				B: a.ClearValue.B,
				A: a.ClearValue.A,
			},
		})
	}

	rpDesc := &wgpu.RenderPassDescriptor{
		Label:            desc.Label,
		ColorAttachments: colorAttachments,
	}
	if desc.DepthAttachment != nil {
		rpDesc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            desc.DepthAttachment.View.(*wgpuTextureView).view,
			DepthLoadOp:     toWGPULoadOp(desc.DepthAttachment.LoadOp),
			DepthStoreOp:    toWGPUStoreOp(desc.DepthAttachment.StoreOp),
			DepthClearValue: desc.DepthAttachment.ClearDepth,
		}
	}

	return &wgpuRenderPass{pass: e.encoder.BeginRenderPass(rpDesc)}
}

func (e *wgpuCommandEncoder) Finish() (CommandBuffer, error) {
	buf, err := e.encoder.Finish(nil)
	if err != nil {
		e.encoder.Release()
		return nil, err
	}
	e.encoder.Release()
	return &wgpuCommandBuffer{buffer: buf}, nil
}

type wgpuRenderPass struct {
	pass *wgpu.RenderPassEncoder
}

var _ RenderPass = &wgpuRenderPass{}

func (p *wgpuRenderPass) SetPipeline(pipeline RenderPipeline) {
	p.pass.SetPipeline(pipeline.(*wgpuRenderPipeline).pipeline)
}

func (p *wgpuRenderPass) SetBindGroup(index uint32, group BindGroup, dynamicOffsets ...uint32) {
	p.pass.SetBindGroup(index, group.(*wgpuBindGroup).group, dynamicOffsets)
}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, buf Buffer) {
	p.pass.SetVertexBuffer(slot, buf.(*wgpuBuffer).buffer, 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) SetIndexBuffer(buf Buffer, format IndexFormat) {
	p.pass.SetIndexBuffer(buf.(*wgpuBuffer).buffer, toWGPUIndexFormat(format), 0, wgpu.WholeSize)
}

func (p *wgpuRenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, 0, 0)
}

func (p *wgpuRenderPass) Draw(vertexCount, instanceCount uint32) {
	p.pass.Draw(vertexCount, instanceCount, 0, 0)
}

func (p *wgpuRenderPass) End() {
	p.pass.End()
}

// ── resources ──

type wgpuBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

func (b *wgpuBuffer) Size() uint64 {
	return b.size
}

func (b *wgpuBuffer) Release() {
	b.buffer.Release()
}

type wgpuTexture struct {
	texture *wgpu.Texture
	format  TextureFormat
}

func (t *wgpuTexture) CreateView() (TextureView, error) {
	view, err := t.texture.CreateView(nil)
	if err != nil {
		return nil, err
	}
	return &wgpuTextureView{view: view, owned: true}, nil
}

func (t *wgpuTexture) Format() TextureFormat {
	return t.format
}

func (t *wgpuTexture) Release() {
	t.texture.Release()
}

type wgpuTextureView struct {
	view *wgpu.TextureView

	// owned is false for surface views, which the device releases in Present.
	owned bool
}

func (v *wgpuTextureView) Release() {
	if v.owned {
		v.view.Release()
	}
}

type wgpuSampler struct {
	sampler *wgpu.Sampler
}

func (s *wgpuSampler) Release() {
	s.sampler.Release()
}

type wgpuBindGroupLayout struct {
	layout *wgpu.BindGroupLayout
}

func (l *wgpuBindGroupLayout) Release() {
	l.layout.Release()
}

type wgpuBindGroup struct {
	group *wgpu.BindGroup
}

func (g *wgpuBindGroup) Release() {
	g.group.Release()
}

type wgpuRenderPipeline struct {
	pipeline *wgpu.RenderPipeline
}

func (p *wgpuRenderPipeline) Release() {
	p.pipeline.Release()
}

type wgpuCommandBuffer struct {
	buffer *wgpu.CommandBuffer
}

func (c *wgpuCommandBuffer) Release() {
	c.buffer.Release()
}

// ── enum mapping ──

func toWGPUTextureFormat(f TextureFormat) wgpu.TextureFormat {
	switch f {
	case TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm
	case TextureFormatRGBA8UnormSrgb:
		return wgpu.TextureFormatRGBA8UnormSrgb
	case TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	case TextureFormatBGRA8UnormSrgb:
		return wgpu.TextureFormatBGRA8UnormSrgb
	case TextureFormatRGBA16Float:
		return wgpu.TextureFormatRGBA16Float
	case TextureFormatDepth24Plus:
		return wgpu.TextureFormatDepth24Plus
	case TextureFormatDepth32Float:
		return wgpu.TextureFormatDepth32Float
	default:
		return wgpu.TextureFormatUndefined
	}
}

func fromWGPUTextureFormat(f wgpu.TextureFormat) TextureFormat {
	switch f {
	case wgpu.TextureFormatRGBA8Unorm:
		return TextureFormatRGBA8Unorm
	case wgpu.TextureFormatRGBA8UnormSrgb:
		return TextureFormatRGBA8UnormSrgb
	case wgpu.TextureFormatBGRA8Unorm:
		return TextureFormatBGRA8Unorm
	case wgpu.TextureFormatBGRA8UnormSrgb:
		return TextureFormatBGRA8UnormSrgb
	case wgpu.TextureFormatRGBA16Float:
		return TextureFormatRGBA16Float
	case wgpu.TextureFormatDepth24Plus:
		return TextureFormatDepth24Plus
	case wgpu.TextureFormatDepth32Float:
		return TextureFormatDepth32Float
	default:
		return TextureFormatUndefined
	}
}

func toWGPUTextureUsage(u TextureUsage) wgpu.TextureUsage {
	var out wgpu.TextureUsage
	if u&TextureUsageCopySrc != 0 {
		out |= wgpu.TextureUsageCopySrc
	}
	if u&TextureUsageCopyDst != 0 {
		out |= wgpu.TextureUsageCopyDst
	}
	if u&TextureUsageTextureBinding != 0 {
		out |= wgpu.TextureUsageTextureBinding
	}
	if u&TextureUsageStorageBinding != 0 {
		out |= wgpu.TextureUsageStorageBinding
	}
	if u&TextureUsageRenderAttachment != 0 {
		out |= wgpu.TextureUsageRenderAttachment
	}
	return out
}

func toWGPUBufferUsage(u BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u&BufferUsageCopySrc != 0 {
		out |= wgpu.BufferUsageCopySrc
	}
	if u&BufferUsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	if u&BufferUsageIndex != 0 {
		out |= wgpu.BufferUsageIndex
	}
	if u&BufferUsageVertex != 0 {
		out |= wgpu.BufferUsageVertex
	}
	if u&BufferUsageUniform != 0 {
		out |= wgpu.BufferUsageUniform
	}
	if u&BufferUsageStorage != 0 {
		out |= wgpu.BufferUsageStorage
	}
	if u&BufferUsageIndirect != 0 {
		out |= wgpu.BufferUsageIndirect
	}
	return out
}

func toWGPUPresentMode(m PresentMode) wgpu.PresentMode {
	switch m {
	case PresentModeImmediate:
		return wgpu.PresentModeImmediate
	case PresentModeMailbox:
		return wgpu.PresentModeMailbox
	default:
		return wgpu.PresentModeFifo
	}
}

func toWGPULoadOp(op LoadOp) wgpu.LoadOp {
	if op == LoadOpLoad {
		return wgpu.LoadOpLoad
	}
	return wgpu.LoadOpClear
}

func toWGPUStoreOp(op StoreOp) wgpu.StoreOp {
	if op == StoreOpDiscard {
		return wgpu.StoreOpDiscard
	}
	return wgpu.StoreOpStore
}

func toWGPUCompareFunction(f CompareFunction) wgpu.CompareFunction {
	switch f {
	case CompareFunctionNever:
		return wgpu.CompareFunctionNever
	case CompareFunctionLess:
		return wgpu.CompareFunctionLess
	case CompareFunctionEqual:
		return wgpu.CompareFunctionEqual
	case CompareFunctionLessEqual:
		return wgpu.CompareFunctionLessEqual
	case CompareFunctionGreater:
		return wgpu.CompareFunctionGreater
	case CompareFunctionNotEqual:
		return wgpu.CompareFunctionNotEqual
	case CompareFunctionGreaterEqual:
		return wgpu.CompareFunctionGreaterEqual
	case CompareFunctionAlways:
		return wgpu.CompareFunctionAlways
	default:
		return wgpu.CompareFunctionUndefined
	}
}

func toWGPUAddressMode(m AddressMode) wgpu.AddressMode {
	switch m {
	case AddressModeMirrorRepeat:
		return wgpu.AddressModeMirrorRepeat
	case AddressModeClampToEdge:
		return wgpu.AddressModeClampToEdge
	default:
		return wgpu.AddressModeRepeat
	}
}

func toWGPUFilterMode(m FilterMode) wgpu.FilterMode {
	if m == FilterModeLinear {
		return wgpu.FilterModeLinear
	}
	return wgpu.FilterModeNearest
}

func toWGPUMipmapFilterMode(m MipmapFilterMode) wgpu.MipmapFilterMode {
	if m == MipmapFilterModeLinear {
		return wgpu.MipmapFilterModeLinear
	}
	return wgpu.MipmapFilterModeNearest
}

func toWGPUIndexFormat(f IndexFormat) wgpu.IndexFormat {
	if f == IndexFormatUint16 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

func toWGPUPrimitiveTopology(t PrimitiveTopology) wgpu.PrimitiveTopology {
	switch t {
	case PrimitiveTopologyTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	case PrimitiveTopologyLineList:
		return wgpu.PrimitiveTopologyLineList
	default:
		return wgpu.PrimitiveTopologyTriangleList
	}
}

func toWGPUFrontFace(f FrontFace) wgpu.FrontFace {
	if f == FrontFaceCW {
		return wgpu.FrontFaceCW
	}
	return wgpu.FrontFaceCCW
}

func toWGPUCullMode(m CullMode) wgpu.CullMode {
	switch m {
	case CullModeFront:
		return wgpu.CullModeFront
	case CullModeBack:
		return wgpu.CullModeBack
	default:
		return wgpu.CullModeNone
	}
}

func toWGPUShaderStage(s ShaderStage) wgpu.ShaderStage {
	var out wgpu.ShaderStage
	if s&ShaderStageVertex != 0 {
		out |= wgpu.ShaderStageVertex
	}
	if s&ShaderStageFragment != 0 {
		out |= wgpu.ShaderStageFragment
	}
	if s&ShaderStageCompute != 0 {
		out |= wgpu.ShaderStageCompute
	}
	return out
}

func toWGPUBufferBindingType(t BufferBindingType) wgpu.BufferBindingType {
	switch t {
	case BufferBindingTypeStorage:
		return wgpu.BufferBindingTypeStorage
	case BufferBindingTypeReadOnlyStorage:
		return wgpu.BufferBindingTypeReadOnlyStorage
	default:
		return wgpu.BufferBindingTypeUniform
	}
}

func toWGPUTextureSampleType(t TextureSampleType) wgpu.TextureSampleType {
	switch t {
	case TextureSampleTypeUnfilterableFloat:
		return wgpu.TextureSampleTypeUnfilterableFloat
	case TextureSampleTypeDepth:
		return wgpu.TextureSampleTypeDepth
	default:
		return wgpu.TextureSampleTypeFloat
	}
}

func toWGPUSamplerBindingType(t SamplerBindingType) wgpu.SamplerBindingType {
	switch t {
	case SamplerBindingTypeNonFiltering:
		return wgpu.SamplerBindingTypeNonFiltering
	case SamplerBindingTypeComparison:
		return wgpu.SamplerBindingTypeComparison
	default:
		return wgpu.SamplerBindingTypeFiltering
	}
}

func toWGPUVertexFormat(f VertexFormat) wgpu.VertexFormat {
	switch f {
	case VertexFormatFloat32:
		return wgpu.VertexFormatFloat32
	case VertexFormatFloat32x2:
		return wgpu.VertexFormatFloat32x2
	case VertexFormatFloat32x3:
		return wgpu.VertexFormatFloat32x3
	case VertexFormatFloat32x4:
		return wgpu.VertexFormatFloat32x4
	default:
		return wgpu.VertexFormatUint32
	}
}

func toWGPUVertexStepMode(m VertexStepMode) wgpu.VertexStepMode {
	if m == VertexStepModeInstance {
		return wgpu.VertexStepModeInstance
	}
	return wgpu.VertexStepModeVertex
}

func toWGPUBlendFactor(f BlendFactor) wgpu.BlendFactor {
	switch f {
	case BlendFactorZero:
		return wgpu.BlendFactorZero
	case BlendFactorSrcAlpha:
		return wgpu.BlendFactorSrcAlpha
	case BlendFactorOneMinusSrcAlpha:
		return wgpu.BlendFactorOneMinusSrcAlpha
	default:
		return wgpu.BlendFactorOne
	}
}

func toWGPUBlendOperation(o BlendOperation) wgpu.BlendOperation {
	return wgpu.BlendOperationAdd
}
