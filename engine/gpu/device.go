// Package gpu abstracts the graphics device behind narrow interfaces so the
// renderer core can run against the real WebGPU backend or the recording null
// backend interchangeably. The null backend captures command streams, uploads
// and layout transitions, and lets tests drive submission completion by hand.
package gpu

// Device creates GPU resources and owns the presentation surface.
type Device interface {
	// ConfigureSurface (re)configures the presentation surface. It must be
	// called before the first AcquireSurfaceTexture and again after the
	// window is resized or the surface is lost.
	//
	// Parameters:
	//   - cfg: surface dimensions and presentation pacing
	//
	// Returns:
	//   - error: an error if the surface could not be configured
	ConfigureSurface(cfg SurfaceConfig) error

	// SurfaceFormat returns the texture format of the presentation surface.
	//
	// Returns:
	//   - TextureFormat: the configured surface format
	SurfaceFormat() TextureFormat

	// AcquireSurfaceTexture obtains the next presentable surface texture view.
	//
	// Returns:
	//   - TextureView: a view of the surface texture to render into
	//   - error: ErrSurfaceLost when the surface must be reconfigured, or any
	//     other acquisition error
	AcquireSurfaceTexture() (TextureView, error)

	// Present presents the most recently acquired surface texture.
	Present()

	// CreateBuffer creates a GPU buffer.
	//
	// Parameters:
	//   - desc: buffer size, usage and debug label
	//
	// Returns:
	//   - Buffer: the created buffer
	//   - error: an error if creation failed
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)

	// CreateTexture creates a 2D texture.
	//
	// Parameters:
	//   - desc: texture dimensions, mip count, format and usage
	//
	// Returns:
	//   - Texture: the created texture
	//   - error: an error if creation failed
	CreateTexture(desc *TextureDescriptor) (Texture, error)

	// CreateSampler creates a sampler. Zero descriptor fields resolve to the
	// defaults documented on SamplerDescriptor.
	//
	// Parameters:
	//   - desc: sampler addressing, filtering and comparison configuration
	//
	// Returns:
	//   - Sampler: the created sampler
	//   - error: an error if creation failed
	CreateSampler(desc *SamplerDescriptor) (Sampler, error)

	// CreateBindGroupLayout creates a bind group layout.
	//
	// Parameters:
	//   - desc: the layout entries, sorted or unsorted by binding index
	//
	// Returns:
	//   - BindGroupLayout: the created layout
	//   - error: an error if creation failed
	CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayout, error)

	// CreateBindGroup creates a bind group against a previously created layout.
	//
	// Parameters:
	//   - desc: the layout and the resources bound to each of its slots
	//
	// Returns:
	//   - BindGroup: the created bind group
	//   - error: an error if creation failed
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error)

	// CreateRenderPipeline compiles the descriptor's shader source and creates
	// a render pipeline from it.
	//
	// Parameters:
	//   - desc: shader source, vertex layout, bind group layouts and fixed
	//     function state
	//
	// Returns:
	//   - RenderPipeline: the created pipeline
	//   - error: an error if shader compilation or pipeline creation failed
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateCommandEncoder creates an encoder for recording one command buffer.
	//
	// Parameters:
	//   - label: debug label attached to the encoder
	//
	// Returns:
	//   - CommandEncoder: the created encoder
	//   - error: an error if creation failed
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// Queue returns the device's submission queue.
	//
	// Returns:
	//   - Queue: the queue commands and uploads are issued against
	Queue() Queue

	// Limits returns the limits the device was created with.
	//
	// Returns:
	//   - Limits: the effective device limits
	Limits() Limits

	// Info returns identifying information for diagnostics output.
	//
	// Returns:
	//   - DeviceInfo: backend name and surface format
	Info() DeviceInfo

	// Destroy releases the device and everything it owns. The device must not
	// be used afterwards.
	Destroy()
}

// Queue issues uploads and command buffer submissions to the device.
type Queue interface {
	// WriteBuffer schedules a write of data into buf at the given offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: destination offset in bytes
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if the write could not be scheduled
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	// WriteTexture schedules a write of pixel data into one mip level of a
	// texture.
	//
	// Parameters:
	//   - dst: the destination texture and mip level
	//   - data: tightly packed pixel rows
	//   - layout: the row pitch of data
	//   - width: destination region width in texels
	//   - height: destination region height in texels
	//
	// Returns:
	//   - error: an error if the write could not be scheduled
	WriteTexture(dst TextureCopy, data []byte, layout TextureDataLayout, width, height uint32) error

	// Submit submits command buffers for execution. When fence is non-nil it
	// is signaled once the submission's work is known to be complete, making
	// it the completion signal frame pacing blocks on.
	//
	// Parameters:
	//   - fence: the completion fence to signal, or nil
	//   - buffers: the command buffers to execute in order
	//
	// Returns:
	//   - error: an error if submission failed
	Submit(fence *Fence, buffers ...CommandBuffer) error
}

// CommandEncoder records layout transitions and render passes into a single
// command buffer.
type CommandEncoder interface {
	// Transition records texture layout transitions at the current point in
	// the command stream. Transitions are recorded between passes, never
	// inside one.
	//
	// Parameters:
	//   - transitions: the layout changes to apply before the next pass
	Transition(transitions ...Transition)

	// BeginRenderPass begins a render pass targeting the descriptor's
	// attachments.
	//
	// Parameters:
	//   - desc: pass label and attachments
	//
	// Returns:
	//   - RenderPass: the recording pass, which must be ended before Finish
	BeginRenderPass(desc *RenderPassDescriptor) RenderPass

	// Finish ends recording and produces the command buffer.
	//
	// Returns:
	//   - CommandBuffer: the recorded commands
	//   - error: an error if recording failed
	Finish() (CommandBuffer, error)
}

// RenderPass records draw state and draws inside one render pass.
type RenderPass interface {
	// SetPipeline binds the render pipeline for subsequent draws.
	//
	// Parameters:
	//   - pipeline: the pipeline to bind
	SetPipeline(pipeline RenderPipeline)

	// SetBindGroup binds a bind group at the given set index.
	//
	// Parameters:
	//   - index: the set index the group binds to
	//   - group: the bind group
	//   - dynamicOffsets: one offset per dynamic buffer entry in the group
	SetBindGroup(index uint32, group BindGroup, dynamicOffsets ...uint32)

	// SetVertexBuffer binds a vertex buffer at the given slot.
	//
	// Parameters:
	//   - slot: the vertex buffer slot
	//   - buf: the buffer holding vertex data
	SetVertexBuffer(slot uint32, buf Buffer)

	// SetIndexBuffer binds the index buffer for subsequent indexed draws.
	//
	// Parameters:
	//   - buf: the buffer holding index data
	//   - format: the index element width
	SetIndexBuffer(buf Buffer, format IndexFormat)

	// DrawIndexed records an indexed draw.
	//
	// Parameters:
	//   - indexCount: number of indices to draw
	//   - instanceCount: number of instances to draw
	//   - firstIndex: offset into the bound index buffer
	DrawIndexed(indexCount, instanceCount, firstIndex uint32)

	// Draw records a non-indexed draw, used by full-screen passes.
	//
	// Parameters:
	//   - vertexCount: number of vertices to draw
	//   - instanceCount: number of instances to draw
	Draw(vertexCount, instanceCount uint32)

	// End ends the pass. No further recording methods may be called.
	End()
}

// Buffer is a GPU buffer.
type Buffer interface {
	// Size returns the buffer's size in bytes.
	//
	// Returns:
	//   - uint64: the size in bytes
	Size() uint64

	// Release releases the buffer.
	Release()
}

// Texture is a 2D GPU texture.
type Texture interface {
	// CreateView creates a view over the whole texture.
	//
	// Returns:
	//   - TextureView: the created view
	//   - error: an error if creation failed
	CreateView() (TextureView, error)

	// Format returns the texture's format.
	//
	// Returns:
	//   - TextureFormat: the format the texture was created with
	Format() TextureFormat

	// Release releases the texture.
	Release()
}

// TextureView is a shader-visible or attachable view of a texture.
type TextureView interface {
	// Release releases the view.
	Release()
}

// Sampler is a texture sampler.
type Sampler interface {
	// Release releases the sampler.
	Release()
}

// BindGroupLayout is the shape bind groups and pipelines agree on.
type BindGroupLayout interface {
	// Release releases the layout.
	Release()
}

// BindGroup is a set of resources bound together at one set index.
type BindGroup interface {
	// Release releases the bind group.
	Release()
}

// RenderPipeline is a compiled render pipeline.
type RenderPipeline interface {
	// Release releases the pipeline.
	Release()
}

// CommandBuffer is a finished, submittable recording.
type CommandBuffer interface {
	// Release releases the command buffer.
	Release()
}
