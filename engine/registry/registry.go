// Package registry owns the lifetime of GPU-resident assets. Meshes upload
// synchronously at registration; textures decode and upload on a worker pool
// while their handle is immediately usable in the pending state. Every
// resource is refcounted, and GPU destruction is deferred until the last
// frame that could reference a resource has completed on the device.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/log"
)

// MeshHandle identifies a registered mesh. The zero handle is invalid.
type MeshHandle uint64

// TextureHandle identifies a registered texture. The zero handle is invalid.
type TextureHandle uint64

// SamplerHandle identifies a deduplicated sampler. The zero handle is invalid.
type SamplerHandle uint64

// ResourceState is the upload state of an asynchronously loaded resource.
type ResourceState int

const (
	ResourceStateUnknown ResourceState = iota
	ResourceStatePending
	ResourceStateReady
	ResourceStateFailed
)

// FallbackKind selects one of the built-in 1x1 stand-in textures, bound when
// an upload fails or a material slot has no texture assigned.
type FallbackKind int

const (
	FallbackWhite FallbackKind = iota
	FallbackNormal
	FallbackBlack
)

// MeshGPU is the device-resident view of a registered mesh.
type MeshGPU struct {
	Vertex       gpu.Buffer
	Index        gpu.Buffer
	IndexCount   uint32
	MaxInstances uint32
	Primitives   []common.Primitive
}

// Stats is a point-in-time summary of registry contents.
type Stats struct {
	Meshes         int
	Textures       int
	Samplers       int
	PendingUploads int
	FailedUploads  int
	QueuedDestroys int
}

// Registry registers, looks up, refcounts and destroys GPU-resident assets.
type Registry interface {
	// RegisterMesh uploads a mesh's vertex and index data and returns its
	// handle with a reference count of one. Registering a name that already
	// exists retains and returns the existing handle.
	//
	// Parameters:
	//   - data: named vertex/index data with optional primitive ranges
	//
	// Returns:
	//   - MeshHandle: the mesh's handle
	//   - error: an error if the data is empty or buffer creation failed
	RegisterMesh(data common.MeshData) (MeshHandle, error)

	// RegisterTexture registers an encoded image for asynchronous upload and
	// returns its handle immediately in the pending state. Registering a name
	// that already exists retains and returns the existing handle.
	//
	// Parameters:
	//   - img: the named, encoded image
	//   - opts: per-texture options (color space, fallback, mip generation)
	//
	// Returns:
	//   - TextureHandle: the texture's handle, usable while pending
	//   - error: an error if the image has no name or the registry is closed
	RegisterTexture(img common.ImageData, opts ...TextureOption) (TextureHandle, error)

	// RegisterTexturePixels registers already decoded RGBA pixels and uploads
	// them synchronously. On upload failure the returned handle is still
	// valid and resolves to its fallback.
	//
	// Parameters:
	//   - name: the unique texture name
	//   - data: tightly packed RGBA pixels
	//   - opts: per-texture options (color space, fallback, mip generation)
	//
	// Returns:
	//   - TextureHandle: the texture's handle
	//   - error: an error if registration or the synchronous upload failed
	RegisterTexturePixels(name string, data common.TextureStagingData, opts ...TextureOption) (TextureHandle, error)

	// GetSampler returns a sampler for the descriptor, creating it on first
	// use and deduplicating by descriptor equality afterwards.
	//
	// Parameters:
	//   - desc: the sampler configuration
	//
	// Returns:
	//   - SamplerHandle: the sampler's handle
	//   - error: an error if sampler creation failed
	GetSampler(desc gpu.SamplerDescriptor) (SamplerHandle, error)

	// DefaultSampler returns the registry's trilinear repeat sampler.
	//
	// Returns:
	//   - SamplerHandle: the default sampler's handle
	DefaultSampler() SamplerHandle

	// LookupMesh resolves a mesh name to its handle.
	//
	// Parameters:
	//   - name: the mesh name given at registration
	//
	// Returns:
	//   - MeshHandle: the handle, zero when not found
	//   - bool: true when the name is registered
	LookupMesh(name string) (MeshHandle, bool)

	// LookupTexture resolves a texture name to its handle.
	//
	// Parameters:
	//   - name: the texture name given at registration
	//
	// Returns:
	//   - TextureHandle: the handle, zero when not found
	//   - bool: true when the name is registered
	LookupTexture(name string) (TextureHandle, bool)

	// RetainMesh increments a mesh's reference count. Unknown handles are
	// logged and ignored.
	//
	// Parameters:
	//   - h: the mesh handle
	RetainMesh(h MeshHandle)

	// ReleaseMesh decrements a mesh's reference count. At zero the handle
	// becomes invalid and the GPU buffers are queued for destruction once
	// every frame that may reference them, including the one being recorded,
	// has completed. Unknown handles are logged and ignored.
	//
	// Parameters:
	//   - h: the mesh handle
	ReleaseMesh(h MeshHandle)

	// RetainTexture increments a texture's reference count. Unknown handles
	// are logged and ignored.
	//
	// Parameters:
	//   - h: the texture handle
	RetainTexture(h TextureHandle)

	// ReleaseTexture decrements a texture's reference count. At zero the
	// handle becomes invalid and the GPU texture is queued for destruction
	// once every frame that may reference it, including the one being
	// recorded, has completed. Unknown handles are logged and ignored.
	//
	// Parameters:
	//   - h: the texture handle
	ReleaseTexture(h TextureHandle)

	// Mesh returns the device-resident buffers of a mesh.
	//
	// Parameters:
	//   - h: the mesh handle
	//
	// Returns:
	//   - MeshGPU: the mesh's buffers and primitive ranges
	//   - bool: true when the handle is valid
	Mesh(h MeshHandle) (MeshGPU, bool)

	// TextureState returns a texture's upload state.
	//
	// Parameters:
	//   - h: the texture handle
	//
	// Returns:
	//   - ResourceState: pending, ready, failed, or unknown for invalid handles
	TextureState(h TextureHandle) ResourceState

	// TextureView returns the shader-visible view of a texture. Failed
	// textures resolve to their fallback view; pending textures resolve to
	// nothing so callers can skip work that depends on them.
	//
	// Parameters:
	//   - h: the texture handle
	//
	// Returns:
	//   - gpu.TextureView: the view to bind
	//   - bool: false while the upload is pending or the handle is invalid
	TextureView(h TextureHandle) (gpu.TextureView, bool)

	// Sampler returns the device sampler for a sampler handle.
	//
	// Parameters:
	//   - h: the sampler handle
	//
	// Returns:
	//   - gpu.Sampler: the sampler
	//   - bool: true when the handle is valid
	Sampler(h SamplerHandle) (gpu.Sampler, bool)

	// FallbackView returns the view of one of the built-in 1x1 fallback
	// textures. Descriptor building binds these for material slots that have
	// no texture assigned.
	//
	// Parameters:
	//   - kind: which fallback to return
	//
	// Returns:
	//   - gpu.TextureView: the fallback view, nil after Close
	FallbackView(kind FallbackKind) gpu.TextureView

	// ProcessUploads runs queued uploads inline when the registry was created
	// with deferred uploads, and is a no-op otherwise.
	//
	// Returns:
	//   - int: the number of uploads processed
	ProcessUploads() int

	// UploadErrors returns every upload failure observed so far.
	//
	// Returns:
	//   - []error: the recorded UploadError values, oldest first
	UploadErrors() []error

	// AdvanceSerial advances the frame serial releases are stamped with. The
	// engine calls this once per submitted frame.
	//
	// Returns:
	//   - uint64: the new serial
	AdvanceSerial() uint64

	// Collect destroys queued resources whose stamped serial is at or below
	// the given completed frame serial.
	//
	// Parameters:
	//   - completed: the highest frame serial known to have completed
	//
	// Returns:
	//   - int: the number of resources destroyed
	Collect(completed uint64) int

	// Stats returns a point-in-time summary of registry contents.
	//
	// Returns:
	//   - Stats: current counts
	Stats() Stats

	// Close waits for in-flight uploads, destroys everything the registry
	// still owns and rejects further registration.
	Close()
}

type meshEntry struct {
	name         string
	vertex       gpu.Buffer
	index        gpu.Buffer
	indexCount   uint32
	maxInstances uint32
	primitives   []common.Primitive
	refs         int
}

type textureEntry struct {
	name     string
	state    ResourceState
	texture  gpu.Texture
	view     gpu.TextureView
	fallback FallbackKind
	refs     int
	err      error
}

type samplerEntry struct {
	desc    gpu.SamplerDescriptor
	sampler gpu.Sampler
}

type fallbackTexture struct {
	texture gpu.Texture
	view    gpu.TextureView
}

type pendingDestroy struct {
	serial uint64
	free   func()
}

type uploadJob struct {
	handle TextureHandle
	img    common.ImageData
	opts   textureOptions
}

type registryImpl struct {
	mu     *sync.Mutex
	device gpu.Device
	logger log.Logger

	nextHandle uint64
	serial     uint64

	meshes       map[MeshHandle]*meshEntry
	meshNames    map[string]MeshHandle
	textures     map[TextureHandle]*textureEntry
	textureNames map[string]TextureHandle
	samplers     map[SamplerHandle]*samplerEntry
	samplerKeys  map[gpu.SamplerDescriptor]SamplerHandle

	defaultSampler SamplerHandle
	fallbacks      [3]fallbackTexture

	destroyQueue []pendingDestroy
	uploadErrors []error

	uploadPool      worker.DynamicWorkerPool
	uploadWG        *sync.WaitGroup
	uploadWorkers   int
	taskSeq         int
	deferredUploads []uploadJob
	deferred        bool

	closed bool
}

var _ Registry = &registryImpl{}

func (r *registryImpl) allocHandle() uint64 {
	r.nextHandle++
	return r.nextHandle
}

func (r *registryImpl) RegisterMesh(data common.MeshData) (MeshHandle, error) {
	if data.Name == "" {
		return 0, errors.New("mesh name must not be empty")
	}
	if len(data.Vertices) == 0 || len(data.Indices) == 0 {
		return 0, fmt.Errorf("mesh %q has no geometry", data.Name)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, errors.New("registry is closed")
	}
	if h, ok := r.meshNames[data.Name]; ok {
		r.meshes[h].refs++
		r.mu.Unlock()
		return h, nil
	}
	h := MeshHandle(r.allocHandle())
	r.mu.Unlock()

	vertexBytes := common.SliceToBytes(data.Vertices)
	vb, err := r.device.CreateBuffer(&gpu.BufferDescriptor{
		Label: data.Name + " Vertices",
		Size:  uint64(len(vertexBytes)),
		Usage: gpu.BufferUsageVertex | gpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create vertex buffer for %q: %w", data.Name, err)
	}
	indexBytes := common.SliceToBytes(data.Indices)
	ib, err := r.device.CreateBuffer(&gpu.BufferDescriptor{
		Label: data.Name + " Indices",
		Size:  uint64(len(indexBytes)),
		Usage: gpu.BufferUsageIndex | gpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return 0, fmt.Errorf("failed to create index buffer for %q: %w", data.Name, err)
	}
	if err := r.device.Queue().WriteBuffer(vb, 0, vertexBytes); err != nil {
		vb.Release()
		ib.Release()
		return 0, fmt.Errorf("failed to upload vertices for %q: %w", data.Name, err)
	}
	if err := r.device.Queue().WriteBuffer(ib, 0, indexBytes); err != nil {
		vb.Release()
		ib.Release()
		return 0, fmt.Errorf("failed to upload indices for %q: %w", data.Name, err)
	}

	primitives := data.Primitives
	if len(primitives) == 0 {
		primitives = []common.Primitive{{IndexOffset: 0, IndexCount: uint32(len(data.Indices))}}
	}

	r.mu.Lock()
	if existing, ok := r.meshNames[data.Name]; ok {
		// Lost a registration race; keep the first upload.
		r.meshes[existing].refs++
		r.mu.Unlock()
		vb.Release()
		ib.Release()
		return existing, nil
	}
	r.meshes[h] = &meshEntry{
		name:         data.Name,
		vertex:       vb,
		index:        ib,
		indexCount:   uint32(len(data.Indices)),
		maxInstances: common.Coalesce(data.MaxInstances, 1),
		primitives:   primitives,
		refs:         1,
	}
	r.meshNames[data.Name] = h
	r.mu.Unlock()

	r.logger.Debugf("registered mesh %q (%d vertices, %d indices)", data.Name, len(data.Vertices), len(data.Indices))
	return h, nil
}

func (r *registryImpl) RegisterTexture(img common.ImageData, opts ...TextureOption) (TextureHandle, error) {
	if img.Name == "" {
		return 0, errors.New("texture name must not be empty")
	}
	o := resolveTextureOptions(opts)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, errors.New("registry is closed")
	}
	if h, ok := r.textureNames[img.Name]; ok {
		r.textures[h].refs++
		r.mu.Unlock()
		return h, nil
	}
	h := TextureHandle(r.allocHandle())
	r.textures[h] = &textureEntry{
		name:     img.Name,
		state:    ResourceStatePending,
		fallback: o.fallback,
		refs:     1,
	}
	r.textureNames[img.Name] = h

	if r.deferred {
		r.deferredUploads = append(r.deferredUploads, uploadJob{handle: h, img: img, opts: o})
		r.mu.Unlock()
		return h, nil
	}

	r.taskSeq++
	id := r.taskSeq
	r.uploadWG.Add(1)
	r.mu.Unlock()

	r.uploadPool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer r.uploadWG.Done()
			r.performUpload(h, img, o)
			return nil, nil
		},
	})
	return h, nil
}

func (r *registryImpl) RegisterTexturePixels(name string, data common.TextureStagingData, opts ...TextureOption) (TextureHandle, error) {
	if name == "" {
		return 0, errors.New("texture name must not be empty")
	}
	o := resolveTextureOptions(opts)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, errors.New("registry is closed")
	}
	if h, ok := r.textureNames[name]; ok {
		r.textures[h].refs++
		r.mu.Unlock()
		return h, nil
	}
	h := TextureHandle(r.allocHandle())
	r.textures[h] = &textureEntry{
		name:     name,
		state:    ResourceStatePending,
		fallback: o.fallback,
		refs:     1,
	}
	r.textureNames[name] = h
	r.mu.Unlock()

	r.uploadDecoded(h, name, data, o)

	r.mu.Lock()
	entry := r.textures[h]
	err := entry.err
	r.mu.Unlock()
	return h, err
}

func (r *registryImpl) performUpload(h TextureHandle, img common.ImageData, o textureOptions) {
	pixels, width, height, err := img.Decode()
	if err != nil {
		r.failUpload(h, img.Name, err)
		return
	}
	r.uploadDecoded(h, img.Name, common.TextureStagingData{Pixels: pixels, Width: width, Height: height}, o)
}

func (r *registryImpl) uploadDecoded(h TextureHandle, name string, data common.TextureStagingData, o textureOptions) {
	if len(data.Pixels) < int(data.Width*data.Height*4) {
		r.failUpload(h, name, fmt.Errorf("pixel data truncated: have %d bytes, need %d", len(data.Pixels), data.Width*data.Height*4))
		return
	}
	max2D := r.device.Limits().MaxTextureDimension2D
	if data.Width > max2D || data.Height > max2D {
		r.failUpload(h, name, fmt.Errorf("dimensions %dx%d exceed device limit %d", data.Width, data.Height, max2D))
		return
	}

	levels := []mipLevel{{pixels: data.Pixels, width: data.Width, height: data.Height}}
	if !o.skipMips {
		levels = buildMipChain(data.Pixels, data.Width, data.Height)
	}

	format := gpu.TextureFormatRGBA8UnormSrgb
	if o.linear {
		format = gpu.TextureFormatRGBA8Unorm
	}
	tex, err := r.device.CreateTexture(&gpu.TextureDescriptor{
		Label:         name,
		Width:         data.Width,
		Height:        data.Height,
		MipLevelCount: uint32(len(levels)),
		Format:        format,
		Usage:         gpu.TextureUsageTextureBinding | gpu.TextureUsageCopyDst,
	})
	if err != nil {
		r.failUpload(h, name, err)
		return
	}

	for i, lvl := range levels {
		err := r.device.Queue().WriteTexture(
			gpu.TextureCopy{Texture: tex, MipLevel: uint32(i)},
			lvl.pixels,
			gpu.TextureDataLayout{BytesPerRow: lvl.width * 4, RowsPerImage: lvl.height},
			lvl.width,
			lvl.height,
		)
		if err != nil {
			tex.Release()
			r.failUpload(h, name, err)
			return
		}
	}

	view, err := tex.CreateView()
	if err != nil {
		tex.Release()
		r.failUpload(h, name, err)
		return
	}

	r.mu.Lock()
	entry, ok := r.textures[h]
	if !ok {
		// Released while the upload was in flight.
		r.mu.Unlock()
		view.Release()
		tex.Release()
		return
	}
	entry.texture = tex
	entry.view = view
	entry.state = ResourceStateReady
	r.mu.Unlock()

	r.logger.Debugf("texture %q ready (%dx%d, %d mips)", name, data.Width, data.Height, len(levels))
}

func (r *registryImpl) failUpload(h TextureHandle, name string, cause error) {
	uerr := &UploadError{Name: name, Err: cause}

	r.mu.Lock()
	if entry, ok := r.textures[h]; ok {
		entry.state = ResourceStateFailed
		entry.err = uerr
	}
	r.uploadErrors = append(r.uploadErrors, uerr)
	r.mu.Unlock()

	r.logger.Warningf("%v", uerr)
}

func (r *registryImpl) GetSampler(desc gpu.SamplerDescriptor) (SamplerHandle, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, errors.New("registry is closed")
	}
	if h, ok := r.samplerKeys[desc]; ok {
		r.mu.Unlock()
		return h, nil
	}
	r.mu.Unlock()

	samp, err := r.device.CreateSampler(&desc)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	if h, ok := r.samplerKeys[desc]; ok {
		// Lost a creation race; keep the first sampler.
		r.mu.Unlock()
		samp.Release()
		return h, nil
	}
	h := SamplerHandle(r.allocHandle())
	r.samplers[h] = &samplerEntry{desc: desc, sampler: samp}
	r.samplerKeys[desc] = h
	r.mu.Unlock()
	return h, nil
}

func (r *registryImpl) DefaultSampler() SamplerHandle {
	return r.defaultSampler
}

func (r *registryImpl) LookupMesh(name string) (MeshHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.meshNames[name]
	return h, ok
}

func (r *registryImpl) LookupTexture(name string) (TextureHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.textureNames[name]
	return h, ok
}

func (r *registryImpl) RetainMesh(h MeshHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.meshes[h]
	if !ok {
		r.logger.Warningf("retain of unknown mesh handle %d", h)
		return
	}
	entry.refs++
}

func (r *registryImpl) ReleaseMesh(h MeshHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.meshes[h]
	if !ok {
		r.logger.Warningf("release of unknown mesh handle %d", h)
		return
	}
	entry.refs--
	if entry.refs > 0 {
		return
	}

	delete(r.meshes, h)
	delete(r.meshNames, entry.name)
	vb, ib := entry.vertex, entry.index
	// Stamped one past the last submitted frame: the frame being recorded
	// right now may already hold these buffers in resolved draw items.
	r.destroyQueue = append(r.destroyQueue, pendingDestroy{
		serial: r.serial + 1,
		free: func() {
			vb.Release()
			ib.Release()
		},
	})
}

func (r *registryImpl) RetainTexture(h TextureHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.textures[h]
	if !ok {
		r.logger.Warningf("retain of unknown texture handle %d", h)
		return
	}
	entry.refs++
}

func (r *registryImpl) ReleaseTexture(h TextureHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.textures[h]
	if !ok {
		r.logger.Warningf("release of unknown texture handle %d", h)
		return
	}
	entry.refs--
	if entry.refs > 0 {
		return
	}

	delete(r.textures, h)
	delete(r.textureNames, entry.name)
	tex, view := entry.texture, entry.view
	if tex == nil {
		// Nothing uploaded yet; an in-flight upload cleans up after itself.
		return
	}
	r.destroyQueue = append(r.destroyQueue, pendingDestroy{
		serial: r.serial + 1,
		free: func() {
			view.Release()
			tex.Release()
		},
	})
}

func (r *registryImpl) Mesh(h MeshHandle) (MeshGPU, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.meshes[h]
	if !ok {
		return MeshGPU{}, false
	}
	return MeshGPU{
		Vertex:       entry.vertex,
		Index:        entry.index,
		IndexCount:   entry.indexCount,
		MaxInstances: entry.maxInstances,
		Primitives:   entry.primitives,
	}, true
}

func (r *registryImpl) TextureState(h TextureHandle) ResourceState {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.textures[h]
	if !ok {
		return ResourceStateUnknown
	}
	return entry.state
}

func (r *registryImpl) TextureView(h TextureHandle) (gpu.TextureView, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.textures[h]
	if !ok {
		return nil, false
	}
	switch entry.state {
	case ResourceStateReady:
		return entry.view, true
	case ResourceStateFailed:
		return r.fallbacks[entry.fallback].view, true
	default:
		return nil, false
	}
}

func (r *registryImpl) Sampler(h SamplerHandle) (gpu.Sampler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.samplers[h]
	if !ok {
		return nil, false
	}
	return entry.sampler, true
}

func (r *registryImpl) FallbackView(kind FallbackKind) gpu.TextureView {
	r.mu.Lock()
	defer r.mu.Unlock()
	if kind < 0 || int(kind) >= len(r.fallbacks) {
		return nil
	}
	return r.fallbacks[kind].view
}

func (r *registryImpl) ProcessUploads() int {
	r.mu.Lock()
	jobs := r.deferredUploads
	r.deferredUploads = nil
	r.mu.Unlock()

	for _, job := range jobs {
		r.performUpload(job.handle, job.img, job.opts)
	}
	return len(jobs)
}

func (r *registryImpl) UploadErrors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.uploadErrors))
	copy(out, r.uploadErrors)
	return out
}

func (r *registryImpl) AdvanceSerial() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.serial++
	return r.serial
}

func (r *registryImpl) Collect(completed uint64) int {
	r.mu.Lock()
	var ready []pendingDestroy
	remaining := r.destroyQueue[:0]
	for _, pd := range r.destroyQueue {
		if pd.serial <= completed {
			ready = append(ready, pd)
		} else {
			remaining = append(remaining, pd)
		}
	}
	r.destroyQueue = remaining
	r.mu.Unlock()

	for _, pd := range ready {
		pd.free()
	}
	return len(ready)
}

func (r *registryImpl) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := Stats{
		Meshes:         len(r.meshes),
		Textures:       len(r.textures),
		Samplers:       len(r.samplers),
		QueuedDestroys: len(r.destroyQueue),
	}
	for _, entry := range r.textures {
		switch entry.state {
		case ResourceStatePending:
			stats.PendingUploads++
		case ResourceStateFailed:
			stats.FailedUploads++
		}
	}
	return stats
}

func (r *registryImpl) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.uploadWG.Wait()

	r.mu.Lock()
	queue := r.destroyQueue
	r.destroyQueue = nil
	meshes := r.meshes
	textures := r.textures
	samplers := r.samplers
	r.meshes = map[MeshHandle]*meshEntry{}
	r.textures = map[TextureHandle]*textureEntry{}
	r.samplers = map[SamplerHandle]*samplerEntry{}
	r.meshNames = map[string]MeshHandle{}
	r.textureNames = map[string]TextureHandle{}
	r.samplerKeys = map[gpu.SamplerDescriptor]SamplerHandle{}
	fallbacks := r.fallbacks
	r.fallbacks = [3]fallbackTexture{}
	r.mu.Unlock()

	for _, pd := range queue {
		pd.free()
	}
	for _, entry := range meshes {
		entry.vertex.Release()
		entry.index.Release()
	}
	for _, entry := range textures {
		if entry.view != nil {
			entry.view.Release()
		}
		if entry.texture != nil {
			entry.texture.Release()
		}
	}
	for _, entry := range samplers {
		entry.sampler.Release()
	}
	for _, fb := range fallbacks {
		if fb.view != nil {
			fb.view.Release()
		}
		if fb.texture != nil {
			fb.texture.Release()
		}
	}
}
