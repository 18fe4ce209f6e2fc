package registry

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/log"
)

// RegistryBuilderOption is a functional option for configuring a Registry.
// Use the With* functions to create options that are applied directly to the
// registry instance.
type RegistryBuilderOption func(*registryImpl)

// WithUploadWorkers sets the number of worker goroutines decoding and
// uploading textures. Values <= 0 keep the default of NumCPU-1.
//
// Parameters:
//   - count: upload worker count
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithUploadWorkers(count int) RegistryBuilderOption {
	return func(r *registryImpl) {
		if count <= 0 {
			return
		}
		r.uploadWorkers = count
	}
}

// WithDeferredUploads disables the upload worker pool. Registered textures
// queue until ProcessUploads runs them inline, which gives callers that own
// their own loop, and tests, full control over upload timing.
//
// Returns:
//   - RegistryBuilderOption: option function to apply
func WithDeferredUploads() RegistryBuilderOption {
	return func(r *registryImpl) {
		r.deferred = true
	}
}

type textureOptions struct {
	linear   bool
	fallback FallbackKind
	skipMips bool
}

// TextureOption configures a single texture registration.
type TextureOption func(*textureOptions)

// WithLinearColor stores the texture without sRGB decoding, for data maps
// such as normals or metallic-roughness.
//
// Returns:
//   - TextureOption: option function to apply
func WithLinearColor() TextureOption {
	return func(o *textureOptions) {
		o.linear = true
	}
}

// WithFallback selects the 1x1 stand-in bound if the upload fails.
//
// Parameters:
//   - kind: the fallback flavor
//
// Returns:
//   - TextureOption: option function to apply
func WithFallback(kind FallbackKind) TextureOption {
	return func(o *textureOptions) {
		o.fallback = kind
	}
}

// WithoutMips uploads only the base level instead of a full mip chain.
//
// Returns:
//   - TextureOption: option function to apply
func WithoutMips() TextureOption {
	return func(o *textureOptions) {
		o.skipMips = true
	}
}

func resolveTextureOptions(opts []TextureOption) textureOptions {
	var o textureOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewRegistry creates a Registry backed by the given device. The registry
// creates its fallback textures and default sampler eagerly so failed uploads
// always have something to bind.
//
// Parameters:
//   - device: the device assets are created on
//   - opts: registry options
//
// Returns:
//   - Registry: the created registry
//   - error: an error if fallback or sampler creation failed
func NewRegistry(device gpu.Device, opts ...RegistryBuilderOption) (Registry, error) {
	r := &registryImpl{
		mu:            &sync.Mutex{},
		device:        device,
		logger:        log.New("registry"),
		meshes:        map[MeshHandle]*meshEntry{},
		meshNames:     map[string]MeshHandle{},
		textures:      map[TextureHandle]*textureEntry{},
		textureNames:  map[string]TextureHandle{},
		samplers:      map[SamplerHandle]*samplerEntry{},
		samplerKeys:   map[gpu.SamplerDescriptor]SamplerHandle{},
		uploadWG:      &sync.WaitGroup{},
		uploadWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.deferred {
		// Queue size of 256 covers a whole scene's textures being registered
		// in one burst.
		r.uploadPool = worker.NewDynamicWorkerPool(r.uploadWorkers, 256, 1*time.Second)
	}

	if err := r.createFallbacks(); err != nil {
		return nil, err
	}

	defaultSampler, err := r.GetSampler(gpu.SamplerDescriptor{
		Label:        "Default Sampler",
		MagFilter:    gpu.FilterModeLinear,
		MinFilter:    gpu.FilterModeLinear,
		MipmapFilter: gpu.MipmapFilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create default sampler: %w", err)
	}
	r.defaultSampler = defaultSampler

	return r, nil
}

func (r *registryImpl) createFallbacks() error {
	specs := [3]struct {
		kind   FallbackKind
		label  string
		pixels common.TextureStagingData
		format gpu.TextureFormat
	}{
		{FallbackWhite, "Fallback White", common.SolidImage(1, 1, 255, 255, 255, 255), gpu.TextureFormatRGBA8UnormSrgb},
		{FallbackNormal, "Fallback Normal", common.SolidImage(1, 1, 128, 128, 255, 255), gpu.TextureFormatRGBA8Unorm},
		{FallbackBlack, "Fallback Black", common.SolidImage(1, 1, 0, 0, 0, 255), gpu.TextureFormatRGBA8UnormSrgb},
	}

	for _, spec := range specs {
		tex, err := r.device.CreateTexture(&gpu.TextureDescriptor{
			Label:         spec.label,
			Width:         1,
			Height:        1,
			MipLevelCount: 1,
			Format:        spec.format,
			Usage:         gpu.TextureUsageTextureBinding | gpu.TextureUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", spec.label, err)
		}
		err = r.device.Queue().WriteTexture(
			gpu.TextureCopy{Texture: tex},
			spec.pixels.Pixels,
			gpu.TextureDataLayout{BytesPerRow: 4, RowsPerImage: 1},
			1, 1,
		)
		if err != nil {
			tex.Release()
			return fmt.Errorf("failed to upload %s: %w", spec.label, err)
		}
		view, err := tex.CreateView()
		if err != nil {
			tex.Release()
			return fmt.Errorf("failed to view %s: %w", spec.label, err)
		}
		r.fallbacks[spec.kind] = fallbackTexture{texture: tex, view: view}
	}
	return nil
}
