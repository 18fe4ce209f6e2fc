package material

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
)

func newTestCache(t *testing.T, opts ...DescriptorCacheBuilderOption) (*gpu.NullDevice, registry.Registry, DescriptorCache) {
	t.Helper()
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	reg, err := registry.NewRegistry(dev, registry.WithDeferredUploads())
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	cache, err := NewDescriptorCache(dev, reg, opts...)
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return dev, reg, cache
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMaterialDefaults(t *testing.T) {
	mat := NewMaterial(WithName("plain"))

	assert.Equal(t, "plain", mat.Name())
	assert.Equal(t, [4]float32{1, 1, 1, 1}, mat.BaseColor())
	assert.Zero(t, mat.Metallic())
	assert.Equal(t, float32(1), mat.Roughness())
	assert.Equal(t, [3]float32{}, mat.EmissiveFactor())
	assert.Equal(t, float32(1), mat.NormalScale())
	assert.Equal(t, float32(1), mat.OcclusionStrength())
	assert.Zero(t, mat.AlbedoTexture())
	assert.Zero(t, mat.Sampler())
}

func TestMaterialParamsLayout(t *testing.T) {
	params := GPUMaterialParams{
		BaseColor: [4]float32{0.5, 0.25, 1, 1},
		Emissive:  [4]float32{1, 2, 3, 0.75},
		Factors:   [4]float32{1, 0.5, 2, 0},
	}
	buf := params.Marshal()

	require.Len(t, buf, 48)
	assert.Equal(t, params.Size(), len(buf))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])))
	assert.Equal(t, float32(0.75), math.Float32frombits(binary.LittleEndian.Uint32(buf[28:32])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[32:36])))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[36:40])))
}

func TestBuildDeduplicatesIdenticalContent(t *testing.T) {
	dev, _, cache := newTestCache(t)
	groupsBefore := dev.AliveBindGroups()

	matA := NewMaterial(WithName("brick"), WithBaseColor([4]float32{0.8, 0.2, 0.2, 1}), WithRoughness(0.4))
	matB := NewMaterial(WithName("brick-copy"), WithBaseColor([4]float32{0.8, 0.2, 0.2, 1}), WithRoughness(0.4))

	h1, err := cache.Build(matA)
	require.NoError(t, err)
	h2, err := cache.Build(matB)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Equal(t, groupsBefore+1, dev.AliveBindGroups())

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Sets)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestBuildDistinguishesContent(t *testing.T) {
	_, _, cache := newTestCache(t)

	h1, err := cache.Build(NewMaterial(WithRoughness(0.1)))
	require.NoError(t, err)
	h2, err := cache.Build(NewMaterial(WithRoughness(0.9)))
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, cache.Stats().Sets)
}

func TestBuildPendingTextureNotReady(t *testing.T) {
	_, reg, cache := newTestCache(t)

	tex, err := reg.RegisterTexture(common.ImageData{Name: "albedo", Data: encodePNG(t, 2, 2)})
	require.NoError(t, err)
	require.Equal(t, registry.ResourceStatePending, reg.TextureState(tex))

	mat := NewMaterial(WithName("wood"), WithAlbedoTexture(tex))
	_, err = cache.Build(mat)
	require.ErrorIs(t, err, ErrTextureNotReady)

	require.Equal(t, 1, reg.ProcessUploads())
	require.Equal(t, registry.ResourceStateReady, reg.TextureState(tex))

	h, err := cache.Build(mat)
	require.NoError(t, err)
	assert.NotZero(t, h)
}

func TestBuildFailedTextureBindsFallback(t *testing.T) {
	_, reg, cache := newTestCache(t)

	tex, err := reg.RegisterTexture(common.ImageData{Name: "broken", Data: []byte("not an image")})
	require.NoError(t, err)
	reg.ProcessUploads()
	require.Equal(t, registry.ResourceStateFailed, reg.TextureState(tex))

	h, err := cache.Build(NewMaterial(WithName("damaged"), WithAlbedoTexture(tex)))
	require.NoError(t, err)

	group, ok := cache.BindGroup(h)
	require.True(t, ok)
	assert.NotNil(t, group)
}

func TestBuildRespectsSetBudget(t *testing.T) {
	_, _, cache := newTestCache(t, WithSetBudget(1))

	h1, err := cache.Build(NewMaterial(WithRoughness(0.1)))
	require.NoError(t, err)

	_, err = cache.Build(NewMaterial(WithRoughness(0.9)))
	var limitErr *BindingLimitExceeded
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 1, limitErr.Active)
	assert.Equal(t, 1, limitErr.Limit)

	again, err := cache.Build(NewMaterial(WithRoughness(0.1)))
	require.NoError(t, err)
	assert.Equal(t, h1, again)
}

func TestBuildHashesSamplerHandle(t *testing.T) {
	_, reg, cache := newTestCache(t)

	clamp, err := reg.GetSampler(gpu.SamplerDescriptor{
		Label:        "Clamp",
		AddressModeU: gpu.AddressModeClampToEdge,
		AddressModeV: gpu.AddressModeClampToEdge,
	})
	require.NoError(t, err)

	h1, err := cache.Build(NewMaterial(WithRoughness(0.3)))
	require.NoError(t, err)
	h2, err := cache.Build(NewMaterial(WithRoughness(0.3), WithSampler(clamp)))
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	// A zero sampler resolves to the registry default before hashing, so
	// naming the default explicitly dedups against the empty slot.
	h3, err := cache.Build(NewMaterial(WithRoughness(0.3), WithSampler(reg.DefaultSampler())))
	require.NoError(t, err)
	assert.Equal(t, h1, h3)
}

func TestEvictReleasesDescriptorSet(t *testing.T) {
	dev, _, cache := newTestCache(t)
	groupsBefore := dev.AliveBindGroups()
	buffersBefore := dev.AliveBuffers()

	h, err := cache.Build(NewMaterial(WithMetallic(1)))
	require.NoError(t, err)
	assert.Equal(t, groupsBefore+1, dev.AliveBindGroups())

	require.True(t, cache.Evict(h))
	assert.Equal(t, groupsBefore, dev.AliveBindGroups())
	assert.Equal(t, buffersBefore, dev.AliveBuffers())

	_, ok := cache.BindGroup(h)
	assert.False(t, ok)
	assert.False(t, cache.Evict(h))

	h2, err := cache.Build(NewMaterial(WithMetallic(1)))
	require.NoError(t, err)
	assert.NotEqual(t, h, h2)
}
