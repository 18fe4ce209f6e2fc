package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullDeviceRecordsDraws(t *testing.T) {
	dev := NewNullDevice(WithAutoComplete())

	vb, err := dev.CreateBuffer(&BufferDescriptor{Label: "verts", Size: 256, Usage: BufferUsageVertex})
	require.NoError(t, err)
	ib, err := dev.CreateBuffer(&BufferDescriptor{Label: "indices", Size: 64, Usage: BufferUsageIndex})
	require.NoError(t, err)

	layout, err := dev.CreateBindGroupLayout(&BindGroupLayoutDescriptor{Label: "bgl"})
	require.NoError(t, err)
	group, err := dev.CreateBindGroup(&BindGroupDescriptor{Label: "bg", Layout: layout})
	require.NoError(t, err)

	pipe, err := dev.CreateRenderPipeline(&RenderPipelineDescriptor{Label: "geometry"})
	require.NoError(t, err)

	enc, err := dev.CreateCommandEncoder("frame")
	require.NoError(t, err)
	pass := enc.BeginRenderPass(&RenderPassDescriptor{Label: "gbuffer"})
	pass.SetPipeline(pipe)
	pass.SetBindGroup(1, group)
	pass.SetVertexBuffer(0, vb)
	pass.SetIndexBuffer(ib, IndexFormatUint32)
	pass.DrawIndexed(36, 1, 0)
	pass.DrawIndexed(36, 2, 12)
	pass.End()
	cb, err := enc.Finish()
	require.NoError(t, err)
	require.NoError(t, dev.Queue().Submit(nil, cb))

	draws := dev.DrawLog()
	require.Len(t, draws, 2)
	assert.Equal(t, "gbuffer", draws[0].Pass)
	assert.Equal(t, "geometry", draws[0].Pipeline)
	assert.Equal(t, ResourceID(group), draws[0].BindGroups[1])
	assert.Equal(t, ResourceID(vb), draws[0].VertexBuffer)
	assert.Equal(t, ResourceID(ib), draws[0].IndexBuffer)
	assert.Equal(t, uint32(36), draws[0].IndexCount)
	assert.Equal(t, uint32(2), draws[1].InstanceCount)
	assert.Equal(t, uint32(12), draws[1].FirstIndex)
}

func TestNullDeviceRecordsTransitionsBetweenPasses(t *testing.T) {
	dev := NewNullDevice(WithAutoComplete())

	tex, err := dev.CreateTexture(&TextureDescriptor{Label: "albedo", Width: 4, Height: 4, Format: TextureFormatRGBA8UnormSrgb})
	require.NoError(t, err)

	enc, err := dev.CreateCommandEncoder("frame")
	require.NoError(t, err)
	p1 := enc.BeginRenderPass(&RenderPassDescriptor{Label: "gbuffer"})
	p1.End()
	enc.Transition(Transition{Texture: tex, From: LayoutColorTarget, To: LayoutShaderRead})
	p2 := enc.BeginRenderPass(&RenderPassDescriptor{Label: "lighting"})
	p2.End()
	cb, err := enc.Finish()
	require.NoError(t, err)
	require.NoError(t, dev.Queue().Submit(nil, cb))

	logRecords := dev.CommandLog()
	require.Len(t, logRecords, 5)
	assert.Equal(t, CommandKindBeginPass, logRecords[0].Kind)
	assert.Equal(t, CommandKindEndPass, logRecords[1].Kind)
	assert.Equal(t, CommandKindTransition, logRecords[2].Kind)
	require.Len(t, logRecords[2].Transitions, 1)
	assert.Equal(t, ResourceID(tex), logRecords[2].Transitions[0].TextureID)
	assert.Equal(t, LayoutShaderRead, logRecords[2].Transitions[0].To)
	assert.Equal(t, CommandKindBeginPass, logRecords[3].Kind)
	assert.Equal(t, "lighting", logRecords[3].Pass)
}

func TestNullDeviceFenceGating(t *testing.T) {
	dev := NewNullDevice()

	enc, err := dev.CreateCommandEncoder("frame")
	require.NoError(t, err)
	cb, err := enc.Finish()
	require.NoError(t, err)

	fence := NewFence(false)
	require.NoError(t, dev.Queue().Submit(fence, cb))
	assert.False(t, fence.Signaled())
	assert.Equal(t, 1, dev.PendingSubmissions())

	assert.True(t, dev.CompleteOldestSubmission())
	assert.True(t, fence.Signaled())
	assert.Equal(t, 0, dev.PendingSubmissions())
	assert.False(t, dev.CompleteOldestSubmission())
}

func TestNullDeviceAcquireFailureInjection(t *testing.T) {
	dev := NewNullDevice()
	dev.FailNextAcquire(ErrSurfaceLost)

	_, err := dev.AcquireSurfaceTexture()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSurfaceLost))

	view, err := dev.AcquireSurfaceTexture()
	require.NoError(t, err)
	assert.NotNil(t, view)

	// A second acquire before presenting is rejected.
	_, err = dev.AcquireSurfaceTexture()
	assert.Error(t, err)

	dev.Present()
	assert.Equal(t, 1, dev.Presents())
}

func TestNullDeviceTracksReleases(t *testing.T) {
	dev := NewNullDevice()

	buf, err := dev.CreateBuffer(&BufferDescriptor{Label: "b", Size: 16, Usage: BufferUsageUniform})
	require.NoError(t, err)
	tex, err := dev.CreateTexture(&TextureDescriptor{Label: "t", Width: 2, Height: 2, Format: TextureFormatRGBA8Unorm})
	require.NoError(t, err)
	assert.Equal(t, 1, dev.AliveBuffers())
	assert.Equal(t, 1, dev.AliveTextures())

	buf.Release()
	tex.Release()
	assert.Equal(t, 0, dev.AliveBuffers())
	assert.Equal(t, 0, dev.AliveTextures())
}

func TestNullDeviceWriteFailureInjection(t *testing.T) {
	dev := NewNullDevice()

	tex, err := dev.CreateTexture(&TextureDescriptor{Label: "t", Width: 2, Height: 2, Format: TextureFormatRGBA8Unorm})
	require.NoError(t, err)

	boom := errors.New("write rejected")
	dev.FailNextTextureWrite(boom)
	err = dev.Queue().WriteTexture(
		TextureCopy{Texture: tex},
		make([]byte, 16),
		TextureDataLayout{BytesPerRow: 8, RowsPerImage: 2},
		2, 2,
	)
	assert.ErrorIs(t, err, boom)

	err = dev.Queue().WriteTexture(
		TextureCopy{Texture: tex},
		make([]byte, 16),
		TextureDataLayout{BytesPerRow: 8, RowsPerImage: 2},
		2, 2,
	)
	require.NoError(t, err)

	writes := dev.TextureWrites()
	require.Len(t, writes, 1)
	assert.Equal(t, ResourceID(tex), writes[0].TextureID)
	assert.Equal(t, 16, writes[0].Bytes)
}
