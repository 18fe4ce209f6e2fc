package graph

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/framepool"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/light"
	"github.com/Carmen-Shannon/lumen-go/engine/material"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
	"github.com/Carmen-Shannon/lumen-go/engine/scene"
)

type graphHarness struct {
	device *gpu.NullDevice
	reg    registry.Registry
	cache  material.DescriptorCache
	pool   framepool.Pool
	graph  Graph
}

func newGraphHarness(t *testing.T, opts ...GraphBuilderOption) *graphHarness {
	t.Helper()
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	reg, err := registry.NewRegistry(dev, registry.WithDeferredUploads())
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	cache, err := material.NewDescriptorCache(dev, reg)
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	pool, err := framepool.New(dev, framepool.WithFramesInFlight(1))
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	g, err := NewGraph(dev, reg, cache, opts...)
	require.NoError(t, err)
	t.Cleanup(g.Close)
	require.NoError(t, g.Resize(800, 600))
	dev.ResetLog()
	return &graphHarness{device: dev, reg: reg, cache: cache, pool: pool, graph: g}
}

// recordFrame runs one full acquire/record/submit/present cycle.
func (h *graphHarness) recordFrame(t *testing.T, snap *scene.Snapshot) {
	t.Helper()
	surface, err := h.device.AcquireSurfaceTexture()
	require.NoError(t, err)
	slot, err := h.pool.Acquire()
	require.NoError(t, err)
	require.NoError(t, slot.Begin())
	require.NoError(t, h.graph.Record(slot, surface, snap))
	require.NoError(t, slot.SubmitAndSignal())
	h.device.Present()
}

func registerQuad(t *testing.T, reg registry.Registry, name string) registry.MeshHandle {
	t.Helper()
	h, err := reg.RegisterMesh(common.MeshData{
		Name: name,
		Vertices: []common.Vertex{
			{Position: [3]float32{-1, -1, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{1, -1, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{1, 1, 0}, Normal: [3]float32{0, 0, 1}},
			{Position: [3]float32{-1, 1, 0}, Normal: [3]float32{0, 0, 1}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	})
	require.NoError(t, err)
	return h
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

func identityItem(mesh registry.MeshHandle, mat material.Material) scene.DrawItem {
	item := scene.DrawItem{Mesh: mesh, Material: mat, Bounds: [4]float32{0, 0, 0, 1}}
	common.Identity(item.World[:])
	return item
}

func testSnapshot(items ...scene.DrawItem) *scene.Snapshot {
	snap := &scene.Snapshot{Items: items}
	common.Identity(snap.Camera.ViewProj[:])
	common.Identity(snap.Camera.InvViewProj[:])
	return snap
}

// passSummary flattens the command log into pass boundaries and transition
// batch sizes, dropping individual draws.
func passSummary(log []gpu.CommandRecord) []string {
	var out []string
	for _, rec := range log {
		switch rec.Kind {
		case gpu.CommandKindTransition:
			out = append(out, fmt.Sprintf("transition:%d", len(rec.Transitions)))
		case gpu.CommandKindBeginPass:
			out = append(out, "begin:"+rec.Pass)
		case gpu.CommandKindEndPass:
			out = append(out, "end:"+rec.Pass)
		}
	}
	return out
}

func transitionBatches(log []gpu.CommandRecord) [][]gpu.TransitionRecord {
	var out [][]gpu.TransitionRecord
	for _, rec := range log {
		if rec.Kind == gpu.CommandKindTransition {
			out = append(out, rec.Transitions)
		}
	}
	return out
}

func drawsInPass(log []gpu.DrawRecord, pass string) []gpu.DrawRecord {
	var out []gpu.DrawRecord
	for _, d := range log {
		if d.Pass == pass {
			out = append(out, d)
		}
	}
	return out
}

func TestRecordEncodesThreePassesInOrder(t *testing.T) {
	h := newGraphHarness(t)
	mesh := registerQuad(t, h.reg, "quad")
	mat := material.NewMaterial(material.WithName("plain"))

	h.recordFrame(t, testSnapshot(identityItem(mesh, mat)))

	assert.Equal(t, []string{
		"transition:5",
		"begin:Geometry Pass", "end:Geometry Pass",
		"transition:4",
		"begin:Lighting Pass", "end:Lighting Pass",
		"transition:1",
		"begin:Tone Mapping Pass", "end:Tone Mapping Pass",
	}, passSummary(h.device.CommandLog()))

	draws := h.device.DrawLog()
	require.Len(t, draws, 3)
	assert.Equal(t, "geometry", draws[0].Pipeline)
	assert.Equal(t, uint32(6), draws[0].IndexCount)
	assert.Equal(t, uint32(1), draws[0].InstanceCount)
	assert.Equal(t, "lighting", draws[1].Pipeline)
	assert.Equal(t, uint32(3), draws[1].VertexCount)
	assert.Equal(t, "tone-map", draws[2].Pipeline)
	assert.Equal(t, uint32(3), draws[2].VertexCount)

	stats := h.graph.Stats()
	assert.Equal(t, 3, stats.Pipelines)
	assert.Equal(t, uint64(1), stats.FramesRecorded)
	assert.Equal(t, 1, stats.LastDraws)
	assert.Zero(t, stats.LastSkipped)
}

func TestRecordSteadyStateDeterministic(t *testing.T) {
	h := newGraphHarness(t)
	meshA := registerQuad(t, h.reg, "a")
	meshB := registerQuad(t, h.reg, "b")
	matA := material.NewMaterial(material.WithName("gold"), material.WithMetallic(1), material.WithRoughness(0.3))
	matB := material.NewMaterial(material.WithName("clay"), material.WithBaseColor([4]float32{0.7, 0.4, 0.3, 1}))

	l := light.NewLight(light.Point,
		light.WithPosition(0, 3, 0),
		light.WithIntensity(40),
		light.WithRange(12),
	)
	snap := testSnapshot(
		identityItem(meshB, matB),
		identityItem(meshA, matA),
		identityItem(meshA, matB),
	)
	snap.LightBuffer = light.MarshalLightBuffer([]light.Light{l}, [3]float32{0.02, 0.02, 0.03})
	snap.LightCount = 1

	// First frame warms caches and leaves the attachments in their steady
	// post-present layouts.
	h.recordFrame(t, snap)

	h.device.ResetLog()
	h.recordFrame(t, snap)
	secondLog := h.device.CommandLog()
	secondWrites := h.device.BufferWrites()

	h.device.ResetLog()
	h.recordFrame(t, snap)

	assert.Equal(t, secondLog, h.device.CommandLog())
	assert.Equal(t, secondWrites, h.device.BufferWrites())
}

func TestGeometryDrawsOrderedByMaterialThenMesh(t *testing.T) {
	h := newGraphHarness(t)
	meshA := registerQuad(t, h.reg, "a")
	meshB := registerQuad(t, h.reg, "b")
	require.Less(t, meshA, meshB)

	matA := material.NewMaterial(material.WithName("first"), material.WithRoughness(0.2))
	matB := material.NewMaterial(material.WithName("second"), material.WithRoughness(0.8))
	setA, err := h.cache.Build(matA)
	require.NoError(t, err)
	setB, err := h.cache.Build(matB)
	require.NoError(t, err)
	require.Less(t, setA, setB)

	groupA, ok := h.cache.BindGroup(setA)
	require.True(t, ok)
	groupB, ok := h.cache.BindGroup(setB)
	require.True(t, ok)
	gpuA, ok := h.reg.Mesh(meshA)
	require.True(t, ok)
	gpuB, ok := h.reg.Mesh(meshB)
	require.True(t, ok)

	h.recordFrame(t, testSnapshot(
		identityItem(meshB, matB),
		identityItem(meshA, matA),
		identityItem(meshB, matA),
		identityItem(meshA, matB),
	))

	draws := drawsInPass(h.device.DrawLog(), "Geometry Pass")
	require.Len(t, draws, 4)

	var groups, meshes []uint64
	for _, d := range draws {
		groups = append(groups, d.BindGroups[1])
		meshes = append(meshes, d.VertexBuffer)
	}
	assert.Equal(t, []uint64{
		gpu.ResourceID(groupA), gpu.ResourceID(groupA),
		gpu.ResourceID(groupB), gpu.ResourceID(groupB),
	}, groups)
	assert.Equal(t, []uint64{
		gpu.ResourceID(gpuA.Vertex), gpu.ResourceID(gpuB.Vertex),
		gpu.ResourceID(gpuA.Vertex), gpu.ResourceID(gpuB.Vertex),
	}, meshes)

	// Each draw carries the shared camera offset plus its own uniform slot,
	// staged in draw order.
	for i, d := range draws {
		require.Len(t, d.DynamicOffsets[0], 2)
		assert.Equal(t, draws[0].DynamicOffsets[0][0], d.DynamicOffsets[0][0])
		if i > 0 {
			assert.Greater(t, d.DynamicOffsets[0][1], draws[i-1].DynamicOffsets[0][1])
		}
	}
}

func TestPendingTextureSkipsDrawUntilReady(t *testing.T) {
	h := newGraphHarness(t)
	meshA := registerQuad(t, h.reg, "a")
	meshB := registerQuad(t, h.reg, "b")

	tex, err := h.reg.RegisterTexture(common.ImageData{Name: "albedo", Data: encodePNG(t, 4, 4)})
	require.NoError(t, err)
	require.Equal(t, registry.ResourceStatePending, h.reg.TextureState(tex))

	textured := material.NewMaterial(material.WithName("textured"), material.WithAlbedoTexture(tex))
	plain := material.NewMaterial(material.WithName("plain"))
	snap := testSnapshot(identityItem(meshA, textured), identityItem(meshB, plain))

	h.recordFrame(t, snap)

	gpuB, ok := h.reg.Mesh(meshB)
	require.True(t, ok)
	draws := drawsInPass(h.device.DrawLog(), "Geometry Pass")
	require.Len(t, draws, 1)
	assert.Equal(t, gpu.ResourceID(gpuB.Vertex), draws[0].VertexBuffer)

	stats := h.graph.Stats()
	assert.Equal(t, 1, stats.LastDraws)
	assert.Equal(t, 1, stats.LastSkipped)

	require.Equal(t, 1, h.reg.ProcessUploads())
	require.Equal(t, registry.ResourceStateReady, h.reg.TextureState(tex))

	h.device.ResetLog()
	h.recordFrame(t, snap)

	assert.Len(t, drawsInPass(h.device.DrawLog(), "Geometry Pass"), 2)
	stats = h.graph.Stats()
	assert.Equal(t, 2, stats.LastDraws)
	assert.Zero(t, stats.LastSkipped)
}

func TestUnshadedItemsSkipped(t *testing.T) {
	h := newGraphHarness(t)
	meshA := registerQuad(t, h.reg, "a")
	meshB := registerQuad(t, h.reg, "b")
	mat := material.NewMaterial(material.WithName("plain"))

	h.recordFrame(t, testSnapshot(identityItem(meshA, nil), identityItem(meshB, mat)))

	draws := h.device.DrawLog()
	require.Len(t, draws, 3)
	assert.Equal(t, "Geometry Pass", draws[0].Pass)
	assert.Equal(t, "Lighting Pass", draws[1].Pass)
	assert.Equal(t, "Tone Mapping Pass", draws[2].Pass)
	assert.Equal(t, 1, h.graph.Stats().LastSkipped)
}

func TestOffscreenItemsCulled(t *testing.T) {
	h := newGraphHarness(t)
	mesh := registerQuad(t, h.reg, "quad")
	mat := material.NewMaterial(material.WithName("plain"))

	visible := identityItem(mesh, mat)
	offscreen := identityItem(mesh, mat)
	offscreen.Bounds = [4]float32{50, 0, 0, 1}

	h.recordFrame(t, testSnapshot(visible, offscreen))

	assert.Len(t, drawsInPass(h.device.DrawLog(), "Geometry Pass"), 1)
	stats := h.graph.Stats()
	assert.Equal(t, 1, stats.LastDraws)
	assert.Equal(t, 1, stats.LastCulled)
	assert.Zero(t, stats.LastSkipped)
}

func TestCullingDisabledRecordsEveryItem(t *testing.T) {
	h := newGraphHarness(t, WithFrustumCulling(false))
	mesh := registerQuad(t, h.reg, "quad")
	mat := material.NewMaterial(material.WithName("plain"))

	visible := identityItem(mesh, mat)
	offscreen := identityItem(mesh, mat)
	offscreen.Bounds = [4]float32{50, 0, 0, 1}

	h.recordFrame(t, testSnapshot(visible, offscreen))

	assert.Len(t, drawsInPass(h.device.DrawLog(), "Geometry Pass"), 2)
	stats := h.graph.Stats()
	assert.Equal(t, 2, stats.LastDraws)
	assert.Zero(t, stats.LastCulled)
}

func TestBarrierBatchesCoverSampledAttachments(t *testing.T) {
	h := newGraphHarness(t)
	mesh := registerQuad(t, h.reg, "quad")
	mat := material.NewMaterial(material.WithName("plain"))
	snap := testSnapshot(identityItem(mesh, mat))

	h.recordFrame(t, snap)

	gi := h.graph.(*graphImpl)
	albedoID := gpu.ResourceID(gi.targets.albedo.texture)
	normalID := gpu.ResourceID(gi.targets.normal.texture)
	emissiveID := gpu.ResourceID(gi.targets.emissive.texture)
	depthID := gpu.ResourceID(gi.targets.depth.texture)
	hdrID := gpu.ResourceID(gi.targets.hdr.texture)

	batches := transitionBatches(h.device.CommandLog())
	require.Len(t, batches, 3)

	var headIDs []uint64
	for _, tr := range batches[0] {
		headIDs = append(headIDs, tr.TextureID)
		assert.Equal(t, gpu.LayoutUndefined, tr.From)
		if tr.TextureID == depthID {
			assert.Equal(t, gpu.LayoutDepthTarget, tr.To)
		} else {
			assert.Equal(t, gpu.LayoutColorTarget, tr.To)
		}
	}
	assert.ElementsMatch(t, []uint64{albedoID, normalID, emissiveID, depthID, hdrID}, headIDs)

	var gbufferIDs []uint64
	for _, tr := range batches[1] {
		gbufferIDs = append(gbufferIDs, tr.TextureID)
		assert.Equal(t, gpu.LayoutShaderRead, tr.To)
	}
	assert.ElementsMatch(t, []uint64{albedoID, normalID, emissiveID, depthID}, gbufferIDs)

	require.Len(t, batches[2], 1)
	assert.Equal(t, hdrID, batches[2][0].TextureID)
	assert.Equal(t, gpu.LayoutShaderRead, batches[2][0].To)

	// Steady state: the next frame reclaims the sampled attachments from their
	// shader-read layouts instead of discarding them.
	h.device.ResetLog()
	h.recordFrame(t, snap)
	batches = transitionBatches(h.device.CommandLog())
	require.Len(t, batches, 3)
	for _, tr := range batches[0] {
		assert.Equal(t, gpu.LayoutShaderRead, tr.From)
	}
}

func TestRecordErrorIdentifiesFailingPass(t *testing.T) {
	h := newGraphHarness(t)
	mesh := registerQuad(t, h.reg, "quad")
	mat := material.NewMaterial(material.WithName("plain"))
	snap := testSnapshot(identityItem(mesh, mat))

	surface, err := h.device.AcquireSurfaceTexture()
	require.NoError(t, err)
	slot, err := h.pool.Acquire()
	require.NoError(t, err)

	var recErr *RecordError
	err = h.graph.Record(slot, surface, snap)
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "Geometry Pass", recErr.Pass)
	assert.Contains(t, recErr.Error(), "no open encoder")

	require.NoError(t, slot.Begin())

	err = h.graph.Record(slot, nil, snap)
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "Tone Mapping Pass", recErr.Pass)

	unsized, err := NewGraph(h.device, h.reg, h.cache)
	require.NoError(t, err)
	t.Cleanup(unsized.Close)
	err = unsized.Record(slot, surface, snap)
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "Geometry Pass", recErr.Pass)
	assert.Contains(t, recErr.Error(), "Resize")

	// Every failure happened before any command was encoded, so dropping the
	// frame leaves nothing behind.
	slot.Discard()
	h.device.Present()
	assert.Empty(t, h.device.CommandLog())
	assert.Zero(t, h.graph.Stats().FramesRecorded)
}

func TestResizeRebuildsAttachments(t *testing.T) {
	h := newGraphHarness(t)
	mesh := registerQuad(t, h.reg, "quad")
	mat := material.NewMaterial(material.WithName("plain"))
	snap := testSnapshot(identityItem(mesh, mat))

	h.recordFrame(t, snap)

	gi := h.graph.(*graphImpl)
	oldTargets := gi.targets
	oldHDR := gpu.ResourceID(oldTargets.hdr.texture)

	// Same dimensions leave the attachments alone.
	require.NoError(t, h.graph.Resize(800, 600))
	assert.Same(t, oldTargets, gi.targets)

	require.NoError(t, h.graph.Resize(1024, 768))
	assert.NotSame(t, oldTargets, gi.targets)
	assert.NotEqual(t, oldHDR, gpu.ResourceID(gi.targets.hdr.texture))

	// Fresh attachments carry no layout history, so the next frame starts
	// from undefined again.
	h.device.ResetLog()
	h.recordFrame(t, snap)
	batches := transitionBatches(h.device.CommandLog())
	require.Len(t, batches, 3)
	for _, tr := range batches[0] {
		assert.Equal(t, gpu.LayoutUndefined, tr.From)
	}
}

func TestLightBufferWrittenPerFrame(t *testing.T) {
	h := newGraphHarness(t)
	mesh := registerQuad(t, h.reg, "quad")
	mat := material.NewMaterial(material.WithName("plain"))

	l := light.NewLight(light.Directional, light.WithDirection(0, -1, 0))
	lit := testSnapshot(identityItem(mesh, mat))
	lit.LightBuffer = light.MarshalLightBuffer([]light.Light{l}, [3]float32{0.1, 0.1, 0.1})
	lit.LightCount = 1

	h.recordFrame(t, lit)

	gi := h.graph.(*graphImpl)
	slotLights, ok := gi.slots[0]
	require.True(t, ok)
	lightID := gpu.ResourceID(slotLights.lightBuffer)

	found := false
	for _, w := range h.device.BufferWrites() {
		if w.BufferID == lightID {
			assert.Zero(t, w.Offset)
			assert.Equal(t, len(lit.LightBuffer), w.Bytes)
			found = true
		}
	}
	assert.True(t, found, "light buffer upload not logged")

	// A snapshot with no marshaled lights skips the upload entirely.
	h.device.ResetLog()
	h.recordFrame(t, testSnapshot(identityItem(mesh, mat)))
	for _, w := range h.device.BufferWrites() {
		assert.NotEqual(t, lightID, w.BufferID)
	}
}

func TestEnvironmentFallbackUntilReady(t *testing.T) {
	h := newGraphHarness(t)
	mesh := registerQuad(t, h.reg, "quad")
	mat := material.NewMaterial(material.WithName("plain"))

	env, err := h.reg.RegisterTexture(common.ImageData{Name: "sky", Data: encodePNG(t, 8, 4)})
	require.NoError(t, err)

	snap := testSnapshot(identityItem(mesh, mat))
	snap.Environment = env

	h.recordFrame(t, snap)

	gi := h.graph.(*graphImpl)
	st, ok := gi.slots[0]
	require.True(t, ok)
	assert.Zero(t, st.lightingEnv)
	pendingGroup := gpu.ResourceID(st.lightingGroup)

	require.Equal(t, 1, h.reg.ProcessUploads())
	h.recordFrame(t, snap)

	assert.Equal(t, env, st.lightingEnv)
	assert.NotEqual(t, pendingGroup, gpu.ResourceID(st.lightingGroup))

	// The rebuilt group is reused once the environment is stable.
	stableGroup := gpu.ResourceID(st.lightingGroup)
	h.recordFrame(t, snap)
	assert.Equal(t, stableGroup, gpu.ResourceID(st.lightingGroup))
}

func TestCloseReleasesGPUObjects(t *testing.T) {
	dev := gpu.NewNullDevice(gpu.WithAutoComplete())
	reg, err := registry.NewRegistry(dev, registry.WithDeferredUploads())
	require.NoError(t, err)
	defer reg.Close()
	cache, err := material.NewDescriptorCache(dev, reg)
	require.NoError(t, err)
	defer cache.Close()
	pool, err := framepool.New(dev, framepool.WithFramesInFlight(1))
	require.NoError(t, err)
	defer pool.Close()

	g, err := NewGraph(dev, reg, cache)
	require.NoError(t, err)
	require.NoError(t, g.Resize(640, 480))

	mesh := registerQuad(t, reg, "quad")
	mat := material.NewMaterial(material.WithName("plain"))
	snap := testSnapshot(identityItem(mesh, mat))

	surface, err := dev.AcquireSurfaceTexture()
	require.NoError(t, err)
	slot, err := pool.Acquire()
	require.NoError(t, err)
	require.NoError(t, slot.Begin())
	require.NoError(t, g.Record(slot, surface, snap))
	require.NoError(t, slot.SubmitAndSignal())
	dev.Present()

	texturesBefore := dev.AliveTextures()
	groupsBefore := dev.AliveBindGroups()

	g.Close()

	// The five frame attachments go away with the graph.
	assert.Equal(t, texturesBefore-5, dev.AliveTextures())
	// Slot uniforms, lighting inputs and tone mapping inputs are graph-owned;
	// material sets stay with the descriptor cache.
	assert.Equal(t, groupsBefore-3, dev.AliveBindGroups())
}
