// Package graph is the render graph executor: it turns one frame's scene
// snapshot into recorded GPU commands through three fixed passes (geometry
// G-buffer, deferred lighting with IBL, tone mapping to the surface) with the
// minimal layout transitions between them. Recording is deterministic: draws
// sort stable by descriptor set then mesh handle, so identical inputs always
// produce an identical command stream.
package graph

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/camera"
	"github.com/Carmen-Shannon/lumen-go/engine/framepool"
	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
	"github.com/Carmen-Shannon/lumen-go/engine/light"
	"github.com/Carmen-Shannon/lumen-go/engine/material"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
	"github.com/Carmen-Shannon/lumen-go/engine/scene"
	"github.com/Carmen-Shannon/lumen-go/log"
)

// Pass labels, used for render pass descriptors and error reporting.
const (
	passGeometry = "Geometry Pass"
	passLighting = "Lighting Pass"
	passToneMap  = "Tone Mapping Pass"
)

// GraphStats is a point-in-time summary of executor activity.
type GraphStats struct {
	Pipelines      int
	FramesRecorded uint64
	LastDraws      int
	LastSkipped    int
	LastCulled     int
}

// Graph records one frame's render passes into a frame slot's encoder.
type Graph interface {
	// Record encodes the geometry, lighting and tone mapping passes for one
	// frame into the slot's open encoder. Items whose bounding sphere falls
	// outside the camera frustum are culled, items whose resources are still
	// uploading are skipped, and the rest of the frame proceeds. The recorded
	// commands are submitted by the caller via the slot.
	//
	// Parameters:
	//   - slot: the acquired frame slot with an open encoder
	//   - surface: the presentable surface view the tone mapping pass writes
	//   - snap: the frame's scene snapshot
	//
	// Returns:
	//   - error: a *RecordError when a pass cannot be recorded; the frame
	//     must be dropped and the next tick proceeds
	Record(slot *framepool.Slot, surface gpu.TextureView, snap *scene.Snapshot) error

	// Resize rebuilds the G-buffer and HDR attachments at the given surface
	// size. It must be called once before the first Record and again whenever
	// the surface is reconfigured.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	//
	// Returns:
	//   - error: an error if attachment creation failed
	Resize(width, height uint32) error

	// Stats reports pipeline cache occupancy and per-frame draw counts.
	//
	// Returns:
	//   - GraphStats: the current totals
	Stats() GraphStats

	// Close releases every GPU object the executor owns. The graph is
	// unusable afterwards.
	Close()
}

// slotState is the per-frame-slot GPU state the executor keeps between
// frames: the bind group over the slot's scratch arena and the slot's light
// storage buffer.
type slotState struct {
	scratch       gpu.Buffer
	frameGroup    gpu.BindGroup
	lightBuffer   gpu.Buffer
	lightingGroup gpu.BindGroup
	lightingGen   uint64
	lightingEnv   registry.TextureHandle
}

func (st *slotState) release() {
	if st.frameGroup != nil {
		st.frameGroup.Release()
		st.frameGroup = nil
	}
	if st.lightingGroup != nil {
		st.lightingGroup.Release()
		st.lightingGroup = nil
	}
	if st.lightBuffer != nil {
		st.lightBuffer.Release()
		st.lightBuffer = nil
	}
}

// drawCommand is one resolved, recordable draw in the geometry pass.
type drawCommand struct {
	set        material.DescriptorSetHandle
	group      gpu.BindGroup
	handle     registry.MeshHandle
	mesh       registry.MeshGPU
	world      [16]float32
	firstIndex uint32
	indexCount uint32
	offset     uint32
}

type graphImpl struct {
	mu     *sync.Mutex
	device gpu.Device
	reg    registry.Registry
	cache  material.DescriptorCache
	logger log.Logger

	clearColor gpu.Color

	frameLayout    gpu.BindGroupLayout
	lightingLayout gpu.BindGroupLayout
	toneMapLayout  gpu.BindGroupLayout
	sampler        gpu.Sampler

	pipelines map[string]gpu.RenderPipeline

	// targets and generation advance together: every rebuild invalidates the
	// bind groups that reference the old attachment views.
	targets    *frameTargets
	generation uint64

	slots map[int]*slotState

	toneMapGroup gpu.BindGroup
	toneMapGen   uint64

	skippedMaterials map[string]struct{}
	skippedMeshes    map[registry.MeshHandle]struct{}

	culling bool

	frames      uint64
	lastDraws   int
	lastSkipped int
	lastCulled  int

	drawScratch []drawCommand
}

var _ Graph = &graphImpl{}

var (
	cameraUniformSize = uint64((&camera.GPUCameraUniform{}).Size())
	drawUniformSize   = uint64((&GPUDrawUniform{}).Size())
	lightBufferSize   = uint64((&light.GPULightHeader{}).Size() + light.MaxGPULights*(&light.GPULight{}).Size())
)

func (g *graphImpl) Record(slot *framepool.Slot, surface gpu.TextureView, snap *scene.Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	encoder := slot.Encoder()
	if encoder == nil {
		return &RecordError{Pass: passGeometry, Err: fmt.Errorf("frame slot %d has no open encoder", slot.Index())}
	}
	if g.targets == nil {
		return &RecordError{Pass: passGeometry, Err: fmt.Errorf("no frame targets, call Resize before recording")}
	}
	if surface == nil {
		return &RecordError{Pass: passToneMap, Err: fmt.Errorf("no surface texture acquired for this frame")}
	}

	// Resolve everything that can fail before encoding starts, so a dropped
	// frame never leaves a half-recorded pass behind.
	st, err := g.slotState(slot)
	if err != nil {
		return &RecordError{Pass: passGeometry, Err: err}
	}
	geometryPipeline, err := g.geometryPipeline()
	if err != nil {
		return &RecordError{Pass: passGeometry, Err: err}
	}
	lightingPipeline, err := g.lightingPipeline()
	if err != nil {
		return &RecordError{Pass: passLighting, Err: err}
	}
	toneMapPipeline, err := g.toneMapPipeline()
	if err != nil {
		return &RecordError{Pass: passToneMap, Err: err}
	}
	lightingGroup, err := g.lightingBindGroup(st, snap.Environment)
	if err != nil {
		return &RecordError{Pass: passLighting, Err: err}
	}
	toneMapGroup, err := g.toneMapBindGroup()
	if err != nil {
		return &RecordError{Pass: passToneMap, Err: err}
	}

	camOffset, err := slot.Alloc(snap.Camera.Marshal())
	if err != nil {
		return &RecordError{Pass: passGeometry, Err: err}
	}
	if len(snap.LightBuffer) > 0 {
		if err := g.device.Queue().WriteBuffer(st.lightBuffer, 0, snap.LightBuffer); err != nil {
			return &RecordError{Pass: passLighting, Err: err}
		}
	}

	draws, skipped, culled := g.buildDrawList(snap)

	// Stable sort by (descriptor set, mesh) groups binding state; snapshot
	// order breaks remaining ties, keeping the stream deterministic.
	slices.SortStableFunc(draws, func(a, b drawCommand) int {
		if c := cmp.Compare(a.set, b.set); c != 0 {
			return c
		}
		return cmp.Compare(a.handle, b.handle)
	})

	// Per-draw uniforms stage in sorted order so dynamic offsets are as
	// reproducible as the draws that consume them.
	for i := range draws {
		uniform := ToGPUDrawUniform(draws[i].world)
		offset, err := slot.Alloc(uniform.Marshal())
		if err != nil {
			return &RecordError{Pass: passGeometry, Err: err}
		}
		draws[i].offset = offset
	}

	g.targets.acquireForFrame(encoder)

	pass := encoder.BeginRenderPass(&gpu.RenderPassDescriptor{
		Label: passGeometry,
		ColorAttachments: []gpu.RenderPassColorAttachment{
			{View: g.targets.albedo.view, LoadOp: gpu.LoadOpClear, StoreOp: gpu.StoreOpStore, ClearValue: g.clearColor},
			{View: g.targets.normal.view, LoadOp: gpu.LoadOpClear, StoreOp: gpu.StoreOpStore},
			{View: g.targets.emissive.view, LoadOp: gpu.LoadOpClear, StoreOp: gpu.StoreOpStore},
		},
		DepthAttachment: &gpu.RenderPassDepthAttachment{
			View:       g.targets.depth.view,
			LoadOp:     gpu.LoadOpClear,
			StoreOp:    gpu.StoreOpStore,
			ClearDepth: 1.0,
		},
	})
	pass.SetPipeline(geometryPipeline)
	var lastSet material.DescriptorSetHandle
	var lastMesh registry.MeshHandle
	haveSet := false
	for i := range draws {
		d := &draws[i]
		pass.SetBindGroup(0, st.frameGroup, camOffset, d.offset)
		if !haveSet || d.set != lastSet {
			pass.SetBindGroup(1, d.group)
			lastSet, haveSet = d.set, true
		}
		if d.handle != lastMesh {
			pass.SetVertexBuffer(0, d.mesh.Vertex)
			pass.SetIndexBuffer(d.mesh.Index, gpu.IndexFormatUint32)
			lastMesh = d.handle
		}
		pass.DrawIndexed(d.indexCount, 1, d.firstIndex)
	}
	pass.End()

	g.targets.gbufferToSampled(encoder)

	pass = encoder.BeginRenderPass(&gpu.RenderPassDescriptor{
		Label: passLighting,
		ColorAttachments: []gpu.RenderPassColorAttachment{
			{View: g.targets.hdr.view, LoadOp: gpu.LoadOpClear, StoreOp: gpu.StoreOpStore},
		},
	})
	pass.SetPipeline(lightingPipeline)
	pass.SetBindGroup(0, lightingGroup, camOffset)
	pass.Draw(3, 1)
	pass.End()

	g.targets.hdrToSampled(encoder)

	pass = encoder.BeginRenderPass(&gpu.RenderPassDescriptor{
		Label: passToneMap,
		ColorAttachments: []gpu.RenderPassColorAttachment{
			{View: surface, LoadOp: gpu.LoadOpClear, StoreOp: gpu.StoreOpStore},
		},
	})
	pass.SetPipeline(toneMapPipeline)
	pass.SetBindGroup(0, toneMapGroup)
	pass.Draw(3, 1)
	pass.End()

	g.frames++
	g.lastDraws = len(draws)
	g.lastSkipped = skipped
	g.lastCulled = culled
	return nil
}

// buildDrawList resolves snapshot items into recordable draws. Items outside
// the camera frustum are culled before any resource lookups; the rest are
// skipped when their material descriptors or meshes are unavailable this
// frame.
func (g *graphImpl) buildDrawList(snap *scene.Snapshot) ([]drawCommand, int, int) {
	draws := g.drawScratch[:0]
	skipped, culled := 0, 0
	var frustum common.Frustum
	if g.culling {
		frustum = common.ExtractFrustumFromMatrix(snap.Camera.ViewProj[:])
	}
	for i := range snap.Items {
		item := &snap.Items[i]
		if g.culling {
			center := [3]float32{item.Bounds[0], item.Bounds[1], item.Bounds[2]}
			if !frustum.IntersectsSphere(center, item.Bounds[3]) {
				culled++
				continue
			}
		}
		if item.Material == nil {
			skipped++
			continue
		}
		set, err := g.cache.Build(item.Material)
		if err != nil {
			skipped++
			g.logSkippedMaterial(item.Material.Name(), err)
			continue
		}
		delete(g.skippedMaterials, item.Material.Name())
		group, ok := g.cache.BindGroup(set)
		if !ok {
			skipped++
			continue
		}
		mesh, ok := g.reg.Mesh(item.Mesh)
		if !ok {
			skipped++
			g.logSkippedMesh(item.Mesh)
			continue
		}
		firstIndex, indexCount := uint32(0), mesh.IndexCount
		if len(mesh.Primitives) > 0 {
			if item.Primitive < 0 || item.Primitive >= len(mesh.Primitives) {
				skipped++
				continue
			}
			prim := mesh.Primitives[item.Primitive]
			firstIndex, indexCount = prim.IndexOffset, prim.IndexCount
		}
		draws = append(draws, drawCommand{
			set:        set,
			group:      group,
			handle:     item.Mesh,
			mesh:       mesh,
			world:      item.World,
			firstIndex: firstIndex,
			indexCount: indexCount,
		})
	}
	g.drawScratch = draws
	return draws, skipped, culled
}

// logSkippedMaterial logs a skipped material once per name; the entry clears
// when the material next resolves, so a later stall logs again.
func (g *graphImpl) logSkippedMaterial(name string, err error) {
	if _, ok := g.skippedMaterials[name]; ok {
		return
	}
	g.skippedMaterials[name] = struct{}{}
	g.logger.Debugf("skipping draws for material %q: %v", name, err)
}

func (g *graphImpl) logSkippedMesh(h registry.MeshHandle) {
	if _, ok := g.skippedMeshes[h]; ok {
		return
	}
	g.skippedMeshes[h] = struct{}{}
	g.logger.Warningf("skipping draws for unregistered mesh handle %d", h)
}

func (g *graphImpl) slotState(slot *framepool.Slot) (*slotState, error) {
	if st, ok := g.slots[slot.Index()]; ok {
		return st, nil
	}

	st := &slotState{scratch: slot.Scratch()}
	lightBuffer, err := g.device.CreateBuffer(&gpu.BufferDescriptor{
		Label: fmt.Sprintf("Frame Slot %d Lights", slot.Index()),
		Size:  lightBufferSize,
		Usage: gpu.BufferUsageStorage | gpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create light buffer for slot %d: %w", slot.Index(), err)
	}
	st.lightBuffer = lightBuffer

	frameGroup, err := g.device.CreateBindGroup(&gpu.BindGroupDescriptor{
		Label:  fmt.Sprintf("Frame Slot %d Uniforms", slot.Index()),
		Layout: g.frameLayout,
		Entries: []gpu.BindGroupEntry{
			{Binding: 0, Buffer: st.scratch, Size: cameraUniformSize},
			{Binding: 1, Buffer: st.scratch, Size: drawUniformSize},
		},
	})
	if err != nil {
		st.release()
		return nil, fmt.Errorf("failed to create frame bind group for slot %d: %w", slot.Index(), err)
	}
	st.frameGroup = frameGroup

	g.slots[slot.Index()] = st
	return st, nil
}

// lightingBindGroup returns the lighting pass inputs for a slot, rebuilding
// them when the attachments were resized or the environment map changed.
func (g *graphImpl) lightingBindGroup(st *slotState, env registry.TextureHandle) (gpu.BindGroup, error) {
	envKey := registry.TextureHandle(0)
	envView := g.reg.FallbackView(registry.FallbackBlack)
	if env != 0 && g.reg.TextureState(env) == registry.ResourceStateReady {
		if view, ok := g.reg.TextureView(env); ok {
			envView, envKey = view, env
		}
	}

	if st.lightingGroup != nil && st.lightingGen == g.generation && st.lightingEnv == envKey {
		return st.lightingGroup, nil
	}
	if st.lightingGroup != nil {
		st.lightingGroup.Release()
		st.lightingGroup = nil
	}

	group, err := g.device.CreateBindGroup(&gpu.BindGroupDescriptor{
		Label:  "Lighting Inputs",
		Layout: g.lightingLayout,
		Entries: []gpu.BindGroupEntry{
			{Binding: 0, Buffer: st.scratch, Size: cameraUniformSize},
			{Binding: 1, Buffer: st.lightBuffer, Size: lightBufferSize},
			{Binding: 2, Sampler: g.sampler},
			{Binding: 3, TextureView: g.targets.albedo.view},
			{Binding: 4, TextureView: g.targets.normal.view},
			{Binding: 5, TextureView: g.targets.emissive.view},
			{Binding: 6, TextureView: g.targets.depth.view},
			{Binding: 7, TextureView: envView},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lighting bind group: %w", err)
	}
	st.lightingGroup = group
	st.lightingGen = g.generation
	st.lightingEnv = envKey
	return group, nil
}

// toneMapBindGroup returns the tone mapping inputs, rebuilding them when the
// HDR attachment was resized.
func (g *graphImpl) toneMapBindGroup() (gpu.BindGroup, error) {
	if g.toneMapGroup != nil && g.toneMapGen == g.generation {
		return g.toneMapGroup, nil
	}
	if g.toneMapGroup != nil {
		g.toneMapGroup.Release()
		g.toneMapGroup = nil
	}

	group, err := g.device.CreateBindGroup(&gpu.BindGroupDescriptor{
		Label:  "Tone Mapping Inputs",
		Layout: g.toneMapLayout,
		Entries: []gpu.BindGroupEntry{
			{Binding: 0, Sampler: g.sampler},
			{Binding: 1, TextureView: g.targets.hdr.view},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tone mapping bind group: %w", err)
	}
	g.toneMapGroup = group
	g.toneMapGen = g.generation
	return group, nil
}

func (g *graphImpl) Resize(width, height uint32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.targets != nil && g.targets.width == width && g.targets.height == height {
		return nil
	}

	targets, err := newFrameTargets(g.device, width, height)
	if err != nil {
		return fmt.Errorf("failed to resize frame targets to %dx%d: %w", width, height, err)
	}
	if g.targets != nil {
		g.targets.release()
	}
	g.targets = targets
	g.generation++
	g.logger.Debugf("frame targets rebuilt at %dx%d", width, height)
	return nil
}

func (g *graphImpl) Stats() GraphStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GraphStats{
		Pipelines:      len(g.pipelines),
		FramesRecorded: g.frames,
		LastDraws:      g.lastDraws,
		LastSkipped:    g.lastSkipped,
		LastCulled:     g.lastCulled,
	}
}

func (g *graphImpl) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, st := range g.slots {
		st.release()
	}
	g.slots = map[int]*slotState{}
	if g.toneMapGroup != nil {
		g.toneMapGroup.Release()
		g.toneMapGroup = nil
	}
	for _, pipeline := range g.pipelines {
		pipeline.Release()
	}
	g.pipelines = map[string]gpu.RenderPipeline{}
	if g.targets != nil {
		g.targets.release()
		g.targets = nil
	}
	if g.sampler != nil {
		g.sampler.Release()
		g.sampler = nil
	}
	if g.frameLayout != nil {
		g.frameLayout.Release()
		g.frameLayout = nil
	}
	if g.lightingLayout != nil {
		g.lightingLayout.Release()
		g.lightingLayout = nil
	}
	if g.toneMapLayout != nil {
		g.toneMapLayout.Release()
		g.toneMapLayout = nil
	}
}
