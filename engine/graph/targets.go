package graph

import (
	"fmt"

	"github.com/Carmen-Shannon/lumen-go/engine/gpu"
)

// G-buffer and intermediate target formats. Albedo packs metallic in alpha,
// normal packs roughness in alpha, emissive packs occlusion in alpha.
const (
	formatAlbedo   = gpu.TextureFormatRGBA8UnormSrgb
	formatNormal   = gpu.TextureFormatRGBA16Float
	formatEmissive = gpu.TextureFormatRGBA16Float
	formatDepth    = gpu.TextureFormatDepth32Float
	formatHDR      = gpu.TextureFormatRGBA16Float
)

// renderTarget is one graph-owned attachment with its tracked layout. The
// layout advances as pass-edge transitions are recorded, so each frame's
// first transition batch knows what state the previous frame left behind.
type renderTarget struct {
	texture gpu.Texture
	view    gpu.TextureView
	format  gpu.TextureFormat
	layout  gpu.Layout
}

func (t *renderTarget) release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// attachmentLayout is the layout a target occupies while a pass writes it.
func (t *renderTarget) attachmentLayout() gpu.Layout {
	if t.format.IsDepth() {
		return gpu.LayoutDepthTarget
	}
	return gpu.LayoutColorTarget
}

// frameTargets is the full set of intermediate attachments one frame renders
// through: the four G-buffer targets the geometry pass writes and the HDR
// target the lighting pass accumulates into.
type frameTargets struct {
	width  uint32
	height uint32

	albedo   renderTarget
	normal   renderTarget
	emissive renderTarget
	depth    renderTarget
	hdr      renderTarget
}

func newFrameTargets(device gpu.Device, width, height uint32) (*frameTargets, error) {
	t := &frameTargets{width: width, height: height}

	specs := []struct {
		target *renderTarget
		label  string
		format gpu.TextureFormat
	}{
		{&t.albedo, "G-Buffer Albedo", formatAlbedo},
		{&t.normal, "G-Buffer Normal", formatNormal},
		{&t.emissive, "G-Buffer Emissive", formatEmissive},
		{&t.depth, "G-Buffer Depth", formatDepth},
		{&t.hdr, "HDR Accumulation", formatHDR},
	}
	for _, spec := range specs {
		texture, err := device.CreateTexture(&gpu.TextureDescriptor{
			Label:         spec.label,
			Width:         width,
			Height:        height,
			MipLevelCount: 1,
			Format:        spec.format,
			Usage:         gpu.TextureUsageRenderAttachment | gpu.TextureUsageTextureBinding,
		})
		if err != nil {
			t.release()
			return nil, fmt.Errorf("failed to create %s target: %w", spec.label, err)
		}
		view, err := texture.CreateView()
		if err != nil {
			texture.Release()
			t.release()
			return nil, fmt.Errorf("failed to create %s view: %w", spec.label, err)
		}
		*spec.target = renderTarget{texture: texture, view: view, format: spec.format, layout: gpu.LayoutUndefined}
	}
	return t, nil
}

func (t *frameTargets) release() {
	t.albedo.release()
	t.normal.release()
	t.emissive.release()
	t.depth.release()
	t.hdr.release()
}

// acquireForFrame records the batch that returns every target to its
// attachment layout at the head of the frame. After the first frame the
// sources are the sampled layouts the previous frame ended in.
func (t *frameTargets) acquireForFrame(encoder gpu.CommandEncoder) {
	targets := [...]*renderTarget{&t.albedo, &t.normal, &t.emissive, &t.depth, &t.hdr}
	transitions := make([]gpu.Transition, 0, len(targets))
	for _, target := range targets {
		to := target.attachmentLayout()
		transitions = append(transitions, gpu.Transition{Texture: target.texture, From: target.layout, To: to})
		target.layout = to
	}
	encoder.Transition(transitions...)
}

// gbufferToSampled records the geometry-to-lighting edge: exactly the four
// G-buffer targets the lighting pass samples, nothing else.
func (t *frameTargets) gbufferToSampled(encoder gpu.CommandEncoder) {
	targets := [...]*renderTarget{&t.albedo, &t.normal, &t.emissive, &t.depth}
	transitions := make([]gpu.Transition, 0, len(targets))
	for _, target := range targets {
		transitions = append(transitions, gpu.Transition{Texture: target.texture, From: target.layout, To: gpu.LayoutShaderRead})
		target.layout = gpu.LayoutShaderRead
	}
	encoder.Transition(transitions...)
}

// hdrToSampled records the lighting-to-tone-map edge: only the HDR target.
func (t *frameTargets) hdrToSampled(encoder gpu.CommandEncoder) {
	encoder.Transition(gpu.Transition{Texture: t.hdr.texture, From: t.hdr.layout, To: gpu.LayoutShaderRead})
	t.hdr.layout = gpu.LayoutShaderRead
}
