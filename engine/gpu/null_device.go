package gpu

import (
	"fmt"
	"sync"
)

// CommandKind tags entries in the null device's command log.
type CommandKind int

const (
	CommandKindTransition CommandKind = iota
	CommandKindBeginPass
	CommandKindDraw
	CommandKindEndPass
)

// TransitionRecord is one logged layout transition.
type TransitionRecord struct {
	TextureID uint64
	From      Layout
	To        Layout
}

// DrawRecord is one logged draw with the pass and bind state it ran under.
type DrawRecord struct {
	Pass           string
	Pipeline       string
	BindGroups     [4]uint64
	DynamicOffsets [4][]uint32
	VertexBuffer   uint64
	IndexBuffer    uint64
	IndexCount     uint32
	InstanceCount  uint32
	FirstIndex     uint32
	VertexCount    uint32
}

// CommandRecord is one entry in the null device's flattened command log.
type CommandRecord struct {
	Kind        CommandKind
	Pass        string
	Transitions []TransitionRecord
	Draw        *DrawRecord
}

// BufferWrite is one logged queue buffer upload.
type BufferWrite struct {
	BufferID uint64
	Offset   uint64
	Bytes    int
}

// TextureWrite is one logged queue texture upload.
type TextureWrite struct {
	TextureID   uint64
	MipLevel    uint32
	Bytes       int
	BytesPerRow uint32
	Width       uint32
	Height      uint32
}

type nullSubmission struct {
	fence *Fence
}

// NullDevice is a device that executes nothing. It records every command,
// upload and transition it is handed, and lets callers decide when submitted
// work "completes" by signaling submission fences on demand. Tests drive it
// to observe exactly what the renderer asked the GPU to do.
type NullDevice struct {
	mu     *sync.Mutex
	nextID uint64

	limits        Limits
	surfaceFormat TextureFormat
	cfg           SurfaceConfig

	autoComplete bool
	pending      []*nullSubmission

	commands      []CommandRecord
	bufferWrites  []BufferWrite
	textureWrites []TextureWrite

	aliveBuffers    int
	aliveTextures   int
	aliveBindGroups int

	acquireErr      error
	finishErr       error
	textureWriteErr error

	frameHeld bool
	presents  int

	queue *nullQueue
}

var _ Device = &NullDevice{}

// NullDeviceOption configures null device creation.
type NullDeviceOption func(*NullDevice)

// WithAutoComplete makes every submission's fence signal immediately at
// submit, for tests that do not exercise frame pacing.
//
// Returns:
//   - NullDeviceOption: the option to pass to NewNullDevice
func WithAutoComplete() NullDeviceOption {
	return func(d *NullDevice) {
		d.autoComplete = true
	}
}

// WithNullSurfaceFormat overrides the surface format the null device reports.
//
// Parameters:
//   - format: the format SurfaceFormat and Info return
//
// Returns:
//   - NullDeviceOption: the option to pass to NewNullDevice
func WithNullSurfaceFormat(format TextureFormat) NullDeviceOption {
	return func(d *NullDevice) {
		d.surfaceFormat = format
	}
}

// NewNullDevice creates a recording null device.
//
// Parameters:
//   - opts: null device options
//
// Returns:
//   - *NullDevice: the created device
func NewNullDevice(opts ...NullDeviceOption) *NullDevice {
	d := &NullDevice{
		mu: &sync.Mutex{},
		limits: Limits{
			MaxBindGroups:                   8,
			MaxTextureDimension2D:           8192,
			MinUniformBufferOffsetAlignment: 256,
		},
		surfaceFormat: TextureFormatBGRA8UnormSrgb,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.queue = &nullQueue{device: d}
	return d
}

func (d *NullDevice) allocID() uint64 {
	d.nextID++
	return d.nextID
}

func (d *NullDevice) ConfigureSurface(cfg SurfaceConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
	return nil
}

func (d *NullDevice) SurfaceFormat() TextureFormat {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.surfaceFormat
}

func (d *NullDevice) AcquireSurfaceTexture() (TextureView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.acquireErr != nil {
		err := d.acquireErr
		d.acquireErr = nil
		return nil, err
	}
	if d.frameHeld {
		return nil, fmt.Errorf("previous frame surface not yet presented")
	}
	d.frameHeld = true
	return &nullTextureView{id: d.allocID(), textureID: 0}, nil
}

func (d *NullDevice) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.frameHeld {
		return
	}
	d.frameHeld = false
	d.presents++
}

func (d *NullDevice) CreateBuffer(desc *BufferDescriptor) (Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.aliveBuffers++
	return &nullBuffer{device: d, id: d.allocID(), size: desc.Size}, nil
}

func (d *NullDevice) CreateTexture(desc *TextureDescriptor) (Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.aliveTextures++
	return &nullTexture{device: d, id: d.allocID(), format: desc.Format}, nil
}

func (d *NullDevice) CreateSampler(desc *SamplerDescriptor) (Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &nullSampler{id: d.allocID()}, nil
}

func (d *NullDevice) CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &nullBindGroupLayout{id: d.allocID()}, nil
}

func (d *NullDevice) CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.aliveBindGroups++
	return &nullBindGroup{device: d, id: d.allocID()}, nil
}

func (d *NullDevice) CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if uint32(len(desc.BindGroupLayouts)) > d.limits.MaxBindGroups {
		return nil, fmt.Errorf("pipeline %s uses %d bind group layouts, limit is %d",
			desc.Label, len(desc.BindGroupLayouts), d.limits.MaxBindGroups)
	}
	return &nullPipeline{id: d.allocID(), label: desc.Label}, nil
}

func (d *NullDevice) CreateCommandEncoder(label string) (CommandEncoder, error) {
	return &nullCommandEncoder{device: d, label: label}, nil
}

func (d *NullDevice) Queue() Queue {
	return d.queue
}

func (d *NullDevice) Limits() Limits {
	return d.limits
}

func (d *NullDevice) Info() DeviceInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DeviceInfo{
		Backend:       "null",
		SurfaceFormat: d.surfaceFormat,
	}
}

func (d *NullDevice) Destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, sub := range d.pending {
		if sub.fence != nil {
			sub.fence.Signal()
		}
	}
	d.pending = nil
}

// ── test control ──

// FailNextAcquire makes the next AcquireSurfaceTexture call fail with err.
//
// Parameters:
//   - err: the error the next acquire returns
func (d *NullDevice) FailNextAcquire(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.acquireErr = err
}

// FailNextFinish makes the next CommandEncoder.Finish call fail with err.
//
// Parameters:
//   - err: the error the next finish returns
func (d *NullDevice) FailNextFinish(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.finishErr = err
}

// FailNextTextureWrite makes the next Queue.WriteTexture call fail with err.
//
// Parameters:
//   - err: the error the next texture write returns
func (d *NullDevice) FailNextTextureWrite(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.textureWriteErr = err
}

// PendingSubmissions returns the number of submissions whose fences have not
// been completed yet.
//
// Returns:
//   - int: the pending submission count
func (d *NullDevice) PendingSubmissions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// CompleteOldestSubmission signals the fence of the oldest pending
// submission, releasing whoever is waiting on it.
//
// Returns:
//   - bool: true when a pending submission existed
func (d *NullDevice) CompleteOldestSubmission() bool {
	d.mu.Lock()
	if len(d.pending) == 0 {
		d.mu.Unlock()
		return false
	}
	sub := d.pending[0]
	d.pending = d.pending[1:]
	d.mu.Unlock()

	if sub.fence != nil {
		sub.fence.Signal()
	}
	return true
}

// CompleteAllSubmissions signals every pending submission fence in order.
func (d *NullDevice) CompleteAllSubmissions() {
	for d.CompleteOldestSubmission() {
	}
}

// CommandLog returns a copy of the flattened log of submitted commands.
//
// Returns:
//   - []CommandRecord: transitions, pass boundaries and draws in submit order
func (d *NullDevice) CommandLog() []CommandRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]CommandRecord, len(d.commands))
	copy(out, d.commands)
	return out
}

// DrawLog returns only the draw entries of the command log, in submit order.
//
// Returns:
//   - []DrawRecord: every submitted draw
func (d *NullDevice) DrawLog() []DrawRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []DrawRecord
	for _, c := range d.commands {
		if c.Kind == CommandKindDraw && c.Draw != nil {
			out = append(out, *c.Draw)
		}
	}
	return out
}

// BufferWrites returns a copy of the logged buffer uploads.
//
// Returns:
//   - []BufferWrite: every WriteBuffer call in order
func (d *NullDevice) BufferWrites() []BufferWrite {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]BufferWrite, len(d.bufferWrites))
	copy(out, d.bufferWrites)
	return out
}

// TextureWrites returns a copy of the logged texture uploads.
//
// Returns:
//   - []TextureWrite: every WriteTexture call in order
func (d *NullDevice) TextureWrites() []TextureWrite {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]TextureWrite, len(d.textureWrites))
	copy(out, d.textureWrites)
	return out
}

// Presents returns how many frames have been presented.
//
// Returns:
//   - int: the number of Present calls that had an acquired surface
func (d *NullDevice) Presents() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presents
}

// AliveBuffers returns the number of created and not yet released buffers.
//
// Returns:
//   - int: the live buffer count
func (d *NullDevice) AliveBuffers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.aliveBuffers
}

// AliveTextures returns the number of created and not yet released textures.
//
// Returns:
//   - int: the live texture count
func (d *NullDevice) AliveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.aliveTextures
}

// AliveBindGroups returns the number of created and not yet released bind groups.
//
// Returns:
//   - int: the live bind group count
func (d *NullDevice) AliveBindGroups() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.aliveBindGroups
}

// ResetLog clears the command and upload logs. Pending submissions and live
// resource counts are kept.
func (d *NullDevice) ResetLog() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = nil
	d.bufferWrites = nil
	d.textureWrites = nil
}

// ResourceID returns the identity the null device assigned to a resource, or
// 0 for resources belonging to another backend. Tests use it to correlate
// draw records with the buffers and bind groups they expect.
//
// Parameters:
//   - resource: a Buffer, Texture, TextureView, Sampler, BindGroup or pipeline
//
// Returns:
//   - uint64: the null device's identity for the resource, or 0
func ResourceID(resource any) uint64 {
	switch r := resource.(type) {
	case *nullBuffer:
		return r.id
	case *nullTexture:
		return r.id
	case *nullTextureView:
		return r.id
	case *nullSampler:
		return r.id
	case *nullBindGroupLayout:
		return r.id
	case *nullBindGroup:
		return r.id
	case *nullPipeline:
		return r.id
	default:
		return 0
	}
}

// ── queue ──

type nullQueue struct {
	device *NullDevice
}

var _ Queue = &nullQueue{}

func (q *nullQueue) WriteBuffer(buf Buffer, offset uint64, data []byte) error {
	d := q.device
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bufferWrites = append(d.bufferWrites, BufferWrite{
		BufferID: buf.(*nullBuffer).id,
		Offset:   offset,
		Bytes:    len(data),
	})
	return nil
}

func (q *nullQueue) WriteTexture(dst TextureCopy, data []byte, layout TextureDataLayout, width, height uint32) error {
	d := q.device
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.textureWriteErr != nil {
		err := d.textureWriteErr
		d.textureWriteErr = nil
		return err
	}
	d.textureWrites = append(d.textureWrites, TextureWrite{
		TextureID:   dst.Texture.(*nullTexture).id,
		MipLevel:    dst.MipLevel,
		Bytes:       len(data),
		BytesPerRow: layout.BytesPerRow,
		Width:       width,
		Height:      height,
	})
	return nil
}

func (q *nullQueue) Submit(fence *Fence, buffers ...CommandBuffer) error {
	d := q.device
	d.mu.Lock()
	for _, b := range buffers {
		cb := b.(*nullCommandBuffer)
		d.commands = append(d.commands, cb.records...)
	}
	auto := d.autoComplete
	if fence != nil && !auto {
		d.pending = append(d.pending, &nullSubmission{fence: fence})
	}
	d.mu.Unlock()

	if fence != nil && auto {
		fence.Signal()
	}
	return nil
}

// ── command recording ──

type nullCommandEncoder struct {
	device  *NullDevice
	label   string
	records []CommandRecord
}

var _ CommandEncoder = &nullCommandEncoder{}

func (e *nullCommandEncoder) Transition(transitions ...Transition) {
	if len(transitions) == 0 {
		return
	}
	recs := make([]TransitionRecord, 0, len(transitions))
	for _, t := range transitions {
		var id uint64
		if nt, ok := t.Texture.(*nullTexture); ok {
			id = nt.id
		}
		recs = append(recs, TransitionRecord{TextureID: id, From: t.From, To: t.To})
	}
	e.records = append(e.records, CommandRecord{Kind: CommandKindTransition, Transitions: recs})
}

func (e *nullCommandEncoder) BeginRenderPass(desc *RenderPassDescriptor) RenderPass {
	e.records = append(e.records, CommandRecord{Kind: CommandKindBeginPass, Pass: desc.Label})
	return &nullRenderPass{encoder: e, label: desc.Label}
}

func (e *nullCommandEncoder) Finish() (CommandBuffer, error) {
	d := e.device
	d.mu.Lock()
	if d.finishErr != nil {
		err := d.finishErr
		d.finishErr = nil
		d.mu.Unlock()
		return nil, err
	}
	d.mu.Unlock()
	return &nullCommandBuffer{records: e.records}, nil
}

type nullRenderPass struct {
	encoder *nullCommandEncoder
	label   string

	pipeline       string
	bindGroups     [4]uint64
	dynamicOffsets [4][]uint32
	vertexBuffer   uint64
	indexBuffer    uint64
}

var _ RenderPass = &nullRenderPass{}

func (p *nullRenderPass) SetPipeline(pipeline RenderPipeline) {
	if np, ok := pipeline.(*nullPipeline); ok {
		p.pipeline = np.label
	}
}

func (p *nullRenderPass) SetBindGroup(index uint32, group BindGroup, dynamicOffsets ...uint32) {
	if int(index) >= len(p.bindGroups) {
		return
	}
	if ng, ok := group.(*nullBindGroup); ok {
		p.bindGroups[index] = ng.id
	}
	offsets := make([]uint32, len(dynamicOffsets))
	copy(offsets, dynamicOffsets)
	p.dynamicOffsets[index] = offsets
}

func (p *nullRenderPass) SetVertexBuffer(slot uint32, buf Buffer) {
	if slot != 0 {
		return
	}
	if nb, ok := buf.(*nullBuffer); ok {
		p.vertexBuffer = nb.id
	}
}

func (p *nullRenderPass) SetIndexBuffer(buf Buffer, format IndexFormat) {
	if nb, ok := buf.(*nullBuffer); ok {
		p.indexBuffer = nb.id
	}
}

func (p *nullRenderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32) {
	p.record(DrawRecord{
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
		FirstIndex:    firstIndex,
	})
}

func (p *nullRenderPass) Draw(vertexCount, instanceCount uint32) {
	p.record(DrawRecord{
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
	})
}

func (p *nullRenderPass) record(draw DrawRecord) {
	draw.Pass = p.label
	draw.Pipeline = p.pipeline
	draw.BindGroups = p.bindGroups
	draw.VertexBuffer = p.vertexBuffer
	draw.IndexBuffer = p.indexBuffer
	for i, offs := range p.dynamicOffsets {
		if offs == nil {
			continue
		}
		cp := make([]uint32, len(offs))
		copy(cp, offs)
		draw.DynamicOffsets[i] = cp
	}
	p.encoder.records = append(p.encoder.records, CommandRecord{
		Kind: CommandKindDraw,
		Pass: p.label,
		Draw: &draw,
	})
}

func (p *nullRenderPass) End() {
	p.encoder.records = append(p.encoder.records, CommandRecord{Kind: CommandKindEndPass, Pass: p.label})
}

// ── resources ──

type nullBuffer struct {
	device *NullDevice
	id     uint64
	size   uint64
}

func (b *nullBuffer) Size() uint64 {
	return b.size
}

func (b *nullBuffer) Release() {
	b.device.mu.Lock()
	defer b.device.mu.Unlock()
	b.device.aliveBuffers--
}

type nullTexture struct {
	device *NullDevice
	id     uint64
	format TextureFormat
}

func (t *nullTexture) CreateView() (TextureView, error) {
	t.device.mu.Lock()
	defer t.device.mu.Unlock()
	return &nullTextureView{id: t.device.allocID(), textureID: t.id}, nil
}

func (t *nullTexture) Format() TextureFormat {
	return t.format
}

func (t *nullTexture) Release() {
	t.device.mu.Lock()
	defer t.device.mu.Unlock()
	t.device.aliveTextures--
}

type nullTextureView struct {
	id        uint64
	textureID uint64
}

func (v *nullTextureView) Release() {}

type nullSampler struct {
	id uint64
}

func (s *nullSampler) Release() {}

type nullBindGroupLayout struct {
	id uint64
}

func (l *nullBindGroupLayout) Release() {}

type nullBindGroup struct {
	device *NullDevice
	id     uint64
}

func (g *nullBindGroup) Release() {
	g.device.mu.Lock()
	defer g.device.mu.Unlock()
	g.device.aliveBindGroups--
}

type nullPipeline struct {
	id    uint64
	label string
}

func (p *nullPipeline) Release() {}

type nullCommandBuffer struct {
	records []CommandRecord
}

func (c *nullCommandBuffer) Release() {}
