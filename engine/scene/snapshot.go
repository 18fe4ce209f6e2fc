package scene

import (
	"encoding/binary"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/camera"
	"github.com/Carmen-Shannon/lumen-go/engine/light"
	"github.com/Carmen-Shannon/lumen-go/engine/material"
)

// snapshotChunk is the number of entities one local-matrix task covers.
// Local matrices are independent per entity, so chunks parallelize cleanly.
const snapshotChunk = 64

func (s *sceneImpl) SnapshotInto(dst *Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dst.Items = dst.Items[:0]
	dst.LightBuffer = dst.LightBuffer[:0]
	dst.LightCount = 0
	dst.Environment = 0

	// Node table in id order. Scratch is reused across snapshots.
	if cap(s.nodes) < len(s.order) {
		s.nodes = make([]entityNode, len(s.order))
	}
	s.nodes = s.nodes[:len(s.order)]
	clear(s.nodeIndex)
	for i, id := range s.order {
		s.nodes[i] = entityNode{id: id}
		s.nodeIndex[id] = i
	}

	// Phase 1: camera uniform and local matrices in parallel. Workers only
	// touch disjoint node slots and read component maps, all under the same
	// read lock, so no extra synchronization is needed.
	var wg sync.WaitGroup
	taskID := 0

	cam := s.resolveCamera()
	if cam == nil {
		dst.Camera = camera.GPUCameraUniform{}
		common.Identity(dst.Camera.ViewProj[:])
		common.Identity(dst.Camera.InvViewProj[:])
	} else {
		wg.Add(1)
		camCap := cam // capture for closure
		id := taskID
		taskID++
		s.computePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				camCap.Update()
				dst.Camera = camera.ToGPUCameraUniform(camCap)
				return nil, nil
			},
		})
	}

	for start := 0; start < len(s.nodes); start += snapshotChunk {
		end := min(start+snapshotChunk, len(s.nodes))
		wg.Add(1)
		startCap, endCap := start, end // capture for closure
		id := taskID
		taskID++
		s.computePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := startCap; i < endCap; i++ {
					n := &s.nodes[i]
					t := s.transforms[n.id]
					common.BuildModelMatrix(n.local[:],
						t.Position[0], t.Position[1], t.Position[2],
						t.Rotation[0], t.Rotation[1], t.Rotation[2],
						t.Scale[0], t.Scale[1], t.Scale[2])
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Phase 2: serial hierarchy walk. Roots in ascending id order, children
	// in ascending id order, so the item stream is deterministic.
	var walk func(idx, parentIdx int)
	walk = func(idx, parentIdx int) {
		n := &s.nodes[idx]
		if parentIdx < 0 {
			n.world = n.local
		} else {
			common.Mul4(n.world[:], s.nodes[parentIdx].world[:], n.local[:])
		}
		s.emitItems(dst, n)
		for _, child := range s.children[n.id] {
			walk(s.nodeIndex[child], idx)
		}
	}
	for i := range s.nodes {
		if _, hasParent := s.parents[s.nodes[i].id]; !hasParent {
			walk(i, -1)
		}
	}

	// Lights take their world position from the composed transform. Ambient
	// contributions sum in id order so float accumulation order is stable.
	s.lightOrder = s.lightOrder[:0]
	var ambient [3]float32
	for _, id := range s.order {
		if a, ok := s.ambients[id]; ok {
			ambient[0] += a[0]
			ambient[1] += a[1]
			ambient[2] += a[2]
		}
		l, ok := s.lights[id]
		if !ok {
			continue
		}
		w := &s.nodes[s.nodeIndex[id]].world
		l.SetPosition(w[12], w[13], w[14])
		s.lightOrder = append(s.lightOrder, l)
	}
	dst.LightBuffer = append(dst.LightBuffer, light.MarshalLightBuffer(s.lightOrder, ambient)...)
	dst.LightCount = int(binary.LittleEndian.Uint32(dst.LightBuffer[12:16]))

	for _, id := range s.order {
		if tex, ok := s.environments[id]; ok {
			dst.Environment = tex
			break
		}
	}
}

func (s *sceneImpl) Snapshot() *Snapshot {
	dst := &Snapshot{}
	s.SnapshotInto(dst)
	return dst
}

// emitItems appends one draw item per mesh primitive for the given node.
// Caller must hold at least a read lock and have filled n.world.
func (s *sceneImpl) emitItems(dst *Snapshot, n *entityNode) {
	ref, ok := s.meshes[n.id]
	if !ok {
		return
	}
	mats := s.materials[n.id]
	center := common.TransformPoint(n.world[:], ref.Bounds[0], ref.Bounds[1], ref.Bounds[2])
	radius := ref.Bounds[3] * common.MaxScale(n.world[:])
	for prim := range ref.Primitives {
		var mat material.Material
		if len(mats) > 0 {
			mi := prim
			if mi >= len(mats) {
				mi = len(mats) - 1
			}
			mat = mats[mi]
		}
		dst.Items = append(dst.Items, DrawItem{
			Mesh:      ref.Handle,
			Primitive: prim,
			Material:  mat,
			World:     n.world,
			Bounds:    [4]float32{center[0], center[1], center[2], radius},
		})
	}
}
