// Package scene holds the entity-component store the renderer draws from and
// the snapshot builder that flattens it once per frame.
//
// Entities are plain ids. Components (transform, parent link, mesh, materials,
// light, ambient term, camera, environment map) attach to ids and are queried
// by capability rather than by type hierarchy. SnapshotInto walks the parent
// hierarchy depth-first with children in ascending id order, composes world
// transforms, and emits one draw item per mesh primitive with no culling, so
// identical scene state always produces an identical snapshot.
package scene

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/lumen-go/common"
	"github.com/Carmen-Shannon/lumen-go/engine/camera"
	"github.com/Carmen-Shannon/lumen-go/engine/light"
	"github.com/Carmen-Shannon/lumen-go/engine/material"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
	"github.com/Carmen-Shannon/lumen-go/log"
)

// EntityID identifies one entity in the scene. Ids are allocated monotonically
// and never reused within a scene's lifetime. Zero is never a valid id.
type EntityID uint64

// Transform holds an entity's local position, rotation, and scale relative to
// its parent (or to world space for root entities). Rotation is Euler angles
// in radians, applied in Y, X, Z order to match common.BuildModelMatrix.
type Transform struct {
	Position [3]float32
	Rotation [3]float32
	Scale    [3]float32
}

// IdentityTransform returns a Transform with zero position and rotation and
// unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{Scale: [3]float32{1, 1, 1}}
}

// MeshRef attaches a registered mesh to an entity. Bounds is the local-space
// bounding sphere and Primitives the number of draw items the entity emits per
// snapshot (one per mesh primitive, minimum one).
type MeshRef struct {
	Handle     registry.MeshHandle
	Bounds     [4]float32
	Primitives int
}

// MeshRefFor builds a MeshRef from the raw mesh payload that was registered.
// The bounding sphere is computed from the vertex positions and the primitive
// count mirrors the payload's primitive partition.
//
// Parameters:
//   - handle: the handle RegisterMesh returned for data
//   - data: the payload the mesh was registered with
//
// Returns:
//   - MeshRef: the component value to attach via SetMesh
func MeshRefFor(handle registry.MeshHandle, data common.MeshData) MeshRef {
	prims := len(data.Primitives)
	if prims == 0 {
		prims = 1
	}
	return MeshRef{
		Handle:     handle,
		Bounds:     common.BoundingSphere(data.Vertices),
		Primitives: prims,
	}
}

// DrawItem is one recordable draw produced by the snapshot builder. Transient:
// valid only for the frame whose snapshot carries it.
type DrawItem struct {
	// Mesh is the registry handle of the mesh to draw.
	Mesh registry.MeshHandle
	// Primitive is the index of the mesh primitive this item covers.
	Primitive int
	// Material shades the primitive. Nil when the entity carries no material;
	// the graph executor skips such items.
	Material material.Material
	// World is the composed world transform, column-major.
	World [16]float32
	// Bounds is the world-space bounding sphere (center xyz, radius w).
	Bounds [4]float32
}

// Snapshot is the flattened, read-only scene state one frame renders from.
type Snapshot struct {
	// Camera is the GPU-ready camera uniform captured at snapshot time.
	Camera camera.GPUCameraUniform
	// LightBuffer is the marshaled light storage buffer (header + lights).
	LightBuffer []byte
	// LightCount is the number of lights marshaled into LightBuffer.
	LightCount int
	// Environment is the IBL environment map handle, zero when absent.
	Environment registry.TextureHandle
	// Items are the draw items in deterministic hierarchy order.
	Items []DrawItem
}

// Scene defines the interface for the entity-component scene store.
//
// All methods are safe for concurrent use. Mutations take a write lock;
// SnapshotInto takes a read lock for its whole run, so a snapshot observes one
// consistent state.
type Scene interface {
	// CreateEntity allocates a new entity with an identity transform and no
	// other components.
	//
	// Returns:
	//   - EntityID: the new entity's id
	CreateEntity() EntityID

	// DestroyEntity removes an entity and all of its components. Children of
	// the destroyed entity are detached and become root entities.
	//
	// Parameters:
	//   - id: the entity to destroy
	//
	// Returns:
	//   - bool: true if the entity existed
	DestroyEntity(id EntityID) bool

	// EntityCount returns the number of live entities.
	//
	// Returns:
	//   - int: the live entity count
	EntityCount() int

	// Entities returns the live entity ids in ascending order.
	//
	// Returns:
	//   - []EntityID: a copy of the id list
	Entities() []EntityID

	// SetTransform replaces an entity's local transform.
	//
	// Parameters:
	//   - id: the entity to modify
	//   - t: the new local transform
	//
	// Returns:
	//   - error: ErrEntityNotFound if the entity does not exist
	SetTransform(id EntityID, t Transform) error

	// Transform returns an entity's local transform.
	//
	// Parameters:
	//   - id: the entity to query
	//
	// Returns:
	//   - Transform: the local transform
	//   - bool: false if the entity does not exist
	Transform(id EntityID) (Transform, bool)

	// SetParent links child under parent in the transform hierarchy. The
	// child's world transform becomes parent world x child local. Replaces any
	// existing parent link.
	//
	// Parameters:
	//   - child: the entity to re-parent
	//   - parent: the new parent entity
	//
	// Returns:
	//   - error: ErrEntityNotFound if either entity does not exist,
	//     ErrHierarchyCycle if the link would create a cycle
	SetParent(child, parent EntityID) error

	// ClearParent detaches an entity from its parent, making it a root.
	//
	// Parameters:
	//   - child: the entity to detach
	//
	// Returns:
	//   - error: ErrEntityNotFound if the entity does not exist
	ClearParent(child EntityID) error

	// Parent returns an entity's parent.
	//
	// Parameters:
	//   - id: the entity to query
	//
	// Returns:
	//   - EntityID: the parent id
	//   - bool: false if the entity has no parent
	Parent(id EntityID) (EntityID, bool)

	// SetMesh attaches a mesh component to an entity.
	//
	// Parameters:
	//   - id: the entity to modify
	//   - ref: the mesh reference (see MeshRefFor)
	//
	// Returns:
	//   - error: ErrEntityNotFound if the entity does not exist
	SetMesh(id EntityID, ref MeshRef) error

	// Mesh returns an entity's mesh component.
	//
	// Parameters:
	//   - id: the entity to query
	//
	// Returns:
	//   - MeshRef: the mesh reference
	//   - bool: false if the entity has no mesh
	Mesh(id EntityID) (MeshRef, bool)

	// HasMesh reports whether an entity carries a mesh component.
	//
	// Parameters:
	//   - id: the entity to query
	//
	// Returns:
	//   - bool: true if a mesh is attached
	HasMesh(id EntityID) bool

	// SetMaterials attaches materials to an entity, matched to mesh primitives
	// by index. When an entity has more primitives than materials, the last
	// material repeats. Passing no materials removes the component.
	//
	// Parameters:
	//   - id: the entity to modify
	//   - mats: the materials in primitive order
	//
	// Returns:
	//   - error: ErrEntityNotFound if the entity does not exist
	SetMaterials(id EntityID, mats ...material.Material) error

	// Materials returns an entity's attached materials.
	//
	// Parameters:
	//   - id: the entity to query
	//
	// Returns:
	//   - []material.Material: a copy of the material list, nil when none
	Materials(id EntityID) []material.Material

	// SetLight attaches a light to an entity. The light's world position is
	// synced from the entity's composed transform at every snapshot. Passing
	// nil removes the component.
	//
	// Parameters:
	//   - id: the entity to modify
	//   - l: the light to attach
	//
	// Returns:
	//   - error: ErrEntityNotFound if the entity does not exist
	SetLight(id EntityID, l light.Light) error

	// Light returns an entity's attached light.
	//
	// Parameters:
	//   - id: the entity to query
	//
	// Returns:
	//   - light.Light: the attached light
	//   - bool: false if the entity has no light
	Light(id EntityID) (light.Light, bool)

	// HasLight reports whether an entity carries a light component.
	//
	// Parameters:
	//   - id: the entity to query
	//
	// Returns:
	//   - bool: true if a light is attached
	HasLight(id EntityID) bool

	// SetAmbientLight attaches an ambient contribution to an entity. The
	// snapshot's ambient color is the sum over all entities in id order.
	//
	// Parameters:
	//   - id: the entity to modify
	//   - r, g, b: the ambient RGB contribution
	//
	// Returns:
	//   - error: ErrEntityNotFound if the entity does not exist
	SetAmbientLight(id EntityID, r, g, b float32) error

	// AmbientLight returns an entity's ambient contribution.
	//
	// Parameters:
	//   - id: the entity to query
	//
	// Returns:
	//   - [3]float32: the ambient RGB
	//   - bool: false if the entity has no ambient component
	AmbientLight(id EntityID) ([3]float32, bool)

	// SetCamera attaches a camera to an entity. Passing nil removes the
	// component.
	//
	// Parameters:
	//   - id: the entity to modify
	//   - cam: the camera to attach
	//
	// Returns:
	//   - error: ErrEntityNotFound if the entity does not exist
	SetCamera(id EntityID, cam camera.Camera) error

	// Camera returns an entity's attached camera.
	//
	// Parameters:
	//   - id: the entity to query
	//
	// Returns:
	//   - camera.Camera: the attached camera
	//   - bool: false if the entity has no camera
	Camera(id EntityID) (camera.Camera, bool)

	// SetActiveCamera marks the camera entity snapshots render from. Without
	// an explicit choice, the camera on the lowest entity id is used.
	//
	// Parameters:
	//   - id: the entity whose camera becomes active
	//
	// Returns:
	//   - error: ErrEntityNotFound if the entity does not exist or carries no
	//     camera
	SetActiveCamera(id EntityID) error

	// ActiveCamera returns the camera snapshots currently render from.
	//
	// Returns:
	//   - camera.Camera: the active camera
	//   - bool: false when no entity carries a camera
	ActiveCamera() (camera.Camera, bool)

	// SetEnvironment attaches an IBL environment map to an entity. The
	// snapshot uses the environment on the lowest entity id.
	//
	// Parameters:
	//   - id: the entity to modify
	//   - tex: the environment texture handle
	//
	// Returns:
	//   - error: ErrEntityNotFound if the entity does not exist
	SetEnvironment(id EntityID, tex registry.TextureHandle) error

	// Environment returns an entity's environment map handle.
	//
	// Parameters:
	//   - id: the entity to query
	//
	// Returns:
	//   - registry.TextureHandle: the environment handle
	//   - bool: false if the entity has no environment component
	Environment(id EntityID) (registry.TextureHandle, bool)

	// SnapshotInto flattens the current scene state into dst, reusing dst's
	// allocations where possible. The result is deterministic: identical scene
	// state yields an identical snapshot.
	//
	// Parameters:
	//   - dst: the snapshot to fill (its slices are reset, not reallocated)
	SnapshotInto(dst *Snapshot)

	// Snapshot allocates and fills a fresh snapshot of the current state.
	//
	// Returns:
	//   - *Snapshot: the flattened scene state
	Snapshot() *Snapshot
}

type sceneImpl struct {
	mu *sync.RWMutex

	nextID EntityID
	order  []EntityID // live ids, ascending
	alive  map[EntityID]struct{}

	transforms   map[EntityID]Transform
	parents      map[EntityID]EntityID
	children     map[EntityID][]EntityID // ascending
	meshes       map[EntityID]MeshRef
	materials    map[EntityID][]material.Material
	lights       map[EntityID]light.Light
	ambients     map[EntityID][3]float32
	cameras      map[EntityID]camera.Camera
	environments map[EntityID]registry.TextureHandle

	activeCamera EntityID // 0 = pick lowest id

	computeWorkers int
	computePool    worker.DynamicWorkerPool
	logger         log.Logger

	// snapshot scratch, reused across frames
	nodes      []entityNode
	nodeIndex  map[EntityID]int
	lightOrder []light.Light
}

// entityNode is per-entity snapshot scratch. Phase 1 workers fill local;
// the serial DFS fills world.
type entityNode struct {
	id    EntityID
	local [16]float32
	world [16]float32
}

var _ Scene = &sceneImpl{}

func (s *sceneImpl) CreateEntity() EntityID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.alive[id] = struct{}{}
	s.order = append(s.order, id) // ids ascend, append keeps order sorted
	s.transforms[id] = IdentityTransform()
	return id
}

func (s *sceneImpl) DestroyEntity(id EntityID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alive[id]; !ok {
		return false
	}

	// Orphan children: they become roots.
	for _, child := range s.children[id] {
		delete(s.parents, child)
	}
	delete(s.children, id)

	if parent, ok := s.parents[id]; ok {
		s.children[parent] = removeSorted(s.children[parent], id)
		delete(s.parents, id)
	}

	delete(s.alive, id)
	s.order = removeSorted(s.order, id)
	delete(s.transforms, id)
	delete(s.meshes, id)
	delete(s.materials, id)
	delete(s.lights, id)
	delete(s.ambients, id)
	delete(s.cameras, id)
	delete(s.environments, id)
	if s.activeCamera == id {
		s.activeCamera = 0
	}
	return true
}

func (s *sceneImpl) EntityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *sceneImpl) Entities() []EntityID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

func (s *sceneImpl) SetTransform(id EntityID, t Transform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alive[id]; !ok {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	s.transforms[id] = t
	return nil
}

func (s *sceneImpl) Transform(id EntityID) (Transform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transforms[id]
	return t, ok
}

func (s *sceneImpl) SetParent(child, parent EntityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alive[child]; !ok {
		return fmt.Errorf("%w: child %d", ErrEntityNotFound, child)
	}
	if _, ok := s.alive[parent]; !ok {
		return fmt.Errorf("%w: parent %d", ErrEntityNotFound, parent)
	}

	// Walking up from the new parent must never reach the child.
	for at, ok := parent, true; ok; at, ok = s.parents[at] {
		if at == child {
			return fmt.Errorf("%w: %d under %d", ErrHierarchyCycle, child, parent)
		}
	}

	if old, ok := s.parents[child]; ok {
		s.children[old] = removeSorted(s.children[old], child)
	}
	s.parents[child] = parent
	s.children[parent] = insertSorted(s.children[parent], child)
	return nil
}

func (s *sceneImpl) ClearParent(child EntityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alive[child]; !ok {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, child)
	}
	if parent, ok := s.parents[child]; ok {
		s.children[parent] = removeSorted(s.children[parent], child)
		delete(s.parents, child)
	}
	return nil
}

func (s *sceneImpl) Parent(id EntityID) (EntityID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.parents[id]
	return p, ok
}

func (s *sceneImpl) SetMesh(id EntityID, ref MeshRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alive[id]; !ok {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	if ref.Primitives < 1 {
		ref.Primitives = 1
	}
	s.meshes[id] = ref
	return nil
}

func (s *sceneImpl) Mesh(id EntityID) (MeshRef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.meshes[id]
	return ref, ok
}

func (s *sceneImpl) HasMesh(id EntityID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.meshes[id]
	return ok
}

func (s *sceneImpl) SetMaterials(id EntityID, mats ...material.Material) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alive[id]; !ok {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	if len(mats) == 0 {
		delete(s.materials, id)
		return nil
	}
	s.materials[id] = slices.Clone(mats)
	return nil
}

func (s *sceneImpl) Materials(id EntityID) []material.Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.materials[id])
}

func (s *sceneImpl) SetLight(id EntityID, l light.Light) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alive[id]; !ok {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	if l == nil {
		delete(s.lights, id)
		return nil
	}
	s.lights[id] = l
	return nil
}

func (s *sceneImpl) Light(id EntityID) (light.Light, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lights[id]
	return l, ok
}

func (s *sceneImpl) HasLight(id EntityID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.lights[id]
	return ok
}

func (s *sceneImpl) SetAmbientLight(id EntityID, r, g, b float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alive[id]; !ok {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	s.ambients[id] = [3]float32{r, g, b}
	return nil
}

func (s *sceneImpl) AmbientLight(id EntityID) ([3]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.ambients[id]
	return a, ok
}

func (s *sceneImpl) SetCamera(id EntityID, cam camera.Camera) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alive[id]; !ok {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	if cam == nil {
		delete(s.cameras, id)
		if s.activeCamera == id {
			s.activeCamera = 0
		}
		return nil
	}
	s.cameras[id] = cam
	return nil
}

func (s *sceneImpl) Camera(id EntityID) (camera.Camera, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cam, ok := s.cameras[id]
	return cam, ok
}

func (s *sceneImpl) SetActiveCamera(id EntityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cameras[id]; !ok {
		return fmt.Errorf("%w: %d has no camera", ErrEntityNotFound, id)
	}
	s.activeCamera = id
	return nil
}

func (s *sceneImpl) ActiveCamera() (camera.Camera, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cam := s.resolveCamera()
	return cam, cam != nil
}

func (s *sceneImpl) SetEnvironment(id EntityID, tex registry.TextureHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alive[id]; !ok {
		return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
	}
	s.environments[id] = tex
	return nil
}

func (s *sceneImpl) Environment(id EntityID) (registry.TextureHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tex, ok := s.environments[id]
	return tex, ok
}

// resolveCamera picks the explicit active camera when set, otherwise the
// camera on the lowest entity id. Caller must hold at least a read lock.
func (s *sceneImpl) resolveCamera() camera.Camera {
	if s.activeCamera != 0 {
		if cam, ok := s.cameras[s.activeCamera]; ok {
			return cam
		}
	}
	for _, id := range s.order {
		if cam, ok := s.cameras[id]; ok {
			return cam
		}
	}
	return nil
}

// insertSorted inserts id into an ascending id slice, keeping it sorted.
func insertSorted(ids []EntityID, id EntityID) []EntityID {
	i, _ := slices.BinarySearch(ids, id)
	return slices.Insert(ids, i, id)
}

// removeSorted removes id from an ascending id slice if present.
func removeSorted(ids []EntityID, id EntityID) []EntityID {
	if i, ok := slices.BinarySearch(ids, id); ok {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}
