package scene

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/lumen-go/engine/camera"
	"github.com/Carmen-Shannon/lumen-go/engine/light"
	"github.com/Carmen-Shannon/lumen-go/engine/material"
	"github.com/Carmen-Shannon/lumen-go/engine/registry"
	"github.com/Carmen-Shannon/lumen-go/log"
)

// SceneBuilderOption is a functional option for configuring a Scene. Use the
// With* functions to create options that are applied directly to the scene
// instance.
type SceneBuilderOption func(*sceneImpl)

// NewScene creates an empty scene.
//
// Parameters:
//   - opts: optional configuration
//
// Returns:
//   - Scene: the new scene
func NewScene(opts ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		mu:             &sync.RWMutex{},
		alive:          make(map[EntityID]struct{}),
		transforms:     make(map[EntityID]Transform),
		parents:        make(map[EntityID]EntityID),
		children:       make(map[EntityID][]EntityID),
		meshes:         make(map[EntityID]MeshRef),
		materials:      make(map[EntityID][]material.Material),
		lights:         make(map[EntityID]light.Light),
		ambients:       make(map[EntityID][3]float32),
		cameras:        make(map[EntityID]camera.Camera),
		environments:   make(map[EntityID]registry.TextureHandle),
		nodeIndex:      make(map[EntityID]int),
		computeWorkers: max(runtime.NumCPU()-1, 1),
		logger:         log.New("scene"),
	}

	for _, option := range opts {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	// Queue size of 256 accommodates typical snapshot chunk counts with headroom.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)

	return s
}

// WithComputeWorkers overrides the number of workers the snapshot builder
// uses for parallel transform computation. Values below 1 keep the default
// of NumCPU-1.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(workers int) SceneBuilderOption {
	return func(s *sceneImpl) {
		if workers < 1 {
			return
		}
		s.computeWorkers = workers
	}
}
