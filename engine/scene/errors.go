package scene

import "errors"

var (
	// ErrEntityNotFound is returned when an operation references an entity id
	// that does not exist in the scene.
	ErrEntityNotFound = errors.New("scene: entity not found")

	// ErrHierarchyCycle is returned when SetParent would link an entity under
	// one of its own descendants.
	ErrHierarchyCycle = errors.New("scene: hierarchy cycle")
)
