package loader

import (
	"context"

	"github.com/younwookim/scenes/internal/domain/scene"
)

// Engine is the host's scene subsystem as seen by the loader.
//
// LoadAdditive and Unload block until the operation has completed or
// failed. The loader never issues two calls at the same time.
type Engine interface {
	// LoadAdditive loads a scene next to the scenes already loaded.
	LoadAdditive(ctx context.Context, name scene.Ref) error

	// Unload removes a loaded scene.
	Unload(ctx context.Context, name scene.Ref) error

	// SetActive marks an already loaded scene as the host's active scene.
	SetActive(name scene.Ref) error

	// Loaded returns the names of the currently loaded scenes.
	Loaded() []scene.Ref
}

// IsSceneLoaded reports whether the engine currently has the scene loaded
func IsSceneLoaded(e Engine, name scene.Ref) bool {
	return scene.ContainsRef(e.Loaded(), name)
}
