// Package screen defines the runtime content of a loaded scene.
//
// The game host creates one Screen per loaded scene from a Registry,
// draws every loaded Screen in load order and forwards Update to the
// Screen of the active scene only.
package screen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/younwookim/scenes/internal/domain/scene"
)

// ErrUnknownScene is returned when no factory is registered for a scene
var ErrUnknownScene = errors.New("unknown scene")

// Screen is the content of one loaded scene
type Screen interface {
	// Update updates the screen state. It is only called on the active scene.
	// dt is the delta time in seconds (typically 1/60).
	// Returns the active scene of the group to switch to, or "" to stay.
	// Returns an error to terminate the game.
	Update(dt float64) (next scene.Ref, err error)

	// Draw renders the screen on top of the screens loaded before it.
	Draw(dst *ebiten.Image)

	// OnEnter is called once the scene has been loaded.
	OnEnter()

	// OnExit is called when the scene is unloaded.
	OnExit()
}

// Factory creates the screen of a scene
type Factory func(name scene.Ref) (Screen, error)

// Registry maps scene names to screen factories
type Registry struct {
	factories map[scene.Ref]Factory
	fallback  Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[scene.Ref]Factory)}
}

// Register sets the factory for a scene, replacing any previous one
func (r *Registry) Register(name scene.Ref, f Factory) {
	r.factories[name] = f
}

// SetFallback sets the factory used for scenes without their own factory
func (r *Registry) SetFallback(f Factory) {
	r.fallback = f
}

// Create builds the screen for a scene
func (r *Registry) Create(name scene.Ref) (Screen, error) {
	f, ok := r.factories[name]
	if !ok {
		f = r.fallback
	}
	if f == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, name)
	}
	return f(name)
}

// Names returns the explicitly registered scenes in sorted order
func (r *Registry) Names() []scene.Ref {
	names := make([]scene.Ref, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
