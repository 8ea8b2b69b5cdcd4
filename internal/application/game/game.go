// Package game provides the ebiten host that keeps scenes loaded
// additively and serves as the scene loader's engine.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/younwookim/scenes/internal/application/loader"
	"github.com/younwookim/scenes/internal/application/screen"
	"github.com/younwookim/scenes/internal/domain/scene"
)

var (
	// ErrAlreadyLoaded is returned when loading a scene twice
	ErrAlreadyLoaded = errors.New("scene already loaded")

	// ErrNotLoaded is returned when unloading or activating a scene that is not loaded
	ErrNotLoaded = errors.New("scene not loaded")

	// ErrNoLoader is returned when a transition is requested before SetLoader
	ErrNoLoader = errors.New("no scene loader attached")
)

// Transitioner starts group transitions in the background
type Transitioner interface {
	Start(ctx context.Context, ref scene.Ref) (*loader.Transition, error)
}

type loadedScene struct {
	name   scene.Ref
	screen screen.Screen
}

// Game implements ebiten.Game and loader.Engine.
//
// Loaded screens are drawn in load order. Only the active scene's screen
// is updated. Screens are created, entered and exited on the goroutine that
// runs the transition, never while a frame is being updated or drawn.
type Game struct {
	registry *screen.Registry
	logger   *zap.Logger
	screenW  int
	screenH  int
	dt       float64

	// frame is held across screen callbacks; lock it before mu
	frame sync.Mutex

	mu     sync.Mutex
	loaded []loadedScene
	active scene.Ref

	loader  Transitioner
	pending *loader.Transition
}

// New creates a new Game with no scene loaded
func New(registry *screen.Registry, screenW, screenH int, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{
		registry: registry,
		logger:   logger.Named("game"),
		screenW:  screenW,
		screenH:  screenH,
		dt:       1.0 / 60.0, // Default to 60 FPS
	}
}

// SetLoader attaches the loader used for transitions requested by screens
func (g *Game) SetLoader(t Transitioner) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loader = t
}

// LoadAdditive creates the scene's screen and adds it on top of the
// loaded screens. Implements loader.Engine.
func (g *Game) LoadAdditive(ctx context.Context, name scene.Ref) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g.isLoaded(name) {
		return fmt.Errorf("%w: %s", ErrAlreadyLoaded, name)
	}

	s, err := g.registry.Create(name)
	if err != nil {
		return err
	}

	g.frame.Lock()
	defer g.frame.Unlock()
	s.OnEnter()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.loaded = append(g.loaded, loadedScene{name: name, screen: s})
	return nil
}

// Unload removes the scene's screen. Implements loader.Engine.
func (g *Game) Unload(ctx context.Context, name scene.Ref) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.frame.Lock()
	defer g.frame.Unlock()

	g.mu.Lock()
	idx := g.indexOf(name)
	if idx < 0 {
		g.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	s := g.loaded[idx].screen
	g.loaded = append(g.loaded[:idx], g.loaded[idx+1:]...)
	if g.active == name {
		g.active = ""
	}
	g.mu.Unlock()

	s.OnExit()
	return nil
}

// SetActive marks a loaded scene as the one receiving updates.
// Implements loader.Engine.
func (g *Game) SetActive(name scene.Ref) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.indexOf(name) < 0 {
		return fmt.Errorf("%w: %s", ErrNotLoaded, name)
	}
	g.active = name
	return nil
}

// Loaded returns the loaded scenes in load order. Implements loader.Engine.
func (g *Game) Loaded() []scene.Ref {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]scene.Ref, len(g.loaded))
	for i, l := range g.loaded {
		names[i] = l.name
	}
	return names
}

// Active returns the active scene, "" when none is active
func (g *Game) Active() scene.Ref {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Request starts a transition to the group whose active scene is next
// without waiting for it
func (g *Game) Request(next scene.Ref) error {
	g.mu.Lock()
	t := g.loader
	g.mu.Unlock()
	if t == nil {
		return ErrNoLoader
	}

	tr, err := t.Start(context.Background(), next)
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.pending = tr
	g.mu.Unlock()
	return nil
}

// Pending returns the transition started by the last successful Request
// while it has not been observed as finished by Update
func (g *Game) Pending() *loader.Transition {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Update updates the active screen and starts the transitions it requests.
// Implements ebiten.Game interface.
func (g *Game) Update() error {
	g.pollPending()

	g.frame.Lock()
	s := g.activeScreen()
	if s == nil {
		g.frame.Unlock()
		return nil
	}
	next, err := s.Update(g.dt)
	g.frame.Unlock()
	if err != nil {
		return err
	}

	if !next.IsEmpty() {
		if err := g.Request(next); err != nil {
			g.logger.Warn("transition request rejected", zap.Stringer("scene", next), zap.Error(err))
		}
	}

	return nil
}

func (g *Game) pollPending() {
	g.mu.Lock()
	tr := g.pending
	g.mu.Unlock()
	if tr == nil {
		return
	}

	select {
	case <-tr.Done():
	default:
		return
	}

	if err := tr.Err(); err != nil {
		g.logger.Error("scene transition failed", zap.Stringer("scene", tr.Target()), zap.Error(err))
	}

	g.mu.Lock()
	if g.pending == tr {
		g.pending = nil
	}
	g.mu.Unlock()
}

// Draw renders every loaded screen in load order.
// Implements ebiten.Game interface.
func (g *Game) Draw(dst *ebiten.Image) {
	g.frame.Lock()
	defer g.frame.Unlock()

	g.mu.Lock()
	screens := make([]screen.Screen, len(g.loaded))
	for i, l := range g.loaded {
		screens[i] = l.screen
	}
	g.mu.Unlock()

	for _, s := range screens {
		s.Draw(dst)
	}
}

// Layout returns the game's logical screen dimensions.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

// SetDT sets the delta time used for updates.
// Useful for testing or custom frame rates.
func (g *Game) SetDT(dt float64) {
	g.dt = dt
}

func (g *Game) activeScreen() screen.Screen {
	g.mu.Lock()
	defer g.mu.Unlock()

	if idx := g.indexOf(g.active); idx >= 0 {
		return g.loaded[idx].screen
	}
	return nil
}

func (g *Game) isLoaded(name scene.Ref) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.indexOf(name) >= 0
}

// indexOf must be called with mu held
func (g *Game) indexOf(name scene.Ref) int {
	if name.IsEmpty() {
		return -1
	}
	for i, l := range g.loaded {
		if l.name == name {
			return i
		}
	}
	return -1
}
