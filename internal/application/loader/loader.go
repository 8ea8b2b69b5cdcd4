// Package loader swaps scene groups in and out of a host engine.
//
// A Loader is configured with scene collections. Selecting a collection
// builds a lookup table from each group's active scene to the group. A
// transition unloads every loaded scene that is not permanent, loads the
// permanent scenes that are missing and then the group's scenes in order,
// marking the group's active scene active as soon as it is loaded.
package loader

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/younwookim/scenes/internal/application/state"
	"github.com/younwookim/scenes/internal/domain/scene"
)

// Loader orchestrates scene group transitions on an Engine.
// At most one transition runs at a time.
type Loader struct {
	engine Engine
	logger *zap.Logger

	mu          sync.Mutex
	collections []*scene.Collection
	state       state.LoaderState
	collection  *scene.Collection
	groups      map[scene.Ref]scene.Group
	permanent   []scene.Ref
	activeGroup scene.Ref
}

// New creates an uninitialized loader.
// The first collection is the one selected by Initialize.
func New(engine Engine, collections []*scene.Collection, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		engine:      engine,
		collections: collections,
		logger:      logger.Named("loader"),
		groups:      make(map[scene.Ref]scene.Group),
	}
}

// Initialize selects the first configured collection.
// It runs once; later calls log an error and return ErrAlreadyInitialized.
func (l *Loader) Initialize() error {
	l.mu.Lock()
	if l.state.Initialized() {
		l.mu.Unlock()
		l.logger.Error("scene loader initialized twice, select collections with SetSceneCollection instead")
		return ErrAlreadyInitialized
	}
	if len(l.collections) == 0 {
		l.mu.Unlock()
		l.logger.Error("no scene collections added to the loader")
		return ErrNoCollections
	}
	l.state = state.StateIdle
	first := l.collections[0]
	l.mu.Unlock()

	return l.SetSceneCollection(first)
}

// SetSceneCollectionIndex selects the configured collection at index i
func (l *Loader) SetSceneCollectionIndex(i int) error {
	l.mu.Lock()
	if !l.state.Initialized() {
		l.mu.Unlock()
		return ErrNotInitialized
	}
	if i < 0 || i >= len(l.collections) {
		n := len(l.collections)
		l.mu.Unlock()
		return fmt.Errorf("collection %d of %d: %w", i, n, scene.ErrIndexOutOfRange)
	}
	c := l.collections[i]
	l.mu.Unlock()

	return l.SetSceneCollection(c)
}

// SetCollections replaces the configured collections, for example after
// the assets were reloaded. The selected collection and its lookup table
// are kept until the next SetSceneCollection.
func (l *Loader) SetCollections(collections []*scene.Collection) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.collections = collections
}

// SetSceneCollection rebuilds the group lookup table and the permanent
// scene list from c. Nothing changes when c holds an unassigned group.
func (l *Loader) SetSceneCollection(c *scene.Collection) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.Initialized() {
		return ErrNotInitialized
	}
	if c == nil {
		return ErrNoCollections
	}

	groups, err := buildGroups(c)
	if err != nil {
		return err
	}

	l.collection = c
	l.groups = groups
	l.permanent = slices.Clone(c.PermanentScenes)

	l.logger.Info("scene collection selected",
		zap.String("collection", c.Name),
		zap.Int("groups", len(groups)),
		zap.Int("permanent", len(l.permanent)),
	)
	return nil
}

// buildGroups indexes the groups of c by active scene.
// Colliding keys overwrite earlier entries.
func buildGroups(c *scene.Collection) (map[scene.Ref]scene.Group, error) {
	groups := make(map[scene.Ref]scene.Group, len(c.Groups))
	for _, g := range c.Groups {
		if !g.IsAssigned() {
			return nil, fmt.Errorf("collection %q: %w", c.Name, ErrEmptyGroup)
		}
		groups[g.ActiveSceneKey()] = g.Clone()
	}
	return groups, nil
}

// Load runs the transition to the group whose active scene is ref and
// returns once it has completed or failed.
func (l *Loader) Load(ctx context.Context, ref scene.Ref) error {
	group, permanent, err := l.begin(ref)
	if err != nil {
		return err
	}

	err = l.run(ctx, group, permanent)
	l.end(ref, err)
	return err
}

// Start checks the request like Load, then runs the transition in the
// background. The returned handle may be waited on or ignored.
func (l *Loader) Start(ctx context.Context, ref scene.Ref) (*Transition, error) {
	group, permanent, err := l.begin(ref)
	if err != nil {
		return nil, err
	}

	t := newTransition(ref)
	go func() {
		err := l.run(ctx, group, permanent)
		l.end(ref, err)
		t.finish(err)
	}()
	return t, nil
}

// begin validates a transition request and marks the loader busy.
// It returns snapshots so the transition is unaffected by a concurrent
// collection change.
func (l *Loader) begin(ref scene.Ref) (scene.Group, []scene.Ref, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.Initialized() {
		return scene.Group{}, nil, ErrNotInitialized
	}
	group, ok := l.groups[ref]
	if !ok {
		return scene.Group{}, nil, fmt.Errorf("%w %q", ErrMissingGroup, ref)
	}
	if l.state == state.StateTransitioning {
		return scene.Group{}, nil, ErrTransitionInProgress
	}

	l.state = state.StateTransitioning
	return group.Clone(), slices.Clone(l.permanent), nil
}

func (l *Loader) end(ref scene.Ref, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = state.StateIdle
	if err == nil {
		l.activeGroup = ref
	}
}

// run performs the engine calls of one transition, each awaited before
// the next is issued. Engine errors are returned unchanged.
func (l *Loader) run(ctx context.Context, group scene.Group, permanent []scene.Ref) error {
	start := time.Now()
	log := l.logger.With(zap.Stringer("group", group.ActiveScene))
	log.Info("scene transition started")

	for _, s := range l.engine.Loaded() {
		if scene.ContainsRef(permanent, s) {
			continue
		}
		log.Debug("unloading scene", zap.Stringer("scene", s))
		if err := l.engine.Unload(ctx, s); err != nil {
			log.Error("unload failed", zap.Stringer("scene", s), zap.Error(err))
			return err
		}
	}

	for _, s := range permanent {
		if s.IsEmpty() || IsSceneLoaded(l.engine, s) {
			continue
		}
		log.Debug("loading permanent scene", zap.Stringer("scene", s))
		if err := l.engine.LoadAdditive(ctx, s); err != nil {
			log.Error("load failed", zap.Stringer("scene", s), zap.Error(err))
			return err
		}
	}

	for _, s := range group.Scenes {
		if s.IsEmpty() {
			continue
		}
		if !IsSceneLoaded(l.engine, s) {
			log.Debug("loading scene", zap.Stringer("scene", s))
			if err := l.engine.LoadAdditive(ctx, s); err != nil {
				log.Error("load failed", zap.Stringer("scene", s), zap.Error(err))
				return err
			}
		}
		if s == group.ActiveScene {
			if err := l.engine.SetActive(s); err != nil {
				log.Error("set active scene failed", zap.Stringer("scene", s), zap.Error(err))
				return err
			}
		}
	}

	log.Info("scene transition finished", zap.Duration("took", time.Since(start)))
	return nil
}

// IsScenePermanent reports whether ref is a permanent scene of the
// selected collection. It is false before Initialize.
func (l *Loader) IsScenePermanent(ref scene.Ref) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return scene.ContainsRef(l.permanent, ref)
}

// State returns the loader's lifecycle state
func (l *Loader) State() state.LoaderState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Collection returns the selected collection, nil before the first selection
func (l *Loader) Collection() *scene.Collection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.collection
}

// Collections returns the configured collections
func (l *Loader) Collections() []*scene.Collection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.collections
}

// ActiveGroup returns the active scene of the last completed transition.
// It reports false before Initialize.
func (l *Loader) ActiveGroup() (scene.Ref, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeGroup, !l.activeGroup.IsEmpty()
}

// Groups returns the keys of the lookup table in sorted order.
// It is empty before Initialize.
func (l *Loader) Groups() []scene.Ref {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := make([]scene.Ref, 0, len(l.groups))
	for k := range l.groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
