package system

import (
	"go.uber.org/zap"

	"github.com/younwookim/scenes/internal/domain/scene"
	"github.com/younwookim/scenes/internal/infrastructure/config"
)

// LoadCollection converts a CollectionConfig into a Collection
func LoadCollection(cfg *config.CollectionConfig) *scene.Collection {
	groups := make([]scene.Group, len(cfg.Groups))
	for i, g := range cfg.Groups {
		// A missing scene list becomes empty so validation inserts the active scene
		groups[i] = scene.Group{
			ActiveScene: scene.Ref(g.ActiveScene),
			Scenes:      scene.Refs(g.Scenes...),
		}
	}

	return &scene.Collection{
		Name:            cfg.Name,
		PermanentScenes: scene.Refs(cfg.PermanentScenes...),
		Groups:          groups,
	}
}

// LoadCollections converts every collection of an asset config, keeping
// manifest order, and validates each one. Validation warnings are logged
// and returned per collection name.
func LoadCollections(cfg *config.AssetConfig, logger *zap.Logger) ([]*scene.Collection, map[string][]scene.Warning) {
	if logger == nil {
		logger = zap.NewNop()
	}

	collections := make([]*scene.Collection, 0, len(cfg.Collections))
	warnings := make(map[string][]scene.Warning)
	for _, cc := range cfg.Collections {
		c := LoadCollection(cc)
		if w := c.Validate(); len(w) > 0 {
			warnings[c.Name] = w
			LogWarnings(logger, c.Name, w)
		}
		collections = append(collections, c)
	}
	return collections, warnings
}

// LogWarnings writes validation warnings at warn level
func LogWarnings(logger *zap.Logger, collection string, warnings []scene.Warning) {
	for _, w := range warnings {
		logger.Warn(w.String(),
			zap.String("collection", collection),
			zap.Stringer("kind", w.Kind),
			zap.Stringer("scene", w.Scene),
		)
	}
}

// LoadAssets reads every asset through l and converts it. Any asset
// error aborts the load; validation warnings do not.
func LoadAssets(l *config.Loader, logger *zap.Logger) ([]*scene.Collection, map[string][]scene.Warning, error) {
	cfg, err := l.LoadAll()
	if err != nil {
		return nil, nil, err
	}
	collections, warnings := LoadCollections(cfg, logger)
	return collections, warnings, nil
}
