package system

import (
	"context"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/younwookim/scenes/internal/application/loader"
	"github.com/younwookim/scenes/internal/domain/scene"
	"github.com/younwookim/scenes/internal/infrastructure/config"
)

func TestLoadCollection(t *testing.T) {
	t.Run("loads basic collection", func(t *testing.T) {
		cfg := &config.CollectionConfig{
			Name:            "main",
			PermanentScenes: []string{"HUD"},
			Groups: []config.GroupConfig{
				{ActiveScene: "Level1", Scenes: []string{"Level1", "Lighting1"}},
				{ActiveScene: "Level2", Scenes: []string{"Level2"}},
			},
		}

		c := LoadCollection(cfg)

		require.NotNil(t, c)
		assert.Equal(t, "main", c.Name)
		assert.Equal(t, scene.Refs("HUD"), c.PermanentScenes)
		require.Len(t, c.Groups, 2)
		assert.Equal(t, scene.Ref("Level1"), c.Groups[0].ActiveScene)
		assert.Equal(t, scene.Refs("Level1", "Lighting1"), c.Groups[0].Scenes)
	})

	t.Run("keeps unassigned groups", func(t *testing.T) {
		cfg := &config.CollectionConfig{
			Name:   "main",
			Groups: []config.GroupConfig{{}},
		}

		c := LoadCollection(cfg)

		require.Len(t, c.Groups, 1)
		assert.False(t, c.Groups[0].IsAssigned())
	})

	t.Run("missing scene list becomes empty", func(t *testing.T) {
		cfg := &config.CollectionConfig{
			Name: "main",
			Groups: []config.GroupConfig{
				{ActiveScene: "Level1"},
				{ActiveScene: "Level2", Scenes: []string{}},
			},
		}

		c := LoadCollection(cfg)
		warnings := c.Validate()

		assert.Empty(t, warnings)
		assert.Equal(t, scene.Refs("Level1"), c.Groups[0].Scenes, "active scene inserted")
		assert.Equal(t, scene.Refs("Level2"), c.Groups[1].Scenes)
	})
}

func TestLoadCollections(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := &config.AssetConfig{
		Collections: []*config.CollectionConfig{
			{
				Name: "main",
				Groups: []config.GroupConfig{
					{ActiveScene: "Level1", Scenes: []string{"Level1", "Props", "Props"}},
					{ActiveScene: "Level1", Scenes: []string{"Level1"}},
				},
			},
			{
				Name:   "credits",
				Groups: []config.GroupConfig{{ActiveScene: "Credits", Scenes: []string{}}},
			},
		},
	}

	collections, warnings := LoadCollections(cfg, zap.New(core))

	require.Len(t, collections, 2)
	assert.Equal(t, "main", collections[0].Name)
	assert.Equal(t, "credits", collections[1].Name)

	assert.Len(t, warnings["main"], 2)
	assert.NotContains(t, warnings, "credits")
	assert.Equal(t, scene.Refs("Credits"), collections[1].Groups[0].Scenes, "validation ran")

	assert.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		assert.Equal(t, "main", entry.ContextMap()["collection"])
	}
}

func TestLoadAssets(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.yaml": {Data: []byte("collections: [main]\n")},
		"collections/main.yaml": {Data: []byte(`name: main
groups:
  - active_scene: Level1
    scenes: [Level1, Level1]
`)},
	}

	collections, warnings, err := LoadAssets(config.NewFSLoader(fsys, "assets"), nil)

	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, scene.Refs("Level1", ""), collections[0].Groups[0].Scenes, "duplicates are cleared in place")
	require.Len(t, warnings["main"], 1)
	assert.Equal(t, scene.WarnDuplicateScene, warnings["main"][0].Kind)
}

func TestLoadAssets_MissingManifest(t *testing.T) {
	_, _, err := LoadAssets(config.NewFSLoader(fstest.MapFS{}, "assets"), nil)
	assert.Error(t, err)
}

// listEngine is a minimal loader.Engine
type listEngine struct {
	loaded []scene.Ref
	active scene.Ref
}

func (e *listEngine) LoadAdditive(_ context.Context, name scene.Ref) error {
	e.loaded = append(e.loaded, name)
	return nil
}

func (e *listEngine) Unload(_ context.Context, name scene.Ref) error {
	if i := slices.Index(e.loaded, name); i >= 0 {
		e.loaded = slices.Delete(e.loaded, i, i+1)
	}
	return nil
}

func (e *listEngine) SetActive(name scene.Ref) error {
	e.active = name
	return nil
}

func (e *listEngine) Loaded() []scene.Ref {
	return slices.Clone(e.loaded)
}

func TestLoadAssets_GroupWithoutSceneList(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.yaml": {Data: []byte("collections: [menu]\n")},
		"collections/menu.yaml": {Data: []byte(`name: menu
permanent_scenes: [HUD]
groups:
  - active_scene: Menu
`)},
	}

	collections, warnings, err := LoadAssets(config.NewFSLoader(fsys, "assets"), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	eng := &listEngine{}
	l := loader.New(eng, collections, nil)
	require.NoError(t, l.Initialize())
	require.NoError(t, l.Load(context.Background(), "Menu"))

	assert.Equal(t, scene.Refs("HUD", "Menu"), eng.loaded)
	assert.Equal(t, scene.Ref("Menu"), eng.active)
	active, ok := l.ActiveGroup()
	assert.True(t, ok)
	assert.Equal(t, scene.Ref("Menu"), active)
}
