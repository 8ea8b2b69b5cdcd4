package config

// ManifestConfig is the root config for manifest files.
// Collections are listed in selection order; the first one is the
// collection a loader starts with.
type ManifestConfig struct {
	Collections []string `json:"collections" yaml:"collections" validate:"min=1,dive,required"`
}

// CollectionConfig is the root config for collection files
type CollectionConfig struct {
	Name            string        `json:"name" yaml:"name" validate:"required"`
	PermanentScenes []string      `json:"permanent_scenes" yaml:"permanent_scenes"`
	Groups          []GroupConfig `json:"groups" yaml:"groups" validate:"dive"`
}

// GroupConfig describes one scene group. An empty ActiveScene is an
// unassigned slot. JSON and YAML share the same key names.
type GroupConfig struct {
	ActiveScene string   `json:"active_scene" yaml:"active_scene"`
	Scenes      []string `json:"scenes" yaml:"scenes"`
}

// AssetConfig holds a manifest and its collections in manifest order
type AssetConfig struct {
	Manifest    *ManifestConfig
	Collections []*CollectionConfig
}
