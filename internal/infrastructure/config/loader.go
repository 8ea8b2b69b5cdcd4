package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest file looked up by LoadManifest
const ManifestName = "manifest"

// CollectionsDir holds one file per collection
const CollectionsDir = "collections"

// Extensions tried in order when looking up an asset by name
var Extensions = []string{".yaml", ".yml", ".json"}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// Loader loads scene assets from YAML or JSON files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new asset loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new asset loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the path the loader was created with
func (l *Loader) BasePath() string {
	return l.basePath
}

// LoadManifest loads the manifest file
func (l *Loader) LoadManifest() (*ManifestConfig, error) {
	var cfg ManifestConfig
	if err := l.loadAsset(ManifestName, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadCollection loads a collection file from the collections directory
func (l *Loader) LoadCollection(name string) (*CollectionConfig, error) {
	var cfg CollectionConfig
	if err := l.loadAsset(path.Join(CollectionsDir, name), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadAll loads the manifest and every collection it lists.
// Every failing collection is reported, not only the first.
func (l *Loader) LoadAll() (*AssetConfig, error) {
	manifest, err := l.LoadManifest()
	if err != nil {
		return nil, err
	}

	var errs error
	collections := make([]*CollectionConfig, 0, len(manifest.Collections))
	for _, name := range manifest.Collections {
		cfg, err := l.LoadCollection(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		collections = append(collections, cfg)
	}
	if errs != nil {
		return nil, errs
	}

	return &AssetConfig{
		Manifest:    manifest,
		Collections: collections,
	}, nil
}

// loadAsset finds name with one of the known extensions, decodes it into
// target and validates the result
func (l *Loader) loadAsset(name string, target any) error {
	file, data, err := l.find(name)
	if err != nil {
		return err
	}

	if err := decode(file, data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}

	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("invalid %s: %w", file, err)
	}

	return nil
}

func (l *Loader) find(name string) (string, []byte, error) {
	for _, ext := range Extensions {
		file := name + ext
		data, err := fs.ReadFile(l.fsys, file)
		if err == nil {
			return file, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}
	return "", nil, fmt.Errorf("failed to read %s: %w", name, fs.ErrNotExist)
}

func decode(file string, data []byte, target any) error {
	if strings.EqualFold(path.Ext(file), ".json") {
		return json.Unmarshal(data, target)
	}
	return yaml.Unmarshal(data, target)
}

// IsAssetFile reports whether a path has one of the asset extensions
func IsAssetFile(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
