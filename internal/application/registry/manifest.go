package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/kiln/internal/cachemanager"
	"github.com/zjrosen/kiln/internal/domain/registry"
	"github.com/zjrosen/kiln/internal/log"
)

// ErrConfiguration indicates a manifest could not be read, parsed, or
// bound to the contribution table during population.
var ErrConfiguration = errors.New("registry configuration error")

// manifestFileName is the file name manifests are discovered under.
const manifestFileName = "registry.yaml"

// defaultManifestTTL bounds how long a parsed manifest is reused before
// being re-read from disk. The watcher invalidates earlier on change.
const defaultManifestTTL = 5 * time.Minute

// ManifestFile is the root structure of a registry.yaml manifest.
type ManifestFile struct {
	Registry []EntryDef `yaml:"registry"`
}

// EntryDef declares a single registration in YAML.
type EntryDef struct {
	Key         string        `yaml:"key"`         // required, matched case-insensitively
	Library     string        `yaml:"library"`     // optional library qualifier
	Label       string        `yaml:"label"`       // optional label qualifier
	Description string        `yaml:"description"` // human-readable description
	Factory     string        `yaml:"factory"`     // contribution reference, "library/name"
	Defaults    registry.Args `yaml:"defaults"`    // default args merged under caller args
}

// FactoryRef splits the "library/name" factory reference.
func (d EntryDef) FactoryRef() (library, name string, ok bool) {
	library, name, ok = strings.Cut(d.Factory, "/")
	if library == "" || name == "" {
		return "", "", false
	}
	return library, name, ok
}

// LoadedEntry pairs an entry definition with the manifest it came from.
type LoadedEntry struct {
	Path string
	Def  EntryDef
}

// ManifestLoader discovers and parses registry.yaml manifests under a
// filesystem, memoizing parsed files in a TTL cache keyed by path.
type ManifestLoader struct {
	fsys  fs.FS
	cache *cachemanager.ReadThroughCache[string, *ManifestFile, string]
	ttl   time.Duration
}

// NewManifestLoader creates a loader over fsys with parse memoization.
func NewManifestLoader(fsys fs.FS) *ManifestLoader {
	l := &ManifestLoader{
		fsys: fsys,
		ttl:  defaultManifestTTL,
	}
	backing := cachemanager.NewInMemoryCacheManager[string, *ManifestFile](
		"manifests", defaultManifestTTL, 10*time.Minute,
	)
	l.cache = cachemanager.NewReadThroughCache(backing, l.parse, false)
	return l
}

// Load walks the filesystem for registry.yaml files and returns every
// entry definition, in walk order. The first read, parse, or validation
// failure aborts the walk and propagates.
func (l *ManifestLoader) Load(ctx context.Context) ([]LoadedEntry, error) {
	var entries []LoadedEntry

	err := fs.WalkDir(l.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walk %s: %v", ErrConfiguration, path, err)
		}
		if d.IsDir() || d.Name() != manifestFileName {
			return nil
		}

		file, err := l.cache.Get(ctx, path, path, l.ttl)
		if err != nil {
			return err
		}

		for _, def := range file.Registry {
			if err := validateDef(def, path); err != nil {
				return err
			}
			entries = append(entries, LoadedEntry{Path: path, Def: def})
		}

		log.Debug(log.CatManifest, "manifest loaded", "path", path, "entries", len(file.Registry))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Invalidate drops every memoized manifest so the next Load re-reads
// from disk. Called by the watcher on manifest changes.
func (l *ManifestLoader) Invalidate(ctx context.Context) error {
	return l.cache.Flush(ctx)
}

func (l *ManifestLoader) parse(ctx context.Context, path string) (*ManifestFile, error) {
	content, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfiguration, path, err)
	}

	var file ManifestFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfiguration, path, err)
	}

	return &file, nil
}

func validateDef(def EntryDef, path string) error {
	if strings.TrimSpace(def.Key) == "" {
		return fmt.Errorf("%w: %s: entry is missing a key", ErrConfiguration, path)
	}
	if def.Factory == "" {
		return fmt.Errorf("%w: %s: entry %q is missing a factory reference", ErrConfiguration, path, def.Key)
	}
	if _, _, ok := def.FactoryRef(); !ok {
		return fmt.Errorf("%w: %s: entry %q has malformed factory reference %q (want \"library/name\")",
			ErrConfiguration, path, def.Key, def.Factory)
	}
	return nil
}

// LoadManifests discovers and parses every registry.yaml under fsys
// without memoization. Convenience for one-shot loads.
func LoadManifests(fsys fs.FS) ([]LoadedEntry, error) {
	l := &ManifestLoader{fsys: fsys, ttl: defaultManifestTTL}
	backing := cachemanager.NewInMemoryCacheManager[string, *ManifestFile]("manifests", time.Minute, time.Minute)
	l.cache = cachemanager.NewReadThroughCache(backing, l.parse, true)
	return l.Load(context.Background())
}
