package registry

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func manifestFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for path, content := range files {
		fsys[path] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestLoadManifests_SingleFile(t *testing.T) {
	fsys := manifestFS(map[string]string{
		"registry.yaml": `
registry:
  - key: writer
    library: pkg1
    label: db_writer
    description: Writes rows to the database
    factory: pkg1/db_writer
    defaults:
      batch_size: 100
`,
	})

	entries, err := LoadManifests(fsys)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	def := entries[0].Def
	require.Equal(t, "writer", def.Key)
	require.Equal(t, "pkg1", def.Library)
	require.Equal(t, "db_writer", def.Label)
	require.Equal(t, "Writes rows to the database", def.Description)
	require.Equal(t, "pkg1/db_writer", def.Factory)
	require.Equal(t, 100, def.Defaults["batch_size"])
	require.Equal(t, "registry.yaml", entries[0].Path)
}

func TestLoadManifests_NestedDirectories(t *testing.T) {
	fsys := manifestFS(map[string]string{
		"pkg1/registry.yaml": `
registry:
  - key: reader
    factory: pkg1/reader
`,
		"pkg2/nested/registry.yaml": `
registry:
  - key: writer
    factory: pkg2/writer
`,
		"pkg2/notes.yaml": `unrelated: true`,
	})

	entries, err := LoadManifests(fsys)
	require.NoError(t, err)
	require.Len(t, entries, 2, "only registry.yaml files should be discovered")

	paths := []string{entries[0].Path, entries[1].Path}
	require.Contains(t, paths, "pkg1/registry.yaml")
	require.Contains(t, paths, "pkg2/nested/registry.yaml")
}

func TestLoadManifests_EmptyTree(t *testing.T) {
	entries, err := LoadManifests(manifestFS(map[string]string{
		"readme.md": "no manifests here",
	}))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestLoadManifests_ParseErrorPropagates(t *testing.T) {
	fsys := manifestFS(map[string]string{
		"registry.yaml": "registry: [not: valid: yaml",
	})

	entries, err := LoadManifests(fsys)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrConfiguration)
	require.Nil(t, entries)
}

func TestLoadManifests_MissingKey(t *testing.T) {
	fsys := manifestFS(map[string]string{
		"registry.yaml": `
registry:
  - library: pkg1
    factory: pkg1/thing
`,
	})

	_, err := LoadManifests(fsys)
	require.ErrorIs(t, err, ErrConfiguration)
	require.Contains(t, err.Error(), "missing a key")
}

func TestLoadManifests_MissingFactory(t *testing.T) {
	fsys := manifestFS(map[string]string{
		"registry.yaml": `
registry:
  - key: writer
`,
	})

	_, err := LoadManifests(fsys)
	require.ErrorIs(t, err, ErrConfiguration)
	require.Contains(t, err.Error(), "missing a factory reference")
}

func TestLoadManifests_MalformedFactoryRef(t *testing.T) {
	for _, ref := range []string{"no-slash", "/name", "library/"} {
		fsys := manifestFS(map[string]string{
			"registry.yaml": `
registry:
  - key: writer
    factory: ` + ref + `
`,
		})

		_, err := LoadManifests(fsys)
		require.ErrorIs(t, err, ErrConfiguration, "ref %q should be rejected", ref)
		require.Contains(t, err.Error(), "malformed factory reference")
	}
}

func TestEntryDef_FactoryRef(t *testing.T) {
	library, name, ok := EntryDef{Factory: "pkg1/db_writer"}.FactoryRef()
	require.True(t, ok)
	require.Equal(t, "pkg1", library)
	require.Equal(t, "db_writer", name)

	_, _, ok = EntryDef{Factory: "pkg1"}.FactoryRef()
	require.False(t, ok)
}

func TestManifestLoader_MemoizesParsedFiles(t *testing.T) {
	fsys := manifestFS(map[string]string{
		"registry.yaml": `
registry:
  - key: writer
    factory: pkg1/writer
`,
	})

	loader := NewManifestLoader(fsys)
	ctx := context.Background()

	entries, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "writer", entries[0].Def.Key)

	// Mutate the underlying file; the cached parse should still be served
	fsys["registry.yaml"] = &fstest.MapFile{Data: []byte(`
registry:
  - key: reader
    factory: pkg1/reader
`)}

	entries, err = loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "writer", entries[0].Def.Key, "cached parse should be reused within TTL")

	// Invalidation forces a re-read
	require.NoError(t, loader.Invalidate(ctx))

	entries, err = loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "reader", entries[0].Def.Key, "invalidation should force a re-read")
}
