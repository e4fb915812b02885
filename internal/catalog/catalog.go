// Package catalog holds the process-wide contribution table that feeds
// bulk population.
//
// A catalog is the static equivalent of a scannable namespace: instead of
// discovering class definitions by walking packages at runtime, Go
// packages contribute named factories from init(), keyed by the library
// they belong to. Population then registers every contributed factory
// under (name, library), and manifests may reference contributions by
// "library/name".
//
// Contribution happens once at startup; after init() the table is only
// read. Duplicate contribution of the same (library, name) panics, the
// usual contract for init()-time registration mistakes.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zjrosen/kiln/internal/domain/registry"
)

// Catalog is a named set of contributed factories sharing a library.
type Catalog struct {
	library   string
	factories map[string]registry.Factory
}

// Library returns the library name the catalog contributes under.
func (c *Catalog) Library() string {
	return c.library
}

// Names returns the contributed factory names, sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.factories))
	for name := range c.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Factory returns the contributed factory for name, if present.
func (c *Catalog) Factory(name string) (registry.Factory, bool) {
	f, ok := c.factories[name]
	return f, ok
}

var (
	mu       sync.RWMutex
	catalogs = make(map[string]*Catalog)
)

// Contribute adds a factory to the library's catalog. Intended to be
// called from init(). Panics on an empty library or name, a nil factory,
// or a duplicate (library, name) contribution.
func Contribute(library, name string, factory registry.Factory) {
	if library == "" || name == "" {
		panic(fmt.Sprintf("catalog: contribution needs a library and a name, got (%q, %q)", library, name))
	}
	if factory == nil {
		panic(fmt.Sprintf("catalog: nil factory contributed as %s/%s", library, name))
	}

	mu.Lock()
	defer mu.Unlock()

	c, ok := catalogs[library]
	if !ok {
		c = &Catalog{library: library, factories: make(map[string]registry.Factory)}
		catalogs[library] = c
	}
	if _, exists := c.factories[name]; exists {
		panic(fmt.Sprintf("catalog: factory %s/%s already contributed", library, name))
	}
	c.factories[name] = factory
}

// Lookup returns the factory contributed as (library, name), if present.
func Lookup(library, name string) (registry.Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()

	c, ok := catalogs[library]
	if !ok {
		return nil, false
	}
	return c.Factory(name)
}

// Get returns the catalog for a library, if present.
func Get(library string) (*Catalog, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := catalogs[library]
	return c, ok
}

// Libraries returns all contributing library names, sorted alphabetically.
func Libraries() []string {
	mu.RLock()
	defer mu.RUnlock()

	libs := make([]string, 0, len(catalogs))
	for lib := range catalogs {
		libs = append(libs, lib)
	}
	sort.Strings(libs)
	return libs
}

// All returns every catalog, ordered by library name.
func All() []*Catalog {
	mu.RLock()
	defer mu.RUnlock()

	libs := make([]string, 0, len(catalogs))
	for lib := range catalogs {
		libs = append(libs, lib)
	}
	sort.Strings(libs)

	out := make([]*Catalog, 0, len(libs))
	for _, lib := range libs {
		out = append(out, catalogs[lib])
	}
	return out
}

// Reset clears the contribution table. It exists for tests, which need
// isolation from init()-time contributions made by other test files.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	catalogs = make(map[string]*Catalog)
}
