// Package registry implements the application layer for the factory
// registry system.
//
// This package serves as a facade that bridges the domain layer to
// infrastructure concerns:
//   - Populates the registry from catalog contributions and YAML manifests
//   - Memoizes parsed manifests in a TTL cache between population passes
//   - Publishes registration lifecycle events on a broker
//   - Watches manifest directories and repopulates on change
//
// # Architecture
//
// The application layer depends on:
//   - Domain layer (internal/domain/registry): pure registry types and logic
//   - Infrastructure: fs.FS for manifest access, YAML parsing, fsnotify
//
// This separation keeps the domain layer free of I/O concerns so it can
// be tested in isolation.
//
// # Service
//
// Service is the main entry point. It provides:
//   - Populate: bulk-registers catalog contributions and manifest entries
//   - Create, Resolve, List, GetByLibrary, GetByLabel: delegate to the
//     domain Registry
//   - Watch: debounced filesystem watching with automatic repopulation
//
// # Manifests
//
// Registrations are declared in registry.yaml files discovered anywhere
// under the manifest filesystem. Each entry names its key, optional
// library and label qualifiers, and a factory reference of the form
// "library/name" resolved through the catalog contribution table.
//
// # Import Aliasing
//
// This package has the same name as the domain registry package. When
// importing both, alias to disambiguate:
//
//	appregistry "github.com/zjrosen/kiln/internal/application/registry"
//	"github.com/zjrosen/kiln/internal/domain/registry"
package registry
