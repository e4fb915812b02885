// Package registry implements the domain layer for the factory registry.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines the entity type (Entry) and value objects (Args, lookup qualifiers)
//   - Implements domain logic (compound-key resolution, case-insensitive key matching)
//   - Has no knowledge of infrastructure concerns (file I/O, YAML parsing, watchers)
//
// # Core Types
//
// Entry represents a registered factory addressed by a compound key: the
// primary key plus optional library and label qualifiers. Use Builder for
// construction.
//
// Factory is the constructible bound to an entry. Registration is
// structurally untyped: the registry imposes no capability requirement on
// what a factory produces beyond the Factory signature itself.
//
// # Registry
//
// Registry is the collection type that holds entries. It provides:
//   - Add for registration; an identical compound key overwrites the prior
//     entry (last write wins), which is the supported mechanism for
//     substituting an alternative implementation under an existing key
//   - Resolve/Create for lookup and instantiation; the supplied key and
//     qualifiers must resolve to exactly one entry
//   - List/GetByLibrary/GetByLabel/Libraries/Labels for read-only views
//
// Registry is safe for concurrent use. Concurrent Create calls are
// reads; Add takes the write lock, so racing Adds on the same compound key
// settle last-write-wins.
package registry
