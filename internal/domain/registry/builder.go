package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Builder errors. Both wrap ErrInvalidEntry so callers can match the
// validation category without caring which field was wrong.
var (
	ErrInvalidEntry = errors.New("invalid registry entry")
	ErrEmptyKey     = fmt.Errorf("%w: key cannot be empty", ErrInvalidEntry)
	ErrNilFactory   = fmt.Errorf("%w: factory cannot be nil", ErrInvalidEntry)
)

// Builder provides a fluent API for creating entries
type Builder struct {
	key         string
	library     string
	label       string
	description string
	factory     Factory
	defaults    Args
}

// NewBuilder creates a new entry builder for the given primary key
func NewBuilder(key string) *Builder {
	return &Builder{
		key: key,
	}
}

// Library sets the library qualifier, distinguishing same-named entries
// from different source namespaces
func (b *Builder) Library(library string) *Builder {
	b.library = library
	return b
}

// Label sets the label qualifier, used for intentional multi-registration
// under one key
func (b *Builder) Label(label string) *Builder {
	b.label = label
	return b
}

// Description sets the human-readable description
func (b *Builder) Description(description string) *Builder {
	b.description = description
	return b
}

// Factory sets the factory invoked by Entry.New
func (b *Builder) Factory(factory Factory) *Builder {
	b.factory = factory
	return b
}

// Defaults sets default construction arguments, filled in under caller
// arguments on Entry.New
func (b *Builder) Defaults(defaults Args) *Builder {
	b.defaults = defaults
	return b
}

// Build creates the entry, validating required fields. The key is
// case-normalized here so two registrations differing only in case land
// on the same compound key.
func (b *Builder) Build() (*Entry, error) {
	if strings.TrimSpace(b.key) == "" {
		return nil, ErrEmptyKey
	}
	if b.factory == nil {
		return nil, ErrNilFactory
	}

	return newEntry(normalizeKey(b.key), b.library, b.label, b.description, b.factory, b.defaults), nil
}

// normalizeKey canonicalizes a primary key for case-insensitive matching.
func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
