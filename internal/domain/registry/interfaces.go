package registry

// Provider defines read-only access to a registry of entries.
// This interface enables dependency injection and facilitates testing by
// allowing mock implementations to be substituted for the concrete Registry.
type Provider interface {
	// List returns all entries in deterministic order.
	List() []*Entry

	// GetByLibrary returns all entries registered under a library.
	GetByLibrary(library string) []*Entry

	// GetByLabel returns all entries carrying the given label.
	GetByLabel(label string) []*Entry

	// Resolve returns the single entry addressed by the key and
	// qualifiers. Returns ErrNotFound or ErrAmbiguous otherwise.
	Resolve(key string, opts ...LookupOption) (*Entry, error)

	// Libraries returns all distinct library qualifiers, sorted.
	Libraries() []string

	// Labels returns all distinct label qualifiers, sorted.
	Labels() []string
}

// Compile-time check that Registry implements Provider.
var _ Provider = (*Registry)(nil)
