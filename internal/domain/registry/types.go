package registry

import "context"

// Unqualified is the sentinel value for an omitted library or label qualifier.
const Unqualified = ""

// Args carries keyword-style construction arguments to a factory.
type Args map[string]any

// Factory constructs an instance from the supplied arguments.
// Implementations must be safe to call concurrently.
type Factory func(ctx context.Context, args Args) (any, error)

// Entry represents a registered factory under a compound key
type Entry struct {
	key         string // normalized (lowercase), e.g. "writer"
	library     string // e.g. "pkg1", Unqualified when omitted
	label       string // e.g. "db_writer", Unqualified when omitted
	description string // optional human-readable description
	factory     Factory
	defaults    Args // merged under caller args on New
}

// newEntry creates an entry (used by builder)
func newEntry(key, library, label, description string, factory Factory, defaults Args) *Entry {
	return &Entry{
		key:         key,
		library:     library,
		label:       label,
		description: description,
		factory:     factory,
		defaults:    defaults,
	}
}

// Key returns the normalized primary lookup key
func (e *Entry) Key() string {
	return e.key
}

// Library returns the library qualifier (Unqualified when omitted)
func (e *Entry) Library() string {
	return e.library
}

// Label returns the label qualifier (Unqualified when omitted)
func (e *Entry) Label() string {
	return e.label
}

// Description returns the human-readable description
func (e *Entry) Description() string {
	return e.description
}

// Defaults returns a copy of the default construction arguments.
// Callers may mutate the result without affecting the entry.
func (e *Entry) Defaults() Args {
	if e.defaults == nil {
		return nil
	}
	defaults := make(Args, len(e.defaults))
	for k, v := range e.defaults {
		defaults[k] = v
	}
	return defaults
}

// New invokes the entry's factory with the supplied arguments. Entry
// defaults fill in any argument the caller did not provide. Every call
// constructs a fresh instance; the registry never caches what a factory
// returns.
func (e *Entry) New(ctx context.Context, args Args) (any, error) {
	if len(e.defaults) > 0 {
		merged := make(Args, len(e.defaults)+len(args))
		for k, v := range e.defaults {
			merged[k] = v
		}
		for k, v := range args {
			merged[k] = v
		}
		args = merged
	}
	return e.factory(ctx, args)
}

// sameCompoundKey reports whether other addresses the same (key, library,
// label) tuple as e.
func (e *Entry) sameCompoundKey(other *Entry) bool {
	return e.key == other.key && e.library == other.library && e.label == other.label
}
