package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry errors
var (
	ErrNotFound  = errors.New("no entry matches the requested key")
	ErrAmbiguous = errors.New("multiple entries match the requested key")
	ErrNilEntry  = fmt.Errorf("%w: entry cannot be nil", ErrInvalidEntry)
)

// Registry holds all entries, addressed by compound key
type Registry struct {
	mu      sync.RWMutex
	entries map[string][]*Entry // normalized key -> entries sharing that key
}

// NewRegistry creates a new empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string][]*Entry),
	}
}

// Add registers an entry. An entry whose compound key (key, library,
// label) is already occupied overwrites the prior entry and returns it;
// this is the supported override mechanism, so the caller can log or
// publish the substitution. Returns the displaced entry, or nil when the
// compound key was previously vacant.
func (r *Registry) Add(e *Entry) (*Entry, error) {
	if e == nil {
		return nil, ErrNilEntry
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket := r.entries[e.key]
	for i, existing := range bucket {
		if existing.sameCompoundKey(e) {
			bucket[i] = e
			return existing, nil
		}
	}
	r.entries[e.key] = append(bucket, e)
	return nil, nil
}

// lookup holds the optional qualifiers supplied to Resolve/Create.
// The has flags distinguish an omitted qualifier from an explicitly
// empty one.
type lookup struct {
	library    string
	hasLibrary bool
	label      string
	hasLabel   bool
}

// LookupOption narrows a Resolve or Create call.
type LookupOption func(*lookup)

// WithLibrary filters candidates to an exact library match.
func WithLibrary(library string) LookupOption {
	return func(q *lookup) {
		q.library = library
		q.hasLibrary = true
	}
}

// WithLabel filters candidates to an exact label match.
func WithLabel(label string) LookupOption {
	return func(q *lookup) {
		q.label = label
		q.hasLabel = true
	}
}

// Resolve applies the resolution rule and returns the single entry the
// key and qualifiers address. Candidates are matched case-insensitively
// on key, then narrowed by exact library and label when supplied.
// Returns ErrNotFound when nothing matches (including a qualifier value
// no entry carries) and ErrAmbiguous when the qualifiers leave more than
// one candidate.
func (r *Registry) Resolve(key string, opts ...LookupOption) (*Entry, error) {
	var q lookup
	for _, opt := range opts {
		opt(&q)
	}

	normalized := normalizeKey(key)

	r.mu.RLock()
	matches := make([]*Entry, 0, 1)
	for _, e := range r.entries[normalized] {
		if q.hasLibrary && e.library != q.library {
			continue
		}
		if q.hasLabel && e.label != q.label {
			continue
		}
		matches = append(matches, e)
	}
	r.mu.RUnlock()

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, q.describe(key))
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s has %d candidates, narrow with a library or label qualifier",
			ErrAmbiguous, q.describe(key), len(matches))
	}
}

// Create resolves the compound key and invokes the matching entry's
// factory with args. The registry itself is untouched: creation never
// caches instances or mutates entries.
func (r *Registry) Create(ctx context.Context, key string, args Args, opts ...LookupOption) (any, error) {
	e, err := r.Resolve(key, opts...)
	if err != nil {
		return nil, err
	}
	return e.New(ctx, args)
}

// List returns all entries in deterministic order (key, then library,
// then label).
func (r *Registry) List() []*Entry {
	r.mu.RLock()
	all := make([]*Entry, 0, len(r.entries))
	for _, bucket := range r.entries {
		all = append(all, bucket...)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].key != all[j].key {
			return all[i].key < all[j].key
		}
		if all[i].library != all[j].library {
			return all[i].library < all[j].library
		}
		return all[i].label < all[j].label
	})
	return all
}

// GetByLibrary returns all entries registered under a library
func (r *Registry) GetByLibrary(library string) []*Entry {
	result := make([]*Entry, 0)
	for _, e := range r.List() {
		if e.library == library {
			result = append(result, e)
		}
	}
	return result
}

// GetByLabel returns all entries carrying the given label
func (r *Registry) GetByLabel(label string) []*Entry {
	result := make([]*Entry, 0)
	for _, e := range r.List() {
		if e.label == label {
			result = append(result, e)
		}
	}
	return result
}

// Libraries returns all distinct library qualifiers, sorted alphabetically.
// The unqualified sentinel is omitted.
func (r *Registry) Libraries() []string {
	return r.collectQualifiers(func(e *Entry) string { return e.library })
}

// Labels returns all distinct label qualifiers, sorted alphabetically.
// The unqualified sentinel is omitted.
func (r *Registry) Labels() []string {
	return r.collectQualifiers(func(e *Entry) string { return e.label })
}

func (r *Registry) collectQualifiers(get func(*Entry) string) []string {
	r.mu.RLock()
	set := make(map[string]bool)
	for _, bucket := range r.entries {
		for _, e := range bucket {
			if q := get(e); q != Unqualified {
				set[q] = true
			}
		}
	}
	r.mu.RUnlock()

	out := make([]string, 0, len(set))
	for q := range set {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of live entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, bucket := range r.entries {
		n += len(bucket)
	}
	return n
}

// describe renders the lookup for error messages, e.g.
// `"writer" (library "pkg1")`.
func (q lookup) describe(key string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%q", key)
	if q.hasLibrary || q.hasLabel {
		sb.WriteString(" (")
		if q.hasLibrary {
			fmt.Fprintf(&sb, "library %q", q.library)
		}
		if q.hasLabel {
			if q.hasLibrary {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "label %q", q.label)
		}
		sb.WriteString(")")
	}
	return sb.String()
}
