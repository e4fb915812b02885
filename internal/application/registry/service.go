package registry

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/kiln/internal/catalog"
	"github.com/zjrosen/kiln/internal/domain/registry"
	"github.com/zjrosen/kiln/internal/log"
	"github.com/zjrosen/kiln/internal/pubsub"
	"github.com/zjrosen/kiln/internal/tracing"
	"github.com/zjrosen/kiln/internal/watcher"
)

// Event is the payload published on registry lifecycle events.
// Registered and Overridden events carry the entry's compound key;
// Repopulated events carry the number of entries registered.
type Event struct {
	Key     string
	Library string
	Label   string
	Path    string
	Count   int
}

// Service owns a domain Registry plus its population sources: the
// catalog contribution table and zero or more manifest filesystems.
type Service struct {
	mu        sync.Mutex // serializes population passes
	reg       *registry.Registry
	broker    *pubsub.Broker[Event]
	loaders   []*ManifestLoader
	libraries []string // catalog selection, empty means all
	strict    bool
	tracer    trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithManifests adds a manifest filesystem to populate from. May be
// given multiple times, one per manifest root.
func WithManifests(fsys fs.FS) Option {
	return func(s *Service) {
		s.loaders = append(s.loaders, NewManifestLoader(fsys))
	}
}

// WithCatalogs restricts population to the named catalog libraries.
// Default is every contributed catalog.
func WithCatalogs(libraries ...string) Option {
	return func(s *Service) {
		s.libraries = append(s.libraries, libraries...)
	}
}

// WithStrict makes population fail on factory references that are not
// present in the contribution table. The default lenient mode binds an
// unlinked factory that errors on invoke, so manifests can still be
// listed and inspected.
func WithStrict() Option {
	return func(s *Service) {
		s.strict = true
	}
}

// WithTracer instruments Populate and Create with spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// NewService creates a service with an empty registry. Call Populate to
// register catalog contributions and manifest entries.
func NewService(opts ...Option) *Service {
	s := &Service{
		reg:    registry.NewRegistry(),
		broker: pubsub.NewBroker[Event](),
		tracer: noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry exposes the underlying domain registry.
func (s *Service) Registry() *registry.Registry {
	return s.reg
}

// Subscribe returns a channel of registry lifecycle events. The
// subscription is removed when ctx is cancelled.
func (s *Service) Subscribe(ctx context.Context) <-chan pubsub.Event[Event] {
	return s.broker.Subscribe(ctx)
}

// Close shuts down the event broker.
func (s *Service) Close() {
	s.broker.Close()
}

// Populate bulk-registers every contributed factory from the selected
// catalogs, then every manifest entry, binding factory references
// through the contribution table.
//
// Population is best-effort: a mid-population failure leaves already
// registered entries in place. Re-running on unchanged sources rewrites
// identical entries, so repopulation is idempotent.
func (s *Service) Populate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := s.tracer.Start(ctx, tracing.SpanPopulate,
		trace.WithAttributes(attribute.Bool(tracing.AttrStrict, s.strict)))
	defer span.End()

	count := 0

	catalogs := s.selectedCatalogs()
	span.SetAttributes(attribute.Int(tracing.AttrCatalogCount, len(catalogs)))

	for _, cat := range catalogs {
		for _, name := range cat.Names() {
			factory, _ := cat.Factory(name)
			entry, err := registry.NewBuilder(name).
				Library(cat.Library()).
				Factory(factory).
				Build()
			if err != nil {
				err = fmt.Errorf("%w: catalog %s/%s: %v", ErrConfiguration, cat.Library(), name, err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			s.add(span, entry, "")
			count++
		}
	}

	for _, loader := range s.loaders {
		entries, err := loader.Load(ctx)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		for _, le := range entries {
			factory, err := s.bindFactory(le)
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			entry, err := registry.NewBuilder(le.Def.Key).
				Library(le.Def.Library).
				Label(le.Def.Label).
				Description(le.Def.Description).
				Factory(factory).
				Defaults(le.Def.Defaults).
				Build()
			if err != nil {
				err = fmt.Errorf("%w: %s: entry %q: %v", ErrConfiguration, le.Path, le.Def.Key, err)
				span.SetStatus(codes.Error, err.Error())
				return err
			}
			s.add(span, entry, le.Path)
			count++
		}
	}

	span.SetAttributes(attribute.Int(tracing.AttrEntryCount, count))
	log.Info(log.CatRegistry, "registry populated", "entries", count, "registered", s.reg.Len())
	s.broker.Publish(pubsub.RepopulatedEvent, Event{Count: count})

	return nil
}

// selectedCatalogs returns the catalogs to populate from, honoring the
// WithCatalogs selection.
func (s *Service) selectedCatalogs() []*catalog.Catalog {
	if len(s.libraries) == 0 {
		return catalog.All()
	}
	catalogs := make([]*catalog.Catalog, 0, len(s.libraries))
	for _, library := range s.libraries {
		if cat, ok := catalog.Get(library); ok {
			catalogs = append(catalogs, cat)
		}
	}
	return catalogs
}

// bindFactory resolves a manifest entry's factory reference through the
// contribution table.
func (s *Service) bindFactory(le LoadedEntry) (registry.Factory, error) {
	library, name, _ := le.Def.FactoryRef()
	if factory, ok := catalog.Lookup(library, name); ok {
		return factory, nil
	}

	if s.strict {
		return nil, fmt.Errorf("%w: %s: entry %q references unknown factory %q",
			ErrConfiguration, le.Path, le.Def.Key, le.Def.Factory)
	}

	// Lenient mode: bind a placeholder that fails on invoke, so the
	// entry can still be listed and resolved for inspection.
	log.Warn(log.CatRegistry, "factory reference not linked", "path", le.Path, "factory", le.Def.Factory)
	ref := le.Def.Factory
	return func(ctx context.Context, args registry.Args) (any, error) {
		return nil, fmt.Errorf("%w: factory %q is not linked into this binary", ErrConfiguration, ref)
	}, nil
}

// add registers an entry and publishes the lifecycle event.
func (s *Service) add(span trace.Span, entry *registry.Entry, path string) {
	prior, _ := s.reg.Add(entry)

	event := Event{
		Key:     entry.Key(),
		Library: entry.Library(),
		Label:   entry.Label(),
		Path:    path,
	}
	if prior != nil {
		span.AddEvent(tracing.EventEntryOverridden, trace.WithAttributes(
			attribute.String(tracing.AttrEntryKey, entry.Key())))
		log.Debug(log.CatRegistry, "entry overridden",
			"key", entry.Key(), "library", entry.Library(), "label", entry.Label())
		s.broker.Publish(pubsub.OverriddenEvent, event)
		return
	}

	span.AddEvent(tracing.EventEntryRegistered, trace.WithAttributes(
		attribute.String(tracing.AttrEntryKey, entry.Key())))
	log.Debug(log.CatRegistry, "entry registered",
		"key", entry.Key(), "library", entry.Library(), "label", entry.Label())
	s.broker.Publish(pubsub.RegisteredEvent, event)
}

// Create resolves key under the given options and invokes the entry's
// factory with args.
func (s *Service) Create(ctx context.Context, key string, args registry.Args, opts ...registry.LookupOption) (any, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanCreate,
		trace.WithAttributes(attribute.String(tracing.AttrEntryKey, key)))
	defer span.End()

	instance, err := s.reg.Create(ctx, key, args, opts...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return instance, nil
}

// Resolve returns the single entry matching key under the given options.
func (s *Service) Resolve(key string, opts ...registry.LookupOption) (*registry.Entry, error) {
	return s.reg.Resolve(key, opts...)
}

// List returns every registered entry in deterministic order.
func (s *Service) List() []*registry.Entry {
	return s.reg.List()
}

// GetByLibrary returns all entries registered under the library.
func (s *Service) GetByLibrary(library string) []*registry.Entry {
	return s.reg.GetByLibrary(library)
}

// GetByLabel returns all entries registered under the label.
func (s *Service) GetByLabel(label string) []*registry.Entry {
	return s.reg.GetByLabel(label)
}

// Libraries returns the distinct library qualifiers in the registry.
func (s *Service) Libraries() []string {
	return s.reg.Libraries()
}

// Labels returns the distinct label qualifiers in the registry.
func (s *Service) Labels() []string {
	return s.reg.Labels()
}

// Watch starts a debounced filesystem watcher over the manifest
// directories. On change it invalidates the manifest cache and
// repopulates the registry. The watcher stops when ctx is cancelled.
func (s *Service) Watch(ctx context.Context, cfg watcher.Config) error {
	w, err := watcher.New(cfg)
	if err != nil {
		return err
	}

	events, err := w.Start()
	if err != nil {
		return err
	}

	go func() {
		defer w.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				s.reload(ctx)
			}
		}
	}()

	log.Info(log.CatWatcher, "watching manifest directories", "dirs", len(cfg.Dirs))
	return nil
}

// reload invalidates manifest caches and runs a population pass.
func (s *Service) reload(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanReload)
	defer span.End()

	for _, loader := range s.loaders {
		if err := loader.Invalidate(ctx); err != nil {
			log.ErrorErr(log.CatCache, "manifest cache invalidation failed", err)
		}
	}

	if err := s.Populate(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatRegistry, "repopulation failed", err)
		return
	}

	log.Info(log.CatRegistry, "registry repopulated after manifest change")
}
