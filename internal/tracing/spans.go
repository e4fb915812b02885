package tracing

// Span names for registry operations.
const (
	SpanPopulate = "registry.populate"
	SpanCreate   = "registry.create"
	SpanResolve  = "registry.resolve"
	SpanReload   = "registry.reload"
)

// Attribute keys attached to registry spans.
const (
	AttrEntryKey     = "registry.entry.key"
	AttrEntryLibrary = "registry.entry.library"
	AttrEntryLabel   = "registry.entry.label"
	AttrEntryCount   = "registry.entry.count"
	AttrCatalogCount = "registry.catalog.count"
	AttrManifestPath = "registry.manifest.path"
	AttrStrict       = "registry.populate.strict"
)

// Span event names.
const (
	EventEntryRegistered = "entry.registered"
	EventEntryOverridden = "entry.overridden"
	EventManifestLoaded  = "manifest.loaded"
)
