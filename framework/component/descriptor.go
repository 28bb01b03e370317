package component

import "reflect"

// ── Scope ────────────────────────────────────────────────────────────────────

// Scope is the lifecycle strategy of a component.
type Scope string

const (
	// ScopeSingleton — one shared instance per name for the container's
	// lifetime. This is the default when no scope metadata is declared.
	ScopeSingleton Scope = "singleton"

	// ScopePrototype — a fresh instance on every resolution. The container
	// never retains prototypes; ownership returns to the caller.
	ScopePrototype Scope = "prototype"
)

// String returns the string form of the scope.
func (s Scope) String() string { return string(s) }

// ── Qualifiers ───────────────────────────────────────────────────────────────

// Qualifier is an opaque tag attached to a descriptor, used to disambiguate
// among multiple candidates of the same capability.
type Qualifier string

// Well-known qualifiers with flag semantics. Any other qualifier is stored
// verbatim in the descriptor's qualifier set.
//
//	// Spring: @Primary, @Lazy
const (
	QualifierPrimary Qualifier = "primary"
	QualifierLazy    Qualifier = "lazy"
)

// ── Factory ──────────────────────────────────────────────────────────────────

// Factory builds a component instance. It replaces reflective construction:
// a descriptor without a factory has no viable construction strategy and is
// rejected at registration time.
//
//	// Spring: applicationContext.registerBean(UserService.class, () -> new UserService())
//	factory := func() (any, error) { return NewUserService(), nil }
type Factory func() (any, error)

// InstanceFactory wraps a pre-built value as a Factory.
//
//	r.Register(md, component.InstanceFactory(cfg))
func InstanceFactory(v any) Factory {
	return func() (any, error) { return v, nil }
}

// ── Metadata ─────────────────────────────────────────────────────────────────

// Metadata is the declared metadata of a candidate, populated by the external
// loader. The kernel consumes it as plain data and never inspects source
// annotations.
type Metadata struct {
	// Type identifies the component for type-based lookup. Required.
	Type reflect.Type

	// Scope is the declared scope; empty means unspecified (singleton).
	Scope Scope

	// Lazy defers singleton construction past the eager start phase.
	Lazy bool

	// Primary marks this candidate as the winner when a type-based lookup
	// matches several entries.
	Primary bool

	// Qualifiers declared on the candidate itself, in addition to any passed
	// at registration time.
	Qualifiers []Qualifier
}

// TypeOf returns the reflect.Type of T, including interface types.
//
//	component.TypeOf[*Widget]()      // *component_test.Widget
//	component.TypeOf[fmt.Stringer]() // fmt.Stringer
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ── Descriptor ───────────────────────────────────────────────────────────────

// Descriptor describes how to construct and scope one registrable component.
// It is built by the registrar from a Metadata value and is immutable after
// registration, except for customizer application at registration time.
type Descriptor struct {
	// Type is the source type the descriptor was built from.
	Type reflect.Type

	// Name is the explicit name, if one was supplied; the registrar fills in
	// the generated name before the descriptor is stored.
	Name string

	// Scope as resolved by the scope resolver. Always exactly one value.
	Scope Scope

	// Primary and Lazy flags, settable via qualifiers or customizers.
	Primary bool
	Lazy    bool

	// Factory is the construction strategy. Never nil in a stored descriptor.
	Factory Factory

	qualifiers map[Qualifier]struct{}
}

// New builds a descriptor from declared metadata. Scope defaults are left to
// the scope resolver; qualifier flags declared in the metadata are applied
// directly.
func New(md Metadata, factory Factory) *Descriptor {
	d := &Descriptor{
		Type:       md.Type,
		Scope:      md.Scope,
		Primary:    md.Primary,
		Lazy:       md.Lazy,
		Factory:    factory,
		qualifiers: make(map[Qualifier]struct{}),
	}
	for _, q := range md.Qualifiers {
		d.AddQualifier(q)
	}
	return d
}

// AddQualifier applies one qualifier. Primary and Lazy set their flag
// (idempotent — setting true twice is a no-op); anything else goes into the
// qualifier set verbatim.
func (d *Descriptor) AddQualifier(q Qualifier) {
	switch q {
	case QualifierPrimary:
		d.Primary = true
	case QualifierLazy:
		d.Lazy = true
	default:
		d.qualifiers[q] = struct{}{}
	}
}

// HasQualifier reports whether the tag is present in the qualifier set.
// Primary and Lazy are flags, not set members.
func (d *Descriptor) HasQualifier(q Qualifier) bool {
	_, ok := d.qualifiers[q]
	return ok
}

// Qualifiers returns the tags in the qualifier set, in unspecified order.
func (d *Descriptor) Qualifiers() []Qualifier {
	out := make([]Qualifier, 0, len(d.qualifiers))
	for q := range d.qualifiers {
		out = append(out, q)
	}
	return out
}

// Singleton reports whether the descriptor resolved to singleton scope.
func (d *Descriptor) Singleton() bool { return d.Scope == ScopeSingleton }

// Customizer mutates a descriptor at registration time. Customizers run after
// qualifier application and are authoritative for conflicting settings.
//
//	// Spring: BeanDefinitionCustomizer
//	registry.WithCustomizers(func(d *component.Descriptor) { d.Lazy = true })
type Customizer func(*Descriptor)
