package registry

import (
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-spring/framework/component"
)

// InvalidCandidateError is returned when a candidate has no viable
// construction strategy — no factory was supplied.
type InvalidCandidateError struct {
	// Type is the candidate's declared type, if any.
	Type reflect.Type
}

// Error implements the error interface.
func (e InvalidCandidateError) Error() string {
	// Example: registry: candidate *app.Widget has no factory
	name := "<untyped>"
	if e.Type != nil {
		name = e.Type.String()
	}
	return "registry: candidate " + name + " has no factory"
}

// ── Registrar ────────────────────────────────────────────────────────────────

// Registrar turns candidate metadata into stored descriptors. It owns the
// name generation, scope resolution, qualifier application, and skip-condition
// policy for a Store; the Store itself stays pure data.
//
//	// Spring: AnnotatedBeanDefinitionReader over a BeanDefinitionRegistry
type Registrar struct {
	store     *Store
	names     NameGenerator
	scopes    ScopeResolver
	condition Condition
	onSkip    func(component.Metadata)
	log       logrus.FieldLogger
}

// RegistrarOption configures a Registrar at construction time.
type RegistrarOption func(*Registrar)

// WithNameGenerator swaps the name generator.
func WithNameGenerator(g NameGenerator) RegistrarOption {
	return func(r *Registrar) {
		if g != nil {
			r.names = g
		}
	}
}

// WithScopeResolver swaps the scope resolver.
func WithScopeResolver(s ScopeResolver) RegistrarOption {
	return func(r *Registrar) {
		if s != nil {
			r.scopes = s
		}
	}
}

// WithCondition sets the skip condition.
func WithCondition(c Condition) RegistrarOption {
	return func(r *Registrar) {
		if c != nil {
			r.condition = c
		}
	}
}

// WithSkipObserver sets a callback fired for every skipped candidate. Skips
// are otherwise reported only on the debug log.
func WithSkipObserver(fn func(component.Metadata)) RegistrarOption {
	return func(r *Registrar) { r.onSkip = fn }
}

// WithLogger sets the registrar's logger.
func WithLogger(log logrus.FieldLogger) RegistrarOption {
	return func(r *Registrar) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistrar creates a Registrar over store with default name generation,
// scope resolution, and no skip condition.
func NewRegistrar(store *Store, opts ...RegistrarOption) *Registrar {
	r := &Registrar{
		store:     store,
		names:     DefaultNameGenerator{},
		scopes:    DefaultScopeResolver{},
		condition: None,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the descriptor store this registrar operates on.
func (r *Registrar) Store() *Store { return r.store }

// ── Register options ─────────────────────────────────────────────────────────

// registration collects the per-call options of one Register invocation.
type registration struct {
	name        string
	qualifiers  []component.Qualifier
	customizers []component.Customizer
}

// RegisterOption configures a single Register call.
type RegisterOption func(*registration)

// WithName sets an explicit name; it wins over the name generator.
func WithName(name string) RegisterOption {
	return func(reg *registration) { reg.name = name }
}

// WithQualifiers appends qualifiers, applied in the supplied order after any
// metadata-declared ones. Primary and Lazy occurrences set their flag
// idempotently; anything else lands in the qualifier set verbatim.
func WithQualifiers(qs ...component.Qualifier) RegisterOption {
	return func(reg *registration) { reg.qualifiers = append(reg.qualifiers, qs...) }
}

// WithCustomizers appends descriptor customizers, run last in supplied order.
// A customizer may mutate any descriptor field and is authoritative over
// qualifier-driven settings.
func WithCustomizers(cs ...component.Customizer) RegisterOption {
	return func(reg *registration) { reg.customizers = append(reg.customizers, cs...) }
}

// ── Register ─────────────────────────────────────────────────────────────────

// Register builds a descriptor for the candidate and inserts it into the
// store. Registering the same candidate under the same name twice overwrites
// the prior entry — one effective entry, never a duplicate.
//
// Order of operations: build descriptor → skip condition → factory check →
// scope resolution → qualifier application → name resolution → customizers →
// insert.
func (r *Registrar) Register(md component.Metadata, factory component.Factory, opts ...RegisterOption) error {
	var reg registration
	for _, opt := range opts {
		opt(&reg)
	}

	d := component.New(md, factory)

	if r.condition(md) {
		r.log.WithField("type", typeString(md.Type)).Debug("registry: candidate skipped by condition")
		if r.onSkip != nil {
			r.onSkip(md)
		}
		return nil
	}

	if factory == nil {
		return InvalidCandidateError{Type: md.Type}
	}

	decision := r.scopes.Resolve(d)
	d.Scope = decision.Scope

	for _, q := range reg.qualifiers {
		d.AddQualifier(q)
	}

	name := reg.name
	if name == "" {
		name = r.names.Generate(d, r.store.Has)
	}
	d.Name = name

	for _, customize := range reg.customizers {
		customize(d)
	}
	// Customizers are authoritative, for the name too: a mutated Name keys
	// the entry. A cleared Name falls back to the resolved one.
	if d.Name == "" {
		d.Name = name
	}
	name = d.Name

	r.store.Put(name, d)
	r.log.WithFields(logrus.Fields{
		"name":  name,
		"type":  typeString(d.Type),
		"scope": d.Scope,
	}).Debug("registry: descriptor registered")
	return nil
}

// RegisterInstance registers a pre-built value as a singleton descriptor.
//
//	// Spring: ConfigurableListableBeanFactory.registerSingleton
func (r *Registrar) RegisterInstance(name string, v any) error {
	md := component.Metadata{Type: reflect.TypeOf(v), Scope: component.ScopeSingleton}
	return r.Register(md, component.InstanceFactory(v), WithName(name))
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "<untyped>"
	}
	return t.String()
}
