package registry

import "github.com/km-arc/go-spring/framework/component"

// ProxyMode says whether resolved references should go through a scoped
// proxy. The kernel records the decision but performs no proxy generation;
// ProxyNone is the only mode the default resolver emits.
type ProxyMode int

const (
	ProxyNone ProxyMode = iota
	ProxyTarget
)

// ScopeDecision is the outcome of scope resolution for one descriptor.
type ScopeDecision struct {
	Scope component.Scope
	Proxy ProxyMode
}

// ScopeResolver decides the scope of a descriptor. It must be a pure function
// of the descriptor's metadata. Swapping in a custom resolver lets callers add
// their own scope semantics without touching the Registrar.
//
//	// Spring: ScopeMetadataResolver / AnnotationScopeMetadataResolver
type ScopeResolver interface {
	Resolve(d *component.Descriptor) ScopeDecision
}

// DefaultScopeResolver keeps the declared scope and defaults to singleton
// with no proxy when none is declared.
type DefaultScopeResolver struct{}

func (DefaultScopeResolver) Resolve(d *component.Descriptor) ScopeDecision {
	scope := d.Scope
	if scope == "" {
		scope = component.ScopeSingleton
	}
	return ScopeDecision{Scope: scope, Proxy: ProxyNone}
}
