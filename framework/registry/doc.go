// Package registry holds the registration half of the kernel: the descriptor
// store and the Registrar that fills it.
//
// The Registrar is the programmatic analog of Spring's annotated bean
// definition reader — callers submit explicit metadata plus a factory, and the
// Registrar builds a descriptor, consults the skip condition, resolves scope
// and name, applies qualifiers and customizers, and inserts the result into
// the Store. The Store is pure data; live instances belong to the container
// package.
//
// Registration is a single-threaded setup phase. The Store is not locked for
// concurrent mutation — callers must serialize Register calls. Concurrent
// reads begin only once the container takes over.
//
//	store := registry.NewStore()
//	r := registry.NewRegistrar(store)
//	err := r.Register(component.Metadata{Type: component.TypeOf[*Widget]()},
//	    func() (any, error) { return &Widget{}, nil })
package registry
