package container

// Hook observes or replaces an instance around initialization. Returning a
// different value substitutes it for the original from that point on.
//
//	// Spring: BeanPostProcessor.postProcessBeforeInitialization /
//	//         postProcessAfterInitialization
type Hook interface {
	Apply(instance any, name string) (any, error)
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(instance any, name string) (any, error)

// Apply implements Hook.
func (f HookFunc) Apply(instance any, name string) (any, error) {
	return f(instance, name)
}

// PostConstructor is implemented by components that declare initialization
// behavior, run between the pre- and post-init hook chains.
//
//	// Spring: @PostConstruct
type PostConstructor interface {
	PostConstruct() error
}

// PreDestroyer is implemented by singleton components that declare destroy
// behavior, run during Close in reverse creation order. Prototype instances
// are owned by their callers; the container never invokes PreDestroy on them.
//
//	// Spring: @PreDestroy
type PreDestroyer interface {
	PreDestroy() error
}
