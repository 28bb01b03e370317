package container

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-spring/framework/component"
	"github.com/km-arc/go-spring/framework/registry"
)

// ── Instance state ───────────────────────────────────────────────────────────

// State is the lifecycle state of a live instance.
type State int32

const (
	StateCreated State = iota
	StateInitializing
	StateReady
	StateDestroyed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// liveInstance is one singleton slot. The once latch makes construction
// at-most-once per name and memoizes the outcome — value or error — for
// every waiter and every later Get.
type liveInstance struct {
	name  string
	once  sync.Once
	value any
	err   error
	state atomic.Int32
}

func (li *liveInstance) setState(s State) { li.state.Store(int32(s)) }
func (li *liveInstance) getState() State  { return State(li.state.Load()) }

// ── Container ────────────────────────────────────────────────────────────────

// Container realizes descriptors from a registry.Store into live instances.
// It owns all singleton instances; the store itself never holds one.
//
// Resolution is safe for concurrent use. Hook registration and Start belong
// to the setup phase, before the first Get.
type Container struct {
	store *registry.Store
	log   logrus.FieldLogger

	preInit  []Hook
	postInit []Hook

	mu            sync.Mutex
	singletons    map[string]*liveInstance
	creationOrder []string
	closed        bool
}

// Option configures a Container at construction time.
type Option func(*Container)

// WithLogger sets the container's logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a container over the given descriptor store.
func New(store *registry.Store, opts ...Option) *Container {
	c := &Container{
		store:      store,
		log:        logrus.StandardLogger(),
		singletons: make(map[string]*liveInstance),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddPreInitHook appends a hook run after construction, before PostConstruct.
func (c *Container) AddPreInitHook(h Hook) {
	c.preInit = append(c.preInit, h)
}

// AddPostInitHook appends a hook run after PostConstruct.
func (c *Container) AddPostInitHook(h Hook) {
	c.postInit = append(c.postInit, h)
}

// ── Resolution ───────────────────────────────────────────────────────────────

// Get resolves an instance by name. Singletons are constructed once and
// cached; prototypes are built fresh on every call and not retained.
func (c *Container) Get(name string) (any, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	d, ok := c.store.Get(name)
	if !ok {
		return nil, NoSuchEntryError{Name: name}
	}

	if !d.Singleton() {
		// A prototype build racing Close may still hand back an instance
		// after the container closes. Ownership transfers to the caller on
		// return, so Close never has a half-initialized prototype to
		// destroy; the window is benign and left open.
		return c.build(name, d, nil)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	li, ok := c.singletons[name]
	if !ok {
		li = &liveInstance{name: name}
		c.singletons[name] = li
	}
	c.mu.Unlock()

	li.once.Do(func() {
		li.value, li.err = c.build(name, d, li)
		if li.err == nil {
			li.setState(StateReady)
			c.mu.Lock()
			c.creationOrder = append(c.creationOrder, name)
			c.mu.Unlock()
		}
	})
	return li.value, li.err
}

// GetByType resolves the single entry whose source type is assignable to t.
// With several assignable entries, exactly one marked Primary wins; otherwise
// the lookup fails with AmbiguousEntryError.
func (c *Container) GetByType(t reflect.Type) (any, error) {
	var matches []string
	var primaries []string
	c.store.Each(func(name string, d *component.Descriptor) bool {
		if d.Type != nil && d.Type.AssignableTo(t) {
			matches = append(matches, name)
			if d.Primary {
				primaries = append(primaries, name)
			}
		}
		return true
	})

	switch {
	case len(matches) == 0:
		return nil, NoSuchEntryError{Type: t}
	case len(matches) == 1:
		return c.Get(matches[0])
	case len(primaries) == 1:
		return c.Get(primaries[0])
	default:
		return nil, AmbiguousEntryError{Type: t, Candidates: matches}
	}
}

// GetTagged resolves every entry carrying the qualifier, in registration
// order.
//
//	// Spring: ListableBeanFactory.getBeansWithAnnotation, flattened to tags
func (c *Container) GetTagged(q component.Qualifier) ([]any, error) {
	var names []string
	c.store.Each(func(name string, d *component.Descriptor) bool {
		if d.HasQualifier(q) {
			names = append(names, name)
		}
		return true
	})
	out := make([]any, 0, len(names))
	for _, name := range names {
		v, err := c.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// build constructs and initializes one instance: factory → pre-init hooks →
// PostConstruct → post-init hooks. Each hook may replace the instance. On a
// hook or PostConstruct failure the instance stays Initializing and is never
// surfaced as Ready.
func (c *Container) build(name string, d *component.Descriptor, li *liveInstance) (any, error) {
	v, err := d.Factory()
	if err != nil {
		return nil, errors.Wrapf(err, "container: construct %q", name)
	}
	if li != nil {
		li.setState(StateCreated)
		li.setState(StateInitializing)
	}

	for _, h := range c.preInit {
		if v, err = h.Apply(v, name); err != nil {
			return nil, errors.Wrapf(err, "container: pre-init hook for %q", name)
		}
	}
	if pc, ok := v.(PostConstructor); ok {
		if err := pc.PostConstruct(); err != nil {
			return nil, errors.Wrapf(err, "container: post-construct for %q", name)
		}
	}
	for _, h := range c.postInit {
		if v, err = h.Apply(v, name); err != nil {
			return nil, errors.Wrapf(err, "container: post-init hook for %q", name)
		}
	}

	c.log.WithFields(logrus.Fields{"name": name, "scope": d.Scope}).Debug("container: instance ready")
	return v, nil
}

// ── Start / Close ────────────────────────────────────────────────────────────

// Start eagerly constructs all non-lazy singletons in registration order.
// Lazy singletons and prototypes wait for their first Get.
//
//	// Spring: DefaultListableBeanFactory.preInstantiateSingletons
func (c *Container) Start() error {
	var firstErr error
	c.store.Each(func(name string, d *component.Descriptor) bool {
		if !d.Singleton() || d.Lazy {
			return true
		}
		if _, err := c.Get(name); err != nil {
			firstErr = err
			return false
		}
		return true
	})
	return firstErr
}

// Close destroys all singleton instances in reverse creation order, invoking
// PreDestroy where declared, and marks the container closed: every later Get
// fails with ErrClosed. Close waits for in-flight construction to finish so
// it never destroys a half-initialized instance. Idempotent.
func (c *Container) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	inflight := make([]*liveInstance, 0, len(c.singletons))
	for _, li := range c.singletons {
		inflight = append(inflight, li)
	}
	c.mu.Unlock()

	// Blocks until any in-flight construction completes; a no-op for slots
	// that already ran their once.
	for _, li := range inflight {
		li.once.Do(func() { li.err = ErrClosed })
	}

	c.mu.Lock()
	order := make([]string, len(c.creationOrder))
	copy(order, c.creationOrder)
	c.mu.Unlock()

	var firstErr error
	for i := len(order) - 1; i >= 0; i-- {
		name := order[i]
		c.mu.Lock()
		li := c.singletons[name]
		c.mu.Unlock()
		if li == nil || li.getState() != StateReady {
			continue
		}
		if pd, ok := li.value.(PreDestroyer); ok {
			if err := pd.PreDestroy(); err != nil {
				err = errors.Wrapf(err, "container: pre-destroy for %q", name)
				c.log.WithError(err).Error("container: destroy callback failed")
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		li.setState(StateDestroyed)
		c.log.WithField("name", name).Debug("container: instance destroyed")
	}
	return firstErr
}

// ── Introspection ────────────────────────────────────────────────────────────

// EntryInfo is a read-only view of one registered entry and the state of its
// singleton instance, if any.
type EntryInfo struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Scope   component.Scope `json:"scope"`
	Primary bool            `json:"primary"`
	Lazy    bool            `json:"lazy"`
	State   string          `json:"state,omitempty"`
}

// Entries lists all registered entries in registration order. Prototype
// entries report no state; unresolved singletons report none either.
func (c *Container) Entries() []EntryInfo {
	var out []EntryInfo
	c.store.Each(func(name string, d *component.Descriptor) bool {
		info := EntryInfo{
			Name:    name,
			Scope:   d.Scope,
			Primary: d.Primary,
			Lazy:    d.Lazy,
		}
		if d.Type != nil {
			info.Type = d.Type.String()
		}
		if d.Singleton() {
			c.mu.Lock()
			li := c.singletons[name]
			c.mu.Unlock()
			// Entries runs concurrently with Get, so only the atomic state
			// is consulted here; value and err belong to the once.Do body.
			// Settled states only — construction in flight reports none.
			if li != nil {
				if s := li.getState(); s == StateReady || s == StateDestroyed {
					info.State = s.String()
				}
			}
		}
		out = append(out, info)
		return true
	})
	return out
}

// ── Generics helpers ─────────────────────────────────────────────────────────

// Resolve resolves by name and type-asserts the result.
//
//	w, err := container.Resolve[*Widget](c, "widget")
func Resolve[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("container: entry %q resolved to %T, want %T", name, v, zero)
	}
	return typed, nil
}

// ResolveType resolves by type using T as the lookup key.
//
//	greeter, err := container.ResolveType[Greeter](c)
func ResolveType[T any](c *Container) (T, error) {
	var zero T
	v, err := c.GetByType(component.TypeOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("container: type lookup resolved to %T, want %T", v, zero)
	}
	return typed, nil
}
