package container_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-spring/framework/component"
	"github.com/km-arc/go-spring/framework/container"
	"github.com/km-arc/go-spring/framework/registry"
)

// ── fixtures ─────────────────────────────────────────────────────────────────

type Widget struct{ ID int }

type Greeter interface{ Greet() string }

type englishGreeter struct{}

func (englishGreeter) Greet() string { return "hello" }

type pirateGreeter struct{}

func (pirateGreeter) Greet() string { return "ahoy" }

// tracked records lifecycle callbacks for assertions.
type tracked struct {
	name      string
	events    *[]string
	destroyed int
}

func (s *tracked) PostConstruct() error {
	*s.events = append(*s.events, "init:"+s.name)
	return nil
}

func (s *tracked) PreDestroy() error {
	s.destroyed++
	*s.events = append(*s.events, "destroy:"+s.name)
	return nil
}

func setup(t *testing.T) (*registry.Registrar, *container.Container) {
	t.Helper()
	store := registry.NewStore()
	return registry.NewRegistrar(store), container.New(store)
}

// ── Singleton / prototype semantics ──────────────────────────────────────────

func TestGet_SingletonIsCached(t *testing.T) {
	r, c := setup(t)
	var calls int32
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) {
			atomic.AddInt32(&calls, 1)
			return &Widget{}, nil
		}))

	first, err := c.Get("widget")
	require.NoError(t, err)
	second, err := c.Get("widget")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, calls)
}

func TestGet_PrototypeIsFreshPerCall(t *testing.T) {
	r, c := setup(t)
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget](), Scope: component.ScopePrototype},
		func() (any, error) { return &Widget{}, nil }))

	seen := make(map[any]bool)
	for i := 0; i < 5; i++ {
		v, err := c.Get("widget")
		require.NoError(t, err)
		seen[v] = true
	}
	assert.Len(t, seen, 5)
}

func TestGet_UnknownNameFails(t *testing.T) {
	_, c := setup(t)

	_, err := c.Get("nope")

	var missing container.NoSuchEntryError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "nope", missing.Name)
}

func TestGet_ConcurrentFirstAccessConstructsOnce(t *testing.T) {
	r, c := setup(t)
	var calls int32
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) {
			atomic.AddInt32(&calls, 1)
			return &Widget{}, nil
		}))

	const n = 32
	results := make([]any, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Get("widget")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}
	assert.EqualValues(t, 1, calls, "factory must run at most once")
	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestGet_ConcurrentWaitersObserveSameFailure(t *testing.T) {
	r, c := setup(t)
	boom := errors.New("boom")
	var calls int32
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) {
			atomic.AddInt32(&calls, 1)
			return nil, boom
		}))

	const n = 16
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Get("widget")
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls, "failure must not be silently retried")
	for i := 0; i < n; i++ {
		require.ErrorIs(t, errs[i], boom)
	}
}

// ── Type lookup ──────────────────────────────────────────────────────────────

func TestResolveType_RoundTripsWithName(t *testing.T) {
	r, c := setup(t)
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) { return &Widget{ID: 1}, nil }))

	byType, err := container.ResolveType[*Widget](c)
	require.NoError(t, err)
	byName, err := container.Resolve[*Widget](c, "widget")
	require.NoError(t, err)

	assert.Same(t, byType, byName)
}

func TestResolveType_AmbiguousWithoutPrimary(t *testing.T) {
	r, c := setup(t)
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[englishGreeter]()},
		func() (any, error) { return englishGreeter{}, nil }))
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[pirateGreeter]()},
		func() (any, error) { return pirateGreeter{}, nil }))

	_, err := container.ResolveType[Greeter](c)

	var ambiguous container.AmbiguousEntryError
	require.ErrorAs(t, err, &ambiguous)
	assert.ElementsMatch(t, []string{"englishGreeter", "pirateGreeter"}, ambiguous.Candidates)
}

func TestResolveType_PrimaryWins(t *testing.T) {
	r, c := setup(t)
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[englishGreeter]()},
		func() (any, error) { return englishGreeter{}, nil }))
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[pirateGreeter]()},
		func() (any, error) { return pirateGreeter{}, nil },
		registry.WithQualifiers(component.QualifierPrimary)))

	g, err := container.ResolveType[Greeter](c)
	require.NoError(t, err)
	assert.Equal(t, "ahoy", g.Greet())
}

func TestResolveType_NoMatchFails(t *testing.T) {
	_, c := setup(t)

	_, err := container.ResolveType[Greeter](c)

	var missing container.NoSuchEntryError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, component.TypeOf[Greeter](), missing.Type)
}

func TestGetTagged(t *testing.T) {
	r, c := setup(t)
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[englishGreeter]()},
		func() (any, error) { return englishGreeter{}, nil },
		registry.WithQualifiers("greeters")))
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[pirateGreeter]()},
		func() (any, error) { return pirateGreeter{}, nil },
		registry.WithQualifiers("greeters")))
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) { return &Widget{}, nil }))

	tagged, err := c.GetTagged("greeters")
	require.NoError(t, err)
	assert.Len(t, tagged, 2)
}

// ── Hooks and initialization order ───────────────────────────────────────────

func TestHooks_RunAroundPostConstruct(t *testing.T) {
	r, c := setup(t)
	var events []string
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*tracked]()},
		func() (any, error) { return &tracked{name: "svc", events: &events}, nil },
		registry.WithName("svc")))

	c.AddPreInitHook(container.HookFunc(func(v any, name string) (any, error) {
		events = append(events, "pre:"+name)
		return v, nil
	}))
	c.AddPostInitHook(container.HookFunc(func(v any, name string) (any, error) {
		events = append(events, "post:"+name)
		return v, nil
	}))

	_, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, []string{"pre:svc", "init:svc", "post:svc"}, events)
}

func TestHooks_MayReplaceInstance(t *testing.T) {
	r, c := setup(t)
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) { return &Widget{ID: 1}, nil }))

	replacement := &Widget{ID: 99}
	c.AddPostInitHook(container.HookFunc(func(v any, name string) (any, error) {
		return replacement, nil
	}))

	v, err := c.Get("widget")
	require.NoError(t, err)
	assert.Same(t, replacement, v)

	// The replaced value is what gets cached
	again, err := c.Get("widget")
	require.NoError(t, err)
	assert.Same(t, replacement, again)
}

func TestHooks_FailureIsNotCachedAsReady(t *testing.T) {
	r, c := setup(t)
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) { return &Widget{}, nil }))

	hookErr := errors.New("hook failed")
	c.AddPreInitHook(container.HookFunc(func(v any, name string) (any, error) {
		return nil, hookErr
	}))

	_, err := c.Get("widget")
	require.ErrorIs(t, err, hookErr)

	// No entry may surface as ready after an init failure
	for _, e := range c.Entries() {
		assert.NotEqual(t, container.StateReady.String(), e.State)
	}

	// The failure is memoized for later calls too
	_, err = c.Get("widget")
	require.ErrorIs(t, err, hookErr)
}

// ── Start ────────────────────────────────────────────────────────────────────

func TestStart_EagerlyBuildsNonLazySingletons(t *testing.T) {
	r, c := setup(t)
	var eager, lazy, proto int32
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) { atomic.AddInt32(&eager, 1); return &Widget{}, nil },
		registry.WithName("eager")))
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) { atomic.AddInt32(&lazy, 1); return &Widget{}, nil },
		registry.WithName("lazy"),
		registry.WithQualifiers(component.QualifierLazy)))
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget](), Scope: component.ScopePrototype},
		func() (any, error) { atomic.AddInt32(&proto, 1); return &Widget{}, nil },
		registry.WithName("proto")))

	require.NoError(t, c.Start())

	assert.EqualValues(t, 1, eager)
	assert.EqualValues(t, 0, lazy, "lazy singleton waits for first Get")
	assert.EqualValues(t, 0, proto, "prototypes are never eagerly built")
}

// ── Close ────────────────────────────────────────────────────────────────────

func TestClose_DestroysInReverseCreationOrder(t *testing.T) {
	r, c := setup(t)
	var events []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		require.NoError(t, r.Register(
			component.Metadata{Type: component.TypeOf[*tracked]()},
			func() (any, error) { return &tracked{name: name, events: &events}, nil },
			registry.WithName(name)))
	}

	for _, name := range []string{"a", "b", "c"} {
		_, err := c.Get(name)
		require.NoError(t, err)
	}

	events = nil
	require.NoError(t, c.Close())
	assert.Equal(t, []string{"destroy:c", "destroy:b", "destroy:a"}, events)
}

func TestClose_DestroyRunsExactlyOnce(t *testing.T) {
	r, c := setup(t)
	var events []string
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*tracked]()},
		func() (any, error) { return &tracked{name: "svc", events: &events}, nil },
		registry.WithName("svc")))

	v, err := c.Get("svc")
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close()) // idempotent

	assert.Equal(t, 1, v.(*tracked).destroyed)
}

func TestClose_GetFailsAfterwards(t *testing.T) {
	r, c := setup(t)
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) { return &Widget{}, nil }))
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget](), Scope: component.ScopePrototype},
		func() (any, error) { return &Widget{}, nil },
		registry.WithName("proto")))

	require.NoError(t, c.Close())

	_, err := c.Get("widget")
	assert.ErrorIs(t, err, container.ErrClosed)
	_, err = c.Get("proto")
	assert.ErrorIs(t, err, container.ErrClosed)
}

func TestClose_UnbuiltSingletonGetsNoDestroy(t *testing.T) {
	r, c := setup(t)
	var events []string
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*tracked]()},
		func() (any, error) { return &tracked{name: "never", events: &events}, nil },
		registry.WithName("never")))

	require.NoError(t, c.Close())
	assert.Empty(t, events)
}

// slowService blocks inside its factory until released, so tests can hold a
// construction in flight while racing Close against it.
type slowService struct {
	initDone           *atomic.Bool
	destroys           *atomic.Int32
	destroyedAfterInit *atomic.Bool
}

func (s *slowService) PostConstruct() error {
	s.initDone.Store(true)
	return nil
}

func (s *slowService) PreDestroy() error {
	s.destroys.Add(1)
	s.destroyedAfterInit.Store(s.initDone.Load())
	return nil
}

func TestClose_WaitsForInFlightConstruction(t *testing.T) {
	r, c := setup(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var initDone, destroyedAfterInit atomic.Bool
	var destroys atomic.Int32

	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*slowService]()},
		func() (any, error) {
			close(started)
			<-release
			return &slowService{
				initDone:           &initDone,
				destroys:           &destroys,
				destroyedAfterInit: &destroyedAfterInit,
			}, nil
		},
		registry.WithName("slow")))

	getDone := make(chan error, 1)
	go func() {
		_, err := c.Get("slow")
		getDone <- err
	}()
	<-started

	closeDone := make(chan error, 1)
	go func() { closeDone <- c.Close() }()

	// Close must block on the in-flight construction, not destroy around it.
	select {
	case <-closeDone:
		t.Fatal("Close returned while construction was still in flight")
	case <-time.After(50 * time.Millisecond):
	}
	assert.EqualValues(t, 0, destroys.Load(), "nothing to destroy before construction finishes")

	close(release)
	require.NoError(t, <-getDone)
	require.NoError(t, <-closeDone)

	assert.EqualValues(t, 1, destroys.Load(), "destroy must run exactly once")
	assert.True(t, destroyedAfterInit.Load(), "destroy must see a fully initialized instance")
}

// ── Introspection ────────────────────────────────────────────────────────────

func TestEntries(t *testing.T) {
	r, c := setup(t)
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) { return &Widget{}, nil }))
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget](), Scope: component.ScopePrototype},
		func() (any, error) { return &Widget{}, nil },
		registry.WithName("proto")))

	_, err := c.Get("widget")
	require.NoError(t, err)

	entries := c.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, "widget", entries[0].Name)
	assert.Equal(t, component.ScopeSingleton, entries[0].Scope)
	assert.Equal(t, container.StateReady.String(), entries[0].State)

	assert.Equal(t, "proto", entries[1].Name)
	assert.Equal(t, component.ScopePrototype, entries[1].Scope)
	assert.Empty(t, entries[1].State)
}

func TestEntries_SafeDuringConcurrentConstruction(t *testing.T) {
	r, c := setup(t)
	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) {
			close(started)
			<-release
			return &Widget{}, nil
		}))

	done := make(chan error, 1)
	go func() {
		_, err := c.Get("widget")
		done <- err
	}()

	// Introspect repeatedly while construction is in flight; the entry must
	// never surface a settled state before initialization completes.
	<-started
	for i := 0; i < 100; i++ {
		for _, e := range c.Entries() {
			assert.Empty(t, e.State, "in-flight construction must report no state")
		}
	}

	close(release)
	require.NoError(t, <-done)

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, container.StateReady.String(), entries[0].State)
}

// ── Generic helpers ──────────────────────────────────────────────────────────

func TestResolve_WrongTypeFails(t *testing.T) {
	r, c := setup(t)
	require.NoError(t, r.Register(
		component.Metadata{Type: component.TypeOf[*Widget]()},
		func() (any, error) { return &Widget{}, nil }))

	_, err := container.Resolve[*tracked](c, "widget")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolved to")
}
