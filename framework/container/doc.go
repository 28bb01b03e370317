// Package container is the runtime half of the kernel: it realizes stored
// descriptors into live instances, runs initialization hooks around
// construction, and owns singleton caching and teardown.
//
// # Lifecycle
//
//  1. Registration phase fills a registry.Store (single-threaded).
//  2. New(store) builds the container; hooks are added before first use.
//  3. Start() eagerly constructs non-lazy singletons, in registration order.
//  4. Get / Resolve serve lookups — safe for concurrent use.
//  5. Close() destroys singletons in reverse creation order.
//
// # Resolution
//
//	// by name
//	w, err := container.Resolve[*Widget](c, "widget")
//
//	// by type — exactly one assignable entry, or one marked Primary
//	w, err := container.ResolveType[*Widget](c)
//
// Singleton construction is at-most-once per name even under concurrent first
// access: waiters block on the winner's construction and then observe the
// same instance — or the same construction failure, which is memoized rather
// than silently retried.
//
// Hooks run synchronously on the calling goroutine. A hook that never returns
// stalls its caller; no timeout is applied.
package container
