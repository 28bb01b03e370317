package providers

import (
	"github.com/km-arc/go-spring/framework/container"
	"github.com/km-arc/go-spring/framework/registry"
)

// ComponentSet bundles related component registrations, in two phases:
// Register declares descriptors, Boot runs after every set has registered and
// the container exists, so it may resolve anything.
//
// Every set must implement at minimum Register. Embed BaseSet to get a no-op
// Boot.
//
//	type AppSet struct{ providers.BaseSet }
//
//	func (s *AppSet) Register(r *registry.Registrar) error {
//	    return r.Register(component.Metadata{Type: component.TypeOf[*Mailer]()},
//	        func() (any, error) { return NewMailer(), nil })
//	}
type ComponentSet interface {
	// Register declares this set's descriptors. Do not resolve components
	// here — the container is not built yet.
	Register(r *registry.Registrar) error

	// Boot is called after all sets have registered. Safe to resolve any
	// component here.
	Boot(c *container.Container) error
}

// BaseSet is an embeddable struct providing a no-op Boot. Embed it and only
// override what you need.
type BaseSet struct{}

func (BaseSet) Boot(_ *container.Container) error { return nil }
