package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-spring/framework/config"
	"github.com/km-arc/go-spring/framework/container"
	"github.com/km-arc/go-spring/framework/providers"
	"github.com/km-arc/go-spring/framework/registry"
)

// Application is the top-level kernel. It owns the descriptor store, the
// Registrar filling it, and the Container realizing it, and drives component
// sets through their register and boot phases.
type Application struct {
	Registrar *registry.Registrar
	Container *container.Container

	sets   []providers.ComponentSet
	booted bool
	log    *logrus.Logger
}

// New creates the application and queues the framework core sets (config,
// logging, router) ahead of any user sets.
func New(envFiles ...string) *Application {
	log := logrus.New()
	store := registry.NewStore()

	a := &Application{
		Registrar: registry.NewRegistrar(store, registry.WithLogger(log)),
		Container: container.New(store, container.WithLogger(log)),
		log:       log,
	}

	a.Register(&providers.ConfigSet{EnvFiles: envFiles})
	a.Register(&providers.LoggingSet{})
	a.Register(&providers.RouterSet{})

	return a
}

// Register queues a ComponentSet. Sets registered after Boot run both phases
// immediately; registration errors then surface on the application log.
func (a *Application) Register(set providers.ComponentSet) {
	a.sets = append(a.sets, set)
	if a.booted {
		if err := set.Register(a.Registrar); err != nil {
			a.log.WithError(err).Error("app: late set registration failed")
			return
		}
		if err := set.Boot(a.Container); err != nil {
			a.log.WithError(err).Error("app: late set boot failed")
		}
	}
}

// AddPreInitHook registers a hook run before each component's PostConstruct.
func (a *Application) AddPreInitHook(h container.Hook) {
	a.Container.AddPreInitHook(h)
}

// AddPostInitHook registers a hook run after each component's PostConstruct.
func (a *Application) AddPostInitHook(h container.Hook) {
	a.Container.AddPostInitHook(h)
}

// Boot runs the register phase of every queued set, eagerly starts the
// container (unless disabled via KERNEL_EAGER_INIT), then runs the boot
// phase. Idempotent.
func (a *Application) Boot() error {
	if a.booted {
		return nil
	}
	for _, set := range a.sets {
		if err := set.Register(a.Registrar); err != nil {
			return err
		}
	}

	cfg, err := a.config()
	if err != nil {
		return err
	}
	if cfg.Kernel.EagerInit {
		if err := a.Container.Start(); err != nil {
			return err
		}
	}

	for _, set := range a.sets {
		if err := set.Boot(a.Container); err != nil {
			return err
		}
	}
	a.booted = true
	return nil
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() error {
	if err := a.Boot(); err != nil {
		return err
	}
	cfg, err := a.config()
	if err != nil {
		return err
	}
	router, err := container.Resolve[*chi.Mux](a.Container, "router")
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	a.log.WithFields(logrus.Fields{
		"app":  cfg.App.Name,
		"addr": addr,
		"env":  cfg.App.Env,
	}).Info("app: listening")
	return http.ListenAndServe(addr, router)
}

// Close tears down the container: singletons are destroyed in reverse
// creation order and later resolutions fail.
func (a *Application) Close() error {
	return a.Container.Close()
}

// Config resolves the "config" component.
func (a *Application) Config() (*config.Config, error) { return a.config() }

// Router resolves the "router" component.
func (a *Application) Router() (*chi.Mux, error) {
	return container.Resolve[*chi.Mux](a.Container, "router")
}

// Environment returns the APP_ENV value, or "" if config cannot resolve.
func (a *Application) Environment() string {
	cfg, err := a.config()
	if err != nil {
		return ""
	}
	return cfg.App.Env
}

func (a *Application) IsLocal() bool      { return a.Environment() == "local" }
func (a *Application) IsProduction() bool { return a.Environment() == "production" }
func (a *Application) IsTesting() bool    { return a.Environment() == "testing" }

func (a *Application) config() (*config.Config, error) {
	return container.Resolve[*config.Config](a.Container, "config")
}
