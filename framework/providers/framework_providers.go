package providers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-spring/framework/component"
	"github.com/km-arc/go-spring/framework/config"
	"github.com/km-arc/go-spring/framework/container"
	"github.com/km-arc/go-spring/framework/registry"
)

// ── ConfigSet ────────────────────────────────────────────────────────────────

// ConfigSet loads the application configuration from .env and registers it
// as the "config" component.
type ConfigSet struct {
	BaseSet
	EnvFiles []string
}

func (s *ConfigSet) Register(r *registry.Registrar) error {
	envFiles := s.EnvFiles
	return r.Register(
		component.Metadata{Type: component.TypeOf[*config.Config]()},
		func() (any, error) { return config.Load(envFiles...), nil },
		registry.WithName("config"),
	)
}

// ── LoggingSet ───────────────────────────────────────────────────────────────

// LoggingSet registers a logrus logger as the "logger" component. The level
// is applied in Boot, once the config component is resolvable.
type LoggingSet struct{}

func (s *LoggingSet) Register(r *registry.Registrar) error {
	return r.Register(
		component.Metadata{Type: component.TypeOf[*logrus.Logger]()},
		func() (any, error) { return logrus.New(), nil },
		registry.WithName("logger"),
	)
}

func (s *LoggingSet) Boot(c *container.Container) error {
	cfg, err := container.Resolve[*config.Config](c, "config")
	if err != nil {
		return err
	}
	log, err := container.Resolve[*logrus.Logger](c, "logger")
	if err != nil {
		return err
	}
	level, err := logrus.ParseLevel(cfg.Kernel.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return nil
}

// ── RouterSet ────────────────────────────────────────────────────────────────

// RouterSet registers the HTTP router as the "router" component, with the
// same default middleware the framework has always shipped (Recoverer,
// RealIP).
type RouterSet struct {
	BaseSet
}

func (s *RouterSet) Register(r *registry.Registrar) error {
	return r.Register(
		component.Metadata{Type: component.TypeOf[*chi.Mux]()},
		func() (any, error) {
			mux := chi.NewRouter()
			mux.Use(middleware.Recoverer)
			mux.Use(middleware.RealIP)
			return mux, nil
		},
		registry.WithName("router"),
	)
}
