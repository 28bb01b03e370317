package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/km-arc/go-spring/framework/app"
	"github.com/km-arc/go-spring/framework/component"
	"github.com/km-arc/go-spring/framework/container"
	gohttp "github.com/km-arc/go-spring/framework/http"
	"github.com/km-arc/go-spring/framework/providers"
	"github.com/km-arc/go-spring/framework/registry"
)

// ── Demo components ──────────────────────────────────────────────────────────

// Greeter is the capability both greeter components provide.
type Greeter interface {
	Greet(who string) string
}

type EnglishGreeter struct{}

func (g *EnglishGreeter) Greet(who string) string { return "Hello, " + who + "!" }

type PirateGreeter struct{}

func (g *PirateGreeter) Greet(who string) string { return "Ahoy, " + who + "!" }

// UserService declares init and destroy behavior, the way the original study
// project's service did.
type UserService struct {
	log   *logrus.Logger
	Ready bool
}

func (s *UserService) PostConstruct() error {
	s.Ready = true
	s.log.Info("userService: init")
	return nil
}

func (s *UserService) PreDestroy() error {
	s.log.Info("userService: destroy")
	return nil
}

// ── Demo component set ───────────────────────────────────────────────────────

type DemoSet struct {
	providers.BaseSet
	log *logrus.Logger
}

func (s *DemoSet) Register(r *registry.Registrar) error {
	if err := r.Register(
		component.Metadata{Type: component.TypeOf[*EnglishGreeter]()},
		func() (any, error) { return &EnglishGreeter{}, nil },
	); err != nil {
		return err
	}

	// Two Greeter candidates: the pirate one wins type lookup via Primary.
	if err := r.Register(
		component.Metadata{Type: component.TypeOf[*PirateGreeter]()},
		func() (any, error) { return &PirateGreeter{}, nil },
		registry.WithQualifiers(component.QualifierPrimary),
	); err != nil {
		return err
	}

	log := s.log
	return r.Register(
		component.Metadata{Type: component.TypeOf[*UserService]()},
		func() (any, error) { return &UserService{log: log}, nil },
		registry.WithName("userService"),
	)
}

func main() {
	log := logrus.New()
	application := app.New() // loads .env automatically

	application.Register(&DemoSet{log: log})

	// Before/after-init callbacks around the named service, as in the study
	// project's custom post-processor.
	application.AddPreInitHook(container.HookFunc(func(v any, name string) (any, error) {
		if name == "userService" {
			log.Info("userService: before init")
		}
		return v, nil
	}))
	application.AddPostInitHook(container.HookFunc(func(v any, name string) (any, error) {
		if name == "userService" {
			log.Info("userService: after init")
		}
		return v, nil
	}))

	if err := application.Boot(); err != nil {
		log.WithError(err).Fatal("boot failed")
	}

	router, err := application.Router()
	if err != nil {
		log.WithError(err).Fatal("router missing")
	}

	// GET /components — every registered entry and its instance state
	router.Get("/components", func(w http.ResponseWriter, req *http.Request) {
		gohttp.NewResponse(w).Success(application.Container.Entries())
	})

	// GET /greet — type-based lookup; Primary picks the pirate greeter
	router.Get("/greet", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		greeter, err := container.ResolveType[Greeter](application.Container)
		if err != nil {
			res.ServerError(err.Error())
			return
		}
		who := req.URL.Query().Get("who")
		if who == "" {
			who = "world"
		}
		res.Success(map[string]any{"greeting": greeter.Greet(who)})
	})

	if err := application.Run(); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
