// Package module wires nightplan into the API using modkit
package module

import (
	"net/http"

	"printfarm/internal/core/nightwindow"
	modkit "printfarm/internal/modkit"
	"printfarm/internal/modkit/httpkit"
	str "printfarm/internal/platform/strings"
	nphttp "printfarm/internal/services/api/nightplan/http"
	nprepo "printfarm/internal/services/api/nightplan/repo"
	npsvc "printfarm/internal/services/api/nightplan/service"
)

// Module implements the nightplan module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc npsvc.Service
}

// New constructs the nightplan module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("nightplan"),
		modkit.WithPrefix("/nightplan"),
	}, opts...)...)

	cfg := deps.Cfg.Prefix("NIGHTPLAN_")
	window := nightwindow.Config{
		StartHour: cfg.MayInt("START_HOUR", nightwindow.DefaultConfig().StartHour),
		EndHour:   cfg.MayInt("END_HOUR", nightwindow.DefaultConfig().EndHour),
	}
	policy := nightwindow.Policy{
		CountFirstCycle: cfg.MayBool("COUNT_FIRST_CYCLE", false),
	}

	repo := nprepo.NewPG()
	svc := npsvc.New(deps.PG, repo, window, policy, deps.Log)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptNightplanPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		nphttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
