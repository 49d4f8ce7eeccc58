// Package module wires telemetry into the API using modkit
package module

import (
	"net/http"

	modkit "printfarm/internal/modkit"
	"printfarm/internal/modkit/httpkit"
	str "printfarm/internal/platform/strings"
	telhttp "printfarm/internal/services/api/telemetry/http"
	telrepo "printfarm/internal/services/api/telemetry/repo"
	telsvc "printfarm/internal/services/api/telemetry/service"
)

// Module implements the telemetry module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc telsvc.Service
}

// New constructs the telemetry module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("telemetry"),
		modkit.WithPrefix("/telemetry"),
	}, opts...)...)

	repo := telrepo.NewPG()
	svc := telsvc.New(deps.PG, repo, deps.CH, deps.Log)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptTelemetryPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		telhttp.Register(r, m.svc)
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
