// Package api provides the HTTP API for the application
package api

import (
	"printfarm/internal/platform/config"
	"printfarm/internal/platform/logger"
	phttp "printfarm/internal/platform/net/http"
	"printfarm/internal/platform/store"

	"printfarm/internal/modkit"
	"printfarm/internal/modkit/httpkit"
	"printfarm/internal/modkit/module"
	"printfarm/internal/modkit/swaggerkit"

	cyclesmod "printfarm/internal/services/api/cycles/module"
	metamod "printfarm/internal/services/api/meta/module"
	nightplanmod "printfarm/internal/services/api/nightplan/module"
	printersmod "printfarm/internal/services/api/printers/module"
	telemetrymod "printfarm/internal/services/api/telemetry/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	mods := []module.Module{
		metamod.New(deps),
		telemetrymod.New(deps),
		nightplanmod.New(deps),
		printersmod.New(deps),
		cyclesmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
