package module

import (
	"context"

	"printfarm/internal/services/api/cycles/domain"
	cycsvc "printfarm/internal/services/api/cycles/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptCyclesPort struct{ svc cycsvc.Service }

// List returns one page of cycles matching the filter
func (a adaptCyclesPort) List(ctx context.Context, in domain.ListInput) (domain.ListResult, error) {
	return a.svc.List(ctx, in)
}
