package module

import (
	"context"
	"time"

	"printfarm/internal/services/api/nightplan/domain"
	npsvc "printfarm/internal/services/api/nightplan/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptNightplanPort struct{ svc npsvc.Service }

// ComputeNightPlan projects pending cycles onto tonight's window
func (a adaptNightplanPort) ComputeNightPlan(ctx context.Context, ref time.Time) (domain.Plan, error) {
	return a.svc.ComputeNightPlan(ctx, ref)
}
