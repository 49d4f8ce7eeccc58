package module

import (
	"context"

	"printfarm/internal/services/api/telemetry/domain"
	telsvc "printfarm/internal/services/api/telemetry/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptTelemetryPort struct{ svc telsvc.Service }

// Reconcile consumes one hardware event
func (a adaptTelemetryPort) Reconcile(ctx context.Context, in domain.EventInput) (domain.EventResult, error) {
	return a.svc.Reconcile(ctx, in)
}

// RecentEvents reads the newest audit rows
func (a adaptTelemetryPort) RecentEvents(ctx context.Context, in domain.RecentInput) ([]domain.AuditRow, error) {
	return a.svc.RecentEvents(ctx, in)
}
