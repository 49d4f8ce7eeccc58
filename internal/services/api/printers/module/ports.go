package module

import (
	"context"

	"printfarm/internal/services/api/printers/domain"
	prsvc "printfarm/internal/services/api/printers/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptPrintersPort struct{ svc prsvc.Service }

// List returns all printers
func (a adaptPrintersPort) List(ctx context.Context) ([]domain.Printer, error) {
	return a.svc.List(ctx)
}

// Get returns one printer
func (a adaptPrintersPort) Get(ctx context.Context, id string) (domain.Printer, error) {
	return a.svc.Get(ctx, id)
}

// AssignSerial stores the dedicated hardware serial
func (a adaptPrintersPort) AssignSerial(ctx context.Context, id string, in domain.AssignSerialInput) (domain.Printer, error) {
	return a.svc.AssignSerial(ctx, id, in)
}
