// Package service contains printer management logic
package service

import (
	"context"
	"strings"

	"printfarm/internal/modkit/repokit"
	perr "printfarm/internal/platform/errors"
	"printfarm/internal/platform/logger"
	"printfarm/internal/services/api/printers/domain"
	"printfarm/internal/services/api/printers/repo"
)

// Service defines the printers service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the printers service
type Svc struct {
	Repo repo.Repo
	log  logger.Logger
}

// New constructs a printers service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], log logger.Logger) *Svc {
	if db == nil {
		panic("printers.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("printers.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), log: log}
}

// List returns all printers ordered by name
func (s *Svc) List(ctx context.Context) ([]domain.Printer, error) {
	return s.Repo.List(ctx)
}

// Get returns one printer by id
func (s *Svc) Get(ctx context.Context, id string) (domain.Printer, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Printer{}, perr.Validationf("printer id is required")
	}
	return s.Repo.Get(ctx, id)
}

// AssignSerial stores the dedicated hardware serial on a printer so the
// event resolver no longer depends on the notes token
func (s *Svc) AssignSerial(ctx context.Context, id string, in domain.AssignSerialInput) (domain.Printer, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Printer{}, perr.Validationf("printer id is required")
	}
	serial := strings.TrimSpace(in.BambuSerial)
	if serial == "" {
		return domain.Printer{}, perr.WithField(perr.Validationf("bambu_serial is required"), "bambu_serial")
	}

	p, err := s.Repo.SetSerial(ctx, id, serial)
	if err != nil {
		return domain.Printer{}, err
	}
	logger.C(ctx).Info().
		Str("printer_id", p.ID).
		Str("bambu_serial", serial).
		Msg("printer serial assigned")
	return p, nil
}
