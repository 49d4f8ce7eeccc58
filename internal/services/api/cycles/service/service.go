// Package service pages the cycle feed
package service

import (
	"context"

	"printfarm/internal/modkit/repokit"
	perr "printfarm/internal/platform/errors"
	"printfarm/internal/platform/logger"
	"printfarm/internal/services/api/cycles/domain"
	"printfarm/internal/services/api/cycles/repo"
)

// DefaultPageSize bounds an unspecified page
const DefaultPageSize = 50

// Service defines the cycles service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the cycles service
type Svc struct {
	Repo repo.Repo
	log  logger.Logger
}

// New constructs a cycles service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], log logger.Logger) *Svc {
	if db == nil {
		panic("cycles.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("cycles.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db), log: log}
}

// List returns one page of cycles matching the filter
func (s *Svc) List(ctx context.Context, in domain.ListInput) (domain.ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 {
		size = DefaultPageSize
	}

	f := repo.Filter{
		PrinterID: in.PrinterID,
		Status:    in.Status,
		Limit:     size,
		Offset:    (page - 1) * size,
	}

	items, err := s.Repo.List(ctx, f)
	if err != nil {
		return domain.ListResult{}, perr.Wrapf(err, perr.ErrorCodeDB, "cycle feed lookup failed")
	}
	total, err := s.Repo.Count(ctx, f)
	if err != nil {
		return domain.ListResult{}, perr.Wrapf(err, perr.ErrorCodeDB, "cycle feed count failed")
	}

	return domain.ListResult{Items: items, Total: total, Page: page, Size: size}, nil
}
