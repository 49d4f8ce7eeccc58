// Package service computes the night preload plan
package service

import (
	"context"
	"time"

	"printfarm/internal/core/nightwindow"
	"printfarm/internal/modkit/repokit"
	perr "printfarm/internal/platform/errors"
	"printfarm/internal/platform/logger"
	"printfarm/internal/services/api/nightplan/domain"
	"printfarm/internal/services/api/nightplan/repo"
)

// Service defines the nightplan service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the nightplan service
type Svc struct {
	Repo   repo.Repo
	window nightwindow.Config
	policy nightwindow.Policy
	log    logger.Logger
}

// New constructs a nightplan service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], window nightwindow.Config, policy nightwindow.Policy, log logger.Logger) *Svc {
	if db == nil {
		panic("nightplan.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("nightplan.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:   binder.Bind(db),
		window: window,
		policy: policy,
		log:    log,
	}
}

// ComputeNightPlan loads pending cycles and projects them onto the night
// window anchored at ref. No state is mutated
func (s *Svc) ComputeNightPlan(ctx context.Context, ref time.Time) (domain.Plan, error) {
	w := nightwindow.From(ref, s.window)

	pending, err := s.Repo.PendingCycles(ctx)
	if err != nil {
		return domain.Plan{}, perr.Wrapf(err, perr.ErrorCodeDB, "pending cycle lookup failed")
	}

	cycles := make([]nightwindow.Cycle, 0, len(pending))
	for _, c := range pending {
		cycles = append(cycles, nightwindow.Cycle{
			ID:          c.ID,
			PrinterID:   c.PrinterID,
			PrinterName: c.PrinterName,
			ProjectID:   c.ProjectID,
			ProjectName: c.ProjectName,
			Color:       c.Color,
			Start:       c.StartTime,
			End:         c.End(),
		})
	}

	plan := nightwindow.Plan(cycles, w, s.policy)
	logger.C(ctx).Debug().
		Time("window_start", w.Start).
		Time("window_end", w.End).
		Int("candidates", len(cycles)).
		Int("plates", plan.TotalPlatesNeeded).
		Bool("has_night_work", plan.HasNightWork).
		Msg("night plan computed")
	return plan, nil
}
