// Package service contains the cycle reconciliation workflow
package service

import (
	"context"
	"time"

	"printfarm/internal/core/reconcile"
	"printfarm/internal/core/serialmatch"
	"printfarm/internal/modkit/repokit"
	perr "printfarm/internal/platform/errors"
	"printfarm/internal/platform/logger"
	"printfarm/internal/platform/store"
	"printfarm/internal/services/api/telemetry/domain"
	"printfarm/internal/services/api/telemetry/repo"

	"github.com/google/uuid"
)

// PrinterStatusActive is the only coarse status this service ever writes.
// Idle tracking lives at the cycle level, not the printer level
const PrinterStatusActive = "active"

// AuditTable is the ClickHouse table receiving the event audit trail
const AuditTable = "printer_events"

// Service defines the telemetry service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the telemetry service
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	ch     store.Clickhouse
	log    logger.Logger
	locks  *printerLocks

	// seams for tests
	now        func() time.Time
	newEventID func() string
}

// New constructs a telemetry service.
// ch may be nil; the audit trail is best-effort and never blocks a response
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], ch store.Clickhouse, log logger.Logger) *Svc {
	if db == nil {
		panic("telemetry.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("telemetry.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:       binder.Bind(db),
		binder:     binder,
		db:         db,
		ch:         ch,
		log:        log,
		locks:      newPrinterLocks(),
		now:        time.Now,
		newEventID: uuid.NewString,
	}
}

// Reconcile consumes one hardware event and restores the recorded state to
// match physical reality. Structurally invalid events and unknown serials
// are terminal; everything else always yields a definitive response with
// anomalies surfaced as flags
func (s *Svc) Reconcile(ctx context.Context, in domain.EventInput) (domain.EventResult, error) {
	cmd, err := reconcile.ParseEvent(reconcile.EventInput{
		EventType:    in.EventType,
		Serial:       in.BambuSerial,
		Timestamp:    in.Timestamp,
		CycleID:      in.CycleID,
		GramsUsed:    in.GramsConsumed,
		PlannedUnits: in.PlannedUnits,
		GramsPerUnit: in.GramsPerUnit,
	}, s.now())
	if err != nil {
		return domain.EventResult{}, err
	}

	printers, err := s.Repo.ListPrinters(ctx)
	if err != nil {
		return domain.EventResult{}, perr.Wrapf(err, perr.ErrorCodeDB, "printer lookup failed")
	}

	candidates := make([]serialmatch.Candidate, 0, len(printers))
	for _, p := range printers {
		candidates = append(candidates, serialmatch.Candidate{
			ID:     p.ID,
			Name:   p.Name,
			Serial: p.Serial,
			Notes:  p.Notes,
		})
	}

	match, ok := serialmatch.Resolve(candidates, in.BambuSerial)
	if !ok {
		// the unmatched serial travels as a structured field beside the hint
		return domain.EventResult{}, perr.WithField(perr.WithHint(
			perr.NotFoundf("printer not found"),
			"assign bambu_serial "+in.BambuSerial+" to a printer or add bambu:"+in.BambuSerial+" to its notes",
		), in.BambuSerial)
	}

	unlock := s.locks.Lock(match.Printer.ID)
	defer unlock()

	var (
		res domain.EventResult
		tr  reconcile.Trace
	)
	switch c := cmd.(type) {
	case reconcile.Started:
		res = s.handleStarted(ctx, match.Printer, c, &tr)
	case reconcile.Finished:
		res = s.handleFinished(ctx, match.Printer, c, &tr)
	}
	res.Degraded = tr.Reasons()

	s.audit(ctx, in, res)
	return res, nil
}

// handleStarted runs the best-effort started pipeline: mark the printer
// active, sweep stale in_progress cycles, activate the earliest eligible
// cycle. A failed step is recorded and never aborts its siblings
func (s *Svc) handleStarted(ctx context.Context, p serialmatch.Candidate, cmd reconcile.Started, tr *reconcile.Trace) domain.EventResult {
	log := logger.C(ctx)

	if err := s.Repo.SetPrinterStatus(ctx, p.ID, PrinterStatusActive); err != nil {
		log.Warn().Err(err).Str("printer_id", p.ID).Msg("set printer active failed")
		tr.Degrade("printer_active", err)
	} else {
		tr.OK("printer_active")
	}

	// a new started event is proof the previous run ended, so any cycle
	// still in_progress here missed its finished event
	stale, err := s.Repo.InProgressCycles(ctx, p.ID)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("printer_id", p.ID).Msg("stale cycle sweep read failed")
		tr.Degrade("stale_sweep", err)
	case len(stale) == 0:
		tr.Skip("stale_sweep", "no in_progress cycles")
	default:
		swept := 0
		for _, c := range stale {
			done, cerr := s.Repo.CompleteCycle(ctx, c.ID, cmd.At, nil)
			if cerr != nil {
				log.Warn().Err(cerr).Str("cycle_id", c.ID).Msg("stale cycle close failed")
				tr.Degrade("stale_sweep", cerr)
				continue
			}
			if done {
				swept++
			}
		}
		if swept > 0 {
			log.Info().Int("swept", swept).Str("printer_id", p.ID).Msg("stale cycles closed")
		}
		tr.OK("stale_sweep")
	}

	next, err := s.Repo.NextEligibleCycle(ctx, p.ID)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("printer_id", p.ID).Msg("eligible cycle read failed")
		tr.Degrade("activate_cycle", err)
	case next == nil:
		// the printer runs without a tracked cycle; reported, not an error
		tr.Skip("activate_cycle", "no eligible cycle")
	default:
		activated, aerr := s.Repo.ActivateCycle(ctx, next.ID, cmd.At)
		if aerr != nil {
			log.Warn().Err(aerr).Str("cycle_id", next.ID).Msg("cycle activation failed")
			tr.Degrade("activate_cycle", aerr)
		} else if !activated {
			// a concurrent writer won the compare-and-set; no-op
			tr.Skip("activate_cycle", "cycle no longer eligible")
		} else {
			tr.OK("activate_cycle")
		}
	}

	return domain.EventResult{
		Success:     true,
		Event:       string(reconcile.EventStarted),
		PrinterID:   p.ID,
		PrinterName: p.Name,
	}
}

// handleFinished closes the printer's single in_progress cycle, resolving
// consumption through the fallback chain, and flags manual reconciliation
// when there is nothing to close
func (s *Svc) handleFinished(ctx context.Context, p serialmatch.Candidate, cmd reconcile.Finished, tr *reconcile.Trace) domain.EventResult {
	log := logger.C(ctx)

	res := domain.EventResult{
		Success:     true,
		Event:       string(reconcile.EventFinished),
		PrinterID:   p.ID,
		PrinterName: p.Name,
	}

	var grams *float64
	if cmd.Consumption.Resolved() {
		g := cmd.Consumption.Grams
		grams = &g
	}

	open, err := s.Repo.InProgressCycles(ctx, p.ID)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("printer_id", p.ID).Msg("in_progress lookup failed")
		tr.Degrade("complete_cycle", err)
		res.NeedsManualReconcile = true
	case len(open) == 0:
		// nothing to close; accept the event and flag it
		tr.Skip("complete_cycle", "no in_progress cycle")
		res.NeedsManualReconcile = true
	default:
		// by the exclusivity invariant at most one exists; take the oldest
		cycle := open[0]
		if grams == nil && cycle.GramsPlanned != nil {
			g := *cycle.GramsPlanned
			grams = &g
		}
		done, cerr := s.Repo.CompleteCycle(ctx, cycle.ID, cmd.At, grams)
		if cerr != nil {
			log.Warn().Err(cerr).Str("cycle_id", cycle.ID).Msg("cycle completion failed")
			tr.Degrade("complete_cycle", cerr)
			res.NeedsManualReconcile = true
		} else if !done {
			tr.Skip("complete_cycle", "cycle already closed")
			res.NeedsManualReconcile = true
		} else {
			tr.OK("complete_cycle")
			id := cycle.ID
			res.CycleID = &id
		}
	}
	res.GramsConsumed = grams

	if err := s.Repo.SetPrinterStatus(ctx, p.ID, PrinterStatusActive); err != nil {
		log.Warn().Err(err).Str("printer_id", p.ID).Msg("set printer active failed")
		tr.Degrade("printer_active", err)
	} else {
		tr.OK("printer_active")
	}

	return res
}

// audit appends the event to the columnar trail, best-effort
func (s *Svc) audit(ctx context.Context, in domain.EventInput, res domain.EventResult) {
	if s.ch == nil {
		return
	}
	var grams float64
	if res.GramsConsumed != nil {
		grams = *res.GramsConsumed
	}
	var cycleID string
	if res.CycleID != nil {
		cycleID = *res.CycleID
	}
	row := []any{
		s.newEventID(),
		in.EventType,
		in.BambuSerial,
		res.PrinterID,
		cycleID,
		grams,
		res.NeedsManualReconcile,
		len(res.Degraded) > 0,
		s.now().UTC(),
	}
	if err := s.ch.Insert(ctx, AuditTable, [][]any{row}); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("event audit insert failed")
	}
}

// RecentEvents reads the newest audit rows from the columnar store
func (s *Svc) RecentEvents(ctx context.Context, in domain.RecentInput) ([]domain.AuditRow, error) {
	if s.ch == nil {
		return nil, perr.Unavailablef("event audit store not configured")
	}
	limit := in.Limit
	if limit <= 0 {
		limit = 50
	}
	const sql = `
SELECT event_id, event_type, bambu_serial, printer_id, cycle_id,
       grams_consumed, needs_manual_reconcile, degraded, received_at
FROM printer_events
ORDER BY received_at DESC
LIMIT ?
`
	rows, err := s.ch.Query(ctx, sql, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditRow
	for rows.Next() {
		var r domain.AuditRow
		if err := rows.Scan(
			&r.EventID, &r.EventType, &r.BambuSerial, &r.PrinterID, &r.CycleID,
			&r.GramsConsumed, &r.NeedsManualReconcile, &r.Degraded, &r.ReceivedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
