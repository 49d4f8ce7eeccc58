// Package repo provides postgres access for telemetry reconciliation.
// This is the sole writer of printer and cycle status transitions
package repo

import (
	"context"
	"time"

	"printfarm/internal/modkit/repokit"
)

// Printer is the reconciler's row view of a printer
type Printer struct {
	ID     string
	Name   string
	Serial string
	Notes  string
	Status string
}

// Cycle is the reconciler's row view of a planned cycle
type Cycle struct {
	ID           string
	PrinterID    string
	ProjectID    string
	Status       string
	StartTime    time.Time
	EndTime      *time.Time
	GramsPlanned *float64
}

// Repo is the minimal persistence surface for reconciliation
type Repo interface {
	// ListPrinters returns all printers for serial resolution
	ListPrinters(ctx context.Context) ([]Printer, error)

	// SetPrinterStatus updates the coarse printer status
	SetPrinterStatus(ctx context.Context, printerID, status string) error

	// InProgressCycles returns this printer's in_progress cycles, oldest first
	InProgressCycles(ctx context.Context, printerID string) ([]Cycle, error)

	// CompleteCycle closes a cycle with a compare-and-set on its current
	// status; returns false when another writer got there first
	CompleteCycle(ctx context.Context, cycleID string, endAt time.Time, grams *float64) (bool, error)

	// NextEligibleCycle returns the earliest planned or scheduled cycle for
	// the printer, or nil when none exists
	NextEligibleCycle(ctx context.Context, printerID string) (*Cycle, error)

	// ActivateCycle flips an eligible cycle to in_progress with a
	// compare-and-set; returns false when the cycle was no longer eligible
	ActivateCycle(ctx context.Context, cycleID string, startAt time.Time) (bool, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) ListPrinters(ctx context.Context) ([]Printer, error) {
	const sql = `
select id::text, name, coalesce(bambu_serial, ''), coalesce(notes, ''), status
from printers
order by name asc, id asc
`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Printer
	for rows.Next() {
		var p Printer
		if err := rows.Scan(&p.ID, &p.Name, &p.Serial, &p.Notes, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *queries) SetPrinterStatus(ctx context.Context, printerID, status string) error {
	const sql = `
update printers
set status = $2, updated_at = now()
where id = $1
`
	_, err := r.q.Exec(ctx, sql, printerID, status)
	return err
}

func (r *queries) InProgressCycles(ctx context.Context, printerID string) ([]Cycle, error) {
	const sql = `
select id::text, printer_id::text, project_id::text, status, start_time, end_time, grams_planned
from print_cycles
where printer_id = $1 and status = 'in_progress'
order by start_time asc, id asc
`
	rows, err := r.q.Query(ctx, sql, printerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Cycle
	for rows.Next() {
		var c Cycle
		if err := rows.Scan(&c.ID, &c.PrinterID, &c.ProjectID, &c.Status, &c.StartTime, &c.EndTime, &c.GramsPlanned); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *queries) CompleteCycle(ctx context.Context, cycleID string, endAt time.Time, grams *float64) (bool, error) {
	const sql = `
update print_cycles
set status = 'completed',
    end_time = $2,
    grams_consumed = coalesce($3, grams_consumed),
    updated_at = now()
where id = $1 and status = 'in_progress'
`
	tag, err := r.q.Exec(ctx, sql, cycleID, endAt, grams)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *queries) NextEligibleCycle(ctx context.Context, printerID string) (*Cycle, error) {
	const sql = `
select id::text, printer_id::text, project_id::text, status, start_time, end_time, grams_planned
from print_cycles
where printer_id = $1 and status in ('planned', 'scheduled')
order by start_time asc, id asc
limit 1
`
	rows, err := r.q.Query(ctx, sql, printerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	var c Cycle
	if err := rows.Scan(&c.ID, &c.PrinterID, &c.ProjectID, &c.Status, &c.StartTime, &c.EndTime, &c.GramsPlanned); err != nil {
		return nil, err
	}
	return &c, rows.Err()
}

func (r *queries) ActivateCycle(ctx context.Context, cycleID string, startAt time.Time) (bool, error) {
	const sql = `
update print_cycles
set status = 'in_progress', start_time = $2, updated_at = now()
where id = $1 and status in ('planned', 'scheduled')
`
	tag, err := r.q.Exec(ctx, sql, cycleID, startAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
