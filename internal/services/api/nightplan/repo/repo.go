// Package repo provides the read-only postgres surface for night planning
package repo

import (
	"context"
	"time"

	"printfarm/internal/modkit/repokit"
)

// PendingCycle is one plannable cycle joined to its printer and project.
// ProjectName falls back to the raw project id when the project row is
// gone; Color is empty in that case
type PendingCycle struct {
	ID          string
	PrinterID   string
	PrinterName string
	ProjectID   string
	ProjectName string
	Color       string
	StartTime   time.Time
	CycleHours  float64
}

// End is the scheduled start plus the expected run time
func (c PendingCycle) End() time.Time {
	return c.StartTime.Add(time.Duration(c.CycleHours * float64(time.Hour)))
}

// Repo is the scheduler's persistence surface
type Repo interface {
	// PendingCycles returns every planned, scheduled or in_progress cycle
	// across all printers, ordered by start time
	PendingCycles(ctx context.Context) ([]PendingCycle, error)
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

func (r *queries) PendingCycles(ctx context.Context) ([]PendingCycle, error) {
	const sql = `
select c.id::text,
       c.printer_id::text,
       p.name,
       c.project_id::text,
       coalesce(pr.name, c.project_id::text),
       coalesce(pr.color, ''),
       c.start_time,
       coalesce(c.cycle_hours, 0)
from print_cycles c
join printers p on p.id = c.printer_id
left join projects pr on pr.id = c.project_id
where c.status in ('planned', 'scheduled', 'in_progress')
order by c.start_time asc, c.id asc
`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PendingCycle
	for rows.Next() {
		var c PendingCycle
		if err := rows.Scan(
			&c.ID, &c.PrinterID, &c.PrinterName,
			&c.ProjectID, &c.ProjectName, &c.Color,
			&c.StartTime, &c.CycleHours,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
