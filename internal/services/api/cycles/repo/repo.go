// Package repo provides read access to the cycle feed
package repo

import (
	"context"
	"fmt"

	"printfarm/internal/modkit/repokit"
	"printfarm/internal/services/api/cycles/domain"
)

// Filter narrows the feed query
type Filter struct {
	PrinterID string
	Status    string
	Limit     int
	Offset    int
}

// Repo is the cycle feed persistence surface
type Repo interface {
	// List returns matching cycles ordered by start_time
	List(ctx context.Context, f Filter) ([]domain.Cycle, error)

	// Count returns the number of cycles matching the filter
	Count(ctx context.Context, f Filter) (int, error)
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

// where builds the filter clause with positional args starting at $1
func where(f Filter) (string, []any) {
	clause := "where 1=1"
	var args []any
	if f.PrinterID != "" {
		args = append(args, f.PrinterID)
		clause += fmt.Sprintf(" and c.printer_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		clause += fmt.Sprintf(" and c.status = $%d", len(args))
	}
	return clause, args
}

func (r *queries) List(ctx context.Context, f Filter) ([]domain.Cycle, error) {
	clause, args := where(f)

	args = append(args, f.Limit)
	limit := fmt.Sprintf("limit $%d", len(args))
	args = append(args, f.Offset)
	offset := fmt.Sprintf("offset $%d", len(args))

	sql := `
select c.id::text,
       c.printer_id::text,
       p.name,
       c.project_id::text,
       coalesce(pr.name, c.project_id::text),
       coalesce(pr.color, ''),
       c.status,
       c.start_time,
       c.end_time,
       coalesce(c.cycle_hours, 0),
       c.grams_planned,
       c.grams_consumed
from print_cycles c
join printers p on p.id = c.printer_id
left join projects pr on pr.id = c.project_id
` + clause + `
order by c.start_time asc, c.id asc
` + limit + " " + offset

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Cycle
	for rows.Next() {
		var c domain.Cycle
		if err := rows.Scan(
			&c.ID, &c.PrinterID, &c.PrinterName,
			&c.ProjectID, &c.ProjectName, &c.Color,
			&c.Status, &c.StartTime, &c.EndTime,
			&c.CycleHours, &c.GramsPlanned, &c.GramsConsumed,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *queries) Count(ctx context.Context, f Filter) (int, error) {
	clause, args := where(f)
	sql := `select count(*) from print_cycles c ` + clause

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if !rows.Next() {
		return 0, rows.Err()
	}
	var n int
	if err := rows.Scan(&n); err != nil {
		return 0, err
	}
	return n, rows.Err()
}
