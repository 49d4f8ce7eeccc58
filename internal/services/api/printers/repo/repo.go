// Package repo provides postgres access for printer management
package repo

import (
	"context"

	"printfarm/internal/modkit/repokit"
	perr "printfarm/internal/platform/errors"
	"printfarm/internal/services/api/printers/domain"
)

// Repo is the printer management persistence surface
type Repo interface {
	// List returns all printers ordered by name
	List(ctx context.Context) ([]domain.Printer, error)

	// Get returns one printer, not found when the id is unknown
	Get(ctx context.Context, id string) (domain.Printer, error)

	// SetSerial assigns the dedicated serial column and returns the
	// updated row, not found when the id is unknown
	SetSerial(ctx context.Context, id, serial string) (domain.Printer, error)
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

const printerCols = `id::text, name, coalesce(bambu_serial, ''), coalesce(notes, ''), status, updated_at`

func (r *queries) List(ctx context.Context) ([]domain.Printer, error) {
	const sql = `
select ` + printerCols + `
from printers
order by name asc, id asc
`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Printer
	for rows.Next() {
		var p domain.Printer
		if err := scanPrinter(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *queries) Get(ctx context.Context, id string) (domain.Printer, error) {
	const sql = `
select ` + printerCols + `
from printers
where id = $1
`
	return r.one(ctx, sql, id)
}

func (r *queries) SetSerial(ctx context.Context, id, serial string) (domain.Printer, error) {
	const sql = `
update printers
set bambu_serial = $2, updated_at = now()
where id = $1
returning ` + printerCols + `
`
	return r.one(ctx, sql, id, serial)
}

func (r *queries) one(ctx context.Context, sql string, args ...any) (domain.Printer, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return domain.Printer{}, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return domain.Printer{}, err
		}
		return domain.Printer{}, perr.NotFoundf("printer not found")
	}
	var p domain.Printer
	if err := scanPrinter(rows, &p); err != nil {
		return domain.Printer{}, err
	}
	return p, rows.Err()
}

func scanPrinter(row interface{ Scan(dest ...any) error }, p *domain.Printer) error {
	return row.Scan(&p.ID, &p.Name, &p.BambuSerial, &p.Notes, &p.Status, &p.UpdatedAt)
}
