package domain

import "context"

// ServicePort is the module-facing printer management surface
type ServicePort interface {
	// List returns all printers ordered by name
	List(ctx context.Context) ([]Printer, error)

	// Get returns one printer by id
	Get(ctx context.Context, id string) (Printer, error)

	// AssignSerial stores the dedicated hardware serial on a printer
	AssignSerial(ctx context.Context, id string, in AssignSerialInput) (Printer, error)
}
