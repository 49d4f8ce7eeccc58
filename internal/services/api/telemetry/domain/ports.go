package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Reconcile(ctx context.Context, in EventInput) (EventResult, error)
	RecentEvents(ctx context.Context, in RecentInput) ([]AuditRow, error)
}
