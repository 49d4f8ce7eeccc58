package domain

import (
	"context"
	"time"
)

// ServicePort is the module-facing nightplan surface
type ServicePort interface {
	// ComputeNightPlan projects pending cycles onto the night window
	// anchored at ref. Read-only and idempotent
	ComputeNightPlan(ctx context.Context, ref time.Time) (Plan, error)
}
