// Package domain holds DTOs for nightplan http and service contracts
package domain

import (
	"time"

	"printfarm/internal/core/nightwindow"
)

// PreviewInput selects the reference instant the plan is computed for.
// An absent reference means "now"
type PreviewInput struct {
	ReferenceTime *time.Time `json:"reference_time,omitempty" example:"2026-08-25T21:30:00Z"`
}

// Plan is the whole-farm preload summary returned to callers
type Plan = nightwindow.Summary
