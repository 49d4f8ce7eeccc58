// Package domain holds DTOs for telemetry http and service contracts
package domain

import "time"

// EventInput is the hardware event wire shape.
// event_type and bambu_serial are validated by the reconciler itself so
// rejection happens before any store access
type EventInput struct {
	EventType     string     `json:"event_type" example:"started"`
	BambuSerial   string     `json:"bambu_serial" example:"01S00C123456789"`
	Timestamp     *time.Time `json:"timestamp,omitempty" example:"2026-08-25T21:14:00Z"`
	CycleID       *string    `json:"cycle_id,omitempty"`
	GramsConsumed *float64   `json:"grams_consumed,omitempty" validate:"omitempty,gte=0" example:"42.5"`
	PlannedUnits  *float64   `json:"planned_units,omitempty" validate:"omitempty,gte=0" example:"10"`
	GramsPerUnit  *float64   `json:"grams_per_unit,omitempty" validate:"omitempty,gte=0" example:"5"`
}

// EventResult is returned for every accepted event.
// Reconciliation anomalies are flags here, never errors
type EventResult struct {
	Success              bool     `json:"success" example:"true"`
	Event                string   `json:"event" example:"finished"`
	PrinterID            string   `json:"printer_id"`
	PrinterName          string   `json:"printer_name" example:"X1C rack 2"`
	CycleID              *string  `json:"cycle_id,omitempty"`
	GramsConsumed        *float64 `json:"grams_consumed,omitempty" example:"50"`
	NeedsManualReconcile bool     `json:"needs_manual_reconcile,omitempty"`
	Degraded             []string `json:"degraded,omitempty"`
}

// RecentInput bounds the audit trail listing
type RecentInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}

// AuditRow is one audit trail entry from the columnar store
type AuditRow struct {
	EventID              string    `json:"event_id"`
	EventType            string    `json:"event_type"`
	BambuSerial          string    `json:"bambu_serial"`
	PrinterID            string    `json:"printer_id,omitempty"`
	CycleID              string    `json:"cycle_id,omitempty"`
	GramsConsumed        float64   `json:"grams_consumed,omitempty"`
	NeedsManualReconcile bool      `json:"needs_manual_reconcile"`
	Degraded             bool      `json:"degraded"`
	ReceivedAt           time.Time `json:"received_at"`
}
