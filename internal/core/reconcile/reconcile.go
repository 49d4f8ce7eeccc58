// Package reconcile holds the pure decision logic for cycle reconciliation.
// It turns loose hardware event payloads into typed commands and accumulates
// the outcome of each best-effort mutation step into a trace
package reconcile

import (
	"time"

	perr "printfarm/internal/platform/errors"
	ptime "printfarm/internal/platform/time"
)

// EventType is the closed set of accepted hardware events
type EventType string

const (
	// EventStarted signals a printer began a plate run
	EventStarted EventType = "started"
	// EventFinished signals a printer ended a plate run
	EventFinished EventType = "finished"
)

// EventInput is the loose wire shape reported by printer firmware bridges.
// Everything except EventType and Serial is optional
type EventInput struct {
	EventType    string
	Serial       string
	Timestamp    *time.Time
	CycleID      *string
	GramsUsed    *float64
	PlannedUnits *float64
	GramsPerUnit *float64
}

// ConsumptionKind discriminates how the consumption figure was derived
type ConsumptionKind int

const (
	// ConsumptionUnknown means no figure could be derived from the event alone
	ConsumptionUnknown ConsumptionKind = iota
	// ConsumptionExplicit means the event carried grams directly
	ConsumptionExplicit
	// ConsumptionFromUnits means grams were derived as units * gramsPerUnit
	ConsumptionFromUnits
)

// Consumption is the resolved material figure carried by a Finished command.
// The cycle's own planned grams are a later fallback applied by the caller
// once the in-progress cycle is known
type Consumption struct {
	Kind  ConsumptionKind
	Grams float64
}

// Resolved reports whether the figure was derived from the event
func (c Consumption) Resolved() bool { return c.Kind != ConsumptionUnknown }

// Command is the tagged form of a validated event
type Command interface{ isCommand() }

// Started activates production on a printer
type Started struct {
	Serial string
	At     time.Time
}

// Finished closes production on a printer
type Finished struct {
	Serial      string
	At          time.Time
	CycleID     string
	Consumption Consumption
}

func (Started) isCommand()  {}
func (Finished) isCommand() {}

// ParseEvent validates the loose input and resolves it into a typed command.
// Validation failures are terminal and happen before any store access
func ParseEvent(in EventInput, now time.Time) (Command, error) {
	if in.EventType == "" || in.Serial == "" {
		return nil, perr.Validationf("missing event_type or bambu_serial")
	}

	at := ptime.Deref(in.Timestamp)
	if at.IsZero() {
		at = now
	}

	switch EventType(in.EventType) {
	case EventStarted:
		return Started{Serial: in.Serial, At: at}, nil
	case EventFinished:
		var cycleID string
		if in.CycleID != nil {
			cycleID = *in.CycleID
		}
		return Finished{
			Serial:      in.Serial,
			At:          at,
			CycleID:     cycleID,
			Consumption: resolveConsumption(in),
		}, nil
	default:
		return nil, perr.Validationf("event_type must be %q or %q", EventStarted, EventFinished)
	}
}

// resolveConsumption applies the event-level fallback order:
// explicit grams first, then units * gramsPerUnit, else unknown
func resolveConsumption(in EventInput) Consumption {
	if in.GramsUsed != nil {
		return Consumption{Kind: ConsumptionExplicit, Grams: *in.GramsUsed}
	}
	if in.PlannedUnits != nil && in.GramsPerUnit != nil {
		return Consumption{
			Kind:  ConsumptionFromUnits,
			Grams: *in.PlannedUnits * *in.GramsPerUnit,
		}
	}
	return Consumption{Kind: ConsumptionUnknown}
}
