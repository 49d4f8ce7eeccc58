// Package nightwindow computes the unattended night window and the
// per-printer preload plan for it. Pure and read-only: callers load the
// candidate cycles, this package only projects them onto the window
package nightwindow

import (
	"sort"
	"time"
)

// Config bounds the unattended hours. The window runs dusk to dawn and
// wraps midnight when EndHour <= StartHour
type Config struct {
	StartHour int // local hour the unattended window opens, e.g. 22
	EndHour   int // local hour it closes the next morning, e.g. 6
}

// DefaultConfig is the usual overnight window, 22:00 to 06:00
func DefaultConfig() Config { return Config{StartHour: 22, EndHour: 6} }

// Window is a half-open interval [Start, End)
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TotalHours returns the window length in fractional hours
func (w Window) TotalHours() float64 { return w.End.Sub(w.Start).Hours() }

// From derives tonight's window from a reference instant.
// A reference inside the morning tail of a wrapped window (after midnight,
// before EndHour) still belongs to the window that opened the previous dusk
func From(ref time.Time, cfg Config) Window {
	loc := ref.Location()
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), cfg.StartHour, 0, 0, 0, loc)

	wraps := cfg.EndHour <= cfg.StartHour
	if wraps && ref.Hour() < cfg.EndHour {
		start = start.AddDate(0, 0, -1)
	}

	end := time.Date(start.Year(), start.Month(), start.Day(), cfg.EndHour, 0, 0, 0, loc)
	if wraps {
		end = end.AddDate(0, 0, 1)
	}
	return Window{Start: start, End: end}
}

// Cycle is the scheduler's read-only view of a planned cycle
type Cycle struct {
	ID          string
	PrinterID   string
	PrinterName string
	ProjectID   string
	ProjectName string // falls back to the raw project id upstream
	Color       string
	Start       time.Time
	End         time.Time // scheduled start plus expected run time
}

// Entry is one night cycle on a printer's plan, in start order
type Entry struct {
	CycleID     string  `json:"cycle_id"`
	ProjectID   string  `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Color       string  `json:"color,omitempty"`
	CycleHours  float64 `json:"cycle_hours"`
}

// PrinterPlan is the per-printer preload requirement
type PrinterPlan struct {
	PrinterID       string  `json:"printer_id"`
	PrinterName     string  `json:"printer_name"`
	RequiredPlates  int     `json:"required_plates"`
	NightCycleCount int     `json:"night_cycle_count"`
	TotalNightHours float64 `json:"total_night_hours"`
	Cycles          []Entry `json:"cycles"`
}

// Summary is the whole-farm plan for one night
type Summary struct {
	HasNightWork      bool          `json:"has_night_work"`
	TotalPlatesNeeded int           `json:"total_plates_needed"`
	Window            Window        `json:"night_window"`
	TotalWindowHours  float64       `json:"total_window_hours"`
	Printers          []PrinterPlan `json:"printers,omitempty"`
}

// Policy tunes the plate counting boundary.
// The first overlapping cycle of a printer's night is normally loaded by a
// human before departure, so it does not consume a pre-staged plate
type Policy struct {
	CountFirstCycle bool
}

// Plan groups cycles by printer, selects the ones overlapping the window,
// clips their hours at the window boundaries, and aggregates plate counts.
// An empty summary (HasNightWork false, no printers) is returned when
// nothing overlaps so callers can suppress display entirely
func Plan(cycles []Cycle, w Window, pol Policy) Summary {
	byPrinter := map[string][]Cycle{}
	var order []string
	for _, c := range cycles {
		if !overlaps(c, w) {
			continue
		}
		if _, seen := byPrinter[c.PrinterID]; !seen {
			order = append(order, c.PrinterID)
		}
		byPrinter[c.PrinterID] = append(byPrinter[c.PrinterID], c)
	}

	if len(byPrinter) == 0 {
		return Summary{Window: w, TotalWindowHours: w.TotalHours()}
	}

	out := Summary{
		HasNightWork:     true,
		Window:           w,
		TotalWindowHours: w.TotalHours(),
	}

	for _, pid := range order {
		cs := byPrinter[pid]
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].Start.Before(cs[j].Start) })

		plan := PrinterPlan{
			PrinterID:   pid,
			PrinterName: cs[0].PrinterName,
		}
		for _, c := range cs {
			plan.Cycles = append(plan.Cycles, Entry{
				CycleID:     c.ID,
				ProjectID:   c.ProjectID,
				ProjectName: c.ProjectName,
				Color:       c.Color,
				CycleHours:  clippedHours(c, w),
			})
			plan.TotalNightHours += clippedHours(c, w)
		}
		plan.NightCycleCount = len(cs)
		plan.RequiredPlates = len(cs)
		if !pol.CountFirstCycle {
			plan.RequiredPlates = len(cs) - 1
		}
		if plan.RequiredPlates < 0 {
			plan.RequiredPlates = 0
		}

		out.TotalPlatesNeeded += plan.RequiredPlates
		out.Printers = append(out.Printers, plan)
	}

	return out
}

func overlaps(c Cycle, w Window) bool {
	return c.Start.Before(w.End) && c.End.After(w.Start)
}

// clippedHours returns the in-window portion of a cycle's runtime
func clippedHours(c Cycle, w Window) float64 {
	start := c.Start
	if start.Before(w.Start) {
		start = w.Start
	}
	end := c.End
	if end.After(w.End) {
		end = w.End
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}
