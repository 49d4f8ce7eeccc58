// Package serialmatch resolves incoming hardware serials to printers.
// Matching is an ordered list of strategies tried in priority order,
// first success wins
package serialmatch

import "strings"

// NotesTokenPrefix is the legacy embedding of a serial inside free-text notes.
// Printers provisioned before the dedicated serial column carry
// "bambu:<serial>" somewhere in their notes; this must keep working
const NotesTokenPrefix = "bambu:"

// Candidate is the minimal printer view the matcher needs
type Candidate struct {
	ID     string
	Name   string
	Serial string // dedicated serial column, may be empty
	Notes  string // free text, may embed a notes token
}

// Matcher is one resolution strategy
type Matcher interface {
	// Match reports whether c is the printer for serial
	Match(c Candidate, serial string) bool
	// Name identifies the strategy in logs
	Name() string
}

// BySerialField matches on exact equality of the dedicated serial column
type BySerialField struct{}

// Match reports an exact, non-empty serial column match
func (BySerialField) Match(c Candidate, serial string) bool {
	return c.Serial != "" && c.Serial == serial
}

// Name identifies the strategy
func (BySerialField) Name() string { return "serial_field" }

// ByNotesToken matches on containment of "bambu:<serial>" in the notes field
type ByNotesToken struct{}

// Match reports a notes token containment match
func (ByNotesToken) Match(c Candidate, serial string) bool {
	return serial != "" && strings.Contains(c.Notes, NotesTokenPrefix+serial)
}

// Name identifies the strategy
func (ByNotesToken) Name() string { return "notes_token" }

// DefaultStrategies is the production matching order
func DefaultStrategies() []Matcher {
	return []Matcher{BySerialField{}, ByNotesToken{}}
}

// Result describes a successful resolution
type Result struct {
	Printer  Candidate
	Strategy string
}

// Resolve scans printers with each strategy in order and returns the first hit
func Resolve(printers []Candidate, serial string, strategies ...Matcher) (Result, bool) {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	for _, s := range strategies {
		for _, p := range printers {
			if s.Match(p, serial) {
				return Result{Printer: p, Strategy: s.Name()}, true
			}
		}
	}
	return Result{}, false
}
