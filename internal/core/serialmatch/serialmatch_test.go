package serialmatch

import "testing"

func TestResolve_PrefersSerialField(t *testing.T) {
	t.Parallel()

	printers := []Candidate{
		{ID: "p1", Name: "A1 Mini", Notes: "bambu:ABC123"},
		{ID: "p2", Name: "X1C", Serial: "ABC123"},
	}

	res, ok := Resolve(printers, "ABC123")
	if !ok {
		t.Fatal("expected a match")
	}
	if res.Printer.ID != "p2" {
		t.Fatalf("matched %q, want the dedicated serial column printer p2", res.Printer.ID)
	}
	if res.Strategy != "serial_field" {
		t.Fatalf("strategy = %q", res.Strategy)
	}
}

func TestResolve_NotesTokenFallback(t *testing.T) {
	t.Parallel()

	printers := []Candidate{
		{ID: "p1", Name: "X1C", Notes: "left rail squeaks; bambu:ABC123 (old unit)"},
		{ID: "p2", Name: "P1S", Serial: "OTHER"},
	}

	res, ok := Resolve(printers, "ABC123")
	if !ok {
		t.Fatal("expected the notes token fallback to match")
	}
	if res.Printer.ID != "p1" || res.Strategy != "notes_token" {
		t.Fatalf("got %q via %q", res.Printer.ID, res.Strategy)
	}
}

func TestResolve_MissAndEmptySerial(t *testing.T) {
	t.Parallel()

	printers := []Candidate{
		{ID: "p1", Serial: "AAA"},
		{ID: "p2", Notes: "bambu:BBB"},
	}

	if _, ok := Resolve(printers, "ZZZ"); ok {
		t.Fatal("unexpected match for unknown serial")
	}
	// empty serial must not match empty serial columns or bare prefixes
	if _, ok := Resolve(append(printers, Candidate{ID: "p3"}), ""); ok {
		t.Fatal("empty serial matched")
	}
}

func TestResolve_FirstRowWinsWithinStrategy(t *testing.T) {
	t.Parallel()

	printers := []Candidate{
		{ID: "p1", Serial: "DUP"},
		{ID: "p2", Serial: "DUP"},
	}
	res, ok := Resolve(printers, "DUP")
	if !ok || res.Printer.ID != "p1" {
		t.Fatalf("want stable first match p1, got %+v ok=%v", res, ok)
	}
}
