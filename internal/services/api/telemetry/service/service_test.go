package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"printfarm/internal/modkit/repokit"
	perr "printfarm/internal/platform/errors"
	"printfarm/internal/platform/store"
	ptime "printfarm/internal/platform/time"
	"printfarm/internal/services/api/telemetry/domain"
	"printfarm/internal/services/api/telemetry/repo"

	"github.com/rs/zerolog"
)

// fakeTx satisfies repokit.TxRunner; the fake repo never touches it
type fakeTx struct{}

func (fakeTx) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return nil, errors.New("not wired")
}
func (fakeTx) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("not wired")
}
func (fakeTx) QueryRow(context.Context, string, ...any) store.Row { return nil }
func (fakeTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	return fn(fakeTx{})
}

// fakeRepo is an in-memory reconciliation store. Its own mutex makes each
// method atomic, the way a single SQL statement is; interleaving between
// statements is still up to the caller
type fakeRepo struct {
	mu       sync.Mutex
	printers []repo.Printer
	cycles   []repo.Cycle

	listCalls      int
	statusWrites   []string
	failSetStatus  bool
	failInProgress bool
}

func (f *fakeRepo) ListPrinters(context.Context) ([]repo.Printer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]repo.Printer, len(f.printers))
	copy(out, f.printers)
	return out, nil
}

func (f *fakeRepo) SetPrinterStatus(_ context.Context, printerID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSetStatus {
		return errors.New("pg down")
	}
	f.statusWrites = append(f.statusWrites, printerID+":"+status)
	for i := range f.printers {
		if f.printers[i].ID == printerID {
			f.printers[i].Status = status
		}
	}
	return nil
}

func (f *fakeRepo) InProgressCycles(_ context.Context, printerID string) ([]repo.Cycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInProgress {
		return nil, errors.New("pg down")
	}
	var out []repo.Cycle
	for _, c := range f.cycles {
		if c.PrinterID == printerID && c.Status == "in_progress" {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) CompleteCycle(_ context.Context, cycleID string, endAt time.Time, grams *float64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cycles {
		if f.cycles[i].ID == cycleID && f.cycles[i].Status == "in_progress" {
			f.cycles[i].Status = "completed"
			f.cycles[i].EndTime = ptime.Ptr(endAt)
			if grams != nil {
				g := *grams
				f.cycles[i].GramsPlanned = &g
			}
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) NextEligibleCycle(_ context.Context, printerID string) (*repo.Cycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *repo.Cycle
	for i := range f.cycles {
		c := &f.cycles[i]
		if c.PrinterID != printerID {
			continue
		}
		if c.Status != "planned" && c.Status != "scheduled" {
			continue
		}
		if best == nil || c.StartTime.Before(best.StartTime) {
			best = c
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (f *fakeRepo) ActivateCycle(_ context.Context, cycleID string, startAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cycles {
		if f.cycles[i].ID == cycleID && (f.cycles[i].Status == "planned" || f.cycles[i].Status == "scheduled") {
			f.cycles[i].Status = "in_progress"
			f.cycles[i].StartTime = startAt
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) inProgressCount(printerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.cycles {
		if c.PrinterID == printerID && c.Status == "in_progress" {
			n++
		}
	}
	return n
}

func newTestSvc(f *fakeRepo) *Svc {
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f })
	s := New(fakeTx{}, binder, nil, zerolog.Nop())
	s.now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }
	s.newEventID = func() string { return "evt-1" }
	return s
}

func grams(v float64) *float64 { return &v }

func TestReconcile_RejectsBeforeStoreAccess(t *testing.T) {
	t.Parallel()

	f := &fakeRepo{printers: []repo.Printer{{ID: "p1", Serial: "ABC"}}}
	s := newTestSvc(f)

	_, err := s.Reconcile(context.Background(), domain.EventInput{
		EventType:   "paused",
		BambuSerial: "ABC",
	})
	if perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("code = %v, want validation", perr.CodeOf(err))
	}
	if f.listCalls != 0 {
		t.Fatalf("store accessed %d times before validation", f.listCalls)
	}
}

func TestReconcile_PrinterNotFoundCarriesHint(t *testing.T) {
	t.Parallel()

	s := newTestSvc(&fakeRepo{printers: []repo.Printer{{ID: "p1", Serial: "OTHER"}}})

	_, err := s.Reconcile(context.Background(), domain.EventInput{
		EventType:   "started",
		BambuSerial: "ABC",
	})
	if perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("code = %v, want not found", perr.CodeOf(err))
	}
	wire := perr.WireFrom(err)
	if wire.Hint == "" {
		t.Fatal("expected a remediation hint")
	}
	// the unmatched serial is a structured field, not just hint prose
	if wire.Field != "ABC" {
		t.Fatalf("field = %q, want the unmatched serial", wire.Field)
	}
}

func TestReconcile_StartedSweepsStaleAndActivatesEarliest(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	f := &fakeRepo{
		printers: []repo.Printer{{ID: "p1", Name: "X1C", Serial: "ABC"}},
		cycles: []repo.Cycle{
			{ID: "c1", PrinterID: "p1", Status: "in_progress", StartTime: base},
			{ID: "c3", PrinterID: "p1", Status: "planned", StartTime: base.Add(4 * time.Hour)},
			{ID: "c2", PrinterID: "p1", Status: "scheduled", StartTime: base.Add(2 * time.Hour)},
		},
	}
	s := newTestSvc(f)

	res, err := s.Reconcile(context.Background(), domain.EventInput{
		EventType:   "started",
		BambuSerial: "ABC",
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !res.Success || res.PrinterID != "p1" || res.PrinterName != "X1C" {
		t.Fatalf("unexpected result: %+v", res)
	}

	// c1 swept, earliest eligible c2 activated, never c1 again
	byID := map[string]string{}
	for _, c := range f.cycles {
		byID[c.ID] = c.Status
	}
	if byID["c1"] != "completed" {
		t.Fatalf("stale cycle c1 = %q, want completed", byID["c1"])
	}
	if byID["c2"] != "in_progress" {
		t.Fatalf("earliest eligible c2 = %q, want in_progress", byID["c2"])
	}
	if byID["c3"] != "planned" {
		t.Fatalf("later cycle c3 = %q, want untouched", byID["c3"])
	}
	if n := f.inProgressCount("p1"); n != 1 {
		t.Fatalf("in_progress count = %d, want exactly 1", n)
	}
}

func TestReconcile_DuplicateStartedActivatesAtMostOneNewCycle(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	f := &fakeRepo{
		printers: []repo.Printer{{ID: "p1", Name: "X1C", Serial: "ABC"}},
		cycles: []repo.Cycle{
			{ID: "c1", PrinterID: "p1", Status: "planned", StartTime: base},
			{ID: "c2", PrinterID: "p1", Status: "planned", StartTime: base.Add(2 * time.Hour)},
		},
	}
	s := newTestSvc(f)
	in := domain.EventInput{EventType: "started", BambuSerial: "ABC"}

	if _, err := s.Reconcile(context.Background(), in); err != nil {
		t.Fatalf("first started: %v", err)
	}
	if _, err := s.Reconcile(context.Background(), in); err != nil {
		t.Fatalf("second started: %v", err)
	}

	// the duplicate sweeps c1 to completed and moves on to c2; the
	// invariant holds throughout
	if n := f.inProgressCount("p1"); n != 1 {
		t.Fatalf("in_progress count = %d, want exactly 1", n)
	}
}

func TestReconcile_ConcurrentStartedEventsKeepOneActive(t *testing.T) {
	t.Parallel()

	const workers = 16

	base := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	f := &fakeRepo{printers: []repo.Printer{{ID: "p1", Name: "X1C", Serial: "ABC"}}}
	// plenty of eligible cycles so every racing event has one to grab
	for i := 0; i < workers*4; i++ {
		f.cycles = append(f.cycles, repo.Cycle{
			ID:        fmt.Sprintf("c%d", i),
			PrinterID: "p1",
			Status:    "planned",
			StartTime: base.Add(time.Duration(i) * time.Hour),
		})
	}
	s := newTestSvc(f)
	in := domain.EventInput{EventType: "started", BambuSerial: "ABC"}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Reconcile(context.Background(), in); err != nil {
				t.Errorf("Reconcile: %v", err)
			}
		}()
	}
	wg.Wait()

	// whatever the interleaving, racing started events never leave a
	// printer with more than one live cycle
	if n := f.inProgressCount("p1"); n != 1 {
		t.Fatalf("in_progress count = %d, want exactly 1", n)
	}
}

func TestReconcile_FinishedConsumptionFallbacks(t *testing.T) {
	t.Parallel()

	t.Run("units times grams per unit", func(t *testing.T) {
		t.Parallel()
		f := &fakeRepo{
			printers: []repo.Printer{{ID: "p1", Name: "X1C", Serial: "ABC"}},
			cycles: []repo.Cycle{
				{ID: "c1", PrinterID: "p1", Status: "in_progress", StartTime: time.Now()},
			},
		}
		s := newTestSvc(f)

		res, err := s.Reconcile(context.Background(), domain.EventInput{
			EventType:    "finished",
			BambuSerial:  "ABC",
			PlannedUnits: grams(10),
			GramsPerUnit: grams(5),
		})
		if err != nil {
			t.Fatalf("Reconcile: %v", err)
		}
		if res.GramsConsumed == nil || *res.GramsConsumed != 50 {
			t.Fatalf("grams = %v, want 50", res.GramsConsumed)
		}
		if res.CycleID == nil || *res.CycleID != "c1" {
			t.Fatalf("cycle_id = %v, want c1", res.CycleID)
		}
		if res.NeedsManualReconcile {
			t.Fatal("unexpected manual reconcile flag")
		}
	})

	t.Run("cycle grams planned", func(t *testing.T) {
		t.Parallel()
		f := &fakeRepo{
			printers: []repo.Printer{{ID: "p1", Name: "X1C", Serial: "ABC"}},
			cycles: []repo.Cycle{
				{ID: "c1", PrinterID: "p1", Status: "in_progress", StartTime: time.Now(), GramsPlanned: grams(80)},
			},
		}
		s := newTestSvc(f)

		res, err := s.Reconcile(context.Background(), domain.EventInput{
			EventType:   "finished",
			BambuSerial: "ABC",
		})
		if err != nil {
			t.Fatalf("Reconcile: %v", err)
		}
		if res.GramsConsumed == nil || *res.GramsConsumed != 80 {
			t.Fatalf("grams = %v, want 80", res.GramsConsumed)
		}
	})
}

func TestReconcile_UnmatchedFinishFlagsManualReconcile(t *testing.T) {
	t.Parallel()

	f := &fakeRepo{printers: []repo.Printer{{ID: "p1", Name: "X1C", Serial: "ABC"}}}
	s := newTestSvc(f)

	res, err := s.Reconcile(context.Background(), domain.EventInput{
		EventType:   "finished",
		BambuSerial: "ABC",
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !res.Success {
		t.Fatal("event must still be accepted")
	}
	if !res.NeedsManualReconcile {
		t.Fatal("expected needs_manual_reconcile")
	}
	if res.CycleID != nil {
		t.Fatalf("cycle_id = %v, want nil", res.CycleID)
	}
}

func TestReconcile_NotesTokenFallbackMatch(t *testing.T) {
	t.Parallel()

	f := &fakeRepo{
		printers: []repo.Printer{
			{ID: "p1", Name: "X1C", Notes: "second hand unit, bambu:ABC123"},
		},
	}
	s := newTestSvc(f)

	res, err := s.Reconcile(context.Background(), domain.EventInput{
		EventType:   "started",
		BambuSerial: "ABC123",
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.PrinterID != "p1" {
		t.Fatalf("printer = %q, want p1 via notes token", res.PrinterID)
	}
}

func TestReconcile_FailedStepDoesNotAbortSiblings(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	f := &fakeRepo{
		printers:      []repo.Printer{{ID: "p1", Name: "X1C", Serial: "ABC"}},
		failSetStatus: true,
		cycles: []repo.Cycle{
			{ID: "c1", PrinterID: "p1", Status: "planned", StartTime: base},
		},
	}
	s := newTestSvc(f)

	res, err := s.Reconcile(context.Background(), domain.EventInput{
		EventType:   "started",
		BambuSerial: "ABC",
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !res.Success {
		t.Fatal("partial failure must still respond success")
	}
	if len(res.Degraded) == 0 {
		t.Fatal("expected the failed step to be reported")
	}
	// activation still ran despite the status write failing
	if n := f.inProgressCount("p1"); n != 1 {
		t.Fatalf("in_progress count = %d, want 1", n)
	}
}

func TestReconcile_StartedWithNoEligibleCycleIsNotAnError(t *testing.T) {
	t.Parallel()

	f := &fakeRepo{printers: []repo.Printer{{ID: "p1", Name: "X1C", Serial: "ABC"}}}
	s := newTestSvc(f)

	res, err := s.Reconcile(context.Background(), domain.EventInput{
		EventType:   "started",
		BambuSerial: "ABC",
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !res.Success {
		t.Fatal("ad hoc run must be accepted")
	}
	if len(res.Degraded) != 0 {
		t.Fatalf("no eligible cycle is a skip, not a degradation: %v", res.Degraded)
	}
}
