package reconcile

// StepStatus is the outcome class of one best-effort mutation step
type StepStatus int

const (
	// StepOK means the step completed as intended
	StepOK StepStatus = iota
	// StepSkipped means the step had nothing to do (not an error)
	StepSkipped
	// StepDegraded means the step failed but siblings still ran
	StepDegraded
)

// Step records the outcome of a single mutation step
type Step struct {
	Name   string
	Status StepStatus
	Reason string
	Err    error
}

// Trace accumulates step outcomes across a reconcile pass.
// The handler always runs every step and reports partial success through
// the trace rather than aborting on the first failure
type Trace struct {
	steps []Step
}

// OK records a completed step
func (t *Trace) OK(name string) {
	t.steps = append(t.steps, Step{Name: name, Status: StepOK})
}

// Skip records a step that had nothing to act on
func (t *Trace) Skip(name, reason string) {
	t.steps = append(t.steps, Step{Name: name, Status: StepSkipped, Reason: reason})
}

// Degrade records a failed step that did not abort the pass
func (t *Trace) Degrade(name string, err error) {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	t.steps = append(t.steps, Step{Name: name, Status: StepDegraded, Reason: reason, Err: err})
}

// Steps returns the recorded outcomes in execution order
func (t *Trace) Steps() []Step { return t.steps }

// Degraded reports whether any step failed
func (t *Trace) Degraded() bool {
	for _, s := range t.steps {
		if s.Status == StepDegraded {
			return true
		}
	}
	return false
}

// Reasons returns the reasons of degraded steps, in order
func (t *Trace) Reasons() []string {
	var out []string
	for _, s := range t.steps {
		if s.Status == StepDegraded {
			out = append(out, s.Name+": "+s.Reason)
		}
	}
	return out
}
