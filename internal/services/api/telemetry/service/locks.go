package service

import "sync"

// printerLocks serializes reconcile writes per printer id.
// The exclusivity invariant is enforced here plus compare-and-set guards
// in the repo, so two racing events for one printer cannot both activate
type printerLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newPrinterLocks() *printerLocks {
	return &printerLocks{m: map[string]*sync.Mutex{}}
}

// Lock acquires the mutex for printerID, creating it on first use
func (l *printerLocks) Lock(printerID string) func() {
	l.mu.Lock()
	pm, ok := l.m[printerID]
	if !ok {
		pm = &sync.Mutex{}
		l.m[printerID] = pm
	}
	l.mu.Unlock()

	pm.Lock()
	return pm.Unlock
}
