// Package time provides small time helpers shared across packages
package time

import "time"

// Ptr returns a pointer to t, or nil if t is the zero time
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Deref returns the zero time if pt is nil, else *pt
func Deref(pt *time.Time) time.Time {
	if pt == nil {
		return time.Time{}
	}
	return *pt
}
