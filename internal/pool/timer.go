// Package pool holds reusable timers for the blocking waits of the serial
// and frame reading paths, which arm one timer per byte.
package pool

import (
	"sync"
	"time"
)

var timers sync.Pool

// GetTimer returns a stopped-then-armed timer firing after d.
//
// Return it with PutTimer once the wait is over.
func GetTimer(d time.Duration) *time.Timer {
	if v := timers.Get(); v != nil {
		t, _ := v.(*time.Timer)
		// Since go1.23 Reset discards any stale value, no drain required.
		t.Reset(d)
		return t
	}

	return time.NewTimer(d)
}

// PutTimer stops t and returns it to the pool. t must not be used afterwards.
func PutTimer(t *time.Timer) {
	t.Stop()
	timers.Put(t)
}
