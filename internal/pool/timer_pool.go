package pool

import (
	"sync"
	"time"
)

// timers holds stopped and drained timers only. PutTimer enforces this
// invariant, so GetTimer can Reset a pooled timer without draining first.
var timers sync.Pool

// GetTimer returns a timer that fires after the given duration d.
//
// Return the timer to the pool with PutTimer once its channel is no longer
// needed.
func GetTimer(d time.Duration) *time.Timer {
	v := timers.Get()
	if v == nil {
		return time.NewTimer(d)
	}

	t, _ := v.(*time.Timer)
	t.Reset(d)

	return t
}

// PutTimer stops t, drains its channel if it already fired, and returns it
// to the pool.
//
// t must not be accessed after it is handed back.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	timers.Put(t)
}
