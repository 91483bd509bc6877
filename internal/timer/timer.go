// Package timer tracks elapsed drill time excluding pauses.
package timer

import (
	"fmt"
	"sync"
	"time"

	"github.com/hako/durafmt"
)

const shortUnitsSpec = "y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us"

var shortUnits durafmt.Units

func init() {
	units, err := durafmt.DefaultUnitsCoder.Decode(shortUnitsSpec)
	if err != nil {
		panic(fmt.Sprintf("timer: bad unit labels %q: %v", shortUnitsSpec, err))
	}
	shortUnits = units
}

// Timer accumulates running time between Start and Stop, skipping paused
// intervals. It is safe for concurrent use.
type Timer struct {
	mu          sync.Mutex
	now         func() time.Time
	started     bool
	running     bool
	stopped     bool
	segment     time.Time
	accumulated time.Duration
}

// NewWithClock returns a Timer reading now.
func NewWithClock(now func() time.Time) *Timer {
	return &Timer{now: now}
}

// Start begins accumulating. Calls after the first are ignored.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true
	t.running = true
	t.segment = t.now()
}

// Pause freezes accumulation. Pausing a paused timer is a no-op.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeSegment()
}

// Resume continues accumulation. Resuming a running timer is a no-op.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started || t.stopped || t.running {
		return
	}
	t.running = true
	t.segment = t.now()
}

// Stop freezes the timer permanently.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeSegment()
	t.stopped = true
}

// Elapsed returns the accumulated running time.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return t.accumulated + t.now().Sub(t.segment)
	}
	return t.accumulated
}

// ElapsedSeconds returns Elapsed in seconds.
func (t *Timer) ElapsedSeconds() float64 {
	return t.Elapsed().Seconds()
}

// String formats the elapsed time in whole seconds, e.g. "1 m 5 s".
func (t *Timer) String() string {
	return Format(t.Elapsed())
}

// Format renders d truncated to seconds using short units.
func Format(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d <= 0 {
		return "0 s"
	}
	return durafmt.Parse(d).LimitFirstN(2).Format(shortUnits)
}

func (t *Timer) closeSegment() {
	if !t.running {
		return
	}
	t.accumulated += t.now().Sub(t.segment)
	t.running = false
}
