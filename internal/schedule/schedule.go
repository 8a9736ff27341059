// Package schedule abstracts delayed callbacks so that debounce, transition
// and revert timers can run on a real clock or be stepped manually in tests.
package schedule

import (
	"sort"
	"time"
)

// Stopper cancels a scheduled callback. Stop reports whether the call was
// prevented.
type Stopper interface {
	Stop() bool
}

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Stopper
}

// Real schedules callbacks with time.AfterFunc. Callbacks run on their own
// goroutine.
type Real struct{}

func (Real) AfterFunc(d time.Duration, fn func()) Stopper {
	return time.AfterFunc(d, fn)
}

// Manual is a scheduler driven by Advance. It is not safe for concurrent use.
type Manual struct {
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewManual returns a manual scheduler at time zero.
func NewManual() *Manual { return &Manual{} }

func (m *Manual) AfterFunc(d time.Duration, fn func()) Stopper {
	m.seq++
	t := &manualTimer{at: m.now + d, seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration { return m.now }

// Pending returns the number of callbacks that have neither fired nor been
// stopped.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing due callbacks in deadline
// order. Callbacks scheduled by a firing callback run too if they fall due
// within the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.at
		next.fired = true
		next.fn()
	}
	m.now = target
	m.compact()
}

func (m *Manual) nextDue(target time.Duration) *manualTimer {
	var due []*manualTimer
	for _, t := range m.pending {
		if !t.stopped && !t.fired && t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (m *Manual) compact() {
	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.pending = live
}

// Debouncer coalesces rapid calls: only the most recent call within the wait
// window runs. It is meant to be used from a single goroutine.
type Debouncer struct {
	sched   Scheduler
	wait    time.Duration
	pending Stopper
	gen     uint64
}

// NewDebouncer creates a debouncer with the given coalescing window.
func NewDebouncer(s Scheduler, wait time.Duration) *Debouncer {
	return &Debouncer{sched: s, wait: wait}
}

// Call schedules fn, superseding any call still waiting.
func (d *Debouncer) Call(fn func()) {
	d.Cancel()
	d.gen++
	gen := d.gen
	d.pending = d.sched.AfterFunc(d.wait, func() {
		// A superseded callback may already be queued by the time Stop runs.
		if gen != d.gen {
			return
		}
		d.pending = nil
		fn()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.gen++
}
