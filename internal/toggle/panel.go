package toggle

import (
	"time"

	"github.com/ziadkadry99/docview/internal/schedule"
)

// PanelState is the lifecycle of a slide-in panel.
type PanelState int

const (
	Closed PanelState = iota
	Opening
	Open
	Closing
)

func (s PanelState) String() string {
	switch s {
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

// Settled reports whether the panel is not mid-transition.
func (s PanelState) Settled() bool { return s == Closed || s == Open }

// Locker suppresses background scrolling while held.
type Locker interface {
	Lock()
	Unlock()
}

// PanelOptions configures a Panel.
type PanelOptions struct {
	Transition time.Duration    // length of the open/close animation
	Breakpoint int              // viewport width at which the panel auto-closes
	Lock       Locker           // held from opening until fully closed
	OnChange   func(PanelState) // called on every state change
}

// Panel models the mobile menu or the sidebar. Toggle is ignored while a
// transition is running. It is not safe for concurrent use.
type Panel struct {
	name   string
	sched  schedule.Scheduler
	opts   PanelOptions
	state  PanelState
	timer  schedule.Stopper
	width  int
	locked bool
}

// NewPanel returns a closed panel.
func NewPanel(name string, sched schedule.Scheduler, opts PanelOptions) *Panel {
	if sched == nil {
		sched = schedule.Real{}
	}
	return &Panel{name: name, sched: sched, opts: opts}
}

// Name returns the panel's name.
func (p *Panel) Name() string { return p.name }

// State returns the current state.
func (p *Panel) State() PanelState { return p.state }

// IsOpen reports whether the panel is open or opening.
func (p *Panel) IsOpen() bool { return p.state == Open || p.state == Opening }

// Toggle starts opening a closed panel or closing an open one. It returns
// false when the panel is mid-transition and nothing happened.
func (p *Panel) Toggle() bool {
	switch p.state {
	case Closed:
		p.begin(Opening, Open)
		return true
	case Open:
		p.begin(Closing, Closed)
		return true
	}
	return false
}

// Close starts closing an open panel. Like Toggle it is ignored
// mid-transition.
func (p *Panel) Close() bool {
	if p.state != Open {
		return false
	}
	p.begin(Closing, Closed)
	return true
}

// OpenPanel starts opening a closed panel.
func (p *Panel) OpenPanel() bool {
	if p.state != Closed {
		return false
	}
	p.begin(Opening, Open)
	return true
}

// Resize records the viewport width. Growing across the breakpoint closes
// an open or opening panel, interrupting the transition if necessary.
func (p *Panel) Resize(width int) {
	prev := p.width
	p.width = width
	if p.opts.Breakpoint <= 0 || prev >= p.opts.Breakpoint || width < p.opts.Breakpoint {
		return
	}
	if p.state == Open || p.state == Opening {
		p.begin(Closing, Closed)
	}
}

func (p *Panel) begin(transient, target PanelState) {
	if p.timer != nil {
		p.timer.Stop()
	}
	if transient == Opening {
		p.lock()
	}
	p.set(transient)
	p.timer = p.sched.AfterFunc(p.opts.Transition, func() {
		if p.state != transient {
			return
		}
		p.timer = nil
		p.set(target)
		if target == Closed {
			p.unlock()
		}
	})
}

func (p *Panel) set(s PanelState) {
	p.state = s
	if p.opts.OnChange != nil {
		p.opts.OnChange(s)
	}
}

func (p *Panel) lock() {
	if p.locked || p.opts.Lock == nil {
		return
	}
	p.locked = true
	p.opts.Lock.Lock()
}

func (p *Panel) unlock() {
	if !p.locked {
		return
	}
	p.locked = false
	p.opts.Lock.Unlock()
}

// ScrollLock is a reference-counted Locker shared by several panels. apply
// is called with true when the first holder locks and false when the last
// one unlocks.
type ScrollLock struct {
	holders int
	apply   func(locked bool)
}

// NewScrollLock returns an unlocked ScrollLock.
func NewScrollLock(apply func(locked bool)) *ScrollLock {
	return &ScrollLock{apply: apply}
}

func (l *ScrollLock) Lock() {
	l.holders++
	if l.holders == 1 && l.apply != nil {
		l.apply(true)
	}
}

func (l *ScrollLock) Unlock() {
	if l.holders == 0 {
		return
	}
	l.holders--
	if l.holders == 0 && l.apply != nil {
		l.apply(false)
	}
}

// Locked reports whether any holder currently holds the lock.
func (l *ScrollLock) Locked() bool { return l.holders > 0 }
