package ui

import (
	"time"

	"github.com/ziadkadry99/docview/internal/schedule"
)

// location stands in for the browser location fragment. Writes are picked
// up by the client from the next snapshot.
type location struct {
	fragment string
}

func (l *location) Fragment() string        { return l.fragment }
func (l *location) SetFragment(frag string) { l.fragment = frag }

// Scroll is a scroll instruction for the client. Seq increases with every
// instruction so the client applies each one once.
type Scroll struct {
	Seq    int    `json:"seq"`
	Anchor string `json:"anchor,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Top    bool   `json:"top,omitempty"`
}

type viewport struct {
	last Scroll
}

func (v *viewport) ScrollToAnchor(id string, offset int) {
	v.last = Scroll{Seq: v.last.Seq + 1, Anchor: id, Offset: offset}
}

func (v *viewport) ScrollTop() {
	v.last = Scroll{Seq: v.last.Seq + 1, Top: true}
}

// loopScheduler runs timer callbacks on the App's event loop instead of the
// timer goroutine.
type loopScheduler struct {
	app *App
}

func (s loopScheduler) AfterFunc(d time.Duration, fn func()) schedule.Stopper {
	return time.AfterFunc(d, func() { s.app.post(fn) })
}

// publishing publishes a snapshot after every timer callback.
type publishing struct {
	inner schedule.Scheduler
	app   *App
}

func (p publishing) AfterFunc(d time.Duration, fn func()) schedule.Stopper {
	return p.inner.AfterFunc(d, func() {
		fn()
		p.app.publish()
	})
}
