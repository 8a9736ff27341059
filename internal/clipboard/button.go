package clipboard

import (
	"time"

	"github.com/ziadkadry99/docview/internal/schedule"
)

// Label is the text shown on a copy button.
type Label string

const (
	LabelCopy   Label = "Copy"
	LabelCopied Label = "Copied!"
	LabelFailed Label = "Failed"
)

// DefaultRevert is how long a Copied!/Failed label stays up.
const DefaultRevert = 2 * time.Second

// Button is the label state of one copy control. A result label reverts to
// Copy after the revert delay; a newer result restarts the delay.
type Button struct {
	sched    schedule.Scheduler
	revert   time.Duration
	label    Label
	timer    schedule.Stopper
	onChange func(Label)
}

// NewButton returns a button showing Copy. onChange may be nil.
func NewButton(sched schedule.Scheduler, revert time.Duration, onChange func(Label)) *Button {
	if revert <= 0 {
		revert = DefaultRevert
	}
	return &Button{sched: sched, revert: revert, label: LabelCopy, onChange: onChange}
}

// Label returns the current label.
func (b *Button) Label() Label { return b.label }

// Succeeded shows Copied!.
func (b *Button) Succeeded() { b.show(LabelCopied) }

// Failed shows Failed.
func (b *Button) Failed() { b.show(LabelFailed) }

// Result shows Copied! when err is nil and Failed otherwise.
func (b *Button) Result(err error) {
	if err != nil {
		b.Failed()
		return
	}
	b.Succeeded()
}

func (b *Button) show(l Label) {
	if b.timer != nil {
		b.timer.Stop()
	}
	b.set(l)
	b.timer = b.sched.AfterFunc(b.revert, func() {
		if b.label != l {
			return
		}
		b.timer = nil
		b.set(LabelCopy)
	})
}

func (b *Button) set(l Label) {
	b.label = l
	if b.onChange != nil {
		b.onChange(l)
	}
}
