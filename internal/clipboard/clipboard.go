// Package clipboard copies code block text, degrading from the platform
// clipboard to an OSC52 terminal escape sequence.
package clipboard

import (
	"errors"
	"fmt"
	"io"

	atotto "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnavailable is returned when no copy mechanism succeeded.
var ErrUnavailable = errors.New("clipboard unavailable")

// Writer puts text on a clipboard.
type Writer interface {
	Write(text string) error
}

var systemWrite = atotto.WriteAll

// System writes through the platform clipboard (pbcopy, xclip, wl-copy,
// the Windows API).
type System struct{}

func (System) Write(text string) error {
	if atotto.Unsupported {
		return ErrUnavailable
	}
	if err := systemWrite(text); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

// OSC52 asks the terminal attached to Out to set its clipboard. It works over
// SSH and inside tmux when Tmux is set.
type OSC52 struct {
	Out  io.Writer
	Tmux bool
}

func (o OSC52) Write(text string) error {
	if o.Out == nil {
		return ErrUnavailable
	}
	seq := osc52.New(text)
	if o.Tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(o.Out); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}

// Copier tries Primary and falls back to Fallback.
type Copier struct {
	Primary  Writer
	Fallback Writer
}

// NewCopier returns a copier using the system clipboard with an OSC52
// fallback written to out.
func NewCopier(out io.Writer, tmux bool) *Copier {
	return &Copier{Primary: System{}, Fallback: OSC52{Out: out, Tmux: tmux}}
}

// Method names which writer succeeded.
type Method string

const (
	MethodPrimary  Method = "primary"
	MethodFallback Method = "fallback"
)

// Copy writes text, trying the fallback when the primary writer fails. The
// returned error wraps ErrUnavailable when both failed.
func (c *Copier) Copy(text string) (Method, error) {
	var errs []error
	if c.Primary != nil {
		err := c.Primary.Write(text)
		if err == nil {
			return MethodPrimary, nil
		}
		errs = append(errs, err)
	}
	if c.Fallback != nil {
		err := c.Fallback.Write(text)
		if err == nil {
			return MethodFallback, nil
		}
		errs = append(errs, err)
	}
	return "", fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}
