// Package toggle holds the small UI state machines of the viewer: the
// light/dark theme and the slide-in panels (mobile menu and sidebar).
package toggle

// Theme is the presentation color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// PreferenceKey is the preference store key holding the pinned theme.
const PreferenceKey = "theme"

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case Light, Dark:
		return Theme(s), true
	}
	return "", false
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// PreferenceStore is a key-value store for user preferences. A missing key
// reports ok == false with a nil error.
type PreferenceStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// ThemeController tracks the active theme. Until the user toggles
// explicitly, an unpinned theme follows the ambient color scheme of the host.
type ThemeController struct {
	store   PreferenceStore
	apply   func(Theme)
	current Theme
	pinned  bool
}

// NewTheme resolves the initial theme: the stored preference when one can be
// read, otherwise ambient. Storage errors count as "no preference". apply,
// when non-nil, is called with the initial theme and on every change.
func NewTheme(store PreferenceStore, ambient Theme, apply func(Theme)) *ThemeController {
	c := &ThemeController{store: store, apply: apply}
	if _, ok := ParseTheme(string(ambient)); !ok {
		ambient = Light
	}
	c.current = ambient
	if store != nil {
		if v, ok, err := store.Get(PreferenceKey); err == nil && ok {
			if t, valid := ParseTheme(v); valid {
				c.current = t
				c.pinned = true
			}
		}
	}
	c.present()
	return c
}

// Current returns the active theme.
func (c *ThemeController) Current() Theme { return c.current }

// Pinned reports whether an explicit choice overrides the ambient scheme.
func (c *ThemeController) Pinned() bool { return c.pinned }

// Toggle flips the theme, presents it and persists it. From then on ambient
// changes are ignored. A failed write is ignored too: the choice still holds
// for the running session.
func (c *ThemeController) Toggle() Theme {
	c.current = c.current.Opposite()
	c.pinned = true
	c.present()
	if c.store != nil {
		_ = c.store.Set(PreferenceKey, string(c.current))
	}
	return c.current
}

// AmbientChanged follows a change of the host's color scheme unless the
// theme has been pinned. It reports whether the theme changed.
func (c *ThemeController) AmbientChanged(t Theme) bool {
	if c.pinned {
		return false
	}
	if _, ok := ParseTheme(string(t)); !ok || t == c.current {
		return false
	}
	c.current = t
	c.present()
	return true
}

func (c *ThemeController) present() {
	if c.apply != nil {
		c.apply(c.current)
	}
}
