// Package viewer implements the section loader: it resolves section and
// subsection requests against the document, renders the content view and
// keeps the location fragment and navigation tree in step with it.
package viewer

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/ziadkadry99/docview/internal/document"
	"github.com/ziadkadry99/docview/internal/markdown"
	"github.com/ziadkadry99/docview/internal/nav"
)

var (
	// ErrNotFound is returned when no section has the requested id.
	ErrNotFound = errors.New("section not found")
	// ErrSubsectionNotFound is returned when the section exists but none of
	// its subsections derives the requested id.
	ErrSubsectionNotFound = errors.New("subsection not found")
)

// Location is the shareable, restorable location fragment of the host.
type Location interface {
	Fragment() string
	SetFragment(fragment string)
}

// Viewport scrolls the content view.
type Viewport interface {
	ScrollToAnchor(id string, offset int)
	ScrollTop()
}

// State identifies the section (and optional subsection) being shown.
type State struct {
	SectionID    string `json:"section_id"`
	SubsectionID string `json:"subsection_id,omitempty"`
}

// View is what the content area currently displays: rendered section HTML,
// or an error message in its place.
type View struct {
	HTML  string `json:"html"`
	Error string `json:"error,omitempty"`
}

// Options configures a Loader.
type Options struct {
	DefaultSection string // empty means the first section
	ScrollOffset   int    // pixels of fixed chrome above a scrolled-to anchor
}

// Loader is the section router. It is not safe for concurrent use; the ui
// event loop owns it.
type Loader struct {
	doc      *document.Tree
	renderer markdown.Renderer
	nav      *nav.Tree
	loc      Location
	vp       Viewport
	opts     Options

	state State
	view  View
}

// New creates a loader over doc. navTree receives active marks; loc and vp
// may be nil when the host has no location or viewport.
func New(doc *document.Tree, r markdown.Renderer, navTree *nav.Tree, loc Location, vp Viewport, opts Options) *Loader {
	if r == nil {
		r = markdown.NewDialect()
	}
	if navTree == nil {
		navTree = nav.Build(doc)
	}
	return &Loader{doc: doc, renderer: r, nav: navTree, loc: loc, vp: vp, opts: opts}
}

// State returns the current section state.
func (l *Loader) State() State { return l.state }

// View returns the current content view.
func (l *Loader) View() View { return l.view }

// Nav returns the navigation tree the loader marks active entries on.
func (l *Loader) Nav() *nav.Tree { return l.nav }

// Document returns the document being browsed.
func (l *Loader) Document() *document.Tree { return l.doc }

// LoadSection shows section id, optionally scrolled to subsectionID. On
// failure the error view replaces the content and nothing else changes: the
// current state, the location fragment and the navigation marks stay as they
// were.
func (l *Loader) LoadSection(id, subsectionID string, updateLocation bool) error {
	sec, ok := l.doc.Section(id)
	if !ok {
		err := fmt.Errorf("%w: %q", ErrNotFound, id)
		l.showError(err)
		return err
	}
	if subsectionID != "" {
		if _, ok := sec.Subsection(subsectionID); !ok {
			err := fmt.Errorf("%w: %q in section %q", ErrSubsectionNotFound, subsectionID, id)
			l.showError(err)
			return err
		}
	}

	l.state = State{SectionID: id, SubsectionID: subsectionID}
	if updateLocation && l.loc != nil {
		l.loc.SetFragment(FormatFragment(id, subsectionID))
	}
	l.view = View{HTML: RenderSection(l.renderer, sec)}
	l.nav.SetActive(id, subsectionID)

	if l.vp != nil {
		if subsectionID != "" {
			l.vp.ScrollToAnchor(subsectionID, l.opts.ScrollOffset)
		} else {
			l.vp.ScrollTop()
		}
	}
	return nil
}

// Init loads the section named by the location fragment, or the default
// section when the fragment is empty.
func (l *Loader) Init() error {
	if l.loc != nil {
		if frag := strings.TrimPrefix(l.loc.Fragment(), "#"); frag != "" {
			sec, sub := ParseFragment(l.doc, frag)
			return l.LoadSection(sec, sub, false)
		}
	}
	return l.LoadSection(l.DefaultSection(), "", false)
}

// OnFragmentChange follows an external change of the location fragment,
// such as back/forward navigation. The fragment is not written back.
func (l *Loader) OnFragmentChange() error {
	if l.loc == nil {
		return nil
	}
	frag := strings.TrimPrefix(l.loc.Fragment(), "#")
	if frag == "" {
		return l.LoadSection(l.DefaultSection(), "", false)
	}
	sec, sub := ParseFragment(l.doc, frag)
	if sec == l.state.SectionID && sub == l.state.SubsectionID && l.view.Error == "" {
		return nil
	}
	return l.LoadSection(sec, sub, false)
}

// DefaultSection returns the configured default section id, or the first
// section's id when none is configured.
func (l *Loader) DefaultSection() string {
	if l.opts.DefaultSection != "" {
		return l.opts.DefaultSection
	}
	if first, ok := l.doc.First(); ok {
		return first.ID
	}
	return ""
}

// SetDocument swaps in a reloaded document and its navigation tree, then
// re-renders the current section. When the section no longer exists the
// default section is shown; a vanished subsection drops back to its section.
func (l *Loader) SetDocument(doc *document.Tree, navTree *nav.Tree) error {
	l.doc = doc
	if navTree == nil {
		navTree = nav.Build(doc)
	}
	l.nav = navTree

	cur := l.state
	if cur.SectionID == "" {
		return l.Init()
	}
	sec, ok := doc.Section(cur.SectionID)
	if !ok {
		return l.LoadSection(l.DefaultSection(), "", true)
	}
	sub := cur.SubsectionID
	if sub != "" {
		if _, ok := sec.Subsection(sub); !ok {
			return l.LoadSection(cur.SectionID, "", true)
		}
	}
	// Re-render in place without moving the reader's scroll position.
	l.view = View{HTML: RenderSection(l.renderer, sec)}
	l.nav.SetActive(cur.SectionID, sub)
	return nil
}

func (l *Loader) showError(err error) {
	l.view = View{HTML: ErrorHTML(err), Error: err.Error()}
}

// RenderSection composes the section title, its prose and one block per
// subsection. Each subsection block is anchored at its derived id.
func RenderSection(r markdown.Renderer, sec *document.Section) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<article class="section" id="section-%s">`+"\n", html.EscapeString(sec.ID))
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(sec.Title))
	if sec.Content != "" {
		fmt.Fprintf(&b, "<div class=\"section-content\">%s</div>\n", r.Render(sec.Content))
	}
	for _, sub := range sec.Subsections {
		fmt.Fprintf(&b, `<section class="subsection" id="%s">`+"\n", html.EscapeString(sub.ID()))
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(sub.Title))
		fmt.Fprintf(&b, "<div class=\"subsection-content\">%s</div>\n", r.Render(sub.Content))
		b.WriteString("</section>\n")
	}
	b.WriteString("</article>\n")
	return b.String()
}

// ErrorHTML renders the inline error shown in place of content.
func ErrorHTML(err error) string {
	title := "Something went wrong"
	switch {
	case errors.Is(err, ErrNotFound):
		title = "Section not found"
	case errors.Is(err, ErrSubsectionNotFound):
		title = "Subsection not found"
	}
	return fmt.Sprintf(`<div class="error-state" role="alert"><h2>%s</h2><p>%s</p></div>`+"\n",
		title, html.EscapeString(err.Error()))
}
