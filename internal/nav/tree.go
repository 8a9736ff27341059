// Package nav projects a document into the sidebar navigation tree and
// tracks which entries are visible and active.
package nav

import (
	"fmt"
	"html"
	"strings"

	"github.com/ziadkadry99/docview/internal/document"
)

// Entry is the navigation group for one section.
type Entry struct {
	SectionID string  `json:"section_id"`
	Title     string  `json:"title"`
	Visible   bool    `json:"visible"`
	Expanded  bool    `json:"expanded"`
	Active    bool    `json:"active"`
	Children  []Child `json:"children"`
}

// Child is the navigation entry for one subsection.
type Child struct {
	SectionID    string `json:"section_id"`
	SubsectionID string `json:"subsection_id"`
	Title        string `json:"title"`
	Visible      bool   `json:"visible"`
	Active       bool   `json:"active"`
}

// Tree is the render-ready navigation structure.
type Tree struct {
	Entries   []Entry `json:"entries"`
	NoResults bool    `json:"no_results"`
	filtering bool
}

// Fragment formats the shareable location fragment for a section or
// subsection: "#sectionId" or "#sectionId-subsectionId".
func Fragment(sectionID, subsectionID string) string {
	if subsectionID == "" {
		return "#" + sectionID
	}
	return "#" + sectionID + "-" + subsectionID
}

// Build projects doc into a navigation tree, preserving document order.
// Every entry starts visible and inactive.
func Build(doc *document.Tree) *Tree {
	t := &Tree{}
	if doc == nil {
		return t
	}
	t.Entries = make([]Entry, 0, len(doc.Sections))
	for _, sec := range doc.Sections {
		e := Entry{
			SectionID: sec.ID,
			Title:     sec.Title,
			Visible:   true,
			Children:  make([]Child, 0, len(sec.Subsections)),
		}
		for _, sub := range sec.Subsections {
			e.Children = append(e.Children, Child{
				SectionID:    sec.ID,
				SubsectionID: sub.ID(),
				Title:        sub.Title,
				Visible:      true,
			})
		}
		t.Entries = append(t.Entries, e)
	}
	return t
}

// Reset makes every entry and group visible again and clears the no-results
// state. Only the active group stays expanded.
func (t *Tree) Reset() {
	t.filtering = false
	t.NoResults = false
	for i := range t.Entries {
		e := &t.Entries[i]
		e.Visible = true
		e.Expanded = e.Active
		for j := range e.Children {
			e.Children[j].Visible = true
		}
	}
}

// ApplyFilter shows only the entries for which matched returns true, plus
// the groups that enclose them. A group with no visible children collapses;
// a group whose section neither matched nor has a visible child is hidden.
// It returns the number of visible entries.
func (t *Tree) ApplyFilter(matched func(sectionID, subsectionID string) bool) int {
	t.filtering = true
	visible := 0
	for i := range t.Entries {
		e := &t.Entries[i]
		children := 0
		for j := range e.Children {
			c := &e.Children[j]
			c.Visible = matched(c.SectionID, c.SubsectionID)
			if c.Visible {
				children++
			}
		}
		sectionMatched := matched(e.SectionID, "")
		e.Visible = sectionMatched || children > 0
		e.Expanded = children > 0
		if sectionMatched {
			visible++
		}
		visible += children
	}
	t.NoResults = visible == 0
	return visible
}

// Filtering reports whether a filter is currently applied.
func (t *Tree) Filtering() bool { return t.filtering }

// SetActive marks the entry for sectionID (and subsectionID, if non-empty)
// active and clears every other active mark.
func (t *Tree) SetActive(sectionID, subsectionID string) {
	for i := range t.Entries {
		e := &t.Entries[i]
		e.Active = e.SectionID == sectionID
		if !t.filtering {
			e.Expanded = e.Active
		}
		for j := range e.Children {
			c := &e.Children[j]
			c.Active = e.Active && subsectionID != "" && c.SubsectionID == subsectionID
		}
	}
}

// Active returns the currently active section and subsection ids.
func (t *Tree) Active() (sectionID, subsectionID string) {
	for _, e := range t.Entries {
		if !e.Active {
			continue
		}
		for _, c := range e.Children {
			if c.Active {
				return e.SectionID, c.SubsectionID
			}
		}
		return e.SectionID, ""
	}
	return "", ""
}

// VisibleCount returns the number of visible section and subsection entries.
func (t *Tree) VisibleCount() int {
	n := 0
	for _, e := range t.Entries {
		if !e.Visible {
			continue
		}
		n++
		for _, c := range e.Children {
			if c.Visible {
				n++
			}
		}
	}
	return n
}

// HrefFunc maps a section (and optional subsection) to a link target.
type HrefFunc func(sectionID, subsectionID string) string

// ToHTML renders the tree with location-fragment links.
func (t *Tree) ToHTML() string {
	return t.Render(Fragment)
}

// Render renders the tree as nested <ul><li> markup for the sidebar, linking
// entries through href. Hidden entries carry the hidden attribute so the
// client can toggle them in place.
func (t *Tree) Render(href HrefFunc) string {
	var b strings.Builder
	b.WriteString(`<ul class="nav-tree">` + "\n")
	for _, e := range t.Entries {
		classes := "nav-group"
		if e.Expanded {
			classes += " expanded"
		}
		fmt.Fprintf(&b, `<li class="%s" data-section="%s"%s>`, classes, attr(e.SectionID), hiddenAttr(e.Visible))
		fmt.Fprintf(&b, `<a class="nav-entry%s" href="%s" data-element="nav-entry" data-section="%s">%s</a>`,
			activeClass(e.Active), attr(href(e.SectionID, "")), attr(e.SectionID), html.EscapeString(e.Title))
		if len(e.Children) > 0 {
			b.WriteString("\n" + `<ul class="nav-children">` + "\n")
			for _, c := range e.Children {
				fmt.Fprintf(&b, `<li class="nav-child"%s><a class="nav-entry%s" href="%s" data-element="nav-entry" data-section="%s" data-subsection="%s">%s</a></li>`+"\n",
					hiddenAttr(c.Visible), activeClass(c.Active), attr(href(c.SectionID, c.SubsectionID)),
					attr(c.SectionID), attr(c.SubsectionID), html.EscapeString(c.Title))
			}
			b.WriteString("</ul>")
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
	fmt.Fprintf(&b, `<div class="no-results"%s>No results found</div>`+"\n", hiddenAttr(t.NoResults))
	return b.String()
}

// Outline renders the "on this page" list of the active section's
// subsections. It is empty when no section is active or the active section
// has no subsections.
func (t *Tree) Outline(href HrefFunc) string {
	for _, e := range t.Entries {
		if !e.Active || len(e.Children) == 0 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, `<h3 class="outline-title">%s</h3>`+"\n", html.EscapeString(e.Title))
		b.WriteString(`<ul class="outline-list">` + "\n")
		for _, c := range e.Children {
			fmt.Fprintf(&b, `<li><a class="nav-entry%s" href="%s" data-element="nav-entry" data-section="%s" data-subsection="%s">%s</a></li>`+"\n",
				activeClass(c.Active), attr(href(c.SectionID, c.SubsectionID)),
				attr(c.SectionID), attr(c.SubsectionID), html.EscapeString(c.Title))
		}
		b.WriteString("</ul>\n")
		return b.String()
	}
	return ""
}

func attr(s string) string { return html.EscapeString(s) }

func activeClass(active bool) string {
	if active {
		return " active"
	}
	return ""
}

func hiddenAttr(visible bool) string {
	if visible {
		return ""
	}
	return " hidden"
}
