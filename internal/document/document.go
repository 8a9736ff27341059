// Package document holds the documentation tree rendered by the viewer:
// an ordered list of sections, each with ordered subsections.
package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// Tree is the root of a loaded documentation document. It is treated as
// immutable once loaded; reloads produce a new Tree.
type Tree struct {
	Sections []Section `json:"sections"`
}

// Section is a top-level documentation unit with a stable id.
type Section struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Subsections []Subsection `json:"subsections"`
}

// Subsection is a titled markdown block nested under a Section. Its id is
// derived from the title, never stored.
type Subsection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ID returns the derived slug of the subsection title.
func (s Subsection) ID() string {
	return Slug(s.Title)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases title, collapses every run of non-alphanumeric characters
// into a single hyphen and strips leading and trailing hyphens.
func Slug(title string) string {
	s := nonAlnum.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// Parse decodes a JSON document of the form
// {"sections":[{"id","title","content","subsections":[{"title","content"}]}]}.
func Parse(data []byte) (*Tree, error) {
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return &t, nil
}

// Section returns the section with the given id.
func (t *Tree) Section(id string) (*Section, bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.Sections {
		if t.Sections[i].ID == id {
			return &t.Sections[i], true
		}
	}
	return nil, false
}

// First returns the first section of the document, if any.
func (t *Tree) First() (*Section, bool) {
	if t == nil || len(t.Sections) == 0 {
		return nil, false
	}
	return &t.Sections[0], true
}

// Subsection returns the first subsection whose derived id matches id.
func (s *Section) Subsection(id string) (*Subsection, bool) {
	for i := range s.Subsections {
		if s.Subsections[i].ID() == id {
			return &s.Subsections[i], true
		}
	}
	return nil, false
}

// CountEntries returns the number of sections plus the number of subsections.
func (t *Tree) CountEntries() int {
	if t == nil {
		return 0
	}
	n := len(t.Sections)
	for _, s := range t.Sections {
		n += len(s.Subsections)
	}
	return n
}

// Lint reports data-quality problems that the viewer tolerates but cannot
// resolve: missing or duplicate section ids and subsection titles whose slugs
// collide within one section. Nothing here is enforced at runtime.
func (t *Tree) Lint() []string {
	if t == nil {
		return nil
	}
	var problems []string
	seen := make(map[string]bool)
	for i, s := range t.Sections {
		if s.ID == "" {
			problems = append(problems, fmt.Sprintf("section %d (%q) has no id", i, s.Title))
		} else if seen[s.ID] {
			problems = append(problems, fmt.Sprintf("duplicate section id %q", s.ID))
		}
		seen[s.ID] = true

		slugs := make(map[string]string)
		for _, sub := range s.Subsections {
			id := sub.ID()
			if prev, ok := slugs[id]; ok {
				problems = append(problems, fmt.Sprintf("section %q: subsections %q and %q share id %q", s.ID, prev, sub.Title, id))
				continue
			}
			slugs[id] = sub.Title
		}
	}
	return problems
}
