// Package search flattens a document into searchable records and filters
// them against free-text queries.
package search

import (
	"strings"

	"github.com/ziadkadry99/docview/internal/document"
)

// Kind distinguishes section records from subsection records.
type Kind string

const (
	KindSection    Kind = "section"
	KindSubsection Kind = "subsection"
)

// Record is the flattened, searchable form of a section or subsection.
type Record struct {
	Kind         Kind   `json:"kind"`
	SectionID    string `json:"section_id"`
	SubsectionID string `json:"subsection_id,omitempty"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Text         string `json:"-"` // lowercased title + content
}

// BuildIndex produces one record per section and one per subsection, in
// document order. The index is a pure function of the tree and is rebuilt
// wholesale whenever the document is (re)loaded.
func BuildIndex(tree *document.Tree) []Record {
	if tree == nil {
		return nil
	}
	records := make([]Record, 0, tree.CountEntries())
	for _, sec := range tree.Sections {
		records = append(records, Record{
			Kind:      KindSection,
			SectionID: sec.ID,
			Title:     sec.Title,
			Content:   sec.Content,
			Text:      searchText(sec.Title, sec.Content),
		})
		for _, sub := range sec.Subsections {
			records = append(records, Record{
				Kind:         KindSubsection,
				SectionID:    sec.ID,
				SubsectionID: sub.ID(),
				Title:        sub.Title,
				Content:      sub.Content,
				Text:         searchText(sub.Title, sub.Content),
			})
		}
	}
	return records
}

func searchText(title, content string) string {
	return strings.ToLower(title + " " + content)
}

// Result is the outcome of filtering an index.
type Result struct {
	Query   string   // normalized query
	Reset   bool     // the query was empty: every entry is visible
	Matches []Record // matching records in index order
}

// Empty reports whether a non-empty query matched nothing.
func (r Result) Empty() bool {
	return !r.Reset && len(r.Matches) == 0
}

// Matched reports whether the entry identified by sectionID and subsectionID
// (empty for the section itself) is part of the result.
func (r Result) Matched(sectionID, subsectionID string) bool {
	if r.Reset {
		return true
	}
	for _, m := range r.Matches {
		if m.SectionID == sectionID && m.SubsectionID == subsectionID {
			return true
		}
	}
	return false
}

// NormalizeQuery trims surrounding whitespace and case-folds the query.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Filter scans the whole index for records whose search text or title
// contains the query. An empty query yields a reset result.
func Filter(index []Record, query string) Result {
	q := NormalizeQuery(query)
	if q == "" {
		return Result{Reset: true}
	}
	res := Result{Query: q}
	for _, rec := range index {
		if strings.Contains(rec.Text, q) || strings.Contains(strings.ToLower(rec.Title), q) {
			res.Matches = append(res.Matches, rec)
		}
	}
	return res
}
