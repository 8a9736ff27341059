package search

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/ziadkadry99/docview/internal/document"
)

func sampleTree() *document.Tree {
	return &document.Tree{Sections: []document.Section{
		{ID: "intro", Title: "Intro", Content: "Hi there", Subsections: []document.Subsection{
			{Title: "Step One", Content: "go build"},
			{Title: "Step Two", Content: "go TEST"},
		}},
		{ID: "api", Title: "API Reference", Content: "Endpoints", Subsections: []document.Subsection{
			{Title: "Auth", Content: "tokens"},
		}},
	}}
}

func TestBuildIndexOrder(t *testing.T) {
	idx := BuildIndex(sampleTree())
	want := []struct {
		kind      Kind
		sec, sub  string
		title     string
		textMatch string
	}{
		{KindSection, "intro", "", "Intro", "intro hi there"},
		{KindSubsection, "intro", "step-one", "Step One", "step one go build"},
		{KindSubsection, "intro", "step-two", "Step Two", "step two go test"},
		{KindSection, "api", "", "API Reference", "api reference endpoints"},
		{KindSubsection, "api", "auth", "Auth", "auth tokens"},
	}
	if len(idx) != len(want) {
		t.Fatalf("index size = %d, want %d", len(idx), len(want))
	}
	for i, w := range want {
		r := idx[i]
		if r.Kind != w.kind || r.SectionID != w.sec || r.SubsectionID != w.sub || r.Title != w.title {
			t.Errorf("record %d = %+v", i, r)
		}
		if r.Text != w.textMatch {
			t.Errorf("record %d text = %q, want %q", i, r.Text, w.textMatch)
		}
	}
}

func TestBuildIndexNil(t *testing.T) {
	if BuildIndex(nil) != nil {
		t.Error("nil tree should produce nil index")
	}
}

func genTree(t *rapid.T) *document.Tree {
	n := rapid.IntRange(0, 6).Draw(t, "sections")
	tree := &document.Tree{}
	for i := 0; i < n; i++ {
		sec := document.Section{
			ID:      fmt.Sprintf("s%d", i),
			Title:   rapid.String().Draw(t, "title"),
			Content: rapid.String().Draw(t, "content"),
		}
		subs := rapid.IntRange(0, 5).Draw(t, "subs")
		for j := 0; j < subs; j++ {
			sec.Subsections = append(sec.Subsections, document.Subsection{
				Title:   rapid.String().Draw(t, "subtitle"),
				Content: rapid.String().Draw(t, "subcontent"),
			})
		}
		tree.Sections = append(tree.Sections, sec)
	}
	return tree
}

func TestBuildIndexProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genTree(t)
		idx := BuildIndex(tree)

		want := len(tree.Sections)
		for _, s := range tree.Sections {
			want += len(s.Subsections)
		}
		if len(idx) != want {
			t.Fatalf("index size = %d, want %d", len(idx), want)
		}

		i := 0
		for _, s := range tree.Sections {
			i++
			for _, sub := range s.Subsections {
				if idx[i].SubsectionID != document.Slug(sub.Title) {
					t.Fatalf("subsection id = %q, want slug %q", idx[i].SubsectionID, document.Slug(sub.Title))
				}
				i++
			}
		}
	})
}

func TestFilter(t *testing.T) {
	idx := BuildIndex(sampleTree())

	tests := []struct {
		name  string
		query string
		want  []string // "sec/sub"
	}{
		{"case insensitive", "go test", []string{"intro/step-two"}},
		{"whitespace trimmed", "   AUTH  ", []string{"api/auth"}},
		{"matches titles and content", "step", []string{"intro/step-one", "intro/step-two"}},
		{"content match", "endpoints", []string{"api/"}},
		{"no match", "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Filter(idx, tt.query)
			if res.Reset {
				t.Fatal("unexpected reset")
			}
			var got []string
			for _, m := range res.Matches {
				got = append(got, m.SectionID+"/"+m.SubsectionID)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("matches = %v, want %v", got, tt.want)
			}
			if res.Empty() != (len(tt.want) == 0) {
				t.Errorf("Empty() = %v", res.Empty())
			}
		})
	}
}

func TestFilterEmptyQueryResets(t *testing.T) {
	idx := BuildIndex(sampleTree())
	for _, q := range []string{"", "   ", "\t\n"} {
		res := Filter(idx, q)
		if !res.Reset {
			t.Errorf("Filter(%q) should reset", q)
		}
		if res.Empty() {
			t.Errorf("reset result must not report empty")
		}
		if !res.Matched("api", "auth") {
			t.Errorf("reset result should match every entry")
		}
	}
}

func TestFilterExactTitleFindsSection(t *testing.T) {
	tree := sampleTree()
	idx := BuildIndex(tree)
	for _, sec := range tree.Sections {
		res := Filter(idx, sec.Title)
		if !res.Matched(sec.ID, "") {
			t.Errorf("query %q did not return section %q", sec.Title, sec.ID)
		}
	}
}

func TestResultMatched(t *testing.T) {
	res := Filter(BuildIndex(sampleTree()), "step one")
	if !res.Matched("intro", "step-one") {
		t.Error("expected step-one to match")
	}
	if res.Matched("intro", "") {
		t.Error("section record should not match")
	}
}
