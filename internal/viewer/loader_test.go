package viewer

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/ziadkadry99/docview/internal/document"
	"github.com/ziadkadry99/docview/internal/markdown"
	"github.com/ziadkadry99/docview/internal/nav"
)

type fakeLocation struct {
	frag   string
	writes int
}

func (f *fakeLocation) Fragment() string { return f.frag }
func (f *fakeLocation) SetFragment(s string) {
	f.frag = s
	f.writes++
}

type fakeViewport struct {
	anchor string
	offset int
	tops   int
}

func (f *fakeViewport) ScrollToAnchor(id string, offset int) {
	f.anchor = id
	f.offset = offset
}
func (f *fakeViewport) ScrollTop() { f.tops++ }

func introDoc() *document.Tree {
	return &document.Tree{Sections: []document.Section{
		{ID: "intro", Title: "Intro", Content: "Hi", Subsections: []document.Subsection{
			{Title: "Step One", Content: "go"},
		}},
		{ID: "api-reference", Title: "API", Content: "Endpoints", Subsections: []document.Subsection{
			{Title: "Auth Tokens", Content: "bearer"},
		}},
		{ID: "api", Title: "API short", Content: "short"},
	}}
}

func newLoader(doc *document.Tree, opts Options) (*Loader, *fakeLocation, *fakeViewport) {
	loc := &fakeLocation{}
	vp := &fakeViewport{}
	return New(doc, markdown.NewDialect(), nav.Build(doc), loc, vp, opts), loc, vp
}

func TestLoadSectionScenario(t *testing.T) {
	l, loc, vp := newLoader(introDoc(), Options{ScrollOffset: 80})
	if err := l.LoadSection("intro", "", true); err != nil {
		t.Fatalf("LoadSection: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(l.View().HTML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := textOf(find(doc, "h1")); got != "Intro" {
		t.Errorf("h1 = %q, want Intro", got)
	}
	if got := textOf(find(doc, "p")); got != "Hi" {
		t.Errorf("p = %q, want Hi", got)
	}
	sub := findByID(doc, "step-one")
	if sub == nil {
		t.Fatal("no element anchored at step-one")
	}
	if got := textOf(find(sub, "h2")); got != "Step One" {
		t.Errorf("subsection heading = %q", got)
	}

	if loc.frag != "#intro" {
		t.Errorf("fragment = %q, want #intro", loc.frag)
	}
	if vp.tops != 1 {
		t.Errorf("ScrollTop calls = %d, want 1", vp.tops)
	}
	if sec, _ := l.Nav().Active(); sec != "intro" {
		t.Errorf("active nav = %q", sec)
	}
}

func TestLoadSubsectionScrolls(t *testing.T) {
	l, loc, vp := newLoader(introDoc(), Options{ScrollOffset: 80})
	if err := l.LoadSection("intro", "step-one", true); err != nil {
		t.Fatal(err)
	}
	if loc.frag != "#intro-step-one" {
		t.Errorf("fragment = %q", loc.frag)
	}
	if vp.anchor != "step-one" || vp.offset != 80 {
		t.Errorf("scrolled to %q offset %d", vp.anchor, vp.offset)
	}
	if got := l.State(); got != (State{"intro", "step-one"}) {
		t.Errorf("state = %+v", got)
	}
}

func TestLoadSectionWithoutLocationUpdate(t *testing.T) {
	l, loc, _ := newLoader(introDoc(), Options{})
	if err := l.LoadSection("intro", "", false); err != nil {
		t.Fatal(err)
	}
	if loc.writes != 0 {
		t.Errorf("location written %d times", loc.writes)
	}
}

func TestLoadMissingSectionChangesNothing(t *testing.T) {
	l, loc, _ := newLoader(introDoc(), Options{})
	if err := l.LoadSection("intro", "", true); err != nil {
		t.Fatal(err)
	}
	writes := loc.writes

	err := l.LoadSection("missing", "", true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if l.View().Error == "" || !strings.Contains(l.View().HTML, "error-state") {
		t.Errorf("error view not shown: %+v", l.View())
	}
	if l.State().SectionID != "intro" {
		t.Errorf("state changed to %+v", l.State())
	}
	if loc.writes != writes || loc.frag != "#intro" {
		t.Errorf("location changed: %q (%d writes)", loc.frag, loc.writes)
	}
	if sec, _ := l.Nav().Active(); sec != "intro" {
		t.Errorf("nav active changed to %q", sec)
	}
}

func TestLoadMissingSubsection(t *testing.T) {
	l, _, _ := newLoader(introDoc(), Options{})
	err := l.LoadSection("intro", "nope", true)
	if !errors.Is(err, ErrSubsectionNotFound) {
		t.Fatalf("err = %v, want ErrSubsectionNotFound", err)
	}
	if !strings.Contains(l.View().HTML, "Subsection not found") {
		t.Errorf("view = %q", l.View().HTML)
	}
}

func TestFragmentRoundTrip(t *testing.T) {
	doc := introDoc()
	tests := []struct {
		sec, sub string
	}{
		{"intro", ""},
		{"intro", "step-one"},
		{"api-reference", ""},
		{"api-reference", "auth-tokens"},
		{"api", ""},
	}
	for _, tt := range tests {
		l, loc, _ := newLoader(doc, Options{})
		if err := l.LoadSection(tt.sec, tt.sub, true); err != nil {
			t.Fatalf("LoadSection(%q, %q): %v", tt.sec, tt.sub, err)
		}
		want := "#" + tt.sec
		if tt.sub != "" {
			want += "-" + tt.sub
		}
		if loc.frag != want {
			t.Errorf("fragment = %q, want %q", loc.frag, want)
		}
		sec, sub := ParseFragment(doc, loc.frag)
		if sec != tt.sec || sub != tt.sub {
			t.Errorf("ParseFragment(%q) = %q, %q", loc.frag, sec, sub)
		}
	}
}

func TestParseFragment(t *testing.T) {
	doc := introDoc()
	tests := []struct {
		frag     string
		sec, sub string
	}{
		{"", "", ""},
		{"#", "", ""},
		{"intro", "intro", ""},
		{"#intro-step-one", "intro", "step-one"},
		{"api-reference-auth-tokens", "api-reference", "auth-tokens"},
		{"intro-missing", "intro", "missing"},
		{"api-reference-x", "api-reference", "x"},
		{"nowhere-at-all", "nowhere-at-all", ""},
	}
	for _, tt := range tests {
		sec, sub := ParseFragment(doc, tt.frag)
		if sec != tt.sec || sub != tt.sub {
			t.Errorf("ParseFragment(%q) = %q, %q; want %q, %q", tt.frag, sec, sub, tt.sec, tt.sub)
		}
	}
}

func TestInit(t *testing.T) {
	doc := introDoc()

	l, _, _ := newLoader(doc, Options{})
	if err := l.Init(); err != nil {
		t.Fatal(err)
	}
	if l.State().SectionID != "intro" {
		t.Errorf("no fragment, no default: state = %+v", l.State())
	}

	l, _, _ = newLoader(doc, Options{DefaultSection: "api"})
	if err := l.Init(); err != nil {
		t.Fatal(err)
	}
	if l.State().SectionID != "api" {
		t.Errorf("default: state = %+v", l.State())
	}

	l, loc, vp := newLoader(doc, Options{DefaultSection: "api"})
	loc.frag = "#intro-step-one"
	if err := l.Init(); err != nil {
		t.Fatal(err)
	}
	if l.State() != (State{"intro", "step-one"}) {
		t.Errorf("fragment: state = %+v", l.State())
	}
	if loc.writes != 0 {
		t.Error("Init should not rewrite the fragment")
	}
	if vp.anchor != "step-one" {
		t.Errorf("scrolled to %q", vp.anchor)
	}
}

func TestOnFragmentChange(t *testing.T) {
	l, loc, _ := newLoader(introDoc(), Options{})
	if err := l.Init(); err != nil {
		t.Fatal(err)
	}
	loc.frag = "#api-reference"
	if err := l.OnFragmentChange(); err != nil {
		t.Fatal(err)
	}
	if l.State().SectionID != "api-reference" {
		t.Errorf("state = %+v", l.State())
	}
	loc.frag = "#gone"
	if err := l.OnFragmentChange(); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v", err)
	}
	if l.State().SectionID != "api-reference" {
		t.Errorf("state changed on failed fragment: %+v", l.State())
	}
}

func TestSetDocument(t *testing.T) {
	l, loc, _ := newLoader(introDoc(), Options{})
	if err := l.LoadSection("api-reference", "auth-tokens", true); err != nil {
		t.Fatal(err)
	}

	// Subsection removed: fall back to the section.
	doc := introDoc()
	doc.Sections[1].Subsections = nil
	if err := l.SetDocument(doc, nil); err != nil {
		t.Fatal(err)
	}
	if l.State() != (State{"api-reference", ""}) {
		t.Errorf("state = %+v", l.State())
	}
	if loc.frag != "#api-reference" {
		t.Errorf("fragment = %q", loc.frag)
	}

	// Section removed: fall back to the default section.
	doc = &document.Tree{Sections: []document.Section{{ID: "intro", Title: "Intro v2"}}}
	if err := l.SetDocument(doc, nil); err != nil {
		t.Fatal(err)
	}
	if l.State().SectionID != "intro" {
		t.Errorf("state = %+v", l.State())
	}

	// Section still present: re-rendered with new content.
	doc = &document.Tree{Sections: []document.Section{{ID: "intro", Title: "Intro v3"}}}
	if err := l.SetDocument(doc, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(l.View().HTML, "Intro v3") {
		t.Errorf("view not re-rendered: %q", l.View().HTML)
	}
}

func TestRenderSectionEscapesTitles(t *testing.T) {
	sec := &document.Section{ID: "x", Title: "<b>x</b>", Subsections: []document.Subsection{{Title: "A & B"}}}
	out := RenderSection(markdown.NewDialect(), sec)
	if strings.Contains(out, "<b>x</b>") {
		t.Errorf("title not escaped: %s", out)
	}
	if !strings.Contains(out, `id="a-b"`) || !strings.Contains(out, "A &amp; B") {
		t.Errorf("subsection block wrong: %s", out)
	}
}

func find(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, tag); f != nil {
			return f
		}
	}
	return nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := findByID(c, id); f != nil {
			return f
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
