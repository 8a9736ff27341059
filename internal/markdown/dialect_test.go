package markdown

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestRenderEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t"} {
		if got := Render(in); got != "" {
			t.Errorf("Render(%q) = %q, want empty", in, got)
		}
	}
}

func TestRenderPlainTextIsSingleParagraph(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ,]{0,60}[A-Za-z0-9]`).Draw(t, "text")
		got := Render(text)
		if want := "<p>" + text + "</p>"; got != want {
			t.Fatalf("Render(%q) = %q, want %q", text, got, want)
		}
	})
}

func TestRenderInline(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"bold", "a **b** c", "<p>a <strong>b</strong> c</p>"},
		{"italic", "a *b* c", "<p>a <em>b</em> c</p>"},
		{"bold before italic", "**x** and *y*", "<p><strong>x</strong> and <em>y</em></p>"},
		{"inline code", "run `go test`", "<p>run <code>go test</code></p>"},
		{"inline code escaped", "use `<b>&`", "<p>use <code>&lt;b&gt;&amp;</code></p>"},
		{"inline code protects emphasis", "`**not bold**`", "<p><code>**not bold**</code></p>"},
		{"line breaks", "one\ntwo", "<p>one<br>two</p>"},
		{"unclosed bold is literal", "**oops", "<p>**oops</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.in); got != tt.want {
				t.Errorf("Render(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderHeaders(t *testing.T) {
	got := Render("# One\n## Two\n### Three")
	want := "<h1>One</h1>\n<h2>Two</h2>\n<h3>Three</h3>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderParagraphs(t *testing.T) {
	got := Render("first para\n\nsecond para")
	want := "<p>first para</p>\n<p>second para</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderFencedCode(t *testing.T) {
	got := Render("before\n```go\nif a < b && c > d {\n\t*p = **q\n}\n```\nafter")

	for _, want := range []string{
		`<p>before</p>`,
		`<span class="code-lang">go</span>`,
		`<code class="language-go">if a &lt; b &amp;&amp; c &gt; d {`,
		"\t*p = **q\n}</code></pre>",
		`<p>after</p>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<em>") || strings.Contains(got, "<strong>") {
		t.Errorf("emphasis leaked into code block:\n%s", got)
	}
	if strings.Contains(got, "<br>") {
		t.Errorf("line breaks leaked into code block:\n%s", got)
	}
}

func TestRenderFencedCodeDefaultLabel(t *testing.T) {
	got := Render("```\nplain\n```")
	if !strings.Contains(got, `<span class="code-lang">`+DefaultCodeLabel+`</span>`) {
		t.Errorf("missing default label:\n%s", got)
	}
	if strings.HasPrefix(got, "<p>") {
		t.Errorf("code block should not be wrapped in a paragraph:\n%s", got)
	}
}

func TestRenderEscapesMarkupInCode(t *testing.T) {
	got := Render("```html\n<script>alert('x')</script>\n```\n\n`<img src=x onerror=alert(1)>`")
	if strings.Contains(got, "<script>") || strings.Contains(got, "<img") {
		t.Fatalf("unescaped markup in output:\n%s", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") || !strings.Contains(got, "&lt;img") {
		t.Errorf("expected escaped markup:\n%s", got)
	}
}

func TestRenderLinks(t *testing.T) {
	got := Render("see [docs](https://example.com/a?b=1&c=2)")
	want := `<p>see <a href="https://example.com/a?b=1&amp;c=2" target="_blank" rel="noopener noreferrer">docs</a></p>`
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}

	got = Render("[click](javascript:alert(1))")
	if strings.Contains(got, "javascript:") {
		t.Errorf("script URL not neutralised: %s", got)
	}
}

func TestRenderLists(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"unordered", "- a\n- b", "<ul><li>a</li><li>b</li></ul>"},
		{"ordered", "1. a\n2. b", "<ol><li>a</li><li>b</li></ol>"},
		{"separate runs", "- a\n\n- b", "<ul><li>a</li></ul>\n<ul><li>b</li></ul>"},
		{"unordered then ordered", "- a\n1. b", "<ul><li>a</li></ul>\n<ol><li>b</li></ol>"},
		{"blank line after unordered item", "- a\n\n1. b\n2. c", "<ul><li>a</li></ul>\n<ol><li>b</li><li>c</li></ol>"},
		{"list after text", "intro\n- a", "<p>intro</p>\n<ul><li>a</li></ul>"},
		{"emphasis inside items", "- **a**", "<ul><li><strong>a</strong></li></ul>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.in); got != tt.want {
				t.Errorf("Render(%q)\n got %q\nwant %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRenderBlockquoteAndRule(t *testing.T) {
	got := Render("> quoted\n\n---\n\nend")
	want := "<blockquote>quoted</blockquote>\n<hr>\n<p>end</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDialectImplementsRenderer(t *testing.T) {
	var r Renderer = NewDialect()
	if got := r.Render("Hi"); got != "<p>Hi</p>" {
		t.Errorf("Render = %q", got)
	}
}

func TestNewEngine(t *testing.T) {
	if r, err := New("", ""); err != nil || r == nil {
		t.Fatalf("New(\"\") = %v, %v", r, err)
	}
	if _, ok := mustNew(t, EngineDialect).(*Dialect); !ok {
		t.Error("dialect engine should return *Dialect")
	}
	if _, ok := mustNew(t, EngineGoldmark).(*Goldmark); !ok {
		t.Error("goldmark engine should return *Goldmark")
	}
	if _, err := New("pandoc", ""); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func mustNew(t *testing.T, engine string) Renderer {
	t.Helper()
	r, err := New(engine, "github")
	if err != nil {
		t.Fatalf("New(%q): %v", engine, err)
	}
	return r
}

func TestGoldmarkRender(t *testing.T) {
	g := NewGoldmark("")
	got := g.Render("# Title\n\nSee [site](https://example.com).\n\n| a | b |\n|---|---|\n| 1 | 2 |")
	for _, want := range []string{`<h1 id="title">Title</h1>`, `rel="noopener noreferrer"`, "<table>"} {
		if !strings.Contains(got, want) {
			t.Errorf("goldmark output missing %q:\n%s", want, got)
		}
	}
	if g.Render("  ") != "" {
		t.Error("blank input should render empty")
	}
}

func TestGoldmarkCodeBlocksAreCopyable(t *testing.T) {
	g := NewGoldmark("github")
	got := g.Render("```go\nx := 1\n```\n\n```\na < b\n```")

	if n := strings.Count(got, `data-element="copy-code"`); n != 2 {
		t.Errorf("copy controls = %d, want 2:\n%s", n, got)
	}
	if !strings.Contains(got, `<span class="code-lang">go</span>`) || !strings.Contains(got, `<span class="code-lang">code</span>`) {
		t.Errorf("code labels missing:\n%s", got)
	}
	if !strings.Contains(got, `<pre><code class="language-code">a &lt; b`) {
		t.Errorf("unhighlighted block should be escaped inside pre/code:\n%s", got)
	}

	blocks := CodeBlocks(got)
	if len(blocks) != 2 || blocks[0] != "x := 1" || blocks[1] != "a < b" {
		t.Errorf("blocks = %q", blocks)
	}
}

func TestCodeBlocks(t *testing.T) {
	fragment := Render("```go\nfmt.Println(\"<hi>\")\n```\n\ntext\n\n```\nsecond & last\n```")
	blocks := CodeBlocks(fragment)
	if len(blocks) != 2 {
		t.Fatalf("blocks = %d, want 2 (%q)", len(blocks), blocks)
	}
	if blocks[0] != `fmt.Println("<hi>")` {
		t.Errorf("block 0 = %q", blocks[0])
	}
	if blocks[1] != "second & last" {
		t.Errorf("block 1 = %q", blocks[1])
	}
	if CodeBlocks("<p>none</p>") != nil {
		t.Error("expected no blocks")
	}
}
