// Package markdown renders documentation content to HTML fragments.
//
// The default engine, Dialect, is a fixed ordered pipeline of text
// transforms over a deliberately small markdown dialect. Stage order matters:
// each stage runs over the output of the previous one.
package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// DefaultCodeLabel labels fenced code blocks that name no language.
const DefaultCodeLabel = "code"

// Renderer converts markdown source into an HTML fragment. Implementations
// never fail: malformed input degrades to literal text.
type Renderer interface {
	Render(src string) string
}

// Dialect renders the minimal documentation dialect.
type Dialect struct{}

// NewDialect returns the dialect renderer.
func NewDialect() *Dialect { return &Dialect{} }

// Render implements Renderer.
func (Dialect) Render(src string) string { return Render(src) }

var (
	fencedCode = regexp.MustCompile("(?s)```([A-Za-z0-9_+#.-]*)[ \t]*\n(.*?)```")
	inlineCode = regexp.MustCompile("`([^`\n]+)`")
	bold       = regexp.MustCompile(`\*\*([^\n]+?)\*\*`)
	italic     = regexp.MustCompile(`\*([^*\n]+)\*`)
	h3         = regexp.MustCompile(`(?m)^### (.+)$`)
	h2         = regexp.MustCompile(`(?m)^## (.+)$`)
	h1         = regexp.MustCompile(`(?m)^# (.+)$`)
	link       = regexp.MustCompile(`\[([^\]\n]+)\]\(([^)\s]+)\)`)
	ulItem     = regexp.MustCompile(`^- (.+)$`)
	olItem     = regexp.MustCompile(`^\d+\. (.+)$`)
	blockquote = regexp.MustCompile(`(?m)^> ?(.*)$`)
	hrule      = regexp.MustCompile(`(?m)^-{3,}[ \t]*$`)
	blankLines = regexp.MustCompile(`\n[ \t]*\n`)
)

// Code spans are swapped for placeholders while the later stages run and
// restored at the end, so no stage can rewrite escaped code text.
const (
	blockMark  = "\x00B"
	inlineMark = "\x00I"
	markEnd    = "\x00"
)

type pipeline struct {
	blocks  []string
	inlines []string
}

// Render runs the dialect pipeline over src.
func Render(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	p := &pipeline{}
	s := strings.ReplaceAll(src, "\r\n", "\n")

	s = p.fencedCode(s)
	s = p.inlineCode(s)
	s = bold.ReplaceAllString(s, "<strong>$1</strong>")
	s = italic.ReplaceAllString(s, "<em>$1</em>")
	s = h3.ReplaceAllString(s, "<h3>$1</h3>")
	s = h2.ReplaceAllString(s, "<h2>$1</h2>")
	s = h1.ReplaceAllString(s, "<h1>$1</h1>")
	s = link.ReplaceAllStringFunc(s, renderLink)
	s = wrapList(s, ulItem, "ul")
	s = wrapList(s, olItem, "ol")
	s = blockquote.ReplaceAllString(s, "<blockquote>$1</blockquote>")
	s = hrule.ReplaceAllString(s, "<hr>")
	s = paragraphs(s)

	return p.restore(s)
}

func (p *pipeline) fencedCode(s string) string {
	return fencedCode.ReplaceAllStringFunc(s, func(m string) string {
		parts := fencedCode.FindStringSubmatch(m)
		p.blocks = append(p.blocks, codeBlockHTML(parts[1], parts[2]))
		return "\n" + placeholder(blockMark, len(p.blocks)-1) + "\n"
	})
}

func (p *pipeline) inlineCode(s string) string {
	return inlineCode.ReplaceAllStringFunc(s, func(m string) string {
		parts := inlineCode.FindStringSubmatch(m)
		p.inlines = append(p.inlines, "<code>"+html.EscapeString(parts[1])+"</code>")
		return placeholder(inlineMark, len(p.inlines)-1)
	})
}

func (p *pipeline) restore(s string) string {
	if len(p.blocks) == 0 && len(p.inlines) == 0 {
		return s
	}
	pairs := make([]string, 0, 2*(len(p.blocks)+len(p.inlines)))
	for i, b := range p.blocks {
		pairs = append(pairs, placeholder(blockMark, i), b)
	}
	for i, c := range p.inlines {
		pairs = append(pairs, placeholder(inlineMark, i), c)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

func placeholder(mark string, i int) string {
	return fmt.Sprintf("%s%d%s", mark, i, markEnd)
}

func codeBlockHTML(lang, code string) string {
	if lang == "" {
		lang = DefaultCodeLabel
	}
	lang = html.EscapeString(lang)
	code = html.EscapeString(strings.TrimRight(code, "\n"))

	return codeHeaderHTML(lang) + fmt.Sprintf(`<pre><code class="language-%s">%s</code></pre></div>`, lang, code)
}

// codeHeaderHTML opens a code block container with its label and copy
// button. lang must already be escaped.
func codeHeaderHTML(lang string) string {
	return fmt.Sprintf(`<div class="code-block" data-lang="%s">`, lang) +
		fmt.Sprintf(`<div class="code-header"><span class="code-lang">%s</span>`, lang) +
		`<button type="button" class="copy-btn" data-element="copy-code">Copy</button></div>`
}

func renderLink(m string) string {
	parts := link.FindStringSubmatch(m)
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, safeHref(parts[2]), parts[1])
}

// safeHref neutralises script-capable URL schemes and escapes the rest for
// use inside a double-quoted attribute.
func safeHref(u string) string {
	lower := strings.ToLower(strings.TrimSpace(u))
	for _, scheme := range []string{"javascript:", "vbscript:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return "#"
		}
	}
	return html.EscapeString(u)
}

// wrapList turns each run of consecutive lines matching item into a single
// list element. Lines consumed by an earlier pass no longer match.
func wrapList(s string, item *regexp.Regexp, tag string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	var run []string

	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, "<"+tag+">"+strings.Join(run, "")+"</"+tag+">")
		run = nil
	}

	for _, line := range lines {
		if m := item.FindStringSubmatch(strings.TrimRight(line, " \t")); m != nil {
			run = append(run, "<li>"+m[1]+"</li>")
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()
	return strings.Join(out, "\n")
}

var blockTags = []string{
	"<h1", "<h2", "<h3", "<h4", "<h5", "<h6",
	"<ul", "<ol", "<blockquote", "<hr", "<pre", "<div", "<p>", "<p ", "<table", "<section",
	blockMark,
}

func isBlockLevel(line string) bool {
	for _, tag := range blockTags {
		if strings.HasPrefix(line, tag) {
			return true
		}
	}
	return false
}

// paragraphs splits on blank lines, keeps block-level lines as they are and
// wraps every other run of lines in a paragraph with line breaks between them.
func paragraphs(s string) string {
	var out []string
	for _, block := range blankLines.Split(s, -1) {
		var para []string
		flush := func() {
			if len(para) > 0 {
				out = append(out, "<p>"+strings.Join(para, "<br>")+"</p>")
				para = nil
			}
		}
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if isBlockLevel(line) {
				flush()
				out = append(out, line)
				continue
			}
			para = append(para, line)
		}
		flush()
	}
	return strings.Join(out, "\n")
}
