package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
)

// Engine names accepted by New.
const (
	EngineDialect  = "dialect"
	EngineGoldmark = "goldmark"
)

// Goldmark renders full CommonMark + GFM through goldmark with chroma
// highlighting. Raw HTML in the source is not passed through.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark creates a goldmark-backed renderer using the given chroma style.
func NewGoldmark(style string) *Goldmark {
	if style == "" {
		style = "github"
	}
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithWrapperRenderer(codeBlockWrapper),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Goldmark{md: md}
}

// codeBlockWrapper gives fenced code the same header and copy control as
// the dialect. Chroma writes its own <pre> for highlighted blocks.
func codeBlockWrapper(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	lang := DefaultCodeLabel
	if l, ok := c.Language(); ok && len(l) > 0 {
		lang = html.EscapeString(string(l))
	}
	if !entering {
		if !c.Highlighted() {
			_, _ = w.WriteString("</code></pre>")
		}
		_, _ = w.WriteString("</div>\n")
		return
	}
	_, _ = w.WriteString(codeHeaderHTML(lang))
	if !c.Highlighted() {
		fmt.Fprintf(w, `<pre><code class="language-%s">`, lang)
	}
}

// Render implements Renderer.
func (g *Goldmark) Render(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	out := strings.TrimSpace(buf.String())
	// External links open in a new browsing context without an opener.
	return strings.ReplaceAll(out, `<a href="http`, `<a target="_blank" rel="noopener noreferrer" href="http`)
}

// New returns the renderer for the named engine. An empty name selects the
// dialect.
func New(engine, style string) (Renderer, error) {
	switch engine {
	case "", EngineDialect:
		return NewDialect(), nil
	case EngineGoldmark:
		return NewGoldmark(style), nil
	default:
		return nil, fmt.Errorf("unknown markdown engine %q: must be %s or %s", engine, EngineDialect, EngineGoldmark)
	}
}
