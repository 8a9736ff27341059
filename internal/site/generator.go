package site

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/docview/internal/document"
	"github.com/ziadkadry99/docview/internal/markdown"
	"github.com/ziadkadry99/docview/internal/nav"
	"github.com/ziadkadry99/docview/internal/progress"
	"github.com/ziadkadry99/docview/internal/search"
	"github.com/ziadkadry99/docview/internal/viewer"
)

// Exporter writes a document out as a static HTML site: one page per
// section plus index.html for the default section.
type Exporter struct {
	OutputDir      string
	Title          string
	Theme          string
	DefaultSection string
	Renderer       markdown.Renderer
	Reporter       progress.Reporter
}

// NewExporter creates an Exporter writing into outputDir.
func NewExporter(outputDir, title string, r markdown.Renderer) *Exporter {
	return &Exporter{
		OutputDir: outputDir,
		Title:     title,
		Renderer:  r,
		Reporter:  progress.Nop{},
	}
}

// PageNames maps every section id to a unique page file name.
func PageNames(doc *document.Tree) map[string]string {
	names := make(map[string]string, len(doc.Sections))
	used := map[string]bool{"index": true}
	for i, sec := range doc.Sections {
		base := document.Slug(sec.ID)
		if base == "" {
			base = fmt.Sprintf("section-%d", i+1)
		}
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[name] = true
		names[sec.ID] = name + ".html"
	}
	return names
}

// Export builds the site. Returns the number of section pages written.
func (e *Exporter) Export(doc *document.Tree) (int, error) {
	if doc == nil || len(doc.Sections) == 0 {
		return 0, fmt.Errorf("document has no sections")
	}
	if e.Renderer == nil {
		e.Renderer = markdown.NewDialect()
	}
	rep := e.Reporter
	if rep == nil {
		rep = progress.Nop{}
	}

	if err := os.MkdirAll(e.OutputDir, 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(filepath.Join(e.OutputDir, "style.css"), []byte(CSS), 0o644); err != nil {
		return 0, err
	}
	if err := WriteDocument(doc, filepath.Join(e.OutputDir, "document.json")); err != nil {
		return 0, fmt.Errorf("writing document: %w", err)
	}
	if err := WriteSearchIndex(search.BuildIndex(doc), filepath.Join(e.OutputDir, "search-index.json")); err != nil {
		return 0, fmt.Errorf("writing search index: %w", err)
	}

	names := PageNames(doc)
	href := func(sectionID, subsectionID string) string {
		h := names[sectionID]
		if subsectionID != "" {
			h += "#" + subsectionID
		}
		return h
	}

	defaultID := e.DefaultSection
	if _, ok := doc.Section(defaultID); !ok {
		first, _ := doc.First()
		defaultID = first.ID
	}

	rep.Start(len(doc.Sections))
	defer rep.Finish()
	for i := range doc.Sections {
		sec := &doc.Sections[i]
		rep.Update(i+1, sec.Title)

		data, err := e.renderPage(doc, sec, href)
		if err != nil {
			return i, fmt.Errorf("rendering %s: %w", sec.ID, err)
		}
		if err := os.WriteFile(filepath.Join(e.OutputDir, names[sec.ID]), data, 0o644); err != nil {
			return i, err
		}
		if sec.ID == defaultID {
			if err := os.WriteFile(filepath.Join(e.OutputDir, "index.html"), data, 0o644); err != nil {
				return i, err
			}
		}
	}
	return len(doc.Sections), nil
}

func (e *Exporter) renderPage(doc *document.Tree, sec *document.Section, href nav.HrefFunc) ([]byte, error) {
	tree := nav.Build(doc)
	tree.SetActive(sec.ID, "")

	var buf bytes.Buffer
	err := RenderPage(&buf, PageData{
		Title:       sec.Title,
		DocTitle:    e.Title,
		Theme:       e.Theme,
		Content:     template.HTML(viewer.RenderSection(e.Renderer, sec)),
		NavHTML:     template.HTML(tree.Render(href)),
		OutlineHTML: template.HTML(tree.Outline(href)),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
