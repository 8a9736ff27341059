package ui

import (
	"sort"

	"github.com/ziadkadry99/docview/internal/nav"
	"github.com/ziadkadry99/docview/internal/viewer"
)

// CopyRequest asks the client to put Text on its clipboard.
type CopyRequest struct {
	Seq   int    `json:"seq"`
	Block int    `json:"block"`
	Text  string `json:"text"`
}

// CopyLabel is the current label of one copy button.
type CopyLabel struct {
	Block int    `json:"block"`
	Label string `json:"label"`
}

// Snapshot is the complete presentation state of a session. The browser
// adapter renders it as-is.
type Snapshot struct {
	Seq int `json:"seq"`

	Theme        string `json:"theme"`
	ThemePinned  bool   `json:"theme_pinned"`
	Menu         string `json:"menu"`
	Sidebar      string `json:"sidebar"`
	ScrollLocked bool   `json:"scroll_locked"`

	Section  viewer.State `json:"section"`
	Content  viewer.View  `json:"content"`
	Fragment string       `json:"fragment"`
	Scroll   Scroll       `json:"scroll"`

	NavHTML     string `json:"nav_html"`
	OutlineHTML string `json:"outline_html"`
	Query       string `json:"query"`
	NoResults   bool   `json:"no_results"`
	Visible     int    `json:"visible"`

	CopyLabels []CopyLabel  `json:"copy_labels,omitempty"`
	Copy       *CopyRequest `json:"copy,omitempty"`

	DocVersion int `json:"doc_version"`
}

// Snapshot captures the current state. Call it from the event loop (or, when
// Run is not used, from the goroutine calling Handle).
func (a *App) Snapshot() Snapshot {
	tree := a.loader.Nav()
	s := Snapshot{
		Seq:          a.seq,
		Theme:        string(a.theme.Current()),
		ThemePinned:  a.theme.Pinned(),
		Menu:         a.menu.State().String(),
		Sidebar:      a.sidebar.State().String(),
		ScrollLocked: a.scroll.Locked(),
		Section:      a.loader.State(),
		Content:      a.loader.View(),
		Fragment:     a.loc.fragment,
		Scroll:       a.vp.last,
		NavHTML:      tree.ToHTML(),
		OutlineHTML:  tree.Outline(nav.Fragment),
		Query:        a.query,
		NoResults:    tree.NoResults,
		Visible:      tree.VisibleCount(),
		Copy:         a.copyReq,
		DocVersion:   a.version,
	}
	for block, b := range a.buttons {
		s.CopyLabels = append(s.CopyLabels, CopyLabel{Block: block, Label: string(b.Label())})
	}
	sort.Slice(s.CopyLabels, func(i, j int) bool { return s.CopyLabels[i].Block < s.CopyLabels[j].Block })
	return s
}

func (a *App) publish() {
	a.seq++
	if a.publishFn != nil {
		a.publishFn(a.Snapshot())
	}
}
