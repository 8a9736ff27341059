// Package ui runs one viewer session: it owns the section loader, the
// navigation tree, the search filter and the toggle controllers, and
// serializes every host event through a single event loop.
package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ziadkadry99/docview/internal/clipboard"
	"github.com/ziadkadry99/docview/internal/library"
	"github.com/ziadkadry99/docview/internal/markdown"
	"github.com/ziadkadry99/docview/internal/nav"
	"github.com/ziadkadry99/docview/internal/schedule"
	"github.com/ziadkadry99/docview/internal/search"
	"github.com/ziadkadry99/docview/internal/toggle"
	"github.com/ziadkadry99/docview/internal/viewer"
)

// Settings are the tunables of a session.
type Settings struct {
	DefaultSection    string
	SearchDebounce    time.Duration
	Transition        time.Duration
	CopyRevert        time.Duration
	DesktopBreakpoint int
	ScrollOffset      int
	SwipeThreshold    int
	SwipeEdge         int
}

// DefaultSettings returns the stock session settings.
func DefaultSettings() Settings {
	return Settings{
		SearchDebounce:    300 * time.Millisecond,
		Transition:        300 * time.Millisecond,
		CopyRevert:        clipboard.DefaultRevert,
		DesktopBreakpoint: 768,
		ScrollOffset:      80,
		SwipeThreshold:    50,
		SwipeEdge:         30,
	}
}

// Options configures a new App.
type Options struct {
	Library  *library.Library
	Renderer markdown.Renderer
	Prefs    toggle.PreferenceStore
	Settings Settings

	// Initial host state, usually taken from the client's hello event.
	Ambient  toggle.Theme
	Fragment string
	Width    int

	// Scheduler overrides the event-loop timer scheduler, e.g. with a
	// schedule.Manual in tests.
	Scheduler schedule.Scheduler

	// Publish receives a snapshot after every handled event and timer.
	Publish func(Snapshot)
	Logger  *slog.Logger
}

// App is one viewer session. Use Run to serve it from its own goroutine and
// Dispatch to feed it events; without Run, Handle may be called directly
// from a single goroutine.
type App struct {
	lib       *library.Library
	settings  Settings
	log       *slog.Logger
	publishFn func(Snapshot)

	sched  schedule.Scheduler
	events chan Event
	calls  chan func()
	done   chan struct{}

	loc      *location
	vp       *viewport
	loader   *viewer.Loader
	renderer markdown.Renderer
	index    []search.Record
	version  int

	theme   *toggle.ThemeController
	menu    *toggle.Panel
	sidebar *toggle.Panel
	scroll  *toggle.ScrollLock

	debounce     *schedule.Debouncer
	query        string
	appliedQuery string

	buttons map[int]*clipboard.Button
	copyReq *CopyRequest
	copySeq int
	width   int
	seq     int

	clicks   map[Element]func(Event)
	handlers map[EventType]func(Event)
}

// New builds a session over the library's current snapshot and resolves
// the initial section from opts.Fragment.
func New(opts Options) *App {
	if opts.Library == nil {
		opts.Library = library.New(nil, opts.Logger)
	}
	if opts.Renderer == nil {
		opts.Renderer = markdown.NewDialect()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := opts.Settings
	if s == (Settings{}) {
		s = DefaultSettings()
	}

	a := &App{
		lib:       opts.Library,
		settings:  s,
		log:       opts.Logger,
		publishFn: opts.Publish,
		events:    make(chan Event, 64),
		calls:     make(chan func(), 16),
		done:      make(chan struct{}),
		loc:       &location{fragment: opts.Fragment},
		vp:        &viewport{},
		renderer:  opts.Renderer,
		buttons:   make(map[int]*clipboard.Button),
		width:     opts.Width,
	}
	base := opts.Scheduler
	if base == nil {
		base = loopScheduler{app: a}
	}
	a.sched = publishing{inner: base, app: a}
	a.debounce = schedule.NewDebouncer(a.sched, s.SearchDebounce)

	a.theme = toggle.NewTheme(opts.Prefs, opts.Ambient, nil)
	a.scroll = toggle.NewScrollLock(nil)
	panel := toggle.PanelOptions{
		Transition: s.Transition,
		Breakpoint: s.DesktopBreakpoint,
		Lock:       a.scroll,
	}
	a.menu = toggle.NewPanel("menu", a.sched, panel)
	a.sidebar = toggle.NewPanel("sidebar", a.sched, panel)
	if opts.Width > 0 {
		a.menu.Resize(opts.Width)
		a.sidebar.Resize(opts.Width)
	}

	snap := a.lib.Current()
	a.index = snap.Index
	a.version = snap.Version
	a.loader = viewer.New(snap.Doc, a.renderer, nav.Build(snap.Doc), a.loc, a.vp, viewer.Options{
		DefaultSection: s.DefaultSection,
		ScrollOffset:   s.ScrollOffset,
	})
	if err := a.loader.Init(); err != nil {
		a.log.Debug("initial section", "fragment", opts.Fragment, "error", err)
	}

	a.clicks = map[Element]func(Event){
		ElementThemeToggle:   a.onThemeToggle,
		ElementMenuToggle:    a.onMenuToggle,
		ElementSidebarToggle: a.onSidebarToggle,
		ElementNavEntry:      a.onNavEntry,
		ElementCopyCode:      a.onCopyCode,
		ElementOverlay:       a.onOverlay,
	}
	a.handlers = map[EventType]func(Event){
		EventClick:      a.onClick,
		EventInput:      a.onInput,
		EventResize:     a.onResize,
		EventSwipe:      a.onSwipe,
		EventHashChange: a.onHashChange,
		EventAmbient:    a.onAmbient,
		EventCopied:     a.onCopyResult,
		EventCopyFailed: a.onCopyResult,
	}
	return a
}

// Run serves the session until ctx is done. Events, timer callbacks and
// document reloads are all handled on this goroutine.
func (a *App) Run(ctx context.Context) error {
	defer close(a.done)
	reloads, unsubscribe := a.lib.Subscribe()
	defer unsubscribe()
	defer a.debounce.Cancel()

	a.publish()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-a.events:
			a.Handle(ev)
		case fn := <-a.calls:
			fn()
		case snap := <-reloads:
			a.Reload(snap)
		}
	}
}

// ErrClosed is returned by Dispatch after the session ended.
var ErrClosed = errors.New("session closed")

// Dispatch queues ev for the event loop. Events are handled in arrival
// order.
func (a *App) Dispatch(ctx context.Context, ev Event) error {
	select {
	case <-a.done:
		return ErrClosed
	default:
	}
	select {
	case a.events <- ev:
		return nil
	case <-a.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *App) post(fn func()) {
	select {
	case a.calls <- fn:
	case <-a.done:
	}
}

// Handle processes one event and publishes the resulting snapshot.
func (a *App) Handle(ev Event) {
	h, ok := a.handlers[ev.Type]
	if !ok {
		a.log.Debug("ignoring event", "type", ev.Type)
		return
	}
	a.log.Debug("event", "type", ev.Type, "element", ev.Element)
	h(ev)
	a.publish()
}

// Reload swaps in a newly loaded document. The current section is kept
// when it still exists and the active search is re-applied at once.
func (a *App) Reload(snap *library.Snapshot) {
	if snap == nil || snap.Version == a.version {
		return
	}
	a.version = snap.Version
	a.index = snap.Index
	if err := a.loader.SetDocument(snap.Doc, nav.Build(snap.Doc)); err != nil {
		a.log.Debug("reload section", "error", err)
	}
	a.buttons = make(map[int]*clipboard.Button)
	a.applySearch(a.appliedQuery)
	a.publish()
}

func (a *App) onClick(ev Event) {
	h, ok := a.clicks[ev.Element]
	if !ok {
		a.log.Debug("click on unknown element", "element", ev.Element)
		return
	}
	h(ev)
}

func (a *App) onThemeToggle(Event) { a.theme.Toggle() }

func (a *App) onMenuToggle(Event) { a.menu.Toggle() }

func (a *App) onSidebarToggle(Event) { a.sidebar.Toggle() }

func (a *App) onNavEntry(ev Event) {
	if ev.SectionID == "" {
		return
	}
	if err := a.loader.LoadSection(ev.SectionID, ev.SubsectionID, true); err != nil {
		a.log.Debug("load section", "section", ev.SectionID, "subsection", ev.SubsectionID, "error", err)
		return
	}
	a.buttons = make(map[int]*clipboard.Button)
	// Picking an entry on a narrow screen dismisses the menu.
	a.menu.Close()
}

func (a *App) onOverlay(Event) {
	a.menu.Close()
	a.sidebar.Close()
}

func (a *App) onInput(ev Event) {
	if ev.Element != "" && ev.Element != ElementSearchInput {
		return
	}
	a.query = ev.Value
	q := ev.Value
	a.debounce.Call(func() { a.applySearch(q) })
}

func (a *App) applySearch(q string) {
	a.appliedQuery = q
	res := search.Filter(a.index, q)
	tree := a.loader.Nav()
	if res.Reset {
		tree.Reset()
		return
	}
	tree.ApplyFilter(res.Matched)
}

func (a *App) onResize(ev Event) {
	if ev.Width <= 0 {
		return
	}
	a.width = ev.Width
	a.menu.Resize(ev.Width)
	a.sidebar.Resize(ev.Width)
}

// onSwipe opens the menu on a rightward swipe that starts at the left edge
// and closes it on a leftward swipe.
func (a *App) onSwipe(ev Event) {
	t := a.settings.SwipeThreshold
	switch {
	case ev.DeltaX > t && ev.StartX <= a.settings.SwipeEdge:
		a.menu.OpenPanel()
	case ev.DeltaX < -t:
		a.menu.Close()
	}
}

func (a *App) onHashChange(ev Event) {
	a.loc.fragment = ev.Value
	if err := a.loader.OnFragmentChange(); err != nil {
		a.log.Debug("fragment change", "fragment", ev.Value, "error", err)
	}
}

func (a *App) onAmbient(ev Event) {
	a.theme.AmbientChanged(toggle.Theme(ev.Value))
}

func (a *App) button(block int) *clipboard.Button {
	b, ok := a.buttons[block]
	if !ok {
		b = clipboard.NewButton(a.sched, a.settings.CopyRevert, nil)
		a.buttons[block] = b
	}
	return b
}

// onCopyCode asks the client to copy the literal text of the clicked code
// block. The client reports back with copied or copy-failed.
func (a *App) onCopyCode(ev Event) {
	blocks := markdown.CodeBlocks(a.loader.View().HTML)
	if ev.Block < 0 || ev.Block >= len(blocks) {
		a.button(ev.Block).Failed()
		return
	}
	a.copySeq++
	a.copyReq = &CopyRequest{Seq: a.copySeq, Block: ev.Block, Text: blocks[ev.Block]}
}

func (a *App) onCopyResult(ev Event) {
	if ev.Type == EventCopied {
		a.button(ev.Block).Succeeded()
		return
	}
	a.button(ev.Block).Failed()
}
