package ui

// Element identifies the UI control an event came from.
type Element string

const (
	ElementThemeToggle   Element = "theme-toggle"
	ElementMenuToggle    Element = "menu-toggle"
	ElementSidebarToggle Element = "sidebar-toggle"
	ElementNavEntry      Element = "nav-entry"
	ElementSearchInput   Element = "search-input"
	ElementCopyCode      Element = "copy-code"
	ElementOverlay       Element = "sidebar-overlay"
)

// EventType is the kind of host event.
type EventType string

const (
	EventHello      EventType = "hello"
	EventClick      EventType = "click"
	EventInput      EventType = "input"
	EventResize     EventType = "resize"
	EventSwipe      EventType = "swipe"
	EventHashChange EventType = "hashchange"
	EventAmbient    EventType = "ambient"
	EventCopied     EventType = "copied"
	EventCopyFailed EventType = "copy-failed"
)

// Event is a host event as delivered by the browser adapter.
type Event struct {
	Type    EventType `json:"type"`
	Element Element   `json:"element,omitempty"`

	// nav-entry clicks
	SectionID    string `json:"section,omitempty"`
	SubsectionID string `json:"subsection,omitempty"`

	// search input text, location fragment or ambient theme
	Value string `json:"value,omitempty"`

	// viewport width for hello and resize
	Width int `json:"width,omitempty"`

	// ambient theme reported with hello
	Ambient string `json:"ambient,omitempty"`

	// code block index for copy-code, copied and copy-failed
	Block int `json:"block,omitempty"`

	// horizontal swipe: touch start x and signed distance
	StartX int `json:"start_x,omitempty"`
	DeltaX int `json:"delta_x,omitempty"`
}
