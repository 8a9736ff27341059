package site

import (
	"html/template"
	"io"
)

// PageData is the input of the page shell shared by the live viewer and the
// static export.
type PageData struct {
	Title    string
	DocTitle string
	// Theme pins data-theme on <html>; empty follows prefers-color-scheme.
	Theme       string
	Content     template.HTML
	NavHTML     template.HTML
	OutlineHTML template.HTML
	BasePath    string
	HomeHref    string
	// Live pages carry the controls and the session script.
	Live bool
}

var page = template.Must(template.New("page").Parse(pageTemplate))

// RenderPage writes the page shell for data.
func RenderPage(w io.Writer, data PageData) error {
	if data.HomeHref == "" {
		data.HomeHref = data.BasePath + "index.html"
	}
	return page.Execute(w, data)
}

// pageTemplate is the Go html/template for every documentation page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en"{{if .Theme}} data-theme="{{.Theme}}"{{end}}>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{if .Title}}{{.Title}} · {{end}}{{.DocTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body class="{{if .Live}}live{{else}}static{{end}}" data-menu="closed" data-sidebar="closed">
  <nav class="sidebar" id="sidebar" aria-label="Sections">
    <div class="sidebar-header">
      <a class="project-title" href="{{.HomeHref}}">{{.DocTitle}}</a>
      {{if .Live}}<input type="search" id="search-input" data-element="search-input" placeholder="Search docs..." autocomplete="off" aria-label="Search documentation">{{end}}
    </div>
    <div class="sidebar-tree" id="nav-tree">
      {{.NavHTML}}
    </div>
  </nav>
  <div class="sidebar-overlay" id="sidebar-overlay" data-element="sidebar-overlay"></div>
  <main class="content">
    {{if .Live}}<div class="top-bar">
      <button type="button" class="menu-toggle" id="menu-toggle" data-element="menu-toggle" aria-label="Toggle menu">
        <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
        </svg>
      </button>
      <button type="button" class="sidebar-toggle" id="sidebar-toggle" data-element="sidebar-toggle" aria-label="On this page">
        <svg width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <line x1="8" y1="6" x2="21" y2="6"/><line x1="8" y1="12" x2="21" y2="12"/><line x1="8" y1="18" x2="21" y2="18"/><circle cx="4" cy="6" r="1"/><circle cx="4" cy="12" r="1"/><circle cx="4" cy="18" r="1"/>
        </svg>
      </button>
      <button type="button" class="theme-toggle" id="theme-toggle" data-element="theme-toggle" aria-label="Toggle theme">
        <svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="4.22" y1="4.22" x2="5.64" y2="5.64"/><line x1="18.36" y1="18.36" x2="19.78" y2="19.78"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/><line x1="4.22" y1="19.78" x2="5.64" y2="18.36"/><line x1="18.36" y1="5.64" x2="19.78" y2="4.22"/>
        </svg>
        <svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/>
        </svg>
      </button>
    </div>{{end}}
    <div class="page">
      <article class="page-content" id="content">
        {{.Content}}
      </article>
      <aside class="outline" id="outline" aria-label="On this page">
        {{.OutlineHTML}}
      </aside>
    </div>
  </main>
  {{if .Live}}<script src="{{.BasePath}}app.js"></script>{{end}}
</body>
</html>`

// CSS is the stylesheet for both live and exported pages.
const CSS = `/* ============ CSS Variables ============ */
:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --bg-sidebar: #f1f3f5;
  --text: #212529;
  --text-secondary: #495057;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-light: #e7f5ff;
  --code-bg: #f1f3f5;
  --code-border: #e9ecef;
  --link: #228be6;
  --danger: #e03131;
  --success: #2f9e44;
  --sidebar-width: 280px;
  --outline-width: 220px;
  --content-max-width: 860px;
  --search-bg: #ffffff;
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.1);
  --transition: 0.3s;
}

[data-theme="dark"] {
  --bg: #1a1b26;
  --bg-secondary: #1f2030;
  --bg-sidebar: #16171f;
  --text: #c0caf5;
  --text-secondary: #a9b1d6;
  --text-muted: #565f89;
  --border: #292e42;
  --accent: #7aa2f7;
  --accent-light: #1a1b2e;
  --code-bg: #1f2030;
  --code-border: #292e42;
  --link: #7aa2f7;
  --danger: #f7768e;
  --success: #9ece6a;
  --search-bg: #1f2030;
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.4);
}

@media (prefers-color-scheme: dark) {
  :root:not([data-theme="light"]) {
    --bg: #1a1b26;
    --bg-secondary: #1f2030;
    --bg-sidebar: #16171f;
    --text: #c0caf5;
    --text-secondary: #a9b1d6;
    --text-muted: #565f89;
    --border: #292e42;
    --accent: #7aa2f7;
    --accent-light: #1a1b2e;
    --code-bg: #1f2030;
    --code-border: #292e42;
    --link: #7aa2f7;
    --danger: #f7768e;
    --success: #9ece6a;
    --search-bg: #1f2030;
    --shadow-lg: 0 4px 12px rgba(0,0,0,0.4);
  }
}

/* ============ Reset & Base ============ */
*, *::before, *::after {
  box-sizing: border-box;
  margin: 0;
  padding: 0;
}

html {
  font-size: 16px;
  scroll-behavior: smooth;
}

body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
  display: flex;
  min-height: 100vh;
}

body.scroll-locked {
  overflow: hidden;
}

[hidden] {
  display: none !important;
}

/* ============ Sidebar ============ */
.sidebar {
  width: var(--sidebar-width);
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  position: fixed;
  top: 0;
  left: 0;
  bottom: 0;
  overflow-y: auto;
  z-index: 100;
  display: flex;
  flex-direction: column;
}

.sidebar-header {
  padding: 20px 16px 12px;
  border-bottom: 1px solid var(--border);
  position: sticky;
  top: 0;
  background: var(--bg-sidebar);
  z-index: 1;
}

.project-title {
  display: block;
  font-size: 1.1rem;
  font-weight: 700;
  color: var(--accent);
  text-decoration: none;
  margin-bottom: 12px;
  white-space: nowrap;
  overflow: hidden;
  text-overflow: ellipsis;
}

#search-input {
  width: 100%;
  padding: 8px 12px;
  border: 1px solid var(--border);
  border-radius: 6px;
  font-size: 0.85rem;
  background: var(--search-bg);
  color: var(--text);
  outline: none;
  transition: border-color 0.2s;
}

#search-input:focus {
  border-color: var(--accent);
  box-shadow: 0 0 0 3px var(--accent-light);
}

.sidebar-tree {
  padding: 8px 0;
  flex: 1;
  overflow-y: auto;
}

.nav-tree, .nav-children, .outline-list {
  list-style: none;
}

.nav-children {
  display: none;
  padding-left: 16px;
}

.nav-group.expanded > .nav-children {
  display: block;
}

.nav-entry {
  display: block;
  padding: 3px 16px;
  font-size: 0.85rem;
  color: var(--text-secondary);
  text-decoration: none;
  border-radius: 4px;
  transition: background 0.15s, color 0.15s;
  white-space: nowrap;
  overflow: hidden;
  text-overflow: ellipsis;
}

.nav-group > .nav-entry {
  font-weight: 600;
}

.nav-entry:hover {
  background: var(--accent-light);
  color: var(--accent);
}

.nav-entry.active {
  background: var(--accent-light);
  color: var(--accent);
  font-weight: 600;
}

.no-results {
  padding: 12px 16px;
  font-size: 0.85rem;
  color: var(--text-muted);
}

/* ============ Overlay (mobile) ============ */
.sidebar-overlay {
  display: none;
  position: fixed;
  inset: 0;
  background: rgba(0,0,0,0.4);
  z-index: 99;
}

body[data-menu="open"] .sidebar-overlay,
body[data-menu="opening"] .sidebar-overlay,
body[data-sidebar="open"] .sidebar-overlay,
body[data-sidebar="opening"] .sidebar-overlay {
  display: block;
}

/* ============ Main Content ============ */
.content {
  margin-left: var(--sidebar-width);
  flex: 1;
  min-width: 0;
}

.top-bar {
  display: flex;
  justify-content: flex-end;
  align-items: center;
  gap: 8px;
  padding: 8px 24px;
  border-bottom: 1px solid var(--border);
  background: var(--bg);
  position: sticky;
  top: 0;
  z-index: 50;
}

.menu-toggle, .sidebar-toggle {
  display: none;
  background: none;
  border: none;
  color: var(--text);
  cursor: pointer;
  padding: 4px;
}

.menu-toggle {
  margin-right: auto;
}

.theme-toggle {
  background: none;
  border: 1px solid var(--border);
  border-radius: 6px;
  color: var(--text);
  cursor: pointer;
  padding: 6px 8px;
  display: flex;
  align-items: center;
  transition: background 0.2s;
}

.theme-toggle:hover {
  background: var(--bg-secondary);
}

.sun-icon { display: none; }
[data-theme="dark"] .sun-icon { display: inline; }
[data-theme="dark"] .moon-icon { display: none; }

.page {
  display: flex;
  align-items: flex-start;
}

.page-content {
  flex: 1;
  min-width: 0;
  max-width: var(--content-max-width);
  margin: 0 auto;
  padding: 32px 40px 64px;
}

.outline {
  width: var(--outline-width);
  position: sticky;
  top: 64px;
  padding: 32px 16px;
  font-size: 0.85rem;
}

.outline:empty {
  display: none;
}

.outline-title {
  font-size: 0.75rem;
  text-transform: uppercase;
  letter-spacing: 0.05em;
  color: var(--text-muted);
  margin-bottom: 8px;
}

.outline .nav-entry {
  padding: 2px 8px;
}

/* ============ Typography ============ */
.page-content h1 {
  font-size: 2rem;
  font-weight: 700;
  margin: 0 0 16px;
  padding-bottom: 8px;
  border-bottom: 2px solid var(--border);
}

.page-content h2 {
  font-size: 1.5rem;
  font-weight: 600;
  margin: 32px 0 12px;
  padding-bottom: 6px;
  border-bottom: 1px solid var(--border);
  scroll-margin-top: 80px;
}

.page-content h3 {
  font-size: 1.2rem;
  font-weight: 600;
  margin: 24px 0 8px;
}

.page-content p,
.page-content ul,
.page-content ol {
  margin: 0 0 16px;
}

.page-content ul, .page-content ol {
  padding-left: 24px;
}

.page-content a {
  color: var(--link);
  text-decoration: none;
}

.page-content a:hover {
  text-decoration: underline;
}

.page-content blockquote {
  border-left: 4px solid var(--accent);
  padding: 8px 16px;
  margin: 0 0 16px;
  background: var(--bg-secondary);
  color: var(--text-secondary);
  border-radius: 0 4px 4px 0;
}

.page-content table {
  width: 100%;
  border-collapse: collapse;
  margin: 0 0 16px;
  font-size: 0.88rem;
}

.page-content th, .page-content td {
  padding: 8px 12px;
  border: 1px solid var(--border);
  text-align: left;
}

.subsection {
  scroll-margin-top: 80px;
}

/* ============ Code ============ */
.page-content code {
  font-family: "JetBrains Mono", "Fira Code", "SF Mono", Consolas, monospace;
  font-size: 0.88em;
  background: var(--code-bg);
  padding: 2px 6px;
  border-radius: 4px;
  border: 1px solid var(--code-border);
}

.code-block {
  margin: 0 0 16px;
  border-radius: 8px;
  border: 1px solid var(--code-border);
  overflow: hidden;
}

.code-header {
  display: flex;
  justify-content: space-between;
  align-items: center;
  padding: 4px 8px 4px 12px;
  background: var(--bg-secondary);
  border-bottom: 1px solid var(--code-border);
  font-size: 0.75rem;
  color: var(--text-muted);
}

.code-block pre {
  margin: 0;
  overflow-x: auto;
}

.code-block pre code {
  display: block;
  padding: 16px;
  border: none;
  border-radius: 0;
  background: var(--code-bg);
  font-size: 0.85rem;
  line-height: 1.6;
}

.copy-btn {
  background: var(--bg);
  border: 1px solid var(--border);
  border-radius: 4px;
  color: var(--text-muted);
  cursor: pointer;
  padding: 2px 8px;
  font-size: 0.75rem;
}

.static .copy-btn {
  display: none;
}

.copy-btn:hover {
  color: var(--accent);
  border-color: var(--accent);
}

.copy-btn.success {
  color: var(--success);
  border-color: var(--success);
}

.copy-btn.error {
  color: var(--danger);
  border-color: var(--danger);
}

/* ============ Error state ============ */
.error-state {
  padding: 24px;
  border: 1px solid var(--danger);
  border-radius: 8px;
  color: var(--danger);
  background: var(--bg-secondary);
}

/* ============ Responsive ============ */
@media (max-width: 1100px) {
  .outline {
    position: fixed;
    top: 0;
    right: 0;
    bottom: 0;
    z-index: 100;
    background: var(--bg-sidebar);
    border-left: 1px solid var(--border);
    transform: translateX(100%);
    transition: transform var(--transition);
  }

  body[data-sidebar="opening"] .outline,
  body[data-sidebar="open"] .outline {
    transform: translateX(0);
    box-shadow: var(--shadow-lg);
  }

  .live .sidebar-toggle {
    display: block;
  }

  .static .outline {
    display: none;
  }
}

@media (max-width: 768px) {
  .live .sidebar {
    transform: translateX(-100%);
    transition: transform var(--transition);
  }

  body[data-menu="opening"] .sidebar,
  body[data-menu="open"] .sidebar {
    transform: translateX(0);
    box-shadow: var(--shadow-lg);
  }

  .static {
    flex-direction: column;
  }

  .static .sidebar {
    position: static;
    width: 100%;
    border-right: none;
    border-bottom: 1px solid var(--border);
  }

  .content {
    margin-left: 0;
  }

  .menu-toggle {
    display: block;
  }

  .page-content {
    padding: 24px 16px 48px;
  }
}

/* ============ Scrollbar ============ */
::-webkit-scrollbar {
  width: 6px;
  height: 6px;
}

::-webkit-scrollbar-thumb {
  background: var(--border);
  border-radius: 3px;
}

* {
  scrollbar-width: thin;
  scrollbar-color: var(--border) transparent;
}
`

// LiveScript connects a live page to its session. It forwards host events
// over the WebSocket and renders every snapshot it receives; all state
// lives on the server.
const LiveScript = `(function() {
  "use strict";

  var ws = null;
  var last = {};
  var scrollSeq = 0;
  var copySeq = 0;
  // Hash sent to the server and not yet reflected in a snapshot.
  var pendingHash = null;
  var dark = window.matchMedia ? window.matchMedia("(prefers-color-scheme: dark)") : null;
  var navTree = document.getElementById("nav-tree");
  var content = document.getElementById("content");
  var outline = document.getElementById("outline");
  var search = document.getElementById("search-input");

  function ambient() {
    return dark && dark.matches ? "dark" : "light";
  }

  function send(ev) {
    if (ws && ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify(ev));
    }
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss:" : "ws:";
    ws = new WebSocket(proto + "//" + location.host + "/ws");
    ws.onopen = function() {
      // A new connection is a new session with its own sequence numbers.
      last = {};
      scrollSeq = 0;
      copySeq = 0;
      pendingHash = null;
      send({
        type: "hello",
        value: location.hash,
        width: window.innerWidth,
        ambient: ambient()
      });
    };
    ws.onmessage = function(msg) {
      var m;
      try { m = JSON.parse(msg.data); } catch (e) { return; }
      if (m.type === "snapshot" && m.snapshot) {
        render(m.snapshot);
      }
    };
    ws.onclose = function() {
      setTimeout(connect, 1000);
    };
  }

  function render(s) {
    var root = document.documentElement;
    if (s.theme_pinned) {
      root.setAttribute("data-theme", s.theme);
    } else {
      root.removeAttribute("data-theme");
    }
    document.body.setAttribute("data-menu", s.menu);
    document.body.setAttribute("data-sidebar", s.sidebar);
    document.body.classList.toggle("scroll-locked", s.scroll_locked);

    if (s.nav_html !== last.nav_html) {
      navTree.innerHTML = s.nav_html;
    }
    if (s.outline_html !== last.outline_html) {
      outline.innerHTML = s.outline_html;
    }
    if (s.content.html !== last.content_html || s.content.error !== last.content_error) {
      content.innerHTML = s.content.html;
    }
    if (search && document.activeElement !== search && search.value !== s.query) {
      search.value = s.query;
    }
    if (pendingHash !== null && (s.fragment || "") === pendingHash) {
      pendingHash = null;
    }
    if (pendingHash === null && (s.fragment || "") !== location.hash) {
      history.pushState(null, "", s.fragment || location.pathname);
    }

    var buttons = content.querySelectorAll(".copy-btn");
    for (var i = 0; i < buttons.length; i++) {
      buttons[i].textContent = "Copy";
      buttons[i].classList.remove("success", "error");
    }
    (s.copy_labels || []).forEach(function(l) {
      var b = buttons[l.block];
      if (!b) return;
      b.textContent = l.label;
      b.classList.toggle("success", l.label === "Copied!");
      b.classList.toggle("error", l.label === "Failed");
    });

    if (s.scroll && s.scroll.seq > scrollSeq) {
      scrollSeq = s.scroll.seq;
      applyScroll(s.scroll);
    }
    if (s.copy && s.copy.seq > copySeq) {
      copySeq = s.copy.seq;
      copy(s.copy);
    }

    last = {
      nav_html: s.nav_html,
      outline_html: s.outline_html,
      content_html: s.content.html,
      content_error: s.content.error
    };
  }

  function applyScroll(sc) {
    if (sc.top) {
      window.scrollTo({ top: 0, behavior: "smooth" });
      return;
    }
    var el = document.getElementById(sc.anchor);
    if (!el) return;
    var y = el.getBoundingClientRect().top + window.pageYOffset - (sc.offset || 0);
    window.scrollTo({ top: y, behavior: "smooth" });
  }

  function legacyCopy(text) {
    var ta = document.createElement("textarea");
    ta.value = text;
    ta.setAttribute("readonly", "");
    ta.style.position = "fixed";
    ta.style.opacity = "0";
    document.body.appendChild(ta);
    ta.select();
    var ok = false;
    try { ok = document.execCommand("copy"); } catch (e) { ok = false; }
    document.body.removeChild(ta);
    return ok;
  }

  function copy(req) {
    function done(ok) {
      send({ type: ok ? "copied" : "copy-failed", block: req.block });
    }
    if (navigator.clipboard && navigator.clipboard.writeText) {
      navigator.clipboard.writeText(req.text).then(function() {
        done(true);
      }, function() {
        done(legacyCopy(req.text));
      });
      return;
    }
    done(legacyCopy(req.text));
  }

  document.addEventListener("click", function(e) {
    var el = e.target.closest("[data-element]");
    if (!el) return;
    var name = el.getAttribute("data-element");
    if (name === "search-input") return;
    var ev = { type: "click", element: name };
    if (name === "nav-entry") {
      e.preventDefault();
      ev.section = el.getAttribute("data-section") || "";
      ev.subsection = el.getAttribute("data-subsection") || "";
    } else if (name === "copy-code") {
      ev.block = Array.prototype.indexOf.call(content.querySelectorAll(".copy-btn"), el);
    }
    send(ev);
  });

  if (search) {
    search.addEventListener("input", function() {
      send({ type: "input", element: "search-input", value: search.value });
    });
  }

  var resizePending = false;
  window.addEventListener("resize", function() {
    if (resizePending) return;
    resizePending = true;
    requestAnimationFrame(function() {
      resizePending = false;
      send({ type: "resize", width: window.innerWidth });
    });
  });

  var touchX = null;
  document.addEventListener("touchstart", function(e) {
    touchX = e.changedTouches[0].clientX;
  }, { passive: true });
  document.addEventListener("touchend", function(e) {
    if (touchX === null) return;
    var dx = Math.round(e.changedTouches[0].clientX - touchX);
    send({ type: "swipe", start_x: Math.round(touchX), delta_x: dx });
    touchX = null;
  }, { passive: true });

  function hashChanged() {
    if (pendingHash === location.hash) return;
    pendingHash = location.hash;
    send({ type: "hashchange", value: location.hash });
  }
  window.addEventListener("hashchange", hashChanged);
  window.addEventListener("popstate", hashChanged);

  if (dark) {
    var onAmbient = function() { send({ type: "ambient", value: ambient() }); };
    if (dark.addEventListener) {
      dark.addEventListener("change", onAmbient);
    } else if (dark.addListener) {
      dark.addListener(onAmbient);
    }
  }

  connect();
})();
`
