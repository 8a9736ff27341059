package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/ziadkadry99/docview/internal/document"
	"github.com/ziadkadry99/docview/internal/library"
	"github.com/ziadkadry99/docview/internal/nav"
	"github.com/ziadkadry99/docview/internal/prefs"
)

const testDoc = `{"sections":[
 {"id":"intro","title":"Intro","content":"Hi","subsections":[
   {"title":"Step One","content":"go"},
   {"title":"Step Two","content":"stop"}]},
 {"id":"usage","title":"Usage <Guide>","content":"Run it."}
]}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	srv   *Server
	lib   *library.Library
	store *prefs.MemoryStore
	path  string
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.json")
	if err := os.WriteFile(path, []byte(testDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	lib := library.New(document.FileSource{Path: path}, quietLogger())
	if snap := lib.Load(context.Background()); snap.Fallback {
		t.Fatal("test document fell back to the sample")
	}
	store := prefs.NewMemoryStore()
	return &fixture{
		srv:   New(cfg, lib, nil, store, quietLogger()),
		lib:   lib,
		store: store,
		path:  path,
	}
}

func (f *fixture) get(t *testing.T, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t, Config{Port: 0})

	w := f.get(t, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	f := newFixture(t, Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestStatus(t *testing.T) {
	f := newFixture(t, Config{})

	var body statusResponse
	decode(t, f.get(t, "/api/status"), &body)
	if body.Version != 1 || body.Sections != 2 || body.Entries != 4 || body.Fallback {
		t.Errorf("status = %+v", body)
	}
	if body.Source != f.path {
		t.Errorf("source = %q, want %q", body.Source, f.path)
	}
}

func TestDocumentAndNav(t *testing.T) {
	f := newFixture(t, Config{})

	var doc document.Tree
	decode(t, f.get(t, "/api/document"), &doc)
	if len(doc.Sections) != 2 || doc.Sections[1].ID != "usage" {
		t.Errorf("document = %+v", doc)
	}

	var entries []nav.Entry
	decode(t, f.get(t, "/api/nav"), &entries)
	if len(entries) != 2 || len(entries[0].Children) != 2 || entries[0].Children[1].SubsectionID != "step-two" {
		t.Errorf("nav = %+v", entries)
	}
}

func TestSection(t *testing.T) {
	f := newFixture(t, Config{})

	tests := []struct {
		name     string
		target   string
		status   int
		fragment string
	}{
		{"section", "/api/sections/intro", http.StatusOK, "#intro"},
		{"subsection", "/api/sections/intro?sub=step-two", http.StatusOK, "#intro-step-two"},
		{"missing section", "/api/sections/nope", http.StatusNotFound, ""},
		{"missing subsection", "/api/sections/intro?sub=nope", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.get(t, tt.target)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status != http.StatusOK {
				var e errorResponse
				decode(t, w, &e)
				if e.Error == "" {
					t.Error("expected an error message")
				}
				return
			}
			var body sectionResponse
			decode(t, w, &body)
			if body.Fragment != tt.fragment {
				t.Errorf("fragment = %q, want %q", body.Fragment, tt.fragment)
			}
			if !strings.Contains(body.HTML, `<section class="subsection" id="step-two">`) {
				t.Errorf("html missing subsection anchor: %s", body.HTML)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	f := newFixture(t, Config{})

	var body searchResponse
	decode(t, f.get(t, "/api/search?q=STEP"), &body)
	if body.Reset || len(body.Matches) != 2 {
		t.Fatalf("search = %+v", body)
	}
	if body.Matches[0].Fragment != "#intro-step-one" {
		t.Errorf("first match fragment = %q", body.Matches[0].Fragment)
	}

	decode(t, f.get(t, "/api/search?q=step&limit=1"), &body)
	if len(body.Matches) != 1 {
		t.Errorf("limited matches = %d, want 1", len(body.Matches))
	}

	decode(t, f.get(t, "/api/search?q=%20%20"), &body)
	if !body.Reset || len(body.Matches) != 0 {
		t.Errorf("blank query = %+v, want reset", body)
	}

	decode(t, f.get(t, "/api/search?q=zzz"), &body)
	if body.Reset || len(body.Matches) != 0 {
		t.Errorf("no-match query = %+v", body)
	}
}

func TestSearchIndex(t *testing.T) {
	f := newFixture(t, Config{})

	var records []map[string]interface{}
	decode(t, f.get(t, "/api/search-index"), &records)
	if len(records) != 4 {
		t.Errorf("records = %d, want 4", len(records))
	}
}

func TestPageSetsClientCookie(t *testing.T) {
	f := newFixture(t, Config{Title: "Test Docs"})

	w := f.get(t, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == ClientCookie {
			found = c
		}
	}
	if found == nil || found.Value == "" {
		t.Fatal("expected a client cookie")
	}

	body := w.Body.String()
	for _, want := range []string{
		"<title>Intro · Test Docs</title>",
		`class="nav-entry active" href="#intro"`,
		`<script src="/app.js">`,
		`class="outline-list"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "data-theme=") {
		t.Error("a client without a stored theme should follow the browser")
	}
}

func TestPagePinnedTheme(t *testing.T) {
	f := newFixture(t, Config{})
	const id = "8a3e0f6c-2b1d-4c5e-9f70-1a2b3c4d5e6f"
	if err := f.store.Set(context.Background(), id, "theme", "dark"); err != nil {
		t.Fatal(err)
	}

	w := f.get(t, "/", &http.Cookie{Name: ClientCookie, Value: id})
	if !strings.Contains(w.Body.String(), `<html lang="en" data-theme="dark">`) {
		t.Error("stored theme should be pinned on the page")
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("a valid client cookie should not be reissued")
	}
}

func TestPageDefaultSection(t *testing.T) {
	f := newFixture(t, Config{})
	f.srv.cfg.Settings.DefaultSection = "usage"

	body := f.get(t, "/").Body.String()
	if !strings.Contains(body, `<article class="section" id="section-usage">`) {
		t.Error("configured default section should be rendered")
	}
	if !strings.Contains(body, "Usage &lt;Guide&gt;") {
		t.Error("titles should be escaped")
	}
}

func TestAssets(t *testing.T) {
	f := newFixture(t, Config{})

	css := f.get(t, "/style.css")
	if !strings.HasPrefix(css.Header().Get("Content-Type"), "text/css") || !strings.Contains(css.Body.String(), ".nav-entry") {
		t.Error("unexpected stylesheet response")
	}
	js := f.get(t, "/app.js")
	if !strings.HasPrefix(js.Header().Get("Content-Type"), "application/javascript") || !strings.Contains(js.Body.String(), "WebSocket") {
		t.Error("unexpected script response")
	}
}

func TestCheckOrigin(t *testing.T) {
	f := newFixture(t, Config{})
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://docs.example.com", true},
		{"http://localhost:3000", true},
		{"http://127.0.0.1:9000", true},
		{"http://evil.example.org", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "http://docs.example.com/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		if got := f.srv.checkOrigin(req); got != tt.want {
			t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}

	f.srv.cfg.AllowAll = true
	req := httptest.NewRequest("GET", "http://docs.example.com/ws", nil)
	req.Header.Set("Origin", "http://evil.example.org")
	if !f.srv.checkOrigin(req) {
		t.Error("AllowAll should accept any origin")
	}
}
