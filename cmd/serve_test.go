package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/docview/internal/prefs"
	"github.com/ziadkadry99/docview/internal/server"
)

// unwritableDataDir points DOCVIEW_DATA_DIR below a regular file so the
// preference database cannot be created.
func unwritableDataDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOCVIEW_DATA_DIR", filepath.Join(blocker, "sub"))

	old := cfgFile
	cfgFile = filepath.Join(dir, "missing.yml")
	t.Cleanup(func() { cfgFile = old })
}

func TestNewServerSurvivesStorageFailure(t *testing.T) {
	unwritableDataDir(t)
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, _, store, cleanup, err := newServer(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	defer cleanup()

	if _, ok := store.(*prefs.MemoryStore); !ok {
		t.Fatalf("store = %T, want the in-memory fallback", store)
	}
	if got := prefsLabel(cfg, store); got != "in memory (not persisted)" {
		t.Errorf("prefsLabel = %q", got)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("page status = %d", w.Code)
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == server.ClientCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected a client cookie")
	}
	if err := store.Set(context.Background(), cookie.Value, "theme", "dark"); err != nil {
		t.Fatalf("memory store Set: %v", err)
	}
}

func TestOpenPrefsPersists(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DOCVIEW_DATA_DIR", dir)
	old := cfgFile
	cfgFile = filepath.Join(dir, "missing.yml")
	defer func() { cfgFile = old }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	store, cleanup := openPrefs(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer cleanup()
	if _, ok := store.(*prefs.SQLiteStore); !ok {
		t.Fatalf("store = %T, want sqlite", store)
	}
	if got := prefsLabel(cfg, store); got != filepath.Join(dir, "docview.db") {
		t.Errorf("prefsLabel = %q", got)
	}
}

func TestThemeSurvivesStorageFailure(t *testing.T) {
	unwritableDataDir(t)

	var buf bytes.Buffer
	themeCmd.SetOut(&buf)
	defer themeCmd.SetOut(nil)
	themeAmbient = "dark"
	defer func() { themeAmbient = "light" }()

	if err := runTheme(themeCmd, nil); err != nil {
		t.Fatalf("theme show: %v", err)
	}
	if got := buf.String(); got != "dark (ambient)\n" {
		t.Errorf("theme show = %q", got)
	}

	buf.Reset()
	if err := runTheme(themeCmd, []string{"toggle"}); err != nil {
		t.Fatalf("theme toggle: %v", err)
	}
	if got := buf.String(); got != "light (stored)\n" {
		t.Errorf("theme toggle = %q", got)
	}
}
