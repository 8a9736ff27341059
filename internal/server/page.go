package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/docview/internal/nav"
	"github.com/ziadkadry99/docview/internal/prefs"
	"github.com/ziadkadry99/docview/internal/site"
	"github.com/ziadkadry99/docview/internal/toggle"
	"github.com/ziadkadry99/docview/internal/viewer"
)

// ClientCookie names the cookie that scopes stored preferences.
const ClientCookie = "docview_client"

const clientCookieMaxAge = 365 * 24 * time.Hour

// clientID returns the request's client id. A missing or malformed cookie
// gets a fresh id, set on w when w is non-nil.
func clientID(w http.ResponseWriter, r *http.Request) (string, *http.Cookie) {
	if c, err := r.Cookie(ClientCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value, nil
		}
	}
	c := &http.Cookie{
		Name:     ClientCookie,
		Value:    uuid.NewString(),
		Path:     "/",
		MaxAge:   int(clientCookieMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if w != nil {
		http.SetCookie(w, c)
	}
	return c.Value, c
}

// pinnedTheme returns the client's stored theme, or "" to follow the
// browser's preference.
func (s *Server) pinnedTheme(r *http.Request, id string) string {
	v, ok, err := prefs.ForClient(r.Context(), s.prefs, id).Get(toggle.PreferenceKey)
	if err != nil {
		s.log.Debug("reading theme preference", "client", id, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	t, valid := toggle.ParseTheme(v)
	if !valid {
		return ""
	}
	return string(t)
}

// handlePage serves the live page shell with the default section already
// rendered; the session replaces it once the WebSocket connects.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id, _ := clientID(w, r)

	loader := viewer.New(s.lib.Current().Doc, s.renderer, nil, nil, nil, viewer.Options{
		DefaultSection: s.cfg.Settings.DefaultSection,
	})
	_ = loader.Init()

	title := ""
	if sec, ok := loader.Document().Section(loader.State().SectionID); ok {
		title = sec.Title
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err := site.RenderPage(w, site.PageData{
		Title:       title,
		DocTitle:    s.cfg.Title,
		Theme:       s.pinnedTheme(r, id),
		Content:     template.HTML(loader.View().HTML),
		NavHTML:     template.HTML(loader.Nav().ToHTML()),
		OutlineHTML: template.HTML(loader.Nav().Outline(nav.Fragment)),
		BasePath:    "/",
		HomeHref:    "/",
		Live:        true,
	})
	if err != nil {
		s.log.Error("rendering page", "error", err)
	}
}

func (s *Server) handleCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write([]byte(site.CSS))
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write([]byte(site.LiveScript))
}
