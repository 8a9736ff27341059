package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/ziadkadry99/docview/internal/nav"
	"github.com/ziadkadry99/docview/internal/search"
	"github.com/ziadkadry99/docview/internal/viewer"
)

type statusResponse struct {
	Status   string `json:"status"`
	Version  int    `json:"version"`
	Sections int    `json:"sections"`
	Entries  int    `json:"entries"`
	Fallback bool   `json:"fallback"`
	Source   string `json:"source"`
	Sessions int    `json:"sessions"`
}

type sectionResponse struct {
	SectionID    string `json:"section_id"`
	SubsectionID string `json:"subsection_id,omitempty"`
	Title        string `json:"title"`
	Fragment     string `json:"fragment"`
	HTML         string `json:"html"`
}

type searchResponse struct {
	Query   string        `json:"query"`
	Reset   bool          `json:"reset"`
	Matches []searchMatch `json:"matches"`
}

type searchMatch struct {
	Kind         search.Kind `json:"kind"`
	SectionID    string      `json:"section_id"`
	SubsectionID string      `json:"subsection_id,omitempty"`
	Title        string      `json:"title"`
	Fragment     string      `json:"fragment"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.lib.Current()
	src := "sample"
	if s.lib.Source() != nil {
		src = s.lib.Source().String()
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:   "ok",
		Version:  snap.Version,
		Sections: len(snap.Doc.Sections),
		Entries:  len(snap.Index),
		Fallback: snap.Fallback,
		Source:   src,
		Sessions: s.Sessions(),
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.lib.Current().Doc)
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, nav.Build(s.lib.Current().Doc).Entries)
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub := r.URL.Query().Get("sub")

	loader := viewer.New(s.lib.Current().Doc, s.renderer, nil, nil, nil, viewer.Options{})
	if err := loader.LoadSection(id, sub, false); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, viewer.ErrNotFound) || errors.Is(err, viewer.ErrSubsectionNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	sec, _ := loader.Document().Section(id)
	writeJSON(w, http.StatusOK, sectionResponse{
		SectionID:    id,
		SubsectionID: sub,
		Title:        sec.Title,
		Fragment:     viewer.FormatFragment(id, sub),
		HTML:         loader.View().HTML,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	res := search.Filter(s.lib.Current().Index, q)
	out := searchResponse{Query: q, Reset: res.Reset, Matches: []searchMatch{}}
	for _, rec := range res.Matches {
		if limit > 0 && len(out.Matches) >= limit {
			break
		}
		out.Matches = append(out.Matches, searchMatch{
			Kind:         rec.Kind,
			SectionID:    rec.SectionID,
			SubsectionID: rec.SubsectionID,
			Title:        rec.Title,
			Fragment:     viewer.FormatFragment(rec.SectionID, rec.SubsectionID),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearchIndex(w http.ResponseWriter, r *http.Request) {
	idx := s.lib.Current().Index
	if idx == nil {
		idx = []search.Record{}
	}
	writeJSON(w, http.StatusOK, idx)
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
