package web

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/wlpa/internal/core"
	"github.com/JonMunkholm/wlpa/internal/logging"
	"github.com/JonMunkholm/wlpa/internal/web/templates"
)

// maxQueryLen bounds a single query parameter.
const maxQueryLen = 200

// SearchResponse is the JSON body of the search APIs.
type SearchResponse[T any] struct {
	Count   int  `json:"count"`
	Prompt  bool `json:"prompt"`
	Records []T  `json:"records"`
	// Degraded is set when the snapshot is missing some source data.
	Degraded bool `json:"degraded"`
}

// HealthResponse is the JSON body of /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	core.Stats
}

// handleSearchPage renders both searches from the query string.
func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	if s.snap == nil {
		s.respondError(w, r, s.loadErr, http.StatusServiceUnavailable)
		return
	}

	q := speciesQuery(r)
	text := queryParam(r, "q")
	species := s.snap.Search(q, s.policy)
	specimens := s.snap.SearchSpecimens(text, s.policy)
	s.metrics.observeSearch("species", species.Prompt, len(species.Records))
	s.metrics.observeSearch("specimens", specimens.Prompt, len(specimens.Specimens))

	params := templates.SearchPageParams{
		Species: templates.SpeciesSection{
			Common:     q.CommonName,
			Scientific: q.ScientificName,
			Result:     species,
		},
		Specimens: templates.SpecimenSection{
			Query:  text,
			Result: specimens,
		},
		Warnings: s.snap.Warnings(),
		MaxRows:  s.cfg.Search.MaxRows,
		Stats:    s.snap.Stats(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.SearchPage(params).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error", "template", "search", "error", err)
	}
}

// handleSpeciesAPI searches the unified record sequence.
func (s *Server) handleSpeciesAPI(w http.ResponseWriter, r *http.Request) {
	if s.snap == nil {
		s.respondError(w, r, s.loadErr, http.StatusServiceUnavailable)
		return
	}

	res := s.snap.Search(speciesQuery(r), s.policy)
	s.metrics.observeSearch("species", res.Prompt, len(res.Records))
	writeJSON(w, r, http.StatusOK, SearchResponse[core.Record]{
		Count:    len(res.Records),
		Prompt:   res.Prompt,
		Records:  res.Records,
		Degraded: s.snap.Degraded(),
	})
}

// handleSpecimensAPI searches the Schedule IV text list.
func (s *Server) handleSpecimensAPI(w http.ResponseWriter, r *http.Request) {
	if s.snap == nil {
		s.respondError(w, r, s.loadErr, http.StatusServiceUnavailable)
		return
	}

	res := s.snap.SearchSpecimens(queryParam(r, "q"), s.policy)
	s.metrics.observeSearch("specimens", res.Prompt, len(res.Specimens))
	writeJSON(w, r, http.StatusOK, SearchResponse[core.Specimen]{
		Count:    len(res.Specimens),
		Prompt:   res.Prompt,
		Records:  res.Specimens,
		Degraded: s.snap.Degraded(),
	})
}

// handleHealth reports the snapshot in use.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.snap == nil {
		s.respondError(w, r, s.loadErr, http.StatusServiceUnavailable)
		return
	}

	status := "ok"
	if s.snap.Degraded() {
		status = "degraded"
	}
	writeJSON(w, r, http.StatusOK, HealthResponse{Status: status, Stats: s.snap.Stats()})
}

func speciesQuery(r *http.Request) core.Query {
	return core.Query{
		CommonName:     queryParam(r, "common"),
		ScientificName: queryParam(r, "scientific"),
	}.Normalize()
}

// queryParam returns a trimmed query parameter cut to maxQueryLen runes.
func queryParam(r *http.Request, name string) string {
	v := []rune(strings.TrimSpace(r.URL.Query().Get(name)))
	if len(v) > maxQueryLen {
		v = v[:maxQueryLen]
	}
	return strings.TrimSpace(string(v))
}
