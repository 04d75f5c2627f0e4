package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atelierhq/folio/internal/catalog"
	"github.com/atelierhq/folio/internal/search"
	"github.com/atelierhq/folio/internal/telemetry"
)

type searchResponse struct {
	Query    string          `json:"query"`
	Count    int             `json:"count"`
	Results  []search.Result `json:"results"`
	Degraded []string        `json:"degraded,omitempty"`
}

type blendResponse struct {
	Query   string               `json:"query"`
	Count   int                  `json:"count"`
	Results []search.BlendResult `json:"results"`
}

type imageResponse struct {
	Query   string            `json:"query"`
	Count   int               `json:"count"`
	Results []search.ImageHit `json:"results"`
}

type suggestionsResponse struct {
	Query       string              `json:"query"`
	Suggestions []suggestSuggestion `json:"suggestions"`
}

type suggestSuggestion struct {
	Query string  `json:"query"`
	Score float64 `json:"score"`
	Count int     `json:"count"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encoding failed", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func limitParam(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

// handleSearch runs the four-strategy hybrid ranking. Committing a search
// also records the query in the suggestion history; the fetch-as-you-type
// suggestion endpoint never does.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	start := time.Now()

	results, outcomes := s.engine.Search(r.Context(), query, search.Options{
		Limit: limitParam(r),
	})

	var degraded []string
	for _, out := range outcomes {
		if out.Degraded {
			degraded = append(degraded, string(out.Strategy))
		}
	}

	if strings.TrimSpace(query) != "" {
		if err := s.suggester.AddSearch(r.Context(), query); err != nil {
			s.logger.Warn("recording search history failed",
				slog.String("error", err.Error()))
		}
	}

	s.record(telemetry.Event{
		Query:       query,
		Mode:        telemetry.ModeHybrid,
		ResultCount: len(results),
		Latency:     time.Since(start),
	})

	if results == nil {
		results = []search.Result{}
	}
	s.writeJSON(w, http.StatusOK, searchResponse{
		Query:    query,
		Count:    len(results),
		Results:  results,
		Degraded: degraded,
	})
}

func (s *Server) handleMultimodalSearch(w http.ResponseWriter, r *http.Request) {
	s.handleBlend(w, r, telemetry.ModeMultimodal, s.engine.MultimodalSearch)
}

func (s *Server) handleTextSearch(w http.ResponseWriter, r *http.Request) {
	s.handleBlend(w, r, telemetry.ModeText, s.engine.TextSearch)
}

func (s *Server) handleBlend(w http.ResponseWriter, r *http.Request, mode telemetry.Mode,
	fn func(ctx context.Context, query string, limit int) ([]search.BlendResult, error)) {
	query := r.URL.Query().Get("q")
	start := time.Now()

	results, err := fn(r.Context(), query, limitParam(r))
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "embedding provider unavailable")
		return
	}

	s.record(telemetry.Event{
		Query:       query,
		Mode:        mode,
		ResultCount: len(results),
		Latency:     time.Since(start),
	})

	if results == nil {
		results = []search.BlendResult{}
	}
	s.writeJSON(w, http.StatusOK, blendResponse{Query: query, Count: len(results), Results: results})
}

func (s *Server) handleImageSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	start := time.Now()

	hits, err := s.engine.SearchImages(r.Context(), query, limitParam(r))
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, "embedding provider unavailable")
		return
	}

	s.record(telemetry.Event{
		Query:       query,
		Mode:        telemetry.ModeImage,
		ResultCount: len(hits),
		Latency:     time.Since(start),
	})

	if hits == nil {
		hits = []search.ImageHit{}
	}
	s.writeJSON(w, http.StatusOK, imageResponse{Query: query, Count: len(hits), Results: hits})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	start := time.Now()

	got := s.suggester.GetSuggestions(r.Context(), query, limitParam(r))

	s.record(telemetry.Event{
		Query:       query,
		Mode:        telemetry.ModeSuggest,
		ResultCount: len(got),
		Latency:     time.Since(start),
	})

	out := make([]suggestSuggestion, len(got))
	for i, g := range got {
		out[i] = suggestSuggestion{Query: g.Query, Score: g.Score, Count: g.Count}
	}
	s.writeJSON(w, http.StatusOK, suggestionsResponse{Query: query, Suggestions: out})
}

// handleListWorks browses the corpus with optional metadata filters.
func (s *Server) handleListWorks(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	q := r.URL.Query()

	category := strings.ToLower(q.Get("category"))
	year := q.Get("year")
	medium := strings.ToLower(q.Get("medium"))
	featuredOnly := q.Get("featured") == "true"

	works := make([]*catalog.Work, 0, len(snap.Works))
	for _, work := range snap.Works {
		if category != "" && strings.ToLower(work.Category) != category {
			continue
		}
		if year != "" && work.Year != year {
			continue
		}
		if medium != "" && !containsFold(work.Medium, medium) {
			continue
		}
		if featuredOnly && !work.Featured {
			continue
		}
		works = append(works, work)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"count": len(works),
		"works": works,
	})
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.ToLower(h) == needle {
			return true
		}
	}
	return false
}

func (s *Server) handleGetWork(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	work := s.engine.Snapshot().WorkByID(id)
	if work == nil {
		s.writeError(w, http.StatusNotFound, "work not found")
		return
	}
	s.writeJSON(w, http.StatusOK, work)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"works":   len(snap.Works),
		"images":  len(snap.Images),
		"history": s.suggester.History().Len(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		s.writeJSON(w, http.StatusOK, map[string]any{"telemetry": "disabled"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.collector.Snapshot())
}

func (s *Server) record(ev telemetry.Event) {
	if s.collector != nil {
		s.collector.Record(ev)
	}
}
