package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-blog/internal/books"
	"github.com/goliatone/go-blog/internal/metrics"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/search"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type visitorsResponse struct {
	Periods []metrics.Visitors `json:"periods"`
}

type searchResponse struct {
	Results []posts.CoreContent `json:"results"`
	Tags    []string            `json:"tags"`
}

// handleVisitors proxies the analytics service. With ?all=true every period is
// reported; otherwise ?period selects one (default "all"). A disabled metrics
// feature degrades to zeroed counts rather than an error.
func (s *Server) handleVisitors(w http.ResponseWriter, r *http.Request) {
	if s.deps.Metrics == nil {
		writeJSON(w, http.StatusOK, metrics.Visitors{Period: metrics.PeriodAll, Visitors: 0})
		return
	}

	if parseBoolQuery(r.URL.Query().Get("all"), false) {
		writeJSON(w, http.StatusOK, visitorsResponse{Periods: s.deps.Metrics.AllPeriods(r.Context())})
		return
	}

	period := strings.TrimSpace(r.URL.Query().Get("period"))
	if period == "" {
		period = metrics.PeriodAll
	}
	writeJSON(w, http.StatusOK, s.deps.Metrics.UniqueVisitors(r.Context(), period))
}

// handleBooks reports the currently-reading shelf. A disabled books feature
// yields an empty payload with source "none".
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	if s.deps.Books == nil {
		writeJSON(w, http.StatusOK, books.Payload{Books: []books.Book{}, Source: books.SourceNone})
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Books.CurrentlyReading(r.Context()))
}

func (s *Server) handleRestaurantList(w http.ResponseWriter, r *http.Request) {
	if s.deps.Restaurants == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "feature_disabled"})
		return
	}

	collection, err := s.deps.Restaurants.GetAll(r.Context())
	if err != nil {
		s.logger.Error("restaurant list failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, collection)
}

func (s *Server) handleRestaurantGet(w http.ResponseWriter, r *http.Request) {
	if s.deps.Restaurants == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "feature_disabled"})
		return
	}

	slug := mux.Vars(r)["slug"]
	record, found, err := s.deps.Restaurants.GetBySlug(r.Context(), slug)
	if err != nil {
		s.logger.Error("restaurant lookup failed", "slug", slug, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleSearch filters the published collection by ?q and ?tag and reports
// the full tag set alongside the matches.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.deps.Posts == nil || s.deps.Search == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "feature_disabled"})
		return
	}

	published, err := s.deps.Posts.GetPublished(r.Context())
	if err != nil {
		s.logger.Error("search load failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()})
		return
	}

	query := search.Query{
		Text: r.URL.Query().Get("q"),
		Tag:  r.URL.Query().Get("tag"),
	}
	matches := s.deps.Search.Filter(published, query)

	results := make([]posts.CoreContent, 0, len(matches))
	for _, post := range matches {
		results = append(results, post.Core(posts.ReadingTime(post.Body, 0)))
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results: results,
		Tags:    s.deps.Search.Tags(published),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func parseBoolQuery(value string, defaultValue bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return defaultValue
	}
	return parsed
}
