// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moviemaster/moviemaster/internal/catalog"
)

// Health reports service liveness and catalog state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]interface{}{
		"status":             "ok",
		"movies":             h.catalog.Len(),
		"similarity_enabled": h.rec.SimilarityEnabled(),
	}, time.Now())
}

// SearchMovies filters the catalog by title, genre, year range, and
// minimum rating. Without filters it returns the most popular movies.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	filters := catalog.SearchFilters{
		Title:     r.URL.Query().Get("title"),
		Genre:     r.URL.Query().Get("genre"),
		YearFrom:  getIntParam(r, "year_from", 0),
		YearTo:    getIntParam(r, "year_to", 0),
		MinRating: getFloatParam(r, "min_rating", 0),
	}

	movies := h.catalog.SearchMovies(filters, h.limitParam(r))
	respondData(w, http.StatusOK, movies, start)
}

// MovieByID returns a single movie.
func (h *Handler) MovieByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "movie id must be an integer", nil)
		return
	}

	movie, ok := h.catalog.MovieByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "movie not found", nil)
		return
	}
	respondData(w, http.StatusOK, movie, start)
}

// PopularMovies returns the popularity ranking.
func (h *Handler) PopularMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondData(w, http.StatusOK, h.rec.Popular(h.limitParam(r)), start)
}

// TrendingMovies returns the recency-boosted ranking.
func (h *Handler) TrendingMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondData(w, http.StatusOK, h.rec.Trending(h.limitParam(r)), start)
}

// SimilarMovies returns movies similar to the given one. The list may
// be empty for unknown ids; that is not an error.
func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "movie id must be an integer", nil)
		return
	}
	respondData(w, http.StatusOK, h.rec.SimilarTo(id, h.limitParam(r)), start)
}

// Genres lists every genre present in the catalog.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, h.catalog.AllGenres(), time.Now())
}
