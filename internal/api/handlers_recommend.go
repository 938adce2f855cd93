// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package api

import (
	"net/http"
	"time"

	"github.com/moviemaster/moviemaster/internal/recommend"
)

// PersonalizedRecommendations scores the catalog against the user's
// stored preferences. Users without preferences get the popular list.
func (h *Handler) PersonalizedRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	session := SessionFromContext(r.Context())

	user, err := h.store.ByID(session.UserID)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "user not found", err)
		return
	}

	movies := h.rec.Personalized(user.Preferences, h.limitParam(r))
	respondData(w, http.StatusOK, movies, start)
}

// WatchlistRecommendations recommends from the user's watchlist.
func (h *Handler) WatchlistRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	session := SessionFromContext(r.Context())

	entries, err := h.store.Watchlist(session.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load watchlist", err)
		return
	}

	items := make([]recommend.WatchlistItem, len(entries))
	for i, e := range entries {
		items[i] = recommend.WatchlistItem{ID: e.MovieID, Title: e.Title}
	}

	movies := h.rec.ForWatchlist(items, h.limitParam(r))
	respondData(w, http.StatusOK, movies, start)
}
