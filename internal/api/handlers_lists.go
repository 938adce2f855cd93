// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moviemaster/moviemaster/internal/users"
)

type listAddRequest struct {
	MovieID int64 `json:"movie_id" validate:"required,gt=0"`
}

// listOps abstracts over the watchlist and bookmark list so both sets
// of endpoints share one implementation.
type listOps struct {
	name   string
	get    func(userID string) ([]users.ListEntry, error)
	add    func(userID string, movieID int64, title string) error
	remove func(userID string, movieID int64) error
}

func (h *Handler) watchlistOps() listOps {
	return listOps{
		name:   "watchlist",
		get:    h.store.Watchlist,
		add:    h.store.AddToWatchlist,
		remove: h.store.RemoveFromWatchlist,
	}
}

func (h *Handler) bookmarkOps() listOps {
	return listOps{
		name:   "bookmarks",
		get:    h.store.Bookmarks,
		add:    h.store.AddBookmark,
		remove: h.store.RemoveBookmark,
	}
}

// GetWatchlist returns the user's watchlist.
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	h.getList(w, r, h.watchlistOps())
}

// AddToWatchlist puts a movie on the user's watchlist.
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	h.addToList(w, r, h.watchlistOps())
}

// RemoveFromWatchlist takes a movie off the user's watchlist.
func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	h.removeFromList(w, r, h.watchlistOps())
}

// GetBookmarks returns the user's bookmarks.
func (h *Handler) GetBookmarks(w http.ResponseWriter, r *http.Request) {
	h.getList(w, r, h.bookmarkOps())
}

// AddBookmark puts a movie on the user's bookmark list.
func (h *Handler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	h.addToList(w, r, h.bookmarkOps())
}

// RemoveBookmark takes a movie off the user's bookmark list.
func (h *Handler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	h.removeFromList(w, r, h.bookmarkOps())
}

func (h *Handler) getList(w http.ResponseWriter, r *http.Request, ops listOps) {
	start := time.Now()
	session := SessionFromContext(r.Context())

	entries, err := ops.get(session.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load "+ops.name, err)
		return
	}
	respondData(w, http.StatusOK, entries, start)
}

func (h *Handler) addToList(w http.ResponseWriter, r *http.Request, ops listOps) {
	start := time.Now()
	session := SessionFromContext(r.Context())

	var req listAddRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Only catalog movies can be listed; the stored title comes from
	// the catalog, not the client.
	movie, ok := h.catalog.MovieByID(req.MovieID)
	if !ok {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "movie not found", nil)
		return
	}

	if err := ops.add(session.UserID, movie.ID, movie.Title); err != nil {
		if errors.Is(err, users.ErrAlreadyListed) {
			respondError(w, http.StatusConflict, "ALREADY_LISTED", "movie already on the "+ops.name, nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update "+ops.name, err)
		return
	}

	entries, err := ops.get(session.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load "+ops.name, err)
		return
	}
	respondData(w, http.StatusCreated, entries, start)
}

func (h *Handler) removeFromList(w http.ResponseWriter, r *http.Request, ops listOps) {
	start := time.Now()
	session := SessionFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "movie id must be an integer", nil)
		return
	}

	if err := ops.remove(session.UserID, id); err != nil {
		if errors.Is(err, users.ErrNotListed) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "movie not on the "+ops.name, nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update "+ops.name, err)
		return
	}

	entries, err := ops.get(session.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load "+ops.name, err)
		return
	}
	respondData(w, http.StatusOK, entries, start)
}
