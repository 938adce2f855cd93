// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/moviemaster/moviemaster/internal/recommend"
	"github.com/moviemaster/moviemaster/internal/users"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type preferencesRequest struct {
	FavoriteGenres    []string `json:"favorite_genres" validate:"max=20,dive,min=1"`
	FavoriteDirectors []string `json:"favorite_directors" validate:"max=20,dive,min=1"`
	FavoriteActors    []string `json:"favorite_actors" validate:"max=20,dive,min=1"`
}

type sessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      users.Profile `json:"user"`
}

// Register creates an account and logs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.store.Register(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUsernameTaken):
			respondError(w, http.StatusConflict, "USERNAME_TAKEN", "username already taken", nil)
		case errors.Is(err, users.ErrUsernameTooShort), errors.Is(err, users.ErrPasswordTooShort):
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		default:
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to register user", err)
		}
		return
	}

	session, err := h.sessions.Create(r.Context(), user.ID, user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create session", err)
		return
	}

	respondData(w, http.StatusCreated, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user.Profile(),
	}, start)
}

// Login authenticates a user and mints a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.store.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password", nil)
		return
	}

	session, err := h.sessions.Create(r.Context(), user.ID, user.Username)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to create session", err)
		return
	}

	respondData(w, http.StatusOK, sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user.Profile(),
	}, start)
}

// Logout deletes the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if err := h.sessions.Delete(r.Context(), session.Token); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete session", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"message": "logged out"}, time.Now())
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())

	user, err := h.store.ByID(session.UserID)
	if err != nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "user not found", err)
		return
	}
	respondData(w, http.StatusOK, user.Profile(), time.Now())
}

// UpdatePreferences replaces the user's recommendation preferences.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	session := SessionFromContext(r.Context())

	var req preferencesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.store.UpdatePreferences(session.UserID, recommend.Preferences{
		FavoriteGenres:    req.FavoriteGenres,
		FavoriteDirectors: req.FavoriteDirectors,
		FavoriteActors:    req.FavoriteActors,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update preferences", err)
		return
	}
	respondData(w, http.StatusOK, user.Profile(), start)
}
