// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/moviemaster/moviemaster/internal/catalog"
	"github.com/moviemaster/moviemaster/internal/config"
	"github.com/moviemaster/moviemaster/internal/recommend"
	"github.com/moviemaster/moviemaster/internal/users"
)

// Handler owns the HTTP endpoints and their dependencies.
type Handler struct {
	catalog  *catalog.Catalog
	rec      *recommend.Recommender
	store    *users.Store
	sessions *users.SessionStore
	cfg      config.APIConfig
	logger   zerolog.Logger
}

// NewHandler wires the endpoint dependencies.
//
//nolint:gocritic // logger passed by value is the zerolog convention
func NewHandler(
	cat *catalog.Catalog,
	rec *recommend.Recommender,
	store *users.Store,
	sessions *users.SessionStore,
	cfg config.APIConfig,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		catalog:  cat,
		rec:      rec,
		store:    store,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// Routes assembles the full route tree.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(h.cfg.CORSOrigins))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(prometheusMiddleware)
		r.Use(rateLimit(h.cfg.RateLimitReqs, h.cfg.RateLimitWindow))

		r.Get("/health", h.Health)

		// Catalog browsing, no authentication required.
		r.Get("/movies", h.SearchMovies)
		r.Get("/movies/popular", h.PopularMovies)
		r.Get("/movies/trending", h.TrendingMovies)
		r.Get("/movies/{id}", h.MovieByID)
		r.Get("/movies/{id}/similar", h.SimilarMovies)
		r.Get("/genres", h.Genres)

		// Auth endpoints carry a stricter budget against brute force.
		r.Route("/auth", func(r chi.Router) {
			r.Use(rateLimit(h.cfg.AuthRateLimit, h.cfg.RateLimitWindow))
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.requireSession)
				r.Post("/logout", h.Logout)
				r.Get("/me", h.Me)
				r.Put("/preferences", h.UpdatePreferences)
			})
		})

		// Everything personal requires a session.
		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Get("/recommendations/personalized", h.PersonalizedRecommendations)
			r.Get("/recommendations/watchlist", h.WatchlistRecommendations)

			r.Route("/watchlist", func(r chi.Router) {
				r.Get("/", h.GetWatchlist)
				r.Post("/", h.AddToWatchlist)
				r.Delete("/{id}", h.RemoveFromWatchlist)
			})
			r.Route("/bookmarks", func(r chi.Router) {
				r.Get("/", h.GetBookmarks)
				r.Post("/", h.AddBookmark)
				r.Delete("/{id}", h.RemoveBookmark)
			})
		})
	})

	return r
}
