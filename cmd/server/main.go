// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

// Package main is the entry point for the MovieMaster server.
//
// MovieMaster is a self-hosted movie catalog with a content-based
// recommendation engine. Startup proceeds in this order:
//
//  1. Configuration: layered load via Koanf v2 (defaults, YAML, env)
//  2. Logging: zerolog, JSON or console format
//  3. Catalog: the movie dataset is read once from CSV
//  4. Recommendation engine: feature and similarity matrices built once
//  5. Accounts: user registry and BadgerDB session store
//  6. HTTP server: Chi-routed REST API under supervision
//
// The server shuts down gracefully on SIGINT and SIGTERM: the listener
// stops accepting connections, in-flight requests get a bounded drain,
// and the session database is closed last.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/moviemaster/moviemaster/internal/api"
	"github.com/moviemaster/moviemaster/internal/catalog"
	"github.com/moviemaster/moviemaster/internal/config"
	"github.com/moviemaster/moviemaster/internal/logging"
	"github.com/moviemaster/moviemaster/internal/metrics"
	"github.com/moviemaster/moviemaster/internal/recommend"
	"github.com/moviemaster/moviemaster/internal/supervisor"
	"github.com/moviemaster/moviemaster/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger := logging.Logger()

	logging.Info().
		Str("catalog", cfg.Catalog.Path).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting MovieMaster")

	// Catalog loads once; the in-memory snapshot serves every request.
	loadStart := time.Now()
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load movie catalog")
	}
	metrics.CatalogMovies.Set(float64(cat.Len()))
	metrics.CatalogLoadDuration.Set(time.Since(loadStart).Seconds())
	logging.Info().
		Int("movies", cat.Len()).
		Dur("elapsed", time.Since(loadStart)).
		Msg("Catalog loaded")

	rec := recommend.New(cat, recommend.Config{
		GenreWeight:        cfg.Recommend.GenreWeight,
		KeywordWeight:      cfg.Recommend.KeywordWeight,
		CastWeight:         cfg.Recommend.CastWeight,
		DirectorWeight:     cfg.Recommend.DirectorWeight,
		TopCast:            cfg.Recommend.TopCast,
		PrefGenreWeight:    cfg.Recommend.PrefGenreWeight,
		PrefDirectorWeight: cfg.Recommend.PrefDirectorWeight,
		PrefActorWeight:    cfg.Recommend.PrefActorWeight,
		MinVoteCount:       cfg.Recommend.MinVoteCount,
		SimilarPerItem:     cfg.Recommend.SimilarPerItem,
		DiversityPoolExtra: cfg.Recommend.DiversityPoolExtra,
	}, logger)
	if !rec.SimilarityEnabled() {
		logging.Warn().Msg("Similarity model disabled, serving fallback recommendations only")
	}

	store, err := users.NewStore(cfg.Users.DataDir, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open user registry")
	}

	sessionDB, err := badger.Open(badger.DefaultOptions(cfg.Users.SessionPath).WithLogger(nil))
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Users.SessionPath).Msg("Failed to open session database")
	}
	defer func() {
		if err := sessionDB.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session database")
		}
	}()
	sessions := users.NewSessionStore(sessionDB, cfg.Users.SessionTTL, logger)

	handler := api.NewHandler(cat, rec, store, sessions, cfg.API, logger)
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))
	tree.AddMaintenanceService(supervisor.NewCleanupService(sessions, cfg.Users.CleanupInterval, logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	logging.Info().Msg("MovieMaster stopped gracefully")
}
