// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package recommend

import "github.com/moviemaster/moviemaster/internal/catalog"

// Source is the read-only catalog view the engine consumes. It is
// implemented by *catalog.Catalog; the interface keeps the engine
// decoupled from catalog loading and makes tests trivial to set up.
type Source interface {
	// Movies returns the full catalog in stable iteration order.
	Movies() []catalog.Movie

	// Columns reports which feature columns the dataset carries.
	Columns() catalog.Columns

	// MovieByID returns a movie by id, false when unknown.
	MovieByID(id int64) (catalog.Movie, bool)

	// PopularMovies returns up to limit movies by popularity.
	PopularMovies(limit int) []catalog.Movie

	// TrendingMovies returns up to limit movies by trending rank.
	TrendingMovies(limit int) []catalog.Movie

	// GenreRecommendations is the non-matrix recommendation fallback.
	GenreRecommendations(movieID int64, limit int) []catalog.Movie
}

// Preferences captures a user's stated tastes. Matching against
// catalog fields is case-insensitive.
type Preferences struct {
	FavoriteGenres    []string `json:"favorite_genres"`
	FavoriteDirectors []string `json:"favorite_directors"`
	FavoriteActors    []string `json:"favorite_actors"`
}

// Empty reports whether no preference is set.
func (p Preferences) Empty() bool {
	return len(p.FavoriteGenres) == 0 && len(p.FavoriteDirectors) == 0 && len(p.FavoriteActors) == 0
}

// Clone returns a deep copy that shares no slices with the receiver.
func (p Preferences) Clone() Preferences {
	return Preferences{
		FavoriteGenres:    append([]string(nil), p.FavoriteGenres...),
		FavoriteDirectors: append([]string(nil), p.FavoriteDirectors...),
		FavoriteActors:    append([]string(nil), p.FavoriteActors...),
	}
}

// WatchlistItem is the minimal movie reference the watchlist strategies
// consume; only the id is used for feature-row lookups.
type WatchlistItem struct {
	ID    int64  `json:"id"`
	Title string `json:"title,omitempty"`
}
