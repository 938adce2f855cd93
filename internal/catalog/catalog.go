// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

// Package catalog provides the read-only movie table and its basic
// queries. The catalog is an immutable snapshot loaded once at startup;
// all methods are safe for concurrent readers.
package catalog

import (
	"sort"
	"strings"
	"time"
)

// Catalog is the in-memory movie table. Construct via Load or New;
// never mutate after construction.
type Catalog struct {
	movies  []Movie
	byID    map[int64]int
	columns Columns
	genres  []string

	// now is injectable for deterministic trending tests.
	now func() time.Time
}

// New builds a catalog snapshot from the given movies. Column
// availability is derived from the data: a family counts as present if
// any movie carries a value for it.
func New(movies []Movie) *Catalog {
	columns := Columns{}
	for i := range movies {
		if len(movies[i].Genres) > 0 {
			columns.Genres = true
		}
		if len(movies[i].Keywords) > 0 {
			columns.Keywords = true
		}
		if len(movies[i].Cast) > 0 {
			columns.Cast = true
		}
		if movies[i].Director != "" {
			columns.Director = true
		}
	}
	return newCatalog(movies, columns)
}

func newCatalog(movies []Movie, columns Columns) *Catalog {
	byID := make(map[int64]int, len(movies))
	genreSet := make(map[string]struct{})
	for i := range movies {
		byID[movies[i].ID] = i
		for _, g := range movies[i].Genres {
			genreSet[g] = struct{}{}
		}
	}

	genres := make([]string, 0, len(genreSet))
	for g := range genreSet {
		genres = append(genres, g)
	}
	sort.Strings(genres)

	return &Catalog{
		movies:  movies,
		byID:    byID,
		columns: columns,
		genres:  genres,
		now:     time.Now,
	}
}

// Len returns the number of movies in the catalog.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// Columns reports which feature columns the loaded dataset carried.
func (c *Catalog) Columns() Columns {
	return c.columns
}

// Movies returns the full catalog in load order. The returned slice
// must be treated as read-only.
func (c *Catalog) Movies() []Movie {
	return c.movies
}

// MovieByID returns the movie with the given id, or false if unknown.
func (c *Catalog) MovieByID(id int64) (Movie, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Movie{}, false
	}
	return c.movies[idx], true
}

// AllGenres returns the sorted set of genre names across the catalog.
func (c *Catalog) AllGenres() []string {
	return c.genres
}

// SearchMovies returns up to limit movies matching the filters, ranked
// by popularity descending.
func (c *Catalog) SearchMovies(filters SearchFilters, limit int) []Movie {
	if limit <= 0 {
		return nil
	}

	title := strings.ToLower(filters.Title)
	genre := strings.ToLower(filters.Genre)

	matched := make([]Movie, 0, limit)
	for i := range c.movies {
		m := c.movies[i]
		if title != "" && !strings.Contains(strings.ToLower(m.Title), title) {
			continue
		}
		if genre != "" && !containsFold(m.Genres, genre) {
			continue
		}
		if filters.YearFrom > 0 && (m.ReleaseYear == 0 || m.ReleaseYear < filters.YearFrom) {
			continue
		}
		if filters.YearTo > 0 && (m.ReleaseYear == 0 || m.ReleaseYear > filters.YearTo) {
			continue
		}
		if filters.MinRating > 0 && m.VoteAverage < filters.MinRating {
			continue
		}
		matched = append(matched, m)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Popularity > matched[j].Popularity
	})

	return capMovies(matched, limit)
}

// PopularMovies returns up to limit movies by popularity descending.
func (c *Catalog) PopularMovies(limit int) []Movie {
	if limit <= 0 {
		return nil
	}

	ranked := make([]Movie, len(c.movies))
	copy(ranked, c.movies)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Popularity > ranked[j].Popularity
	})

	return capMovies(ranked, limit)
}

// TrendingMovies returns up to limit movies by recency-boosted
// popularity: recent releases get up to a 2x boost that decays linearly
// to 1x over ten years.
func (c *Catalog) TrendingMovies(limit int) []Movie {
	if limit <= 0 {
		return nil
	}

	currentYear := c.now().Year()
	score := func(m Movie) float64 {
		boost := 1.0
		if m.ReleaseYear > 0 {
			age := float64(currentYear - m.ReleaseYear)
			if age < 0 {
				age = 0
			}
			if recency := 1.0 - age/10.0; recency > 0 {
				boost += recency
			}
		}
		return m.Popularity * boost
	}

	ranked := make([]Movie, len(c.movies))
	copy(ranked, c.movies)
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) > score(ranked[j])
	})

	return capMovies(ranked, limit)
}

// GenreRecommendations returns movies sharing genres with the given
// movie, ranked by genre overlap then popularity, excluding the movie
// itself. This is the non-matrix fallback used when similarity-based
// recommendations are unavailable. Unknown ids return an empty slice.
func (c *Catalog) GenreRecommendations(movieID int64, limit int) []Movie {
	if limit <= 0 {
		return nil
	}

	source, ok := c.MovieByID(movieID)
	if !ok || len(source.Genres) == 0 {
		return nil
	}

	sourceGenres := make(map[string]struct{}, len(source.Genres))
	for _, g := range source.Genres {
		sourceGenres[strings.ToLower(g)] = struct{}{}
	}

	type scored struct {
		movie   Movie
		overlap int
	}

	candidates := make([]scored, 0, len(c.movies))
	for i := range c.movies {
		m := c.movies[i]
		if m.ID == movieID {
			continue
		}
		overlap := 0
		for _, g := range m.Genres {
			if _, ok := sourceGenres[strings.ToLower(g)]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			candidates = append(candidates, scored{movie: m, overlap: overlap})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].overlap != candidates[j].overlap {
			return candidates[i].overlap > candidates[j].overlap
		}
		return candidates[i].movie.Popularity > candidates[j].movie.Popularity
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Movie, len(candidates))
	for i, s := range candidates {
		out[i] = s.movie
	}
	return out
}

// containsFold reports whether values contains target case-insensitively.
func containsFold(values []string, lowerTarget string) bool {
	for _, v := range values {
		if strings.ToLower(v) == lowerTarget {
			return true
		}
	}
	return false
}

// capMovies truncates to limit, copying so callers never alias
// internal slices.
func capMovies(movies []Movie, limit int) []Movie {
	if len(movies) > limit {
		movies = movies[:limit]
	}
	out := make([]Movie, len(movies))
	copy(out, movies)
	return out
}
