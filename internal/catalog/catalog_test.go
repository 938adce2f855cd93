// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package catalog

import (
	"testing"
	"time"
)

func testMovies() []Movie {
	return []Movie{
		{ID: 1, Title: "Star Runner", Genres: []string{"Action", "Sci-Fi"}, Cast: []string{"Ann Lee"}, Director: "Jo Park", VoteAverage: 7.5, VoteCount: 900, Popularity: 50, ReleaseYear: 2020},
		{ID: 2, Title: "Quiet Harbor", Genres: []string{"Drama"}, Cast: []string{"Ben Ode"}, Director: "Mia Chen", VoteAverage: 8.1, VoteCount: 300, Popularity: 30, ReleaseYear: 1995},
		{ID: 3, Title: "Star Harbor", Genres: []string{"Action", "Drama"}, Cast: []string{"Ann Lee", "Ben Ode"}, Director: "Jo Park", VoteAverage: 6.2, VoteCount: 120, Popularity: 40, ReleaseYear: 2023},
		{ID: 4, Title: "Last Laugh", Genres: []string{"Comedy"}, Cast: []string{"Cy Tan"}, VoteAverage: 5.0, VoteCount: 20, Popularity: 10, ReleaseYear: 2001},
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New(testMovies())
	c.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return c
}

func TestMovieByID(t *testing.T) {
	c := newTestCatalog(t)

	m, ok := c.MovieByID(2)
	if !ok {
		t.Fatal("MovieByID(2) not found")
	}
	if m.Title != "Quiet Harbor" {
		t.Errorf("Title = %q, want %q", m.Title, "Quiet Harbor")
	}

	if _, ok := c.MovieByID(999); ok {
		t.Error("MovieByID(999) = found, want missing")
	}
}

func TestColumnsDerivedFromData(t *testing.T) {
	c := newTestCatalog(t)
	cols := c.Columns()
	if !cols.Genres || !cols.Cast || !cols.Director {
		t.Errorf("Columns() = %+v, want genres/cast/director present", cols)
	}
	if cols.Keywords {
		t.Error("Columns().Keywords = true, want false for dataset without keywords")
	}

	empty := New(nil)
	if empty.Columns().Any() {
		t.Error("empty catalog should report no feature columns")
	}
}

func TestAllGenresSorted(t *testing.T) {
	c := newTestCatalog(t)
	got := c.AllGenres()
	want := []string{"Action", "Comedy", "Drama", "Sci-Fi"}
	if len(got) != len(want) {
		t.Fatalf("AllGenres() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllGenres()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSearchMovies(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		name    string
		filters SearchFilters
		limit   int
		wantIDs []int64
	}{
		{
			name:    "title substring case-insensitive",
			filters: SearchFilters{Title: "star"},
			limit:   10,
			wantIDs: []int64{1, 3},
		},
		{
			name:    "genre filter",
			filters: SearchFilters{Genre: "drama"},
			limit:   10,
			wantIDs: []int64{3, 2},
		},
		{
			name:    "year range",
			filters: SearchFilters{YearFrom: 2000, YearTo: 2021},
			limit:   10,
			wantIDs: []int64{1, 4},
		},
		{
			name:    "min rating",
			filters: SearchFilters{MinRating: 7.0},
			limit:   10,
			wantIDs: []int64{1, 2},
		},
		{
			name:    "limit caps results",
			filters: SearchFilters{},
			limit:   2,
			wantIDs: []int64{1, 3},
		},
		{
			name:    "zero limit returns nothing",
			filters: SearchFilters{},
			limit:   0,
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.SearchMovies(tt.filters, tt.limit)
			assertIDs(t, got, tt.wantIDs)
		})
	}
}

func TestPopularMoviesOrder(t *testing.T) {
	c := newTestCatalog(t)
	assertIDs(t, c.PopularMovies(3), []int64{1, 3, 2})
	assertIDs(t, c.PopularMovies(100), []int64{1, 3, 2, 4})
}

func TestTrendingBoostsRecentReleases(t *testing.T) {
	c := newTestCatalog(t)

	// Movie 3 (2023, pop 40) outranks movie 1 (2020, pop 50) once the
	// recency boost applies: 40*1.9 > 50*1.6.
	got := c.TrendingMovies(2)
	assertIDs(t, got, []int64{3, 1})
}

func TestGenreRecommendations(t *testing.T) {
	c := newTestCatalog(t)

	// Movie 1 is Action+Sci-Fi; movie 3 shares Action. Comedy-only
	// movie 4 must not appear.
	got := c.GenreRecommendations(1, 10)
	assertIDs(t, got, []int64{3})

	if got := c.GenreRecommendations(999, 10); len(got) != 0 {
		t.Errorf("unknown id returned %d movies, want 0", len(got))
	}
}

func TestResultsDoNotAliasCatalog(t *testing.T) {
	c := newTestCatalog(t)
	first := c.PopularMovies(1)
	first[0].Title = "mutated"

	again := c.PopularMovies(1)
	if again[0].Title == "mutated" {
		t.Error("PopularMovies result aliases catalog state")
	}
}

func assertIDs(t *testing.T, got []Movie, want []int64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d movies, want %d (%v)", len(got), len(want), ids(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("result[%d].ID = %d, want %d (full: %v)", i, got[i].ID, want[i], ids(got))
		}
	}
}

func ids(movies []Movie) []int64 {
	out := make([]int64, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}
