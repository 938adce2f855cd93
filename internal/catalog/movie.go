// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package catalog

// Movie is one row of the catalog. The struct is immutable for the
// process lifetime once the catalog snapshot is loaded.
//
// Optional fields use zero values: an empty Director means the catalog
// has no director for the movie, ReleaseYear 0 means unknown, and a
// missing vote_average behaves as 0.
type Movie struct {
	// ID is the unique, stable catalog key.
	ID int64 `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Overview is the plot summary, possibly empty.
	Overview string `json:"overview,omitempty"`

	// Genres is the ordered list of genre names.
	Genres []string `json:"genres_list"`

	// Keywords is the ordered list of free-text tags.
	Keywords []string `json:"keywords_list"`

	// Cast is the ordered list of actor names, order = billing order.
	Cast []string `json:"cast_list"`

	// Director is the director name, possibly empty.
	Director string `json:"director,omitempty"`

	// VoteAverage is the 0-10 average rating.
	VoteAverage float64 `json:"vote_average"`

	// VoteCount is the non-negative number of votes.
	VoteCount int64 `json:"vote_count"`

	// Popularity is the catalog popularity score.
	Popularity float64 `json:"popularity"`

	// ReleaseDate is the raw release date string from the dataset.
	ReleaseDate string `json:"release_date,omitempty"`

	// ReleaseYear is extracted from ReleaseDate, 0 when unknown.
	ReleaseYear int `json:"release_year,omitempty"`

	// PosterPath is the poster image path, possibly empty.
	PosterPath string `json:"poster_path,omitempty"`
}

// Columns records which feature-bearing columns were present in the
// loaded dataset. Consumers that derive features check availability
// here once instead of per row.
type Columns struct {
	Genres   bool
	Keywords bool
	Cast     bool
	Director bool
}

// Any reports whether at least one feature column is available.
func (c Columns) Any() bool {
	return c.Genres || c.Keywords || c.Cast || c.Director
}

// SearchFilters narrows SearchMovies results. Zero values disable the
// corresponding filter.
type SearchFilters struct {
	// Title matches case-insensitively as a substring.
	Title string

	// Genre matches case-insensitively against the genre list.
	Genre string

	// YearFrom/YearTo bound the release year inclusively.
	YearFrom int
	YearTo   int

	// MinRating requires VoteAverage >= MinRating.
	MinRating float64
}
