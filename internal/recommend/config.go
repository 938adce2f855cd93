// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package recommend

// Config holds the engine's scoring weights. Zero values are replaced
// with defaults when the Recommender is constructed.
type Config struct {
	// Feature token weights for the similarity model.
	GenreWeight    int
	KeywordWeight  int
	CastWeight     int
	DirectorWeight int

	// TopCast limits how many billed cast members contribute tokens.
	TopCast int

	// Personalized scoring weights.
	PrefGenreWeight    float64
	PrefDirectorWeight float64
	PrefActorWeight    float64

	// MinVoteCount is the vote threshold below which the normalized
	// rating contributes nothing to personalized scores.
	MinVoteCount int64

	// SimilarPerItem is how many similar movies each watchlist entry
	// contributes to the frequency-aggregation fallback.
	SimilarPerItem int

	// DiversityPoolExtra is how many candidates beyond the limit the
	// hybrid strategy ranks before the genre-novelty pass.
	DiversityPoolExtra int
}

// DefaultConfig returns the engine's default weights.
func DefaultConfig() Config {
	return Config{
		GenreWeight:        3,
		KeywordWeight:      1,
		CastWeight:         2,
		DirectorWeight:     3,
		TopCast:            3,
		PrefGenreWeight:    2,
		PrefDirectorWeight: 3,
		PrefActorWeight:    1.5,
		MinVoteCount:       50,
		SimilarPerItem:     5,
		DiversityPoolExtra: 10,
	}
}

// withDefaults fills zero fields with default values.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.GenreWeight <= 0 {
		c.GenreWeight = def.GenreWeight
	}
	if c.KeywordWeight <= 0 {
		c.KeywordWeight = def.KeywordWeight
	}
	if c.CastWeight <= 0 {
		c.CastWeight = def.CastWeight
	}
	if c.DirectorWeight <= 0 {
		c.DirectorWeight = def.DirectorWeight
	}
	if c.TopCast <= 0 {
		c.TopCast = def.TopCast
	}
	if c.PrefGenreWeight <= 0 {
		c.PrefGenreWeight = def.PrefGenreWeight
	}
	if c.PrefDirectorWeight <= 0 {
		c.PrefDirectorWeight = def.PrefDirectorWeight
	}
	if c.PrefActorWeight <= 0 {
		c.PrefActorWeight = def.PrefActorWeight
	}
	if c.MinVoteCount <= 0 {
		c.MinVoteCount = def.MinVoteCount
	}
	if c.SimilarPerItem <= 0 {
		c.SimilarPerItem = def.SimilarPerItem
	}
	if c.DiversityPoolExtra <= 0 {
		c.DiversityPoolExtra = def.DiversityPoolExtra
	}
	return c
}
