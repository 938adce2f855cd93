// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package recommend

import (
	"io"
	"reflect"
	"testing"

	"github.com/moviemaster/moviemaster/internal/catalog"
	"github.com/moviemaster/moviemaster/internal/logging"
)

// newTestCatalog builds a small catalog with two tight clusters: the
// sci-fi action movies 1, 2 and 5 share cast and director, while the
// family-keyword movies 3 and 4 share theirs.
func newTestCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Movie{
		{
			ID:          1,
			Title:       "Space War",
			Genres:      []string{"Action", "Sci-Fi"},
			Keywords:    []string{"space"},
			Cast:        []string{"Alice Stone", "Bob Ray", "Carol King", "Dan Extra"},
			Director:    "Lena Cruz",
			VoteAverage: 8.0,
			VoteCount:   100,
			Popularity:  50,
		},
		{
			ID:          2,
			Title:       "Star Battle",
			Genres:      []string{"Action", "Sci-Fi"},
			Keywords:    []string{"space"},
			Cast:        []string{"Alice Stone", "Bob Ray", "Carol King"},
			Director:    "Lena Cruz",
			VoteAverage: 7.0,
			VoteCount:   200,
			Popularity:  40,
		},
		{
			ID:          3,
			Title:       "Quiet Drama",
			Genres:      []string{"Drama"},
			Keywords:    []string{"family"},
			Cast:        []string{"Eve Long"},
			Director:    "Omar Diaz",
			VoteAverage: 9.0,
			VoteCount:   30,
			Popularity:  30,
		},
		{
			ID:          4,
			Title:       "Laugh Track",
			Genres:      []string{"Comedy"},
			Keywords:    []string{"family"},
			Cast:        []string{"Eve Long"},
			Director:    "Omar Diaz",
			VoteAverage: 6.0,
			VoteCount:   500,
			Popularity:  20,
		},
		{
			ID:          5,
			Title:       "Action Clone",
			Genres:      []string{"Action"},
			Keywords:    []string{"space"},
			Cast:        []string{"Alice Stone"},
			Director:    "Lena Cruz",
			VoteAverage: 5.0,
			VoteCount:   80,
			Popularity:  10,
		},
	})
}

func newTestRecommender(t *testing.T) *Recommender {
	t.Helper()
	return New(newTestCatalog(), DefaultConfig(), logging.NewTestLogger(io.Discard))
}

func resultIDs(movies []catalog.Movie) []int64 {
	ids := make([]int64, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}
	return ids
}

func assertResultIDs(t *testing.T, movies []catalog.Movie, want []int64) {
	t.Helper()
	got := resultIDs(movies)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("result ids = %v, want %v", got, want)
	}
}

func TestPopularPassthrough(t *testing.T) {
	r := newTestRecommender(t)
	assertResultIDs(t, r.Popular(3), []int64{1, 2, 3})
}

func TestSimilarToRanksByCosine(t *testing.T) {
	r := newTestRecommender(t)

	// Movie 2 is a near-duplicate of movie 1; movie 5 shares genre,
	// keyword, lead actor and director; 3 and 4 share nothing.
	assertResultIDs(t, r.SimilarTo(1, 3), []int64{2, 5, 3})
}

func TestSimilarToExcludesSelf(t *testing.T) {
	r := newTestRecommender(t)
	for _, m := range r.SimilarTo(1, 10) {
		if m.ID == 1 {
			t.Fatal("movie must not appear in its own similar list")
		}
	}
}

func TestSimilarToCapsAtLimit(t *testing.T) {
	r := newTestRecommender(t)
	if got := len(r.SimilarTo(1, 2)); got != 2 {
		t.Errorf("len = %d, want 2", got)
	}
}

func TestSimilarToDeterministic(t *testing.T) {
	r := newTestRecommender(t)
	first := resultIDs(r.SimilarTo(1, 4))
	for i := 0; i < 10; i++ {
		if got := resultIDs(r.SimilarTo(1, 4)); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d returned %v, first run returned %v", i, got, first)
		}
	}
}

func TestSimilarToUnknownIDFallsBackEmpty(t *testing.T) {
	r := newTestRecommender(t)
	if got := r.SimilarTo(999, 5); len(got) != 0 {
		t.Errorf("unknown id should yield no results, got %v", resultIDs(got))
	}
}

func TestSimilarToGenreFallbackWhenDisabled(t *testing.T) {
	src := &noFeatureSource{Catalog: newTestCatalog()}
	r := New(src, DefaultConfig(), logging.NewTestLogger(io.Discard))

	if r.SimilarityEnabled() {
		t.Fatal("expected disabled similarity model")
	}

	// Genre overlap with movie 1 (Action, Sci-Fi): movie 2 matches
	// both, movie 5 matches one.
	assertResultIDs(t, r.SimilarTo(1, 5), []int64{2, 5})
}

func TestPersonalizedScoring(t *testing.T) {
	r := newTestRecommender(t)

	prefs := Preferences{
		FavoriteGenres:    []string{"Action"},
		FavoriteDirectors: []string{"Cruz"},
	}

	// Movies 1, 2 and 5 each score the genre and director bonuses;
	// their normalized ratings order them 1, 2, 5.
	assertResultIDs(t, r.Personalized(prefs, 3), []int64{1, 2, 5})
}

func TestPersonalizedActorSubstringMatch(t *testing.T) {
	r := newTestRecommender(t)

	prefs := Preferences{FavoriteActors: []string{"alice"}}
	got := r.Personalized(prefs, 2)

	// 1 and 2 carry Alice Stone plus the two highest normalized
	// ratings among her movies.
	assertResultIDs(t, got, []int64{1, 2})
}

func TestPersonalizedEmptyPreferencesFallsBackToPopular(t *testing.T) {
	r := newTestRecommender(t)
	assertResultIDs(t, r.Personalized(Preferences{}, 2), []int64{1, 2})
}

func TestPersonalizedLowVoteCountRatingIgnored(t *testing.T) {
	r := newTestRecommender(t)

	// Movie 3 has the best average but too few votes; with a Drama
	// preference it still wins on the genre bonus alone, and the rest
	// rank purely on normalized rating.
	prefs := Preferences{FavoriteGenres: []string{"Drama"}}
	assertResultIDs(t, r.Personalized(prefs, 3), []int64{3, 1, 2})
}

func TestPersonalizedPadsWithPopular(t *testing.T) {
	r := newTestRecommender(t)

	// No movie matches the genre; only positive normalized ratings
	// qualify, then popularity padding fills to the limit.
	prefs := Preferences{FavoriteGenres: []string{"Horror"}}
	got := r.Personalized(prefs, 5)

	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	assertResultIDs(t, got, []int64{1, 2, 4, 3, 5})
}

func TestHybridPrefersGenreNovelty(t *testing.T) {
	r := newTestRecommender(t)

	// Ranked by similarity to movie 1 the candidates are 2, 5, 3, 4;
	// 5 adds no genre beyond 2's Action and Sci-Fi, so the novelty
	// pass reaches past it to the drama.
	got := r.Hybrid([]WatchlistItem{{ID: 1}}, 2)
	assertResultIDs(t, got, []int64{2, 3})
}

func TestHybridFillsInRankOrder(t *testing.T) {
	r := newTestRecommender(t)

	// With room for all candidates the skipped movie 5 re-enters after
	// the novelty picks, in similarity-rank order.
	got := r.Hybrid([]WatchlistItem{{ID: 1}}, 4)
	assertResultIDs(t, got, []int64{2, 3, 4, 5})
}

func TestHybridExcludesWatchlist(t *testing.T) {
	r := newTestRecommender(t)
	for _, m := range r.Hybrid([]WatchlistItem{{ID: 1}, {ID: 2}}, 5) {
		if m.ID == 1 || m.ID == 2 {
			t.Fatalf("watchlist movie %d appeared in hybrid results", m.ID)
		}
	}
}

func TestHybridEmptyWhenNoKnownIDs(t *testing.T) {
	r := newTestRecommender(t)
	if got := r.Hybrid([]WatchlistItem{{ID: 999}}, 5); len(got) != 0 {
		t.Errorf("expected empty result, got %v", resultIDs(got))
	}
}

func TestForWatchlistUsesHybridFirst(t *testing.T) {
	r := newTestRecommender(t)
	assertResultIDs(t, r.ForWatchlist([]WatchlistItem{{ID: 1}}, 2), []int64{2, 3})
}

func TestForWatchlistEmptyFallsBackToPopular(t *testing.T) {
	r := newTestRecommender(t)
	assertResultIDs(t, r.ForWatchlist(nil, 3), []int64{1, 2, 3})
}

func TestForWatchlistFrequencyAggregation(t *testing.T) {
	src := &noFeatureSource{Catalog: newTestCatalog()}
	r := New(src, DefaultConfig(), logging.NewTestLogger(io.Discard))

	// With the matrix disabled the hybrid path yields nothing, so the
	// strategy merges genre-overlap lists: movie 1 suggests 2 and 5,
	// movie 2 suggests 1 and 5. Movie 5 appears twice and wins.
	got := r.ForWatchlist([]WatchlistItem{{ID: 1}, {ID: 2}}, 3)
	assertResultIDs(t, got, []int64{5, 2, 1})
}

func TestForWatchlistUnknownIDsFallBackToPopular(t *testing.T) {
	r := newTestRecommender(t)
	got := r.ForWatchlist([]WatchlistItem{{ID: 998}, {ID: 999}}, 3)
	assertResultIDs(t, got, []int64{1, 2, 3})
}

func TestStrategiesNeverPanicOnEmptyCatalog(t *testing.T) {
	r := New(catalog.New(nil), DefaultConfig(), logging.NewTestLogger(io.Discard))

	if got := r.Popular(5); len(got) != 0 {
		t.Errorf("Popular on empty catalog = %v", resultIDs(got))
	}
	if got := r.SimilarTo(1, 5); len(got) != 0 {
		t.Errorf("SimilarTo on empty catalog = %v", resultIDs(got))
	}
	if got := r.Personalized(Preferences{FavoriteGenres: []string{"Action"}}, 5); len(got) != 0 {
		t.Errorf("Personalized on empty catalog = %v", resultIDs(got))
	}
	if got := r.ForWatchlist([]WatchlistItem{{ID: 1}}, 5); len(got) != 0 {
		t.Errorf("ForWatchlist on empty catalog = %v", resultIDs(got))
	}
}

func TestZeroLimit(t *testing.T) {
	r := newTestRecommender(t)

	if got := r.SimilarTo(1, 0); len(got) != 0 {
		t.Errorf("SimilarTo limit 0 = %v", resultIDs(got))
	}
	if got := r.Hybrid([]WatchlistItem{{ID: 1}}, 0); len(got) != 0 {
		t.Errorf("Hybrid limit 0 = %v", resultIDs(got))
	}
}

// noFeatureSource hides every feature column so the similarity model
// cannot build, exercising the non-matrix fallbacks.
type noFeatureSource struct {
	*catalog.Catalog
}

func (s *noFeatureSource) Columns() catalog.Columns {
	return catalog.Columns{}
}
