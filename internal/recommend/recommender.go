// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package recommend

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/moviemaster/moviemaster/internal/catalog"
	"github.com/moviemaster/moviemaster/internal/metrics"
)

// Recommender is the single entry point for recommendations. It owns
// the similarity model lifecycle: matrices are built exactly once at
// construction and never rebuilt. Public methods absorb every failure
// into an empty or fallback result and never return errors; they are
// safe for concurrent use since all state is read-only.
type Recommender struct {
	src    Source
	model  *Model
	cfg    Config
	logger zerolog.Logger
}

// New builds a Recommender over the given catalog source. This is the
// one latency-sensitive step: O(movies x vocabulary) memory and
// O(movies^2) similarity compute happen here, synchronously, before
// any recommendation call is accepted.
//
//nolint:gocritic // logger passed by value is the zerolog convention
func New(src Source, cfg Config, logger zerolog.Logger) *Recommender {
	logger = logger.With().Str("component", "recommend").Logger()
	cfg = cfg.withDefaults()

	model := BuildModel(src, cfg, logger)
	metrics.RecommendModelVocabulary.Set(float64(model.VocabularySize()))

	return &Recommender{
		src:    src,
		model:  model,
		cfg:    cfg,
		logger: logger,
	}
}

// SimilarityEnabled reports whether the similarity model is usable.
func (r *Recommender) SimilarityEnabled() bool {
	return r.model.Enabled()
}

// Popular returns the catalog's popularity ranking. Never fails.
func (r *Recommender) Popular(limit int) []catalog.Movie {
	defer r.observe("popular", time.Now())
	return r.src.PopularMovies(limit)
}

// Trending returns the catalog's trending ranking. Never fails.
func (r *Recommender) Trending(limit int) []catalog.Movie {
	defer r.observe("trending", time.Now())
	return r.src.TrendingMovies(limit)
}

// SimilarTo ranks all other movies by cosine similarity to the given
// movie. Unknown ids and a disabled model yield the catalog's own
// genre-overlap recommendations instead; the result may still be empty.
func (r *Recommender) SimilarTo(movieID int64, limit int) []catalog.Movie {
	defer r.observe("similar", time.Now())

	if movies := r.similarByMatrix(movieID, limit); len(movies) > 0 {
		return movies
	}

	metrics.RecommendFallbacksTotal.WithLabelValues("similar", "genre_overlap").Inc()
	return r.src.GenreRecommendations(movieID, limit)
}

// similarByMatrix is the matrix half of SimilarTo: empty when the model
// is disabled or the id is unknown.
func (r *Recommender) similarByMatrix(movieID int64, limit int) []catalog.Movie {
	if limit <= 0 || !r.model.Enabled() {
		return nil
	}

	row, ok := r.model.rowOf(movieID)
	if !ok {
		r.logger.Debug().Int64("movie_id", movieID).Msg("movie not in similarity model")
		return nil
	}

	n := len(r.model.rowIDs)
	ranked := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != row {
			ranked = append(ranked, i)
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return r.model.similarity.At(row, ranked[a]) > r.model.similarity.At(row, ranked[b])
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return r.moviesForRows(ranked)
}

// Personalized scores every movie against the user's preferences:
// 2 per matching favorite genre, 3 for any favorite-director substring
// match (non-cumulative), 1.5 per matching favorite actor, plus the
// min-max-normalized rating for movies with enough votes. Empty
// preferences delegate to Popular; short results are padded with
// Popular excluding already-selected ids.
func (r *Recommender) Personalized(prefs Preferences, limit int) []catalog.Movie {
	defer r.observe("personalized", time.Now())

	if prefs.Empty() {
		metrics.RecommendFallbacksTotal.WithLabelValues("personalized", "popular").Inc()
		return r.src.PopularMovies(limit)
	}
	if limit <= 0 {
		return nil
	}

	movies := r.src.Movies()
	if len(movies) == 0 {
		return nil
	}

	ratingNorm := normalizedRatings(movies, r.cfg.MinVoteCount)

	favGenres := lowerAll(prefs.FavoriteGenres)
	favDirectors := lowerAll(prefs.FavoriteDirectors)
	favActors := lowerAll(prefs.FavoriteActors)

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(movies))
	for i := range movies {
		m := &movies[i]
		score := 0.0

		for _, fav := range favGenres {
			if containsGenre(m.Genres, fav) {
				score += r.cfg.PrefGenreWeight
			}
		}

		if m.Director != "" && anySubstring(favDirectors, strings.ToLower(m.Director)) {
			score += r.cfg.PrefDirectorWeight
		}

		for _, fav := range favActors {
			if castContains(m.Cast, fav) {
				score += r.cfg.PrefActorWeight
			}
		}

		score += ratingNorm[i]
		ranked[i] = scored{idx: i, score: score}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	selected := make([]catalog.Movie, 0, limit)
	chosen := make(map[int64]struct{}, limit)
	for _, s := range ranked {
		if len(selected) == limit {
			break
		}
		if s.score <= 0 {
			break
		}
		selected = append(selected, movies[s.idx])
		chosen[movies[s.idx].ID] = struct{}{}
	}

	if len(selected) < limit {
		metrics.RecommendFallbacksTotal.WithLabelValues("personalized", "popular_pad").Inc()
		selected = r.padWithPopular(selected, chosen, limit)
	}
	return selected
}

// ForWatchlist recommends from the user's watchlist: the hybrid
// profile-vector strategy first, then frequency aggregation of per-item
// similar lists, then popularity padding. An empty watchlist delegates
// to Popular.
func (r *Recommender) ForWatchlist(watchlist []WatchlistItem, limit int) []catalog.Movie {
	defer r.observe("watchlist", time.Now())

	if len(watchlist) == 0 {
		metrics.RecommendFallbacksTotal.WithLabelValues("watchlist", "popular").Inc()
		return r.src.PopularMovies(limit)
	}
	if limit <= 0 {
		return nil
	}

	if hybrid := r.hybrid(watchlist, limit); len(hybrid) > 0 {
		return hybrid
	}
	metrics.RecommendFallbacksTotal.WithLabelValues("watchlist", "frequency").Inc()

	// Merge the similar lists of every watchlist item and rank shared
	// discoveries first: a movie surfaced by several watchlist entries
	// is a stronger signal than any single similarity score.
	type tally struct {
		movie catalog.Movie
		count int
		order int
	}
	counts := make(map[int64]*tally)
	discovery := make([]int64, 0)

	for _, item := range watchlist {
		for _, m := range r.SimilarTo(item.ID, r.cfg.SimilarPerItem) {
			t, ok := counts[m.ID]
			if !ok {
				t = &tally{movie: m, order: len(discovery)}
				counts[m.ID] = t
				discovery = append(discovery, m.ID)
			}
			t.count++
		}
	}

	if len(discovery) == 0 {
		metrics.RecommendFallbacksTotal.WithLabelValues("watchlist", "popular").Inc()
		return r.src.PopularMovies(limit)
	}

	ranked := make([]*tally, 0, len(discovery))
	for _, id := range discovery {
		ranked = append(ranked, counts[id])
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		if ranked[a].count != ranked[b].count {
			return ranked[a].count > ranked[b].count
		}
		return ranked[a].order < ranked[b].order
	})

	selected := make([]catalog.Movie, 0, limit)
	chosen := make(map[int64]struct{}, limit)
	for _, t := range ranked {
		if len(selected) == limit {
			break
		}
		selected = append(selected, t.movie)
		chosen[t.movie.ID] = struct{}{}
	}

	if len(selected) < limit {
		selected = r.padWithPopular(selected, chosen, limit)
	}
	return selected
}

// Hybrid builds a profile vector from the watchlist's feature rows,
// ranks the catalog by cosine similarity to it, then greedily prefers
// candidates that introduce a genre not yet covered by the selection
// before filling remaining slots in rank order. Empty when the model is
// disabled or no watchlist id is known.
func (r *Recommender) Hybrid(watchlist []WatchlistItem, limit int) []catalog.Movie {
	defer r.observe("hybrid", time.Now())
	return r.hybrid(watchlist, limit)
}

func (r *Recommender) hybrid(watchlist []WatchlistItem, limit int) []catalog.Movie {
	if limit <= 0 || len(watchlist) == 0 || !r.model.Enabled() {
		return nil
	}

	watchRows := make([]int, 0, len(watchlist))
	watchSet := make(map[int]struct{}, len(watchlist))
	for _, item := range watchlist {
		if row, ok := r.model.rowOf(item.ID); ok {
			if _, dup := watchSet[row]; !dup {
				watchRows = append(watchRows, row)
				watchSet[row] = struct{}{}
			}
		}
	}
	if len(watchRows) == 0 {
		return nil
	}

	profile := r.model.profileVector(watchRows)
	scores := r.model.cosineAgainstRows(profile)

	ranked := make([]int, 0, len(scores))
	for i := range scores {
		if _, onList := watchSet[i]; !onList {
			ranked = append(ranked, i)
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})

	// Extra candidates give the genre-novelty pass room to work.
	pool := ranked
	if max := limit + r.cfg.DiversityPoolExtra; len(pool) > max {
		pool = pool[:max]
	}

	selected := make([]int, 0, limit)
	selectedSet := make(map[int]struct{}, limit)
	seenGenres := make(map[string]struct{})

	for _, row := range pool {
		if len(selected) == limit {
			break
		}
		if introducesGenre(r.model.rowGenres[row], seenGenres) {
			selected = append(selected, row)
			selectedSet[row] = struct{}{}
			for _, g := range r.model.rowGenres[row] {
				seenGenres[g] = struct{}{}
			}
		}
	}

	// Fill remaining slots in similarity-rank order, novelty ignored.
	for _, row := range pool {
		if len(selected) == limit {
			break
		}
		if _, ok := selectedSet[row]; !ok {
			selected = append(selected, row)
			selectedSet[row] = struct{}{}
		}
	}

	return r.moviesForRows(selected)
}

// padWithPopular appends popular movies not already chosen until limit.
func (r *Recommender) padWithPopular(selected []catalog.Movie, chosen map[int64]struct{}, limit int) []catalog.Movie {
	for _, m := range r.src.PopularMovies(limit) {
		if len(selected) == limit {
			break
		}
		if _, ok := chosen[m.ID]; ok {
			continue
		}
		selected = append(selected, m)
		chosen[m.ID] = struct{}{}
	}
	return selected
}

// moviesForRows resolves matrix rows back to movie records.
func (r *Recommender) moviesForRows(rows []int) []catalog.Movie {
	out := make([]catalog.Movie, 0, len(rows))
	for _, row := range rows {
		if m, ok := r.src.MovieByID(r.model.rowIDs[row]); ok {
			out = append(out, m)
		}
	}
	return out
}

// observe records strategy latency.
func (r *Recommender) observe(strategy string, start time.Time) {
	metrics.ObserveRecommendation(strategy, time.Since(start))
}

// normalizedRatings min-max-normalizes vote averages across the
// catalog. Movies below the vote threshold get 0; a flat catalog
// (max == min) gets 0 everywhere.
func normalizedRatings(movies []catalog.Movie, minVotes int64) []float64 {
	norm := make([]float64, len(movies))
	if len(movies) == 0 {
		return norm
	}

	minAvg, maxAvg := movies[0].VoteAverage, movies[0].VoteAverage
	for i := range movies {
		if movies[i].VoteAverage < minAvg {
			minAvg = movies[i].VoteAverage
		}
		if movies[i].VoteAverage > maxAvg {
			maxAvg = movies[i].VoteAverage
		}
	}
	if maxAvg == minAvg {
		return norm
	}

	for i := range movies {
		if movies[i].VoteCount < minVotes {
			continue
		}
		norm[i] = (movies[i].VoteAverage - minAvg) / (maxAvg - minAvg)
	}
	return norm
}

// lowerAll lower-cases and drops empty entries.
func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(strings.ToLower(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// containsGenre reports whether genres contains target (already
// lower-cased) by case-insensitive equality.
func containsGenre(genres []string, lowerTarget string) bool {
	for _, g := range genres {
		if strings.ToLower(g) == lowerTarget {
			return true
		}
	}
	return false
}

// anySubstring reports whether any needle occurs within haystack.
func anySubstring(lowerNeedles []string, lowerHaystack string) bool {
	for _, n := range lowerNeedles {
		if strings.Contains(lowerHaystack, n) {
			return true
		}
	}
	return false
}

// castContains reports whether any cast member's name contains the
// favorite actor as a substring.
func castContains(cast []string, lowerFav string) bool {
	for _, member := range cast {
		if strings.Contains(strings.ToLower(member), lowerFav) {
			return true
		}
	}
	return false
}

// introducesGenre reports whether the candidate carries at least one
// genre absent from the already-selected set.
func introducesGenre(genres []string, seen map[string]struct{}) bool {
	for _, g := range genres {
		if _, ok := seen[g]; !ok {
			return true
		}
	}
	return false
}
