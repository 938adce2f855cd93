// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/moviemaster/moviemaster/internal/catalog"
)

// Model holds the feature space and similarity matrix built once from a
// catalog snapshot. A Model is immutable after construction; a disabled
// Model (empty catalog, no feature columns, or a build failure) has nil
// matrices and an empty index, and every lookup on it returns nothing.
type Model struct {
	// features is the movie x vocabulary count matrix.
	features *mat.Dense

	// similarity is the dense movie x movie cosine matrix.
	similarity *mat.Dense

	// index maps movie id to matrix row.
	index map[int64]int

	// rowIDs maps matrix row back to movie id, catalog order.
	rowIDs []int64

	// rowGenres caches lower-cased genres per row for the hybrid
	// strategy's novelty pass.
	rowGenres [][]string

	// vocabSize is the number of feature tokens.
	vocabSize int
}

// disabledModel is the degraded mode every failure path lands on.
func disabledModel() *Model {
	return &Model{index: map[int64]int{}}
}

// Enabled reports whether similarity-based strategies can run.
func (m *Model) Enabled() bool {
	return m.similarity != nil && len(m.index) > 0
}

// VocabularySize returns the number of feature tokens, 0 when disabled.
func (m *Model) VocabularySize() int {
	return m.vocabSize
}

// rowOf returns the matrix row for a movie id.
func (m *Model) rowOf(id int64) (int, bool) {
	row, ok := m.index[id]
	return row, ok
}

// BuildModel constructs the feature and similarity matrices from the
// source catalog. It never fails hard: any problem degrades to a
// disabled model with a diagnostic, and the Recommender keeps serving
// the strategies that do not need matrices.
//
//nolint:gocritic // logger passed by value is the zerolog convention
func BuildModel(src Source, cfg Config, logger zerolog.Logger) (model *Model) {
	cfg = cfg.withDefaults()

	// The matrix pipeline must never take the process down; a panic in
	// it means a degraded engine, not a crash.
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("panic", fmt.Sprint(r)).Msg("recommendation matrix build failed")
			model = disabledModel()
		}
	}()

	movies := src.Movies()
	if len(movies) == 0 {
		logger.Warn().Msg("empty catalog, similarity disabled")
		return disabledModel()
	}

	columns := src.Columns()
	if !columns.Any() {
		logger.Warn().Msg("no feature columns in catalog, similarity disabled")
		return disabledModel()
	}

	// Per-movie token multisets using the configured weights.
	counters := make([]map[string]int, len(movies))
	vocabSet := make(map[string]struct{})
	for i := range movies {
		counter := movieTokens(&movies[i], columns, cfg)
		counters[i] = counter
		for tok := range counter {
			vocabSet[tok] = struct{}{}
		}
	}

	// Sorted vocabulary gives a deterministic column order. Ordering
	// does not affect results, only which column holds which token.
	vocab := make([]string, 0, len(vocabSet))
	for tok := range vocabSet {
		vocab = append(vocab, tok)
	}
	sort.Strings(vocab)

	tokenCol := make(map[string]int, len(vocab))
	for i, tok := range vocab {
		tokenCol[tok] = i
	}

	features := mat.NewDense(len(movies), len(vocab), nil)
	for i, counter := range counters {
		for tok, count := range counter {
			features.Set(i, tokenCol[tok], float64(count))
		}
	}

	index := make(map[int64]int, len(movies))
	rowIDs := make([]int64, len(movies))
	rowGenres := make([][]string, len(movies))
	for i := range movies {
		index[movies[i].ID] = i
		rowIDs[i] = movies[i].ID
		genres := make([]string, len(movies[i].Genres))
		for g, name := range movies[i].Genres {
			genres[g] = strings.ToLower(name)
		}
		rowGenres[i] = genres
	}

	similarity := cosineMatrix(features)

	logger.Info().
		Int("movies", len(movies)).
		Int("vocabulary", len(vocab)).
		Msg("recommendation matrices initialized")

	return &Model{
		features:   features,
		similarity: similarity,
		index:      index,
		rowIDs:     rowIDs,
		rowGenres:  rowGenres,
		vocabSize:  len(vocab),
	}
}

// movieTokens builds the weighted token multiset for one movie.
// Tokens are namespaced, lower-cased, spaces replaced by underscores.
func movieTokens(m *catalog.Movie, columns catalog.Columns, cfg Config) map[string]int {
	counter := make(map[string]int)

	if columns.Genres {
		for _, g := range m.Genres {
			counter["genre_"+normalizeToken(g)] += cfg.GenreWeight
		}
	}
	if columns.Keywords {
		for _, k := range m.Keywords {
			counter["kw_"+normalizeToken(k)] += cfg.KeywordWeight
		}
	}
	if columns.Cast {
		top := m.Cast
		if len(top) > cfg.TopCast {
			top = top[:cfg.TopCast]
		}
		for _, a := range top {
			counter["actor_"+normalizeToken(a)] += cfg.CastWeight
		}
	}
	if columns.Director && m.Director != "" {
		counter["director_"+normalizeToken(m.Director)] += cfg.DirectorWeight
	}

	return counter
}

// normalizeToken lower-cases and replaces spaces with underscores.
func normalizeToken(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}

// cosineMatrix computes the dense pairwise cosine similarity of the
// feature matrix rows. Zero-norm rows are defined to have similarity 0
// with everything, never NaN.
func cosineMatrix(features *mat.Dense) *mat.Dense {
	n, _ := features.Dims()
	sim := mat.NewDense(n, n, nil)

	norms := make([]float64, n)
	for i := 0; i < n; i++ {
		norms[i] = floats.Norm(features.RawRowView(i), 2)
	}

	for i := 0; i < n; i++ {
		if norms[i] == 0 {
			continue
		}
		sim.Set(i, i, 1)
		for j := i + 1; j < n; j++ {
			if norms[j] == 0 {
				continue
			}
			dot := floats.Dot(features.RawRowView(i), features.RawRowView(j))
			v := dot / (norms[i] * norms[j])
			sim.Set(i, j, v)
			sim.Set(j, i, v)
		}
	}

	return sim
}

// profileVector returns the mean of the feature rows, the synthetic
// "average taste" point used by the hybrid strategy.
func (m *Model) profileVector(rows []int) []float64 {
	_, d := m.features.Dims()
	profile := make([]float64, d)
	for _, row := range rows {
		floats.Add(profile, m.features.RawRowView(row))
	}
	floats.Scale(1/float64(len(rows)), profile)
	return profile
}

// cosineAgainstRows returns the cosine similarity of vec against every
// feature row. Zero norms on either side yield 0.
func (m *Model) cosineAgainstRows(vec []float64) []float64 {
	n, _ := m.features.Dims()
	out := make([]float64, n)

	vecNorm := floats.Norm(vec, 2)
	if vecNorm == 0 {
		return out
	}

	for i := 0; i < n; i++ {
		rowNorm := floats.Norm(m.features.RawRowView(i), 2)
		if rowNorm == 0 {
			continue
		}
		out[i] = floats.Dot(vec, m.features.RawRowView(i)) / (vecNorm * rowNorm)
	}
	return out
}
