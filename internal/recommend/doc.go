// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

// Package recommend implements the content-based recommendation engine.
//
// At construction the engine builds a weighted token count matrix over
// the catalog (genres, keywords, top-billed cast, director) and a dense
// pairwise cosine-similarity matrix. Both are immutable for the process
// lifetime; there is no retraining or persistence.
//
// Five strategies are exposed through the Recommender facade:
//
//   - Popular / Trending: catalog ranking passthrough
//   - SimilarTo: similarity-matrix lookup with a genre-overlap fallback
//   - Personalized: preference-weighted scoring with popularity padding
//   - ForWatchlist: hybrid first, then frequency aggregation of
//     per-item similar lists
//   - Hybrid: mean profile vector with genre-diversity re-ranking
//
// Facade methods never return errors. Matrix build failures degrade the
// engine to a similarity-disabled mode in which matrix-based strategies
// yield empty results and the fallback chains take over; a missing
// recommendation is never fatal to the surrounding application.
package recommend
