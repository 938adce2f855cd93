// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

// Package api provides the HTTP surface using the Chi router: catalog
// browsing and search, the recommendation endpoints, account and
// session management, and per-user watchlist and bookmark lists.
//
// All responses share the models.APIResponse envelope. Rate limiting
// is per client IP with a stricter budget on the auth endpoints.
package api
