// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

// Package users implements the account subsystem: a file-backed user
// registry with bcrypt password hashing, per-user watchlist and
// bookmark lists, and BadgerDB-backed login sessions with opaque
// tokens and sliding expiry.
//
// The registry persists to a single users.json under the data
// directory; each user's lists live in their own subdirectory. All
// writes go through an atomic temp-file rename so a crash cannot leave
// a half-written registry behind.
package users
