// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

// Package supervisor builds the suture supervision tree that keeps the
// long-running parts of the service alive: the HTTP server and the
// session cleanup loop. A crash in one layer restarts only that layer.
package supervisor
