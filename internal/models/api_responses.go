// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

// Package models defines shared API data structures.
package models

import "time"

// APIResponse is the standard envelope for all HTTP endpoints.
//
// Status is "success" or "error". Data carries the payload for
// successful responses; Error is populated only on failure. A
// recommendation endpoint that finds nothing still returns
// status "success" with an empty data array - an empty result is
// never an application error.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	// Timestamp is the server time when the response was generated.
	Timestamp time.Time `json:"timestamp"`

	// QueryTimeMS is the handler execution time in milliseconds.
	QueryTimeMS int64 `json:"query_time_ms"`
}

// APIError describes a failed request.
type APIError struct {
	// Code is a stable machine-readable error code, e.g. "INVALID_MOVIE_ID".
	Code string `json:"code"`

	// Message is a human-readable description safe to show to clients.
	Message string `json:"message"`

	// Details carries optional structured context (field names etc.).
	Details map[string]string `json:"details,omitempty"`
}
