// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

// Package config loads service configuration with Koanf v2 from three
// layers in rising precedence: built-in defaults, an optional YAML
// file, and environment variables. Environment names map through an
// explicit table so stray variables cannot pollute the configuration.
package config
