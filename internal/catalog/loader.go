// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/moviemaster/moviemaster/internal/logging"
)

// yearPattern extracts a 4-digit year from otherwise unparseable dates.
var yearPattern = regexp.MustCompile(`(\d{4})`)

// Load reads a movie dataset from a CSV file and returns an immutable
// catalog snapshot.
//
// The loader is header-driven: columns may appear in any order, and
// missing feature columns (genres, keywords, cast, director) are
// tolerated - the returned Columns records what was present. Rows
// without a parseable id are skipped with a diagnostic rather than
// aborting the load.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a CSV movie dataset from r. See Load.
func Read(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows, validated per field below
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	if _, ok := col["id"]; !ok {
		return nil, fmt.Errorf("catalog missing required column %q", "id")
	}

	columns := Columns{
		Genres:   hasColumn(col, "genres", "genres_list"),
		Keywords: hasColumn(col, "keywords", "keywords_list"),
		Cast:     hasColumn(col, "cast", "cast_list"),
		Director: hasColumn(col, "director"),
	}

	logger := logging.With().Str("component", "catalog").Logger()

	var movies []Movie
	seen := make(map[int64]struct{})
	skipped := 0

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row, keep going.
			skipped++
			continue
		}

		get := func(names ...string) string {
			for _, n := range names {
				if idx, ok := col[n]; ok && idx < len(row) {
					return strings.TrimSpace(row[idx])
				}
			}
			return ""
		}

		id, err := strconv.ParseInt(get("id"), 10, 64)
		if err != nil {
			skipped++
			continue
		}
		if _, dup := seen[id]; dup {
			skipped++
			continue
		}
		seen[id] = struct{}{}

		releaseDate := get("release_date")
		movies = append(movies, Movie{
			ID:          id,
			Title:       get("title", "original_title"),
			Overview:    get("overview"),
			Genres:      parseNameList(get("genres", "genres_list")),
			Keywords:    parseNameList(get("keywords", "keywords_list")),
			Cast:        parseNameList(get("cast", "cast_list")),
			Director:    get("director"),
			VoteAverage: parseFloat(get("vote_average")),
			VoteCount:   int64(parseFloat(get("vote_count"))),
			Popularity:  parseFloat(get("popularity")),
			ReleaseDate: releaseDate,
			ReleaseYear: extractYear(releaseDate),
			PosterPath:  get("poster_path"),
		})
	}

	if skipped > 0 {
		logger.Warn().Int("skipped", skipped).Msg("skipped malformed catalog rows")
	}
	logger.Info().Int("movies", len(movies)).Msg("catalog loaded")

	return newCatalog(movies, columns), nil
}

// hasColumn reports whether any of the given names is a header column.
func hasColumn(col map[string]int, names ...string) bool {
	for _, n := range names {
		if _, ok := col[n]; ok {
			return true
		}
	}
	return false
}

// parseNameList converts a raw list cell into names. Datasets encode
// these three ways: a JSON array of strings, a JSON array of objects
// with a "name" field (TMDB style), or a plain comma-separated string.
func parseNameList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var asStrings []string
		if err := json.Unmarshal([]byte(raw), &asStrings); err == nil {
			return trimNonEmpty(asStrings)
		}

		var asObjects []struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal([]byte(raw), &asObjects); err == nil {
			names := make([]string, 0, len(asObjects))
			for _, o := range asObjects {
				if o.Name != "" {
					names = append(names, o.Name)
				}
			}
			return names
		}
	}

	// Comma-separated fallback.
	return trimNonEmpty(strings.Split(raw, ","))
}

// trimNonEmpty trims whitespace and drops empty entries.
func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// parseFloat parses a float cell, treating blanks and garbage as 0.
func parseFloat(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// extractYear pulls a release year out of a date string. Several
// layouts are attempted before falling back to the first 4-digit run.
func extractYear(date string) int {
	if date == "" {
		return 0
	}

	for _, layout := range []string{"2006-01-02", "02-01-2006", "2006"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year()
		}
	}

	if m := yearPattern.FindString(date); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	return 0
}
