// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package users

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// Per-user list files under dir/<userID>/.
const (
	watchlistFile = "watchlist.json"
	bookmarksFile = "bookmarks.json"
)

// Watchlist returns the user's watchlist in insertion order.
func (s *Store) Watchlist(userID string) ([]ListEntry, error) {
	return s.list(userID, watchlistFile)
}

// Bookmarks returns the user's bookmarks in insertion order.
func (s *Store) Bookmarks(userID string) ([]ListEntry, error) {
	return s.list(userID, bookmarksFile)
}

// AddToWatchlist appends a movie to the user's watchlist. Duplicates
// are rejected with ErrAlreadyListed.
func (s *Store) AddToWatchlist(userID string, movieID int64, title string) error {
	return s.addEntry(userID, watchlistFile, movieID, title)
}

// RemoveFromWatchlist removes a movie from the user's watchlist.
func (s *Store) RemoveFromWatchlist(userID string, movieID int64) error {
	return s.removeEntry(userID, watchlistFile, movieID)
}

// AddBookmark appends a movie to the user's bookmarks.
func (s *Store) AddBookmark(userID string, movieID int64, title string) error {
	return s.addEntry(userID, bookmarksFile, movieID, title)
}

// RemoveBookmark removes a movie from the user's bookmarks.
func (s *Store) RemoveBookmark(userID string, movieID int64) error {
	return s.removeEntry(userID, bookmarksFile, movieID)
}

func (s *Store) list(userID, file string) ([]ListEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byID[userID]; !ok {
		return nil, ErrUserNotFound
	}
	return s.readList(userID, file)
}

func (s *Store) addEntry(userID, file string, movieID int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[userID]; !ok {
		return ErrUserNotFound
	}

	entries, err := s.readList(userID, file)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.MovieID == movieID {
			return ErrAlreadyListed
		}
	}

	entries = append(entries, ListEntry{
		MovieID: movieID,
		Title:   title,
		AddedAt: time.Now().UTC(),
	})
	return s.writeList(userID, file, entries)
}

func (s *Store) removeEntry(userID, file string, movieID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[userID]; !ok {
		return ErrUserNotFound
	}

	entries, err := s.readList(userID, file)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.MovieID != movieID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return ErrNotListed
	}
	return s.writeList(userID, file, kept)
}

// readList loads a list file; a missing file is an empty list. Callers
// must hold at least the read lock.
func (s *Store) readList(userID, file string) ([]ListEntry, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, userID, file))
	if os.IsNotExist(err) {
		return []ListEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	var entries []ListEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return entries, nil
}

// writeList persists a list file atomically. Callers must hold the
// write lock.
func (s *Store) writeList(userID, file string, entries []ListEntry) error {
	userDir := filepath.Join(s.dir, userID)
	if err := os.MkdirAll(userDir, 0o750); err != nil {
		return fmt.Errorf("create user directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", file, err)
	}
	return writeFileAtomic(filepath.Join(userDir, file), data)
}
