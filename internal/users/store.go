// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package users

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/moviemaster/moviemaster/internal/recommend"
)

const registryFile = "users.json"

// Store is the file-backed user registry. A single RWMutex guards both
// the in-memory maps and the registry file; registration volume does
// not justify anything finer-grained.
type Store struct {
	dir    string
	logger zerolog.Logger

	mu         sync.RWMutex
	byUsername map[string]*User // key is the lower-cased username
	byID       map[string]*User
}

// NewStore opens the registry under dir, creating the directory and an
// empty registry when absent.
//
//nolint:gocritic // logger passed by value is the zerolog convention
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &Store{
		dir:        dir,
		logger:     logger.With().Str("component", "users").Logger(),
		byUsername: make(map[string]*User),
		byID:       make(map[string]*User),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	s.logger.Info().Int("users", len(s.byID)).Str("dir", dir).Msg("user registry opened")
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(filepath.Join(s.dir, registryFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read user registry: %w", err)
	}

	var users []*User
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("parse user registry: %w", err)
	}

	for _, u := range users {
		s.byUsername[strings.ToLower(u.Username)] = u
		s.byID[u.ID] = u
	}
	return nil
}

// persist writes the registry atomically in registration order, so
// repeated writes produce identical files. Callers must hold the write
// lock.
func (s *Store) persist() error {
	users := make([]*User, 0, len(s.byID))
	for _, u := range s.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal user registry: %w", err)
	}
	return writeFileAtomic(filepath.Join(s.dir, registryFile), data)
}

// writeFileAtomic writes via a temp file and rename so readers never
// observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Register creates a new account. Usernames are unique
// case-insensitively and stored with their original casing.
func (s *Store) Register(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen {
		return nil, ErrUsernameTooShort
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(username)
	if _, exists := s.byUsername[key]; exists {
		return nil, ErrUsernameTaken
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	s.byUsername[key] = user
	s.byID[user.ID] = user

	if err := s.persist(); err != nil {
		delete(s.byUsername, key)
		delete(s.byID, user.ID)
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("user registered")
	return user.clone(), nil
}

// Authenticate verifies the username and password. Both unknown users
// and wrong passwords return ErrInvalidCredentials so the response
// does not leak which usernames exist.
func (s *Store) Authenticate(username, password string) (*User, error) {
	s.mu.RLock()
	user, ok := s.byUsername[strings.ToLower(strings.TrimSpace(username))]
	if ok {
		user = user.clone()
	}
	s.mu.RUnlock()

	if !ok {
		// Burn a comparison anyway to keep timing consistent.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinval"), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ByID returns a copy of the user; the registry's record is never
// handed out, so callers can read it while writers hold the lock.
func (s *Store) ByID(id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user.clone(), nil
}

// UpdatePreferences replaces a user's recommendation preferences.
func (s *Store) UpdatePreferences(id string, prefs recommend.Preferences) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	previous := user.Preferences
	user.Preferences = prefs.Clone()
	if err := s.persist(); err != nil {
		user.Preferences = previous
		return nil, err
	}
	return user.clone(), nil
}

// Count returns the number of registered users.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
