// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package users

import (
	"errors"
	"time"

	"github.com/moviemaster/moviemaster/internal/recommend"
)

// Sentinel errors for the account subsystem.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrAlreadyListed      = errors.New("movie already on the list")
	ErrNotListed          = errors.New("movie not on the list")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// User is a registered account. PasswordHash is a bcrypt hash; the
// struct is persisted to users.json and never serialized to clients
// directly.
type User struct {
	ID           string                `json:"id"`
	Username     string                `json:"username"`
	PasswordHash string                `json:"password_hash"`
	Preferences  recommend.Preferences `json:"preferences"`
	CreatedAt    time.Time             `json:"created_at"`
}

// Profile is the client-safe view of a user.
type Profile struct {
	ID          string                `json:"id"`
	Username    string                `json:"username"`
	Preferences recommend.Preferences `json:"preferences"`
	CreatedAt   time.Time             `json:"created_at"`
}

// clone copies the user so callers never share state with the
// registry's live record.
func (u *User) clone() *User {
	c := *u
	c.Preferences = u.Preferences.Clone()
	return &c
}

// Profile returns the user without credential material.
func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		Preferences: u.Preferences,
		CreatedAt:   u.CreatedAt,
	}
}

// ListEntry is one movie on a user's watchlist or bookmark list.
type ListEntry struct {
	MovieID int64     `json:"movie_id"`
	Title   string    `json:"title"`
	AddedAt time.Time `json:"added_at"`
}
