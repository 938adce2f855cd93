// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moviemaster/moviemaster/internal/metrics"
)

const sessionKeyPrefix = "session:"

// Session is one logged-in browser session. The token is an opaque
// UUID handed to the client; expiry slides forward on every
// authenticated request.
type Session struct {
	Token      string    `json:"token"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IsExpired reports whether the session is past its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionStore keeps login sessions in BadgerDB so they survive
// restarts. The badger TTL backs up the application-level expiry
// check, keeping the store from accumulating dead keys.
type SessionStore struct {
	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger
}

// NewSessionStore wraps an open badger database.
//
//nolint:gocritic // logger passed by value is the zerolog convention
func NewSessionStore(db *badger.DB, ttl time.Duration, logger zerolog.Logger) *SessionStore {
	return &SessionStore{
		db:     db,
		ttl:    ttl,
		logger: logger.With().Str("component", "sessions").Logger(),
	}
}

// Create mints a session for the user.
func (s *SessionStore) Create(ctx context.Context, userID, username string) (*Session, error) {
	now := time.Now().UTC()
	session := &Session{
		Token:      uuid.NewString(),
		UserID:     userID,
		Username:   username,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(s.ttl),
	}

	if err := s.put(session); err != nil {
		return nil, err
	}

	metrics.SessionsActive.Inc()
	s.logger.Debug().Str("user_id", userID).Msg("session created")
	return session, nil
}

// Get resolves a token to a live session and slides its expiry
// forward. Expired sessions are deleted on sight.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	var session Session

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + token))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		if delErr := s.Delete(ctx, token); delErr != nil {
			s.logger.Warn().Err(delErr).Msg("failed to delete expired session")
		}
		return nil, ErrSessionExpired
	}

	now := time.Now().UTC()
	session.LastSeenAt = now
	session.ExpiresAt = now.Add(s.ttl)
	if err := s.put(&session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session. Deleting an absent token is not an error,
// and only a removal that actually happened moves the gauge.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	removed := false
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(sessionKeyPrefix + token)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if removed {
		metrics.SessionsActive.Dec()
	}
	return nil
}

// Count returns the number of stored sessions, expired included.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// CleanupExpired scans for and removes expired sessions.
func (s *SessionStore) CleanupExpired(ctx context.Context) (int, error) {
	var expired []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var session Session
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &session)
			})
			if err != nil {
				continue
			}
			if session.IsExpired() {
				expired = append(expired, session.Token)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}

	count := 0
	for _, token := range expired {
		if err := s.Delete(ctx, token); err != nil {
			continue
		}
		count++
	}

	if count > 0 {
		s.logger.Debug().Int("removed", count).Msg("expired sessions cleaned up")
	}

	// Badger's own TTL reaps keys without going through Delete, so
	// each sweep re-syncs the gauge from the store itself.
	if live, err := s.Count(ctx); err == nil {
		metrics.SessionsActive.Set(float64(live))
	}
	return count, nil
}

// put writes a session with a badger TTL slightly past the
// application expiry.
func (s *SessionStore) put(session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(sessionKeyPrefix+session.Token), data).
			WithTTL(s.ttl + time.Minute)
		return txn.SetEntry(entry)
	})
}
