// MovieMaster - Movie Catalog and Recommendation Service
// Copyright 2026 MovieMaster contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviemaster/moviemaster

package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Cleaner is implemented by stores that periodically purge stale
// entries, such as the session store.
type Cleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// CleanupService runs a Cleaner on an interval under supervision, so a
// panic in cleanup restarts the loop instead of silently killing it.
type CleanupService struct {
	cleaner  Cleaner
	interval time.Duration
	logger   zerolog.Logger
}

// NewCleanupService builds the loop.
//
//nolint:gocritic // logger passed by value is the zerolog convention
func NewCleanupService(cleaner Cleaner, interval time.Duration, logger zerolog.Logger) *CleanupService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupService{
		cleaner:  cleaner,
		interval: interval,
		logger:   logger.With().Str("component", "cleanup").Logger(),
	}
}

// Serve implements suture.Service.
func (c *CleanupService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed, err := c.cleaner.CleanupExpired(ctx)
			if err != nil {
				c.logger.Warn().Err(err).Msg("cleanup run failed")
				continue
			}
			if removed > 0 {
				c.logger.Debug().Int("removed", removed).Msg("cleanup run completed")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (c *CleanupService) String() string {
	return "session-cleanup"
}
