// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache_log.go records catalog cache invalidation events in the database
// for audit and debugging purposes. Each entry captures which record caused
// the invalidation, when, and why (create/update/upsert/delete).
package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
)

// CacheLogStore handles cache invalidation log operations.
type CacheLogStore struct {
	db *sql.DB
}

// NewCacheLogStore creates a new CacheLogStore.
func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log records a cache invalidation event. entityType is a Kind name and
// entityKey the slash path of the record, e.g. "ai/education/ai-tutor".
func (s *CacheLogStore) Log(ctx context.Context, entityType, entityKey, action string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_invalidation_log (id, entity_type, entity_key, action)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), entityType, entityKey, action)
	if err != nil {
		// Best-effort: a failed audit write never fails the mutation.
		slog.Warn("failed to log cache invalidation",
			"entity_type", entityType,
			"entity_key", entityKey,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("cache invalidation logged",
		"entity_type", entityType,
		"entity_key", entityKey,
		"action", action,
	)
}
