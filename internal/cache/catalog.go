// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// catalog.go provides a Valkey-backed read-through cache for the three
// catalog list reads. Lists are stored as JSON under catalog:* keys and the
// whole keyspace is dropped after every successful mutation, since one
// write can change several lists (a forced category delete empties them all).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio/internal/metrics"
	"portfolio/internal/models"
	"portfolio/internal/store"
)

const (
	// catalogKeyPrefix is the Valkey key prefix for cached catalog lists.
	catalogKeyPrefix = "catalog:"

	// generationKey counts invalidations. It sits outside catalogKeyPrefix
	// so InvalidateAll never deletes it.
	generationKey = "catalog-generation"

	// DefaultCatalogTTL is how long a cached list stays valid.
	DefaultCatalogTTL = 1 * time.Minute
)

// InvalidationLog receives one event per invalidating mutation.
type InvalidationLog interface {
	Log(ctx context.Context, entityType, entityKey, action string)
}

// CatalogCache wraps a store.Catalog and caches its list reads.
// Cache failures are logged and fall through to the wrapped store.
type CatalogCache struct {
	next   store.Catalog
	client *redis.Client
	ttl    time.Duration
	audit  InvalidationLog
}

var _ store.Catalog = (*CatalogCache)(nil)

// NewCatalogCache creates a catalog cache in front of next.
func NewCatalogCache(next store.Catalog, client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{next: next, client: client, ttl: ttl}
}

// WithAuditLog records every invalidation to log.
func (c *CatalogCache) WithAuditLog(log InvalidationLog) *CatalogCache {
	c.audit = log
	return c
}

// CategoriesKey returns the cache key for the category list.
func CategoriesKey() string {
	return catalogKeyPrefix + "categories"
}

// SubcategoriesKey returns the cache key for the subcategory list of catKey.
func SubcategoriesKey(catKey string) string {
	return catalogKeyPrefix + "subs:" + catKey
}

// AppsKey returns the cache key for the app list of one subcategory. The
// parts are joined with "/", which catalog keys cannot contain, so distinct
// (catKey, subKey) pairs never share a key.
func AppsKey(catKey, subKey string) string {
	return catalogKeyPrefix + "apps:" + catKey + "/" + subKey
}

// errStaleLoad aborts a cache fill that raced with an invalidation.
var errStaleLoad = errors.New("catalog changed during load")

// readThrough serves key from Valkey or loads and stores it. The loaded list
// is stored only if no invalidation happened since the load started.
func readThrough[T any](ctx context.Context, c *CatalogCache, list, key string, load func() ([]T, error)) ([]T, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var out []T
		if jerr := json.Unmarshal(raw, &out); jerr == nil && out != nil {
			slog.Debug("catalog cache hit", "key", key)
			metrics.RecordCacheLookup(list, metrics.CacheHit)
			return out, nil
		}
		slog.Warn("catalog cache entry unreadable", "key", key)
		metrics.RecordCacheLookup(list, metrics.CacheError)
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheLookup(list, metrics.CacheMiss)
	default:
		slog.Warn("catalog cache get error", "key", key, "error", err)
		metrics.RecordCacheLookup(list, metrics.CacheError)
	}

	gen, genErr := c.generation(ctx)

	out, err := load()
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		return out, nil
	}

	data, err := json.Marshal(out)
	if err != nil {
		slog.Warn("catalog cache encode error", "key", key, "error", err)
		return out, nil
	}
	c.fill(ctx, key, data, gen)
	return out, nil
}

// generation returns the current invalidation counter; a missing counter
// reads as zero.
func (c *CatalogCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// fill stores data under key inside a WATCH on the generation counter, so
// an invalidation that lands between the check and the write aborts it.
func (c *CatalogCache) fill(ctx context.Context, key string, data []byte, gen int64) {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleLoad
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleLoad), errors.Is(err, redis.TxFailedErr):
		slog.Debug("catalog cache fill skipped, catalog changed during load", "key", key)
	default:
		slog.Warn("catalog cache set error", "key", key, "error", err)
	}
}

// ListCategories returns the cached category list.
func (c *CatalogCache) ListCategories(ctx context.Context) ([]models.Category, error) {
	return readThrough(ctx, c, "categories", CategoriesKey(), func() ([]models.Category, error) {
		return c.next.ListCategories(ctx)
	})
}

// ListSubcategories returns the cached subcategory list of catKey.
func (c *CatalogCache) ListSubcategories(ctx context.Context, catKey string) ([]models.Subcategory, error) {
	return readThrough(ctx, c, "subcategories", SubcategoriesKey(catKey), func() ([]models.Subcategory, error) {
		return c.next.ListSubcategories(ctx, catKey)
	})
}

// ListApps returns the cached app list of one subcategory.
func (c *CatalogCache) ListApps(ctx context.Context, catKey, subKey string) ([]models.App, error) {
	return readThrough(ctx, c, "apps", AppsKey(catKey, subKey), func() ([]models.App, error) {
		return c.next.ListApps(ctx, catKey, subKey)
	})
}

// GetApp is not cached.
func (c *CatalogCache) GetApp(ctx context.Context, catKey, subKey, slug string) (*models.App, error) {
	return c.next.GetApp(ctx, catKey, subKey, slug)
}

func (c *CatalogCache) CreateApp(ctx context.Context, app models.App) (*models.App, error) {
	created, err := c.next.CreateApp(ctx, app)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, store.AppKey(created.CatKey, created.SubKey, created.Slug), "create")
	return created, nil
}

func (c *CatalogCache) UpdateApp(ctx context.Context, catKey, subKey, slug string, patch models.AppPatch) (*models.App, error) {
	updated, err := c.next.UpdateApp(ctx, catKey, subKey, slug, patch)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, store.AppKey(catKey, subKey, slug), "update")
	return updated, nil
}

func (c *CatalogCache) DeleteApp(ctx context.Context, catKey, subKey, slug string) error {
	if err := c.next.DeleteApp(ctx, catKey, subKey, slug); err != nil {
		return err
	}
	c.invalidate(ctx, store.AppKey(catKey, subKey, slug), "delete")
	return nil
}

func (c *CatalogCache) UpsertCategory(ctx context.Context, cat models.Category) (*models.Category, error) {
	saved, err := c.next.UpsertCategory(ctx, cat)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, store.CategoryKey(saved.CatKey), "upsert")
	return saved, nil
}

func (c *CatalogCache) UpsertSubcategory(ctx context.Context, sub models.Subcategory) (*models.Subcategory, error) {
	saved, err := c.next.UpsertSubcategory(ctx, sub)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, store.SubcategoryKey(saved.CatKey, saved.SubKey), "upsert")
	return saved, nil
}

// DeleteCategory invalidates even when a forced cascade fails partway,
// because some records may already be gone.
func (c *CatalogCache) DeleteCategory(ctx context.Context, catKey string, force bool) error {
	err := c.next.DeleteCategory(ctx, catKey, force)
	if err == nil || (force && errors.Is(err, store.ErrUpstream)) {
		c.invalidate(ctx, store.CategoryKey(catKey), "delete")
	}
	return err
}

func (c *CatalogCache) DeleteSubcategory(ctx context.Context, catKey, subKey string, force bool) error {
	err := c.next.DeleteSubcategory(ctx, catKey, subKey, force)
	if err == nil || (force && errors.Is(err, store.ErrUpstream)) {
		c.invalidate(ctx, store.SubcategoryKey(catKey, subKey), "delete")
	}
	return err
}

// invalidate drops every cached list and records the event.
func (c *CatalogCache) invalidate(ctx context.Context, k store.Key, action string) {
	c.InvalidateAll(ctx)
	metrics.RecordInvalidation(k.Kind.String())
	if c.audit != nil {
		c.audit.Log(ctx, k.Kind.String(), k.String(), action)
	}
}

// InvalidateAll bumps the generation counter, then removes all cached
// catalog lists by scanning for the prefix. Fills that started before the
// bump are discarded.
func (c *CatalogCache) InvalidateAll(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.Warn("catalog cache generation bump error", "error", err)
	}

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, catalogKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("catalog cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("catalog cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("catalog cache cleared", "deleted", deleted)
	}
}
