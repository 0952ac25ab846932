// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"portfolio/internal/models"
)

// CatalogStore keeps the whole catalog in the single catalog_items table.
// Each row is one record addressed by (pk, sk); its attributes live in the
// data document and the timestamps in their own columns.
type CatalogStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewCatalogStore returns a new CatalogStore.
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db, now: time.Now}
}

const itemColumns = `pk, sk, data, created_at, updated_at`

// item is one raw catalog_items row.
type item struct {
	pk        string
	sk        string
	data      []byte
	createdAt time.Time
	updatedAt time.Time
}

// scanItem scans a row into an item.
func scanItem(scanner interface{ Scan(...any) error }) (item, error) {
	var it item
	err := scanner.Scan(&it.pk, &it.sk, &it.data, &it.createdAt, &it.updatedAt)
	return it, err
}

// decode unmarshals the data document into dst and returns the key the row
// is stored under. The stored key, not the document, is authoritative.
func (it item) decode(dst any) (Key, error) {
	key, err := decodeKey(it.pk, it.sk)
	if err != nil {
		return Key{}, err
	}
	if err := json.Unmarshal(it.data, dst); err != nil {
		return Key{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return key, nil
}

func (it item) category() (models.Category, error) {
	var c models.Category
	key, err := it.decode(&c)
	if err != nil {
		return c, err
	}
	c.CatKey = key.CatKey
	c.CreatedAt, c.UpdatedAt = it.createdAt.UTC(), it.updatedAt.UTC()
	return c, nil
}

func (it item) subcategory() (models.Subcategory, error) {
	var s models.Subcategory
	key, err := it.decode(&s)
	if err != nil {
		return s, err
	}
	s.CatKey, s.SubKey = key.CatKey, key.SubKey
	s.CreatedAt, s.UpdatedAt = it.createdAt.UTC(), it.updatedAt.UTC()
	return s, nil
}

func (it item) app() (models.App, error) {
	var a models.App
	key, err := it.decode(&a)
	if err != nil {
		return a, err
	}
	a.CatKey, a.SubKey, a.Slug = key.CatKey, key.SubKey, key.Slug
	a.CreatedAt, a.UpdatedAt = it.createdAt.UTC(), it.updatedAt.UTC()
	return a, nil
}

// timestamp returns the current time at the precision PostgreSQL stores.
func (s *CatalogStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// queryItems runs a SELECT over itemColumns and returns the raw rows.
func (s *CatalogStore) queryItems(ctx context.Context, op, query string, args ...any) ([]item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, upstream(op, err)
	}
	defer rows.Close()

	var items []item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, upstream(op, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream(op, err)
	}
	return items, nil
}

// ListCategories returns all categories using the entity_type index.
func (s *CatalogStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	items, err := s.queryItems(ctx, "list categories",
		`SELECT `+itemColumns+` FROM catalog_items WHERE entity_type = $1`,
		KindCategory.String(),
	)
	if err != nil {
		return nil, err
	}

	out := make([]models.Category, 0, len(items))
	for _, it := range items {
		c, err := it.category()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ListSubcategories returns the SUB# rows of the category partition.
func (s *CatalogStore) ListSubcategories(ctx context.Context, catKey string) ([]models.Subcategory, error) {
	items, err := s.queryItems(ctx, "list subcategories",
		`SELECT `+itemColumns+` FROM catalog_items WHERE pk = $1 AND starts_with(sk, $2)`,
		categoryPK(catKey), subPrefix,
	)
	if err != nil {
		return nil, err
	}

	out := make([]models.Subcategory, 0, len(items))
	for _, it := range items {
		sub, err := it.subcategory()
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

// ListApps returns the APP# rows of the subcategory partition.
func (s *CatalogStore) ListApps(ctx context.Context, catKey, subKey string) ([]models.App, error) {
	items, err := s.queryItems(ctx, "list apps",
		`SELECT `+itemColumns+` FROM catalog_items WHERE pk = $1 AND starts_with(sk, $2)`,
		appsPK(catKey, subKey), appPrefix,
	)
	if err != nil {
		return nil, err
	}

	out := make([]models.App, 0, len(items))
	for _, it := range items {
		a, err := it.app()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// GetApp retrieves a single app. Returns ErrNotFound if absent.
func (s *CatalogStore) GetApp(ctx context.Context, catKey, subKey, slug string) (*models.App, error) {
	pk, sk := AppKey(catKey, subKey, slug).encode()
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM catalog_items WHERE pk = $1 AND sk = $2`, pk, sk)

	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, upstream("get app", err)
	}
	a, err := it.app()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApp inserts a new app. The insert is conditional on the key being
// free, so of two concurrent creates for the same slug exactly one wins.
func (s *CatalogStore) CreateApp(ctx context.Context, app models.App) (*models.App, error) {
	app, err := prepareApp(app)
	if err != nil {
		return nil, err
	}
	now := s.timestamp()
	app.CreatedAt, app.UpdatedAt = now, now

	data, err := json.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("encode app: %w", err)
	}

	pk, sk := AppKey(app.CatKey, app.SubKey, app.Slug).encode()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_items (pk, sk, entity_type, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $5)
		ON CONFLICT (pk, sk) DO NOTHING`,
		pk, sk, KindApp.String(), string(data), now,
	)
	if err != nil {
		return nil, upstream("create app", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, upstream("create app", err)
	}
	if n == 0 {
		return nil, ErrConflict
	}
	return &app, nil
}

// UpdateApp merges the patch into the stored document in one statement.
// Concurrent updates to the same app are last-write-wins per field.
func (s *CatalogStore) UpdateApp(ctx context.Context, catKey, subKey, slug string, patch models.AppPatch) (*models.App, error) {
	if err := validateAppKey(catKey, subKey, slug); err != nil {
		return nil, err
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}

	pk, sk := AppKey(catKey, subKey, slug).encode()
	row := s.db.QueryRowContext(ctx, `
		UPDATE catalog_items SET data = data || $3::jsonb, updated_at = $4
		WHERE pk = $1 AND sk = $2
		RETURNING `+itemColumns,
		pk, sk, string(data), s.timestamp(),
	)

	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, upstream("update app", err)
	}
	a, err := it.app()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteApp removes an app. Deleting an absent app is not an error.
func (s *CatalogStore) DeleteApp(ctx context.Context, catKey, subKey, slug string) error {
	if err := validateAppKey(catKey, subKey, slug); err != nil {
		return err
	}
	return s.deleteItem(ctx, AppKey(catKey, subKey, slug))
}

// UpsertCategory creates or replaces a category. created_at is only written
// on insert, so repeated upserts keep the original creation time.
func (s *CatalogStore) UpsertCategory(ctx context.Context, c models.Category) (*models.Category, error) {
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	c = c.WithDefaults()
	created, updated, err := s.upsert(ctx, "upsert category", CategoryKey(c.CatKey), c)
	if err != nil {
		return nil, err
	}
	c.CreatedAt, c.UpdatedAt = created, updated
	return &c, nil
}

// UpsertSubcategory creates or replaces a subcategory, keeping created_at.
func (s *CatalogStore) UpsertSubcategory(ctx context.Context, sub models.Subcategory) (*models.Subcategory, error) {
	if err := validateSubcategory(sub); err != nil {
		return nil, err
	}
	sub = sub.WithDefaults()
	created, updated, err := s.upsert(ctx, "upsert subcategory", SubcategoryKey(sub.CatKey, sub.SubKey), sub)
	if err != nil {
		return nil, err
	}
	sub.CreatedAt, sub.UpdatedAt = created, updated
	return &sub, nil
}

// upsert writes record under k and returns the stored timestamps.
func (s *CatalogStore) upsert(ctx context.Context, op string, k Key, record any) (time.Time, time.Time, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s: encode: %w", op, err)
	}

	pk, sk := k.encode()
	var created, updated time.Time
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO catalog_items (pk, sk, entity_type, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $5)
		ON CONFLICT (pk, sk) DO UPDATE SET
			data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at`,
		pk, sk, k.Kind.String(), string(data), s.timestamp(),
	).Scan(&created, &updated)
	if err != nil {
		return time.Time{}, time.Time{}, upstream(op, err)
	}
	return created.UTC(), updated.UTC(), nil
}

// DeleteCategory removes a category, cascading to its subtree when force is set.
func (s *CatalogStore) DeleteCategory(ctx context.Context, catKey string, force bool) error {
	return deleteCategoryTree(ctx, s, catKey, force)
}

// DeleteSubcategory removes a subcategory, cascading to its apps when force is set.
func (s *CatalogStore) DeleteSubcategory(ctx context.Context, catKey, subKey string, force bool) error {
	return deleteSubcategoryTree(ctx, s, catKey, subKey, force)
}

// deleteItem removes one row by key.
func (s *CatalogStore) deleteItem(ctx context.Context, k Key) error {
	pk, sk := k.encode()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM catalog_items WHERE pk = $1 AND sk = $2`, pk, sk); err != nil {
		return upstream("delete "+k.Kind.String(), err)
	}
	return nil
}
