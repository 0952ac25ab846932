// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"portfolio/internal/models"
)

// MemoryStore is an in-process Catalog guarded by a single mutex. It keeps
// the same semantics as CatalogStore and is used for local runs without a
// database and as the backing store of handler tests. Contents are lost on
// restart.
type MemoryStore struct {
	mu         sync.RWMutex
	categories map[Key]models.Category
	subs       map[Key]models.Subcategory
	apps       map[Key]models.App
	now        func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: make(map[Key]models.Category),
		subs:       make(map[Key]models.Subcategory),
		apps:       make(map[Key]models.App),
		now:        time.Now,
	}
}

func (m *MemoryStore) timestamp() time.Time {
	return m.now().UTC()
}

// ListCategories returns all categories, sorted by key for stable output.
func (m *MemoryStore) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CatKey < out[j].CatKey })
	return out, nil
}

// ListSubcategories returns the subcategories of catKey, sorted by key.
func (m *MemoryStore) ListSubcategories(_ context.Context, catKey string) ([]models.Subcategory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Subcategory, 0)
	for k, s := range m.subs {
		if k.CatKey == catKey {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubKey < out[j].SubKey })
	return out, nil
}

// ListApps returns the apps of one subcategory, sorted by slug.
func (m *MemoryStore) ListApps(_ context.Context, catKey, subKey string) ([]models.App, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.App, 0)
	for k, a := range m.apps {
		if k.CatKey == catKey && k.SubKey == subKey {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// GetApp returns a copy of one app or ErrNotFound.
func (m *MemoryStore) GetApp(_ context.Context, catKey, subKey, slug string) (*models.App, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.apps[AppKey(catKey, subKey, slug)]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

// CreateApp inserts the app unless its key is taken. The existence check
// and the insert happen under the same lock.
func (m *MemoryStore) CreateApp(_ context.Context, app models.App) (*models.App, error) {
	app, err := prepareApp(app)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	k := AppKey(app.CatKey, app.SubKey, app.Slug)
	if _, exists := m.apps[k]; exists {
		return nil, ErrConflict
	}
	now := m.timestamp()
	app.CreatedAt, app.UpdatedAt = now, now
	m.apps[k] = app
	return &app, nil
}

// UpdateApp merges the patch into an existing app.
func (m *MemoryStore) UpdateApp(_ context.Context, catKey, subKey, slug string, patch models.AppPatch) (*models.App, error) {
	if err := validateAppKey(catKey, subKey, slug); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	k := AppKey(catKey, subKey, slug)
	a, ok := m.apps[k]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&a)
	a.UpdatedAt = m.timestamp()
	m.apps[k] = a
	return &a, nil
}

// DeleteApp removes an app; absent apps are ignored.
func (m *MemoryStore) DeleteApp(ctx context.Context, catKey, subKey, slug string) error {
	if err := validateAppKey(catKey, subKey, slug); err != nil {
		return err
	}
	return m.deleteItem(ctx, AppKey(catKey, subKey, slug))
}

// UpsertCategory creates or replaces a category, keeping CreatedAt.
func (m *MemoryStore) UpsertCategory(_ context.Context, c models.Category) (*models.Category, error) {
	if err := validateCategory(c); err != nil {
		return nil, err
	}
	c = c.WithDefaults()

	m.mu.Lock()
	defer m.mu.Unlock()

	k := CategoryKey(c.CatKey)
	now := m.timestamp()
	c.CreatedAt, c.UpdatedAt = now, now
	if prev, ok := m.categories[k]; ok {
		c.CreatedAt = prev.CreatedAt
	}
	m.categories[k] = c
	return &c, nil
}

// UpsertSubcategory creates or replaces a subcategory, keeping CreatedAt.
func (m *MemoryStore) UpsertSubcategory(_ context.Context, s models.Subcategory) (*models.Subcategory, error) {
	if err := validateSubcategory(s); err != nil {
		return nil, err
	}
	s = s.WithDefaults()

	m.mu.Lock()
	defer m.mu.Unlock()

	k := SubcategoryKey(s.CatKey, s.SubKey)
	now := m.timestamp()
	s.CreatedAt, s.UpdatedAt = now, now
	if prev, ok := m.subs[k]; ok {
		s.CreatedAt = prev.CreatedAt
	}
	m.subs[k] = s
	return &s, nil
}

// DeleteCategory removes a category, cascading when force is set.
func (m *MemoryStore) DeleteCategory(ctx context.Context, catKey string, force bool) error {
	return deleteCategoryTree(ctx, m, catKey, force)
}

// DeleteSubcategory removes a subcategory, cascading when force is set.
func (m *MemoryStore) DeleteSubcategory(ctx context.Context, catKey, subKey string, force bool) error {
	return deleteSubcategoryTree(ctx, m, catKey, subKey, force)
}

func (m *MemoryStore) deleteItem(_ context.Context, k Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch k.Kind {
	case KindCategory:
		delete(m.categories, k)
	case KindSubcategory:
		delete(m.subs, k)
	case KindApp:
		delete(m.apps, k)
	}
	return nil
}
