// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists the three-level portfolio catalog
// (category → subcategory → app). It defines the Catalog contract, the
// composite Key that identifies every record, the typed errors callers map
// to responses, and two adapters: CatalogStore (PostgreSQL, single keyed
// table) and MemoryStore.
package store

import (
	"context"

	"portfolio/internal/models"
)

// Catalog is the full set of catalog operations. Every call is a single,
// independent operation; only cascade deletes issue several writes, in
// sequence, and a failure partway through is returned as-is.
type Catalog interface {
	// ListCategories returns every category. Order is unspecified.
	ListCategories(ctx context.Context) ([]models.Category, error)
	// ListSubcategories returns the subcategories of catKey.
	ListSubcategories(ctx context.Context, catKey string) ([]models.Subcategory, error)
	// ListApps returns the apps of one subcategory.
	ListApps(ctx context.Context, catKey, subKey string) ([]models.App, error)
	// GetApp returns one app or ErrNotFound.
	GetApp(ctx context.Context, catKey, subKey, slug string) (*models.App, error)

	// CreateApp derives the slug from the name and inserts the app only if
	// no app exists at that key; otherwise it returns ErrConflict.
	CreateApp(ctx context.Context, app models.App) (*models.App, error)
	// UpdateApp merges the patch into an existing app and refreshes
	// UpdatedAt. It returns ErrNotFound if the app does not exist.
	UpdateApp(ctx context.Context, catKey, subKey, slug string, patch models.AppPatch) (*models.App, error)
	// DeleteApp removes an app. Deleting an absent app succeeds.
	DeleteApp(ctx context.Context, catKey, subKey, slug string) error

	// UpsertCategory creates or replaces a category by key, keeping the
	// original CreatedAt.
	UpsertCategory(ctx context.Context, c models.Category) (*models.Category, error)
	// UpsertSubcategory creates or replaces a subcategory by key, keeping the
	// original CreatedAt.
	UpsertSubcategory(ctx context.Context, s models.Subcategory) (*models.Subcategory, error)

	// DeleteCategory removes a category. With children and !force it returns
	// a *HasChildrenError; with force it deletes the subtree first.
	DeleteCategory(ctx context.Context, catKey string, force bool) error
	// DeleteSubcategory removes a subcategory, with the same child rules as
	// DeleteCategory.
	DeleteSubcategory(ctx context.Context, catKey, subKey string, force bool) error
}

// Compile-time checks.
var (
	_ Catalog = (*CatalogStore)(nil)
	_ Catalog = (*MemoryStore)(nil)
)
