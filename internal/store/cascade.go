// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"

	"portfolio/internal/models"
	"portfolio/internal/slug"
)

// treeStore is what the cascade delete needs from an adapter: child listing
// and a single-record delete that succeeds when the record is absent.
type treeStore interface {
	ListSubcategories(ctx context.Context, catKey string) ([]models.Subcategory, error)
	ListApps(ctx context.Context, catKey, subKey string) ([]models.App, error)
	deleteItem(ctx context.Context, k Key) error
}

// deleteCategoryTree removes a category. Its subcategories, and their apps,
// are deleted one by one first when force is set.
func deleteCategoryTree(ctx context.Context, t treeStore, catKey string, force bool) error {
	if err := validateKeyPart("catKey", catKey); err != nil {
		return err
	}

	subs, err := t.ListSubcategories(ctx, catKey)
	if err != nil {
		return err
	}
	if len(subs) > 0 && !force {
		keys := make([]string, len(subs))
		for i, s := range subs {
			keys[i] = s.SubKey
		}
		return newHasChildrenError("category", catKey, keys)
	}

	for _, s := range subs {
		if err := deleteSubcategoryTree(ctx, t, catKey, s.SubKey, true); err != nil {
			return err
		}
	}
	return t.deleteItem(ctx, CategoryKey(catKey))
}

// deleteSubcategoryTree removes a subcategory, deleting its apps first when
// force is set.
func deleteSubcategoryTree(ctx context.Context, t treeStore, catKey, subKey string, force bool) error {
	if err := validateKeyPart("catKey", catKey); err != nil {
		return err
	}
	if err := validateKeyPart("subKey", subKey); err != nil {
		return err
	}

	apps, err := t.ListApps(ctx, catKey, subKey)
	if err != nil {
		return err
	}
	if len(apps) > 0 && !force {
		slugs := make([]string, len(apps))
		for i, a := range apps {
			slugs[i] = a.Slug
		}
		return newHasChildrenError("subcategory", catKey+"/"+subKey, slugs)
	}

	for _, a := range apps {
		if err := t.deleteItem(ctx, AppKey(catKey, subKey, a.Slug)); err != nil {
			return err
		}
	}
	return t.deleteItem(ctx, SubcategoryKey(catKey, subKey))
}

// prepareApp validates a new app and fills in the derived and defaulted
// fields. Timestamps are left to the caller.
func prepareApp(app models.App) (models.App, error) {
	if err := validateKeyPart("catKey", app.CatKey); err != nil {
		return app, err
	}
	if err := validateKeyPart("subKey", app.SubKey); err != nil {
		return app, err
	}
	app.Slug = slug.Generate(app.Name)
	if app.Slug == "" {
		return app, &ValidationError{Field: "name", Message: "must contain at least one letter or digit"}
	}
	return app.WithDefaults(), nil
}

func validateCategory(c models.Category) error {
	if err := validateKeyPart("catKey", c.CatKey); err != nil {
		return err
	}
	if c.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	return nil
}

func validateSubcategory(s models.Subcategory) error {
	if err := validateKeyPart("catKey", s.CatKey); err != nil {
		return err
	}
	if err := validateKeyPart("subKey", s.SubKey); err != nil {
		return err
	}
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	return nil
}

func validateAppKey(catKey, subKey, slug string) error {
	if err := validateKeyPart("catKey", catKey); err != nil {
		return err
	}
	if err := validateKeyPart("subKey", subKey); err != nil {
		return err
	}
	return validateKeyPart("slug", slug)
}
