package handlers

import (
	"strings"
	"testing"

	"portfolio/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestValidateCategory(t *testing.T) {
	tests := []struct {
		name      string
		cat       models.Category
		wantError bool
	}{
		{"valid", models.Category{CatKey: "ai", Name: "AI"}, false},
		{"empty name", models.Category{CatKey: "ai"}, true},
		{"whitespace name", models.Category{CatKey: "ai", Name: "   "}, true},
		{"name too long", models.Category{CatKey: "ai", Name: strings.Repeat("a", 201)}, true},
		{"key too long", models.Category{CatKey: strings.Repeat("k", 101), Name: "AI"}, true},
		{"tagline too long", models.Category{CatKey: "ai", Name: "AI", Tagline: strings.Repeat("t", 501)}, true},
		{"multibyte name at cap", models.Category{CatKey: "ai", Name: strings.Repeat("é", 200)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateCategory(tt.cat)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateSubcategory(t *testing.T) {
	tests := []struct {
		name      string
		sub       models.Subcategory
		wantError bool
	}{
		{"valid", models.Subcategory{CatKey: "ai", SubKey: "edu", Name: "Education"}, false},
		{"empty name", models.Subcategory{CatKey: "ai", SubKey: "edu"}, true},
		{"sub key too long", models.Subcategory{CatKey: "ai", SubKey: strings.Repeat("s", 101), Name: "x"}, true},
		{"blurb too long", models.Subcategory{CatKey: "ai", SubKey: "edu", Name: "x", Blurb: strings.Repeat("b", 501)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateSubcategory(tt.sub)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateApp(t *testing.T) {
	base := models.App{CatKey: "ai", SubKey: "edu", Name: "AI Tutor"}
	with := func(f func(*models.App)) models.App {
		a := base
		f(&a)
		return a
	}

	tests := []struct {
		name      string
		app       models.App
		wantError bool
	}{
		{"valid", base, false},
		{"empty name", with(func(a *models.App) { a.Name = "" }), true},
		{"desc at cap", with(func(a *models.App) { a.Desc = strings.Repeat("d", 1_000) }), false},
		{"desc too long", with(func(a *models.App) { a.Desc = strings.Repeat("d", 1_001) }), true},
		{"details too long", with(func(a *models.App) { a.Details = strings.Repeat("d", 20_001) }), true},
		{"url too long", with(func(a *models.App) { a.PublicURL = "https://x/" + strings.Repeat("p", 2_048) }), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateApp(tt.app)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidatePatch(t *testing.T) {
	tests := []struct {
		name      string
		patch     models.AppPatch
		wantError bool
	}{
		{"empty patch", models.AppPatch{}, false},
		{"desc only", models.AppPatch{Desc: ptr("new")}, false},
		{"clearing desc", models.AppPatch{Desc: ptr("")}, false},
		{"blank name", models.AppPatch{Name: ptr("  ")}, true},
		{"thumb too long", models.AppPatch{ThumbURL: ptr(strings.Repeat("u", 2_049))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validatePatch(tt.patch)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
