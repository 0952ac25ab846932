// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the portfolio catalog
// API. Handlers are grouped by concern (catalog, uploads) and receive their
// dependencies through the handler struct.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/markdown"
	"portfolio/internal/models"
	"portfolio/internal/store"
)

// Catalog groups the category, subcategory and app handlers.
type Catalog struct {
	store store.Catalog
}

// NewCatalog creates the catalog handler group over s.
func NewCatalog(s store.Catalog) *Catalog {
	return &Catalog{store: s}
}

// --- Categories ---

// ListCategories returns every category.
func (h *Catalog) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.store.ListCategories(r.Context())
	if err != nil {
		writeStoreError(w, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// CreateCategory upserts the category in the body and answers 201.
func (h *Catalog) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.Category
	if !decodeJSON(w, r, maxCatalogBody, &in) {
		return
	}
	h.upsertCategory(w, r, in, http.StatusCreated)
}

// UpdateCategory upserts the body under the catKey from the URL.
func (h *Catalog) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.Category
	if !decodeJSON(w, r, maxCatalogBody, &in) {
		return
	}
	in.CatKey = chi.URLParam(r, "catKey")
	h.upsertCategory(w, r, in, http.StatusOK)
}

func (h *Catalog) upsertCategory(w http.ResponseWriter, r *http.Request, in models.Category, status int) {
	if msg := validateCategory(in); msg != "" {
		writeError(w, http.StatusBadRequest, codeValidation, msg)
		return
	}
	saved, err := h.store.UpsertCategory(r.Context(), in)
	if err != nil {
		writeStoreError(w, "upsert category", err)
		return
	}
	slog.Info("category saved", "cat_key", saved.CatKey)
	writeJSON(w, status, saved)
}

// DeleteCategory removes a category; ?force=true removes its subtree too.
func (h *Catalog) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	catKey := chi.URLParam(r, "catKey")
	force := parseForce(r)
	if err := h.store.DeleteCategory(r.Context(), catKey, force); err != nil {
		writeStoreError(w, "delete category", err)
		return
	}
	slog.Info("category deleted", "cat_key", catKey, "force", force)
	w.WriteHeader(http.StatusNoContent)
}

// --- Subcategories ---

// ListSubcategories returns the subcategories of one category.
func (h *Catalog) ListSubcategories(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.ListSubcategories(r.Context(), chi.URLParam(r, "catKey"))
	if err != nil {
		writeStoreError(w, "list subcategories", err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// CreateSubcategory upserts the subcategory in the body and answers 201.
func (h *Catalog) CreateSubcategory(w http.ResponseWriter, r *http.Request) {
	var in models.Subcategory
	if !decodeJSON(w, r, maxCatalogBody, &in) {
		return
	}
	h.upsertSubcategory(w, r, in, http.StatusCreated)
}

// UpdateSubcategory upserts the body under the keys from the URL.
func (h *Catalog) UpdateSubcategory(w http.ResponseWriter, r *http.Request) {
	var in models.Subcategory
	if !decodeJSON(w, r, maxCatalogBody, &in) {
		return
	}
	in.CatKey = chi.URLParam(r, "catKey")
	in.SubKey = chi.URLParam(r, "subKey")
	h.upsertSubcategory(w, r, in, http.StatusOK)
}

func (h *Catalog) upsertSubcategory(w http.ResponseWriter, r *http.Request, in models.Subcategory, status int) {
	if msg := validateSubcategory(in); msg != "" {
		writeError(w, http.StatusBadRequest, codeValidation, msg)
		return
	}
	saved, err := h.store.UpsertSubcategory(r.Context(), in)
	if err != nil {
		writeStoreError(w, "upsert subcategory", err)
		return
	}
	slog.Info("subcategory saved", "cat_key", saved.CatKey, "sub_key", saved.SubKey)
	writeJSON(w, status, saved)
}

// DeleteSubcategory removes a subcategory; ?force=true removes its apps too.
func (h *Catalog) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	catKey, subKey := chi.URLParam(r, "catKey"), chi.URLParam(r, "subKey")
	force := parseForce(r)
	if err := h.store.DeleteSubcategory(r.Context(), catKey, subKey, force); err != nil {
		writeStoreError(w, "delete subcategory", err)
		return
	}
	slog.Info("subcategory deleted", "cat_key", catKey, "sub_key", subKey, "force", force)
	w.WriteHeader(http.StatusNoContent)
}

// --- Apps ---

// appView is the single-app read: the record plus its rendered details.
type appView struct {
	*models.App
	DetailsHTML string `json:"detailsHtml"`
}

// ListApps returns the apps of one subcategory.
func (h *Catalog) ListApps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.store.ListApps(r.Context(), chi.URLParam(r, "catKey"), chi.URLParam(r, "subKey"))
	if err != nil {
		writeStoreError(w, "list apps", err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// GetApp returns one app with its details rendered from Markdown.
func (h *Catalog) GetApp(w http.ResponseWriter, r *http.Request) {
	app, err := h.store.GetApp(r.Context(),
		chi.URLParam(r, "catKey"), chi.URLParam(r, "subKey"), chi.URLParam(r, "slug"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, codeNotFound, "app not found")
		return
	}
	if err != nil {
		writeStoreError(w, "get app", err)
		return
	}

	html, err := markdown.ToHTML(app.Details)
	if err != nil {
		// The raw details are still returned.
		slog.Warn("render app details failed", "slug", app.Slug, "error", err)
	}
	writeJSON(w, http.StatusOK, appView{App: app, DetailsHTML: html})
}

// CreateApp creates the app in the body. Its slug is derived from the name;
// a taken slug answers 400 with the conflict code.
func (h *Catalog) CreateApp(w http.ResponseWriter, r *http.Request) {
	var in models.App
	if !decodeJSON(w, r, maxCatalogBody, &in) {
		return
	}
	if msg := validateApp(in); msg != "" {
		writeError(w, http.StatusBadRequest, codeValidation, msg)
		return
	}

	created, err := h.store.CreateApp(r.Context(), in)
	if err != nil {
		writeStoreError(w, "create app", err)
		return
	}
	slog.Info("app created", "cat_key", created.CatKey, "sub_key", created.SubKey, "slug", created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateApp merges the fields present in the body into an existing app.
func (h *Catalog) UpdateApp(w http.ResponseWriter, r *http.Request) {
	var patch models.AppPatch
	if !decodeJSON(w, r, maxCatalogBody, &patch) {
		return
	}
	if msg := validatePatch(patch); msg != "" {
		writeError(w, http.StatusBadRequest, codeValidation, msg)
		return
	}

	catKey, subKey, slug := chi.URLParam(r, "catKey"), chi.URLParam(r, "subKey"), chi.URLParam(r, "slug")
	if patch.IsEmpty() {
		// Nothing to merge: answer with the stored app and leave updatedAt alone.
		current, err := h.store.GetApp(r.Context(), catKey, subKey, slug)
		if err != nil {
			writeStoreError(w, "update app", err)
			return
		}
		writeJSON(w, http.StatusOK, current)
		return
	}
	updated, err := h.store.UpdateApp(r.Context(), catKey, subKey, slug, patch)
	if err != nil {
		writeStoreError(w, "update app", err)
		return
	}
	slog.Info("app updated", "cat_key", catKey, "sub_key", subKey, "slug", slug)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteApp removes an app. Deleting an absent app still answers 204.
func (h *Catalog) DeleteApp(w http.ResponseWriter, r *http.Request) {
	catKey, subKey, slug := chi.URLParam(r, "catKey"), chi.URLParam(r, "subKey"), chi.URLParam(r, "slug")
	if err := h.store.DeleteApp(r.Context(), catKey, subKey, slug); err != nil {
		writeStoreError(w, "delete app", err)
		return
	}
	slog.Info("app deleted", "cat_key", catKey, "sub_key", subKey, "slug", slug)
	w.WriteHeader(http.StatusNoContent)
}
