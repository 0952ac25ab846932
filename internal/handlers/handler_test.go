// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests. The catalog is backed by an in-memory store so no services are
// needed.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/models"
	"portfolio/internal/store"
	"portfolio/internal/upload"
)

// testEnv bundles a catalog API mounted on a chi router.
type testEnv struct {
	Store   *store.MemoryStore
	Catalog *Catalog
	Uploads *Uploads
	Router  http.Handler
}

// newTestEnv mounts the handlers the way the router does, with uploads
// served by svc (which may be nil).
func newTestEnv(t *testing.T, svc *upload.Service) *testEnv {
	t.Helper()

	mem := store.NewMemoryStore()
	return newTestEnvWithStore(t, mem, mem, svc)
}

func newTestEnvWithStore(t *testing.T, mem *store.MemoryStore, s store.Catalog, svc *upload.Service) *testEnv {
	t.Helper()

	if svc == nil {
		svc = upload.NewService(nil, nil, "")
	}
	cat := NewCatalog(s)
	up := NewUploads(svc)

	r := chi.NewRouter()
	r.Get("/api/categories", cat.ListCategories)
	r.Post("/api/categories", cat.CreateCategory)
	r.Put("/api/categories/{catKey}", cat.UpdateCategory)
	r.Delete("/api/categories/{catKey}", cat.DeleteCategory)
	r.Get("/api/categories/{catKey}/subcategories", cat.ListSubcategories)
	r.Get("/api/categories/{catKey}/subcategories/{subKey}/apps", cat.ListApps)
	r.Post("/api/subcategories", cat.CreateSubcategory)
	r.Put("/api/subcategories/{catKey}/{subKey}", cat.UpdateSubcategory)
	r.Delete("/api/subcategories/{catKey}/{subKey}", cat.DeleteSubcategory)
	r.Post("/api/apps", cat.CreateApp)
	r.Get("/api/apps/{catKey}/{subKey}/{slug}", cat.GetApp)
	r.Put("/api/apps/{catKey}/{subKey}/{slug}", cat.UpdateApp)
	r.Delete("/api/apps/{catKey}/{subKey}/{slug}", cat.DeleteApp)
	r.Post("/api/uploads/icon", up.PresignIcon)
	r.Post("/api/uploads/github", up.CommitGitHub)

	return &testEnv{Store: mem, Catalog: cat, Uploads: up, Router: r}
}

// do sends a request with an optional JSON body through the router.
func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a JSON response body into v.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

// expectError asserts status and error code of a failure response.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) errorResponse {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Error != code {
		t.Errorf("error code = %q, want %q (detail %q)", resp.Error, code, resp.Detail)
	}
	return resp
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// seedEducation creates category ai, subcategory ai/education and the
// given apps through the store.
func seedEducation(t *testing.T, e *testEnv, appNames ...string) {
	t.Helper()
	ctx := context.Background()
	if _, err := e.Store.UpsertCategory(ctx, models.Category{CatKey: "ai", Name: "ARTIFICIAL INTELLIGENCE"}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if _, err := e.Store.UpsertSubcategory(ctx, models.Subcategory{CatKey: "ai", SubKey: "education", Name: "Education"}); err != nil {
		t.Fatalf("seed subcategory: %v", err)
	}
	for _, n := range appNames {
		if _, err := e.Store.CreateApp(ctx, models.App{CatKey: "ai", SubKey: "education", Name: n, MediaURL: "https://media.example.com/" + n}); err != nil {
			t.Fatalf("seed app %s: %v", n, err)
		}
	}
}
