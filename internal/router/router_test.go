// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"portfolio/internal/handlers"
	"portfolio/internal/middleware"
	"portfolio/internal/store"
	"portfolio/internal/upload"
)

func newTestRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	mem := store.NewMemoryStore()
	return New(handlers.NewCatalog(mem), handlers.NewUploads(upload.NewService(nil, nil, "")), opts)
}

func serve(h http.Handler, method, path, body, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body["ok"] {
		t.Errorf("ok field: got %v, want true", body["ok"])
	}
}

func TestRoutesMounted(t *testing.T) {
	h := newTestRouter(t, Options{})

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/api/categories", "", http.StatusOK},
		{http.MethodPost, "/api/categories", `{"catKey":"ai","name":"AI"}`, http.StatusCreated},
		{http.MethodPut, "/api/categories/ai", `{"name":"AI+"}`, http.StatusOK},
		{http.MethodGet, "/api/categories/ai/subcategories", "", http.StatusOK},
		{http.MethodPost, "/api/subcategories", `{"catKey":"ai","subKey":"edu","name":"Edu"}`, http.StatusCreated},
		{http.MethodPut, "/api/subcategories/ai/edu", `{"name":"Education"}`, http.StatusOK},
		{http.MethodPost, "/api/apps", `{"catKey":"ai","subKey":"edu","name":"Tutor"}`, http.StatusCreated},
		{http.MethodGet, "/api/categories/ai/subcategories/edu/apps", "", http.StatusOK},
		{http.MethodGet, "/api/apps/ai/edu/tutor", "", http.StatusOK},
		{http.MethodPut, "/api/apps/ai/edu/tutor", `{"desc":"x"}`, http.StatusOK},
		{http.MethodDelete, "/api/apps/ai/edu/tutor", "", http.StatusNoContent},
		{http.MethodDelete, "/api/subcategories/ai/edu", "", http.StatusNoContent},
		{http.MethodDelete, "/api/categories/ai", "", http.StatusNoContent},
		{http.MethodPost, "/api/uploads/icon", `{"filename":"a.png"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/uploads/github", `{"filename":"a.png","contentBase64":"aGk="}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		rr := serve(h, tt.method, tt.path, tt.body, "")
		if rr.Code != tt.want {
			t.Errorf("%s %s: got %d, want %d (body %s)", tt.method, tt.path, rr.Code, tt.want, rr.Body.String())
		}
	}
}

func TestUnknownRoutesAnswerJSON(t *testing.T) {
	h := newTestRouter(t, Options{})

	rr := serve(h, http.MethodGet, "/api/nope", "", "")
	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), `"not_found"`) {
		t.Errorf("unknown path: %d %s", rr.Code, rr.Body.String())
	}

	rr = serve(h, http.MethodPatch, "/api/categories", "", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: got %d, want 405", rr.Code)
	}

	for _, rr := range []*httptest.ResponseRecorder{
		serve(h, http.MethodGet, "/api/nope", "", ""),
		serve(h, http.MethodPatch, "/api/categories", "", ""),
	} {
		var body struct{ Error, Detail string }
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode %s: %v", rr.Body.String(), err)
		}
		if body.Error == "" || body.Detail == "" {
			t.Errorf("error body missing fields: %s", rr.Body.String())
		}
	}
}

func TestPanicIsLoggedAndCounted(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	mem := store.NewMemoryStore()
	r := New(handlers.NewCatalog(mem), handlers.NewUploads(upload.NewService(nil, nil, "")), Options{Metrics: true})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rr := serve(r, http.MethodGet, "/boom", "", "")
	if rr.Code != http.StatusInternalServerError || !strings.Contains(rr.Body.String(), `"internal_error"`) {
		t.Fatalf("panic response: %d %s", rr.Code, rr.Body.String())
	}

	var logged bool
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, `msg="http request"`) && strings.Contains(line, "path=/boom") {
			logged = strings.Contains(line, "status=500")
		}
	}
	if !logged {
		t.Errorf("no status=500 request log for the panic:\n%s", buf.String())
	}

	rr = serve(r, http.MethodGet, "/metrics", "", "")
	if !strings.Contains(rr.Body.String(), `portfolio_http_requests_total{method="GET",route="/boom",status="500"}`) {
		t.Error("panic not counted as a 500 in request metrics")
	}
}

func TestAdminKeyGuardsWrites(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	h := newTestRouter(t, Options{AdminKeyHash: string(hash)})

	if rr := serve(h, http.MethodGet, "/api/categories", "", ""); rr.Code != http.StatusOK {
		t.Errorf("reads stay open: got %d", rr.Code)
	}
	if rr := serve(h, http.MethodPost, "/api/categories", `{"catKey":"ai","name":"AI"}`, ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("write without key: got %d, want 401", rr.Code)
	}
	if rr := serve(h, http.MethodPost, "/api/uploads/icon", `{"filename":"a.png"}`, ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("upload without key: got %d, want 401", rr.Code)
	}
	if rr := serve(h, http.MethodPost, "/api/categories", `{"catKey":"ai","name":"AI"}`, "Bearer letmein"); rr.Code != http.StatusCreated {
		t.Errorf("write with key: got %d, want 201", rr.Code)
	}
}

func TestUploadRateLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	h := newTestRouter(t, Options{UploadLimiter: rl})

	if rr := serve(h, http.MethodPost, "/api/uploads/icon", `{}`, ""); rr.Code == http.StatusTooManyRequests {
		t.Fatal("first upload should not be limited")
	}
	if rr := serve(h, http.MethodPost, "/api/uploads/icon", `{}`, ""); rr.Code != http.StatusTooManyRequests {
		t.Errorf("second upload: got %d, want 429", rr.Code)
	}
	if rr := serve(h, http.MethodGet, "/api/categories", "", ""); rr.Code != http.StatusOK {
		t.Errorf("catalog reads are not limited: got %d", rr.Code)
	}
}

func TestGlobalMiddleware(t *testing.T) {
	h := newTestRouter(t, Options{Metrics: true})

	rr := serve(h, http.MethodGet, "/api/health", "", "")
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("security headers missing: X-Content-Type-Options=%q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Origin", "https://portfolio.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("CORS: Allow-Origin=%q, want *", got)
	}

	rr = serve(h, http.MethodGet, "/metrics", "", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "portfolio_http_requests_total") {
		t.Errorf("metrics endpoint: %d", rr.Code)
	}
}

func TestMetricsDisabled(t *testing.T) {
	h := newTestRouter(t, Options{})
	if rr := serve(h, http.MethodGet, "/metrics", "", ""); rr.Code != http.StatusNotFound {
		t.Errorf("/metrics without Options.Metrics: got %d, want 404", rr.Code)
	}
}
