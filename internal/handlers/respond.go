// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"portfolio/internal/store"
)

// Error codes carried in the "error" field of failure responses.
const (
	codeValidation    = "validation_failed"
	codeConflict      = "conflict"
	codeHasChildren   = "has_children"
	codeNotFound      = "not_found"
	codeNotConfigured = "not_configured"
	codeUpstream      = "upstream_failure"
	codeInternal      = "internal_error"
)

// Request body limits.
const (
	maxCatalogBody = 1 << 20  // 1 MiB
	maxCommitBody  = 10 << 20 // 10 MiB of base64
)

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError sends an errorResponse.
func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorResponse{Error: code, Detail: detail})
}

// writeStoreError maps a store error onto a status code and error code.
// op names the failed operation in the log line of 500 responses.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	var ve *store.ValidationError
	var hc *store.HasChildrenError

	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, codeValidation, ve.Error())
	case errors.As(err, &hc):
		writeError(w, http.StatusBadRequest, codeHasChildren, hc.Error())
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusBadRequest, codeConflict, "an app with this name already exists in the subcategory")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusBadRequest, codeNotFound, err.Error())
	case errors.Is(err, store.ErrUpstream):
		slog.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeUpstream, "the catalog store is unavailable")
	default:
		slog.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "unexpected server error")
	}
}

// decodeJSON reads a JSON body of at most limit bytes into dst. An empty
// body decodes as an empty object. On failure the 400 response has already
// been written and false is returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeError(w, http.StatusRequestEntityTooLarge, codeValidation, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, codeValidation, "invalid JSON body: "+err.Error())
	return false
}

// parseForce reports whether the force query parameter is truthy:
// "1", "true" or "yes", case-insensitively.
func parseForce(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("force")) {
	case "1", "true", "yes":
		return true
	}
	return false
}
