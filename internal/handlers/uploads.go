// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"portfolio/internal/github"
	"portfolio/internal/upload"
)

// Uploads groups the icon upload handlers.
type Uploads struct {
	svc *upload.Service
}

// NewUploads creates the upload handler group.
func NewUploads(svc *upload.Service) *Uploads {
	return &Uploads{svc: svc}
}

// PresignIcon returns a signed URL the browser PUTs an icon to.
func (h *Uploads) PresignIcon(w http.ResponseWriter, r *http.Request) {
	var req upload.PresignRequest
	if !decodeJSON(w, r, maxCatalogBody, &req) {
		return
	}

	res, err := h.svc.Presign(r.Context(), req)
	if err != nil {
		writeUploadError(w, "presign icon upload", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CommitGitHub commits base64 content to the source repository and returns
// its raw URL.
func (h *Uploads) CommitGitHub(w http.ResponseWriter, r *http.Request) {
	var req upload.CommitRequest
	if !decodeJSON(w, r, maxCommitBody, &req) {
		return
	}
	if strings.TrimSpace(req.Filename) == "" || req.ContentBase64 == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "filename and contentBase64 are required.")
		return
	}

	res, err := h.svc.Commit(r.Context(), req)
	if err != nil {
		writeUploadError(w, "commit upload", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeUploadError maps an upload error onto a status code and error code.
func writeUploadError(w http.ResponseWriter, op string, err error) {
	var rejected *github.RejectedError
	switch {
	case errors.Is(err, upload.ErrNotConfigured):
		writeError(w, http.StatusBadRequest, codeNotConfigured, err.Error())
	case errors.Is(err, upload.ErrInvalidContent):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.As(err, &rejected):
		slog.Warn(op+" rejected", "status", rejected.Status, "message", rejected.Message)
		writeError(w, http.StatusBadRequest, codeUpstream, rejected.Message)
	default:
		slog.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, codeUpstream, err.Error())
	}
}
