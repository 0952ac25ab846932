// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload turns icon uploads into public URLs. Presign hands the
// browser a signed URL to PUT the file straight into object storage; Commit
// takes base64 content and commits it to the source repository. Both name
// files <prefix><YYYY-MM-DD>/<uuid>-<sanitised filename>.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/imaging"
	"portfolio/internal/storage"
)

const (
	// IconPrefix is the object-storage prefix for presigned icon uploads.
	IconPrefix = "icons/"

	// DefaultRepoPrefix is the repository directory committed files land in.
	DefaultRepoPrefix = "assets/icons/"

	// PresignExpiry is how long a presigned upload URL stays valid.
	PresignExpiry = 5 * time.Minute

	defaultContentType = "application/octet-stream"
	defaultFilename    = "icon"
)

var (
	// ErrNotConfigured is returned when the target backend has no credentials.
	ErrNotConfigured = errors.New("upload target not configured")

	// ErrInvalidContent is returned when committed content is not valid
	// base64, or not an image of the declared raster type.
	ErrInvalidContent = errors.New("invalid upload content")
)

// Presigner issues signed upload URLs. *storage.Client implements it.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (*storage.PresignedUpload, error)
	FileURL(key string) string
}

// Committer writes files to a repository. *github.Client implements it.
type Committer interface {
	CommitFile(ctx context.Context, path string, content []byte, message string) error
	RawURL(path string) string
}

// Service orchestrates both upload channels. Either backend may be nil.
type Service struct {
	presigner  Presigner
	committer  Committer
	repoPrefix string
	now        func() time.Time
	newID      func() string
}

// NewService creates an upload service. repoPrefix defaults to
// DefaultRepoPrefix.
func NewService(p Presigner, c Committer, repoPrefix string) *Service {
	if repoPrefix == "" {
		repoPrefix = DefaultRepoPrefix
	}
	if !strings.HasSuffix(repoPrefix, "/") {
		repoPrefix += "/"
	}
	return &Service{
		presigner:  p,
		committer:  c,
		repoPrefix: repoPrefix,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with
// an underscore. An empty name becomes "icon".
func SanitizeFilename(name string) string {
	if name == "" {
		return defaultFilename
	}
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// objectName builds <prefix><YYYY-MM-DD>/<id>-<sanitised filename>, with
// the date in UTC.
func objectName(prefix string, now time.Time, id, filename string) string {
	return prefix + now.UTC().Format("2006-01-02") + "/" + id + "-" + SanitizeFilename(filename)
}

// PresignRequest asks for a signed icon upload URL.
type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// PresignResult is returned to the browser. Headers must be sent with the PUT.
type PresignResult struct {
	UploadURL string            `json:"uploadUrl"`
	PublicURL string            `json:"publicUrl"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// Presign signs a PUT for a new icon object.
func (s *Service) Presign(ctx context.Context, req PresignRequest) (*PresignResult, error) {
	if s.presigner == nil {
		return nil, fmt.Errorf("object storage: %w", ErrNotConfigured)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	key := objectName(IconPrefix, s.now(), s.newID(), req.Filename)

	signed, err := s.presigner.PresignUpload(ctx, key, contentType, PresignExpiry)
	if err != nil {
		return nil, err
	}

	res := &PresignResult{
		UploadURL: signed.URL,
		PublicURL: s.presigner.FileURL(key),
		Key:       key,
	}
	if len(signed.Header) > 0 {
		res.Headers = make(map[string]string, len(signed.Header))
		for name := range signed.Header {
			res.Headers[name] = signed.Header.Get(name)
		}
	}
	slog.Info("icon upload presigned", "key", key, "content_type", contentType)
	return res, nil
}

// CommitRequest carries a file to commit to the repository.
type CommitRequest struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"contentType"`
	ContentBase64 string `json:"contentBase64"`
}

// CommitResult describes the committed file. Width and Height are set for
// raster images.
type CommitResult struct {
	PublicURL   string `json:"publicUrl"`
	Path        string `json:"path"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// Commit decodes the content, checks raster images decode, and commits it.
func (s *Service) Commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	if s.committer == nil {
		return nil, fmt.Errorf("source repository: %w", ErrNotConfigured)
	}

	content, err := decodeContent(req.ContentBase64)
	if err != nil {
		return nil, err
	}

	res := &CommitResult{ContentType: req.ContentType}
	if imaging.IsRaster(req.ContentType) {
		info, err := imaging.ProbeAs(content, req.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		res.Width, res.Height = info.Width, info.Height
	}

	path := objectName(s.repoPrefix, s.now(), s.newID(), req.Filename)
	if err := s.committer.CommitFile(ctx, path, content, "Add "+path); err != nil {
		return nil, err
	}

	res.Path = path
	res.PublicURL = s.committer.RawURL(path)
	return res, nil
}

// decodeContent accepts plain base64 or a data: URL, ignoring line breaks.
func decodeContent(raw string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(raw, "data:"); ok {
		_, payload, found := strings.Cut(rest, ";base64,")
		if !found {
			return nil, fmt.Errorf("%w: data URL is not base64", ErrInvalidContent)
		}
		raw = payload
	}
	raw = strings.NewReplacer("\n", "", "\r", "", " ", "").Replace(raw)

	content, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty content", ErrInvalidContent)
	}
	return content, nil
}
